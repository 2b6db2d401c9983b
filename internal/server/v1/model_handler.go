package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weval-org/model-identity-api/internal/catalog"
	"github.com/weval-org/model-identity-api/pkg/api"
)

type ModelHandler struct {
	service catalog.Service
}

func NewModelHandler(service catalog.Service) *ModelHandler {
	return &ModelHandler{service: service}
}

// ListModels handles GET /v1/models.
func (h *ModelHandler) ListModels(c *gin.Context) {
	models, err := h.service.ListModels(c.Request.Context())
	if err != nil {
		_ = c.Error(api.InternalError("Failed to list models", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   models,
	})
}
