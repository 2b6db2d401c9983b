package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weval-org/model-identity-api/internal/catalog"
)

type HealthHandler struct {
	service catalog.Service
}

func NewHealthHandler(service catalog.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"rules_version": h.service.RulesVersion(),
	})
}
