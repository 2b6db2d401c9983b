package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weval-org/model-identity-api/internal/catalog"
	"github.com/weval-org/model-identity-api/internal/server/validator"
	"github.com/weval-org/model-identity-api/pkg/api"
)

type IdentifierHandler struct {
	service   catalog.Service
	validator *validator.Validator
}

func NewIdentifierHandler(service catalog.Service, v *validator.Validator) *IdentifierHandler {
	return &IdentifierHandler{
		service:   service,
		validator: v,
	}
}

// Parse handles POST /v1/identifiers/parse.
func (h *IdentifierHandler) Parse(c *gin.Context) {
	var req api.ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	resp := h.service.ParseIdentifiers(req.IDs, req.Mode, req.Options)
	c.JSON(http.StatusOK, resp)
}
