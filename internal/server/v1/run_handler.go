package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weval-org/model-identity-api/internal/catalog"
	"github.com/weval-org/model-identity-api/internal/server/validator"
	"github.com/weval-org/model-identity-api/pkg/api"
)

type RunHandler struct {
	service   catalog.Service
	validator *validator.Validator
}

func NewRunHandler(service catalog.Service, v *validator.Validator) *RunHandler {
	return &RunHandler{
		service:   service,
		validator: v,
	}
}

// SubmitRuns handles POST /v1/runs. Persistence is asynchronous; the
// response only acknowledges queueing.
func (h *RunHandler) SubmitRuns(c *gin.Context) {
	var req api.SubmitRunsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(api.ValidationError(h.validator.ParseError(err)))
		return
	}

	accepted := h.service.SubmitRuns(c.Request.Context(), req.Runs)
	c.JSON(http.StatusAccepted, api.SubmitRunsResponse{Accepted: accepted})
}

// RecentRuns handles GET /v1/runs/recent.
func (h *RunHandler) RecentRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		_ = c.Error(api.BadRequestError("Invalid limit parameter"))
		return
	}

	runs, err := h.service.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to list recent runs", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   runs,
	})
}
