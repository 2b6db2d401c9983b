package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weval-org/model-identity-api/internal/catalog"
	"github.com/weval-org/model-identity-api/pkg/api"
)

type LeaderboardHandler struct {
	service catalog.Service
}

func NewLeaderboardHandler(service catalog.Service) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// Leaderboard handles GET /v1/leaderboard.
func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	var filter api.LeaderboardFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		_ = c.Error(api.BadRequestError("Invalid leaderboard query parameters"))
		return
	}

	resp, err := h.service.Leaderboard(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to build leaderboard", err))
		return
	}

	c.JSON(http.StatusOK, resp)
}
