package server

import (
	"github.com/gin-gonic/gin"

	"github.com/weval-org/model-identity-api/internal/server/middleware"
	"github.com/weval-org/model-identity-api/internal/server/validator"
	v1 "github.com/weval-org/model-identity-api/internal/server/v1"
	"github.com/weval-org/model-identity-api/pkg/api"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	if s.config.Tracing.Enabled {
		s.router.Use(middleware.Tracing("model-identity-api"))
	}

	s.router.NoRoute(func(c *gin.Context) {
		_ = c.Error(api.NotFoundError("Route not found"))
	})

	// Health check (public)
	healthHandler := v1.NewHealthHandler(s.service)
	s.router.GET("/health", healthHandler.Health)

	valid := validator.New()

	grp := s.router.Group("/v1")
	grp.Use(middleware.Auth(s.repo, s.config.Server.APIKeys))

	limiter := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)
	grp.Use(limiter.Middleware())
	{
		identifierHandler := v1.NewIdentifierHandler(s.service, valid)
		grp.POST("/identifiers/parse", identifierHandler.Parse)

		modelHandler := v1.NewModelHandler(s.service)
		grp.GET("/models", modelHandler.ListModels)

		leaderboardHandler := v1.NewLeaderboardHandler(s.service)
		grp.GET("/leaderboard", leaderboardHandler.Leaderboard)

		runHandler := v1.NewRunHandler(s.service, valid)
		grp.POST("/runs", runHandler.SubmitRuns)
		grp.GET("/runs/recent", runHandler.RecentRuns)
	}
}
