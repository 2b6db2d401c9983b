package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weval-org/model-identity-api/internal/catalog"
	"github.com/weval-org/model-identity-api/internal/config"
	"github.com/weval-org/model-identity-api/internal/server/middleware"
	"github.com/weval-org/model-identity-api/internal/store"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	service catalog.Service
	repo    store.Repository
}

func New(cfg *config.Config, logger *zap.Logger, service catalog.Service, repo store.Repository) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.Logger(logger))

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		service: service,
		repo:    repo,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
