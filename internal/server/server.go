package server

import (
	"github.com/gin-gonic/gin"

	"cv-backend/internal/config"
	"cv-backend/internal/health"
	"cv-backend/internal/profiles"
	"cv-backend/internal/shared/server/middleware"
)

// NewRouter assembles the gin engine: middleware chain and the versioned
// API group.
func NewRouter(cfg config.Config, profilesHandler *profiles.Handler, healthHandler *health.Handler) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowOrigins))

	api := r.Group("/api/v1")
	healthHandler.Register(api)
	profilesHandler.Register(api)

	return r
}

// Addr formats the listen address for the configured port.
func Addr(port string) string {
	return ":" + port
}
