package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"network-dashboard/internal/config"
	"network-dashboard/internal/http/middleware"
	"network-dashboard/internal/logger"
	"network-dashboard/internal/service"
)

// Registrar mounts a binary's routes behind the shared middleware.
type Registrar interface {
	Register(r *gin.Engine, authMiddleware gin.HandlerFunc)
}

func NewRouter(handler Registrar, authMiddleware gin.HandlerFunc, env string, metrics *service.MetricsService, log zerolog.Logger) *gin.Engine {
	if env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics(metrics))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	handler.Register(r, authMiddleware)
	return r
}
