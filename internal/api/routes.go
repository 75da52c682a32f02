package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the mockup API on r.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.Use(requestLogger(h.log))
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/mockup/restore", h.restore)
		api.GET("/mockup/:id", h.image)
	}
}

// NewEngine returns a gin engine with recovery and the mockup routes.
func NewEngine(h *Handler, mode string) *gin.Engine {
	if mode != "" {
		gin.SetMode(mode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, h)
	return r
}

func requestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"took", time.Since(start))
	}
}
