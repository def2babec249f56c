package httpapi

import (
	"net/http"
	"time"

	"cpaptracker-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// NewRouter registers the API routes. metricsHandler may be nil.
func NewRouter(h *Handler, metricsHandler http.Handler, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.GET("/health", h.Health)
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := r.Group("/api/v1")
	{
		api.GET("/status", h.Status)
		api.GET("/upcoming", h.Upcoming)
		api.GET("/export", h.Export)
		api.POST("/sweep", h.RunSweep)
		api.GET("/notifications", h.Notifications)

		parts := api.Group("/parts")
		parts.GET("", h.ListParts)
		parts.POST("", h.CreatePart)
		parts.POST("/initialize", h.InitializeAll)
		parts.GET("/:id", h.GetPart)
		parts.PUT("/:id", h.UpdatePart)
		parts.DELETE("/:id", h.DeletePart)
		parts.GET("/:id/history", h.History)
		parts.POST("/:id/replaced", h.MarkReplaced)
		parts.POST("/:id/ordered", h.MarkOrdered)
		parts.POST("/:id/initialize", h.InitializePart)

		equipment := api.Group("/equipment")
		equipment.GET("", h.ListEquipment)
		equipment.GET("/:id/parts", h.EquipmentParts)
	}

	return r
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
