package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/lumen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lumen-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthMiddleware *httpMW.AuthMiddleware

	ImageHandler     *httpH.ImageHandler
	FilterHandler    *httpH.FilterHandler
	WatermarkHandler *httpH.WatermarkHandler
	QuotaHandler     *httpH.QuotaHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS())

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Images and their edit history
		if cfg.ImageHandler != nil {
			protected.POST("/images", cfg.ImageHandler.Upload)
			protected.GET("/images", cfg.ImageHandler.List)
			protected.GET("/images/:id", cfg.ImageHandler.Get)
			protected.GET("/images/:id/history", cfg.ImageHandler.History)
			protected.DELETE("/images/:id", cfg.ImageHandler.Delete)
		}

		// Filter catalog and edits
		if cfg.FilterHandler != nil {
			protected.GET("/filters", cfg.FilterHandler.Catalog)
			protected.POST("/images/:id/filters", cfg.FilterHandler.Apply)
			protected.GET("/images/:id/filters", cfg.FilterHandler.Latest)
			protected.DELETE("/images/:id/filters/:filterId", cfg.FilterHandler.Remove)
		}

		// Watermark presets and edits
		if cfg.WatermarkHandler != nil {
			protected.POST("/watermarks", cfg.WatermarkHandler.CreatePreset)
			protected.GET("/watermarks", cfg.WatermarkHandler.ListPresets)
			protected.DELETE("/watermarks/:id", cfg.WatermarkHandler.DeletePreset)
			protected.POST("/images/:id/watermarks", cfg.WatermarkHandler.Apply)
			protected.GET("/images/:id/watermarks", cfg.WatermarkHandler.Latest)
			protected.DELETE("/images/:id/watermarks/:placementId", cfg.WatermarkHandler.Remove)
		}

		// Quota
		if cfg.QuotaHandler != nil {
			protected.GET("/quota", cfg.QuotaHandler.Check)
		}
	}

	return r
}
