package app

import (
	"github.com/gin-gonic/gin"

	lumenhttp "github.com/yungbote/lumen-backend/internal/http"
	httpMW "github.com/yungbote/lumen-backend/internal/http/middleware"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

func wireRouter(handlers Handlers, auth *httpMW.AuthMiddleware) *gin.Engine {
	return lumenhttp.NewRouter(lumenhttp.RouterConfig{
		AuthMiddleware:   auth,
		ImageHandler:     handlers.Image,
		FilterHandler:    handlers.Filter,
		WatermarkHandler: handlers.Watermark,
		QuotaHandler:     handlers.Quota,
		HealthHandler:    handlers.Health,
	})
}

func wireMiddleware(log *logger.Logger, cfg Config) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey)
}
