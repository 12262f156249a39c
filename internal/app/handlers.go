package app

import (
	httpH "github.com/yungbote/lumen-backend/internal/http/handlers"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type Handlers struct {
	Image     *httpH.ImageHandler
	Filter    *httpH.FilterHandler
	Watermark *httpH.WatermarkHandler
	Quota     *httpH.QuotaHandler
	Health    *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Image:     httpH.NewImageHandler(s.Image, s.VersionChain),
		Filter:    httpH.NewFilterHandler(s.Filter),
		Watermark: httpH.NewWatermarkHandler(s.Watermark),
		Quota:     httpH.NewQuotaHandler(s.Quota),
		Health:    httpH.NewHealthHandler(),
	}
}
