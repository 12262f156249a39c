package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/platform/logger"
	"github.com/yungbote/lumen-backend/internal/platform/storage"
	"github.com/yungbote/lumen-backend/internal/services"
)

type Services struct {
	Entitlement  services.EntitlementService
	Quota        services.QuotaService
	VersionChain services.VersionChainService
	Filter       services.FilterService
	Watermark    services.WatermarkService
	Image        services.ImageService
}

func wireServices(db *gorm.DB, log *logger.Logger, r Repos) (Services, error) {
	log.Info("Wiring services...")

	store, err := storage.NewObjectStore(log)
	if err != nil {
		return Services{}, fmt.Errorf("init object store: %w", err)
	}

	entitlement := services.NewEntitlementService(db, log, r.Subscription, r.SubscriptionPlan)
	quota := services.NewQuotaService(db, log, entitlement, r.Image)
	chain := services.NewVersionChainService(db, log, r.Tx, r.Image, r.ImageVersion, r.ImageFilter, r.VersionWatermark)
	filter := services.NewFilterService(db, log, chain, entitlement, r.Image, r.Filter, r.PlanFilter)
	watermark := services.NewWatermarkService(db, log, r.Tx, chain, entitlement, r.Image, r.Watermark, r.VersionWatermark)
	image := services.NewImageService(db, log, r.Tx, quota, store, r.Image, r.ImageVersion, r.ImageFilter, r.VersionWatermark)

	return Services{
		Entitlement:  entitlement,
		Quota:        quota,
		VersionChain: chain,
		Filter:       filter,
		Watermark:    watermark,
		Image:        image,
	}, nil
}
