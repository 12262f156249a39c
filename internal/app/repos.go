package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/data/repos"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type Repos struct {
	Image            repos.ImageRepo
	ImageVersion     repos.ImageVersionRepo
	ImageFilter      repos.ImageFilterRepo
	VersionWatermark repos.ImageVersionWatermarkRepo
	Watermark        repos.WatermarkRepo
	Filter           repos.FilterRepo

	Subscription     repos.SubscriptionRepo
	SubscriptionPlan repos.SubscriptionPlanRepo
	PlanFilter       repos.PlanFilterRepo

	Tx repos.TxRunner
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Image:            repos.NewImageRepo(db, log),
		ImageVersion:     repos.NewImageVersionRepo(db, log),
		ImageFilter:      repos.NewImageFilterRepo(db, log),
		VersionWatermark: repos.NewImageVersionWatermarkRepo(db, log),
		Watermark:        repos.NewWatermarkRepo(db, log),
		Filter:           repos.NewFilterRepo(db, log),

		Subscription:     repos.NewSubscriptionRepo(db, log),
		SubscriptionPlan: repos.NewSubscriptionPlanRepo(db, log),
		PlanFilter:       repos.NewPlanFilterRepo(db, log),

		Tx: repos.NewGormTxRunner(db),
	}
}
