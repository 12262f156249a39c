package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/data/repos/billing"
	"github.com/yungbote/lumen-backend/internal/data/repos/images"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type ImageRepo = images.ImageRepo
type ImageVersionRepo = images.ImageVersionRepo
type ImageFilterRepo = images.ImageFilterRepo
type ImageVersionWatermarkRepo = images.ImageVersionWatermarkRepo
type WatermarkRepo = images.WatermarkRepo
type FilterRepo = images.FilterRepo

type SubscriptionRepo = billing.SubscriptionRepo
type SubscriptionPlanRepo = billing.SubscriptionPlanRepo
type PlanFilterRepo = billing.PlanFilterRepo

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return images.NewImageRepo(db, baseLog)
}
func NewImageVersionRepo(db *gorm.DB, baseLog *logger.Logger) ImageVersionRepo {
	return images.NewImageVersionRepo(db, baseLog)
}
func NewImageFilterRepo(db *gorm.DB, baseLog *logger.Logger) ImageFilterRepo {
	return images.NewImageFilterRepo(db, baseLog)
}
func NewImageVersionWatermarkRepo(db *gorm.DB, baseLog *logger.Logger) ImageVersionWatermarkRepo {
	return images.NewImageVersionWatermarkRepo(db, baseLog)
}
func NewWatermarkRepo(db *gorm.DB, baseLog *logger.Logger) WatermarkRepo {
	return images.NewWatermarkRepo(db, baseLog)
}
func NewFilterRepo(db *gorm.DB, baseLog *logger.Logger) FilterRepo {
	return images.NewFilterRepo(db, baseLog)
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return billing.NewSubscriptionRepo(db, baseLog)
}
func NewSubscriptionPlanRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionPlanRepo {
	return billing.NewSubscriptionPlanRepo(db, baseLog)
}
func NewPlanFilterRepo(db *gorm.DB, baseLog *logger.Logger) PlanFilterRepo {
	return billing.NewPlanFilterRepo(db, baseLog)
}
