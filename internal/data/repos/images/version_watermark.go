package images

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type ImageVersionWatermarkRepo interface {
	Create(dbc dbctx.Context, placements []*domain.ImageVersionWatermark) ([]*domain.ImageVersionWatermark, error)
	GetByVersionID(dbc dbctx.Context, versionID uuid.UUID) ([]*domain.ImageVersionWatermark, error)
	// PruneOtherVersions deletes every placement on a version of imageID other
	// than keepVersionID; scoped by image, see ImageFilterRepo.
	PruneOtherVersions(dbc dbctx.Context, imageID, keepVersionID uuid.UUID) error
	DeleteByVersionAndPlacement(dbc dbctx.Context, versionID, placementID uuid.UUID) (int64, error)
	// NullifyWatermarkID detaches placements from a deleted preset; the frozen
	// copies stay behind.
	NullifyWatermarkID(dbc dbctx.Context, watermarkID uuid.UUID) error
	FullDeleteByImageID(dbc dbctx.Context, imageID uuid.UUID) error
}

type imageVersionWatermarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageVersionWatermarkRepo(db *gorm.DB, baseLog *logger.Logger) ImageVersionWatermarkRepo {
	return &imageVersionWatermarkRepo{db: db, log: baseLog.With("repo", "ImageVersionWatermarkRepo")}
}

func (r *imageVersionWatermarkRepo) Create(dbc dbctx.Context, placements []*domain.ImageVersionWatermark) ([]*domain.ImageVersionWatermark, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(placements) == 0 {
		return []*domain.ImageVersionWatermark{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&placements).Error; err != nil {
		return nil, err
	}
	return placements, nil
}

func (r *imageVersionWatermarkRepo) GetByVersionID(dbc dbctx.Context, versionID uuid.UUID) ([]*domain.ImageVersionWatermark, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.ImageVersionWatermark
	if err := transaction.WithContext(dbc.Ctx).
		Where("version_id = ?", versionID).
		Order("sort_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *imageVersionWatermarkRepo) PruneOtherVersions(dbc dbctx.Context, imageID, keepVersionID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("version_id IN (?)",
			transaction.Model(&domain.ImageVersion{}).
				Select("id").
				Where("image_id = ? AND id <> ?", imageID, keepVersionID),
		).
		Delete(&domain.ImageVersionWatermark{}).Error
}

func (r *imageVersionWatermarkRepo) DeleteByVersionAndPlacement(dbc dbctx.Context, versionID, placementID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("version_id = ? AND id = ?", versionID, placementID).
		Delete(&domain.ImageVersionWatermark{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *imageVersionWatermarkRepo) NullifyWatermarkID(dbc dbctx.Context, watermarkID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&domain.ImageVersionWatermark{}).
		Where("watermark_id = ?", watermarkID).
		Update("watermark_id", nil).Error
}

func (r *imageVersionWatermarkRepo) FullDeleteByImageID(dbc dbctx.Context, imageID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("version_id IN (?)",
			transaction.Model(&domain.ImageVersion{}).
				Select("id").
				Where("image_id = ?", imageID),
		).
		Delete(&domain.ImageVersionWatermark{}).Error
}
