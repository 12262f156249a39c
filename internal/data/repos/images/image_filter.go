package images

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type ImageFilterRepo interface {
	Create(dbc dbctx.Context, links []*domain.ImageFilter) ([]*domain.ImageFilter, error)
	GetByVersionID(dbc dbctx.Context, versionID uuid.UUID) ([]*domain.ImageFilter, error)
	// PruneOtherVersions deletes every filter link belonging to a version of
	// imageID other than keepVersionID. Scoped by image so links on other
	// images' version chains are never touched.
	PruneOtherVersions(dbc dbctx.Context, imageID, keepVersionID uuid.UUID) error
	// DeleteByVersionAndFilter removes one link row and reports how many rows
	// matched.
	DeleteByVersionAndFilter(dbc dbctx.Context, versionID, filterID uuid.UUID) (int64, error)
	FullDeleteByImageID(dbc dbctx.Context, imageID uuid.UUID) error
}

type imageFilterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageFilterRepo(db *gorm.DB, baseLog *logger.Logger) ImageFilterRepo {
	return &imageFilterRepo{db: db, log: baseLog.With("repo", "ImageFilterRepo")}
}

func (r *imageFilterRepo) Create(dbc dbctx.Context, links []*domain.ImageFilter) ([]*domain.ImageFilter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(links) == 0 {
		return []*domain.ImageFilter{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *imageFilterRepo) GetByVersionID(dbc dbctx.Context, versionID uuid.UUID) ([]*domain.ImageFilter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.ImageFilter
	if err := transaction.WithContext(dbc.Ctx).
		Where("version_id = ?", versionID).
		Order("sort_order ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *imageFilterRepo) PruneOtherVersions(dbc dbctx.Context, imageID, keepVersionID uuid.UUID) error {
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
		Delete(&domain.ImageFilter{}).Error
}

func (r *imageFilterRepo) DeleteByVersionAndFilter(dbc dbctx.Context, versionID, filterID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("version_id = ? AND filter_id = ?", versionID, filterID).
		Delete(&domain.ImageFilter{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *imageFilterRepo) FullDeleteByImageID(dbc dbctx.Context, imageID uuid.UUID) error {
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
		Delete(&domain.ImageFilter{}).Error
}
