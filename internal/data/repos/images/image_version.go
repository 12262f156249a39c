package images

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type ImageVersionRepo interface {
	Create(dbc dbctx.Context, v *domain.ImageVersion) (*domain.ImageVersion, error)
	// LatestByImageID returns the newest version by (created_at, id), or nil
	// when the image has no versions yet.
	LatestByImageID(dbc dbctx.Context, imageID uuid.UUID) (*domain.ImageVersion, error)
	ListByImageID(dbc dbctx.Context, imageID uuid.UUID) ([]*domain.ImageVersion, error)
	// UpdateMetadata is the narrow metadata-repair write used when a single
	// link is removed from the latest version without creating a new one.
	UpdateMetadata(dbc dbctx.Context, versionID uuid.UUID, metadata datatypes.JSON) error
	FullDeleteByImageID(dbc dbctx.Context, imageID uuid.UUID) error
}

type imageVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageVersionRepo(db *gorm.DB, baseLog *logger.Logger) ImageVersionRepo {
	return &imageVersionRepo{db: db, log: baseLog.With("repo", "ImageVersionRepo")}
}

func (r *imageVersionRepo) Create(dbc dbctx.Context, v *domain.ImageVersion) (*domain.ImageVersion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (r *imageVersionRepo) LatestByImageID(dbc dbctx.Context, imageID uuid.UUID) (*domain.ImageVersion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var result domain.ImageVersion
	err := transaction.WithContext(dbc.Ctx).
		Where("image_id = ?", imageID).
		Order("created_at DESC, id DESC").
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *imageVersionRepo) ListByImageID(dbc dbctx.Context, imageID uuid.UUID) ([]*domain.ImageVersion, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.ImageVersion
	if err := transaction.WithContext(dbc.Ctx).
		Where("image_id = ?", imageID).
		Order("created_at DESC, id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *imageVersionRepo) UpdateMetadata(dbc dbctx.Context, versionID uuid.UUID, metadata datatypes.JSON) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&domain.ImageVersion{}).
		Where("id = ?", versionID).
		Update("metadata", metadata).Error
}

func (r *imageVersionRepo) FullDeleteByImageID(dbc dbctx.Context, imageID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("image_id = ?", imageID).
		Delete(&domain.ImageVersion{}).Error
}
