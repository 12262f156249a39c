package images

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type ImageRepo interface {
	Create(dbc dbctx.Context, img *domain.Image) (*domain.Image, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Image, error)
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Image, error)
	// UsageInWindow returns the count and byte total of images the user
	// created inside [start, end).
	UsageInWindow(dbc dbctx.Context, userID uuid.UUID, start, end time.Time) (count int64, bytes int64, err error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) error
}

type imageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImageRepo(db *gorm.DB, baseLog *logger.Logger) ImageRepo {
	return &imageRepo{db: db, log: baseLog.With("repo", "ImageRepo")}
}

func (r *imageRepo) Create(dbc dbctx.Context, img *domain.Image) (*domain.Image, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(img).Error; err != nil {
		return nil, err
	}
	return img, nil
}

func (r *imageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Image, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var result domain.Image
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *imageRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Image, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.Image
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *imageRepo) UsageInWindow(dbc dbctx.Context, userID uuid.UUID, start, end time.Time) (int64, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var row struct {
		Count int64
		Bytes int64
	}
	err := transaction.WithContext(dbc.Ctx).
		Model(&domain.Image{}).
		Select("COUNT(*) AS count, COALESCE(SUM(size_bytes), 0) AS bytes").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Count, row.Bytes, nil
}

func (r *imageRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&domain.Image{}).Error
}
