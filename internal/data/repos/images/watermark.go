package images

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type WatermarkRepo interface {
	Create(dbc dbctx.Context, w *domain.Watermark) (*domain.Watermark, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Watermark, error)
	ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Watermark, error)
	FullDeleteByID(dbc dbctx.Context, id uuid.UUID) error
}

type watermarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWatermarkRepo(db *gorm.DB, baseLog *logger.Logger) WatermarkRepo {
	return &watermarkRepo{db: db, log: baseLog.With("repo", "WatermarkRepo")}
}

func (r *watermarkRepo) Create(dbc dbctx.Context, w *domain.Watermark) (*domain.Watermark, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

func (r *watermarkRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Watermark, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var result domain.Watermark
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

func (r *watermarkRepo) ListByUserID(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Watermark, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.Watermark
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *watermarkRepo) FullDeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&domain.Watermark{}).Error
}
