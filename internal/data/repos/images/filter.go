package images

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type FilterRepo interface {
	Create(dbc dbctx.Context, filters []*domain.Filter) ([]*domain.Filter, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Filter, error)
	List(dbc dbctx.Context) ([]*domain.Filter, error)
}

type filterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFilterRepo(db *gorm.DB, baseLog *logger.Logger) FilterRepo {
	return &filterRepo{db: db, log: baseLog.With("repo", "FilterRepo")}
}

func (r *filterRepo) Create(dbc dbctx.Context, filters []*domain.Filter) ([]*domain.Filter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(filters) == 0 {
		return []*domain.Filter{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&filters).Error; err != nil {
		return nil, err
	}
	return filters, nil
}

func (r *filterRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*domain.Filter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.Filter
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *filterRepo) List(dbc dbctx.Context) ([]*domain.Filter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*domain.Filter
	if err := transaction.WithContext(dbc.Ctx).
		Order("slug ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
