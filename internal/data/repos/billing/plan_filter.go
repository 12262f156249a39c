package billing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type PlanFilterRepo interface {
	Create(dbc dbctx.Context, links []*domain.PlanFilter) ([]*domain.PlanFilter, error)
	// FilterIDsForPlan returns the membership set gating filter application.
	FilterIDsForPlan(dbc dbctx.Context, planID uuid.UUID) ([]uuid.UUID, error)
}

type planFilterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanFilterRepo(db *gorm.DB, baseLog *logger.Logger) PlanFilterRepo {
	return &planFilterRepo{db: db, log: baseLog.With("repo", "PlanFilterRepo")}
}

func (r *planFilterRepo) Create(dbc dbctx.Context, links []*domain.PlanFilter) ([]*domain.PlanFilter, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(links) == 0 {
		return []*domain.PlanFilter{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *planFilterRepo) FilterIDsForPlan(dbc dbctx.Context, planID uuid.UUID) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(dbc.Ctx).
		Model(&domain.PlanFilter{}).
		Where("plan_id = ?", planID).
		Pluck("filter_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
