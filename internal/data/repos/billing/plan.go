package billing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type SubscriptionPlanRepo interface {
	Create(dbc dbctx.Context, plan *domain.SubscriptionPlan) (*domain.SubscriptionPlan, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.SubscriptionPlan, error)
}

type subscriptionPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionPlanRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionPlanRepo {
	return &subscriptionPlanRepo{db: db, log: baseLog.With("repo", "SubscriptionPlanRepo")}
}

func (r *subscriptionPlanRepo) Create(dbc dbctx.Context, plan *domain.SubscriptionPlan) (*domain.SubscriptionPlan, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *subscriptionPlanRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.SubscriptionPlan, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var result domain.SubscriptionPlan
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
