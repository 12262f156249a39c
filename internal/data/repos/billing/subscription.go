package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type SubscriptionRepo interface {
	Create(dbc dbctx.Context, sub *domain.Subscription) (*domain.Subscription, error)
	// ActiveForUser returns the user's active subscription at the given
	// instant with the plan preloaded, most recently started first, or nil
	// when there is none.
	ActiveForUser(dbc dbctx.Context, userID uuid.UUID, at time.Time) (*domain.Subscription, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return &subscriptionRepo{db: db, log: baseLog.With("repo", "SubscriptionRepo")}
}

func (r *subscriptionRepo) Create(dbc dbctx.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *subscriptionRepo) ActiveForUser(dbc dbctx.Context, userID uuid.UUID, at time.Time) (*domain.Subscription, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var result domain.Subscription
	err := transaction.WithContext(dbc.Ctx).
		Preload("Plan").
		Where("user_id = ? AND status = ? AND starts_at <= ? AND (ends_at IS NULL OR ends_at > ?)",
			userID, domain.SubscriptionStatusActive, at, at).
		Order("starts_at DESC").
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
