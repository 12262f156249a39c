package services

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/data/repos"
	"github.com/yungbote/lumen-backend/internal/domain/errs"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

// Entitlement is the decoded view of a user's active plan. Nil limit means
// unbounded; nil feature flag means unknown, which callers must treat as not
// granted.
type Entitlement struct {
	PlanID   uuid.UUID           `json:"plan_id"`
	PlanName string              `json:"plan_name"`
	Limits   EntitlementLimits   `json:"limits"`
	Features EntitlementFeatures `json:"features"`
}

type EntitlementLimits struct {
	MaxImagesPerWindow *int64 `json:"max_images_per_window"`
	MaxBytesPerWindow  *int64 `json:"max_bytes_per_window"`
}

type EntitlementFeatures struct {
	WatermarkEnabled *bool `json:"watermark_enabled"`
}

type EntitlementService interface {
	// Resolve returns the entitlement of the user's active subscription, or a
	// no_active_subscription error when there is none.
	Resolve(dbc dbctx.Context, userID uuid.UUID) (*Entitlement, error)
}

type entitlementService struct {
	db       *gorm.DB
	log      *logger.Logger
	subRepo  repos.SubscriptionRepo
	planRepo repos.SubscriptionPlanRepo
}

func NewEntitlementService(
	db *gorm.DB,
	baseLog *logger.Logger,
	subRepo repos.SubscriptionRepo,
	planRepo repos.SubscriptionPlanRepo,
) EntitlementService {
	return &entitlementService{
		db:       db,
		log:      baseLog.With("service", "EntitlementService"),
		subRepo:  subRepo,
		planRepo: planRepo,
	}
}

func (s *entitlementService) Resolve(dbc dbctx.Context, userID uuid.UUID) (*Entitlement, error) {
	sub, err := s.subRepo.ActiveForUser(dbc, userID, time.Now().UTC())
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "entitlement.resolve", err)
	}
	if sub == nil {
		return nil, errs.New(errs.CodeNoActiveSubscription, "entitlement.resolve", "user has no active subscription")
	}
	plan := sub.Plan
	if plan == nil {
		plan, err = s.planRepo.GetByID(dbc, sub.PlanID)
		if err != nil {
			return nil, errs.Wrap(errs.CodeInternal, "entitlement.resolve", err)
		}
		if plan == nil {
			return nil, errs.New(errs.CodeNoActiveSubscription, "entitlement.resolve", "subscription references a missing plan")
		}
	}
	return &Entitlement{
		PlanID:   plan.ID,
		PlanName: plan.Name,
		Limits:   decodePlanLimits(plan.Limits),
		Features: decodePlanFeatures(plan.Features),
	}, nil
}

// decodePlanLimits parses the plan's semi-structured limits document.
// Missing or non-numeric fields resolve to nil (unbounded); numeric-like
// strings are accepted.
func decodePlanLimits(doc datatypes.JSON) EntitlementLimits {
	raw := decodeDoc(doc)
	return EntitlementLimits{
		MaxImagesPerWindow: coerceInt64(raw["max_images_per_month"]),
		MaxBytesPerWindow:  coerceInt64(raw["max_bytes_per_month"]),
	}
}

// decodePlanFeatures parses the plan's feature flag document. Missing or
// non-boolean fields resolve to nil (unknown, fail closed); boolean-like
// strings are accepted.
func decodePlanFeatures(doc datatypes.JSON) EntitlementFeatures {
	raw := decodeDoc(doc)
	return EntitlementFeatures{
		WatermarkEnabled: coerceBool(raw["watermark_enabled"]),
	}
}

func decodeDoc(doc datatypes.JSON) map[string]interface{} {
	if len(doc) == 0 {
		return nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil
	}
	return raw
}

func coerceInt64(v interface{}) *int64 {
	switch t := v.(type) {
	case float64:
		n := int64(t)
		return &n
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

func coerceBool(v interface{}) *bool {
	switch t := v.(type) {
	case bool:
		b := t
		return &b
	case string:
		switch strings.TrimSpace(strings.ToLower(t)) {
		case "true":
			b := true
			return &b
		case "false":
			b := false
			return &b
		default:
			return nil
		}
	default:
		return nil
	}
}
