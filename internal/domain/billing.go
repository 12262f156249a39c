package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubscriptionPlan carries quota limits and feature flags as semi-structured
// documents; decoding to typed values happens at the entitlement boundary.
type SubscriptionPlan struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`
	Slug string    `gorm:"uniqueIndex;not null" json:"slug"`

	Limits   datatypes.JSON `gorm:"column:limits;type:jsonb" json:"limits"`
	Features datatypes.JSON `gorm:"column:features;type:jsonb" json:"features"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SubscriptionPlan) TableName() string { return "subscription_plan" }

// PlanFilter is the plan→filter membership set gating filter application.
type PlanFilter struct {
	ID       uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PlanID   uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:ux_plan_filter_plan_filter" json:"plan_id"`
	Plan     *SubscriptionPlan `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlanID;references:ID" json:"plan,omitempty"`
	FilterID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:ux_plan_filter_plan_filter" json:"filter_id"`
	Filter   *Filter           `gorm:"constraint:OnDelete:CASCADE;foreignKey:FilterID;references:ID" json:"filter,omitempty"`
}

func (PlanFilter) TableName() string { return "plan_filter" }

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
)

type Subscription struct {
	ID     uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User             `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	PlanID uuid.UUID         `gorm:"type:uuid;not null" json:"plan_id"`
	Plan   *SubscriptionPlan `gorm:"foreignKey:PlanID;references:ID" json:"plan,omitempty"`

	Status   string     `gorm:"not null;default:'active'" json:"status"`
	StartsAt time.Time  `gorm:"column:starts_at;not null" json:"starts_at"`
	EndsAt   *time.Time `gorm:"column:ends_at" json:"ends_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Subscription) TableName() string { return "subscription" }
