package domain

import (
	"time"

	"github.com/google/uuid"
)

// Filter is a catalog entry; applying it is bookkeeping only, no pixels move.
type Filter struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`
	Slug string    `gorm:"uniqueIndex;not null" json:"slug"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Filter) TableName() string { return "filter" }
