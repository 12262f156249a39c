package domain

import (
	"time"

	"github.com/google/uuid"
)

// Watermark is a reusable preset. Placements freeze a copy of these fields,
// so deleting a preset never cascades into version history.
type Watermark struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Name     string `gorm:"not null" json:"name"`
	Text     string `gorm:"not null" json:"text"`
	Position string `gorm:"not null;default:'bottom-right'" json:"position"`
	Opacity  int    `gorm:"not null;default:100" json:"opacity"`
	Font     string `gorm:"not null;default:'sans-serif'" json:"font"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Watermark) TableName() string { return "watermark" }
