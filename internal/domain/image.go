package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Image is an uploaded asset owned by exactly one user. The row is immutable
// after creation; edits accumulate on ImageVersion instead.
type Image struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	OriginalURL string `gorm:"column:original_url;not null" json:"original_url"`
	StorageKey  string `gorm:"column:storage_key;not null" json:"storage_key"`
	SizeBytes   int64  `gorm:"column:size_bytes;not null" json:"size_bytes"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (Image) TableName() string { return "image" }

// ImageVersion is one immutable snapshot in an image's edit history.
// Versions are totally ordered by (created_at, id); the maximum is the
// latest version, and only the latest version's links are live.
type ImageVersion struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ImageID uuid.UUID `gorm:"type:uuid;not null;index" json:"image_id"`
	Image   *Image    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ImageID;references:ID" json:"image,omitempty"`

	RenderedURL string         `gorm:"column:rendered_url;not null" json:"rendered_url"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (ImageVersion) TableName() string { return "image_version" }

// ImageFilter links a version to an applied filter.
type ImageFilter struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VersionID uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:ux_image_filter_version_filter" json:"version_id"`
	Version   *ImageVersion `gorm:"constraint:OnDelete:CASCADE;foreignKey:VersionID;references:ID" json:"version,omitempty"`
	FilterID  uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:ux_image_filter_version_filter" json:"filter_id"`

	Intensity int       `gorm:"not null;default:100" json:"intensity"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	AppliedAt time.Time `gorm:"column:applied_at;not null;default:now()" json:"applied_at"`
}

func (ImageFilter) TableName() string { return "image_filter" }

// ImageVersionWatermark links a version to an applied watermark. The preset's
// fields are frozen at application time, so WatermarkID may dangle (nullable)
// after the preset is deleted without losing the placement.
type ImageVersionWatermark struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VersionID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"version_id"`
	Version     *ImageVersion `gorm:"constraint:OnDelete:CASCADE;foreignKey:VersionID;references:ID" json:"version,omitempty"`
	WatermarkID *uuid.UUID    `gorm:"type:uuid" json:"watermark_id,omitempty"`

	Text      string    `gorm:"not null" json:"text"`
	Position  string    `gorm:"not null;default:'bottom-right'" json:"position"`
	Opacity   int       `gorm:"not null;default:100" json:"opacity"`
	Font      string    `gorm:"not null;default:'sans-serif'" json:"font"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	AppliedAt time.Time `gorm:"column:applied_at;not null;default:now()" json:"applied_at"`
}

func (ImageVersionWatermark) TableName() string { return "image_version_watermark" }

// VersionMetadata is the typed shape of ImageVersion.Metadata. Exactly one of
// Filters / WatermarkIDs is populated depending on the edit kind.
type VersionMetadata struct {
	Edit         string             `json:"edit"`
	Filters      []FilterStackEntry `json:"filters,omitempty"`
	WatermarkIDs []uuid.UUID        `json:"watermark_ids,omitempty"`
}

const (
	EditKindFilters   = "filters"
	EditKindWatermark = "watermark"
)

type FilterStackEntry struct {
	FilterID  uuid.UUID `json:"filter_id"`
	Intensity int       `json:"intensity"`
	SortOrder int       `json:"sort_order"`
}
