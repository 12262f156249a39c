package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *domain.User {
	tb.Helper()
	u := &domain.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedImage(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, sizeBytes int64) *domain.Image {
	tb.Helper()
	img := &domain.Image{
		ID:          uuid.New(),
		UserID:      userID,
		OriginalURL: "https://cdn.example.com/original.jpg",
		StorageKey:  fmt.Sprintf("images/%s/%s", userID, uuid.New()),
		SizeBytes:   sizeBytes,
		CreatedAt:   time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(img).Error; err != nil {
		tb.Fatalf("seed image: %v", err)
	}
	return img
}

func SeedVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, imageID uuid.UUID, createdAt time.Time) *domain.ImageVersion {
	tb.Helper()
	v := &domain.ImageVersion{
		ID:          uuid.New(),
		ImageID:     imageID,
		RenderedURL: "https://cdn.example.com/original.jpg",
		Metadata:    datatypes.JSON([]byte(`{}`)),
		CreatedAt:   createdAt,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed version: %v", err)
	}
	return v
}

func SeedFilter(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *domain.Filter {
	tb.Helper()
	f := &domain.Filter{
		ID:   uuid.New(),
		Name: slug,
		Slug: slug,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed filter: %v", err)
	}
	return f
}

func SeedWatermark(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, text string) *domain.Watermark {
	tb.Helper()
	w := &domain.Watermark{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     "preset",
		Text:     text,
		Position: "bottom-right",
		Opacity:  80,
		Font:     "sans-serif",
	}
	if err := tx.WithContext(ctx).Create(w).Error; err != nil {
		tb.Fatalf("seed watermark: %v", err)
	}
	return w
}

func SeedPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string, limits, features string) *domain.SubscriptionPlan {
	tb.Helper()
	p := &domain.SubscriptionPlan{
		ID:       uuid.New(),
		Name:     slug,
		Slug:     slug,
		Limits:   datatypes.JSON([]byte(limits)),
		Features: datatypes.JSON([]byte(features)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed plan: %v", err)
	}
	return p
}

func SeedSubscription(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, planID uuid.UUID) *domain.Subscription {
	tb.Helper()
	s := &domain.Subscription{
		ID:       uuid.New(),
		UserID:   userID,
		PlanID:   planID,
		Status:   domain.SubscriptionStatusActive,
		StartsAt: time.Now().UTC().Add(-24 * time.Hour),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subscription: %v", err)
	}
	return s
}

func SeedPlanFilter(tb testing.TB, ctx context.Context, tx *gorm.DB, planID, filterID uuid.UUID) *domain.PlanFilter {
	tb.Helper()
	pf := &domain.PlanFilter{
		ID:       uuid.New(),
		PlanID:   planID,
		FilterID: filterID,
	}
	if err := tx.WithContext(ctx).Create(pf).Error; err != nil {
		tb.Fatalf("seed plan filter: %v", err)
	}
	return pf
}
