package services

import (
	"strings"
	"testing"
	"time"

	"github.com/yungbote/lumen-backend/internal/data/repos/testutil"
	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/domain/errs"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
)

func TestImageUploadHappyPath(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "img-upload@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "pro", planUnlimited, planNoExtras)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)

	body := "fake image bytes"
	img, err := env.images.Upload(env.ctx, user.ID, "sunset.jpg", int64(len(body)), strings.NewReader(body))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if img.SizeBytes != int64(len(body)) {
		t.Fatalf("size = %d, want %d", img.SizeBytes, len(body))
	}
	if !strings.HasSuffix(img.StorageKey, ".jpg") {
		t.Fatalf("storage key %q should keep the extension", img.StorageKey)
	}
	if _, ok := env.store.objects[img.StorageKey]; !ok {
		t.Fatalf("object %q not written to the store", img.StorageKey)
	}
	if img.OriginalURL != env.store.PublicURL(img.StorageKey) {
		t.Fatalf("original url = %q", img.OriginalURL)
	}
}

func TestImageUploadWithoutSubscription(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "img-nosub@test.dev")

	_, err := env.images.Upload(env.ctx, user.ID, "a.png", 10, strings.NewReader("0123456789"))
	if !errs.Is(err, errs.CodeNoActiveSubscription) {
		t.Fatalf("err = %v, want no_active_subscription", err)
	}
}

func TestImageUploadCountQuota(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "img-count-quota@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "capped", `{"max_images_per_month": 2}`, planNoExtras)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)

	for i := 0; i < 2; i++ {
		if _, err := env.images.Upload(env.ctx, user.ID, "a.png", 4, strings.NewReader("data")); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}
	_, err := env.images.Upload(env.ctx, user.ID, "a.png", 4, strings.NewReader("data"))
	if !errs.Is(err, errs.CodeQuotaExceeded) {
		t.Fatalf("err = %v, want quota_exceeded", err)
	}
}

func TestImageUploadByteQuota(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "img-byte-quota@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "tiny", `{"max_bytes_per_month": 10}`, planNoExtras)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)

	if _, err := env.images.Upload(env.ctx, user.ID, "a.png", 6, strings.NewReader("123456")); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	// 6 + 5 > 10
	_, err := env.images.Upload(env.ctx, user.ID, "b.png", 5, strings.NewReader("12345"))
	if !errs.Is(err, errs.CodeQuotaExceeded) {
		t.Fatalf("err = %v, want quota_exceeded", err)
	}
	// 6 + 4 == 10 still fits.
	if _, err := env.images.Upload(env.ctx, user.ID, "c.png", 4, strings.NewReader("1234")); err != nil {
		t.Fatalf("boundary upload: %v", err)
	}
}

func TestImageUploadQuotaWindowRollover(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "img-rollover@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "capped", `{"max_images_per_month": 1}`, planNoExtras)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)

	// An image from the previous month does not count against this window.
	windowStart, _ := monthWindow(time.Now().UTC())
	lastMonth := windowStart.Add(-time.Hour)
	old := testutil.SeedImage(t, env.ctx, env.tx, user.ID, 4)
	if err := env.tx.WithContext(env.ctx).
		Model(&domain.Image{}).
		Where("id = ?", old.ID).
		Update("created_at", lastMonth).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	if _, err := env.images.Upload(env.ctx, user.ID, "a.png", 4, strings.NewReader("data")); err != nil {
		t.Fatalf("upload after rollover: %v", err)
	}
	// The fresh upload fills this month's single slot.
	_, err := env.images.Upload(env.ctx, user.ID, "b.png", 4, strings.NewReader("data"))
	if !errs.Is(err, errs.CodeQuotaExceeded) {
		t.Fatalf("err = %v, want quota_exceeded", err)
	}
}

func TestImageUploadRejectsEmptyFile(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "img-empty@test.dev")

	_, err := env.images.Upload(env.ctx, user.ID, "a.png", 0, strings.NewReader(""))
	if !errs.Is(err, errs.CodeValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestQuotaCheckReportsUsage(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "quota-report@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "capped", `{"max_images_per_month": 3, "max_bytes_per_month": 1000}`, planNoExtras)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)
	testutil.SeedImage(t, env.ctx, env.tx, user.ID, 400)
	testutil.SeedImage(t, env.ctx, env.tx, user.ID, 100)

	status, err := env.quota.Check(dbctx.Context{Ctx: env.ctx}, user.ID, 0)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.ImageCount != 2 || status.ByteTotal != 500 {
		t.Fatalf("usage = %d images / %d bytes, want 2 / 500", status.ImageCount, status.ByteTotal)
	}
	if status.CountExceeded || status.BytesExceeded {
		t.Fatalf("unexpected verdicts: %+v", status)
	}
	if rem := status.RemainingImages(); rem == nil || *rem != 1 {
		t.Fatalf("remaining images = %v, want 1", rem)
	}
	if rem := status.RemainingBytes(); rem == nil || *rem != 500 {
		t.Fatalf("remaining bytes = %v, want 500", rem)
	}
}

func TestQuotaOnlyCountsOwnImages(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "quota-own@test.dev")
	other := testutil.SeedUser(t, env.ctx, env.tx, "quota-other@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "capped", `{"max_images_per_month": 1}`, planNoExtras)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)
	testutil.SeedImage(t, env.ctx, env.tx, other.ID, 400)

	status, err := env.quota.Check(dbctx.Context{Ctx: env.ctx}, user.ID, 0)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if status.ImageCount != 0 || status.CountExceeded {
		t.Fatalf("foreign images leaked into the window: %+v", status)
	}
}

func TestImageDeleteRemovesChainAndObject(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "img-delete@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "pro", planUnlimited, planNoExtras)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)

	img, err := env.images.Upload(env.ctx, user.ID, "a.png", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	f := testutil.SeedFilter(t, env.ctx, env.tx, "fade")
	if _, _, err := env.chain.ApplyFilters(env.ctx, img.ID, []domain.FilterStackEntry{
		{FilterID: f.ID, Intensity: 100, SortOrder: 0},
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if err := env.images.Delete(env.ctx, user.ID, img.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got, _ := env.imageRepo.GetByID(dbctx.Context{Ctx: env.ctx}, img.ID); got != nil {
		t.Fatalf("image row survived delete")
	}
	if versions, _ := env.versionRepo.ListByImageID(dbctx.Context{Ctx: env.ctx}, img.ID); len(versions) != 0 {
		t.Fatalf("versions survived delete")
	}
	if len(env.store.deleted) != 1 || env.store.deleted[0] != img.StorageKey {
		t.Fatalf("stored object not deleted: %v", env.store.deleted)
	}
}

func TestImageGetHidesForeignImages(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.SeedUser(t, env.ctx, env.tx, "img-owner@test.dev")
	intruder := testutil.SeedUser(t, env.ctx, env.tx, "img-intruder@test.dev")
	img := testutil.SeedImage(t, env.ctx, env.tx, owner.ID, 100)

	if _, err := env.images.Get(env.ctx, intruder.ID, img.ID); !errs.Is(err, errs.CodeNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}
