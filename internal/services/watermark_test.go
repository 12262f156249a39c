package services

import (
	"testing"

	"github.com/yungbote/lumen-backend/internal/data/repos/testutil"
	"github.com/yungbote/lumen-backend/internal/domain/errs"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
)

const (
	featuresWatermarkOn     = `{"watermark_enabled": true}`
	featuresWatermarkOff    = `{"watermark_enabled": false}`
	featuresWatermarkAbsent = `{}`
)

func TestWatermarkApplyHappyPath(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "wm-apply@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "pro", planUnlimited, featuresWatermarkOn)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)
	img := testutil.SeedImage(t, env.ctx, env.tx, user.ID, 100)
	preset := testutil.SeedWatermark(t, env.ctx, env.tx, user.ID, "brand")

	version, placements, err := env.watermarks.Apply(env.ctx, user.ID, img.ID, preset.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if version == nil || len(placements) != 1 {
		t.Fatalf("version=%v placements=%d", version, len(placements))
	}
	// Preset fields are frozen onto the placement.
	p := placements[0]
	if p.Text != preset.Text || p.Position != preset.Position || p.Opacity != preset.Opacity || p.Font != preset.Font {
		t.Fatalf("placement %+v does not freeze preset %+v", p, preset)
	}
	if p.WatermarkID == nil || *p.WatermarkID != preset.ID {
		t.Fatalf("placement watermark id = %v, want %s", p.WatermarkID, preset.ID)
	}
}

func TestWatermarkApplyGatedByFeatureFlag(t *testing.T) {
	for name, features := range map[string]string{
		"flag false":   featuresWatermarkOff,
		"flag missing": featuresWatermarkAbsent,
		"flag garbage": `{"watermark_enabled": "maybe"}`,
	} {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			user := testutil.SeedUser(t, env.ctx, env.tx, "wm-gated@test.dev")
			plan := testutil.SeedPlan(t, env.ctx, env.tx, "basic", planUnlimited, features)
			testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)
			img := testutil.SeedImage(t, env.ctx, env.tx, user.ID, 100)
			preset := testutil.SeedWatermark(t, env.ctx, env.tx, user.ID, "brand")

			_, _, err := env.watermarks.Apply(env.ctx, user.ID, img.ID, preset.ID)
			if !errs.Is(err, errs.CodeWatermarkNotAllowed) {
				t.Fatalf("err = %v, want watermark_not_allowed", err)
			}
		})
	}
}

func TestWatermarkApplyRejectsBlankText(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "wm-blank@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "pro", planUnlimited, featuresWatermarkOn)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)
	img := testutil.SeedImage(t, env.ctx, env.tx, user.ID, 100)
	preset := testutil.SeedWatermark(t, env.ctx, env.tx, user.ID, "   ")

	_, _, err := env.watermarks.Apply(env.ctx, user.ID, img.ID, preset.ID)
	if !errs.Is(err, errs.CodeValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestWatermarkPresetLifecycle(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "wm-presets@test.dev")

	preset, err := env.watermarks.CreatePreset(env.ctx, user.ID, CreateWatermarkRequest{
		Name:     "corner mark",
		Text:     "© lumen",
		Position: "top-left",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if preset.Opacity != 100 || preset.Font != "sans-serif" {
		t.Fatalf("defaults not applied: %+v", preset)
	}

	presets, err := env.watermarks.ListPresets(env.ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(presets) != 1 {
		t.Fatalf("list len = %d, want 1", len(presets))
	}

	if err := env.watermarks.DeletePreset(env.ctx, user.ID, preset.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	presets, err = env.watermarks.ListPresets(env.ctx, user.ID)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(presets) != 0 {
		t.Fatalf("preset survived delete")
	}
}

func TestWatermarkCreatePresetValidation(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "wm-create-invalid@test.dev")

	cases := []struct {
		name string
		req  CreateWatermarkRequest
	}{
		{"blank text", CreateWatermarkRequest{Text: "  "}},
		{"bad position", CreateWatermarkRequest{Text: "x", Position: "middle-ish"}},
		{"opacity out of range", CreateWatermarkRequest{Text: "x", Opacity: intPtr(101)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.watermarks.CreatePreset(env.ctx, user.ID, tc.req)
			if !errs.Is(err, errs.CodeValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
		})
	}
}

func TestWatermarkDeletePresetKeepsPlacements(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.SeedUser(t, env.ctx, env.tx, "wm-delete-keeps@test.dev")
	plan := testutil.SeedPlan(t, env.ctx, env.tx, "pro", planUnlimited, featuresWatermarkOn)
	testutil.SeedSubscription(t, env.ctx, env.tx, user.ID, plan.ID)
	img := testutil.SeedImage(t, env.ctx, env.tx, user.ID, 100)
	preset := testutil.SeedWatermark(t, env.ctx, env.tx, user.ID, "brand")

	v, _, err := env.watermarks.Apply(env.ctx, user.ID, img.ID, preset.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := env.watermarks.DeletePreset(env.ctx, user.ID, preset.ID); err != nil {
		t.Fatalf("delete preset: %v", err)
	}

	placements, err := env.placementRepo.GetByVersionID(dbctx.Context{Ctx: env.ctx}, v.ID)
	if err != nil {
		t.Fatalf("get placements: %v", err)
	}
	if len(placements) != 1 {
		t.Fatalf("placements = %d, want the frozen copy to survive", len(placements))
	}
	if placements[0].WatermarkID != nil {
		t.Fatalf("placement still references the deleted preset")
	}
	if placements[0].Text != "brand" {
		t.Fatalf("frozen text lost: %+v", placements[0])
	}
}

func TestWatermarkPresetOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.SeedUser(t, env.ctx, env.tx, "wm-owner@test.dev")
	intruder := testutil.SeedUser(t, env.ctx, env.tx, "wm-intruder@test.dev")
	preset := testutil.SeedWatermark(t, env.ctx, env.tx, owner.ID, "brand")

	if err := env.watermarks.DeletePreset(env.ctx, intruder.ID, preset.ID); !errs.Is(err, errs.CodeNotFound) {
		t.Fatalf("err = %v, want not_found", err)
	}
}

func intPtr(v int) *int { return &v }
