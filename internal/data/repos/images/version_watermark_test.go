package images

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/lumen-backend/internal/data/repos/testutil"
	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
)

func TestImageVersionWatermarkRepoNullify(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewImageVersionWatermarkRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "repo-nullify@test.dev")
	img := testutil.SeedImage(t, ctx, tx, user.ID, 100)
	v := testutil.SeedVersion(t, ctx, tx, img.ID, time.Now().UTC())
	preset := testutil.SeedWatermark(t, ctx, tx, user.ID, "brand")
	other := testutil.SeedWatermark(t, ctx, tx, user.ID, "other")

	now := time.Now().UTC()
	if _, err := repo.Create(dbc, []*domain.ImageVersionWatermark{
		{VersionID: v.ID, WatermarkID: &preset.ID, Text: "brand", Position: "bottom-right", Opacity: 80, Font: "sans-serif", SortOrder: 0, AppliedAt: now},
		{VersionID: v.ID, WatermarkID: &other.ID, Text: "other", Position: "top-left", Opacity: 50, Font: "serif", SortOrder: 1, AppliedAt: now},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.NullifyWatermarkID(dbc, preset.ID); err != nil {
		t.Fatalf("nullify: %v", err)
	}

	placements, err := repo.GetByVersionID(dbc, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(placements) != 2 {
		t.Fatalf("placements = %d, want both to survive", len(placements))
	}
	if placements[0].WatermarkID != nil {
		t.Fatalf("detached placement still references preset")
	}
	if placements[0].Text != "brand" {
		t.Fatalf("frozen fields lost after nullify: %+v", placements[0])
	}
	if placements[1].WatermarkID == nil || *placements[1].WatermarkID != other.ID {
		t.Fatalf("unrelated placement was detached too")
	}
}

func TestImageVersionWatermarkRepoPruneScopedByImage(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewImageVersionWatermarkRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "repo-wm-prune@test.dev")
	imgA := testutil.SeedImage(t, ctx, tx, user.ID, 100)
	imgB := testutil.SeedImage(t, ctx, tx, user.ID, 100)

	now := time.Now().UTC()
	aOld := testutil.SeedVersion(t, ctx, tx, imgA.ID, now.Add(-time.Minute))
	aNew := testutil.SeedVersion(t, ctx, tx, imgA.ID, now)
	bOnly := testutil.SeedVersion(t, ctx, tx, imgB.ID, now)

	for _, v := range []*domain.ImageVersion{aOld, aNew, bOnly} {
		if _, err := repo.Create(dbc, []*domain.ImageVersionWatermark{
			{VersionID: v.ID, Text: "x", Position: "bottom-right", Opacity: 100, Font: "sans-serif", AppliedAt: now},
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := repo.PruneOtherVersions(dbc, imgA.ID, aNew.ID); err != nil {
		t.Fatalf("prune: %v", err)
	}

	if got, _ := repo.GetByVersionID(dbc, aOld.ID); len(got) != 0 {
		t.Fatalf("old version keeps %d placements", len(got))
	}
	if got, _ := repo.GetByVersionID(dbc, aNew.ID); len(got) != 1 {
		t.Fatalf("kept version lost its placement")
	}
	if got, _ := repo.GetByVersionID(dbc, bOnly.ID); len(got) != 1 {
		t.Fatalf("image B's placements were pruned by image A's edit")
	}
}
