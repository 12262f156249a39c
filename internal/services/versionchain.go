package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/data/repos"
	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/domain/errs"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

// VersionChainService owns the append-only version history of an image and
// the single live projection at its head. Every mutation runs inside one
// transaction: create the new version, write its links, then prune the link
// rows of every older version of the same image.
type VersionChainService interface {
	ApplyFilters(ctx context.Context, imageID uuid.UUID, stack []domain.FilterStackEntry) (*domain.ImageVersion, []*domain.ImageFilter, error)
	ApplyWatermark(ctx context.Context, imageID uuid.UUID, preset *domain.Watermark) (*domain.ImageVersion, []*domain.ImageVersionWatermark, error)
	// RemoveLatestFilter deletes one filter link from the latest version in
	// place, without appending a new version.
	RemoveLatestFilter(ctx context.Context, imageID, filterID uuid.UUID) error
	// RemoveLatestWatermark deletes one placement from the latest version in
	// place, without appending a new version.
	RemoveLatestWatermark(ctx context.Context, imageID, placementID uuid.UUID) error
	History(ctx context.Context, imageID uuid.UUID) ([]*domain.ImageVersion, error)
	LatestFilters(ctx context.Context, imageID uuid.UUID) (*domain.ImageVersion, []*domain.ImageFilter, error)
	LatestWatermarks(ctx context.Context, imageID uuid.UUID) (*domain.ImageVersion, []*domain.ImageVersionWatermark, error)
}

type versionChainService struct {
	db            *gorm.DB
	log           *logger.Logger
	tx            repos.TxRunner
	imageRepo     repos.ImageRepo
	versionRepo   repos.ImageVersionRepo
	filterLinks   repos.ImageFilterRepo
	placementRepo repos.ImageVersionWatermarkRepo
}

func NewVersionChainService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tx repos.TxRunner,
	imageRepo repos.ImageRepo,
	versionRepo repos.ImageVersionRepo,
	filterLinks repos.ImageFilterRepo,
	placementRepo repos.ImageVersionWatermarkRepo,
) VersionChainService {
	return &versionChainService{
		db:            db,
		log:           baseLog.With("service", "VersionChainService"),
		tx:            tx,
		imageRepo:     imageRepo,
		versionRepo:   versionRepo,
		filterLinks:   filterLinks,
		placementRepo: placementRepo,
	}
}

// runInTx runs fn in a transaction and retries once when the database aborts
// it with a serialization failure. A second failure surfaces as conflict.
func (s *versionChainService) runInTx(ctx context.Context, op string, fn func(dbc dbctx.Context) error) error {
	err := s.tx.InTx(ctx, fn)
	if repos.IsSerializationFailure(err) {
		s.log.Warn("retrying after serialization failure", "op", op)
		err = s.tx.InTx(ctx, fn)
		if repos.IsSerializationFailure(err) {
			return errs.Wrap(errs.CodeConflict, op, err)
		}
	}
	return err
}

func (s *versionChainService) ApplyFilters(ctx context.Context, imageID uuid.UUID, stack []domain.FilterStackEntry) (*domain.ImageVersion, []*domain.ImageFilter, error) {
	const op = "versionchain.apply_filters"

	var (
		version *domain.ImageVersion
		links   []*domain.ImageFilter
	)
	err := s.runInTx(ctx, op, func(dbc dbctx.Context) error {
		version, links = nil, nil

		img, err := s.imageRepo.GetByID(dbc, imageID)
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}
		if img == nil {
			return errs.New(errs.CodeNotFound, op, "image not found")
		}

		now := time.Now().UTC()
		meta, err := json.Marshal(domain.VersionMetadata{
			Edit:    domain.EditKindFilters,
			Filters: stack,
		})
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}

		version, err = s.versionRepo.Create(dbc, &domain.ImageVersion{
			ImageID:     imageID,
			RenderedURL: img.OriginalURL,
			Metadata:    datatypes.JSON(meta),
			CreatedAt:   now,
		})
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}

		for _, entry := range stack {
			links = append(links, &domain.ImageFilter{
				VersionID: version.ID,
				FilterID:  entry.FilterID,
				Intensity: entry.Intensity,
				SortOrder: entry.SortOrder,
				AppliedAt: now,
			})
		}
		if links, err = s.filterLinks.Create(dbc, links); err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}

		if err := s.pruneOlderVersions(dbc, op, imageID, version.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return version, links, nil
}

func (s *versionChainService) ApplyWatermark(ctx context.Context, imageID uuid.UUID, preset *domain.Watermark) (*domain.ImageVersion, []*domain.ImageVersionWatermark, error) {
	const op = "versionchain.apply_watermark"

	var (
		version    *domain.ImageVersion
		placements []*domain.ImageVersionWatermark
	)
	err := s.runInTx(ctx, op, func(dbc dbctx.Context) error {
		version, placements = nil, nil

		img, err := s.imageRepo.GetByID(dbc, imageID)
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}
		if img == nil {
			return errs.New(errs.CodeNotFound, op, "image not found")
		}

		prev, err := s.versionRepo.LatestByImageID(dbc, imageID)
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}

		// Watermark edits are cumulative: carry every placement of the
		// previous version forward, then append the new one after them.
		var carried []*domain.ImageVersionWatermark
		if prev != nil {
			carried, err = s.placementRepo.GetByVersionID(dbc, prev.ID)
			if err != nil {
				return errs.Wrap(errs.CodeInternal, op, err)
			}
		}

		nextSort := 0
		watermarkIDs := make([]uuid.UUID, 0, len(carried)+1)
		for _, p := range carried {
			if p.SortOrder >= nextSort {
				nextSort = p.SortOrder + 1
			}
			if p.WatermarkID != nil {
				watermarkIDs = append(watermarkIDs, *p.WatermarkID)
			}
		}
		watermarkIDs = append(watermarkIDs, preset.ID)

		now := time.Now().UTC()
		meta, err := json.Marshal(domain.VersionMetadata{
			Edit:         domain.EditKindWatermark,
			WatermarkIDs: watermarkIDs,
		})
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}

		version, err = s.versionRepo.Create(dbc, &domain.ImageVersion{
			ImageID:     imageID,
			RenderedURL: img.OriginalURL,
			Metadata:    datatypes.JSON(meta),
			CreatedAt:   now,
		})
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}

		for _, p := range carried {
			placements = append(placements, &domain.ImageVersionWatermark{
				VersionID:   version.ID,
				WatermarkID: p.WatermarkID,
				Text:        p.Text,
				Position:    p.Position,
				Opacity:     p.Opacity,
				Font:        p.Font,
				SortOrder:   p.SortOrder,
				AppliedAt:   p.AppliedAt,
			})
		}
		wid := preset.ID
		placements = append(placements, &domain.ImageVersionWatermark{
			VersionID:   version.ID,
			WatermarkID: &wid,
			Text:        preset.Text,
			Position:    preset.Position,
			Opacity:     preset.Opacity,
			Font:        preset.Font,
			SortOrder:   nextSort,
			AppliedAt:   now,
		})
		if placements, err = s.placementRepo.Create(dbc, placements); err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}

		if err := s.pruneOlderVersions(dbc, op, imageID, version.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return version, placements, nil
}

func (s *versionChainService) RemoveLatestFilter(ctx context.Context, imageID, filterID uuid.UUID) error {
	const op = "versionchain.remove_latest_filter"

	return s.runInTx(ctx, op, func(dbc dbctx.Context) error {
		latest, err := s.latestVersion(dbc, op, imageID)
		if err != nil {
			return err
		}

		rows, err := s.filterLinks.DeleteByVersionAndFilter(dbc, latest.ID, filterID)
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}
		if rows == 0 {
			return errs.New(errs.CodeNotFound, op, "filter is not applied on the latest version")
		}

		s.reconcileFilterMetadata(dbc, latest, filterID)
		return nil
	})
}

func (s *versionChainService) RemoveLatestWatermark(ctx context.Context, imageID, placementID uuid.UUID) error {
	const op = "versionchain.remove_latest_watermark"

	return s.runInTx(ctx, op, func(dbc dbctx.Context) error {
		latest, err := s.latestVersion(dbc, op, imageID)
		if err != nil {
			return err
		}

		placements, err := s.placementRepo.GetByVersionID(dbc, latest.ID)
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}
		var removed *domain.ImageVersionWatermark
		for _, p := range placements {
			if p.ID == placementID {
				removed = p
				break
			}
		}

		rows, err := s.placementRepo.DeleteByVersionAndPlacement(dbc, latest.ID, placementID)
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}
		if rows == 0 {
			return errs.New(errs.CodeNotFound, op, "watermark placement not found on the latest version")
		}

		if removed != nil && removed.WatermarkID != nil {
			s.reconcileWatermarkMetadata(dbc, latest, *removed.WatermarkID)
		}
		return nil
	})
}

func (s *versionChainService) History(ctx context.Context, imageID uuid.UUID) ([]*domain.ImageVersion, error) {
	const op = "versionchain.history"
	dbc := dbctx.Context{Ctx: ctx}

	img, err := s.imageRepo.GetByID(dbc, imageID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	if img == nil {
		return nil, errs.New(errs.CodeNotFound, op, "image not found")
	}
	versions, err := s.versionRepo.ListByImageID(dbc, imageID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	return versions, nil
}

func (s *versionChainService) LatestFilters(ctx context.Context, imageID uuid.UUID) (*domain.ImageVersion, []*domain.ImageFilter, error) {
	const op = "versionchain.latest_filters"
	dbc := dbctx.Context{Ctx: ctx}

	latest, err := s.latestVersionChecked(dbc, op, imageID)
	if err != nil {
		return nil, nil, err
	}
	if latest == nil {
		return nil, []*domain.ImageFilter{}, nil
	}
	links, err := s.filterLinks.GetByVersionID(dbc, latest.ID)
	if err != nil {
		return nil, nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	return latest, links, nil
}

func (s *versionChainService) LatestWatermarks(ctx context.Context, imageID uuid.UUID) (*domain.ImageVersion, []*domain.ImageVersionWatermark, error) {
	const op = "versionchain.latest_watermarks"
	dbc := dbctx.Context{Ctx: ctx}

	latest, err := s.latestVersionChecked(dbc, op, imageID)
	if err != nil {
		return nil, nil, err
	}
	if latest == nil {
		return nil, []*domain.ImageVersionWatermark{}, nil
	}
	placements, err := s.placementRepo.GetByVersionID(dbc, latest.ID)
	if err != nil {
		return nil, nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	return latest, placements, nil
}

// latestVersion requires the image to exist and have at least one version.
func (s *versionChainService) latestVersion(dbc dbctx.Context, op string, imageID uuid.UUID) (*domain.ImageVersion, error) {
	latest, err := s.latestVersionChecked(dbc, op, imageID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, errs.New(errs.CodeNotFound, op, "image has no edits")
	}
	return latest, nil
}

// latestVersionChecked requires the image to exist; a nil version means the
// image has no edits yet.
func (s *versionChainService) latestVersionChecked(dbc dbctx.Context, op string, imageID uuid.UUID) (*domain.ImageVersion, error) {
	img, err := s.imageRepo.GetByID(dbc, imageID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	if img == nil {
		return nil, errs.New(errs.CodeNotFound, op, "image not found")
	}
	latest, err := s.versionRepo.LatestByImageID(dbc, imageID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	return latest, nil
}

func (s *versionChainService) pruneOlderVersions(dbc dbctx.Context, op string, imageID, keepVersionID uuid.UUID) error {
	if err := s.filterLinks.PruneOtherVersions(dbc, imageID, keepVersionID); err != nil {
		return errs.Wrap(errs.CodeInternal, op, err)
	}
	if err := s.placementRepo.PruneOtherVersions(dbc, imageID, keepVersionID); err != nil {
		return errs.Wrap(errs.CodeInternal, op, err)
	}
	return nil
}

// reconcileFilterMetadata rewrites the version metadata after a single filter
// link was removed in place. Metadata is advisory, so failures only log.
func (s *versionChainService) reconcileFilterMetadata(dbc dbctx.Context, version *domain.ImageVersion, filterID uuid.UUID) {
	var meta domain.VersionMetadata
	if err := json.Unmarshal(version.Metadata, &meta); err != nil {
		s.log.Warn("skipping metadata reconcile, undecodable metadata", "version_id", version.ID, "error", err)
		return
	}
	kept := meta.Filters[:0]
	for _, f := range meta.Filters {
		if f.FilterID != filterID {
			kept = append(kept, f)
		}
	}
	meta.Filters = kept
	s.writeMetadata(dbc, version.ID, meta)
}

// reconcileWatermarkMetadata drops one occurrence of the removed placement's
// preset id from the metadata list.
func (s *versionChainService) reconcileWatermarkMetadata(dbc dbctx.Context, version *domain.ImageVersion, watermarkID uuid.UUID) {
	var meta domain.VersionMetadata
	if err := json.Unmarshal(version.Metadata, &meta); err != nil {
		s.log.Warn("skipping metadata reconcile, undecodable metadata", "version_id", version.ID, "error", err)
		return
	}
	for i, id := range meta.WatermarkIDs {
		if id == watermarkID {
			meta.WatermarkIDs = append(meta.WatermarkIDs[:i], meta.WatermarkIDs[i+1:]...)
			break
		}
	}
	s.writeMetadata(dbc, version.ID, meta)
}

func (s *versionChainService) writeMetadata(dbc dbctx.Context, versionID uuid.UUID, meta domain.VersionMetadata) {
	raw, err := json.Marshal(meta)
	if err != nil {
		s.log.Warn("skipping metadata reconcile, marshal failed", "version_id", versionID, "error", err)
		return
	}
	if err := s.versionRepo.UpdateMetadata(dbc, versionID, datatypes.JSON(raw)); err != nil {
		s.log.Warn("metadata reconcile write failed", "version_id", versionID, "error", err)
	}
}
