package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/data/repos"
	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/domain/errs"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

type CreateWatermarkRequest struct {
	Name     string `json:"name"`
	Text     string `json:"text"`
	Position string `json:"position"`
	Opacity  *int   `json:"opacity,omitempty"`
	Font     string `json:"font"`
}

var watermarkPositions = map[string]bool{
	"top-left":     true,
	"top-right":    true,
	"bottom-left":  true,
	"bottom-right": true,
	"center":       true,
}

type WatermarkService interface {
	// Apply stamps a preset onto the image's latest version. Requires the
	// watermark feature flag to be strictly true on the owner's plan.
	Apply(ctx context.Context, userID, imageID, watermarkID uuid.UUID) (*domain.ImageVersion, []*domain.ImageVersionWatermark, error)
	// RemoveLatest removes one placement from the latest version in place.
	RemoveLatest(ctx context.Context, userID, imageID, placementID uuid.UUID) error
	Latest(ctx context.Context, userID, imageID uuid.UUID) (*domain.ImageVersion, []*domain.ImageVersionWatermark, error)

	CreatePreset(ctx context.Context, userID uuid.UUID, req CreateWatermarkRequest) (*domain.Watermark, error)
	ListPresets(ctx context.Context, userID uuid.UUID) ([]*domain.Watermark, error)
	// DeletePreset removes the preset and detaches existing placements from it;
	// their frozen copies stay on the versions they were applied to.
	DeletePreset(ctx context.Context, userID, watermarkID uuid.UUID) error
}

type watermarkService struct {
	db            *gorm.DB
	log           *logger.Logger
	tx            repos.TxRunner
	chain         VersionChainService
	entitlement   EntitlementService
	imageRepo     repos.ImageRepo
	watermarkRepo repos.WatermarkRepo
	placementRepo repos.ImageVersionWatermarkRepo
}

func NewWatermarkService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tx repos.TxRunner,
	chain VersionChainService,
	entitlement EntitlementService,
	imageRepo repos.ImageRepo,
	watermarkRepo repos.WatermarkRepo,
	placementRepo repos.ImageVersionWatermarkRepo,
) WatermarkService {
	return &watermarkService{
		db:            db,
		log:           baseLog.With("service", "WatermarkService"),
		tx:            tx,
		chain:         chain,
		entitlement:   entitlement,
		imageRepo:     imageRepo,
		watermarkRepo: watermarkRepo,
		placementRepo: placementRepo,
	}
}

func (s *watermarkService) Apply(ctx context.Context, userID, imageID, watermarkID uuid.UUID) (*domain.ImageVersion, []*domain.ImageVersionWatermark, error) {
	const op = "watermark.apply"
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.ownedImage(dbc, op, userID, imageID); err != nil {
		return nil, nil, err
	}

	ent, err := s.entitlement.Resolve(dbc, userID)
	if err != nil {
		return nil, nil, err
	}
	// Unknown (nil) counts as not granted.
	if ent.Features.WatermarkEnabled == nil || !*ent.Features.WatermarkEnabled {
		return nil, nil, errs.New(errs.CodeWatermarkNotAllowed, op, "plan does not include watermarking")
	}

	preset, err := s.ownedPreset(dbc, op, userID, watermarkID)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(preset.Text) == "" {
		return nil, nil, errs.New(errs.CodeValidation, op, "watermark text is empty")
	}

	return s.chain.ApplyWatermark(ctx, imageID, preset)
}

func (s *watermarkService) RemoveLatest(ctx context.Context, userID, imageID, placementID uuid.UUID) error {
	const op = "watermark.remove_latest"
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.ownedImage(dbc, op, userID, imageID); err != nil {
		return err
	}
	return s.chain.RemoveLatestWatermark(ctx, imageID, placementID)
}

func (s *watermarkService) Latest(ctx context.Context, userID, imageID uuid.UUID) (*domain.ImageVersion, []*domain.ImageVersionWatermark, error) {
	const op = "watermark.latest"
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.ownedImage(dbc, op, userID, imageID); err != nil {
		return nil, nil, err
	}
	return s.chain.LatestWatermarks(ctx, imageID)
}

func (s *watermarkService) CreatePreset(ctx context.Context, userID uuid.UUID, req CreateWatermarkRequest) (*domain.Watermark, error) {
	const op = "watermark.create_preset"

	if strings.TrimSpace(req.Text) == "" {
		return nil, errs.New(errs.CodeValidation, op, "watermark text is required")
	}
	position := req.Position
	if position == "" {
		position = "bottom-right"
	}
	if !watermarkPositions[position] {
		return nil, errs.New(errs.CodeValidation, op, "unknown watermark position")
	}
	opacity := 100
	if req.Opacity != nil {
		opacity = *req.Opacity
	}
	if opacity < 0 || opacity > 100 {
		return nil, errs.New(errs.CodeValidation, op, "opacity is outside 0..100")
	}
	font := req.Font
	if font == "" {
		font = "sans-serif"
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.Text
	}

	preset, err := s.watermarkRepo.Create(dbctx.Context{Ctx: ctx}, &domain.Watermark{
		UserID:   userID,
		Name:     name,
		Text:     req.Text,
		Position: position,
		Opacity:  opacity,
		Font:     font,
	})
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	return preset, nil
}

func (s *watermarkService) ListPresets(ctx context.Context, userID uuid.UUID) ([]*domain.Watermark, error) {
	const op = "watermark.list_presets"
	presets, err := s.watermarkRepo.ListByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	return presets, nil
}

func (s *watermarkService) DeletePreset(ctx context.Context, userID, watermarkID uuid.UUID) error {
	const op = "watermark.delete_preset"

	if _, err := s.ownedPreset(dbctx.Context{Ctx: ctx}, op, userID, watermarkID); err != nil {
		return err
	}
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := s.placementRepo.NullifyWatermarkID(dbc, watermarkID); err != nil {
			return err
		}
		return s.watermarkRepo.FullDeleteByID(dbc, watermarkID)
	})
	if err != nil {
		return errs.Wrap(errs.CodeInternal, op, err)
	}
	return nil
}

func (s *watermarkService) ownedImage(dbc dbctx.Context, op string, userID, imageID uuid.UUID) (*domain.Image, error) {
	img, err := s.imageRepo.GetByID(dbc, imageID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	if img == nil || img.UserID != userID {
		return nil, errs.New(errs.CodeNotFound, op, "image not found")
	}
	return img, nil
}

func (s *watermarkService) ownedPreset(dbc dbctx.Context, op string, userID, watermarkID uuid.UUID) (*domain.Watermark, error) {
	preset, err := s.watermarkRepo.GetByID(dbc, watermarkID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	if preset == nil || preset.UserID != userID {
		return nil, errs.New(errs.CodeNotFound, op, "watermark not found")
	}
	return preset, nil
}
