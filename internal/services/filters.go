package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/data/repos"
	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/domain/errs"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

const defaultFilterIntensity = 100

// ApplyFiltersRequest is the wire shape of a filter edit. Older clients send
// filterId/intensity as scalars, newer ones as parallel arrays, and the
// deprecated form nests objects under filters. All three normalize to one
// ordered stack.
type ApplyFiltersRequest struct {
	FilterID  json.RawMessage            `json:"filterId,omitempty"`
	Intensity json.RawMessage            `json:"intensity,omitempty"`
	Filters   []ApplyFiltersRequestEntry `json:"filters,omitempty"`
}

type ApplyFiltersRequestEntry struct {
	FilterID  uuid.UUID `json:"filterId"`
	Intensity *int      `json:"intensity,omitempty"`
}

type FilterService interface {
	// Apply validates the requested stack against the catalog and the owner's
	// plan, then replaces the image's live filter set with it.
	Apply(ctx context.Context, userID, imageID uuid.UUID, req ApplyFiltersRequest) (*domain.ImageVersion, []*domain.ImageFilter, error)
	// RemoveLatest removes one filter from the latest version in place.
	RemoveLatest(ctx context.Context, userID, imageID, filterID uuid.UUID) error
	Latest(ctx context.Context, userID, imageID uuid.UUID) (*domain.ImageVersion, []*domain.ImageFilter, error)
	Catalog(ctx context.Context) ([]*domain.Filter, error)
}

type filterService struct {
	db          *gorm.DB
	log         *logger.Logger
	chain       VersionChainService
	entitlement EntitlementService
	imageRepo   repos.ImageRepo
	filterRepo  repos.FilterRepo
	planFilters repos.PlanFilterRepo
}

func NewFilterService(
	db *gorm.DB,
	baseLog *logger.Logger,
	chain VersionChainService,
	entitlement EntitlementService,
	imageRepo repos.ImageRepo,
	filterRepo repos.FilterRepo,
	planFilters repos.PlanFilterRepo,
) FilterService {
	return &filterService{
		db:          db,
		log:         baseLog.With("service", "FilterService"),
		chain:       chain,
		entitlement: entitlement,
		imageRepo:   imageRepo,
		filterRepo:  filterRepo,
		planFilters: planFilters,
	}
}

func (s *filterService) Apply(ctx context.Context, userID, imageID uuid.UUID, req ApplyFiltersRequest) (*domain.ImageVersion, []*domain.ImageFilter, error) {
	const op = "filters.apply"
	dbc := dbctx.Context{Ctx: ctx}

	stack, err := NormalizeFilterStack(req)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.ownedImage(dbc, op, userID, imageID); err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, len(stack))
	for i, entry := range stack {
		ids[i] = entry.FilterID
	}
	known, err := s.filterRepo.GetByIDs(dbc, ids)
	if err != nil {
		return nil, nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	knownSet := make(map[uuid.UUID]bool, len(known))
	for _, f := range known {
		knownSet[f.ID] = true
	}
	for _, id := range ids {
		if !knownSet[id] {
			return nil, nil, errs.New(errs.CodeNotFound, op, fmt.Sprintf("filter %s not found", id))
		}
	}

	ent, err := s.entitlement.Resolve(dbc, userID)
	if err != nil {
		return nil, nil, err
	}
	allowed, err := s.planFilters.FilterIDsForPlan(dbc, ent.PlanID)
	if err != nil {
		return nil, nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	allowedSet := make(map[uuid.UUID]bool, len(allowed))
	for _, id := range allowed {
		allowedSet[id] = true
	}
	for _, id := range ids {
		if !allowedSet[id] {
			return nil, nil, errs.New(errs.CodeFilterNotAllowed, op, fmt.Sprintf("filter %s is not included in plan %q", id, ent.PlanName))
		}
	}

	return s.chain.ApplyFilters(ctx, imageID, stack)
}

func (s *filterService) RemoveLatest(ctx context.Context, userID, imageID, filterID uuid.UUID) error {
	const op = "filters.remove_latest"
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.ownedImage(dbc, op, userID, imageID); err != nil {
		return err
	}
	return s.chain.RemoveLatestFilter(ctx, imageID, filterID)
}

func (s *filterService) Latest(ctx context.Context, userID, imageID uuid.UUID) (*domain.ImageVersion, []*domain.ImageFilter, error) {
	const op = "filters.latest"
	dbc := dbctx.Context{Ctx: ctx}

	if _, err := s.ownedImage(dbc, op, userID, imageID); err != nil {
		return nil, nil, err
	}
	return s.chain.LatestFilters(ctx, imageID)
}

func (s *filterService) Catalog(ctx context.Context) ([]*domain.Filter, error) {
	const op = "filters.catalog"
	filters, err := s.filterRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	return filters, nil
}

// ownedImage loads the image and hides other users' images behind not_found.
func (s *filterService) ownedImage(dbc dbctx.Context, op string, userID, imageID uuid.UUID) (*domain.Image, error) {
	img, err := s.imageRepo.GetByID(dbc, imageID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	if img == nil || img.UserID != userID {
		return nil, errs.New(errs.CodeNotFound, op, "image not found")
	}
	return img, nil
}

// NormalizeFilterStack folds the three accepted request shapes into one
// ordered stack with defaulted intensities. It rejects empty stacks,
// duplicate filters, out-of-range intensities, and mismatched array lengths.
func NormalizeFilterStack(req ApplyFiltersRequest) ([]domain.FilterStackEntry, error) {
	const op = "filters.normalize"

	if len(req.Filters) > 0 && len(req.FilterID) > 0 {
		return nil, errs.New(errs.CodeValidation, op, "send either filterId or filters, not both")
	}

	var stack []domain.FilterStackEntry
	switch {
	case len(req.Filters) > 0:
		for i, entry := range req.Filters {
			intensity := defaultFilterIntensity
			if entry.Intensity != nil {
				intensity = *entry.Intensity
			}
			stack = append(stack, domain.FilterStackEntry{
				FilterID:  entry.FilterID,
				Intensity: intensity,
				SortOrder: i,
			})
		}
	case len(req.FilterID) > 0:
		ids, err := decodeScalarOrArray[uuid.UUID](req.FilterID)
		if err != nil {
			return nil, errs.New(errs.CodeValidation, op, "filterId must be a filter id or an array of filter ids")
		}
		var intensities []int
		if len(req.Intensity) > 0 {
			intensities, err = decodeScalarOrArray[int](req.Intensity)
			if err != nil {
				return nil, errs.New(errs.CodeValidation, op, "intensity must be a number or an array of numbers")
			}
		}
		if len(intensities) > 0 && len(intensities) != len(ids) {
			return nil, errs.New(errs.CodeValidation, op, "intensity array length must match filterId array length")
		}
		for i, id := range ids {
			intensity := defaultFilterIntensity
			if len(intensities) > 0 {
				intensity = intensities[i]
			}
			stack = append(stack, domain.FilterStackEntry{
				FilterID:  id,
				Intensity: intensity,
				SortOrder: i,
			})
		}
	default:
		return nil, errs.New(errs.CodeValidation, op, "no filters requested")
	}

	seen := make(map[uuid.UUID]bool, len(stack))
	for _, entry := range stack {
		if entry.FilterID == uuid.Nil {
			return nil, errs.New(errs.CodeValidation, op, "filter id must not be empty")
		}
		if seen[entry.FilterID] {
			return nil, errs.New(errs.CodeValidation, op, fmt.Sprintf("filter %s requested more than once", entry.FilterID))
		}
		seen[entry.FilterID] = true
		if entry.Intensity < 0 || entry.Intensity > 100 {
			return nil, errs.New(errs.CodeValidation, op, fmt.Sprintf("intensity %d is outside 0..100", entry.Intensity))
		}
	}
	return stack, nil
}

// decodeScalarOrArray accepts both `"x"` and `["x","y"]` for a field.
func decodeScalarOrArray[T any](raw json.RawMessage) ([]T, error) {
	var many []T
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, nil
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}
