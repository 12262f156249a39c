package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/data/repos"
	"github.com/yungbote/lumen-backend/internal/domain/errs"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
)

// QuotaStatus reports usage inside the current calendar-month window together
// with the verdicts against the resolved plan limits.
type QuotaStatus struct {
	WindowStart   time.Time         `json:"window_start"`
	WindowEnd     time.Time         `json:"window_end"`
	ImageCount    int64             `json:"image_count"`
	ByteTotal     int64             `json:"byte_total"`
	Limits        EntitlementLimits `json:"limits"`
	CountExceeded bool              `json:"count_exceeded"`
	BytesExceeded bool              `json:"bytes_exceeded"`
}

// RemainingImages returns how many more uploads the window allows, or nil when
// the plan is unbounded.
func (q *QuotaStatus) RemainingImages() *int64 {
	if q.Limits.MaxImagesPerWindow == nil {
		return nil
	}
	rem := *q.Limits.MaxImagesPerWindow - q.ImageCount
	if rem < 0 {
		rem = 0
	}
	return &rem
}

// RemainingBytes returns how many more bytes the window allows, or nil when
// the plan is unbounded.
func (q *QuotaStatus) RemainingBytes() *int64 {
	if q.Limits.MaxBytesPerWindow == nil {
		return nil
	}
	rem := *q.Limits.MaxBytesPerWindow - q.ByteTotal
	if rem < 0 {
		rem = 0
	}
	return &rem
}

type QuotaService interface {
	// Check resolves the user's entitlement and measures window usage.
	// extraBytes is the size of a pending upload; pass 0 to just inspect.
	Check(dbc dbctx.Context, userID uuid.UUID, extraBytes int64) (*QuotaStatus, error)
}

type quotaService struct {
	db          *gorm.DB
	log         *logger.Logger
	entitlement EntitlementService
	imageRepo   repos.ImageRepo
}

func NewQuotaService(
	db *gorm.DB,
	baseLog *logger.Logger,
	entitlement EntitlementService,
	imageRepo repos.ImageRepo,
) QuotaService {
	return &quotaService{
		db:          db,
		log:         baseLog.With("service", "QuotaService"),
		entitlement: entitlement,
		imageRepo:   imageRepo,
	}
}

func (s *quotaService) Check(dbc dbctx.Context, userID uuid.UUID, extraBytes int64) (*QuotaStatus, error) {
	ent, err := s.entitlement.Resolve(dbc, userID)
	if err != nil {
		return nil, err
	}
	start, end := monthWindow(time.Now().UTC())
	count, bytes, err := s.imageRepo.UsageInWindow(dbc, userID, start, end)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "quota.check", err)
	}
	status := &QuotaStatus{
		WindowStart: start,
		WindowEnd:   end,
		ImageCount:  count,
		ByteTotal:   bytes,
		Limits:      ent.Limits,
	}
	if lim := ent.Limits.MaxImagesPerWindow; lim != nil && count >= *lim {
		status.CountExceeded = true
	}
	if lim := ent.Limits.MaxBytesPerWindow; lim != nil && bytes+extraBytes > *lim {
		status.BytesExceeded = true
	}
	return status, nil
}

// monthWindow returns the half-open UTC calendar-month interval containing now.
func monthWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
