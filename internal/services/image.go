package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/data/repos"
	"github.com/yungbote/lumen-backend/internal/domain"
	"github.com/yungbote/lumen-backend/internal/domain/errs"
	"github.com/yungbote/lumen-backend/internal/pkg/dbctx"
	"github.com/yungbote/lumen-backend/internal/platform/logger"
	"github.com/yungbote/lumen-backend/internal/platform/storage"
)

type ImageService interface {
	// Upload admits a new original after checking the owner's quota inside the
	// same transaction that inserts the row.
	Upload(ctx context.Context, userID uuid.UUID, filename string, sizeBytes int64, file io.Reader) (*domain.Image, error)
	Get(ctx context.Context, userID, imageID uuid.UUID) (*domain.Image, error)
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Image, error)
	// Delete removes the image with its whole version chain, then deletes the
	// stored object best-effort.
	Delete(ctx context.Context, userID, imageID uuid.UUID) error
}

type imageService struct {
	db            *gorm.DB
	log           *logger.Logger
	tx            repos.TxRunner
	quota         QuotaService
	store         storage.ObjectStore
	imageRepo     repos.ImageRepo
	versionRepo   repos.ImageVersionRepo
	filterLinks   repos.ImageFilterRepo
	placementRepo repos.ImageVersionWatermarkRepo
}

func NewImageService(
	db *gorm.DB,
	baseLog *logger.Logger,
	tx repos.TxRunner,
	quota QuotaService,
	store storage.ObjectStore,
	imageRepo repos.ImageRepo,
	versionRepo repos.ImageVersionRepo,
	filterLinks repos.ImageFilterRepo,
	placementRepo repos.ImageVersionWatermarkRepo,
) ImageService {
	return &imageService{
		db:            db,
		log:           baseLog.With("service", "ImageService"),
		tx:            tx,
		quota:         quota,
		store:         store,
		imageRepo:     imageRepo,
		versionRepo:   versionRepo,
		filterLinks:   filterLinks,
		placementRepo: placementRepo,
	}
}

func (s *imageService) Upload(ctx context.Context, userID uuid.UUID, filename string, sizeBytes int64, file io.Reader) (*domain.Image, error) {
	const op = "images.upload"

	if sizeBytes <= 0 {
		return nil, errs.New(errs.CodeValidation, op, "file is empty")
	}

	var img *domain.Image
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		// Quota is measured inside the insert transaction so a concurrent
		// upload in the same window is counted against this one.
		status, err := s.quota.Check(dbc, userID, sizeBytes)
		if err != nil {
			return err
		}
		if status.CountExceeded {
			return errs.New(errs.CodeQuotaExceeded, op, "monthly image limit reached")
		}
		if status.BytesExceeded {
			return errs.New(errs.CodeQuotaExceeded, op, "monthly storage limit reached")
		}

		imageID := uuid.New()
		key := storageKey(userID, imageID, filename)
		img, err = s.imageRepo.Create(dbc, &domain.Image{
			ID:          imageID,
			UserID:      userID,
			OriginalURL: s.store.PublicURL(key),
			StorageKey:  key,
			SizeBytes:   sizeBytes,
		})
		if err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}

		// Upload inside the transaction: a failed write aborts the row too.
		if err := s.store.Upload(dbc.Ctx, key, file); err != nil {
			return errs.Wrap(errs.CodeInternal, op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (s *imageService) Get(ctx context.Context, userID, imageID uuid.UUID) (*domain.Image, error) {
	return s.ownedImage(dbctx.Context{Ctx: ctx}, "images.get", userID, imageID)
}

func (s *imageService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Image, error) {
	const op = "images.list"
	images, err := s.imageRepo.GetByUserID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	return images, nil
}

func (s *imageService) Delete(ctx context.Context, userID, imageID uuid.UUID) error {
	const op = "images.delete"

	img, err := s.ownedImage(dbctx.Context{Ctx: ctx}, op, userID, imageID)
	if err != nil {
		return err
	}

	err = s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := s.filterLinks.FullDeleteByImageID(dbc, imageID); err != nil {
			return err
		}
		if err := s.placementRepo.FullDeleteByImageID(dbc, imageID); err != nil {
			return err
		}
		if err := s.versionRepo.FullDeleteByImageID(dbc, imageID); err != nil {
			return err
		}
		return s.imageRepo.FullDeleteByID(dbc, imageID)
	})
	if err != nil {
		return errs.Wrap(errs.CodeInternal, op, err)
	}

	// The row is gone; a dangling object only costs storage.
	if err := s.store.Delete(ctx, img.StorageKey); err != nil {
		s.log.Warn("failed to delete stored object", "key", img.StorageKey, "error", err)
	}
	return nil
}

func (s *imageService) ownedImage(dbc dbctx.Context, op string, userID, imageID uuid.UUID) (*domain.Image, error) {
	img, err := s.imageRepo.GetByID(dbc, imageID)
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternal, op, err)
	}
	if img == nil || img.UserID != userID {
		return nil, errs.New(errs.CodeNotFound, op, "image not found")
	}
	return img, nil
}

// storageKey keeps objects partitioned per user; the original extension is
// preserved so content type detection keeps working.
func storageKey(userID, imageID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("images/%s/%s%s", userID, imageID, ext)
}
