package services

import (
	"context"
	"io"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/lumen-backend/internal/data/repos"
	"github.com/yungbote/lumen-backend/internal/data/repos/testutil"
	"github.com/yungbote/lumen-backend/internal/platform/storage"
)

// testEnv wires the full service stack over a transaction that rolls back
// when the test ends. Nested service transactions become savepoints.
type testEnv struct {
	ctx context.Context
	tx  *gorm.DB

	store *memStore

	imageRepo     repos.ImageRepo
	versionRepo   repos.ImageVersionRepo
	filterLinks   repos.ImageFilterRepo
	placementRepo repos.ImageVersionWatermarkRepo
	watermarkRepo repos.WatermarkRepo
	filterRepo    repos.FilterRepo
	planFilters   repos.PlanFilterRepo

	entitlement EntitlementService
	quota       QuotaService
	chain       VersionChainService
	filters     FilterService
	watermarks  WatermarkService
	images      ImageService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	txRunner := repos.NewGormTxRunner(tx)
	store := newMemStore()

	env := &testEnv{
		ctx:   context.Background(),
		tx:    tx,
		store: store,

		imageRepo:     repos.NewImageRepo(tx, log),
		versionRepo:   repos.NewImageVersionRepo(tx, log),
		filterLinks:   repos.NewImageFilterRepo(tx, log),
		placementRepo: repos.NewImageVersionWatermarkRepo(tx, log),
		watermarkRepo: repos.NewWatermarkRepo(tx, log),
		filterRepo:    repos.NewFilterRepo(tx, log),
		planFilters:   repos.NewPlanFilterRepo(tx, log),
	}

	subRepo := repos.NewSubscriptionRepo(tx, log)
	planRepo := repos.NewSubscriptionPlanRepo(tx, log)

	env.entitlement = NewEntitlementService(tx, log, subRepo, planRepo)
	env.quota = NewQuotaService(tx, log, env.entitlement, env.imageRepo)
	env.chain = NewVersionChainService(tx, log, txRunner, env.imageRepo, env.versionRepo, env.filterLinks, env.placementRepo)
	env.filters = NewFilterService(tx, log, env.chain, env.entitlement, env.imageRepo, env.filterRepo, env.planFilters)
	env.watermarks = NewWatermarkService(tx, log, txRunner, env.chain, env.entitlement, env.imageRepo, env.watermarkRepo, env.placementRepo)
	env.images = NewImageService(tx, log, txRunner, env.quota, store, env.imageRepo, env.versionRepo, env.filterLinks, env.placementRepo)

	return env
}

// memStore is an in-memory ObjectStore for service tests.
type memStore struct {
	objects map[string][]byte
	deleted []string
}

var _ storage.ObjectStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (m *memStore) Upload(_ context.Context, key string, file io.Reader) error {
	b, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *memStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}
