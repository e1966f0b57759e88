package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tenantgate/tenantgate/internal/common"
	"github.com/tenantgate/tenantgate/internal/dbx"
	"github.com/tenantgate/tenantgate/internal/logging"
	"github.com/tenantgate/tenantgate/internal/server/models"
	apikeysrepo "github.com/tenantgate/tenantgate/internal/server/repositories/apikeys"
	reservationsrepo "github.com/tenantgate/tenantgate/internal/server/repositories/reservations"
	tenantsrepo "github.com/tenantgate/tenantgate/internal/server/repositories/tenants"
	wallettokensrepo "github.com/tenantgate/tenantgate/internal/server/repositories/wallettokens"
)

type fakeRepoManager struct {
	reservations *memReservationsRepo
	tenants      *memTenantsRepo
	walletTokens *memWalletTokensRepo
	apiKeys      *memApiKeysRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		reservations: newMemReservationsRepo(),
		tenants:      newMemTenantsRepo(),
		walletTokens: newMemWalletTokensRepo(),
		apiKeys:      newMemApiKeysRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Reservations(db dbx.DBTX) reservationsrepo.Repository {
	return m.reservations
}
func (m *fakeRepoManager) Tenants(db dbx.DBTX) tenantsrepo.Repository { return m.tenants }
func (m *fakeRepoManager) WalletTokens(db dbx.DBTX) wallettokensrepo.Repository {
	return m.walletTokens
}
func (m *fakeRepoManager) ApiKeys(db dbx.DBTX) apikeysrepo.Repository { return m.apiKeys }

// --- shared test helpers ---

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// In-memory repositories. Reads hand out copies so state only changes
// through the repository's own write methods, same as the real store.

type memReservationsRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Reservation
}

func newMemReservationsRepo() *memReservationsRepo {
	return &memReservationsRepo{rows: make(map[string]*models.Reservation)}
}

func (r *memReservationsRepo) Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *res
	clone.CreatedAt = time.Now()
	r.rows[res.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memReservationsRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *row
	return &out, nil
}

func (r *memReservationsRepo) GetForUpdate(ctx context.Context, id string) (*models.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r *memReservationsRepo) Update(ctx context.Context, res *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[res.ID]; !ok {
		return common.ErrorNotFound
	}
	clone := *res
	r.rows[res.ID] = &clone
	return nil
}

func (r *memReservationsRepo) List(ctx context.Context) ([]*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Reservation, 0, len(r.rows))
	for _, row := range r.rows {
		clone := *row
		out = append(out, &clone)
	}
	return out, nil
}

type memTenantsRepo struct {
	mu        sync.Mutex
	rows      map[string]*models.Tenant
	createErr error
}

func newMemTenantsRepo() *memTenantsRepo {
	return &memTenantsRepo{rows: make(map[string]*models.Tenant)}
}

func (r *memTenantsRepo) Create(ctx context.Context, tn *models.Tenant) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, row := range r.rows {
		if row.Name == tn.Name {
			return nil, common.ErrDuplicateName
		}
	}
	clone := *tn
	clone.CreatedAt = time.Now()
	r.rows[tn.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memTenantsRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *row
	return &out, nil
}

func (r *memTenantsRepo) GetByWalletID(ctx context.Context, walletID string) (*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.WalletID == walletID {
			out := *row
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memTenantsRepo) List(ctx context.Context) ([]*models.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Tenant, 0, len(r.rows))
	for _, row := range r.rows {
		clone := *row
		out = append(out, &clone)
	}
	return out, nil
}

type memWalletTokensRepo struct {
	mu   sync.Mutex
	rows map[string]*models.WalletToken
}

func newMemWalletTokensRepo() *memWalletTokensRepo {
	return &memWalletTokensRepo{rows: make(map[string]*models.WalletToken)}
}

func (r *memWalletTokensRepo) Get(ctx context.Context, walletID string) (*models.WalletToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[walletID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *row
	out.IssuedAtClaims = append([]time.Time(nil), row.IssuedAtClaims...)
	return &out, nil
}

func (r *memWalletTokensRepo) Create(ctx context.Context, wt *models.WalletToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *wt
	clone.CreatedAt = time.Now()
	r.rows[wt.WalletID] = &clone
	return nil
}

func (r *memWalletTokensRepo) AddClaim(ctx context.Context, walletID string, issuedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[walletID]
	if !ok {
		return common.ErrorNotFound
	}
	for _, c := range row.IssuedAtClaims {
		if c.Equal(issuedAt) {
			return nil
		}
	}
	row.IssuedAtClaims = append(row.IssuedAtClaims, issuedAt)
	return nil
}

func (r *memWalletTokensRepo) RemoveClaim(ctx context.Context, walletID string, issuedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[walletID]
	if !ok {
		return nil
	}
	claims := row.IssuedAtClaims[:0]
	for _, c := range row.IssuedAtClaims {
		if !c.Equal(issuedAt) {
			claims = append(claims, c)
		}
	}
	row.IssuedAtClaims = claims
	return nil
}

func (r *memWalletTokensRepo) SetLegacyIssuedAt(ctx context.Context, walletID string, issuedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[walletID]
	if !ok {
		return common.ErrorNotFound
	}
	ts := issuedAt
	row.LegacyIssuedAt = &ts
	return nil
}

type memApiKeysRepo struct {
	mu    sync.Mutex
	rows  map[string]*models.TenantApiKey
	order []string
}

func newMemApiKeysRepo() *memApiKeysRepo {
	return &memApiKeysRepo{rows: make(map[string]*models.TenantApiKey)}
}

func (r *memApiKeysRepo) Create(ctx context.Context, k *models.TenantApiKey) (*models.TenantApiKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *k
	clone.CreatedAt = time.Now()
	r.rows[k.ID] = &clone
	r.order = append([]string{k.ID}, r.order...)
	out := clone
	return &out, nil
}

func (r *memApiKeysRepo) GetByID(ctx context.Context, id string) (*models.TenantApiKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *row
	return &out, nil
}

func (r *memApiKeysRepo) ListByTenant(ctx context.Context, tenantID string) ([]*models.TenantApiKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.TenantApiKey
	for _, id := range r.order {
		row := r.rows[id]
		if row.TenantID == tenantID {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *memApiKeysRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
