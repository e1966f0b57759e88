package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/tenantgate/tenantgate/internal/common"
	"github.com/tenantgate/tenantgate/internal/logging"
	"github.com/tenantgate/tenantgate/internal/server/models"
	"github.com/tenantgate/tenantgate/internal/server/repositories/repomanager"
	"github.com/tenantgate/tenantgate/internal/server/secrets"
)

// ApiKeyService manages static per-tenant API keys. The plaintext key is
// generated server-side and returned exactly once; only the salted hash is
// persisted.
type ApiKeyService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
}

func NewApiKeyService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *ApiKeyService {
	return &ApiKeyService{db: db, repos: repos, logger: logger}
}

// Create mints a new API key for the tenant. The tenant must exist and be
// active; a disabled tenant is rejected before anything is persisted.
// Returns the plaintext key alongside the stored record.
func (s *ApiKeyService) Create(ctx context.Context, tenantID, alias string) (string, *models.TenantApiKey, error) {
	tenant, err := s.repos.Tenants(s.db).GetByID(ctx, tenantID)
	if err != nil {
		return "", nil, err
	}
	if tenant.State != models.TenantActive {
		return "", nil, common.ErrTenantDisabled
	}

	plain, salt, hash, err := secrets.Generate("")
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	key := &models.TenantApiKey{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Alias:    alias,
		KeySalt:  salt,
		KeyHash:  hash,
	}
	created, err := s.repos.ApiKeys(s.db).Create(ctx, key)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info(ctx, "api key created", "tenant_id", tenantID, "key_id", created.ID)
	return plain, created, nil
}

// Verify reports whether the supplied plaintext matches the stored record.
func (s *ApiKeyService) Verify(suppliedKey string, record *models.TenantApiKey) bool {
	return secrets.Verify(suppliedKey, record.KeySalt, record.KeyHash)
}

// Authenticate resolves a tenant's key record matching the supplied
// plaintext. Every active key is tried; no match is the generic unauthorized
// error, indistinguishable from an unknown tenant's failure mode.
func (s *ApiKeyService) Authenticate(ctx context.Context, tenantID, suppliedKey string) (*models.TenantApiKey, error) {
	keys, err := s.repos.ApiKeys(s.db).ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if secrets.Verify(suppliedKey, k.KeySalt, k.KeyHash) {
			return k, nil
		}
	}
	return nil, common.ErrorUnauthorized
}

// Get returns one key record by id.
func (s *ApiKeyService) Get(ctx context.Context, id string) (*models.TenantApiKey, error) {
	return s.repos.ApiKeys(s.db).GetByID(ctx, id)
}

// List returns all key records for the tenant, newest first.
func (s *ApiKeyService) List(ctx context.Context, tenantID string) ([]*models.TenantApiKey, error) {
	return s.repos.ApiKeys(s.db).ListByTenant(ctx, tenantID)
}

// Revoke hard-deletes the key record. A revoked key can never verify again.
func (s *ApiKeyService) Revoke(ctx context.Context, id string) error {
	if err := s.repos.ApiKeys(s.db).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "api key revoked", "key_id", id)
	return nil
}
