// Package apikeys declares the repository contract for tenant API keys.
package apikeys

import (
	"context"

	"github.com/tenantgate/tenantgate/internal/server/models"
)

// Repository defines persistence operations for tenant API keys.
type Repository interface {
	// Create inserts a new key record (salt and hash only, never the
	// plaintext).
	Create(ctx context.Context, k *models.TenantApiKey) (*models.TenantApiKey, error)

	// GetByID returns the key record or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.TenantApiKey, error)

	// ListByTenant returns all key records for the tenant, newest first.
	ListByTenant(ctx context.Context, tenantID string) ([]*models.TenantApiKey, error)

	// Delete hard-deletes the record; revoked keys leave no trace and can
	// never verify again. Deleting an unknown id returns
	// common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}
