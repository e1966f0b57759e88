// Package tenants declares the repository contract for tenant rows.
package tenants

import (
	"context"

	"github.com/tenantgate/tenantgate/internal/server/models"
)

// Repository defines persistence operations for tenants.
type Repository interface {
	// Create inserts a new tenant row. Name and wallet id are unique; the
	// store surfaces collisions as errors rather than pre-empting them.
	Create(ctx context.Context, t *models.Tenant) (*models.Tenant, error)

	// GetByID returns the tenant or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Tenant, error)

	// GetByWalletID returns the tenant bound to the wallet, or
	// common.ErrorNotFound.
	GetByWalletID(ctx context.Context, walletID string) (*models.Tenant, error)

	// List returns all tenants, newest first.
	List(ctx context.Context) ([]*models.Tenant, error)
}
