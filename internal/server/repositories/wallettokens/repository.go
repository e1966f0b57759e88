// Package wallettokens declares the repository contract for per-wallet
// token secrets and their issued-at claims list.
package wallettokens

import (
	"context"
	"time"

	"github.com/tenantgate/tenantgate/internal/server/models"
)

// Repository defines persistence for wallet token secrets. The claims list
// has set semantics: AddClaim and RemoveClaim touch exactly one entry, so
// concurrent sessions from other devices are never overwritten.
type Repository interface {
	// Get returns the wallet's token record including its claims list, or
	// common.ErrorNotFound when no token was ever issued for the wallet.
	Get(ctx context.Context, walletID string) (*models.WalletToken, error)

	// Create inserts the wallet's token secret row. Called once, lazily, on
	// the first token request for the wallet.
	Create(ctx context.Context, wt *models.WalletToken) error

	// AddClaim records issuedAt as a still-valid issuance. Adding an
	// already-present claim is a no-op.
	AddClaim(ctx context.Context, walletID string, issuedAt time.Time) error

	// RemoveClaim revokes the session issued at issuedAt. Removing an
	// absent claim is a no-op.
	RemoveClaim(ctx context.Context, walletID string, issuedAt time.Time) error

	// SetLegacyIssuedAt mirrors the newest issuance onto the single-claim
	// field kept for tokens minted before the claims list existed.
	SetLegacyIssuedAt(ctx context.Context, walletID string, issuedAt time.Time) error
}
