// Package wallets declares the contract of the external wallet store. The
// keystore and its DID operations live outside this service; the gate only
// needs create/lookup/delete to provision and resolve tenants.
package wallets

import (
	"context"

	"github.com/tenantgate/tenantgate/internal/server/models"
)

// Recognized settings keys. Anything else in the settings map is passed
// through to the wallet store untouched.
const (
	SettingWalletName = "wallet.name"
	SettingWalletKey  = "wallet.key"
)

// Store is the external wallet collaborator.
type Store interface {
	// Create provisions a new wallet. The settings map carries the wallet
	// name and, for managed wallets, the unlock key.
	Create(ctx context.Context, settings map[string]any, mode models.WalletKeyMode) (*models.Wallet, error)

	// GetByID returns the wallet or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Wallet, error)

	// QueryByName returns the wallet with the given name or
	// common.ErrorNotFound.
	QueryByName(ctx context.Context, name string) (*models.Wallet, error)

	// Delete removes the wallet. Used as the compensating action when
	// tenant creation fails after the wallet already exists.
	Delete(ctx context.Context, id string) error
}
