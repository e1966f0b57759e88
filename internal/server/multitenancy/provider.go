// Package multitenancy is the capability the provisioner uses to create
// wallets and mint their initial auth tokens. Implementations are selected
// once at startup by ProviderKind; there is no by-name dynamic loading.
package multitenancy

import (
	"context"
	"fmt"

	"github.com/tenantgate/tenantgate/internal/server/models"
	"github.com/tenantgate/tenantgate/internal/server/wallets"
)

// Provider wraps wallet creation and initial token issuance.
type Provider interface {
	CreateWallet(ctx context.Context, settings map[string]any, mode models.WalletKeyMode) (*models.Wallet, error)
	CreateAuthToken(ctx context.Context, wallet *models.Wallet, walletKey string) (string, error)
}

// TokenIssuer is the slice of the token service the provider needs.
type TokenIssuer interface {
	Issue(ctx context.Context, wallet *models.Wallet, suppliedKey string) (string, error)
}

// ProviderKind selects a Provider implementation.
type ProviderKind string

const (
	// ProviderBasic composes the wallet store with the token service.
	ProviderBasic ProviderKind = "basic"
)

// NewProvider resolves kind into a Provider. Unknown kinds are a startup
// configuration error.
func NewProvider(kind ProviderKind, store wallets.Store, issuer TokenIssuer) (Provider, error) {
	switch kind {
	case ProviderBasic:
		return &basicProvider{store: store, issuer: issuer}, nil
	default:
		return nil, fmt.Errorf("unknown multitenancy provider %q", kind)
	}
}

type basicProvider struct {
	store  wallets.Store
	issuer TokenIssuer
}

func (p *basicProvider) CreateWallet(ctx context.Context, settings map[string]any, mode models.WalletKeyMode) (*models.Wallet, error) {
	return p.store.Create(ctx, settings, mode)
}

func (p *basicProvider) CreateAuthToken(ctx context.Context, wallet *models.Wallet, walletKey string) (string, error) {
	return p.issuer.Issue(ctx, wallet, walletKey)
}
