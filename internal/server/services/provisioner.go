package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tenantgate/tenantgate/internal/common"
	"github.com/tenantgate/tenantgate/internal/logging"
	"github.com/tenantgate/tenantgate/internal/server/config"
	"github.com/tenantgate/tenantgate/internal/server/models"
	"github.com/tenantgate/tenantgate/internal/server/multitenancy"
	"github.com/tenantgate/tenantgate/internal/server/repositories/repomanager"
	"github.com/tenantgate/tenantgate/internal/server/wallets"
)

// PrivilegedTenantID is the fixed id of the built-in tenant authorized to
// approve reservations and manage others. Bootstrap is idempotent on it.
const PrivilegedTenantID = "00000000-0000-4000-8000-000000000001"

// Wallet settings keys written by the provisioner, passed through to the
// wallet store alongside any reservation-carried configuration.
const (
	SettingPrivileged = "tenant.gatekeeper"
	SettingIssuer     = "tenant.issuer"
	SettingEndorsers  = "tenant.connect_to_endorsers"
	SettingPublicDIDs = "tenant.create_public_dids"
)

// ProvisionResult bundles the artifacts of a successful provisioning run.
type ProvisionResult struct {
	Tenant *models.Tenant
	Wallet *models.Wallet
	Token  string
}

// ProvisioningService creates wallets and their tenant rows. Wallet and
// tenant live in different stores with no shared transaction; a failed
// tenant insert is compensated by deleting the just-created wallet.
type ProvisioningService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	wallets  wallets.Store
	provider multitenancy.Provider
	logger   logging.Logger
}

// NewProvisioningService constructs a ProvisioningService.
func NewProvisioningService(db *sql.DB, repos repomanager.RepositoryManager, walletStore wallets.Store, provider multitenancy.Provider, logger logging.Logger) *ProvisioningService {
	return &ProvisioningService{
		db:       db,
		repos:    repos,
		wallets:  walletStore,
		provider: provider,
		logger:   logger,
	}
}

// UniqueWalletName probes the wallet store until the candidate name is
// free. Each collision appends "-<n>" to the previous candidate, so
// colliding on "foo" and then "foo-1" yields "foo-1-2".
//
// The probe is advisory: another caller can still take the name between the
// probe and the create, in which case the store's duplicate error surfaces
// unchanged.
func (s *ProvisioningService) UniqueWalletName(ctx context.Context, proposed string) (string, error) {
	candidate := proposed
	for n := 1; ; n++ {
		_, err := s.wallets.QueryByName(ctx, candidate)
		if errors.Is(err, common.ErrorNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", candidate, n)
	}
}

// CreateWallet provisions a wallet under a unique name, mints its initial
// auth token, and creates the tenant row bound to it.
func (s *ProvisioningService) CreateWallet(ctx context.Context, name, key string, mode models.WalletKeyMode, extraSettings map[string]any) (*ProvisionResult, error) {
	return s.createWallet(ctx, uuid.NewString(), name, key, mode, extraSettings)
}

func (s *ProvisioningService) createWallet(ctx context.Context, tenantID, name, key string, mode models.WalletKeyMode, extraSettings map[string]any) (*ProvisionResult, error) {
	uniqueName, err := s.UniqueWalletName(ctx, name)
	if err != nil {
		return nil, err
	}

	settings := map[string]any{
		wallets.SettingWalletName: uniqueName,
		wallets.SettingWalletKey:  key,
	}
	for k, v := range extraSettings {
		settings[k] = v
	}

	wallet, err := s.provider.CreateWallet(ctx, settings, mode)
	if err != nil {
		return nil, err
	}

	token, err := s.provider.CreateAuthToken(ctx, wallet, key)
	if err != nil {
		s.compensate(ctx, wallet.ID)
		return nil, err
	}

	tenant := &models.Tenant{
		ID:       tenantID,
		Name:     uniqueName,
		WalletID: wallet.ID,
		State:    models.TenantActive,
	}
	if _, err := s.repos.Tenants(s.db).Create(ctx, tenant); err != nil {
		s.compensate(ctx, wallet.ID)
		return nil, err
	}

	return &ProvisionResult{Tenant: tenant, Wallet: wallet, Token: token}, nil
}

// compensate deletes a wallet whose tenant row never materialized. There is
// no two-phase commit across the two stores; this is the only rollback.
func (s *ProvisioningService) compensate(ctx context.Context, walletID string) {
	if err := s.wallets.Delete(ctx, walletID); err != nil {
		s.logger.Error(ctx, "orphaned wallet could not be deleted", "wallet_id", walletID, "err", err)
	}
}

// BootstrapPrivileged ensures the privileged tenant exists and returns it
// with a fresh token. Safe to invoke on every process start: an existing
// tenant is reused, only its token is reissued.
func (s *ProvisioningService) BootstrapPrivileged(ctx context.Context, cfg *config.Config) (*ProvisionResult, error) {
	tenant, err := s.repos.Tenants(s.db).GetByID(ctx, PrivilegedTenantID)
	if err == nil {
		wallet, err := s.wallets.GetByID(ctx, tenant.WalletID)
		if err != nil {
			return nil, err
		}
		token, err := s.provider.CreateAuthToken(ctx, wallet, cfg.BootstrapWalletKey)
		if err != nil {
			return nil, err
		}
		return &ProvisionResult{Tenant: tenant, Wallet: wallet, Token: token}, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	key := cfg.BootstrapWalletKey
	if key == "" {
		key, err = common.MakeRandHexString(24)
		if err != nil {
			return nil, common.ErrorInternal
		}
	}

	result, err := s.createWallet(ctx, PrivilegedTenantID, cfg.BootstrapWalletName, key, models.WalletKeyManaged,
		map[string]any{SettingPrivileged: true})
	if err != nil {
		return nil, err
	}
	if cfg.BootstrapPrintKey && cfg.BootstrapWalletKey == "" {
		s.logger.Info(ctx, "generated privileged wallet key", "wallet_name", result.Wallet.Name, "wallet_key", key)
	}
	return result, nil
}
