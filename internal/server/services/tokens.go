// Package services contains the server-side business logic: reservation
// lifecycle, tenant provisioning, wallet token issuance/validation, and
// tenant API keys.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tenantgate/tenantgate/internal/common"
	"github.com/tenantgate/tenantgate/internal/dbx"
	"github.com/tenantgate/tenantgate/internal/logging"
	"github.com/tenantgate/tenantgate/internal/server/config"
	"github.com/tenantgate/tenantgate/internal/server/models"
	"github.com/tenantgate/tenantgate/internal/server/repositories/repomanager"
	"github.com/tenantgate/tenantgate/internal/server/secrets"
	"github.com/tenantgate/tenantgate/internal/server/wallets"
)

// WalletClaims is the signed token payload.
type WalletClaims struct {
	jwt.RegisteredClaims
	WalletID  string `json:"wallet_id"`
	WalletKey string `json:"wallet_key,omitempty"`
}

// WalletContext is the resolved execution context of a validated token.
type WalletContext struct {
	WalletID  string
	WalletKey string
	IssuedAt  time.Time
}

// TokenService issues and validates per-wallet bearer tokens. Each issuance
// is recorded in the wallet's issued-at claims list; validation only accepts
// tokens whose issued-at is still a member, which makes removing an entry a
// cheap revocation.
type TokenService struct {
	db              *sql.DB
	repos           repomanager.RepositoryManager
	wallets         wallets.Store
	signingSecret   []byte
	tokenExpiry     time.Duration
	alwaysVerifyKey bool
	logger          logging.Logger
}

// NewTokenService constructs a TokenService from server config.
func NewTokenService(db *sql.DB, repos repomanager.RepositoryManager, walletStore wallets.Store, cfg *config.Config, logger logging.Logger) *TokenService {
	return &TokenService{
		db:              db,
		repos:           repos,
		wallets:         walletStore,
		signingSecret:   []byte(cfg.SecretKey),
		tokenExpiry:     cfg.TokenExpiryDuration(),
		alwaysVerifyKey: cfg.AlwaysVerifyKey,
		logger:          logger,
	}
}

// Issue mints a signed token for the wallet. The wallet's token secret row
// is created lazily on first use, hashing the supplied key — or the
// wallet's own key when the wallet does not require an external one.
//
// A wallet that requires an external key rejects issuance without one. When
// the service is configured to always verify, a supplied key must also match
// the stored hash.
func (s *TokenService) Issue(ctx context.Context, wallet *models.Wallet, suppliedKey string) (string, error) {
	if wallet.RequiresExternalKey && suppliedKey == "" {
		return "", common.ErrWalletKeyMissing
	}
	key := suppliedKey
	if key == "" {
		key = wallet.Key
	}

	repo := s.repos.WalletTokens(s.db)
	wt, err := repo.Get(ctx, wallet.ID)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		_, salt, hash, genErr := secrets.Generate(key)
		if genErr != nil {
			return "", common.ErrorInternal
		}
		wt = &models.WalletToken{WalletID: wallet.ID, KeySalt: salt, KeyHash: hash}
		if err := repo.Create(ctx, wt); err != nil {
			return "", err
		}
	case err != nil:
		return "", err
	default:
		if s.alwaysVerifyKey && suppliedKey != "" {
			if !secrets.Verify(suppliedKey, wt.KeySalt, wt.KeyHash) {
				return "", common.ErrWalletKeyMismatch
			}
		}
	}

	// JWT numeric dates carry second precision; truncate so the persisted
	// claim compares equal to the decoded one.
	issuedAt := time.Now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.tokenExpiry)

	claims := WalletClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		WalletID: wallet.ID,
	}
	if wallet.RequiresExternalKey {
		claims.WalletKey = suppliedKey
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingSecret)
	if err != nil {
		return "", common.ErrorInternal
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repos.WalletTokens(tx)
		if err := txRepo.AddClaim(ctx, wallet.ID, issuedAt); err != nil {
			return err
		}
		return txRepo.SetLegacyIssuedAt(ctx, wallet.ID, issuedAt)
	}); err != nil {
		return "", err
	}

	return token, nil
}

// Validate checks the token's signature, expiry, key claims, and membership
// in the wallet's issued-at claims list, and resolves the wallet context.
//
// An expired but correctly signed token has its issued-at entry removed
// before the expiry error is returned, so a retried validation of the same
// token cannot succeed through the legacy path either.
func (s *TokenService) Validate(ctx context.Context, token string) (*WalletContext, error) {
	claims := &WalletClaims{}
	_, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, s.expireToken(ctx, token)
		}
		return nil, common.ErrInvalidToken
	}
	if claims.WalletID == "" || claims.IssuedAt == nil {
		return nil, common.ErrInvalidToken
	}
	issuedAt := claims.IssuedAt.Time

	wallet, err := s.wallets.GetByID(ctx, claims.WalletID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if wallet.RequiresExternalKey && claims.WalletKey == "" {
		return nil, common.ErrWalletKeyMissing
	}

	wt, err := s.repos.WalletTokens(s.db).Get(ctx, wallet.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if claims.WalletKey != "" {
		if !secrets.Verify(claims.WalletKey, wt.KeySalt, wt.KeyHash) {
			return nil, common.ErrWalletKeyMismatch
		}
	}
	if !wt.HasClaim(issuedAt) {
		return nil, common.ErrInvalidToken
	}

	return &WalletContext{WalletID: wallet.ID, WalletKey: claims.WalletKey, IssuedAt: issuedAt}, nil
}

// IssueForWallet resolves the wallet by id and mints a token for it.
func (s *TokenService) IssueForWallet(ctx context.Context, walletID, suppliedKey string) (string, error) {
	wallet, err := s.wallets.GetByID(ctx, walletID)
	if err != nil {
		return "", err
	}
	return s.Issue(ctx, wallet, suppliedKey)
}

// IssueForTenant mints a token for the wallet bound to the tenant.
func (s *TokenService) IssueForTenant(ctx context.Context, tenantID, suppliedKey string) (string, error) {
	tenant, err := s.repos.Tenants(s.db).GetByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if tenant.State != models.TenantActive {
		return "", common.ErrTenantDisabled
	}
	return s.IssueForWallet(ctx, tenant.WalletID, suppliedKey)
}

func (s *TokenService) keyFunc(t *jwt.Token) (any, error) {
	return s.signingSecret, nil
}

// expireToken garbage-collects the session entry behind an expired but
// correctly signed token, then reports the expiry. Claim removal failure is
// logged, not surfaced: the caller gets the expiry error either way.
func (s *TokenService) expireToken(ctx context.Context, token string) error {
	claims := &WalletClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation()); err != nil {
		return common.ErrInvalidToken
	}
	if claims.WalletID == "" || claims.IssuedAt == nil {
		return common.ErrTokenExpired
	}
	if err := s.repos.WalletTokens(s.db).RemoveClaim(ctx, claims.WalletID, claims.IssuedAt.Time); err != nil {
		s.logger.Warn(ctx, "failed to revoke expired session", "wallet_id", claims.WalletID, "err", err)
	}
	return common.ErrTokenExpired
}
