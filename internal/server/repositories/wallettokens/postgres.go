package wallettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tenantgate/tenantgate/internal/common"
	"github.com/tenantgate/tenantgate/internal/dbx"
	"github.com/tenantgate/tenantgate/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, walletID string) (*models.WalletToken, error) {
	query := `
		SELECT wallet_id, key_salt, key_hash, legacy_issued_at, created_at
		FROM wallet_tokens
		WHERE wallet_id = $1
	`
	wt := &models.WalletToken{}
	err := r.db.QueryRowContext(ctx, query, walletID).
		Scan(&wt.WalletID, &wt.KeySalt, &wt.KeyHash, &wt.LegacyIssuedAt, &wt.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	claims := `
		SELECT issued_at
		FROM wallet_token_claims
		WHERE wallet_id = $1
		ORDER BY issued_at
	`
	rows, err := r.db.QueryContext(ctx, claims, walletID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var issuedAt time.Time
		if err := rows.Scan(&issuedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		wt.IssuedAtClaims = append(wt.IssuedAtClaims, issuedAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return wt, nil
}

func (r *PostgresRepository) Create(ctx context.Context, wt *models.WalletToken) error {
	query := `
		INSERT INTO wallet_tokens (wallet_id, key_salt, key_hash)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, wt.WalletID, wt.KeySalt, wt.KeyHash); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddClaim(ctx context.Context, walletID string, issuedAt time.Time) error {
	query := `
		INSERT INTO wallet_token_claims (wallet_id, issued_at)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, walletID, issuedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveClaim(ctx context.Context, walletID string, issuedAt time.Time) error {
	query := `
		DELETE FROM wallet_token_claims
		WHERE wallet_id = $1 AND issued_at = $2
	`
	if _, err := r.db.ExecContext(ctx, query, walletID, issuedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetLegacyIssuedAt(ctx context.Context, walletID string, issuedAt time.Time) error {
	query := `
		UPDATE wallet_tokens
		SET legacy_issued_at = $2
		WHERE wallet_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, walletID, issuedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
