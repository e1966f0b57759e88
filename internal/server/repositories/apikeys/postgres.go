package apikeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, k *models.TenantApiKey) (*models.TenantApiKey, error) {
	query := `
		INSERT INTO tenant_api_keys (id, tenant_id, alias, key_salt, key_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, k.ID, k.TenantID, k.Alias, k.KeySalt, k.KeyHash).
		Scan(&k.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return k, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.TenantApiKey, error) {
	query := `
		SELECT id, tenant_id, alias, key_salt, key_hash, created_at
		FROM tenant_api_keys
		WHERE id = $1
	`
	k := &models.TenantApiKey{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&k.ID, &k.TenantID, &k.Alias, &k.KeySalt, &k.KeyHash, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return k, nil
}

func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]*models.TenantApiKey, error) {
	query := `
		SELECT id, tenant_id, alias, key_salt, key_hash, created_at
		FROM tenant_api_keys
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.TenantApiKey
	for rows.Next() {
		k := &models.TenantApiKey{}
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Alias, &k.KeySalt, &k.KeyHash, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tenant_api_keys WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
