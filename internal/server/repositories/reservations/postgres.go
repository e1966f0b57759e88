package reservations

import (
	"context"
	"database/sql"
	"encoding/json"
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

const reservationColumns = `id, state, tenant_name, tenant_reason, contact_name, contact_email, contact_phone,
		tenant_id, wallet_id, token_salt, token_hash, token_expiry, state_notes, provisioning, created_at`

func (r *PostgresRepository) Create(ctx context.Context, res *models.Reservation) (*models.Reservation, error) {
	provisioning, err := json.Marshal(res.Provisioning)
	if err != nil {
		return nil, fmt.Errorf("provisioning encode error: %w", err)
	}

	query := `
		INSERT INTO reservations (id, state, tenant_name, tenant_reason, contact_name, contact_email, contact_phone, state_notes, provisioning)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	err = r.db.QueryRowContext(ctx, query,
		res.ID, res.State, res.TenantName, res.TenantReason,
		res.ContactName, res.ContactEmail, res.ContactPhone,
		res.StateNotes, provisioning).Scan(&res.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, res *models.Reservation) error {
	provisioning, err := json.Marshal(res.Provisioning)
	if err != nil {
		return fmt.Errorf("provisioning encode error: %w", err)
	}

	query := `
		UPDATE reservations
		SET state = $2, tenant_id = $3, wallet_id = $4,
		    token_salt = $5, token_hash = $6, token_expiry = $7,
		    state_notes = $8, provisioning = $9
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		res.ID, res.State, res.TenantID, res.WalletID,
		res.TokenSalt, res.TokenHash, res.TokenExpiry,
		res.StateNotes, provisioning)
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

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Reservation
	for rows.Next() {
		res, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Reservation, error) {
	res, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r *PostgresRepository) scanRow(row rowScanner) (*models.Reservation, error) {
	res := &models.Reservation{}
	var provisioning []byte
	err := row.Scan(&res.ID, &res.State, &res.TenantName, &res.TenantReason,
		&res.ContactName, &res.ContactEmail, &res.ContactPhone,
		&res.TenantID, &res.WalletID, &res.TokenSalt, &res.TokenHash, &res.TokenExpiry,
		&res.StateNotes, &provisioning, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(provisioning) > 0 {
		if err := json.Unmarshal(provisioning, &res.Provisioning); err != nil {
			return nil, fmt.Errorf("provisioning decode error: %w", err)
		}
	}
	return res, nil
}
