package tenants

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/tenantgate/tenantgate/internal/common"
	"github.com/tenantgate/tenantgate/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+tenants\s*\(id,\s*name,\s*wallet_id,\s*state\)`).
		WithArgs("t-1", "alpha", "w-1", string(models.TenantActive)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	got, err := repo.Create(context.Background(), &models.Tenant{ID: "t-1", Name: "alpha", WalletID: "w-1", State: models.TenantActive})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("created_at not populated")
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+tenants`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "tenants_name_key" (SQLSTATE 23505)`))

	_, err := repo.Create(context.Background(), &models.Tenant{ID: "t-2", Name: "alpha", WalletID: "w-2", State: models.TenantActive})
	if !errors.Is(err, common.ErrDuplicateName) {
		t.Fatalf("want ErrDuplicateName, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT\s+.+\s+FROM\s+tenants\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByWalletID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "wallet_id", "state", "created_at"}).
		AddRow("t-1", "alpha", "w-1", "active", time.Now())
	mock.ExpectQuery(`(?s)SELECT\s+.+\s+FROM\s+tenants\s+WHERE\s+wallet_id\s*=\s*\$1`).
		WithArgs("w-1").
		WillReturnRows(rows)

	got, err := repo.GetByWalletID(context.Background(), "w-1")
	if err != nil {
		t.Fatalf("GetByWalletID error: %v", err)
	}
	if got.ID != "t-1" || got.State != models.TenantActive {
		t.Fatalf("unexpected tenant: %+v", got)
	}
}
