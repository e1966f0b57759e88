package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
)

func TestRepositoryFactories_NotNil(t *testing.T) {
	m := NewPostgresRepositoryManager()
	if m.Reservations(nil) == nil {
		t.Fatalf("Reservations returned nil")
	}
	if m.Tenants(nil) == nil {
		t.Fatalf("Tenants returned nil")
	}
	if m.WalletTokens(nil) == nil {
		t.Fatalf("WalletTokens returned nil")
	}
	if m.ApiKeys(nil) == nil {
		t.Fatalf("ApiKeys returned nil")
	}
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	want := errors.New("migrate failed")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return want
	}

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), nil); !errors.Is(err, want) {
		t.Fatalf("want migration error, got %v", err)
	}
}
