package repomanager

import (
	"context"
	"database/sql"

	"github.com/tenantgate/tenantgate/internal/dbx"
	"github.com/tenantgate/tenantgate/internal/server/repositories/apikeys"
	"github.com/tenantgate/tenantgate/internal/server/repositories/reservations"
	"github.com/tenantgate/tenantgate/internal/server/repositories/tenants"
	"github.com/tenantgate/tenantgate/internal/server/repositories/wallettokens"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Reservations(db dbx.DBTX) reservations.Repository
	Tenants(db dbx.DBTX) tenants.Repository
	WalletTokens(db dbx.DBTX) wallettokens.Repository
	ApiKeys(db dbx.DBTX) apikeys.Repository
}
