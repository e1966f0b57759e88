package models

import "time"

type TenantState string

const (
	TenantActive  TenantState = "active"
	TenantDeleted TenantState = "deleted"
)

// Tenant binds a name to exactly one wallet.
type Tenant struct {
	ID        string
	Name      string
	WalletID  string
	State     TenantState
	CreatedAt time.Time
}
