// Package models holds the persisted row types shared by repositories and
// services.
package models

import "time"

// ReservationState enumerates the reservation lifecycle. Requested is the
// initial state; Denied and CheckedIn are terminal.
type ReservationState string

const (
	ReservationRequested ReservationState = "requested"
	ReservationApproved  ReservationState = "approved"
	ReservationDenied    ReservationState = "denied"
	ReservationCheckedIn ReservationState = "checked_in"
)

// EndorserConnection names an endorser the provisioned tenant should be
// connected to, and the ledger that endorser writes to.
type EndorserConnection struct {
	EndorserAlias string `json:"endorser_alias"`
	LedgerID      string `json:"ledger_id"`
}

// ProvisioningConfig is carried on a reservation from submission through to
// the created tenant. It is opaque to the reservation state machine.
type ProvisioningConfig struct {
	ConnectToEndorsers []EndorserConnection `json:"connect_to_endorsers,omitempty"`
	CreatePublicDIDs   []string             `json:"create_public_dids,omitempty"`
}

// Reservation is a request to create a new tenant. Rows are never deleted;
// the full history of requests is the audit trail.
//
// TokenSalt/TokenHash/TokenExpiry are non-nil exactly while the reservation
// is approved: Approve populates them and CheckIn clears them. TenantID and
// WalletID are set on check-in only.
type Reservation struct {
	ID           string
	State        ReservationState
	TenantName   string
	TenantReason string
	ContactName  string
	ContactEmail string
	ContactPhone string
	TenantID     *string
	WalletID     *string
	TokenSalt    []byte
	TokenHash    []byte
	TokenExpiry  *time.Time
	StateNotes   string
	Provisioning ProvisioningConfig
	CreatedAt    time.Time
}
