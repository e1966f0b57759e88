package models

import "time"

// TenantApiKey is a static API key for one tenant. Only the salted hash is
// stored; the plaintext is shown once at creation. Revocation is a hard
// delete of the row.
type TenantApiKey struct {
	ID        string
	TenantID  string
	Alias     string
	KeySalt   []byte
	KeyHash   []byte
	CreatedAt time.Time
}
