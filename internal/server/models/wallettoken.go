package models

import "time"

// WalletToken is the per-wallet token secret plus its revocation
// bookkeeping. There is at most one row per wallet, created lazily on the
// first token request.
//
// IssuedAtClaims is the set of still-valid issuance timestamps; a token is
// only accepted while its issued-at is a member. LegacyIssuedAt mirrors the
// single-claim field used before the claims list existed, so tokens minted
// back then keep validating.
type WalletToken struct {
	WalletID       string
	KeySalt        []byte
	KeyHash        []byte
	LegacyIssuedAt *time.Time
	IssuedAtClaims []time.Time
	CreatedAt      time.Time
}

// HasClaim reports whether issuedAt is a member of the claims list or
// matches the legacy single-claim value.
func (w *WalletToken) HasClaim(issuedAt time.Time) bool {
	for _, c := range w.IssuedAtClaims {
		if c.Equal(issuedAt) {
			return true
		}
	}
	return w.LegacyIssuedAt != nil && w.LegacyIssuedAt.Equal(issuedAt)
}
