package models

// WalletKeyMode selects who holds the wallet's unlock key.
type WalletKeyMode string

const (
	// WalletKeyManaged — the wallet store keeps the key; tokens can be
	// issued without the caller supplying it.
	WalletKeyManaged WalletKeyMode = "managed"
	// WalletKeyUnmanaged — the caller holds the key and must supply it on
	// every token request.
	WalletKeyUnmanaged WalletKeyMode = "unmanaged"
)

// Wallet is the external keystore record, owned by the wallet store
// collaborator. Key is populated only for managed wallets.
type Wallet struct {
	ID                  string
	Name                string
	RequiresExternalKey bool
	Key                 string
	Settings            map[string]any
}
