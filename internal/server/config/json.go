package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/tenantgate/tenantgate/internal/flagx"
	"github.com/tenantgate/tenantgate/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "60m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; after unmarshalling, its fields are copied into the
// runtime Config struct. Absent fields keep whatever the earlier layers set.
type JsonConfig struct {
	DatabaseDSN         *string         `json:"database_dsn"`
	SecretKey           *string         `json:"secret_key"`
	TokenExpiryUnit     *string         `json:"token_expiry_unit"`
	TokenExpiryAmount   *int            `json:"token_expiry_amount"`
	ReservationExpiry   *timex.Duration `json:"reservation_expiry"`
	AutoApprove         *bool           `json:"auto_approve"`
	AutoIssuer          *bool           `json:"auto_issuer"`
	AlwaysVerifyKey     *bool           `json:"always_verify_key"`
	ProviderKind        *string         `json:"provider"`
	BootstrapWalletName *string         `json:"bootstrap_wallet_name"`
	BootstrapWalletKey  *string         `json:"bootstrap_wallet_key"`
	BootstrapPrintKey   *bool           `json:"bootstrap_print_key"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded.
//
// If the file cannot be read or contains invalid JSON, the function panics:
// an explicitly requested config file that does not parse is not a condition
// the server should start under.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenExpiryUnit != nil {
		config.TokenExpiryUnit = *c.TokenExpiryUnit
	}
	if c.TokenExpiryAmount != nil {
		config.TokenExpiryAmount = *c.TokenExpiryAmount
	}
	if c.ReservationExpiry != nil {
		config.ReservationExpiry = time.Duration(c.ReservationExpiry.Duration)
	}
	if c.AutoApprove != nil {
		config.AutoApprove = *c.AutoApprove
	}
	if c.AutoIssuer != nil {
		config.AutoIssuer = *c.AutoIssuer
	}
	if c.AlwaysVerifyKey != nil {
		config.AlwaysVerifyKey = *c.AlwaysVerifyKey
	}
	if c.ProviderKind != nil {
		config.ProviderKind = *c.ProviderKind
	}
	if c.BootstrapWalletName != nil {
		config.BootstrapWalletName = *c.BootstrapWalletName
	}
	if c.BootstrapWalletKey != nil {
		config.BootstrapWalletKey = *c.BootstrapWalletKey
	}
	if c.BootstrapPrintKey != nil {
		config.BootstrapPrintKey = *c.BootstrapPrintKey
	}
}
