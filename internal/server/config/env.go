package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first, if present; real environment
// variables win over .env values (godotenv does not override them).
//
// Recognized variables:
//
//	TG_DATABASE_DSN, TG_SECRET_KEY,
//	TG_TOKEN_EXPIRY_UNIT, TG_TOKEN_EXPIRY_AMOUNT,
//	TG_RESERVATION_EXPIRY_MINUTES,
//	TG_AUTO_APPROVE, TG_AUTO_ISSUER, TG_ALWAYS_VERIFY_KEY,
//	TG_PROVIDER,
//	TG_BOOTSTRAP_WALLET_NAME, TG_BOOTSTRAP_WALLET_KEY, TG_BOOTSTRAP_PRINT_KEY
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString(&config.DatabaseDSN, "TG_DATABASE_DSN")
	setString(&config.SecretKey, "TG_SECRET_KEY")
	setString(&config.TokenExpiryUnit, "TG_TOKEN_EXPIRY_UNIT")
	setInt(&config.TokenExpiryAmount, "TG_TOKEN_EXPIRY_AMOUNT")
	setString(&config.ProviderKind, "TG_PROVIDER")
	setString(&config.BootstrapWalletName, "TG_BOOTSTRAP_WALLET_NAME")
	setString(&config.BootstrapWalletKey, "TG_BOOTSTRAP_WALLET_KEY")
	setBool(&config.AutoApprove, "TG_AUTO_APPROVE")
	setBool(&config.AutoIssuer, "TG_AUTO_ISSUER")
	setBool(&config.AlwaysVerifyKey, "TG_ALWAYS_VERIFY_KEY")
	setBool(&config.BootstrapPrintKey, "TG_BOOTSTRAP_PRINT_KEY")

	if v := os.Getenv("TG_RESERVATION_EXPIRY_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			config.ReservationExpiry = time.Duration(minutes) * time.Minute
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*dst = i
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
