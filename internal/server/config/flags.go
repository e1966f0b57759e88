package config

import (
	"flag"
	"os"
	"time"

	"github.com/tenantgate/tenantgate/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-s string   token signing secret (HS256)
//	-u string   token expiry unit (weeks|days|hours|minutes)
//	-t int      token expiry amount, in units of -u
//	-r int      reservation validity, minutes
//	-m string   multitenancy provider kind
//	-n string   privileged bootstrap wallet name
//	-k string   privileged bootstrap wallet key
//	-p bool     print the generated bootstrap wallet key
//	-a bool     auto-approve reservations on submission
//	-i bool     mark checked-in tenants as issuers
//	-v bool     always verify a supplied wallet key on token issue
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s", "-u", "-t", "-r", "-m", "-n", "-k", "-p", "-a", "-i", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.StringVar(&config.TokenExpiryUnit, "u", config.TokenExpiryUnit, "token expiry unit (weeks|days|hours|minutes)")
	fs.IntVar(&config.TokenExpiryAmount, "t", config.TokenExpiryAmount, "token expiry amount")

	reservationExpiryMinutes := fs.Int("r", int(config.ReservationExpiry.Minutes()), "reservation validity (in minutes)")

	fs.StringVar(&config.ProviderKind, "m", config.ProviderKind, "multitenancy provider kind")
	fs.StringVar(&config.BootstrapWalletName, "n", config.BootstrapWalletName, "bootstrap wallet name")
	fs.StringVar(&config.BootstrapWalletKey, "k", config.BootstrapWalletKey, "bootstrap wallet key")
	fs.BoolVar(&config.BootstrapPrintKey, "p", config.BootstrapPrintKey, "print generated bootstrap wallet key")
	fs.BoolVar(&config.AutoApprove, "a", config.AutoApprove, "auto-approve reservations")
	fs.BoolVar(&config.AutoIssuer, "i", config.AutoIssuer, "mark checked-in tenants as issuers")
	fs.BoolVar(&config.AlwaysVerifyKey, "v", config.AlwaysVerifyKey, "always verify supplied wallet key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ReservationExpiry = time.Duration(*reservationExpiryMinutes) * time.Minute
}
