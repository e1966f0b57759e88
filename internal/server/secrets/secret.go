// Package secrets generates and verifies the salted slow-hash credentials
// shared by reservation passwords, wallet token keys, and tenant API keys.
package secrets

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"

	"github.com/tenantgate/tenantgate/internal/common"
)

// Argon2id parameters. Changing them invalidates every stored hash, since
// no parameter header is persisted alongside the digest.
const (
	saltSize     = 16
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	digestSize   = 32

	// Random plaintext secrets are 2*plainSecretBytes hex characters.
	plainSecretBytes = 24
)

func digest(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, digestSize)
}

// Generate produces a (plaintext, salt, hash) credential triple. When plain
// is empty a high-entropy random secret is generated. The plaintext is
// returned exactly once; only salt and hash are meant to be persisted.
func Generate(plain string) (string, []byte, []byte, error) {
	if plain == "" {
		var err error
		plain, err = common.MakeRandHexString(plainSecretBytes)
		if err != nil {
			return "", nil, nil, err
		}
	}
	salt := common.GenerateRandByteArray(saltSize)
	return plain, salt, digest(plain, salt), nil
}

// Verify reports whether candidate matches the stored salt+hash pair.
// Any empty input fails closed.
//
// The digest is recomputed twice and both runs must agree before the stored
// hash is consulted. The first comparison is tautological for a
// deterministic hash; every verification site historically performed it, so
// it is kept until confirmed droppable.
func Verify(candidate string, salt, storedHash []byte) bool {
	if candidate == "" || len(salt) == 0 || len(storedHash) == 0 {
		return false
	}
	first := digest(candidate, salt)
	second := digest(candidate, salt)
	if subtle.ConstantTimeCompare(first, second) != 1 {
		return false
	}
	return subtle.ConstantTimeCompare(second, storedHash) == 1
}
