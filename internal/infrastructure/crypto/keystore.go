package crypto

import (
	"os"
	"regexp"
	"strings"
)

// KeyStore resolves named encryption keys from an external source. A nil
// KeyStore is valid and means "no external source configured".
type KeyStore interface {
	// LoadKey returns the base64 key for the alias, or "" when not found.
	LoadKey(alias string) string
}

var aliasSanitizer = regexp.MustCompile(`[^A-Z0-9]`)

// EnvKeyStore resolves keys from COCKPIT_KEY_<ALIAS> environment variables.
type EnvKeyStore struct{}

// NewEnvKeyStore creates a new EnvKeyStore.
func NewEnvKeyStore() *EnvKeyStore {
	return &EnvKeyStore{}
}

// LoadKey reads COCKPIT_KEY_<ALIAS>, uppercasing the alias and replacing
// non-alphanumeric characters with underscores.
func (s *EnvKeyStore) LoadKey(alias string) string {
	envName := "COCKPIT_KEY_" + aliasSanitizer.ReplaceAllString(strings.ToUpper(alias), "_")
	return strings.TrimSpace(os.Getenv(envName))
}
