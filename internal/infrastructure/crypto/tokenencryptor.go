// Package crypto implements the at-rest credential vault: AES-GCM
// authenticated encryption of provider tokens with a pluggable key source.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/devvault/cockpit/internal/shared/logger"
)

// ErrCryptoFailure is returned when decryption fails: malformed envelope,
// authentication tag mismatch, or truncated data. The token migration job
// relies on it to tell "stored as plaintext" apart from "already encrypted".
var ErrCryptoFailure = errors.New("crypto failure")

// tokenEncryptionAlias is the key store lookup name for the vault key.
const tokenEncryptionAlias = "token-encryption"

const nonceLength = 12

// TokenEncryptor encrypts and decrypts secret tokens with AES-256-GCM.
// Envelope format: base64(nonce || ciphertext+tag). When no key is
// configured the vault runs in disabled mode and both operations pass
// values through unchanged.
type TokenEncryptor struct {
	aead    cipher.AEAD
	enabled bool
	logger  logger.Interface
}

// NewTokenEncryptor builds the vault. Key precedence: the inline base64
// config value, then a "token-encryption" lookup against the optional key
// store, then disabled mode.
func NewTokenEncryptor(base64Key string, keyStore KeyStore, log logger.Interface) *TokenEncryptor {
	keyToUse := base64Key
	if keyToUse == "" && keyStore != nil {
		if loaded := keyStore.LoadKey(tokenEncryptionAlias); loaded != "" {
			keyToUse = loaded
			log.Infow("loaded token encryption key from key store")
		}
	}

	if keyToUse == "" {
		log.Warnw("no token encryption key configured; tokens will be stored in plain text",
			"hint", "set security.token_encryption_key or configure a key store")
		return &TokenEncryptor{enabled: false, logger: log}
	}

	keyBytes, err := base64.StdEncoding.DecodeString(keyToUse)
	if err != nil {
		log.Errorw("token encryption key is not valid base64; vault disabled", "error", err)
		return &TokenEncryptor{enabled: false, logger: log}
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		log.Errorw("token encryption key has invalid length; vault disabled", "error", err)
		return &TokenEncryptor{enabled: false, logger: log}
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		log.Errorw("failed to initialize AES-GCM; vault disabled", "error", err)
		return &TokenEncryptor{enabled: false, logger: log}
	}

	return &TokenEncryptor{aead: aead, enabled: true, logger: log}
}

// IsEnabled reports whether the vault has a usable key. Callers must branch
// on this before deciding whether stored values are protected.
func (e *TokenEncryptor) IsEnabled() bool {
	return e.enabled
}

// Encrypt seals the plaintext into a base64 envelope. In disabled mode the
// input is returned unchanged.
func (e *TokenEncryptor) Encrypt(plain string) (string, error) {
	if !e.enabled {
		return plain, nil
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nil, nonce, []byte(plain), nil)
	envelope := make([]byte, 0, len(nonce)+len(sealed))
	envelope = append(envelope, nonce...)
	envelope = append(envelope, sealed...)
	return base64.StdEncoding.EncodeToString(envelope), nil
}

// Decrypt opens a base64 envelope. Any malformed input or tag mismatch
// yields ErrCryptoFailure; corrupted plaintext is never returned silently.
// In disabled mode the input is returned unchanged.
func (e *TokenEncryptor) Decrypt(envelope string) (string, error) {
	if !e.enabled {
		return envelope, nil
	}

	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 envelope", ErrCryptoFailure)
	}
	if len(raw) < nonceLength+e.aead.Overhead() {
		return "", fmt.Errorf("%w: envelope too short", ErrCryptoFailure)
	}

	nonce, sealed := raw[:nonceLength], raw[nonceLength:]
	plain, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: authentication failed", ErrCryptoFailure)
	}
	return string(plain), nil
}
