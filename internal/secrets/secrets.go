// ABOUTME: Secret manager holding the process-wide signing and encryption keys
// ABOUTME: Provides AES-GCM encrypt/decrypt for credentials stored at rest

package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrCrypto is returned when ciphertext cannot be decrypted with the current
// key (corrupted, truncated, or produced under a different key). The request
// that triggered the decrypt fails; the process keeps running.
var ErrCrypto = errors.New("decryption failed")

// Manager holds the keys loaded once at startup. It is immutable after
// construction and safe for concurrent use without locking.
type Manager struct {
	signingKey []byte
	aead       cipher.AEAD
}

// New creates a Manager from the JWT signing secret and the base64-encoded
// AES encryption key (16, 24, or 32 bytes decoded).
func New(jwtSecret string, encryptionKey string) (*Manager, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("signing secret must not be empty")
	}

	key, err := base64.StdEncoding.DecodeString(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decoding encryption key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &Manager{
		signingKey: []byte(jwtSecret),
		aead:       aead,
	}, nil
}

// SigningKey returns the HMAC key used to sign and verify bearer tokens.
func (m *Manager) SigningKey() []byte {
	return m.signingKey
}

// Encrypt encrypts a plaintext string and returns a base64 token of
// nonce||ciphertext. A fresh random nonce is generated per call.
func (m *Manager) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, m.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := m.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Returns ErrCrypto for any token that was not
// produced with the current key.
func (m *Manager) Decrypt(token string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: invalid encoding", ErrCrypto)
	}

	nonceSize := m.aead.NonceSize()
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrCrypto)
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := m.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	return string(plaintext), nil
}
