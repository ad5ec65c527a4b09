// Package crypto derives purpose-specific keys from the configured secret
// and seals small values (the backend token kept in a session) with
// AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size for AES-256 keys (32 bytes)
	KeySize = 32

	// MinSecretSize is the shortest accepted master secret.
	MinSecretSize = 32
)

// HKDF info labels. Changing one invalidates everything sealed or signed
// with the derived key.
const (
	PurposeCSRF         = "booknet csrf v1"
	PurposeSessionToken = "booknet session token v1"
)

var (
	ErrInvalidKeySize     = errors.New("encryption key must be 32 bytes for AES-256")
	ErrSecretTooShort     = fmt.Errorf("secret must be at least %d bytes", MinSecretSize)
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrDecryptionFailed   = errors.New("decryption failed: authentication error")
)

// DeriveKey expands secret into a KeySize key bound to purpose.
func DeriveKey(secret []byte, purpose string) ([]byte, error) {
	if len(secret) < MinSecretSize {
		return nil, ErrSecretTooShort
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(purpose)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// Keys are the keys the web tier needs, all derived from one secret.
type Keys struct {
	CSRF         []byte
	SessionToken []byte
}

func DeriveKeys(secret []byte) (*Keys, error) {
	csrfKey, err := DeriveKey(secret, PurposeCSRF)
	if err != nil {
		return nil, err
	}
	tokenKey, err := DeriveKey(secret, PurposeSessionToken)
	if err != nil {
		return nil, err
	}
	return &Keys{CSRF: csrfKey, SessionToken: tokenKey}, nil
}

// Encryptor seals strings with AES-256-GCM. Additional data binds a
// ciphertext to its context, so a value sealed for one user cannot be
// opened for another.
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor creates a new Encryptor with the given key.
func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Encryptor{aead: aead}, nil
}

// Seal encrypts plaintext and returns base64url(nonce || ciphertext).
func (e *Encryptor) Seal(plaintext, additional string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), []byte(additional))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. additional must match the value used to seal.
func (e *Encryptor) Open(encoded, additional string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	if len(sealed) < e.aead.NonceSize() {
		return "", ErrCiphertextTooShort
	}

	nonce, ciphertext := sealed[:e.aead.NonceSize()], sealed[e.aead.NonceSize():]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, []byte(additional))
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// GenerateSecret returns a random base64 secret suitable for
// AUTH_SESSION_SECRET.
func GenerateSecret() (string, error) {
	secret := make([]byte, MinSecretSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(secret), nil
}
