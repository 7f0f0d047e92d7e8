package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"
)

// EncryptionMethod defines how data is encrypted at rest.
type EncryptionMethod string

const (
	EncryptionNone   EncryptionMethod = "none"
	EncryptionSecret EncryptionMethod = "machine_secret"
)

// EncryptionManager provides AES-256-GCM encryption for stored data
// (credentials, exported history). The key is derived with scrypt from a
// random machine secret generated on first use, so encrypted files are bound
// to the data directory that created them.
type EncryptionManager struct {
	method EncryptionMethod
	aesKey []byte
}

// NewEncryptionManager creates a new encryption manager.
func NewEncryptionManager(method EncryptionMethod) *EncryptionManager {
	return &EncryptionManager{method: method}
}

// Initialize loads or creates the machine secret and derives the AES key.
func (e *EncryptionManager) Initialize(dataDir string) error {
	switch e.method {
	case EncryptionNone:
		return nil

	case EncryptionSecret:
		secret, err := loadOrCreateSecret(dataDir)
		if err != nil {
			return fmt.Errorf("failed to load machine secret: %w", err)
		}
		key, err := deriveAESKey(secret)
		if err != nil {
			return fmt.Errorf("failed to derive encryption key: %w", err)
		}
		e.aesKey = key
		return nil

	default:
		return fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

// Encrypt encrypts data, or returns it unchanged for EncryptionNone.
func (e *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	switch e.method {
	case EncryptionNone:
		return plaintext, nil
	case EncryptionSecret:
		if e.aesKey == nil {
			return nil, fmt.Errorf("encryption manager not initialized")
		}
		return encryptAESGCM(plaintext, e.aesKey)
	default:
		return nil, fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

// Decrypt decrypts data, or returns it unchanged for EncryptionNone.
func (e *EncryptionManager) Decrypt(ciphertext []byte) ([]byte, error) {
	switch e.method {
	case EncryptionNone:
		return ciphertext, nil
	case EncryptionSecret:
		if e.aesKey == nil {
			return nil, fmt.Errorf("encryption manager not initialized")
		}
		return decryptAESGCM(ciphertext, e.aesKey)
	default:
		return nil, fmt.Errorf("unknown encryption method: %s", e.method)
	}
}

// GetMethod returns the current encryption method.
func (e *EncryptionManager) GetMethod() EncryptionMethod {
	return e.method
}

// loadOrCreateSecret reads the machine secret, generating a fresh random one
// on first use (0600 - the secret protects stored API keys).
func loadOrCreateSecret(dataDir string) ([]byte, error) {
	path := filepath.Join(dataDir, "secret.key")

	if data, err := os.ReadFile(path); err == nil && len(data) >= 32 {
		return data, nil
	}

	secret := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, err
	}
	return secret, nil
}

// deriveAESKey derives a 32-byte AES-256 key from the machine secret.
func deriveAESKey(secret []byte) ([]byte, error) {
	salt := []byte("membrain-credential-key-v1")
	return scrypt.Key(secret, salt, 1<<15, 8, 1, 32)
}

// encryptAESGCM encrypts data using AES-256-GCM.
// Format: [nonce (12 bytes)][ciphertext + tag]
func encryptAESGCM(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decryptAESGCM decrypts data using AES-256-GCM.
// Expects format: [nonce (12 bytes)][ciphertext + tag]
func decryptAESGCM(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}
