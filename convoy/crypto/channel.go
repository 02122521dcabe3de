package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

var (
	ErrCiphertextTooShort = errors.New("crypto: ciphertext too short")
	ErrDecryptionFailed   = errors.New("crypto: decryption failed")
)

// Channel provides authenticated encryption of text payloads under the
// deployment key. It uses XChaCha20-Poly1305 with a random 24-byte nonce
// drawn fresh for every Encrypt, so identical plaintexts never produce
// identical envelopes.
//
// Envelope format: nonce (24 bytes) || ciphertext || tag (16 bytes).
type Channel struct {
	keys *KeyStore
}

// NewChannel wraps a key store. The key is loaded on every call, matching
// the store's init-once, read-many lifecycle.
func NewChannel(keys *KeyStore) *Channel {
	return &Channel{keys: keys}
}

// Encrypt seals plaintext into an envelope.
func (c *Channel) Encrypt(plaintext string) ([]byte, error) {
	aead, err := c.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("crypto: generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// Decrypt opens an envelope and returns the original plaintext. Any
// tampering, truncation, or key mismatch yields ErrDecryptionFailed.
func (c *Channel) Decrypt(envelope []byte) (string, error) {
	aead, err := c.aead()
	if err != nil {
		return "", err
	}
	if len(envelope) < chacha20poly1305.NonceSizeX+aead.Overhead() {
		return "", ErrCiphertextTooShort
	}
	nonce := envelope[:chacha20poly1305.NonceSizeX]
	plaintext, err := aead.Open(nil, nonce, envelope[chacha20poly1305.NonceSizeX:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// Overhead returns the fixed envelope overhead beyond the plaintext length.
func (c *Channel) Overhead() int {
	return chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead
}

func (c *Channel) aead() (cipher.AEAD, error) {
	key, err := c.keys.LoadOrCreate()
	if err != nil {
		return nil, err
	}
	return chacha20poly1305.NewX(key)
}
