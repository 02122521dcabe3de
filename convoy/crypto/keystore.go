package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of the symmetric key in bytes.
const KeySize = chacha20poly1305.KeySize

// DefaultKeyFile is the well-known key location used when no path is configured.
const DefaultKeyFile = "secret.key"

var ErrBadKeyLength = errors.New("crypto: key file has wrong length")

// KeyStore owns the lifecycle of the deployment key: generated once at a
// well-known path, read-only afterwards. Every encrypt/decrypt call loads
// the key through the store, so all loops in the process (and any peer
// process pointed at the same file) see the same key material.
type KeyStore struct {
	path string
}

// NewKeyStore returns a store backed by the key file at path.
// An empty path selects DefaultKeyFile.
func NewKeyStore(path string) *KeyStore {
	if path == "" {
		path = DefaultKeyFile
	}
	return &KeyStore{path: path}
}

// Path returns the key file location.
func (ks *KeyStore) Path() string { return ks.path }

// LoadOrCreate returns the persisted key, generating and persisting a fresh
// one on first use. Creation is atomic (O_EXCL): if two processes race, one
// wins and the other reads the winner's key. Storage failures are returned
// as-is; there is no fallback key.
func (ks *KeyStore) LoadOrCreate() ([]byte, error) {
	key, err := ks.load()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	key = make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("crypto: generate key: %w", err)
	}

	f, err := os.OpenFile(ks.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			// Lost the creation race; the other writer's key is canonical.
			return ks.load()
		}
		return nil, fmt.Errorf("crypto: create key file: %w", err)
	}
	if _, err := f.Write(key); err != nil {
		f.Close()
		return nil, fmt.Errorf("crypto: write key file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("crypto: close key file: %w", err)
	}
	return key, nil
}

func (ks *KeyStore) load() ([]byte, error) {
	key, err := os.ReadFile(ks.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("crypto: read key file: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrBadKeyLength, len(key), KeySize)
	}
	return key, nil
}
