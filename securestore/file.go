package securestore

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const keyLen = 32

// Argon2id parameters for passphrase-derived keys.
const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 1
)

var fileEnc = base32.StdEncoding.WithPadding(base32.NoPadding)

// FileStore is an encrypted file-backed Store. Each value is sealed with
// XChaCha20-Poly1305 using the key name as AAD, so a value copied between
// entries fails to open.
type FileStore struct {
	mu  sync.Mutex
	dir string
	key []byte
}

// NewFileStore opens (or initializes) a store under dir with a random key kept
// beside the data files with 0600 permissions.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	keyPath := filepath.Join(dir, "store.key")
	key, err := os.ReadFile(keyPath)
	if errors.Is(err, os.ErrNotExist) {
		key = make([]byte, keyLen)
		if _, err := rand.Read(key); err != nil {
			return nil, err
		}
		if err := os.WriteFile(keyPath, key, 0o600); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	if len(key) != keyLen {
		return nil, fmt.Errorf("securestore: bad key length %d", len(key))
	}
	return &FileStore{dir: dir, key: key}, nil
}

// NewFileStoreWithPassphrase opens a store whose key is derived from the
// passphrase with Argon2id over a per-store random salt. The salt is stored
// beside the data files; the key itself never touches disk.
func NewFileStoreWithPassphrase(dir, passphrase string) (*FileStore, error) {
	if passphrase == "" {
		return nil, errors.New("securestore: empty passphrase")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	saltPath := filepath.Join(dir, "store.salt")
	salt, err := os.ReadFile(saltPath)
	if errors.Is(err, os.ErrNotExist) {
		salt = make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return nil, err
		}
		if err := os.WriteFile(saltPath, salt, 0o600); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)
	return &FileStore{dir: dir, key: key}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, fileEnc.EncodeToString([]byte(key))+".bin")
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sealed, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	plain, err := s.open(key, sealed)
	if err != nil {
		return "", false, fmt.Errorf("securestore: open %q: %w", key, err)
	}
	return string(plain), true, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sealed, err := s.seal(key, []byte(value))
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), sealed, 0o600)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) seal(name string, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	out = append(out, aead.Seal(nil, nonce, plaintext, []byte(name))...)
	return out, nil
}

func (s *FileStore) open(name string, sealed []byte) ([]byte, error) {
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return nil, errors.New("sealed value too short")
	}
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, err
	}
	nonce := sealed[:chacha20poly1305.NonceSizeX]
	ct := sealed[chacha20poly1305.NonceSizeX:]
	return aead.Open(nil, nonce, ct, []byte(name))
}
