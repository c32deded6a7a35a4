package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jrsteele09/go-events-client/internal/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

var _ Slot = (*File)(nil)

const nonceSize = 24

// File persists the slot as a single JSON document readable only by the owner.
// When a secret is configured each value is sealed with secretbox before it is written.
type File struct {
	path string
	key  *[32]byte
	mu   sync.Mutex
}

// FileOption configures a File slot.
type FileOption func(*File)

// WithSecret seals values with a key derived from secret. An empty secret stores plaintext.
func WithSecret(secret string) FileOption {
	return func(f *File) {
		if secret == "" {
			f.key = nil
			return
		}
		k := sha256.Sum256([]byte(secret))
		f.key = &k
	}
}

// NewFile creates a file-backed slot at path.
func NewFile(path string, opts ...FileOption) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("[NewFile] path is required")
	}
	f := &File{path: path}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return "", err
	}
	e, ok := doc[key]
	if !ok {
		return "", ErrNotFound
	}
	if e.expired(NowTimeFunc()) {
		delete(doc, key)
		if err := f.save(doc); err != nil {
			return "", err
		}
		return "", ErrNotFound
	}
	return f.open(e.Value)
}

func (f *File) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	sealed, err := f.seal(value)
	if err != nil {
		return err
	}
	doc[key] = entry{Value: sealed, ExpiresAt: expiry(ttl)}
	return f.save(doc)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return f.save(doc)
}

func (f *File) load() (map[string]entry, error) {
	doc := make(map[string]entry)
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("File.load %s: %w", f.path, err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("File.load %s: %w", f.path, err)
	}
	return doc, nil
}

func (f *File) save(doc map[string]entry) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("File.save: %w", err)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("File.save: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("File.save: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("File.save: %w", err)
	}
	return nil
}

func (f *File) seal(value string) (string, error) {
	if f.key == nil {
		return value, nil
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(value), &nonce, f.key)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (f *File) open(value string) (string, error) {
	if f.key == nil {
		return value, nil
	}
	b, err := base64.StdEncoding.DecodeString(value)
	if err != nil || len(b) < nonceSize {
		return "", errors.ErrSealed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], b[:nonceSize])
	out, ok := secretbox.Open(nil, b[nonceSize:], &nonce, f.key)
	if !ok {
		return "", errors.ErrSealed
	}
	return string(out), nil
}
