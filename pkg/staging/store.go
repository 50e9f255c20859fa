package staging

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PreviewStore keeps the bytes of a staged file somewhere the browser can load them
// from until the file is released.
type PreviewStore interface {
	Save(ctx context.Context, id, contentType string, data []byte) (url string, err error)
	Release(ctx context.Context, id string) error
}

// DirStore writes previews to a local directory and serves them under URLPrefix.
type DirStore struct {
	dir       string
	urlPrefix string
}

func NewDirStore(dir, urlPrefix string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preview dir: %w", err)
	}
	return &DirStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *DirStore) Save(ctx context.Context, id, contentType string, data []byte) (string, error) {
	path, err := s.Path(id)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write preview: %w", err)
	}
	return s.urlPrefix + "/" + id, nil
}

func (s *DirStore) Release(ctx context.Context, id string) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove preview: %w", err)
	}
	return nil
}

// Path resolves a preview id to its file. Ids never contain path separators.
func (s *DirStore) Path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid preview id %q", id)
	}
	return filepath.Join(s.dir, id), nil
}

// ObjectStorage is the part of the S3 client the preview store needs.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(key string, ttl time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// ObjectStore keeps previews in an S3 or MinIO bucket under prefix.
type ObjectStore struct {
	storage ObjectStorage
	prefix  string
	ttl     time.Duration
}

func NewObjectStore(storage ObjectStorage, prefix string, ttl time.Duration) *ObjectStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ObjectStore{storage: storage, prefix: strings.Trim(prefix, "/"), ttl: ttl}
}

func (s *ObjectStore) key(id string) string {
	if s.prefix == "" {
		return id
	}
	return s.prefix + "/" + id
}

func (s *ObjectStore) Save(ctx context.Context, id, contentType string, data []byte) (string, error) {
	if err := s.storage.PutObject(ctx, s.key(id), data, contentType); err != nil {
		return "", err
	}
	url, err := s.storage.PresignGet(s.key(id), s.ttl)
	if err != nil {
		_ = s.storage.DeleteObject(ctx, s.key(id))
		return "", err
	}
	return url, nil
}

func (s *ObjectStore) Release(ctx context.Context, id string) error {
	return s.storage.DeleteObject(ctx, s.key(id))
}
