package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/angelmondragon/catalog-backend/pkg/redis"
)

// Store persists one full snapshot payload, replacing any prior export.
type Store interface {
	Write(ctx context.Context, payload []byte) error
}

// FileStore writes the export to a single file on disk. The write goes
// through a temp file and a rename so readers never observe a torn export;
// concurrent rebuilds resolve last-writer-wins.
type FileStore struct {
	path string
}

// NewFileStore builds a file-backed snapshot store.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot file path required")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Write(_ context.Context, payload []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	return nil
}

// RedisStore writes the export to a single Redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore builds a Redis-backed snapshot store.
func NewRedisStore(client *redis.Client, key string) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if key == "" {
		return nil, fmt.Errorf("snapshot redis key required")
	}
	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Write(ctx context.Context, payload []byte) error {
	if err := s.client.Set(ctx, s.key, string(payload), 0); err != nil {
		return fmt.Errorf("writing snapshot key: %w", err)
	}
	return nil
}
