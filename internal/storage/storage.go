package storage

import (
	"context"
	"fmt"

	"github.com/anonto42/social-pod/backend/pkg/config"
)

// Storage defines the interface for photo object storage
type Storage interface {
	// Put stores data under key and returns its public URL
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)

	// Delete removes the objects stored under keys
	Delete(ctx context.Context, keys ...string) error
}

// NewStorage creates a storage implementation based on the configuration
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg.LocalPath, cfg.BaseURL)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
