// internal/infrastructure/storage/store.go
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/grocery-storefront/internal/config"
)

// ErrNotFound is returned by Get when the key holds no value
var ErrNotFound = errors.New("storage: key not found")

// Store is a small durable key-value store for client-side state
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the store selected by SESSION_STORE
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Session.Store {
	case "file":
		return NewFileStore(cfg.Session.FilePath), nil
	case "redis":
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}
