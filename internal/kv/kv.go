// Package kv provides the durable key-value storage drafts are kept in. All
// backends store opaque string values and report a missing key as ok=false
// rather than as an error.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/enrollr/internal/config"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kv: store closed")

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open creates the backend named by config.Config.DraftBackend under dataDir.
func Open(ctx context.Context, backend, dataDir string) (Store, error) {
	switch backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile, "":
		return NewFile(filepath.Join(dataDir, "drafts"))
	case config.BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(dataDir, "drafts.db"))
	case config.BackendNATS:
		return OpenNATS(ctx, filepath.Join(dataDir, "nats"))
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", backend)
	}
}
