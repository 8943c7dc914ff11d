package blob

import (
	"context"
	"errors"
	"io"
	"strings"

	"planhat-usage-sync/internal/config"
)

// ErrNotFound is returned when a requested object or bucket does not exist.
var ErrNotFound = errors.New("blob: not found")

// Store is read-only access to one bucket of billing CSV objects.
type Store interface {
	// List returns every object key in the bucket, in provider listing order.
	List(ctx context.Context) ([]string, error)
	// Get downloads the full object content.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// New builds the configured backend. S3 is the production backend; the
// local directory backend exists for development and tests.
func New(ctx context.Context, cfg config.StorageConfig, bucket string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "s3":
		return newS3Store(ctx, cfg.S3, bucket)
	case "local":
		return newLocalStore(cfg.Local, bucket)
	default:
		return nil, errors.New("blob: unknown storage backend " + cfg.Backend)
	}
}
