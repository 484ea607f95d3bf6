package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/loamhq/userdir/internal/models"
)

// NewStore creates a storage backend based on the URI scheme:
//   - mem:// -> MemoryStore
//   - file:// -> FileStore
//   - s3:// or s3+http:// -> S3Store
//
// The seed is applied only when the backend starts empty.
func NewStore(uri *StorageURI, token string, seed []*models.User, latency time.Duration, logger *slog.Logger) (Store, error) {
	switch uri.Scheme {
	case "mem":
		return NewMemoryStore(seed, latency, logger), nil

	case "file":
		return NewFileStore(uri.Path, seed, latency, logger)

	case "s3", "s3+http":
		// S3 storage (credentials optional for IAM role)
		return NewS3Store(uri, token, seed, latency, logger)

	default:
		return nil, fmt.Errorf("unsupported storage scheme: %s", uri.Scheme)
	}
}
