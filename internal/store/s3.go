package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/loamhq/userdir/internal/models"
)

// S3Store implements Store using S3-compatible object storage as
// backend. It embeds BaseStore for in-memory CRUD operations and
// uploads the full directory snapshot via persist().
type S3Store struct {
	*BaseStore
	client *S3Client
	bucket string
	key    string
}

// NewS3Store creates a new S3-backed store.
// The uri should be a parsed S3 StorageURI (s3://endpoint/bucket/key or s3+http://...).
// The token should be in format ACCESS_KEY:SECRET_KEY.
func NewS3Store(uri *StorageURI, token string, seed []*models.User, latency time.Duration, logger *slog.Logger) (*S3Store, error) {
	if !uri.IsS3Scheme() {
		return nil, fmt.Errorf("expected S3 URI, got scheme: %s", uri.Scheme)
	}

	endpoint := uri.S3Endpoint()
	bucket := uri.S3Bucket()
	key := uri.S3Key()
	useSSL := uri.S3UseSSL()

	// Get region from URI query param or extract from endpoint
	region := uri.S3Region()
	if region == "" {
		region = ExtractRegionFromEndpoint(endpoint)
	}

	accessKey, secretKey, err := ParseS3Token(token)
	if err != nil {
		return nil, fmt.Errorf("failed to parse S3 credentials: %w", err)
	}

	client, err := NewS3Client(endpoint, bucket, key, accessKey, secretKey, useSSL, region, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	ctx := context.Background()
	if err := client.ValidateBucket(ctx); err != nil {
		return nil, fmt.Errorf("S3 bucket validation failed: %w", err)
	}

	s := &S3Store{
		BaseStore: NewBaseStore(latency, logger),
		client:    client,
		bucket:    bucket,
		key:       key,
	}

	if err := s.load(seed); err != nil {
		return nil, fmt.Errorf("failed to load data from S3: %w", err)
	}

	return s, nil
}

// load retrieves the directory snapshot from S3 on startup. If the
// object doesn't exist, seeds the directory and pushes it.
func (s *S3Store) load(seed []*models.User) error {
	ctx := context.Background()

	exists, err := s.client.Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check S3 object existence: %w", err)
	}

	if !exists {
		s.logger.Info("S3 object does not exist, initializing seeded directory",
			"bucket", s.bucket,
			"key", s.key,
			"seed_count", len(seed))

		s.Seed(seed)

		if err := s.persistUnlocked(); err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		return nil
	}

	data, err := s.client.Download(ctx)
	if err != nil {
		return fmt.Errorf("failed to download from S3: %w", err)
	}

	if err := s.UnmarshalData(data); err != nil {
		return fmt.Errorf("failed to parse directory data (corrupted JSON): %w", err)
	}

	s.logger.Info("S3 storage loaded",
		"bucket", s.bucket,
		"key", s.key,
		"user_count", s.Len())

	return nil
}

// persist uploads the complete directory snapshot to S3.
// NOTE: called from within BaseStore while the write lock is held, so
// it must use marshalDataLocked to avoid deadlock.
func (s *S3Store) persist() error {
	data, err := s.marshalDataLocked()
	if err != nil {
		return fmt.Errorf("failed to marshal directory: %w", err)
	}

	return s.client.Upload(context.Background(), data)
}

// persistUnlocked uploads the snapshot without a lock being held.
// Only used during initialization, before the store is shared.
func (s *S3Store) persistUnlocked() error {
	data, err := s.MarshalData()
	if err != nil {
		return fmt.Errorf("failed to marshal directory: %w", err)
	}

	return s.client.Upload(context.Background(), data)
}

// CreateUser inserts a new user and uploads the snapshot
func (s *S3Store) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	return s.BaseStore.CreateUser(ctx, u, s.persist)
}

// UpdateUser updates an existing user and uploads the snapshot
func (s *S3Store) UpdateUser(ctx context.Context, u *models.User) (*models.User, error) {
	return s.BaseStore.UpdateUser(ctx, u, s.persist)
}

// DeleteUser removes a user and uploads the snapshot
func (s *S3Store) DeleteUser(ctx context.Context, id int64) error {
	return s.BaseStore.DeleteUser(ctx, id, s.persist)
}

// Close closes the storage (no-op for S3 storage)
func (s *S3Store) Close() error {
	return nil
}
