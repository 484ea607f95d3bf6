package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Timeouts for snapshot transfers. The directory snapshot is small, so
// these are generous.
const (
	S3UploadTimeout   = 60 * time.Second
	S3DownloadTimeout = 30 * time.Second
)

// S3Client wraps the MinIO SDK for moving the directory snapshot in and
// out of a single bucket object.
type S3Client struct {
	client *minio.Client
	bucket string
	key    string
	logger *slog.Logger
}

// NewS3Client creates a client for the given endpoint. Empty access and
// secret keys fall through to ambient credentials (IAM role).
func NewS3Client(endpoint, bucket, key, accessKey, secretKey string, useSSL bool, region string, logger *slog.Logger) (*S3Client, error) {
	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	}
	if region != "" {
		opts.Region = region
	}

	client, err := minio.New(endpoint, opts)
	if err != nil {
		logger.Error("Failed to create S3 client",
			"endpoint", endpoint,
			"bucket", bucket,
			"error", err)
		return nil, CategorizeS3Error(S3OpConnect, fmt.Errorf("failed to create S3 client: %w", err))
	}

	logger.Info("S3 client created",
		"endpoint", endpoint,
		"bucket", bucket,
		"key", key,
		"ssl", useSSL,
		"region", region)

	return &S3Client{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}, nil
}

// ValidateBucket checks that the bucket exists and is reachable with
// the configured credentials. Run once at startup so misconfiguration
// fails fast instead of on the first write.
func (c *S3Client) ValidateBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		c.logger.Error("S3 bucket validation failed", "bucket", c.bucket, "error", err)
		return CategorizeS3Error(S3OpConnect, err)
	}

	if !exists {
		c.logger.Error("S3 bucket does not exist", "bucket", c.bucket)
		return CategorizeS3Error(S3OpConnect, fmt.Errorf("bucket %q does not exist", c.bucket))
	}

	c.logger.Debug("S3 bucket validated", "bucket", c.bucket)
	return nil
}

// Exists reports whether the snapshot object is present in the bucket.
// A missing object is a normal first-start condition, not an error.
func (c *S3Client) Exists(ctx context.Context) (bool, error) {
	_, err := c.client.StatObject(ctx, c.bucket, c.key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			c.logger.Info("S3 snapshot not found", "bucket", c.bucket, "key", c.key)
			return false, nil
		}
		c.logger.Error("S3 existence check failed",
			"bucket", c.bucket,
			"key", c.key,
			"error", err)
		return false, CategorizeS3Error(S3OpConnect, err)
	}

	return true, nil
}

// Upload replaces the snapshot object with the given data
func (c *S3Client) Upload(ctx context.Context, data []byte) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, S3UploadTimeout)
	defer cancel()

	_, err := c.client.PutObject(ctx, c.bucket, c.key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: "application/json",
		},
	)
	if err != nil {
		c.logger.Error("S3 upload failed",
			"bucket", c.bucket,
			"key", c.key,
			"error", err)
		return CategorizeS3Error(S3OpUpload, err)
	}

	c.logger.Info("S3 snapshot uploaded",
		"bucket", c.bucket,
		"key", c.key,
		"size_bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Download fetches the full snapshot object
func (c *S3Client) Download(ctx context.Context) ([]byte, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, S3DownloadTimeout)
	defer cancel()

	obj, err := c.client.GetObject(ctx, c.bucket, c.key, minio.GetObjectOptions{})
	if err != nil {
		c.logger.Error("S3 download failed",
			"bucket", c.bucket,
			"key", c.key,
			"error", err)
		return nil, CategorizeS3Error(S3OpDownload, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		c.logger.Error("S3 download read failed",
			"bucket", c.bucket,
			"key", c.key,
			"error", err)
		return nil, CategorizeS3Error(S3OpDownload, err)
	}

	c.logger.Info("S3 snapshot downloaded",
		"bucket", c.bucket,
		"key", c.key,
		"size_bytes", len(data),
		"duration_ms", time.Since(start).Milliseconds())
	return data, nil
}

// ParseS3Token splits the storage token into access key and secret key.
// Token format: ACCESS_KEY:SECRET_KEY (the secret may itself contain
// colons). An empty token falls back to AWS_ACCESS_KEY_ID /
// AWS_SECRET_ACCESS_KEY, and finally to empty credentials for IAM role
// authentication.
func ParseS3Token(token string) (accessKey, secretKey string, err error) {
	if token == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
		if accessKey != "" && secretKey != "" {
			return accessKey, secretKey, nil
		}
		if accessKey == "" && secretKey == "" {
			return "", "", nil
		}
		return "", "", fmt.Errorf("S3 credentials incomplete: set both AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY, or use storage.token ACCESS_KEY:SECRET_KEY")
	}

	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid token format: expected ACCESS_KEY:SECRET_KEY")
	}

	accessKey, secretKey = parts[0], parts[1]
	if accessKey == "" {
		return "", "", fmt.Errorf("invalid token format: access key cannot be empty")
	}
	if secretKey == "" {
		return "", "", fmt.Errorf("invalid token format: secret key cannot be empty")
	}

	return accessKey, secretKey, nil
}

var awsRegionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`s3\.([a-z]{2}-[a-z]+-\d+)\.amazonaws\.com`),
	regexp.MustCompile(`s3-([a-z]{2}-[a-z]+-\d+)\.amazonaws\.com`),
}

// ExtractRegionFromEndpoint pulls the AWS region out of an endpoint
// hostname (s3.REGION.amazonaws.com or s3-REGION.amazonaws.com).
// Returns "" for non-AWS endpoints such as local MinIO.
func ExtractRegionFromEndpoint(endpoint string) string {
	for _, re := range awsRegionPatterns {
		if matches := re.FindStringSubmatch(endpoint); len(matches) > 1 {
			return matches[1]
		}
	}
	return ""
}
