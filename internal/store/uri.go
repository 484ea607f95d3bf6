package store

import (
	"fmt"
	"net/url"
	"strings"
)

// SupportedSchemes lists all currently supported storage URI schemes
var SupportedSchemes = []string{"mem", "file", "s3", "s3+http"}

// StorageURI represents a parsed storage backend URI
type StorageURI struct {
	Scheme string     // Storage backend type (e.g., "mem", "file", "s3")
	Host   string     // Host for network backends (empty for mem:// and file://)
	Path   string     // Path to storage resource
	Query  url.Values // Query parameters (e.g., region for S3)
	Raw    string     // Original URI string for logging/debugging
}

// NormalizeStorageURI ensures the URI has a scheme, prepending "file://" if missing
func NormalizeStorageURI(uri string) string {
	if uri == "" {
		return uri
	}
	if !strings.Contains(uri, "://") {
		return "file://" + uri
	}
	return uri
}

// ParseStorageURI parses a storage URI string into its components
func ParseStorageURI(uri string) (*StorageURI, error) {
	if uri == "" {
		return nil, fmt.Errorf("storage URI cannot be empty")
	}

	// Normalize URI (add file:// if no scheme)
	normalized := NormalizeStorageURI(uri)

	parsed, err := url.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("invalid URI format: %w", err)
	}

	if parsed.Scheme == "" {
		return nil, fmt.Errorf("URI must have a scheme (e.g., file://)")
	}

	if err := validateScheme(parsed.Scheme); err != nil {
		return nil, err
	}

	// mem:// carries no host or path
	if parsed.Scheme == "mem" {
		return &StorageURI{
			Scheme: "mem",
			Query:  parsed.Query(),
			Raw:    uri,
		}, nil
	}

	path := parsed.Path
	if parsed.Scheme == "file" {
		// Handle file:// URIs - path might be in Opaque for relative paths
		if path == "" && parsed.Opaque != "" {
			path = parsed.Opaque
		}
		// For file://./path format, the path starts with ./
		if parsed.Host == "." && strings.HasPrefix(path, "/") {
			path = "./" + strings.TrimPrefix(path, "/")
		}
		if path == "" {
			return nil, fmt.Errorf("file URI must have a path")
		}
		return &StorageURI{
			Scheme: "file",
			Path:   path,
			Query:  parsed.Query(),
			Raw:    uri,
		}, nil
	}

	// S3 schemes: s3://endpoint/bucket/key or s3+http://endpoint/bucket/key
	if parsed.Host == "" {
		return nil, fmt.Errorf("S3 URI must include an endpoint host: %s://<endpoint>/<bucket>/<key>", parsed.Scheme)
	}
	s3Path := strings.TrimPrefix(parsed.Path, "/")
	if !strings.Contains(s3Path, "/") {
		return nil, fmt.Errorf("S3 URI must include bucket and object key: %s://<endpoint>/<bucket>/<key>", parsed.Scheme)
	}

	return &StorageURI{
		Scheme: parsed.Scheme,
		Host:   parsed.Host,
		Path:   s3Path,
		Query:  parsed.Query(),
		Raw:    uri,
	}, nil
}

// validateScheme checks if the scheme is supported
func validateScheme(scheme string) error {
	for _, s := range SupportedSchemes {
		if scheme == s {
			return nil
		}
	}

	return fmt.Errorf("unsupported storage scheme %q; supported schemes: %s",
		scheme, strings.Join(SupportedSchemes, ", "))
}

// IsMemScheme returns true if this is a mem:// URI
func (u *StorageURI) IsMemScheme() bool {
	return u.Scheme == "mem"
}

// IsFileScheme returns true if this is a file:// URI
func (u *StorageURI) IsFileScheme() bool {
	return u.Scheme == "file"
}

// IsS3Scheme returns true if this is an s3:// or s3+http:// URI
func (u *StorageURI) IsS3Scheme() bool {
	return u.Scheme == "s3" || u.Scheme == "s3+http"
}

// S3Endpoint returns the endpoint host for S3 URIs
func (u *StorageURI) S3Endpoint() string {
	return u.Host
}

// S3Bucket returns the bucket name (first path segment) for S3 URIs
func (u *StorageURI) S3Bucket() string {
	parts := strings.SplitN(u.Path, "/", 2)
	return parts[0]
}

// S3Key returns the object key (everything after the bucket) for S3 URIs
func (u *StorageURI) S3Key() string {
	parts := strings.SplitN(u.Path, "/", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// S3UseSSL reports whether the endpoint should be reached over TLS.
// The s3+http scheme opts out, for MinIO and other local setups.
func (u *StorageURI) S3UseSSL() bool {
	return u.Scheme != "s3+http"
}

// S3Region returns the region query parameter, if any
func (u *StorageURI) S3Region() string {
	return u.Query.Get("region")
}

// String returns the original URI string
func (u *StorageURI) String() string {
	return u.Raw
}
