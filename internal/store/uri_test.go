package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStorageURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantScheme string
		wantHost   string
		wantPath   string
		wantErr    bool
	}{
		{
			name:       "mem scheme",
			uri:        "mem://",
			wantScheme: "mem",
		},
		{
			name:       "file with absolute path",
			uri:        "file:///var/lib/userdir/users.json",
			wantScheme: "file",
			wantPath:   "/var/lib/userdir/users.json",
		},
		{
			name:       "file with relative path",
			uri:        "file://./data/users.json",
			wantScheme: "file",
			wantPath:   "./data/users.json",
		},
		{
			name:       "bare path gets file scheme",
			uri:        "/var/lib/userdir/users.json",
			wantScheme: "file",
			wantPath:   "/var/lib/userdir/users.json",
		},
		{
			name:       "s3 with endpoint bucket and key",
			uri:        "s3://s3.us-east-1.amazonaws.com/my-bucket/users.json",
			wantScheme: "s3",
			wantHost:   "s3.us-east-1.amazonaws.com",
			wantPath:   "my-bucket/users.json",
		},
		{
			name:       "s3+http for local minio",
			uri:        "s3+http://localhost:9000/my-bucket/users.json",
			wantScheme: "s3+http",
			wantHost:   "localhost:9000",
			wantPath:   "my-bucket/users.json",
		},
		{
			name:    "empty URI",
			uri:     "",
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			uri:     "redis://localhost:6379/0",
			wantErr: true,
		},
		{
			name:    "file without path",
			uri:     "file://",
			wantErr: true,
		},
		{
			name:    "s3 without bucket and key",
			uri:     "s3://localhost:9000",
			wantErr: true,
		},
		{
			name:    "s3 with bucket but no key",
			uri:     "s3://localhost:9000/my-bucket",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseStorageURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScheme, parsed.Scheme)
			assert.Equal(t, tt.wantHost, parsed.Host)
			assert.Equal(t, tt.wantPath, parsed.Path)
		})
	}
}

func TestStorageURIS3Helpers(t *testing.T) {
	parsed, err := ParseStorageURI("s3+http://localhost:9000/my-bucket/snapshots/users.json?region=us-west-2")
	require.NoError(t, err)

	assert.True(t, parsed.IsS3Scheme())
	assert.False(t, parsed.IsMemScheme())
	assert.False(t, parsed.IsFileScheme())
	assert.Equal(t, "localhost:9000", parsed.S3Endpoint())
	assert.Equal(t, "my-bucket", parsed.S3Bucket())
	assert.Equal(t, "snapshots/users.json", parsed.S3Key())
	assert.Equal(t, "us-west-2", parsed.S3Region())
	assert.False(t, parsed.S3UseSSL())

	secure, err := ParseStorageURI("s3://s3.amazonaws.com/bucket/key.json")
	require.NoError(t, err)
	assert.True(t, secure.S3UseSSL())
}

func TestNormalizeStorageURI(t *testing.T) {
	assert.Equal(t, "file:///tmp/users.json", NormalizeStorageURI("/tmp/users.json"))
	assert.Equal(t, "mem://", NormalizeStorageURI("mem://"))
	assert.Equal(t, "", NormalizeStorageURI(""))
}
