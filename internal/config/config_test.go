package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, Host: "0.0.0.0"},
		Storage: StorageConfig{URI: "mem://"},
		Auth:    AuthConfig{Type: "basic", Realm: "userdir"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "mem://", cfg.Storage.URI)
	assert.Equal(t, time.Duration(0), cfg.Storage.Latency)
	assert.Equal(t, "basic", cfg.Auth.Type)
	assert.Equal(t, "userdir", cfg.Auth.Realm)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
storage:
  uri: file:///tmp/users.json
  latency: 150ms
auth:
  type: none
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "file:///tmp/users.json", cfg.Storage.URI)
	assert.Equal(t, 150*time.Millisecond, cfg.Storage.Latency)
	assert.Equal(t, "none", cfg.Auth.Type)
	// Unset keys keep their defaults
	assert.Equal(t, "userdir", cfg.Auth.Realm)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:   "file storage URI",
			mutate: func(c *Config) { c.Storage.URI = "file:///var/lib/userdir/users.json" },
		},
		{
			name:   "s3 storage URI",
			mutate: func(c *Config) { c.Storage.URI = "s3://s3.amazonaws.com/bucket/users.json" },
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "unknown storage scheme",
			mutate:  func(c *Config) { c.Storage.URI = "redis://localhost" },
			wantErr: "invalid storage URI",
		},
		{
			name:    "negative latency",
			mutate:  func(c *Config) { c.Storage.Latency = -time.Second },
			wantErr: "storage.latency",
		},
		{
			name:    "unknown auth type",
			mutate:  func(c *Config) { c.Auth.Type = "oauth" },
			wantErr: "auth.type",
		},
		{
			name:    "empty realm with basic auth",
			mutate:  func(c *Config) { c.Auth.Realm = "" },
			wantErr: "auth.realm",
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMaskToken(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "", cfg.MaskToken())

	cfg.Storage.Token = "AKIA123:supersecret"
	assert.Equal(t, "***", cfg.MaskToken())
}

func TestGetParsedStorageURI(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.URI = "s3+http://localhost:9000/bucket/users.json"

	uri, err := cfg.GetParsedStorageURI()
	require.NoError(t, err)
	assert.Equal(t, "s3+http", uri.Scheme)
	assert.Equal(t, "localhost:9000", uri.Host)
}
