package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeedFile(t, `
users:
  - id: 1
    username: admin
    password: changeme
  - username: demo
    password: demo
`)

	users, err := LoadSeedFile(path)
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, int64(1), users[0].ID)
	assert.Equal(t, "admin", users[0].Username)
	assert.Equal(t, int64(0), users[1].ID, "missing id stays zero for store assignment")
	assert.Equal(t, "demo", users[1].Username)
}

func TestLoadSeedFileInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "empty username",
			content: `
users:
  - username: ""
    password: x
`,
		},
		{
			name: "empty password",
			content: `
users:
  - username: admin
    password: ""
`,
		},
		{
			name:    "invalid yaml",
			content: "users: [unclosed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSeedFile(t, tt.content)
			_, err := LoadSeedFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
