package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loamhq/userdir/internal/models"
)

// SeedUser represents a user entry in the seed users.yaml file
type SeedUser struct {
	ID       int64  `yaml:"id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SeedFile represents the structure of users.yaml
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeedFile reads starter accounts from a YAML file. Entries without
// an explicit id get one assigned by the store when seeded.
func LoadSeedFile(path string) ([]*models.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seedFile SeedFile
	if err := yaml.Unmarshal(data, &seedFile); err != nil {
		return nil, fmt.Errorf("failed to parse seed file (invalid YAML syntax): %w", err)
	}

	users := make([]*models.User, 0, len(seedFile.Users))
	for _, su := range seedFile.Users {
		u := models.NewUser(su.ID, su.Username, su.Password)
		if err := models.ValidateUsername(u.Username); err != nil {
			return nil, fmt.Errorf("invalid seed entry: %w", err)
		}
		if err := models.ValidatePassword(u.Password); err != nil {
			return nil, fmt.Errorf("invalid seed entry %q: %w", u.Username, err)
		}
		users = append(users, u)
	}

	return users, nil
}
