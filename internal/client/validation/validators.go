package validation

import (
	"fmt"
	"strconv"
)

// ParseUserID parses a user id argument into an int64
func ParseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id. Expected an integer, got: '%s'", arg)
	}
	if id < 0 {
		return 0, fmt.Errorf("invalid user id. Must not be negative, got: %d", id)
	}
	return id, nil
}

// ValidateUsernameArg validates a username CLI argument
func ValidateUsernameArg(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(username) > 64 {
		return fmt.Errorf("username must be at most 64 characters, got: %d", len(username))
	}
	return nil
}
