package models

import (
	"fmt"
	"regexp"
)

var (
	// Username pattern: 1-64 characters, must start with a letter or digit
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._@-]*$`)
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidateID validates a user identifier
func ValidateID(id int64) error {
	if id < 0 {
		return &ValidationError{Field: "id", Message: "id must not be negative"}
	}
	return nil
}

// ValidateUsername validates the username field.
// Uniqueness is deliberately not checked here: the directory allows
// duplicate usernames and credential lookup matches the first record.
func ValidateUsername(username string) error {
	if len(username) == 0 {
		return &ValidationError{Field: "username", Message: "username is required"}
	}
	if len(username) > 64 {
		return &ValidationError{Field: "username", Message: "username must be at most 64 characters"}
	}
	if !usernamePattern.MatchString(username) {
		return &ValidationError{Field: "username", Message: "username must match pattern ^[a-zA-Z0-9][a-zA-Z0-9._@-]*$"}
	}
	return nil
}

// ValidatePassword validates the password field
func ValidatePassword(password string) error {
	if len(password) == 0 {
		return &ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) > 256 {
		return &ValidationError{Field: "password", Message: "password must be at most 256 characters"}
	}
	return nil
}

// ValidateUser validates a complete user record
func ValidateUser(u *User) error {
	if u == nil {
		return &ValidationError{Field: "user", Message: "user is required"}
	}
	if err := ValidateID(u.ID); err != nil {
		return err
	}
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if err := ValidatePassword(u.Password); err != nil {
		return err
	}
	return nil
}
