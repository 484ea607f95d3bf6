package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loamhq/userdir/internal/store"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserAlreadyExists  ErrorCode = "USER_ALREADY_EXISTS"
	ErrCodeValidationError    ErrorCode = "VALIDATION_ERROR"
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteError writes a standardized error response
func WriteError(w http.ResponseWriter, code ErrorCode, message string, statusCode int, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	json.NewEncoder(w).Encode(response)
}

// MapStoreError maps store errors to HTTP responses. The store itself
// only signals sentinel conditions; translation into transport
// semantics happens here.
func MapStoreError(err error) (ErrorCode, string, int) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeUserNotFound, "User not found", http.StatusNotFound

	case errors.Is(err, store.ErrAlreadyExists):
		return ErrCodeUserAlreadyExists, "User with this id already exists", http.StatusConflict

	case errors.Is(err, store.ErrStorageUnavailable):
		return ErrCodeStorageUnavailable, "Storage service unavailable", http.StatusServiceUnavailable

	default:
		return ErrCodeStorageUnavailable, "Internal server error", http.StatusInternalServerError
	}
}
