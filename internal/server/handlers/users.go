package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/loamhq/userdir/internal/apierrors"
	"github.com/loamhq/userdir/internal/models"
	"github.com/loamhq/userdir/internal/store"
)

// UserHandler handles user CRUD operations
type UserHandler struct {
	store   store.Store
	metrics *MetricsHandler
	logger  *slog.Logger
}

// NewUserHandler creates a new user handler. metrics may be nil.
func NewUserHandler(s store.Store, metrics *MetricsHandler, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		store:   s,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *UserHandler) count(inc func(*MetricsHandler)) {
	if h.metrics != nil {
		inc(h.metrics)
	}
}

// parseUserID extracts and parses the {id} URL parameter
func parseUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", "error", err)
		code, msg, status := apierrors.MapStoreError(err)
		apierrors.WriteError(w, code, msg, status, nil)
		return
	}

	h.count((*MetricsHandler).IncrementUserLists)
	h.logger.Debug("Users listed", "user_count", len(users))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User

	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		h.logger.Warn("Failed to decode user creation request",
			"error", err,
			"remote_addr", r.RemoteAddr)
		h.count((*MetricsHandler).IncrementValidationErrors)
		apierrors.WriteError(w, apierrors.ErrCodeValidationError, "Invalid JSON in request body", http.StatusBadRequest, nil)
		return
	}

	if err := models.ValidateUser(&user); err != nil {
		h.logger.Warn("User validation failed",
			"username", user.Username,
			"error", err,
			"remote_addr", r.RemoteAddr)
		h.count((*MetricsHandler).IncrementValidationErrors)
		apierrors.WriteError(w, apierrors.ErrCodeValidationError, err.Error(), http.StatusBadRequest, nil)
		return
	}

	created, err := h.store.CreateUser(r.Context(), &user)
	if err != nil {
		if err != store.ErrAlreadyExists {
			h.logger.Error("Failed to create user",
				"user_id", user.ID,
				"error", err)
		}
		code, msg, status := apierrors.MapStoreError(err)
		apierrors.WriteError(w, code, msg, status, nil)
		return
	}

	h.count((*MetricsHandler).IncrementUserCreates)
	h.logger.Info("User created via API",
		"user_id", created.ID,
		"username", created.Username,
		"remote_addr", r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// GetUser handles GET /api/v1/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		apierrors.WriteError(w, apierrors.ErrCodeValidationError, "User id must be an integer", http.StatusBadRequest, nil)
		return
	}

	user, err := h.store.GetUser(r.Context(), id)
	if err != nil {
		if err != store.ErrNotFound {
			h.logger.Error("Failed to get user", "user_id", id, "error", err)
		}
		code, msg, status := apierrors.MapStoreError(err)
		apierrors.WriteError(w, code, msg, status, nil)
		return
	}

	h.count((*MetricsHandler).IncrementUserReads)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(user)
}

// UpdateUser handles PUT /api/v1/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		apierrors.WriteError(w, apierrors.ErrCodeValidationError, "User id must be an integer", http.StatusBadRequest, nil)
		return
	}

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		h.logger.Warn("Failed to decode user update request",
			"user_id", id,
			"error", err,
			"remote_addr", r.RemoteAddr)
		h.count((*MetricsHandler).IncrementValidationErrors)
		apierrors.WriteError(w, apierrors.ErrCodeValidationError, "Invalid JSON in request body", http.StatusBadRequest, nil)
		return
	}

	// The body may omit the id; when present it must match the URL
	if user.ID == 0 {
		user.ID = id
	}
	if user.ID != id {
		h.logger.Warn("User id mismatch",
			"url_id", id,
			"body_id", user.ID,
			"remote_addr", r.RemoteAddr)
		apierrors.WriteError(w, apierrors.ErrCodeValidationError, "User id in URL must match id in body", http.StatusBadRequest, nil)
		return
	}

	if err := models.ValidateUser(&user); err != nil {
		h.logger.Warn("User validation failed",
			"user_id", id,
			"error", err,
			"remote_addr", r.RemoteAddr)
		h.count((*MetricsHandler).IncrementValidationErrors)
		apierrors.WriteError(w, apierrors.ErrCodeValidationError, err.Error(), http.StatusBadRequest, nil)
		return
	}

	updated, err := h.store.UpdateUser(r.Context(), &user)
	if err != nil {
		if err != store.ErrNotFound {
			h.logger.Error("Failed to update user", "user_id", id, "error", err)
		}
		code, msg, status := apierrors.MapStoreError(err)
		apierrors.WriteError(w, code, msg, status, nil)
		return
	}

	h.count((*MetricsHandler).IncrementUserUpdates)
	h.logger.Info("User updated via API",
		"user_id", updated.ID,
		"username", updated.Username,
		"remote_addr", r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}

// DeleteUser handles DELETE /api/v1/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		apierrors.WriteError(w, apierrors.ErrCodeValidationError, "User id must be an integer", http.StatusBadRequest, nil)
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		if err != store.ErrNotFound {
			h.logger.Error("Failed to delete user", "user_id", id, "error", err)
		}
		code, msg, status := apierrors.MapStoreError(err)
		apierrors.WriteError(w, code, msg, status, nil)
		return
	}

	h.count((*MetricsHandler).IncrementUserDeletes)
	h.logger.Info("User deleted via API",
		"user_id", id,
		"remote_addr", r.RemoteAddr)

	w.WriteHeader(http.StatusNoContent)
}
