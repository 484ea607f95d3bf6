package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// MetricsHandler handles metrics requests
type MetricsHandler struct {
	logger *slog.Logger

	// Atomic counters for thread-safe increments
	totalRequests     atomic.Uint64
	validations       atomic.Uint64
	userCreates       atomic.Uint64
	userReads         atomic.Uint64
	userUpdates       atomic.Uint64
	userDeletes       atomic.Uint64
	userLists         atomic.Uint64
	authFailures      atomic.Uint64
	rateLimitExceeded atomic.Uint64
	validationErrors  atomic.Uint64
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(logger *slog.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
	}
}

// MetricsResponse represents the metrics response
type MetricsResponse struct {
	Total    uint64            `json:"total_requests"`
	ByType   map[string]uint64 `json:"by_type"`
	ByStatus map[string]uint64 `json:"by_status"`
}

// GetMetrics handles GET /api/v1/metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	response := MetricsResponse{
		Total: h.totalRequests.Load(),
		ByType: map[string]uint64{
			"credential_validations": h.validations.Load(),
			"user_creates":           h.userCreates.Load(),
			"user_reads":             h.userReads.Load(),
			"user_updates":           h.userUpdates.Load(),
			"user_deletes":           h.userDeletes.Load(),
			"user_lists":             h.userLists.Load(),
		},
		ByStatus: map[string]uint64{
			"auth_failures":       h.authFailures.Load(),
			"rate_limit_exceeded": h.rateLimitExceeded.Load(),
			"validation_errors":   h.validationErrors.Load(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Request counter methods

func (h *MetricsHandler) IncrementTotalRequests() {
	h.totalRequests.Add(1)
}

func (h *MetricsHandler) IncrementValidations() {
	h.validations.Add(1)
}

func (h *MetricsHandler) IncrementUserCreates() {
	h.userCreates.Add(1)
}

func (h *MetricsHandler) IncrementUserReads() {
	h.userReads.Add(1)
}

func (h *MetricsHandler) IncrementUserUpdates() {
	h.userUpdates.Add(1)
}

func (h *MetricsHandler) IncrementUserDeletes() {
	h.userDeletes.Add(1)
}

func (h *MetricsHandler) IncrementUserLists() {
	h.userLists.Add(1)
}

func (h *MetricsHandler) IncrementAuthFailures() {
	h.authFailures.Add(1)
}

func (h *MetricsHandler) IncrementRateLimitExceeded() {
	h.rateLimitExceeded.Add(1)
}

func (h *MetricsHandler) IncrementValidationErrors() {
	h.validationErrors.Add(1)
}
