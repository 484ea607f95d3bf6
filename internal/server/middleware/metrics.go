package middleware

// Metrics is the subset of the metrics surface the middleware chain
// reports into. A nil Metrics disables reporting.
type Metrics interface {
	IncrementTotalRequests()
	IncrementRateLimitExceeded()
}
