package models

import "time"

// UsageLogEntry is the append-only audit row for one gateway request.
// Entries are never mutated after insertion; the rate limiter derives its
// sliding-window counters by counting these rows.
type UsageLogEntry struct {
	// ID is the unique identifier of the entry.
	ID string `json:"id"`

	// KeyID is the API key used for the request, or "" for session traffic.
	KeyID string `json:"key_id,omitempty"`

	// UserID is the authenticated user, 0 when authentication failed.
	UserID int64 `json:"user_id,omitempty"`

	// Method and Path identify the request.
	Method string `json:"method"`
	Path   string `json:"path"`

	// Status is the HTTP status code written to the response.
	Status int `json:"status"`

	// Error holds the error message for failed requests.
	Error string `json:"error,omitempty"`

	// DurationMS is the request processing time in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// CreatedAt is the timestamp when the request completed.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the UsageLogEntry model.
func (u UsageLogEntry) TableName() string {
	return "usage_log"
}

// UsageStats is the aggregate view returned by the usage endpoint.
type UsageStats struct {
	// TotalRequests is the number of logged requests in the period.
	TotalRequests int64 `json:"total_requests"`

	// ErrorCount is the number of requests with a 4xx/5xx status.
	ErrorCount int64 `json:"error_count"`

	// AvgDurationMS is the mean request processing time.
	AvgDurationMS float64 `json:"avg_duration_ms"`

	// RequestsPerDay maps ISO dates (YYYY-MM-DD) to request counts.
	RequestsPerDay map[string]int64 `json:"requests_per_day"`

	// Recent is a tail of the most recent log entries, newest first.
	Recent []UsageLogEntry `json:"recent"`
}
