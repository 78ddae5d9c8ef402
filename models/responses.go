package models

// Response is the uniform envelope every gateway endpoint answers with.
// Success responses carry Data and optionally Meta; failures carry Error.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Meta    *ListMeta  `json:"meta,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ListMeta describes the pagination state of a record listing.
type ListMeta struct {
	// Total is the number of records matching the filter, before pagination.
	Total int `json:"total"`

	// Limit and Offset echo the applied pagination window.
	Limit  int `json:"limit"`
	Offset int `json:"offset"`

	// HasMore is true when offset+limit < Total.
	HasMore bool `json:"has_more"`
}

// ErrorBody is the error half of the envelope.
type ErrorBody struct {
	// Code is the machine-readable error kind (e.g. "NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Details optionally carries structured context, such as the
	// retryAfter seconds of a rate-limit rejection.
	Details map[string]any `json:"details,omitempty"`
}
