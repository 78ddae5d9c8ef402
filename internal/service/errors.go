// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by service methods. Handlers map them to HTTP
// statuses via the errors_mapper table; callers match with [errors.Is].
var (
	// ErrInvalidDataProvided is returned when a request body or parameter
	// fails validation (missing required field, malformed value, etc.).
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrWrongPassword is returned on a login attempt with a bad password.
	ErrWrongPassword = errors.New("wrong login or password")

	// ErrTokenIsExpiredOrInvalid is returned when a bearer session token
	// fails signature, issuer, or expiry validation.
	ErrTokenIsExpiredOrInvalid = errors.New("session token is expired or invalid")

	// ErrUnauthenticated is returned when a request carries no usable
	// credential, or both credential kinds at once.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidCredential is returned when an API key is unknown, inactive,
	// or expired.
	ErrInvalidCredential = errors.New("invalid api credential")

	// ErrForbidden is returned when the principal's scopes do not cover the
	// operation, or the target resource lies outside its collection scope.
	ErrForbidden = errors.New("operation is not allowed for this credential")

	// ErrRecordNotFound is returned when a record id matches nothing in the
	// target table.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrKeyManagementRequiresSession is returned when an API-key principal
	// tries to manage API keys; only session-authenticated users may.
	ErrKeyManagementRequiresSession = errors.New("api keys can only be managed with a session credential")
)

// RateLimitError is returned by the rate limiter when a sliding window is
// exhausted. RetryAfter carries the seconds the caller should wait.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %d seconds", e.RetryAfter)
}

// ErrRateLimited is the matching target for [RateLimitError]; every
// RateLimitError Is(ErrRateLimited).
var ErrRateLimited = errors.New("rate limit exceeded")

// Is lets errors.Is(err, ErrRateLimited) match any RateLimitError value.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}
