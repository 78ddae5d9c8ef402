// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when extracting
// request credentials. Callers can match against them with [errors.Is].
var (
	// ErrNoCredentials is returned when the request carries neither an
	// X-API-Key header nor an Authorization bearer token.
	ErrNoCredentials = errors.New("missing `X-API-Key` or `Authorization` header")

	// ErrAmbiguousCredentials is returned when both credential kinds are
	// present on the same request.
	ErrAmbiguousCredentials = errors.New("both `X-API-Key` and `Authorization` headers were provided")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but cannot be split into a scheme and a token.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the "Authorization" header contains the
	// expected scheme prefix but the token value itself is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)
