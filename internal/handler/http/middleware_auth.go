package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/utils"
	"github.com/MKhiriev/go-data-gateway/models"
)

const apiKeyHeader = "X-API-Key"

// auth is an HTTP middleware that resolves request credentials into a
// principal.
//
// Exactly one credential kind must be present:
//   - an API key in the X-API-Key header, or
//   - a session token in the Authorization header as "Bearer <token>".
//
// On success the principal is stored in the request context under
// [utils.PrincipalCtxKey] and the in-flight usage entry is attributed to the
// key and user. Requests with no credential, both credentials, or a
// credential that fails validation are rejected with HTTP 401.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		ctx := r.Context()

		apiKey := r.Header.Get(apiKeyHeader)
		authHeader := r.Header.Get("Authorization")

		switch {
		case apiKey == "" && authHeader == "":
			log.Err(ErrNoCredentials).Send()
			respondError(w, r, wrapUnauthenticated(ErrNoCredentials))
			return
		case apiKey != "" && authHeader != "":
			log.Err(ErrAmbiguousCredentials).Send()
			respondError(w, r, wrapUnauthenticated(ErrAmbiguousCredentials))
			return
		}

		var bearerToken string
		if authHeader != "" {
			token, err := getTokenFromAuthHeader(authHeader)
			if err != nil {
				log.Err(err).Send()
				respondError(w, r, wrapUnauthenticated(err))
				return
			}
			bearerToken = token
		}

		principal, err := h.services.Auth.Authenticate(ctx, apiKey, bearerToken)
		if err != nil {
			log.Err(err).Msg("authentication failed")
			respondError(w, r, err)
			return
		}

		if entry := usageEntryFromContext(ctx); entry != nil {
			entry.KeyID = principal.KeyID
			entry.UserID = principal.UserID
		}

		ctx = context.WithValue(ctx, utils.PrincipalCtxKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireScope gates a route on one permission scope. Principals carrying
// ScopeAdmin pass every gate.
func (h *Handler) requireScope(scope models.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := utils.GetPrincipalFromContext(r.Context())
			if !ok {
				respondError(w, r, wrapUnauthenticated(ErrNoCredentials))
				return
			}
			if !principal.Scopes.Has(scope) {
				respondError(w, r, forbiddenScope(scope))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value of the form "<scheme> <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
