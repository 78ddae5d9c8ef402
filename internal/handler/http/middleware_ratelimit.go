package http

import (
	"net/http"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/utils"
)

// rateLimit rejects requests whose principal has exhausted a sliding window.
// Runs after auth so the principal carries its key's limits.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := utils.GetPrincipalFromContext(r.Context())
		if !ok {
			respondError(w, r, wrapUnauthenticated(ErrNoCredentials))
			return
		}

		if err := h.services.RateLimiter.Allow(r.Context(), principal); err != nil {
			logger.FromRequest(r).Warn().
				Str("key_id", principal.KeyID).
				Int64("user_id", principal.UserID).
				Msg("rate limit exceeded")
			respondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
