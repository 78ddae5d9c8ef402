// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/go-data-gateway/models"
)

// usageEntryCtxKey stores a mutable *models.UsageLogEntry in the request
// context so inner middleware (authentication in particular) can attribute
// the request to a key and user before the entry is flushed.
type usageEntryCtxKey struct{}

// usageEntryFromContext returns the in-flight usage entry, or nil outside
// the metered route group.
func usageEntryFromContext(ctx context.Context) *models.UsageLogEntry {
	entry, _ := ctx.Value(usageEntryCtxKey{}).(*models.UsageLogEntry)
	return entry
}

// withUsage appends one usage-log entry per request after the handler chain
// completes. It runs outside authentication so rejected requests are audited
// too; the auth middleware fills in key and user attribution via the context
// pointer when it succeeds.
func (h *Handler) withUsage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		entry := &models.UsageLogEntry{
			Method: r.Method,
			Path:   r.URL.Path,
		}
		ctx := context.WithValue(r.Context(), usageEntryCtxKey{}, entry)

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r.WithContext(ctx))

		entry.Status = lw.status
		entry.DurationMS = time.Since(start).Milliseconds()
		entry.CreatedAt = time.Now()
		if entry.Status >= http.StatusBadRequest && entry.Error == "" {
			entry.Error = http.StatusText(entry.Status)
		}

		h.services.Usage.LogRequest(ctx, *entry)
	})
}
