package http

import (
	"net/http"
)

// getUsage returns the caller's aggregated request statistics.
func (h *Handler) getUsage(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	stats, err := h.services.Usage.GetStats(r.Context(), principal)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, stats, http.StatusOK)
}
