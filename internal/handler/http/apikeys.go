package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
)

// createAPIKey mints a new API key. The secret value appears in this
// response only; every later read returns the key with the secret blanked.
func (h *Handler) createAPIKey(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var key models.APIKey
	if err := json.NewDecoder(r.Body).Decode(&key); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	created, err := h.services.APIKeys.CreateKey(r.Context(), principal, key)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, created, http.StatusCreated)
}

func (h *Handler) listAPIKeys(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	keys, err := h.services.APIKeys.ListKeys(r.Context(), principal)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, keys, http.StatusOK)
}

func (h *Handler) getAPIKey(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	key, err := h.services.APIKeys.GetKey(r.Context(), principal, chi.URLParam(r, "keyID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, key, http.StatusOK)
}

func (h *Handler) updateAPIKey(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var key models.APIKey
	if err := json.NewDecoder(r.Body).Decode(&key); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}
	key.ID = chi.URLParam(r, "keyID")

	updated, err := h.services.APIKeys.UpdateKey(r.Context(), principal, key)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, updated, http.StatusOK)
}

func (h *Handler) deleteAPIKey(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.services.APIKeys.DeleteKey(r.Context(), principal, chi.URLParam(r, "keyID")); err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, map[string]bool{"deleted": true}, http.StatusOK)
}
