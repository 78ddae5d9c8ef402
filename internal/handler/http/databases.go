package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
)

// Collections are exposed under /api/databases: a collection is the
// gateway's "logical database" resource.

func (h *Handler) createDatabase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var collection models.Collection
	if err := json.NewDecoder(r.Body).Decode(&collection); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	created, err := h.services.Collections.CreateCollection(r.Context(), principal, collection)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, created, http.StatusCreated)
}

func (h *Handler) listDatabases(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	collections, err := h.services.Collections.ListCollections(r.Context(), principal)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, collections, http.StatusOK)
}

func (h *Handler) getDatabase(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	collection, err := h.services.Collections.GetCollection(r.Context(), principal, chi.URLParam(r, "databaseID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, collection, http.StatusOK)
}

func (h *Handler) updateDatabase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var collection models.Collection
	if err := json.NewDecoder(r.Body).Decode(&collection); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}
	collection.ID = chi.URLParam(r, "databaseID")

	updated, err := h.services.Collections.UpdateCollection(r.Context(), principal, collection)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, updated, http.StatusOK)
}

func (h *Handler) deleteDatabase(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.services.Collections.DeleteCollection(r.Context(), principal, chi.URLParam(r, "databaseID")); err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, map[string]bool{"deleted": true}, http.StatusOK)
}
