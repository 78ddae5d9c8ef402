package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
)

func (h *Handler) createTable(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var table models.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	created, err := h.services.Tables.CreateTable(r.Context(), principal, table)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, created, http.StatusCreated)
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	tables, err := h.services.Tables.ListTables(r.Context(), principal)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, tables, http.StatusOK)
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	table, err := h.services.Tables.GetTable(r.Context(), principal, chi.URLParam(r, "tableID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, table, http.StatusOK)
}

func (h *Handler) updateTable(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var table models.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}
	table.ID = chi.URLParam(r, "tableID")

	updated, err := h.services.Tables.UpdateTable(r.Context(), principal, table)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, updated, http.StatusOK)
}

func (h *Handler) deleteTable(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.services.Tables.DeleteTable(r.Context(), principal, chi.URLParam(r, "tableID")); err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, map[string]bool{"deleted": true}, http.StatusOK)
}

func (h *Handler) getSchema(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	schema, err := h.services.Tables.GetSchema(r.Context(), principal, chi.URLParam(r, "tableID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, schema, http.StatusOK)
}

func (h *Handler) updateSchema(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var body struct {
		Schema []models.Field `json:"schema"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	schema, err := h.services.Tables.UpdateSchema(r.Context(), principal, chi.URLParam(r, "tableID"), body.Schema)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, schema, http.StatusOK)
}
