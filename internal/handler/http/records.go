package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-data-gateway/internal/engine"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
)

// listRecords runs the filter/sort/paginate/project pipeline over a table's
// records. The query-string grammar is parsed by engine.ParseListQuery;
// malformed filters and pagination bounds fail with a 400.
func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	query, err := engine.ParseListQuery(r.URL.Query())
	if err != nil {
		respondError(w, r, err)
		return
	}

	page, err := h.services.Records.ListRecords(r.Context(), principal, chi.URLParam(r, "tableID"), query)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondList(w, page.Data, models.ListMeta{
		Total:   page.Total,
		Limit:   page.Limit,
		Offset:  page.Offset,
		HasMore: page.HasMore,
	})
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	record, err := h.services.Records.GetRecord(r.Context(), principal, chi.URLParam(r, "tableID"), chi.URLParam(r, "recordID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, record, http.StatusOK)
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var record models.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	created, err := h.services.Records.CreateRecord(r.Context(), principal, chi.URLParam(r, "tableID"), record)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, created, http.StatusCreated)
}

func (h *Handler) replaceRecord(w http.ResponseWriter, r *http.Request) {
	h.updateRecord(w, r, false)
}

func (h *Handler) patchRecord(w http.ResponseWriter, r *http.Request) {
	h.updateRecord(w, r, true)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request, partial bool) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var record models.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	updated, err := h.services.Records.UpdateRecord(
		r.Context(), principal,
		chi.URLParam(r, "tableID"), chi.URLParam(r, "recordID"),
		record, partial,
	)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, updated, http.StatusOK)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	removed, err := h.services.Records.DeleteRecord(r.Context(), principal, chi.URLParam(r, "tableID"), chi.URLParam(r, "recordID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, removed, http.StatusOK)
}

// deleteRecords handles bulk deletion: the body carries {"ids": [...]} and
// the response reports how many records were actually removed.
func (h *Handler) deleteRecords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var body struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	deleted, err := h.services.Records.DeleteRecords(r.Context(), principal, chi.URLParam(r, "tableID"), body.IDs)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, map[string]int{"deleted": deleted}, http.StatusOK)
}
