package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
)

// webhookRequest is the write-payload for subscriptions. It exists because
// the Secret field is json:"-" on the model: secrets come in on create and
// update but must never leave in responses.
type webhookRequest struct {
	models.WebhookSubscription
	Secret string `json:"secret"`
}

func (h *Handler) createWebhook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}
	sub := req.WebhookSubscription
	sub.Secret = req.Secret

	created, err := h.services.Webhooks.CreateSubscription(r.Context(), principal, sub)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, created, http.StatusCreated)
}

func (h *Handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	subs, err := h.services.Webhooks.ListSubscriptions(r.Context(), principal)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, subs, http.StatusOK)
}

func (h *Handler) getWebhook(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	sub, err := h.services.Webhooks.GetSubscription(r.Context(), principal, chi.URLParam(r, "webhookID"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, sub, http.StatusOK)
}

func (h *Handler) updateWebhook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}
	sub := req.WebhookSubscription
	sub.Secret = req.Secret
	sub.ID = chi.URLParam(r, "webhookID")

	updated, err := h.services.Webhooks.UpdateSubscription(r.Context(), principal, sub)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, updated, http.StatusOK)
}

func (h *Handler) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.services.Webhooks.DeleteSubscription(r.Context(), principal, chi.URLParam(r, "webhookID")); err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, map[string]bool{"deleted": true}, http.StatusOK)
}

// testWebhook queues a synthetic "test" event at the subscription. The
// response confirms queueing only; the delivery outcome lands in the
// delivery log.
func (h *Handler) testWebhook(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.services.Webhooks.TestSubscription(r.Context(), principal, chi.URLParam(r, "webhookID")); err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, map[string]string{"status": "queued"}, http.StatusAccepted)
}

func (h *Handler) listWebhookDeliveries(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromRequest(w, r)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	deliveries, err := h.services.Webhooks.ListDeliveries(r.Context(), principal, chi.URLParam(r, "webhookID"), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, deliveries, http.StatusOK)
}
