package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	user, token, err := h.services.Auth.RegisterUser(ctx, creds)
	if err != nil {
		log.Err(err).Str("login", creds.Login).Msg("user registration failed")
		respondError(w, r, err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	respondData(w, map[string]any{
		"user":  user,
		"token": token.SignedString,
	}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		respondBadRequest(w, "invalid JSON was passed")
		return
	}

	user, token, err := h.services.Auth.LoginUser(ctx, creds)
	if err != nil {
		log.Err(err).Str("login", creds.Login).Msg("login failed")
		respondError(w, r, err)
		return
	}

	log.Debug().Int64("id", user.UserID).Msg("user successfully logged in")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	respondData(w, map[string]any{
		"user":  user,
		"token": token.SignedString,
	}, http.StatusOK)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	respondData(w, map[string]string{"status": "ok"}, http.StatusOK)
}
