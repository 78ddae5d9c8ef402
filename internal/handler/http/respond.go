package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/service"
	"github.com/MKhiriev/go-data-gateway/internal/utils"
	"github.com/MKhiriev/go-data-gateway/models"
)

// respondData writes a success envelope with the given payload.
func respondData(w http.ResponseWriter, data any, status int) {
	utils.WriteJSON(w, models.Response{Success: true, Data: data}, status)
}

// respondList writes a success envelope with a payload and pagination meta.
func respondList(w http.ResponseWriter, data any, meta models.ListMeta) {
	utils.WriteJSON(w, models.Response{Success: true, Data: data, Meta: &meta}, http.StatusOK)
}

// respondError maps err onto an HTTP status and writes the error envelope.
// Rate-limit rejections additionally get a Retry-After header and a
// retryAfter detail. Internal errors never leak their message to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	status := statusFromError(err)
	body := models.ErrorBody{
		Code:    errorCode(status),
		Message: err.Error(),
	}

	// keep the real failure reason in the audit log
	if entry := usageEntryFromContext(r.Context()); entry != nil {
		entry.Error = err.Error()
	}

	var rateErr *service.RateLimitError
	if errors.As(err, &rateErr) {
		w.Header().Set("Retry-After", strconv.Itoa(rateErr.RetryAfter))
		body.Details = map[string]any{"retryAfter": rateErr.RetryAfter}
	}

	if status == http.StatusInternalServerError {
		log.Err(err).Msg("internal error")
		body.Message = http.StatusText(http.StatusInternalServerError)
	}

	utils.WriteJSON(w, models.Response{Success: false, Error: &body}, status)
}

// principalFromRequest pulls the authenticated principal out of the request
// context, rejecting the request with 401 when it is missing. The bool result
// tells the handler whether to proceed.
func principalFromRequest(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	principal, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		respondError(w, r, wrapUnauthenticated(ErrNoCredentials))
		return models.Principal{}, false
	}
	return principal, true
}

// respondBadRequest writes a 400 validation error with the given message.
func respondBadRequest(w http.ResponseWriter, message string) {
	utils.WriteJSON(w, models.Response{
		Success: false,
		Error:   &models.ErrorBody{Code: errorCode(http.StatusBadRequest), Message: message},
	}, http.StatusBadRequest)
}
