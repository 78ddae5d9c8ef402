package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-gateway/internal/service"
	"github.com/MKhiriev/go-data-gateway/models"
)

func TestRegister_IssuesToken(t *testing.T) {
	router, deps := newTestRouter()
	deps.auth.registerFn = func(_ context.Context, creds models.Credentials) (models.User, models.Token, error) {
		assert.Equal(t, "ivan", creds.Login)
		return models.User{UserID: 1, Login: creds.Login, Name: creds.Name},
			models.Token{SignedString: "signed.jwt", UserID: 1}, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, models.Credentials{
		Login:    "ivan",
		Password: "secret",
		Name:     "Ivan",
	}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Bearer signed.jwt", rec.Header().Get("Authorization"))

	resp := decodeEnvelope(t, rec)
	require.True(t, resp.Success)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "signed.jwt", data["token"])
}

func TestRegister_DuplicateLogin(t *testing.T) {
	router, deps := newTestRouter()
	deps.auth.registerFn = func(context.Context, models.Credentials) (models.User, models.Token, error) {
		return models.User{}, models.Token{}, service.ErrInvalidDataProvided
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", jsonBody(t, models.Credentials{Login: "ivan", Password: "secret"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", jsonBody(t, models.Credentials{Login: "ivan", Password: "nope"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestLogin_InvalidJSON(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestHealth_NoAuthRequired(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}
