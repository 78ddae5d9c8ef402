package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-gateway/internal/service"
	"github.com/MKhiriev/go-data-gateway/models"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	router, deps := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/tables/tbl-1/records/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, deps.usage.logged())
}

func TestAuth_NoCredentials(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/tables/tbl-1/records/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestAuth_BothCredentials(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/tables/tbl-1/records/", nil)
	req.Header.Set(apiKeyHeader, "dgw_abc")
	req.Header.Set("Authorization", "Bearer some.token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestAuth_MalformedBearerHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "scheme only", header: "Bearer"},
		{name: "empty token", header: "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter()

			req := httptest.NewRequest(http.MethodGet, "/api/tables/tbl-1/records/", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuth_InvalidAPIKey(t *testing.T) {
	router, deps := newTestRouter()
	deps.auth.authenticateFn = func(context.Context, string, string) (models.Principal, error) {
		return models.Principal{}, service.ErrInvalidCredential
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tables/tbl-1/records/", nil)
	req.Header.Set(apiKeyHeader, "dgw_bogus")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireScope_Forbidden(t *testing.T) {
	router, deps := newTestRouter()
	deps.auth.authenticateFn = func(context.Context, string, string) (models.Principal, error) {
		return models.Principal{UserID: 1, KeyID: "key-1", Scopes: models.Scopes{models.ScopeRead}}, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/tables/tbl-1/records/", nil)
	req.Header.Set(apiKeyHeader, "dgw_abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestRequireScope_TableMutationsNeedSchemaScope(t *testing.T) {
	router, deps := newTestRouter()
	deps.auth.authenticateFn = func(context.Context, string, string) (models.Principal, error) {
		return models.Principal{UserID: 1, KeyID: "key-1", Scopes: models.Scopes{models.ScopeRead, models.ScopeWrite}}, nil
	}

	tests := []struct {
		name   string
		method string
		target string
	}{
		{name: "create table", method: http.MethodPost, target: "/api/tables/"},
		{name: "update table", method: http.MethodPut, target: "/api/tables/tbl-1"},
		{name: "update schema", method: http.MethodPut, target: "/api/tables/tbl-1/schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, jsonBody(t, map[string]any{"name": "products"}))
			req.Header.Set(apiKeyHeader, "dgw_abc")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			resp := decodeEnvelope(t, rec)
			assert.Equal(t, "FORBIDDEN", resp.Error.Code)
		})
	}
}

func TestRequireScope_AdminPassesEveryGate(t *testing.T) {
	router, deps := newTestRouter()
	deps.records.deleteManyFn = func(context.Context, models.Principal, string, []string) (int, error) {
		return 1, nil
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/tables/tbl-1/records/", jsonBody(t, map[string]any{"ids": []string{"10001"}}))
	req.Header.Set(apiKeyHeader, "dgw_abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsage_RejectedRequestsAreAudited(t *testing.T) {
	router, deps := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/tables/tbl-1/records/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	entries := deps.usage.logged()
	require.Len(t, entries, 1)
	assert.Equal(t, http.StatusUnauthorized, entries[0].Status)
	assert.Empty(t, entries[0].KeyID)
	assert.Zero(t, entries[0].UserID)
	assert.Equal(t, http.MethodGet, entries[0].Method)
	// the audit entry carries the actual failure reason, not a generic status text
	assert.Contains(t, entries[0].Error, ErrNoCredentials.Error())
}

func TestUsage_ServiceErrorsCarryMessage(t *testing.T) {
	router, deps := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/tables/tbl-1/records/99999", nil)
	req.Header.Set(apiKeyHeader, "dgw_abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	entries := deps.usage.logged()
	require.Len(t, entries, 1)
	assert.Equal(t, service.ErrRecordNotFound.Error(), entries[0].Error)
}

func TestUsage_SuccessfulRequestsAttributed(t *testing.T) {
	router, deps := newTestRouter()
	deps.auth.authenticateFn = func(context.Context, string, string) (models.Principal, error) {
		return models.Principal{UserID: 7, KeyID: "key-7", Scopes: models.Scopes{models.ScopeRead}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/tables/tbl-1/records/", nil)
	req.Header.Set(apiKeyHeader, "dgw_abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	entries := deps.usage.logged()
	require.Len(t, entries, 1)
	assert.Equal(t, "key-7", entries[0].KeyID)
	assert.Equal(t, int64(7), entries[0].UserID)
	assert.Equal(t, http.StatusOK, entries[0].Status)
	assert.Empty(t, entries[0].Error)
}
