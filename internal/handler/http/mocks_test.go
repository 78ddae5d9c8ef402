// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-data-gateway/internal/engine"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/service"
	"github.com/MKhiriev/go-data-gateway/models"
)

// ─────────────────────────── AuthService mock ───────────────────────────

type mockAuthService struct {
	registerFn     func(ctx context.Context, creds models.Credentials) (models.User, models.Token, error)
	loginFn        func(ctx context.Context, creds models.Credentials) (models.User, models.Token, error)
	authenticateFn func(ctx context.Context, apiKey, bearerToken string) (models.Principal, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, creds models.Credentials) (models.User, models.Token, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, creds)
	}
	return models.User{}, models.Token{}, service.ErrInvalidDataProvided
}

func (m *mockAuthService) LoginUser(ctx context.Context, creds models.Credentials) (models.User, models.Token, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, creds)
	}
	return models.User{}, models.Token{}, service.ErrWrongPassword
}

func (m *mockAuthService) Authenticate(ctx context.Context, apiKey, bearerToken string) (models.Principal, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, apiKey, bearerToken)
	}
	return models.Principal{UserID: 1, Scopes: models.Scopes{models.ScopeAdmin}}, nil
}

// ─────────────────────────── RecordService mock ───────────────────────────

type mockRecordService struct {
	listFn       func(ctx context.Context, principal models.Principal, tableID string, query engine.Query) (engine.Page, error)
	getFn        func(ctx context.Context, principal models.Principal, tableID, recordID string) (models.Record, error)
	createFn     func(ctx context.Context, principal models.Principal, tableID string, record models.Record) (models.Record, error)
	updateFn     func(ctx context.Context, principal models.Principal, tableID, recordID string, record models.Record, partial bool) (models.Record, error)
	deleteFn     func(ctx context.Context, principal models.Principal, tableID, recordID string) (models.Record, error)
	deleteManyFn func(ctx context.Context, principal models.Principal, tableID string, recordIDs []string) (int, error)
}

func (m *mockRecordService) ListRecords(ctx context.Context, principal models.Principal, tableID string, query engine.Query) (engine.Page, error) {
	if m.listFn != nil {
		return m.listFn(ctx, principal, tableID, query)
	}
	return engine.Page{}, nil
}

func (m *mockRecordService) GetRecord(ctx context.Context, principal models.Principal, tableID, recordID string) (models.Record, error) {
	if m.getFn != nil {
		return m.getFn(ctx, principal, tableID, recordID)
	}
	return nil, service.ErrRecordNotFound
}

func (m *mockRecordService) CreateRecord(ctx context.Context, principal models.Principal, tableID string, record models.Record) (models.Record, error) {
	if m.createFn != nil {
		return m.createFn(ctx, principal, tableID, record)
	}
	return record, nil
}

func (m *mockRecordService) UpdateRecord(ctx context.Context, principal models.Principal, tableID, recordID string, record models.Record, partial bool) (models.Record, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, principal, tableID, recordID, record, partial)
	}
	return nil, service.ErrRecordNotFound
}

func (m *mockRecordService) DeleteRecord(ctx context.Context, principal models.Principal, tableID, recordID string) (models.Record, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, principal, tableID, recordID)
	}
	return nil, service.ErrRecordNotFound
}

func (m *mockRecordService) DeleteRecords(ctx context.Context, principal models.Principal, tableID string, recordIDs []string) (int, error) {
	if m.deleteManyFn != nil {
		return m.deleteManyFn(ctx, principal, tableID, recordIDs)
	}
	return 0, nil
}

// ─────────────────────────── UsageService mock ───────────────────────────

type mockUsageService struct {
	statsFn func(ctx context.Context, principal models.Principal) (models.UsageStats, error)

	mu      sync.Mutex
	entries []models.UsageLogEntry
}

func (m *mockUsageService) LogRequest(_ context.Context, entry models.UsageLogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
}

func (m *mockUsageService) GetStats(ctx context.Context, principal models.Principal) (models.UsageStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, principal)
	}
	return models.UsageStats{}, nil
}

func (m *mockUsageService) logged() []models.UsageLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UsageLogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// ─────────────────────────── RateLimiter mock ───────────────────────────

type mockRateLimiter struct {
	allowFn func(ctx context.Context, principal models.Principal) error
}

func (m *mockRateLimiter) Allow(ctx context.Context, principal models.Principal) error {
	if m.allowFn != nil {
		return m.allowFn(ctx, principal)
	}
	return nil
}

// ─────────────────────────── test router ───────────────────────────

// testDeps bundles the mocks behind one router so tests can tweak only the
// pieces they care about.
type testDeps struct {
	auth    *mockAuthService
	records *mockRecordService
	usage   *mockUsageService
	limiter *mockRateLimiter
}

func newTestRouter() (*chi.Mux, *testDeps) {
	deps := &testDeps{
		auth:    &mockAuthService{},
		records: &mockRecordService{},
		usage:   &mockUsageService{},
		limiter: &mockRateLimiter{},
	}

	h := NewHandler(&service.Services{
		Auth:        deps.auth,
		Records:     deps.records,
		Usage:       deps.usage,
		RateLimiter: deps.limiter,
	}, logger.Nop())

	return h.Init(), deps
}
