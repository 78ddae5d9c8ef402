// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

// ─────────────────────────────────────────────
// Mock: store.TableRepository
// ─────────────────────────────────────────────

type mockTableRepo struct {
	createFn func(ctx context.Context, table models.Table) error
	getFn    func(ctx context.Context, id string) (models.Table, error)
	listFn   func(ctx context.Context, ownerID int64) ([]models.Table, error)
	updateFn func(ctx context.Context, table models.Table) error
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockTableRepo) CreateTable(ctx context.Context, table models.Table) error {
	if m.createFn != nil {
		return m.createFn(ctx, table)
	}
	return nil
}

func (m *mockTableRepo) GetTable(ctx context.Context, id string) (models.Table, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return models.Table{}, store.ErrTableNotFound
}

func (m *mockTableRepo) ListTables(ctx context.Context, ownerID int64) ([]models.Table, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTableRepo) UpdateTable(ctx context.Context, table models.Table) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, table)
	}
	return nil
}

func (m *mockTableRepo) DeleteTable(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepo struct {
	createFn func(ctx context.Context, user models.User) (models.User, error)
	findFn   func(ctx context.Context, login string) (models.User, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.UserID = 1
	return user, nil
}

func (m *mockUserRepo) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	if m.findFn != nil {
		return m.findFn(ctx, login)
	}
	return models.User{}, store.ErrUserNotFound
}

// ─────────────────────────────────────────────
// Mock: store.APIKeyRepository
// ─────────────────────────────────────────────

type mockKeyRepo struct {
	createFn func(ctx context.Context, key models.APIKey) error
	getFn    func(ctx context.Context, id string) (models.APIKey, error)
	findFn   func(ctx context.Context, value string) (models.APIKey, error)
	listFn   func(ctx context.Context, ownerID int64) ([]models.APIKey, error)
	updateFn func(ctx context.Context, key models.APIKey) error
	deleteFn func(ctx context.Context, id string) error
	touchFn  func(ctx context.Context, id string, usedAt time.Time) error
}

func (m *mockKeyRepo) CreateKey(ctx context.Context, key models.APIKey) error {
	if m.createFn != nil {
		return m.createFn(ctx, key)
	}
	return nil
}

func (m *mockKeyRepo) GetKey(ctx context.Context, id string) (models.APIKey, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return models.APIKey{}, store.ErrAPIKeyNotFound
}

func (m *mockKeyRepo) FindKeyByValue(ctx context.Context, value string) (models.APIKey, error) {
	if m.findFn != nil {
		return m.findFn(ctx, value)
	}
	return models.APIKey{}, store.ErrAPIKeyNotFound
}

func (m *mockKeyRepo) ListKeys(ctx context.Context, ownerID int64) ([]models.APIKey, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockKeyRepo) UpdateKey(ctx context.Context, key models.APIKey) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, key)
	}
	return nil
}

func (m *mockKeyRepo) DeleteKey(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockKeyRepo) TouchKey(ctx context.Context, id string, usedAt time.Time) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, id, usedAt)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.UsageRepository
// ─────────────────────────────────────────────

type mockUsageRepo struct {
	appendFn func(ctx context.Context, entry models.UsageLogEntry) error
	countFn  func(ctx context.Context, keyID string, since time.Time) (int, error)
	statsFn  func(ctx context.Context, userID int64, since time.Time, tail int) (models.UsageStats, error)
}

func (m *mockUsageRepo) Append(ctx context.Context, entry models.UsageLogEntry) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, entry)
	}
	return nil
}

func (m *mockUsageRepo) CountKeyRequestsSince(ctx context.Context, keyID string, since time.Time) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, keyID, since)
	}
	return 0, nil
}

func (m *mockUsageRepo) Stats(ctx context.Context, userID int64, since time.Time, tail int) (models.UsageStats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, userID, since, tail)
	}
	return models.UsageStats{}, nil
}

// ─────────────────────────────────────────────
// Mock: store.WebhookRepository
// ─────────────────────────────────────────────

type mockWebhookRepo struct {
	createFn         func(ctx context.Context, sub models.WebhookSubscription) error
	getFn            func(ctx context.Context, id string) (models.WebhookSubscription, error)
	listFn           func(ctx context.Context, ownerID int64) ([]models.WebhookSubscription, error)
	listActiveFn     func(ctx context.Context, event models.WebhookEvent) ([]models.WebhookSubscription, error)
	updateFn         func(ctx context.Context, sub models.WebhookSubscription) error
	deleteFn         func(ctx context.Context, id string) error
	recordDeliveryFn func(ctx context.Context, entry models.DeliveryLogEntry) error
	listDeliveriesFn func(ctx context.Context, webhookID string, limit int) ([]models.DeliveryLogEntry, error)
}

func (m *mockWebhookRepo) CreateSubscription(ctx context.Context, sub models.WebhookSubscription) error {
	if m.createFn != nil {
		return m.createFn(ctx, sub)
	}
	return nil
}

func (m *mockWebhookRepo) GetSubscription(ctx context.Context, id string) (models.WebhookSubscription, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return models.WebhookSubscription{}, store.ErrWebhookNotFound
}

func (m *mockWebhookRepo) ListSubscriptions(ctx context.Context, ownerID int64) ([]models.WebhookSubscription, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockWebhookRepo) ListActiveForEvent(ctx context.Context, event models.WebhookEvent) ([]models.WebhookSubscription, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, event)
	}
	return nil, nil
}

func (m *mockWebhookRepo) UpdateSubscription(ctx context.Context, sub models.WebhookSubscription) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, sub)
	}
	return nil
}

func (m *mockWebhookRepo) DeleteSubscription(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockWebhookRepo) RecordDelivery(ctx context.Context, entry models.DeliveryLogEntry) error {
	if m.recordDeliveryFn != nil {
		return m.recordDeliveryFn(ctx, entry)
	}
	return nil
}

func (m *mockWebhookRepo) ListDeliveries(ctx context.Context, webhookID string, limit int) ([]models.DeliveryLogEntry, error) {
	if m.listDeliveriesFn != nil {
		return m.listDeliveriesFn(ctx, webhookID, limit)
	}
	return nil, nil
}

// ─────────────────────────────────────────────
// Mock: Dispatcher
// ─────────────────────────────────────────────

// dispatchedEvent is one captured Dispatch call.
type dispatchedEvent struct {
	collectionID string
	tableID      string
	event        models.WebhookEvent
	payload      any
}

type captureDispatcher struct {
	mu     sync.Mutex
	events []dispatchedEvent
	tested []models.WebhookSubscription
}

func (d *captureDispatcher) Dispatch(collectionID, tableID string, event models.WebhookEvent, payload any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, dispatchedEvent{collectionID, tableID, event, payload})
}

func (d *captureDispatcher) Test(sub models.WebhookSubscription) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tested = append(d.tested, sub)
}
