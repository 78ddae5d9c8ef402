// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-gateway/internal/config"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
)

type mockWebhookRepo struct {
	listActiveFn func(ctx context.Context, event models.WebhookEvent) ([]models.WebhookSubscription, error)

	mu         sync.Mutex
	deliveries []models.DeliveryLogEntry
	recorded   chan struct{}
}

func newMockWebhookRepo(listActiveFn func(ctx context.Context, event models.WebhookEvent) ([]models.WebhookSubscription, error)) *mockWebhookRepo {
	return &mockWebhookRepo{
		listActiveFn: listActiveFn,
		recorded:     make(chan struct{}, 16),
	}
}

func (m *mockWebhookRepo) CreateSubscription(context.Context, models.WebhookSubscription) error {
	return nil
}

func (m *mockWebhookRepo) GetSubscription(context.Context, string) (models.WebhookSubscription, error) {
	return models.WebhookSubscription{}, nil
}

func (m *mockWebhookRepo) ListSubscriptions(context.Context, int64) ([]models.WebhookSubscription, error) {
	return nil, nil
}

func (m *mockWebhookRepo) ListActiveForEvent(ctx context.Context, event models.WebhookEvent) ([]models.WebhookSubscription, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, event)
	}
	return nil, nil
}

func (m *mockWebhookRepo) UpdateSubscription(context.Context, models.WebhookSubscription) error {
	return nil
}

func (m *mockWebhookRepo) DeleteSubscription(context.Context, string) error {
	return nil
}

func (m *mockWebhookRepo) RecordDelivery(_ context.Context, entry models.DeliveryLogEntry) error {
	m.mu.Lock()
	m.deliveries = append(m.deliveries, entry)
	m.mu.Unlock()
	m.recorded <- struct{}{}
	return nil
}

func (m *mockWebhookRepo) ListDeliveries(context.Context, string, int) ([]models.DeliveryLogEntry, error) {
	return nil, nil
}

func (m *mockWebhookRepo) waitForDeliveries(t *testing.T, n int) []models.DeliveryLogEntry {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-m.recorded:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, n)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.DeliveryLogEntry, len(m.deliveries))
	copy(out, m.deliveries)
	return out
}

type receivedRequest struct {
	body      []byte
	signature string
	headers   http.Header
}

func testConfig() config.Webhooks {
	return config.Webhooks{DeliveryTimeout: 5 * time.Second, QueueSize: 16, Workers: 2}
}

func TestDispatch_DeliversToMatchingSubscriptions(t *testing.T) {
	received := make(chan receivedRequest, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- receivedRequest{
			body:      body,
			signature: r.Header.Get(SignatureHeader),
			headers:   r.Header.Clone(),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	subs := []models.WebhookSubscription{
		{ID: "wh-match", URL: srv.URL, TableID: "tbl-1", Secret: "shh", Headers: map[string]string{"X-Custom": "yes"}},
		{ID: "wh-other-table", URL: srv.URL, TableID: "tbl-2"},
	}
	repo := newMockWebhookRepo(func(_ context.Context, event models.WebhookEvent) ([]models.WebhookSubscription, error) {
		return subs, nil
	})

	d := NewDispatcher(repo, testConfig(), logger.Nop())
	d.Run()
	defer d.Stop()

	d.Dispatch("col-1", "tbl-1", models.EventRecordCreated, models.Record{"id": "10001"})

	deliveries := repo.waitForDeliveries(t, 1)
	require.Len(t, deliveries, 1)
	assert.Equal(t, "wh-match", deliveries[0].WebhookID)
	assert.Equal(t, models.EventRecordCreated, deliveries[0].Event)
	assert.True(t, deliveries[0].Success)
	assert.Equal(t, http.StatusOK, deliveries[0].StatusCode)

	req := <-received
	assert.Equal(t, "yes", req.headers.Get("X-Custom"))
	assert.Equal(t, Sign("shh", req.body), req.signature)

	var envelope models.WebhookEnvelope
	require.NoError(t, json.Unmarshal(req.body, &envelope))
	assert.Equal(t, models.EventRecordCreated, envelope.Event)
	assert.False(t, envelope.Timestamp.IsZero())
}

func TestDispatch_UnsignedWithoutSecret(t *testing.T) {
	received := make(chan receivedRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received <- receivedRequest{body: body, signature: r.Header.Get(SignatureHeader)}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	repo := newMockWebhookRepo(func(_ context.Context, _ models.WebhookEvent) ([]models.WebhookSubscription, error) {
		return []models.WebhookSubscription{{ID: "wh-1", URL: srv.URL}}, nil
	})

	d := NewDispatcher(repo, testConfig(), logger.Nop())
	d.Run()
	defer d.Stop()

	d.Dispatch("col-1", "tbl-1", models.EventRecordDeleted, models.Record{"id": "10001"})

	repo.waitForDeliveries(t, 1)
	req := <-received
	assert.Empty(t, req.signature)
}

func TestDispatch_FailureRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := newMockWebhookRepo(func(_ context.Context, _ models.WebhookEvent) ([]models.WebhookSubscription, error) {
		return []models.WebhookSubscription{{ID: "wh-1", URL: srv.URL}}, nil
	})

	d := NewDispatcher(repo, testConfig(), logger.Nop())
	d.Run()
	defer d.Stop()

	d.Dispatch("col-1", "tbl-1", models.EventRecordUpdated, nil)

	deliveries := repo.waitForDeliveries(t, 1)
	assert.False(t, deliveries[0].Success)
	assert.Equal(t, http.StatusInternalServerError, deliveries[0].StatusCode)
}

func TestDispatch_TransportErrorRecorded(t *testing.T) {
	repo := newMockWebhookRepo(func(_ context.Context, _ models.WebhookEvent) ([]models.WebhookSubscription, error) {
		// unroutable port on localhost
		return []models.WebhookSubscription{{ID: "wh-1", URL: "http://127.0.0.1:1"}}, nil
	})

	d := NewDispatcher(repo, testConfig(), logger.Nop())
	d.Run()
	defer d.Stop()

	d.Dispatch("col-1", "tbl-1", models.EventRecordCreated, nil)

	deliveries := repo.waitForDeliveries(t, 1)
	assert.False(t, deliveries[0].Success)
	assert.Zero(t, deliveries[0].StatusCode)
	assert.NotEmpty(t, deliveries[0].Error)
}

func TestTest_DeliversDirectly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// listActiveFn returning nothing proves Test bypasses event matching
	repo := newMockWebhookRepo(func(_ context.Context, _ models.WebhookEvent) ([]models.WebhookSubscription, error) {
		return nil, nil
	})

	d := NewDispatcher(repo, testConfig(), logger.Nop())
	d.Run()
	defer d.Stop()

	d.Test(models.WebhookSubscription{ID: "wh-1", URL: srv.URL, IsActive: false})

	deliveries := repo.waitForDeliveries(t, 1)
	assert.Equal(t, models.EventTest, deliveries[0].Event)
	assert.True(t, deliveries[0].Success)
}

func TestDispatch_FullQueueDropsWithoutBlocking(t *testing.T) {
	cfg := testConfig()
	cfg.QueueSize = 1

	repo := newMockWebhookRepo(nil)
	d := NewDispatcher(repo, cfg, logger.Nop())
	// workers deliberately not started: the queue fills and stays full

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			d.Dispatch("col-1", "tbl-1", models.EventRecordCreated, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
}
