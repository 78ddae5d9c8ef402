// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package webhook delivers record mutation events to registered external
// endpoints. Events are fanned out asynchronously through a bounded queue
// consumed by a fixed worker pool; a full queue drops the event rather than
// stalling the request that produced it.
package webhook

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-data-gateway/internal/config"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

// maxStoredResponseBody bounds the endpoint response kept in the delivery log.
const maxStoredResponseBody = 1024

// job is one unit of queued work. Either target is set (direct delivery to a
// single subscription, used by the test endpoint) or the event is fanned out
// to every matching subscription.
type job struct {
	event     models.WebhookEvent
	payload   any
	collectID string
	tableID   string

	target *models.WebhookSubscription
}

// Dispatcher is the asynchronous webhook delivery engine. It implements both
// the service layer's dispatch contract and the workers.Worker lifecycle.
type Dispatcher struct {
	webhooks store.WebhookRepository
	client   *resty.Client
	cfg      config.Webhooks
	logger   *logger.Logger

	queue chan job
	wg    sync.WaitGroup
	once  sync.Once
}

// NewDispatcher constructs a Dispatcher. Call Run to start the worker pool.
func NewDispatcher(webhooks store.WebhookRepository, cfg config.Webhooks, log *logger.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 10 * time.Second
	}

	cli := resty.New().
		SetTimeout(cfg.DeliveryTimeout).
		SetRetryCount(0)

	return &Dispatcher{
		webhooks: webhooks,
		client:   cli,
		cfg:      cfg,
		logger:   log,
		queue:    make(chan job, cfg.QueueSize),
	}
}

// Run starts the worker pool and returns immediately.
func (d *Dispatcher) Run() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Stop closes the queue and blocks until queued deliveries have drained.
// Dispatch must not be called after Stop.
func (d *Dispatcher) Stop() {
	d.once.Do(func() { close(d.queue) })
	d.wg.Wait()
}

// Dispatch enqueues an event for fan-out to every active subscription whose
// scope covers the collection/table pair. Never blocks: when the queue is
// full the event is dropped and logged.
func (d *Dispatcher) Dispatch(collectionID, tableID string, event models.WebhookEvent, payload any) {
	d.enqueue(job{
		event:     event,
		payload:   payload,
		collectID: collectionID,
		tableID:   tableID,
	})
}

// Test enqueues a synthetic "test" delivery straight to one subscription.
func (d *Dispatcher) Test(sub models.WebhookSubscription) {
	d.enqueue(job{
		event:   models.EventTest,
		payload: map[string]any{"message": "test delivery", "webhook_id": sub.ID},
		target:  &sub,
	})
}

func (d *Dispatcher) enqueue(j job) {
	select {
	case d.queue <- j:
	default:
		d.logger.Warn().
			Str("event", string(j.event)).
			Str("table_id", j.tableID).
			Msg("webhook queue full, dropping event")
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for j := range d.queue {
		if j.target != nil {
			d.deliver(*j.target, j.event, j.payload)
			continue
		}
		d.fanOut(j)
	}
}

func (d *Dispatcher) fanOut(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.DeliveryTimeout)
	subs, err := d.webhooks.ListActiveForEvent(ctx, j.event)
	cancel()
	if err != nil {
		d.logger.Err(err).Str("event", string(j.event)).Msg("error listing subscriptions for event")
		return
	}

	for _, sub := range subs {
		if !sub.Matches(j.collectID, j.tableID) {
			continue
		}
		d.deliver(sub, j.event, j.payload)
	}
}

// deliver POSTs the envelope to one endpoint and appends the outcome to the
// delivery log. Exactly one attempt is made per event.
func (d *Dispatcher) deliver(sub models.WebhookSubscription, event models.WebhookEvent, payload any) {
	envelope := models.WebhookEnvelope{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Data:      payload,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		d.logger.Err(err).Str("webhook_id", sub.ID).Msg("error encoding webhook envelope")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.DeliveryTimeout)
	defer cancel()

	req := d.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	for name, value := range sub.Headers {
		req.SetHeader(name, value)
	}
	if sub.Secret != "" {
		req.SetHeader(SignatureHeader, Sign(sub.Secret, body))
	}

	start := time.Now()
	resp, err := req.Post(sub.URL)

	entry := models.DeliveryLogEntry{
		ID:         uuid.NewString(),
		WebhookID:  sub.ID,
		Event:      event,
		DurationMS: time.Since(start).Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	} else {
		entry.StatusCode = resp.StatusCode()
		entry.Success = resp.IsSuccess()
		entry.ResponseBody = truncate(resp.String(), maxStoredResponseBody)
	}

	if !entry.Success {
		d.logger.Warn().
			Str("webhook_id", sub.ID).
			Str("event", string(event)).
			Int("status", entry.StatusCode).
			Str("error", entry.Error).
			Msg("webhook delivery failed")
	}

	logCtx, logCancel := context.WithTimeout(context.Background(), d.cfg.DeliveryTimeout)
	defer logCancel()
	if err := d.webhooks.RecordDelivery(logCtx, entry); err != nil {
		d.logger.Err(err).Str("webhook_id", sub.ID).Msg("error recording webhook delivery")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
