// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// WebhookEvent names a record mutation event a subscription can listen for.
type WebhookEvent string

// Events emitted by the gateway on record mutations, plus the synthetic
// "test" event fired by the webhook test endpoint.
const (
	EventRecordCreated WebhookEvent = "record.created"
	EventRecordUpdated WebhookEvent = "record.updated"
	EventRecordDeleted WebhookEvent = "record.deleted"
	EventTest          WebhookEvent = "test"
)

// WebhookSubscription is a registered external endpoint notified on
// qualifying record mutation events. A subscription bound to a table fires
// only for that table; one bound to a collection with no table fires for
// every table inside the collection.
type WebhookSubscription struct {
	// ID is the unique identifier of the subscription.
	ID string `json:"id"`

	// OwnerID is the user who registered the subscription.
	OwnerID int64 `json:"-"`

	// URL is the endpoint the event envelope is POSTed to.
	URL string `json:"url"`

	// CollectionID optionally scopes the subscription to one collection.
	CollectionID string `json:"collection_id,omitempty"`

	// TableID optionally narrows the subscription to one table.
	TableID string `json:"table_id,omitempty"`

	// Events is the set of event names the subscription listens for.
	Events []WebhookEvent `json:"events"`

	// Headers are extra headers merged into every delivery request.
	Headers map[string]string `json:"headers,omitempty"`

	// Secret, when set, enables HMAC-SHA256 signing of the envelope.
	// Never exposed in responses.
	Secret string `json:"-"`

	// IsActive allows pausing a subscription without deleting it.
	IsActive bool `json:"is_active"`

	// TotalDeliveries counts every delivery attempt made so far.
	TotalDeliveries int64 `json:"total_deliveries"`

	// FailedDeliveries counts attempts that did not get a 2xx response.
	FailedDeliveries int64 `json:"failed_deliveries"`

	// LastTriggeredAt is the timestamp of the most recent delivery attempt.
	LastTriggeredAt time.Time `json:"last_triggered_at,omitzero"`

	// CreatedAt is the timestamp when the subscription was registered.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the WebhookSubscription model.
func (w WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}

// Listening reports whether the subscription wants the given event.
func (w *WebhookSubscription) Listening(event WebhookEvent) bool {
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

// Matches reports whether the subscription's scope covers a mutation in the
// given collection/table pair.
func (w *WebhookSubscription) Matches(collectionID, tableID string) bool {
	if w.TableID != "" {
		return w.TableID == tableID
	}
	if w.CollectionID != "" {
		return w.CollectionID == collectionID
	}
	return true
}

// WebhookEnvelope is the JSON body POSTed to subscription endpoints. When
// the subscription has a secret, the HMAC-SHA256 of the serialized envelope
// is attached as the signature header.
type WebhookEnvelope struct {
	Event     WebhookEvent `json:"event"`
	Timestamp time.Time    `json:"timestamp"`
	Data      any          `json:"data"`
}

// DeliveryLogEntry is the append-only audit row for one webhook delivery
// attempt. Entries are never mutated after insertion.
type DeliveryLogEntry struct {
	// ID is the unique identifier of the delivery attempt.
	ID string `json:"id"`

	// WebhookID links the attempt to its subscription.
	WebhookID string `json:"webhook_id"`

	// Event is the event name that triggered the delivery.
	Event WebhookEvent `json:"event"`

	// StatusCode is the HTTP status returned by the endpoint, 0 on
	// transport failure.
	StatusCode int `json:"status_code"`

	// ResponseBody holds the endpoint's response, truncated for storage.
	ResponseBody string `json:"response_body,omitempty"`

	// DurationMS is the elapsed delivery time in milliseconds.
	DurationMS int64 `json:"duration_ms"`

	// Success is true when the endpoint answered with a 2xx status.
	Success bool `json:"success"`

	// Error holds the transport error message, if any.
	Error string `json:"error,omitempty"`

	// CreatedAt is the timestamp when the attempt finished.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the DeliveryLogEntry model.
func (d DeliveryLogEntry) TableName() string {
	return "webhook_deliveries"
}
