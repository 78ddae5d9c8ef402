package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

func TestCreateSubscription_Valid(t *testing.T) {
	var stored models.WebhookSubscription
	repo := &mockWebhookRepo{
		createFn: func(_ context.Context, sub models.WebhookSubscription) error {
			stored = sub
			return nil
		},
	}
	svc := NewWebhookService(repo, &captureDispatcher{}, logger.Nop())

	created, err := svc.CreateSubscription(context.Background(), sessionPrincipal(1), models.WebhookSubscription{
		URL:    "https://example.com/hook",
		Events: []models.WebhookEvent{models.EventRecordCreated},
		Secret: "shh",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.True(t, stored.IsActive)
	assert.Equal(t, int64(1), stored.OwnerID)
	assert.Equal(t, "shh", stored.Secret)
}

func TestCreateSubscription_Validation(t *testing.T) {
	svc := NewWebhookService(&mockWebhookRepo{}, &captureDispatcher{}, logger.Nop())
	ctx := context.Background()

	tests := []struct {
		name string
		sub  models.WebhookSubscription
	}{
		{"missing url", models.WebhookSubscription{Events: []models.WebhookEvent{models.EventRecordCreated}}},
		{"relative url", models.WebhookSubscription{URL: "/hook", Events: []models.WebhookEvent{models.EventRecordCreated}}},
		{"no events", models.WebhookSubscription{URL: "https://example.com"}},
		{"unknown event", models.WebhookSubscription{URL: "https://example.com", Events: []models.WebhookEvent{"record.exploded"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSubscription(ctx, sessionPrincipal(1), tt.sub)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestCreateSubscription_RequiresAdminScope(t *testing.T) {
	svc := NewWebhookService(&mockWebhookRepo{}, &captureDispatcher{}, logger.Nop())

	readOnly := models.Principal{UserID: 1, KeyID: "k", Scopes: models.Scopes{models.ScopeRead}}
	_, err := svc.CreateSubscription(context.Background(), readOnly, models.WebhookSubscription{
		URL:    "https://example.com",
		Events: []models.WebhookEvent{models.EventRecordCreated},
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTestSubscription_QueuesDirectDelivery(t *testing.T) {
	repo := &mockWebhookRepo{
		getFn: func(_ context.Context, id string) (models.WebhookSubscription, error) {
			return models.WebhookSubscription{ID: id, OwnerID: 1, URL: "https://example.com"}, nil
		},
	}
	dispatcher := &captureDispatcher{}
	svc := NewWebhookService(repo, dispatcher, logger.Nop())

	err := svc.TestSubscription(context.Background(), sessionPrincipal(1), "wh-1")
	require.NoError(t, err)

	require.Len(t, dispatcher.tested, 1)
	assert.Equal(t, "wh-1", dispatcher.tested[0].ID)
}

func TestSubscription_OwnershipHidesForeignRows(t *testing.T) {
	repo := &mockWebhookRepo{
		getFn: func(_ context.Context, id string) (models.WebhookSubscription, error) {
			return models.WebhookSubscription{ID: id, OwnerID: 99}, nil
		},
	}
	svc := NewWebhookService(repo, &captureDispatcher{}, logger.Nop())
	ctx := context.Background()

	_, err := svc.GetSubscription(ctx, sessionPrincipal(1), "wh-1")
	assert.ErrorIs(t, err, store.ErrWebhookNotFound)

	err = svc.DeleteSubscription(ctx, sessionPrincipal(1), "wh-1")
	assert.ErrorIs(t, err, store.ErrWebhookNotFound)
}

func TestMatches_ScopePrecedence(t *testing.T) {
	tableBound := models.WebhookSubscription{TableID: "tbl-1", CollectionID: "col-other"}
	assert.True(t, tableBound.Matches("anything", "tbl-1"))
	assert.False(t, tableBound.Matches("col-other", "tbl-2"))

	collectionBound := models.WebhookSubscription{CollectionID: "col-1"}
	assert.True(t, collectionBound.Matches("col-1", "any-table"))
	assert.False(t, collectionBound.Matches("col-2", "any-table"))

	global := models.WebhookSubscription{}
	assert.True(t, global.Matches("col-1", "tbl-1"))
}
