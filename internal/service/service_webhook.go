package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

// webhookService manages webhook subscriptions and reads their delivery log.
// Actual deliveries happen in the dispatcher; this service only touches
// subscription rows.
type webhookService struct {
	webhooks   store.WebhookRepository
	dispatcher Dispatcher
	logger     *logger.Logger
}

// NewWebhookService constructs a WebhookService.
func NewWebhookService(webhooks store.WebhookRepository, dispatcher Dispatcher, logger *logger.Logger) WebhookService {
	return &webhookService{webhooks: webhooks, dispatcher: dispatcher, logger: logger}
}

func (s *webhookService) CreateSubscription(ctx context.Context, principal models.Principal, sub models.WebhookSubscription) (models.WebhookSubscription, error) {
	if !principal.Scopes.Has(models.ScopeAdmin) {
		return models.WebhookSubscription{}, ErrForbidden
	}
	if err := validateSubscription(sub); err != nil {
		return models.WebhookSubscription{}, err
	}

	sub.ID = uuid.NewString()
	sub.OwnerID = principal.UserID
	sub.IsActive = true
	sub.TotalDeliveries = 0
	sub.FailedDeliveries = 0
	sub.LastTriggeredAt = time.Time{}
	sub.CreatedAt = time.Now()

	if err := s.webhooks.CreateSubscription(ctx, sub); err != nil {
		return models.WebhookSubscription{}, err
	}

	return sub, nil
}

func (s *webhookService) GetSubscription(ctx context.Context, principal models.Principal, id string) (models.WebhookSubscription, error) {
	return s.ownedSubscription(ctx, principal, id)
}

func (s *webhookService) ListSubscriptions(ctx context.Context, principal models.Principal) ([]models.WebhookSubscription, error) {
	return s.webhooks.ListSubscriptions(ctx, principal.UserID)
}

// UpdateSubscription replaces the mutable attributes of a subscription.
// Delivery counters and timestamps are dispatcher-owned and never change here.
func (s *webhookService) UpdateSubscription(ctx context.Context, principal models.Principal, sub models.WebhookSubscription) (models.WebhookSubscription, error) {
	current, err := s.ownedSubscription(ctx, principal, sub.ID)
	if err != nil {
		return models.WebhookSubscription{}, err
	}

	if sub.URL != "" {
		current.URL = sub.URL
	}
	if sub.Events != nil {
		current.Events = sub.Events
	}
	current.CollectionID = sub.CollectionID
	current.TableID = sub.TableID
	current.Headers = sub.Headers
	if sub.Secret != "" {
		current.Secret = sub.Secret
	}
	current.IsActive = sub.IsActive

	if err := validateSubscription(current); err != nil {
		return models.WebhookSubscription{}, err
	}

	if err := s.webhooks.UpdateSubscription(ctx, current); err != nil {
		return models.WebhookSubscription{}, err
	}

	return current, nil
}

func (s *webhookService) DeleteSubscription(ctx context.Context, principal models.Principal, id string) error {
	if _, err := s.ownedSubscription(ctx, principal, id); err != nil {
		return err
	}
	return s.webhooks.DeleteSubscription(ctx, id)
}

// TestSubscription fires a synthetic "test" event at one subscription,
// regardless of what events it listens for. Inactive subscriptions may be
// tested too, so a paused endpoint can be verified before re-enabling.
func (s *webhookService) TestSubscription(ctx context.Context, principal models.Principal, id string) error {
	sub, err := s.ownedSubscription(ctx, principal, id)
	if err != nil {
		return err
	}

	s.dispatcher.Test(sub)
	return nil
}

func (s *webhookService) ListDeliveries(ctx context.Context, principal models.Principal, id string, limit int) ([]models.DeliveryLogEntry, error) {
	if _, err := s.ownedSubscription(ctx, principal, id); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.webhooks.ListDeliveries(ctx, id, limit)
}

func (s *webhookService) ownedSubscription(ctx context.Context, principal models.Principal, id string) (models.WebhookSubscription, error) {
	sub, err := s.webhooks.GetSubscription(ctx, id)
	if err != nil {
		return models.WebhookSubscription{}, err
	}
	if sub.OwnerID != principal.UserID {
		return models.WebhookSubscription{}, store.ErrWebhookNotFound
	}
	return sub, nil
}

func validateSubscription(sub models.WebhookSubscription) error {
	if sub.URL == "" {
		return fmt.Errorf("%w: url is required", ErrInvalidDataProvided)
	}
	parsed, err := url.Parse(sub.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: url must be absolute http(s)", ErrInvalidDataProvided)
	}
	if len(sub.Events) == 0 {
		return fmt.Errorf("%w: at least one event is required", ErrInvalidDataProvided)
	}
	for _, event := range sub.Events {
		switch event {
		case models.EventRecordCreated, models.EventRecordUpdated, models.EventRecordDeleted, models.EventTest:
		default:
			return fmt.Errorf("%w: unknown event %q", ErrInvalidDataProvided, event)
		}
	}
	return nil
}
