package service

import (
	"context"

	"github.com/MKhiriev/go-data-gateway/internal/engine"
	"github.com/MKhiriev/go-data-gateway/models"
)

// AuthService resolves request credentials into principals and manages the
// gateway's own user accounts and session tokens.
type AuthService interface {
	RegisterUser(ctx context.Context, creds models.Credentials) (models.User, models.Token, error)
	LoginUser(ctx context.Context, creds models.Credentials) (models.User, models.Token, error)

	// Authenticate resolves exactly one of apiKey / bearerToken into a
	// principal. Both empty, or both set, fail with ErrUnauthenticated.
	Authenticate(ctx context.Context, apiKey, bearerToken string) (models.Principal, error)
}

// CollectionService implements collection (logical database) CRUD with
// ownership and scope enforcement.
type CollectionService interface {
	CreateCollection(ctx context.Context, principal models.Principal, collection models.Collection) (models.Collection, error)
	GetCollection(ctx context.Context, principal models.Principal, id string) (models.Collection, error)
	ListCollections(ctx context.Context, principal models.Principal) ([]models.Collection, error)
	UpdateCollection(ctx context.Context, principal models.Principal, collection models.Collection) (models.Collection, error)
	DeleteCollection(ctx context.Context, principal models.Principal, id string) error
}

// TableService implements table and schema CRUD.
type TableService interface {
	CreateTable(ctx context.Context, principal models.Principal, table models.Table) (models.Table, error)
	GetTable(ctx context.Context, principal models.Principal, id string) (models.Table, error)
	ListTables(ctx context.Context, principal models.Principal) ([]models.Table, error)
	UpdateTable(ctx context.Context, principal models.Principal, table models.Table) (models.Table, error)
	DeleteTable(ctx context.Context, principal models.Principal, id string) error

	GetSchema(ctx context.Context, principal models.Principal, tableID string) ([]models.Field, error)
	UpdateSchema(ctx context.Context, principal models.Principal, tableID string, schema []models.Field) ([]models.Field, error)
}

// RecordService implements record CRUD over a table's in-place record set,
// running listings through the query engine and fanning mutations out to
// webhooks.
type RecordService interface {
	ListRecords(ctx context.Context, principal models.Principal, tableID string, query engine.Query) (engine.Page, error)
	GetRecord(ctx context.Context, principal models.Principal, tableID, recordID string) (models.Record, error)
	CreateRecord(ctx context.Context, principal models.Principal, tableID string, record models.Record) (models.Record, error)
	UpdateRecord(ctx context.Context, principal models.Principal, tableID, recordID string, record models.Record, partial bool) (models.Record, error)
	DeleteRecord(ctx context.Context, principal models.Principal, tableID, recordID string) (models.Record, error)
	DeleteRecords(ctx context.Context, principal models.Principal, tableID string, recordIDs []string) (int, error)
}

// APIKeyService implements API key CRUD. Only session principals may call it.
type APIKeyService interface {
	CreateKey(ctx context.Context, principal models.Principal, key models.APIKey) (models.APIKey, error)
	GetKey(ctx context.Context, principal models.Principal, id string) (models.APIKey, error)
	ListKeys(ctx context.Context, principal models.Principal) ([]models.APIKey, error)
	UpdateKey(ctx context.Context, principal models.Principal, key models.APIKey) (models.APIKey, error)
	DeleteKey(ctx context.Context, principal models.Principal, id string) error
}

// WebhookService implements webhook subscription CRUD, the synthetic test
// fire, and delivery-log reads.
type WebhookService interface {
	CreateSubscription(ctx context.Context, principal models.Principal, sub models.WebhookSubscription) (models.WebhookSubscription, error)
	GetSubscription(ctx context.Context, principal models.Principal, id string) (models.WebhookSubscription, error)
	ListSubscriptions(ctx context.Context, principal models.Principal) ([]models.WebhookSubscription, error)
	UpdateSubscription(ctx context.Context, principal models.Principal, sub models.WebhookSubscription) (models.WebhookSubscription, error)
	DeleteSubscription(ctx context.Context, principal models.Principal, id string) error

	TestSubscription(ctx context.Context, principal models.Principal, id string) error
	ListDeliveries(ctx context.Context, principal models.Principal, id string, limit int) ([]models.DeliveryLogEntry, error)
}

// UsageService records request outcomes and aggregates usage stats.
type UsageService interface {
	LogRequest(ctx context.Context, entry models.UsageLogEntry)
	GetStats(ctx context.Context, principal models.Principal) (models.UsageStats, error)
}

// RateLimiter gates API-key traffic by counting recent usage-log entries in
// sliding minute/day windows.
type RateLimiter interface {
	// Allow returns nil when the request may proceed, or a *RateLimitError
	// carrying the retry-after seconds.
	Allow(ctx context.Context, principal models.Principal) error
}

// Dispatcher is the webhook fan-out entry point used by the record service.
// Implementations must not block the caller.
type Dispatcher interface {
	Dispatch(collectionID, tableID string, event models.WebhookEvent, payload any)

	// Test enqueues a synthetic "test" delivery to one specific subscription,
	// bypassing event matching. The attempt is logged like any other.
	Test(sub models.WebhookSubscription)
}
