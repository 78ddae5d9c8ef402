package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-data-gateway/models"
)

// UserRepository persists the gateway's own user accounts backing session
// authentication.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, login string) (models.User, error)
}

// CollectionRepository persists collections (logical databases).
type CollectionRepository interface {
	CreateCollection(ctx context.Context, collection models.Collection) error
	GetCollection(ctx context.Context, id string) (models.Collection, error)
	ListCollections(ctx context.Context, ownerID int64) ([]models.Collection, error)
	UpdateCollection(ctx context.Context, collection models.Collection) error
	DeleteCollection(ctx context.Context, id string) error
}

// TableRepository persists tables. A table row carries the whole schema and
// record set as JSONB documents; UpdateTable rewrites the full row, which is
// the read-modify-write unit for every record mutation.
type TableRepository interface {
	CreateTable(ctx context.Context, table models.Table) error
	GetTable(ctx context.Context, id string) (models.Table, error)
	ListTables(ctx context.Context, ownerID int64) ([]models.Table, error)
	UpdateTable(ctx context.Context, table models.Table) error
	DeleteTable(ctx context.Context, id string) error
}

// APIKeyRepository persists API key credentials.
type APIKeyRepository interface {
	CreateKey(ctx context.Context, key models.APIKey) error
	GetKey(ctx context.Context, id string) (models.APIKey, error)
	FindKeyByValue(ctx context.Context, value string) (models.APIKey, error)
	ListKeys(ctx context.Context, ownerID int64) ([]models.APIKey, error)
	UpdateKey(ctx context.Context, key models.APIKey) error
	DeleteKey(ctx context.Context, id string) error
	TouchKey(ctx context.Context, id string, usedAt time.Time) error
}

// WebhookRepository persists webhook subscriptions and their append-only
// delivery log.
type WebhookRepository interface {
	CreateSubscription(ctx context.Context, sub models.WebhookSubscription) error
	GetSubscription(ctx context.Context, id string) (models.WebhookSubscription, error)
	ListSubscriptions(ctx context.Context, ownerID int64) ([]models.WebhookSubscription, error)
	ListActiveForEvent(ctx context.Context, event models.WebhookEvent) ([]models.WebhookSubscription, error)
	UpdateSubscription(ctx context.Context, sub models.WebhookSubscription) error
	DeleteSubscription(ctx context.Context, id string) error

	// RecordDelivery appends a delivery log entry and bumps the owning
	// subscription's counters in one transaction.
	RecordDelivery(ctx context.Context, entry models.DeliveryLogEntry) error
	ListDeliveries(ctx context.Context, webhookID string, limit int) ([]models.DeliveryLogEntry, error)
}

// UsageRepository persists the append-only request audit log. The rate
// limiter derives its sliding-window counters from CountKeyRequestsSince.
type UsageRepository interface {
	Append(ctx context.Context, entry models.UsageLogEntry) error
	CountKeyRequestsSince(ctx context.Context, keyID string, since time.Time) (int, error)
	Stats(ctx context.Context, userID int64, since time.Time, tail int) (models.UsageStats, error)
}
