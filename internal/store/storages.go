package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-data-gateway/internal/config"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
)

// Storages bundles every repository backed by the shared database handle.
type Storages struct {
	Users       UserRepository
	Collections CollectionRepository
	Tables      TableRepository
	APIKeys     APIKeyRepository
	Webhooks    WebhookRepository
	Usage       UsageRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies pending migrations, and wires
// all repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error creating database connection: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &Storages{
		Users:       NewUserRepository(db, log),
		Collections: NewCollectionRepository(db, log),
		Tables:      NewTableRepository(db, log),
		APIKeys:     NewAPIKeyRepository(db, log),
		Webhooks:    NewWebhookRepository(db, log),
		Usage:       NewUsageRepository(db, log),
		db:          db,
	}, nil
}

// Close releases the underlying database handle.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
