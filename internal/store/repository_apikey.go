package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
	"github.com/jackc/pgerrcode"
)

// apiKeyRepository is the PostgreSQL-backed implementation of
// [APIKeyRepository] over the "api_keys" table. Scopes are stored as a JSONB
// array.
type apiKeyRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAPIKeyRepository constructs an [APIKeyRepository] backed by the provided
// database connection and logger.
func NewAPIKeyRepository(db *DB, logger *logger.Logger) APIKeyRepository {
	logger.Debug().Msg("creating api key repository")
	return &apiKeyRepository{
		db:     db,
		logger: logger,
	}
}

func (r *apiKeyRepository) CreateKey(ctx context.Context, key models.APIKey) error {
	log := logger.FromContext(ctx)

	scopesJSON, err := json.Marshal(key.Scopes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}

	_, err = r.db.ExecContext(ctx, createAPIKey,
		key.ID, key.OwnerID, key.Name, key.Key, key.CollectionID, scopesJSON,
		key.RateLimitPerMinute, key.RateLimitPerDay, key.IsActive,
		key.ExpiresAt, key.CreatedAt, key.LastUsedAt)
	if err != nil {
		log.Err(err).Str("func", "*apiKeyRepository.CreateKey").Str("key_id", key.ID).Msg("error inserting api key")
		if postgresError(err) == pgerrcode.UniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *apiKeyRepository) GetKey(ctx context.Context, id string) (models.APIKey, error) {
	return r.scanOne(ctx, getAPIKey, id)
}

func (r *apiKeyRepository) FindKeyByValue(ctx context.Context, value string) (models.APIKey, error) {
	return r.scanOne(ctx, findAPIKeyByValue, value)
}

func (r *apiKeyRepository) scanOne(ctx context.Context, query, arg string) (models.APIKey, error) {
	log := logger.FromContext(ctx)

	var (
		key        models.APIKey
		scopesJSON []byte
	)

	row := r.db.QueryRowContext(ctx, query, arg)
	err := row.Scan(&key.ID, &key.OwnerID, &key.Name, &key.Key, &key.CollectionID, &scopesJSON,
		&key.RateLimitPerMinute, &key.RateLimitPerDay, &key.IsActive,
		&key.ExpiresAt, &key.CreatedAt, &key.LastUsedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.APIKey{}, ErrAPIKeyNotFound
		}
		log.Err(err).Str("func", "*apiKeyRepository.scanOne").Msg("error scanning api key")
		return models.APIKey{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err := json.Unmarshal(scopesJSON, &key.Scopes); err != nil {
		return models.APIKey{}, fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}

	return key, nil
}

func (r *apiKeyRepository) ListKeys(ctx context.Context, ownerID int64) ([]models.APIKey, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listAPIKeys, ownerID)
	if err != nil {
		log.Err(err).Str("func", "*apiKeyRepository.ListKeys").Int64("owner_id", ownerID).Msg("error listing api keys")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	keys := make([]models.APIKey, 0, 16)
	for rows.Next() {
		var (
			key        models.APIKey
			scopesJSON []byte
		)
		err := rows.Scan(&key.ID, &key.OwnerID, &key.Name, &key.Key, &key.CollectionID, &scopesJSON,
			&key.RateLimitPerMinute, &key.RateLimitPerDay, &key.IsActive,
			&key.ExpiresAt, &key.CreatedAt, &key.LastUsedAt)
		if err != nil {
			log.Err(err).Str("func", "*apiKeyRepository.ListKeys").Msg("error scanning api key row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if err := json.Unmarshal(scopesJSON, &key.Scopes); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodingJSON, err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*apiKeyRepository.ListKeys").Msg("error iterating api key rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return keys, nil
}

func (r *apiKeyRepository) UpdateKey(ctx context.Context, key models.APIKey) error {
	log := logger.FromContext(ctx)

	scopesJSON, err := json.Marshal(key.Scopes)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}

	res, err := r.db.ExecContext(ctx, updateAPIKey,
		key.ID, key.Name, key.CollectionID, scopesJSON,
		key.RateLimitPerMinute, key.RateLimitPerDay, key.IsActive, key.ExpiresAt)
	if err != nil {
		log.Err(err).Str("func", "*apiKeyRepository.UpdateKey").Str("key_id", key.ID).Msg("error updating api key")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrAPIKeyNotFound
	}

	return nil
}

func (r *apiKeyRepository) DeleteKey(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, deleteAPIKey, id)
	if err != nil {
		log.Err(err).Str("func", "*apiKeyRepository.DeleteKey").Str("key_id", id).Msg("error deleting api key")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrAPIKeyNotFound
	}

	return nil
}

// TouchKey stamps the key's last_used_at. Called off the hot path after
// authentication; failures are logged by the caller, not surfaced.
func (r *apiKeyRepository) TouchKey(ctx context.Context, id string, usedAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, touchAPIKey, id, usedAt); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
