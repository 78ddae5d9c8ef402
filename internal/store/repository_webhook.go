package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
	"github.com/jackc/pgerrcode"
)

// webhookRepository is the PostgreSQL-backed implementation of
// [WebhookRepository]. Subscription event sets and custom headers are stored
// as JSONB; delivery log rows are append-only.
type webhookRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewWebhookRepository constructs a [WebhookRepository] backed by the
// provided database connection and logger.
func NewWebhookRepository(db *DB, logger *logger.Logger) WebhookRepository {
	logger.Debug().Msg("creating webhook repository")
	return &webhookRepository{
		db:     db,
		logger: logger,
	}
}

func (r *webhookRepository) CreateSubscription(ctx context.Context, sub models.WebhookSubscription) error {
	log := logger.FromContext(ctx)

	eventsJSON, headersJSON, err := marshalSubscriptionDocs(sub)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, createSubscription,
		sub.ID, sub.OwnerID, sub.URL, sub.CollectionID, sub.TableID,
		eventsJSON, headersJSON, sub.Secret, sub.IsActive,
		sub.TotalDeliveries, sub.FailedDeliveries, sub.LastTriggeredAt, sub.CreatedAt)
	if err != nil {
		log.Err(err).Str("func", "*webhookRepository.CreateSubscription").Str("webhook_id", sub.ID).Msg("error inserting subscription")
		if postgresError(err) == pgerrcode.UniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *webhookRepository) GetSubscription(ctx context.Context, id string) (models.WebhookSubscription, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, getSubscription, id)
	sub, err := scanSubscription(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WebhookSubscription{}, ErrWebhookNotFound
		}
		log.Err(err).Str("func", "*webhookRepository.GetSubscription").Str("webhook_id", id).Msg("error scanning subscription")
		return models.WebhookSubscription{}, err
	}

	return sub, nil
}

func (r *webhookRepository) ListSubscriptions(ctx context.Context, ownerID int64) ([]models.WebhookSubscription, error) {
	return r.list(ctx, listSubscriptions, ownerID)
}

// ListActiveForEvent returns every active subscription whose events set
// contains the given event. Scope filtering against a concrete
// collection/table pair happens in the dispatcher.
func (r *webhookRepository) ListActiveForEvent(ctx context.Context, event models.WebhookEvent) ([]models.WebhookSubscription, error) {
	eventJSON, err := json.Marshal([]models.WebhookEvent{event})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}

	query, args, err := sq.Select("id", "owner_id", "url", "collection_id", "table_id",
		"events", "headers", "secret", "is_active",
		"total_deliveries", "failed_deliveries", "last_triggered_at", "created_at").
		From("webhook_subscriptions").
		Where(sq.Eq{"is_active": true}).
		Where("events @> ?", eventJSON).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.list(ctx, query, args...)
}

func (r *webhookRepository) list(ctx context.Context, query string, args ...any) ([]models.WebhookSubscription, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*webhookRepository.list").Msg("error listing subscriptions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	subs := make([]models.WebhookSubscription, 0, 16)
	for rows.Next() {
		sub, err := scanSubscription(rows.Scan)
		if err != nil {
			log.Err(err).Str("func", "*webhookRepository.list").Msg("error scanning subscription row")
			return nil, err
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*webhookRepository.list").Msg("error iterating subscription rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return subs, nil
}

func (r *webhookRepository) UpdateSubscription(ctx context.Context, sub models.WebhookSubscription) error {
	log := logger.FromContext(ctx)

	eventsJSON, headersJSON, err := marshalSubscriptionDocs(sub)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, updateSubscription,
		sub.ID, sub.URL, sub.CollectionID, sub.TableID,
		eventsJSON, headersJSON, sub.Secret, sub.IsActive)
	if err != nil {
		log.Err(err).Str("func", "*webhookRepository.UpdateSubscription").Str("webhook_id", sub.ID).Msg("error updating subscription")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrWebhookNotFound
	}

	return nil
}

func (r *webhookRepository) DeleteSubscription(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, deleteSubscription, id)
	if err != nil {
		log.Err(err).Str("func", "*webhookRepository.DeleteSubscription").Str("webhook_id", id).Msg("error deleting subscription")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrWebhookNotFound
	}

	return nil
}

// RecordDelivery appends the delivery log entry and bumps the subscription's
// aggregate counters in a single transaction.
func (r *webhookRepository) RecordDelivery(ctx context.Context, entry models.DeliveryLogEntry) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*webhookRepository.RecordDelivery").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, insertDelivery,
		entry.ID, entry.WebhookID, entry.Event, entry.StatusCode,
		entry.ResponseBody, entry.DurationMS, entry.Success, entry.Error, entry.CreatedAt)
	if err != nil {
		log.Err(err).Str("func", "*webhookRepository.RecordDelivery").Str("webhook_id", entry.WebhookID).Msg("error inserting delivery entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	failed := 0
	if !entry.Success {
		failed = 1
	}
	_, err = tx.ExecContext(ctx, bumpSubscriptionCounters, entry.WebhookID, failed, entry.CreatedAt)
	if err != nil {
		log.Err(err).Str("func", "*webhookRepository.RecordDelivery").Str("webhook_id", entry.WebhookID).Msg("error bumping subscription counters")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*webhookRepository.RecordDelivery").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (r *webhookRepository) ListDeliveries(ctx context.Context, webhookID string, limit int) ([]models.DeliveryLogEntry, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select("id", "webhook_id", "event", "status_code", "response_body",
		"duration_ms", "success", "error", "created_at").
		From("webhook_deliveries").
		Where(sq.Eq{"webhook_id": webhookID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*webhookRepository.ListDeliveries").Str("webhook_id", webhookID).Msg("error listing deliveries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.DeliveryLogEntry, 0, limit)
	for rows.Next() {
		var e models.DeliveryLogEntry
		err := rows.Scan(&e.ID, &e.WebhookID, &e.Event, &e.StatusCode,
			&e.ResponseBody, &e.DurationMS, &e.Success, &e.Error, &e.CreatedAt)
		if err != nil {
			log.Err(err).Str("func", "*webhookRepository.ListDeliveries").Msg("error scanning delivery row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*webhookRepository.ListDeliveries").Msg("error iterating delivery rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func marshalSubscriptionDocs(sub models.WebhookSubscription) (eventsJSON, headersJSON []byte, err error) {
	if sub.Events == nil {
		sub.Events = []models.WebhookEvent{}
	}
	if sub.Headers == nil {
		sub.Headers = map[string]string{}
	}

	if eventsJSON, err = json.Marshal(sub.Events); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}
	if headersJSON, err = json.Marshal(sub.Headers); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}
	return eventsJSON, headersJSON, nil
}

func scanSubscription(scan func(dest ...any) error) (models.WebhookSubscription, error) {
	var (
		sub         models.WebhookSubscription
		eventsJSON  []byte
		headersJSON []byte
	)

	err := scan(&sub.ID, &sub.OwnerID, &sub.URL, &sub.CollectionID, &sub.TableID,
		&eventsJSON, &headersJSON, &sub.Secret, &sub.IsActive,
		&sub.TotalDeliveries, &sub.FailedDeliveries, &sub.LastTriggeredAt, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WebhookSubscription{}, err
		}
		return models.WebhookSubscription{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err := json.Unmarshal(eventsJSON, &sub.Events); err != nil {
		return models.WebhookSubscription{}, fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}
	if err := json.Unmarshal(headersJSON, &sub.Headers); err != nil {
		return models.WebhookSubscription{}, fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}

	return sub, nil
}
