package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
)

// usageRepository is the PostgreSQL-backed implementation of
// [UsageRepository] over the append-only "usage_log" table. The sliding
// rate-limit windows are plain COUNT queries over this log.
type usageRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUsageRepository constructs a [UsageRepository] backed by the provided
// database connection and logger.
func NewUsageRepository(db *DB, logger *logger.Logger) UsageRepository {
	logger.Debug().Msg("creating usage repository")
	return &usageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *usageRepository) Append(ctx context.Context, entry models.UsageLogEntry) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, insertUsageEntry,
		entry.ID, entry.KeyID, entry.UserID, entry.Method, entry.Path,
		entry.Status, entry.Error, entry.DurationMS, entry.CreatedAt)
	if err != nil {
		log.Err(err).Str("func", "*usageRepository.Append").Msg("error inserting usage entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// CountKeyRequestsSince counts the key's logged requests with a timestamp at
// or after the window start. The count reflects entries already committed;
// concurrent appends at the window boundary are tolerated.
func (r *usageRepository) CountKeyRequestsSince(ctx context.Context, keyID string, since time.Time) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := sq.Select("COUNT(*)").
		From("usage_log").
		Where(sq.Eq{"key_id": keyID}).
		Where(sq.GtOrEq{"created_at": since}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*usageRepository.CountKeyRequestsSince").Str("key_id", keyID).Msg("error counting usage entries")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// Stats aggregates the user's request log since the given time: totals,
// error count, mean duration, per-day counts, and a recent tail.
func (r *usageRepository) Stats(ctx context.Context, userID int64, since time.Time, tail int) (models.UsageStats, error) {
	log := logger.FromContext(ctx)
	stats := models.UsageStats{RequestsPerDay: map[string]int64{}}

	aggQuery, aggArgs, err := sq.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status >= 400)",
		"COALESCE(AVG(duration_ms), 0)").
		From("usage_log").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"created_at": since}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.UsageStats{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, aggQuery, aggArgs...)
	if err := row.Scan(&stats.TotalRequests, &stats.ErrorCount, &stats.AvgDurationMS); err != nil {
		log.Err(err).Str("func", "*usageRepository.Stats").Int64("user_id", userID).Msg("error scanning usage aggregates")
		return models.UsageStats{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	dayQuery, dayArgs, err := sq.Select("to_char(created_at, 'YYYY-MM-DD') AS day", "COUNT(*)").
		From("usage_log").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"created_at": since}).
		GroupBy("day").
		OrderBy("day").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.UsageStats{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	dayRows, err := r.db.QueryContext(ctx, dayQuery, dayArgs...)
	if err != nil {
		log.Err(err).Str("func", "*usageRepository.Stats").Msg("error querying per-day counts")
		return models.UsageStats{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var (
			day   string
			count int64
		)
		if err := dayRows.Scan(&day, &count); err != nil {
			return models.UsageStats{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		stats.RequestsPerDay[day] = count
	}
	if err := dayRows.Err(); err != nil {
		return models.UsageStats{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	tailQuery, tailArgs, err := sq.Select("id", "key_id", "user_id", "method", "path",
		"status", "error", "duration_ms", "created_at").
		From("usage_log").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(tail)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return models.UsageStats{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tailRows, err := r.db.QueryContext(ctx, tailQuery, tailArgs...)
	if err != nil {
		log.Err(err).Str("func", "*usageRepository.Stats").Msg("error querying recent entries")
		return models.UsageStats{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer tailRows.Close()

	for tailRows.Next() {
		var e models.UsageLogEntry
		err := tailRows.Scan(&e.ID, &e.KeyID, &e.UserID, &e.Method, &e.Path,
			&e.Status, &e.Error, &e.DurationMS, &e.CreatedAt)
		if err != nil {
			return models.UsageStats{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		stats.Recent = append(stats.Recent, e)
	}
	if err := tailRows.Err(); err != nil {
		return models.UsageStats{}, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return stats, nil
}
