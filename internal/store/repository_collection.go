package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
	"github.com/jackc/pgerrcode"
)

// collectionRepository is the PostgreSQL-backed implementation of
// [CollectionRepository] over the "collections" table.
type collectionRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewCollectionRepository constructs a [CollectionRepository] backed by the
// provided database connection and logger.
func NewCollectionRepository(db *DB, logger *logger.Logger) CollectionRepository {
	logger.Debug().Msg("creating collection repository")
	return &collectionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *collectionRepository) CreateCollection(ctx context.Context, collection models.Collection) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, createCollection,
		collection.ID, collection.OwnerID, collection.Name, collection.Description,
		collection.Color, collection.CreatedAt, collection.UpdatedAt)
	if err != nil {
		log.Err(err).Str("func", "*collectionRepository.CreateCollection").Str("collection_id", collection.ID).Msg("error inserting collection")
		if postgresError(err) == pgerrcode.UniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *collectionRepository) GetCollection(ctx context.Context, id string) (models.Collection, error) {
	log := logger.FromContext(ctx)

	var c models.Collection
	row := r.db.QueryRowContext(ctx, getCollection, id)
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Collection{}, ErrCollectionNotFound
		}
		log.Err(err).Str("func", "*collectionRepository.GetCollection").Str("collection_id", id).Msg("error scanning collection")
		return models.Collection{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return c, nil
}

func (r *collectionRepository) ListCollections(ctx context.Context, ownerID int64) ([]models.Collection, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listCollections, ownerID)
	if err != nil {
		log.Err(err).Str("func", "*collectionRepository.ListCollections").Int64("owner_id", ownerID).Msg("error listing collections")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	collections := make([]models.Collection, 0, 16)
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt); err != nil {
			log.Err(err).Str("func", "*collectionRepository.ListCollections").Msg("error scanning collection row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		collections = append(collections, c)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*collectionRepository.ListCollections").Msg("error iterating collection rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return collections, nil
}

func (r *collectionRepository) UpdateCollection(ctx context.Context, collection models.Collection) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, updateCollection,
		collection.ID, collection.Name, collection.Description, collection.Color, collection.UpdatedAt)
	if err != nil {
		log.Err(err).Str("func", "*collectionRepository.UpdateCollection").Str("collection_id", collection.ID).Msg("error updating collection")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCollectionNotFound
	}

	return nil
}

func (r *collectionRepository) DeleteCollection(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, deleteCollection, id)
	if err != nil {
		log.Err(err).Str("func", "*collectionRepository.DeleteCollection").Str("collection_id", id).Msg("error deleting collection")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrCollectionNotFound
	}

	return nil
}
