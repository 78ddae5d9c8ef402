package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/models"
	"github.com/jackc/pgerrcode"
)

// tableRepository is the PostgreSQL-backed implementation of [TableRepository].
// The schema and records of a table are stored as JSONB documents; every
// record mutation goes through GetTable/UpdateTable, rewriting the whole
// records document.
type tableRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTableRepository constructs a [TableRepository] backed by the provided
// database connection and logger.
func NewTableRepository(db *DB, logger *logger.Logger) TableRepository {
	logger.Debug().Msg("creating table repository")
	return &tableRepository{
		db:     db,
		logger: logger,
	}
}

func (r *tableRepository) CreateTable(ctx context.Context, table models.Table) error {
	log := logger.FromContext(ctx)

	schemaJSON, recordsJSON, err := marshalTableDocs(table)
	if err != nil {
		log.Err(err).Str("func", "*tableRepository.CreateTable").Str("table_id", table.ID).Msg("error encoding table documents")
		return err
	}

	_, err = r.db.ExecContext(ctx, createTable,
		table.ID, table.CollectionID, table.OwnerID, table.Name, table.Description,
		schemaJSON, recordsJSON, table.CreatedAt, table.UpdatedAt)
	if err != nil {
		log.Err(err).Str("func", "*tableRepository.CreateTable").Str("table_id", table.ID).Msg("error inserting table")
		if postgresError(err) == pgerrcode.UniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *tableRepository) GetTable(ctx context.Context, id string) (models.Table, error) {
	log := logger.FromContext(ctx)

	var (
		t           models.Table
		schemaJSON  []byte
		recordsJSON []byte
	)

	row := r.db.QueryRowContext(ctx, getTable, id)
	err := row.Scan(&t.ID, &t.CollectionID, &t.OwnerID, &t.Name, &t.Description,
		&schemaJSON, &recordsJSON, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Table{}, ErrTableNotFound
		}
		log.Err(err).Str("func", "*tableRepository.GetTable").Str("table_id", id).Msg("error scanning table")
		return models.Table{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if err := unmarshalTableDocs(&t, schemaJSON, recordsJSON); err != nil {
		log.Err(err).Str("func", "*tableRepository.GetTable").Str("table_id", id).Msg("error decoding table documents")
		return models.Table{}, err
	}

	return t, nil
}

func (r *tableRepository) ListTables(ctx context.Context, ownerID int64) ([]models.Table, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, listTables, ownerID)
	if err != nil {
		log.Err(err).Str("func", "*tableRepository.ListTables").Int64("owner_id", ownerID).Msg("error listing tables")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tables := make([]models.Table, 0, 16)
	for rows.Next() {
		var (
			t           models.Table
			schemaJSON  []byte
			recordsJSON []byte
		)
		err := rows.Scan(&t.ID, &t.CollectionID, &t.OwnerID, &t.Name, &t.Description,
			&schemaJSON, &recordsJSON, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			log.Err(err).Str("func", "*tableRepository.ListTables").Msg("error scanning table row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		if err := unmarshalTableDocs(&t, schemaJSON, recordsJSON); err != nil {
			log.Err(err).Str("func", "*tableRepository.ListTables").Str("table_id", t.ID).Msg("error decoding table documents")
			return nil, err
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*tableRepository.ListTables").Msg("error iterating table rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return tables, nil
}

// UpdateTable rewrites the whole table row, including the full records
// document. Callers serialise concurrent writers above this method.
func (r *tableRepository) UpdateTable(ctx context.Context, table models.Table) error {
	log := logger.FromContext(ctx)

	schemaJSON, recordsJSON, err := marshalTableDocs(table)
	if err != nil {
		log.Err(err).Str("func", "*tableRepository.UpdateTable").Str("table_id", table.ID).Msg("error encoding table documents")
		return err
	}

	res, err := r.db.ExecContext(ctx, updateTable,
		table.ID, table.CollectionID, table.Name, table.Description,
		schemaJSON, recordsJSON, table.UpdatedAt)
	if err != nil {
		log.Err(err).Str("func", "*tableRepository.UpdateTable").Str("table_id", table.ID).Msg("error updating table")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrTableNotFound
	}

	return nil
}

func (r *tableRepository) DeleteTable(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, deleteTable, id)
	if err != nil {
		log.Err(err).Str("func", "*tableRepository.DeleteTable").Str("table_id", id).Msg("error deleting table")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrTableNotFound
	}

	return nil
}

func marshalTableDocs(table models.Table) (schemaJSON, recordsJSON []byte, err error) {
	if table.Schema == nil {
		table.Schema = []models.Field{}
	}
	if table.Records == nil {
		table.Records = []models.Record{}
	}

	if schemaJSON, err = json.Marshal(table.Schema); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}
	if recordsJSON, err = json.Marshal(table.Records); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}
	return schemaJSON, recordsJSON, nil
}

func unmarshalTableDocs(t *models.Table, schemaJSON, recordsJSON []byte) error {
	if err := json.Unmarshal(schemaJSON, &t.Schema); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}
	if err := json.Unmarshal(recordsJSON, &t.Records); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingJSON, err)
	}
	return nil
}
