package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
	"github.com/google/uuid"
)

// tableService is the concrete implementation of TableService. Table and
// schema mutations go through the same per-table locking as record mutations
// so that a schema rewrite cannot race a record write-back.
type tableService struct {
	tables store.TableRepository
	locks  *tableLocks
	logger *logger.Logger
}

// NewTableService constructs a TableService over the given repository.
// locks must be the same instance the record service uses.
func NewTableService(tables store.TableRepository, locks *tableLocks, logger *logger.Logger) TableService {
	return &tableService{
		tables: tables,
		locks:  locks,
		logger: logger,
	}
}

func (s *tableService) CreateTable(ctx context.Context, principal models.Principal, table models.Table) (models.Table, error) {
	log := logger.FromContext(ctx)

	if table.Name == "" {
		return models.Table{}, fmt.Errorf("%w: table name is required", ErrInvalidDataProvided)
	}
	if err := validateSchema(table.Schema); err != nil {
		return models.Table{}, err
	}

	if principal.CollectionID != "" && principal.CollectionID != table.CollectionID {
		return models.Table{}, ErrForbidden
	}

	now := time.Now()
	table.ID = uuid.NewString()
	table.OwnerID = principal.UserID
	table.CreatedAt = now
	table.UpdatedAt = now
	if table.Schema == nil {
		table.Schema = []models.Field{}
	}
	if table.Records == nil {
		table.Records = []models.Record{}
	}
	for i := range table.Schema {
		if table.Schema[i].ID == "" {
			table.Schema[i].ID = uuid.NewString()
		}
	}

	if err := s.tables.CreateTable(ctx, table); err != nil {
		log.Err(err).Str("table_id", table.ID).Msg("error creating table")
		return models.Table{}, fmt.Errorf("error creating table: %w", err)
	}

	return table, nil
}

func (s *tableService) GetTable(ctx context.Context, principal models.Principal, id string) (models.Table, error) {
	table, err := s.tables.GetTable(ctx, id)
	if err != nil {
		return models.Table{}, err
	}

	if err := authorizeResource(principal, table.OwnerID, table.CollectionID); err != nil {
		return models.Table{}, err
	}

	return table, nil
}

func (s *tableService) ListTables(ctx context.Context, principal models.Principal) ([]models.Table, error) {
	tables, err := s.tables.ListTables(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}

	if principal.CollectionID == "" {
		return tables, nil
	}

	scoped := tables[:0]
	for _, t := range tables {
		if t.CollectionID == principal.CollectionID {
			scoped = append(scoped, t)
		}
	}
	return scoped, nil
}

func (s *tableService) UpdateTable(ctx context.Context, principal models.Principal, table models.Table) (models.Table, error) {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(table.ID)
	defer unlock()

	existing, err := s.GetTable(ctx, principal, table.ID)
	if err != nil {
		return models.Table{}, err
	}

	if table.Name != "" {
		existing.Name = table.Name
	}
	existing.Description = table.Description
	if table.CollectionID != "" && principal.CollectionID == "" {
		existing.CollectionID = table.CollectionID
	}
	existing.UpdatedAt = time.Now()

	if err := s.tables.UpdateTable(ctx, existing); err != nil {
		log.Err(err).Str("table_id", existing.ID).Msg("error updating table")
		return models.Table{}, err
	}

	return existing, nil
}

func (s *tableService) DeleteTable(ctx context.Context, principal models.Principal, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	if _, err := s.GetTable(ctx, principal, id); err != nil {
		return err
	}

	return s.tables.DeleteTable(ctx, id)
}

func (s *tableService) GetSchema(ctx context.Context, principal models.Principal, tableID string) ([]models.Field, error) {
	table, err := s.GetTable(ctx, principal, tableID)
	if err != nil {
		return nil, err
	}
	return table.Schema, nil
}

// UpdateSchema replaces the whole schema. Records are left untouched: values
// for removed fields stay in the record maps and are simply no longer
// declared.
func (s *tableService) UpdateSchema(ctx context.Context, principal models.Principal, tableID string, schema []models.Field) ([]models.Field, error) {
	log := logger.FromContext(ctx)

	if err := validateSchema(schema); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(tableID)
	defer unlock()

	table, err := s.GetTable(ctx, principal, tableID)
	if err != nil {
		return nil, err
	}

	for i := range schema {
		if schema[i].ID == "" {
			schema[i].ID = uuid.NewString()
		}
	}
	table.Schema = schema
	table.UpdatedAt = time.Now()

	if err := s.tables.UpdateTable(ctx, table); err != nil {
		log.Err(err).Str("table_id", tableID).Msg("error updating schema")
		return nil, err
	}

	return table.Schema, nil
}

var validFieldTypes = map[models.FieldType]bool{
	models.FieldTypeText: true, models.FieldTypeNumber: true, models.FieldTypeDate: true,
	models.FieldTypeSelect: true, models.FieldTypeCheckbox: true, models.FieldTypeURL: true,
	models.FieldTypeEmail: true, models.FieldTypeTimestamp: true,
}

func validateSchema(schema []models.Field) error {
	seen := make(map[string]bool, len(schema))
	for _, f := range schema {
		if f.Name == "" {
			return fmt.Errorf("%w: schema field name is required", ErrInvalidDataProvided)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate schema field %q", ErrInvalidDataProvided, f.Name)
		}
		seen[f.Name] = true
		if !validFieldTypes[f.Type] {
			return fmt.Errorf("%w: unknown field type %q", ErrInvalidDataProvided, f.Type)
		}
	}
	return nil
}
