package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-data-gateway/internal/engine"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

// recordService is the concrete implementation of RecordService.
//
// Every mutation follows the same cycle: acquire the table lock, fetch the
// whole table, modify its records slice in memory, write the whole table
// back, then hand the event to the webhook dispatcher. The lock makes the
// cycle atomic per table; the dispatcher call never blocks.
type recordService struct {
	tables     store.TableRepository
	locks      *tableLocks
	dispatcher Dispatcher
	logger     *logger.Logger
}

// NewRecordService constructs a RecordService. locks must be the same
// instance the table service uses so schema and record writes serialise
// against each other.
func NewRecordService(tables store.TableRepository, locks *tableLocks, dispatcher Dispatcher, logger *logger.Logger) RecordService {
	return &recordService{
		tables:     tables,
		locks:      locks,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *recordService) ListRecords(ctx context.Context, principal models.Principal, tableID string, query engine.Query) (engine.Page, error) {
	table, err := s.authorizedTable(ctx, principal, tableID)
	if err != nil {
		return engine.Page{}, err
	}

	return engine.Apply(table.Records, query), nil
}

func (s *recordService) GetRecord(ctx context.Context, principal models.Principal, tableID, recordID string) (models.Record, error) {
	table, err := s.authorizedTable(ctx, principal, tableID)
	if err != nil {
		return nil, err
	}

	idx := table.FindRecord(recordID)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}

	return table.Records[idx], nil
}

// CreateRecord appends a record to the table.
//
// When the payload has no id, one is assigned from the table's existing id
// set. Schema fields of type timestamp left unset by the caller are filled
// with the current time; createdAt/updatedAt are always stamped.
func (s *recordService) CreateRecord(ctx context.Context, principal models.Principal, tableID string, record models.Record) (models.Record, error) {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(tableID)
	defer unlock()

	table, err := s.authorizedTable(ctx, principal, tableID)
	if err != nil {
		return nil, err
	}

	if record == nil {
		record = models.Record{}
	}
	if err := validateRequired(table.Schema, record); err != nil {
		return nil, err
	}

	if record.ID() == "" {
		record[models.RecordIDField] = nextRecordID(table.RecordIDs())
	} else if table.FindRecord(record.ID()) >= 0 {
		return nil, fmt.Errorf("%w: record id %q", store.ErrDuplicateID, record.ID())
	}

	now := time.Now()
	for _, field := range table.Schema {
		if field.Type == models.FieldTypeTimestamp {
			if v, ok := record[field.Name]; !ok || v == nil {
				record[field.Name] = now.Format(time.RFC3339)
			}
		}
	}
	record[models.RecordCreatedAtField] = now.Format(time.RFC3339)
	record[models.RecordUpdatedAtField] = now.Format(time.RFC3339)

	table.Records = append(table.Records, record)
	table.UpdatedAt = now

	if err := s.tables.UpdateTable(ctx, table); err != nil {
		log.Err(err).Str("table_id", tableID).Msg("error writing table back after create")
		return nil, err
	}

	s.dispatcher.Dispatch(table.CollectionID, table.ID, models.EventRecordCreated, record)

	return record, nil
}

// UpdateRecord modifies the record with the given id. With partial=true
// (PATCH) caller fields are merged over the existing record; otherwise (PUT)
// the record is replaced apart from its reserved keys. The id is immutable
// either way.
func (s *recordService) UpdateRecord(ctx context.Context, principal models.Principal, tableID, recordID string, record models.Record, partial bool) (models.Record, error) {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(tableID)
	defer unlock()

	table, err := s.authorizedTable(ctx, principal, tableID)
	if err != nil {
		return nil, err
	}

	idx := table.FindRecord(recordID)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}

	old := table.Records[idx].Clone()
	now := time.Now()

	var updated models.Record
	if partial {
		updated = table.Records[idx]
		for k, v := range record {
			if isReservedKey(k) {
				continue
			}
			updated[k] = v
		}
	} else {
		updated = models.Record{}
		for k, v := range record {
			if isReservedKey(k) {
				continue
			}
			updated[k] = v
		}
		updated[models.RecordIDField] = old[models.RecordIDField]
		updated[models.RecordCreatedAtField] = old[models.RecordCreatedAtField]
	}
	updated[models.RecordUpdatedAtField] = now.Format(time.RFC3339)

	table.Records[idx] = updated
	table.UpdatedAt = now

	if err := s.tables.UpdateTable(ctx, table); err != nil {
		log.Err(err).Str("table_id", tableID).Str("record_id", recordID).Msg("error writing table back after update")
		return nil, err
	}

	s.dispatcher.Dispatch(table.CollectionID, table.ID, models.EventRecordUpdated, map[string]any{
		"old": old,
		"new": updated,
	})

	return updated, nil
}

func (s *recordService) DeleteRecord(ctx context.Context, principal models.Principal, tableID, recordID string) (models.Record, error) {
	log := logger.FromContext(ctx)

	unlock := s.locks.Lock(tableID)
	defer unlock()

	table, err := s.authorizedTable(ctx, principal, tableID)
	if err != nil {
		return nil, err
	}

	idx := table.FindRecord(recordID)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}

	removed := table.Records[idx]
	table.Records = append(table.Records[:idx], table.Records[idx+1:]...)
	table.UpdatedAt = time.Now()

	if err := s.tables.UpdateTable(ctx, table); err != nil {
		log.Err(err).Str("table_id", tableID).Str("record_id", recordID).Msg("error writing table back after delete")
		return nil, err
	}

	s.dispatcher.Dispatch(table.CollectionID, table.ID, models.EventRecordDeleted, removed)

	return removed, nil
}

// DeleteRecords removes every listed id that exists and reports the count.
// Unknown ids are skipped, not errors; one event fires per removed record.
func (s *recordService) DeleteRecords(ctx context.Context, principal models.Principal, tableID string, recordIDs []string) (int, error) {
	log := logger.FromContext(ctx)

	if len(recordIDs) == 0 {
		return 0, fmt.Errorf("%w: ids list is required", ErrInvalidDataProvided)
	}

	unlock := s.locks.Lock(tableID)
	defer unlock()

	table, err := s.authorizedTable(ctx, principal, tableID)
	if err != nil {
		return 0, err
	}

	wanted := make(map[string]bool, len(recordIDs))
	for _, id := range recordIDs {
		wanted[id] = true
	}

	kept := table.Records[:0]
	removed := make([]models.Record, 0, len(recordIDs))
	for _, rec := range table.Records {
		if wanted[rec.ID()] {
			removed = append(removed, rec)
		} else {
			kept = append(kept, rec)
		}
	}

	if len(removed) == 0 {
		return 0, nil
	}

	table.Records = kept
	table.UpdatedAt = time.Now()

	if err := s.tables.UpdateTable(ctx, table); err != nil {
		log.Err(err).Str("table_id", tableID).Int("count", len(removed)).Msg("error writing table back after bulk delete")
		return 0, err
	}

	for _, rec := range removed {
		s.dispatcher.Dispatch(table.CollectionID, table.ID, models.EventRecordDeleted, rec)
	}

	return len(removed), nil
}

func (s *recordService) authorizedTable(ctx context.Context, principal models.Principal, tableID string) (models.Table, error) {
	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		return models.Table{}, err
	}

	if err := authorizeResource(principal, table.OwnerID, table.CollectionID); err != nil {
		return models.Table{}, err
	}

	return table, nil
}

func isReservedKey(key string) bool {
	return key == models.RecordIDField ||
		key == models.RecordCreatedAtField ||
		key == models.RecordUpdatedAtField
}

func validateRequired(schema []models.Field, record models.Record) error {
	for _, field := range schema {
		if !field.Required || field.Type == models.FieldTypeTimestamp {
			continue
		}
		if v, ok := record[field.Name]; !ok || v == nil || v == "" {
			return fmt.Errorf("%w: field %q is required", ErrInvalidDataProvided, field.Name)
		}
	}
	return nil
}
