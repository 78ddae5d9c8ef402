package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-data-gateway/internal/engine"
	"github.com/MKhiriev/go-data-gateway/internal/logger"
	"github.com/MKhiriev/go-data-gateway/internal/store"
	"github.com/MKhiriev/go-data-gateway/models"
)

func ownerPrincipal() models.Principal {
	return models.Principal{UserID: 1, Scopes: models.Scopes{models.ScopeAdmin}}
}

// newRecordFixture builds a record service over a single in-memory table and
// returns the dispatcher capture and a pointer to the live table state.
func newRecordFixture(t *testing.T, table models.Table) (RecordService, *captureDispatcher, *models.Table) {
	t.Helper()

	state := &table
	repo := &mockTableRepo{
		getFn: func(_ context.Context, id string) (models.Table, error) {
			if id != state.ID {
				return models.Table{}, store.ErrTableNotFound
			}
			return *state, nil
		},
		updateFn: func(_ context.Context, updated models.Table) error {
			*state = updated
			return nil
		},
	}

	dispatcher := &captureDispatcher{}
	svc := NewRecordService(repo, newTableLocks(), dispatcher, logger.Nop())
	return svc, dispatcher, state
}

func testTable() models.Table {
	return models.Table{
		ID:           "tbl-1",
		CollectionID: "col-1",
		OwnerID:      1,
		Name:         "products",
		Schema: []models.Field{
			{ID: "f1", Name: "name", Type: models.FieldTypeText, Required: true},
			{ID: "f2", Name: "price", Type: models.FieldTypeNumber},
			{ID: "f3", Name: "addedAt", Type: models.FieldTypeTimestamp},
		},
		Records: []models.Record{
			{"id": "10001", "name": "laptop", "price": float64(1500)},
			{"id": "10002", "name": "mouse", "price": float64(25)},
		},
	}
}

func TestCreateRecord_AssignsIDAndTimestamps(t *testing.T) {
	svc, dispatcher, state := newRecordFixture(t, testTable())

	created, err := svc.CreateRecord(context.Background(), ownerPrincipal(), "tbl-1", models.Record{
		"name": "keyboard", "price": float64(80),
	})
	require.NoError(t, err)

	// sequential scheme: existing max is 10002
	assert.Equal(t, "10003", created.ID())
	assert.NotEmpty(t, created[models.RecordCreatedAtField])
	assert.NotEmpty(t, created[models.RecordUpdatedAtField])
	// unset schema timestamp field gets autofilled
	assert.NotEmpty(t, created["addedAt"])

	assert.Len(t, state.Records, 3)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, models.EventRecordCreated, dispatcher.events[0].event)
	assert.Equal(t, "col-1", dispatcher.events[0].collectionID)
	assert.Equal(t, "tbl-1", dispatcher.events[0].tableID)
}

func TestCreateRecord_EmptyTableGetsFiveDigitID(t *testing.T) {
	table := testTable()
	table.Records = nil
	svc, _, _ := newRecordFixture(t, table)

	created, err := svc.CreateRecord(context.Background(), ownerPrincipal(), "tbl-1", models.Record{"name": "x"})
	require.NoError(t, err)

	n, err := strconv.Atoi(created.ID())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 10000)
	assert.LessOrEqual(t, n, 99999)
}

func TestCreateRecord_DuplicateID(t *testing.T) {
	svc, dispatcher, _ := newRecordFixture(t, testTable())

	_, err := svc.CreateRecord(context.Background(), ownerPrincipal(), "tbl-1", models.Record{
		"id": "10001", "name": "dup",
	})

	assert.ErrorIs(t, err, store.ErrDuplicateID)
	assert.Empty(t, dispatcher.events)
}

func TestCreateRecord_MissingRequiredField(t *testing.T) {
	svc, _, _ := newRecordFixture(t, testTable())

	_, err := svc.CreateRecord(context.Background(), ownerPrincipal(), "tbl-1", models.Record{
		"price": float64(10),
	})

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestCreateRecord_WrongOwner(t *testing.T) {
	svc, _, _ := newRecordFixture(t, testTable())

	stranger := models.Principal{UserID: 99, Scopes: models.Scopes{models.ScopeAdmin}}
	_, err := svc.CreateRecord(context.Background(), stranger, "tbl-1", models.Record{"name": "x"})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateRecord_CollectionScopeMismatch(t *testing.T) {
	svc, _, _ := newRecordFixture(t, testTable())

	scoped := models.Principal{
		UserID:       1,
		KeyID:        "key-1",
		Scopes:       models.Scopes{models.ScopeRead, models.ScopeWrite},
		CollectionID: "col-other",
	}
	_, err := svc.CreateRecord(context.Background(), scoped, "tbl-1", models.Record{"name": "x"})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateRecord_PartialMergesFields(t *testing.T) {
	svc, dispatcher, state := newRecordFixture(t, testTable())

	updated, err := svc.UpdateRecord(context.Background(), ownerPrincipal(), "tbl-1", "10001",
		models.Record{"price": float64(1400), "id": "evil"}, true)
	require.NoError(t, err)

	assert.Equal(t, "10001", updated.ID())
	assert.Equal(t, float64(1400), updated["price"])
	assert.Equal(t, "laptop", updated["name"])

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, models.EventRecordUpdated, dispatcher.events[0].event)
	payload, ok := dispatcher.events[0].payload.(map[string]any)
	require.True(t, ok)
	old, ok := payload["old"].(models.Record)
	require.True(t, ok)
	assert.Equal(t, float64(1500), old["price"])

	assert.Equal(t, float64(1400), state.Records[0]["price"])
}

func TestUpdateRecord_ReplaceDropsUnsentFields(t *testing.T) {
	svc, _, _ := newRecordFixture(t, testTable())

	updated, err := svc.UpdateRecord(context.Background(), ownerPrincipal(), "tbl-1", "10001",
		models.Record{"name": "laptop pro"}, false)
	require.NoError(t, err)

	assert.Equal(t, "10001", updated.ID())
	assert.Equal(t, "laptop pro", updated["name"])
	assert.NotContains(t, updated, "price")
}

func TestUpdateRecord_NotFound(t *testing.T) {
	svc, _, _ := newRecordFixture(t, testTable())

	_, err := svc.UpdateRecord(context.Background(), ownerPrincipal(), "tbl-1", "99999",
		models.Record{"name": "x"}, true)

	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteRecord_ThenGetFails(t *testing.T) {
	svc, dispatcher, state := newRecordFixture(t, testTable())
	ctx := context.Background()

	removed, err := svc.DeleteRecord(ctx, ownerPrincipal(), "tbl-1", "10001")
	require.NoError(t, err)
	assert.Equal(t, "laptop", removed["name"])
	assert.Len(t, state.Records, 1)

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, models.EventRecordDeleted, dispatcher.events[0].event)

	_, err = svc.GetRecord(ctx, ownerPrincipal(), "tbl-1", "10001")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteRecords_Bulk(t *testing.T) {
	svc, dispatcher, state := newRecordFixture(t, testTable())

	deleted, err := svc.DeleteRecords(context.Background(), ownerPrincipal(), "tbl-1",
		[]string{"10001", "10002", "nonexistent"})
	require.NoError(t, err)

	assert.Equal(t, 2, deleted)
	assert.Empty(t, state.Records)
	assert.Len(t, dispatcher.events, 2)
}

func TestDeleteRecords_EmptyIDList(t *testing.T) {
	svc, _, _ := newRecordFixture(t, testTable())

	_, err := svc.DeleteRecords(context.Background(), ownerPrincipal(), "tbl-1", nil)

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestListRecords_RunsQueryEngine(t *testing.T) {
	svc, _, _ := newRecordFixture(t, testTable())

	page, err := svc.ListRecords(context.Background(), ownerPrincipal(), "tbl-1", engine.Query{
		Conditions: []engine.Condition{{Field: "price", Op: engine.OpGt, Value: "100"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "10001", page.Data[0].ID())
}
