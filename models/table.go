package models

import "time"

// FieldType enumerates the value types a schema field may declare.
type FieldType string

// Supported schema field types.
const (
	FieldTypeText      FieldType = "text"
	FieldTypeNumber    FieldType = "number"
	FieldTypeDate      FieldType = "date"
	FieldTypeSelect    FieldType = "select"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeURL       FieldType = "url"
	FieldTypeEmail     FieldType = "email"
	FieldTypeTimestamp FieldType = "timestamp"
)

// Field describes one column of a table schema.
type Field struct {
	// ID is the unique identifier of the field within its table.
	ID string `json:"id"`

	// Name is the record key this field maps to.
	Name string `json:"name"`

	// Type is the declared value type (see FieldType constants).
	Type FieldType `json:"type"`

	// Required marks the field as mandatory on record creation.
	Required bool `json:"required,omitempty"`

	// Options holds the allowed values for select-type fields.
	Options []string `json:"options,omitempty"`
}

// Table is a named schema together with its record set. Records is the
// authoritative, owned-in-place array: every record mutation reads the whole
// slice, modifies it in memory and writes it back as one unit.
type Table struct {
	// ID is the unique identifier of the table.
	ID string `json:"id"`

	// CollectionID links the table to its collection. Empty means the table
	// is not attached to any collection.
	CollectionID string `json:"collection_id,omitempty"`

	// OwnerID is the user who owns the table.
	OwnerID int64 `json:"-"`

	// Name is the display name of the table.
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// Schema is the ordered list of declared fields.
	Schema []Field `json:"schema"`

	// Records is the full record set of the table.
	Records []Record `json:"records"`

	// CreatedAt is the timestamp when the table was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last table or record mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Table model.
func (t Table) TableName() string {
	return "tables"
}

// RecordIDs returns the ids of all records currently in the table.
func (t *Table) RecordIDs() []string {
	ids := make([]string, 0, len(t.Records))
	for _, rec := range t.Records {
		if id := rec.ID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// FindRecord returns the index of the record with the given id, or -1.
func (t *Table) FindRecord(id string) int {
	for i, rec := range t.Records {
		if rec.ID() == id {
			return i
		}
	}
	return -1
}
