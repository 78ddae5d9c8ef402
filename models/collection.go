package models

import "time"

// Collection is a logical database: a named group of tables owned by a
// single user. Tables reference their collection via Table.CollectionID.
type Collection struct {
	// ID is the unique identifier of the collection.
	ID string `json:"id"`

	// OwnerID is the user who owns the collection. Every resource check
	// in the gateway ultimately resolves to this field.
	OwnerID int64 `json:"-"`

	// Name is the display name of the collection.
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// Color is an optional UI hint stored verbatim (e.g. "#ff7043").
	Color string `json:"color,omitempty"`

	// CreatedAt is the timestamp when the collection was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is the timestamp of the last rename/edit.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Collection model.
func (c Collection) TableName() string {
	return "collections"
}
