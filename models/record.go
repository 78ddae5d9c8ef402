package models

// Reserved record keys managed by the gateway. Caller-supplied values for
// CreatedAtField and UpdatedAtField are overwritten on every mutation;
// RecordIDField is immutable once assigned.
const (
	RecordIDField        = "id"
	RecordCreatedAtField = "createdAt"
	RecordUpdatedAtField = "updatedAt"
)

// Record is one row of a table: an open map of field name to value plus the
// reserved id/createdAt/updatedAt keys. Values carry whatever JSON decoding
// produced (string, float64, bool, nil, nested slices/maps).
type Record map[string]any

// ID returns the record identifier, or "" when the record has no id yet.
func (r Record) ID() string {
	id, _ := r[RecordIDField].(string)
	return id
}

// Clone returns a shallow copy of the record. Mutating top-level keys of the
// copy does not affect the original; nested values are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
