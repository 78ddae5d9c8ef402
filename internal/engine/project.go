package engine

import "github.com/MKhiriev/go-data-gateway/models"

// Project copies only the allow-listed fields of each record into the output.
// Requested fields missing from a record are silently omitted, not defaulted
// to null. An empty or nil field list returns the records unchanged.
func Project(records []models.Record, fields []string) []models.Record {
	if len(fields) == 0 {
		return records
	}

	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		projected := make(models.Record, len(fields))
		for _, f := range fields {
			if v, ok := rec[f]; ok {
				projected[f] = v
			}
		}
		out = append(out, projected)
	}
	return out
}
