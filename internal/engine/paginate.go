package engine

import "github.com/MKhiriev/go-data-gateway/models"

// DefaultLimit bounds record listings when the caller does not specify one.
const DefaultLimit = 25

// Page is one pagination window over a filtered record set.
type Page struct {
	// Data is the window contents.
	Data []models.Record

	// Total is the filtered record count before pagination.
	Total int

	// Limit and Offset echo the applied window.
	Limit  int
	Offset int

	// HasMore is true iff Offset+Limit < Total.
	HasMore bool
}

// Paginate slices records into the [offset, offset+limit) window. A limit of
// zero or less falls back to DefaultLimit; a negative offset is treated as 0.
func Paginate(records []models.Record, limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	total := len(records)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return Page{
		Data:    records[start:end],
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}
