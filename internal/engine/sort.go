package engine

import (
	"sort"
	"strings"

	"github.com/MKhiriev/go-data-gateway/models"
)

// Sort orders records by a single field. Nil/undefined values sort after all
// defined values in ascending order and before them in descending order.
// Defined values compare numerically when both sides coerce to numbers and
// case-insensitively as strings otherwise. The sort is stable and operates on
// a copy; the input slice is left untouched.
func Sort(records []models.Record, field string, descending bool) []models.Record {
	if field == "" {
		return records
	}

	out := make([]models.Record, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		a, aDefined := out[i][field]
		b, bDefined := out[j][field]
		aNull := !aDefined || a == nil
		bNull := !bDefined || b == nil

		if aNull || bNull {
			if aNull && bNull {
				return false
			}
			// ascending: nulls last; descending: nulls first
			if descending {
				return aNull
			}
			return bNull
		}

		less := lessValue(a, b)
		if descending {
			return lessValue(b, a)
		}
		return less
	})

	return out
}

func lessValue(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af < bf
	}
	return strings.ToLower(Stringify(a)) < strings.ToLower(Stringify(b))
}
