// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package engine

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-data-gateway/models"
)

// Sentinel errors returned by [ParseListQuery] for malformed query strings.
// Handlers map them to a 400 validation failure.
var (
	// ErrUnknownOperator is returned when a filter[field][op] key names an
	// operator outside the grammar.
	ErrUnknownOperator = errors.New("unknown filter operator")

	// ErrInvalidPagination is returned when limit or offset is not a
	// non-negative integer.
	ErrInvalidPagination = errors.New("limit and offset must be non-negative integers")
)

// Query is a fully parsed record listing request.
type Query struct {
	// Conditions is the parsed filter, ANDed across entries.
	Conditions []Condition

	// SortField orders the result when non-empty; Descending flips direction.
	SortField  string
	Descending bool

	// Limit and Offset control pagination. Limit 0 means "use DefaultLimit".
	Limit  int
	Offset int

	// Fields is the projection allow-list; empty means all fields.
	Fields []string
}

// Apply runs the full pipeline over records in the fixed stage order:
// filter, sort, total-count snapshot, paginate, project.
func Apply(records []models.Record, q Query) Page {
	filtered := Filter(records, q.Conditions)
	sorted := Sort(filtered, q.SortField, q.Descending)
	page := Paginate(sorted, q.Limit, q.Offset)
	page.Data = Project(page.Data, q.Fields)
	return page
}

// ParseListQuery parses the record listing query-string grammar:
//
//	filter[<field>]=<value>
//	filter[<field>][<op>]=<value>
//	sort=<field>&order=asc|desc
//	limit=<n>&offset=<n>
//	fields=<csv>
//
// Repeated filter[field][$in] style values are passed through as-is; the
// operator itself accepts a comma-separated list.
func ParseListQuery(values url.Values) (Query, error) {
	q := Query{}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		value := vals[0]

		field, op, ok := parseFilterKey(key)
		if !ok {
			continue
		}
		if !KnownOperator(op) {
			return Query{}, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
		}
		q.Conditions = append(q.Conditions, Condition{Field: field, Op: op, Value: value})
	}

	q.SortField = values.Get("sort")
	q.Descending = strings.EqualFold(values.Get("order"), "desc")

	var err error
	if q.Limit, err = parseBound(values.Get("limit")); err != nil {
		return Query{}, err
	}
	if q.Offset, err = parseBound(values.Get("offset")); err != nil {
		return Query{}, err
	}

	if raw := values.Get("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				q.Fields = append(q.Fields, f)
			}
		}
	}

	return q, nil
}

// parseFilterKey splits "filter[price][$gt]" into ("price", "$gt") and
// "filter[price]" into ("price", "$eq"). Non-filter keys return ok=false.
func parseFilterKey(key string) (field string, op Operator, ok bool) {
	rest, found := strings.CutPrefix(key, "filter[")
	if !found {
		return "", "", false
	}

	closing := strings.Index(rest, "]")
	if closing <= 0 {
		return "", "", false
	}
	field = rest[:closing]
	rest = rest[closing+1:]

	if rest == "" {
		return field, OpEq, true
	}
	if strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "]") {
		return field, Operator(rest[1 : len(rest)-1]), true
	}
	return "", "", false
}

func parseBound(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPagination, raw)
	}
	return n, nil
}
