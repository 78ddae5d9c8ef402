package engine

import (
	"strconv"
	"strings"

	"github.com/MKhiriev/go-data-gateway/models"
)

// Operator is one comparison operator of the filter grammar.
type Operator string

// Filter operators. A bare scalar filter value is shorthand for OpEq.
const (
	OpEq         Operator = "$eq"
	OpNe         Operator = "$ne"
	OpGt         Operator = "$gt"
	OpGte        Operator = "$gte"
	OpLt         Operator = "$lt"
	OpLte        Operator = "$lte"
	OpContains   Operator = "$contains"
	OpStartsWith Operator = "$startsWith"
	OpEndsWith   Operator = "$endsWith"
	OpIn         Operator = "$in"
	OpNin        Operator = "$nin"
	OpExists     Operator = "$exists"
)

var knownOperators = map[Operator]bool{
	OpEq: true, OpNe: true, OpGt: true, OpGte: true, OpLt: true, OpLte: true,
	OpContains: true, OpStartsWith: true, OpEndsWith: true,
	OpIn: true, OpNin: true, OpExists: true,
}

// KnownOperator reports whether op is part of the filter grammar.
func KnownOperator(op Operator) bool {
	return knownOperators[op]
}

// Condition is one parsed filter clause: field <op> value. A record passes a
// filter iff it satisfies every condition (logical AND).
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Filter returns the records satisfying every condition. The input slice is
// not modified; the result shares the underlying record maps.
func Filter(records []models.Record, conditions []Condition) []models.Record {
	if len(conditions) == 0 {
		return records
	}

	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if Matches(rec, conditions) {
			out = append(out, rec)
		}
	}
	return out
}

// Matches reports whether the record satisfies every condition.
func Matches(rec models.Record, conditions []Condition) bool {
	for _, cond := range conditions {
		if !matchCondition(rec, cond) {
			return false
		}
	}
	return true
}

func matchCondition(rec models.Record, cond Condition) bool {
	value, defined := rec[cond.Field]

	switch cond.Op {
	case OpEq:
		return looseEqual(value, cond.Value)
	case OpNe:
		return !looseEqual(value, cond.Value)
	case OpGt, OpGte, OpLt, OpLte:
		return compareNumeric(value, cond.Value, cond.Op)
	case OpContains:
		return strings.Contains(foldString(value), foldString(cond.Value))
	case OpStartsWith:
		return strings.HasPrefix(foldString(value), foldString(cond.Value))
	case OpEndsWith:
		return strings.HasSuffix(foldString(value), foldString(cond.Value))
	case OpIn:
		return memberOf(value, cond.Value)
	case OpNin:
		return !memberOf(value, cond.Value)
	case OpExists:
		wantExists := Stringify(cond.Value) == "true"
		exists := defined && value != nil
		return exists == wantExists
	default:
		return false
	}
}

// looseEqual compares two values numerically when both coerce to numbers,
// and by exact string form otherwise.
func looseEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return Stringify(a) == Stringify(b)
}

// compareNumeric coerces both operands to float64 and applies op.
// Values that cannot be coerced never match.
func compareNumeric(value, operand any, op Operator) bool {
	vf, vok := toFloat(value)
	of, ook := toFloat(operand)
	if !vok || !ook {
		return false
	}

	switch op {
	case OpGt:
		return vf > of
	case OpGte:
		return vf >= of
	case OpLt:
		return vf < of
	case OpLte:
		return vf <= of
	default:
		return false
	}
}

// memberOf tests value against an operand that is either a literal sequence
// or a comma-separated string.
func memberOf(value, operand any) bool {
	for _, candidate := range operandList(operand) {
		if looseEqual(value, candidate) {
			return true
		}
	}
	return false
}

func operandList(operand any) []any {
	switch list := operand.(type) {
	case []any:
		return list
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out
	default:
		parts := strings.Split(Stringify(operand), ",")
		out := make([]any, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	}
}

func foldString(v any) string {
	return strings.ToLower(Stringify(v))
}

// Stringify renders a record value or filter operand as its canonical string
// form. Floats that carry integral values print without a fraction part so
// that JSON numbers and query-string literals compare equal.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
