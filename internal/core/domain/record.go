package domain

import (
	"fmt"
	"regexp"
	"time"
)

// Fields maintained by every record store.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Record is a single row as exchanged with the record store.
type Record map[string]any

// Filter is one equality condition; a slice of filters is a conjunction.
type Filter struct {
	Field string
	Value any
}

// Eq builds the condition field = value.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// ValidIdentifier reports whether name is safe to use as a table or field name.
func ValidIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

// CheckIdentifiers rejects table, filter and record field names that are not
// plain identifiers.
func CheckIdentifiers(table string, filters []Filter, rec Record) error {
	if !ValidIdentifier(table) {
		return fmt.Errorf("%w: table name %q", ErrInvalidInput, table)
	}
	for _, f := range filters {
		if !ValidIdentifier(f.Field) {
			return fmt.Errorf("%w: field name %q", ErrInvalidInput, f.Field)
		}
	}
	for k := range rec {
		if !ValidIdentifier(k) {
			return fmt.Errorf("%w: field name %q", ErrInvalidInput, k)
		}
	}
	return nil
}

// ID returns the record's id as a string.
func (r Record) ID() string {
	return r.String(FieldID)
}

// String returns the field as a string, or "" when absent or not a string.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Bool returns the field as a bool, false when absent.
func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Time returns the field as a time, accepting RFC 3339 strings.
func (r Record) Time(key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case string:
		t, err := time.Parse(time.RFC3339Nano, v)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

// Clone returns a deep copy of maps and slices nested in the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// Without returns a copy of the record with the given fields removed.
func (r Record) Without(keys ...string) Record {
	out := r.Clone()
	if out == nil {
		out = Record{}
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return t.Clone()
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
