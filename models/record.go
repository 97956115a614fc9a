package models

import (
	"maps"
	"strings"
)

// FieldSpec is the ordered list of field names in one telemetry line. It
// fixes both the wire order and the column order of the data file.
type FieldSpec []string

// Index returns the 0-based position of name, or -1.
func (fs FieldSpec) Index(name string) int {
	for i, f := range fs {
		if f == name {
			return i
		}
	}
	return -1
}

// Record is one parsed telemetry line keyed by field name. A nil Record is
// the empty record held before anything has been accepted.
type Record map[string]string

// Line renders the record in FieldSpec order, space-separated, with a
// trailing newline. This is the data file row format.
func (r Record) Line(fields FieldSpec) string {
	vals := make([]string, len(fields))
	for i, f := range fields {
		vals[i] = r[f]
	}
	return strings.Join(vals, " ") + "\n"
}

// Equal reports whether both records hold the same values.
func (r Record) Equal(o Record) bool {
	return maps.Equal(r, o)
}

// Clone returns an independent copy.
func (r Record) Clone() Record {
	return maps.Clone(r)
}
