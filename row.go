package tabula

import "time"

// MissingValue is the sentinel stored in a cell when an outer join found no
// matching row on one side. It is deliberately distinct from a nil cell, so
// that downstream code can tell "no matching row" from "matched a row whose
// value was null".
type MissingValue struct{}

// Missing is the canonical MissingValue sentinel
var Missing = MissingValue{}

// IsMissing returns true iff a cell value is the missing-row sentinel
func IsMissing(v interface{}) bool {
	_, ok := v.(MissingValue)
	return ok
}

// Row is a read-only view of a single row of hierarchical columnar data.
// Cells are addressed by the full path of a leaf column. In practice, users
// of Row call its typed getter methods to retrieve data during selection,
// transformation and join-predicate evaluation.
type Row interface {
	Get(path ...string) (interface{}, error)          // Get returns the raw cell at the given leaf path, including nil cells and the Missing sentinel
	GetBool(path ...string) (bool, error)             // GetBool retrieves a single bool from the column with the given path
	GetInt64(path ...string) (int64, error)           // GetInt64 retrieves a single int64 from the column with the given path
	GetFloat64(path ...string) (float64, error)       // GetFloat64 retrieves a single float64 from the column with the given path
	GetString(path ...string) (string, error)         // GetString retrieves a single string from the column with the given path
	GetTime(path ...string) (time.Time, error)        // GetTime retrieves a single Time from the column with the given path
	IsNil(path ...string) bool                        // IsNil returns true iff the cell at the given path holds a nil value. If an error occurs, this function returns false
	IsMissing(path ...string) bool                    // IsMissing returns true iff the cell at the given path holds the missing-row sentinel. If an error occurs, this function returns false
	ToString() string                                 // ToString returns a string representation of this row
}
