package errors

import (
	"fmt"
)

// IndexOutOfBoundsError occurs when an index or range combinator requests a
// position outside the candidate set's bounds at resolution time
type IndexOutOfBoundsError struct {
	Index int
	Size  int
}

// Error returns a textual representation of this IndexOutOfBoundsError
func (e IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("Column index %d is out of bounds for size %d", e.Index, e.Size)
}

// InvalidRangeError occurs when a range combinator is given an inverted range
type InvalidRangeError struct {
	First int
	Last  int
}

// Error returns a textual representation of this InvalidRangeError
func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("Column range [%d, %d] is inverted", e.First, e.Last)
}

// NotColumnGroupError occurs when a selection operator which descends into a
// group is applied to a column which is not a column group
type NotColumnGroupError struct {
	Name string
}

// Error returns a textual representation of this NotColumnGroupError
func (e NotColumnGroupError) Error() string {
	return fmt.Sprintf("Column %s is not a column group", e.Name)
}

// NotLeafColumnError occurs when a cell-level operation is applied to a column group
type NotLeafColumnError struct {
	Name string
}

// Error returns a textual representation of this NotLeafColumnError
func (e NotLeafColumnError) Error() string {
	return fmt.Sprintf("Column %s is a column group, not a leaf column", e.Name)
}

// ColumnNotFoundError occurs when a singular accessor requires exactly one
// match but zero columns with the given name exist
type ColumnNotFoundError struct {
	Name string
}

// Error returns a textual representation of this ColumnNotFoundError
func (e ColumnNotFoundError) Error() string {
	return fmt.Sprintf("Column %s does not exist", e.Name)
}

// AmbiguousColumnError occurs when a singular accessor requires exactly one
// match but several columns with the given name exist in scope
type AmbiguousColumnError struct {
	Name  string
	Count int
}

// Error returns a textual representation of this AmbiguousColumnError
func (e AmbiguousColumnError) Error() string {
	return fmt.Sprintf("Column name %s is ambiguous (%d matches)", e.Name, e.Count)
}

// IncompatibleTypeError occurs when a cell value does not match a column's declared type
type IncompatibleTypeError struct {
	Name     string
	Expected string
	Actual   interface{}
}

// Error returns a textual representation of this IncompatibleTypeError
func (e IncompatibleTypeError) Error() string {
	return fmt.Sprintf("Value for column %s is not a %s. Was: %#v", e.Name, e.Expected, e.Actual)
}

// NilValueError occurs when a typed getter reads a cell whose value is nil
type NilValueError struct {
	Name string
}

// Error returns a textual representation of this NilValueError
func (e NilValueError) Error() string {
	return fmt.Sprintf("Value for column %s is nil", e.Name)
}

// MissingValueError occurs when a typed getter reads a cell holding the
// missing-row sentinel produced by an outer join
type MissingValueError struct {
	Name string
}

// Error returns a textual representation of this MissingValueError
func (e MissingValueError) Error() string {
	return fmt.Sprintf("Value for column %s belongs to an unmatched join row", e.Name)
}
