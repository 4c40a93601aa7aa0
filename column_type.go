package tabula

import (
	"fmt"
	"reflect"
	"time"
)

// ColumnType is an interface which is implemented to define a supported column type.
// Tabula provides a variety of built-in types in this package.
type ColumnType interface {
	ToString(v interface{}) string // produces a string representation of a value of this type
	Accepts(v interface{}) bool    // reports whether a cell value is compatible with this type
}

// SameColumnType returns true iff two ColumnTypes share the same
// dynamic type and the same type parameters (e.g. time formats).
func SameColumnType(a ColumnType, b ColumnType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// BoolColumnType is a column type which stores a boolean value
type BoolColumnType struct{}

// ToString produces a string representation of a BoolColumnType value
func (b *BoolColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%t", v.(bool))
}

// Accepts returns true for boolean values
func (b *BoolColumnType) Accepts(v interface{}) bool {
	_, ok := v.(bool)
	return ok
}

// Int64ColumnType is a column type which stores an int64 value
type Int64ColumnType struct{}

// ToString produces a string representation of an Int64ColumnType value
func (b *Int64ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%d", v.(int64))
}

// Accepts returns true for int and int64 values
func (b *Int64ColumnType) Accepts(v interface{}) bool {
	switch v.(type) {
	case int64, int:
		return true
	}
	return false
}

// Float64ColumnType is a column type which stores a float64 value
type Float64ColumnType struct{}

// ToString produces a string representation of a Float64ColumnType value
func (b *Float64ColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%f", v.(float64))
}

// Accepts returns true for float64 values
func (b *Float64ColumnType) Accepts(v interface{}) bool {
	_, ok := v.(float64)
	return ok
}

// StringColumnType is a column type which stores a string value
type StringColumnType struct{}

// ToString produces a string representation of a StringColumnType value
func (b *StringColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("\"%s\"", v.(string))
}

// Accepts returns true for string values
func (b *StringColumnType) Accepts(v interface{}) bool {
	_, ok := v.(string)
	return ok
}

// TimeColumnType is a column type which stores a time.Time value. Format is the
// layout used when parsing cell values from textual data sources. Because of
// https://github.com/golang/go/issues/15716, Times stored and retrieved may fail
// equality tests despite passing UnixNano() equality tests.
type TimeColumnType struct {
	Format string
}

// ToString produces a string representation of a TimeColumnType value
func (b *TimeColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("\"%s\"", v.(time.Time).String())
}

// Accepts returns true for time.Time values
func (b *TimeColumnType) Accepts(v interface{}) bool {
	_, ok := v.(time.Time)
	return ok
}

// AnyColumnType is a column type which stores values of any type
type AnyColumnType struct{}

// ToString produces a string representation of an AnyColumnType value
func (b *AnyColumnType) ToString(v interface{}) string {
	return fmt.Sprintf("%v", v)
}

// Accepts returns true for every value
func (b *AnyColumnType) Accepts(v interface{}) bool {
	return true
}

// GroupColumnType is the ColumnType reported by column groups. Groups carry
// no cell data of their own, so GroupColumnType accepts no values.
type GroupColumnType struct{}

// ToString produces a string representation of a GroupColumnType value
func (b *GroupColumnType) ToString(v interface{}) string {
	return "<group>"
}

// Accepts returns false - groups do not carry cell values
func (b *GroupColumnType) Accepts(v interface{}) bool {
	return false
}
