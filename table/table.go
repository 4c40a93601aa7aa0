// Package table provides Tabula's in-memory DataFrame implementation: an
// immutable snapshot of a column tree plus row data, built through a Builder.
package table

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
)

// PathKey renders a leaf path as a flat cell key. Column names must not
// contain the '.' separator.
func PathKey(path []string) string {
	return strings.Join(path, ".")
}

// table is an immutable in-memory DataFrame
type table struct {
	id     string
	root   tabula.ColumnNode
	leaves []tabula.ColumnNode
	cells  map[string]tabula.ColumnNode
	rows   []map[string]interface{}
}

// ID returns the unique identity of this snapshot
func (t *table) ID() string {
	return t.id
}

// Root returns the synthetic root group of this DataFrame's column tree
func (t *table) Root() tabula.ColumnNode {
	return t.root
}

// NumRows returns the number of rows in this DataFrame
func (t *table) NumRows() int {
	return len(t.rows)
}

// Row returns a read-only view of the i-th row
func (t *table) Row(i int) tabula.Row {
	return &row{t: t, idx: i}
}

// ForEachRow calls fn for each row in order, stopping at the first error
func (t *table) ForEachRow(fn func(i int, r tabula.Row) error) error {
	for i := range t.rows {
		if err := fn(i, &row{t: t, idx: i}); err != nil {
			return err
		}
	}
	return nil
}

// Resolve binds a ColumnsResolver to this DataFrame's column tree
func (t *table) Resolve(r tabula.ColumnsResolver) ([]tabula.ResolvedColumn, error) {
	return r.Resolve(t.root)
}

// row is a read-only view over one row of a table
type row struct {
	t   *table
	idx int
}

func (r *row) cell(path []string) (string, interface{}, error) {
	key := PathKey(path)
	if _, ok := r.t.cells[key]; !ok {
		return key, nil, terrors.ColumnNotFoundError{Name: key}
	}
	return key, r.t.rows[r.idx][key], nil
}

// Get returns the raw cell at the given leaf path, including nil cells and
// the Missing sentinel
func (r *row) Get(path ...string) (interface{}, error) {
	_, v, err := r.cell(path)
	return v, err
}

func (r *row) value(path []string) (string, interface{}, error) {
	key, v, err := r.cell(path)
	if err != nil {
		return key, nil, err
	}
	if tabula.IsMissing(v) {
		return key, nil, terrors.MissingValueError{Name: key}
	}
	if v == nil {
		return key, nil, terrors.NilValueError{Name: key}
	}
	return key, v, nil
}

// GetBool retrieves a single bool from the column with the given path
func (r *row) GetBool(path ...string) (bool, error) {
	key, v, err := r.value(path)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, terrors.IncompatibleTypeError{Name: key, Expected: "boolean", Actual: v}
	}
	return b, nil
}

// GetInt64 retrieves a single int64 from the column with the given path
func (r *row) GetInt64(path ...string) (int64, error) {
	key, v, err := r.value(path)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, terrors.IncompatibleTypeError{Name: key, Expected: "number", Actual: v}
	}
	return n, nil
}

// GetFloat64 retrieves a single float64 from the column with the given path
func (r *row) GetFloat64(path ...string) (float64, error) {
	key, v, err := r.value(path)
	if err != nil {
		return 0, err
	}
	n, ok := v.(float64)
	if !ok {
		return 0, terrors.IncompatibleTypeError{Name: key, Expected: "number", Actual: v}
	}
	return n, nil
}

// GetString retrieves a single string from the column with the given path
func (r *row) GetString(path ...string) (string, error) {
	key, v, err := r.value(path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", terrors.IncompatibleTypeError{Name: key, Expected: "string", Actual: v}
	}
	return s, nil
}

// GetTime retrieves a single Time from the column with the given path
func (r *row) GetTime(path ...string) (time.Time, error) {
	key, v, err := r.value(path)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, terrors.IncompatibleTypeError{Name: key, Expected: "datetime", Actual: v}
	}
	return t, nil
}

// IsNil returns true iff the cell at the given path holds a nil value
func (r *row) IsNil(path ...string) bool {
	_, v, err := r.cell(path)
	return err == nil && v == nil
}

// IsMissing returns true iff the cell at the given path holds the
// missing-row sentinel
func (r *row) IsMissing(path ...string) bool {
	_, v, err := r.cell(path)
	return err == nil && tabula.IsMissing(v)
}

// ToString returns a string representation of this row
func (r *row) ToString() string {
	var res strings.Builder
	fmt.Fprint(&res, "{")
	for i, leaf := range r.t.leaves {
		if i > 0 {
			fmt.Fprint(&res, ", ")
		}
		key := PathKey(leaf.Path())
		fmt.Fprintf(&res, "%s: ", key)
		v := r.t.rows[r.idx][key]
		switch {
		case tabula.IsMissing(v):
			fmt.Fprint(&res, "<missing>")
		case v == nil:
			fmt.Fprint(&res, "nil")
		default:
			fmt.Fprint(&res, leaf.Type().ToString(v))
		}
	}
	fmt.Fprint(&res, "}")
	return res.String()
}
