package table

import (
	"fmt"

	uuid "github.com/gofrs/uuid"

	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
	"github.com/go-tabula/tabula/schema"
)

// Builder accumulates rows for a new DataFrame snapshot. Cell maps are keyed
// by PathKey of each leaf column; absent keys load as nil cells.
type Builder struct {
	root   tabula.ColumnNode
	leaves []tabula.ColumnNode
	cells  map[string]tabula.ColumnNode
	rows   []map[string]interface{}
}

// CreateBuilder is a factory for table Builders over the given column tree.
// The root must be a column group.
func CreateBuilder(root tabula.ColumnNode) (*Builder, error) {
	if root == nil || !root.IsGroup() {
		name := "<nil>"
		if root != nil {
			name = root.Name()
		}
		return nil, terrors.NotColumnGroupError{Name: name}
	}
	leaves := schema.Leaves(root)
	cells := make(map[string]tabula.ColumnNode, len(leaves))
	for _, leaf := range leaves {
		cells[PathKey(leaf.Path())] = leaf
	}
	return &Builder{root: root, leaves: leaves, cells: cells}, nil
}

// AppendRow validates one row of cells against the column tree and adds it.
// Values are checked against each leaf's declared ColumnType; nil cells and
// the Missing sentinel are always accepted.
func (b *Builder) AppendRow(cellValues map[string]interface{}) error {
	row := make(map[string]interface{}, len(cellValues))
	for key, v := range cellValues {
		leaf, ok := b.cells[key]
		if !ok {
			return terrors.ColumnNotFoundError{Name: key}
		}
		if v == nil || tabula.IsMissing(v) {
			row[key] = v
			continue
		}
		v = coerce(leaf.Type(), v)
		if !leaf.Type().Accepts(v) {
			return terrors.IncompatibleTypeError{Name: key, Expected: expectedName(leaf.Type()), Actual: v}
		}
		row[key] = v
	}
	b.rows = append(b.rows, row)
	return nil
}

// NumRows returns the number of rows appended so far
func (b *Builder) NumRows() int {
	return len(b.rows)
}

// Build produces an immutable DataFrame snapshot with a fresh identity. The
// Builder must not be reused afterwards.
func (b *Builder) Build() (tabula.DataFrame, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &table{
		id:     id.String(),
		root:   b.root,
		leaves: b.leaves,
		cells:  b.cells,
		rows:   b.rows,
	}, nil
}

// coerce widens convenience value representations to a column's storage type
func coerce(ct tabula.ColumnType, v interface{}) interface{} {
	switch ct.(type) {
	case *tabula.Int64ColumnType:
		if n, ok := v.(int); ok {
			return int64(n)
		}
	case *tabula.Float64ColumnType:
		if n, ok := v.(int); ok {
			return float64(n)
		}
	}
	return v
}

func expectedName(ct tabula.ColumnType) string {
	switch ct.(type) {
	case *tabula.BoolColumnType:
		return "boolean"
	case *tabula.Int64ColumnType, *tabula.Float64ColumnType:
		return "number"
	case *tabula.StringColumnType:
		return "string"
	case *tabula.TimeColumnType:
		return "datetime"
	default:
		return fmt.Sprintf("%T", ct)
	}
}
