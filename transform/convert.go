package transform

import (
	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

// Converter transforms one cell value during a column conversion. Nil cells
// and missing markers are carried over without calling the Converter.
type Converter func(v interface{}) (interface{}, error)

// Convert produces a new DataFrame with each resolved leaf column retyped to
// the given ColumnType and its cells transformed through conv. Resolving a
// column group fails with NotLeafColumn; a conversion error aborts the whole
// operation.
func Convert(df tabula.DataFrame, resolver tabula.ColumnsResolver, to tabula.ColumnType, conv Converter) (tabula.DataFrame, error) {
	cols, err := df.Resolve(resolver)
	if err != nil {
		return nil, err
	}
	for _, c := range cols {
		if c.Node.IsGroup() {
			return nil, terrors.NotLeafColumnError{Name: c.Node.Name()}
		}
	}
	converted := pathKeySet(cols)
	builder := schema.CreateSchema()
	for _, c := range df.Root().Children() {
		copyRetyped(builder, c, converted, to)
	}
	root, err := builder.Build()
	if err != nil {
		return nil, err
	}
	out, err := table.CreateBuilder(root)
	if err != nil {
		return nil, err
	}
	leaves := schema.Leaves(df.Root())
	err = df.ForEachRow(func(i int, r tabula.Row) error {
		cells := make(map[string]interface{}, len(leaves))
		for _, leaf := range leaves {
			key := table.PathKey(leaf.Path())
			v, err := r.Get(leaf.Path()...)
			if err != nil {
				return err
			}
			if converted[key] && v != nil && !tabula.IsMissing(v) {
				v, err = conv(v)
				if err != nil {
					return err
				}
			}
			cells[key] = v
		}
		return out.AppendRow(cells)
	})
	if err != nil {
		return nil, err
	}
	return out.Build()
}

func copyRetyped(b *schema.Builder, n tabula.ColumnNode, converted map[string]bool, to tabula.ColumnType) {
	if !n.IsGroup() {
		colType := n.Type()
		if converted[table.PathKey(n.Path())] {
			colType = to
		}
		b.AddColumn(n.Name(), colType)
		return
	}
	b.AddGroup(n.Name(), func(g *schema.Builder) {
		for _, c := range n.Children() {
			copyRetyped(g, c, converted, to)
		}
	})
}
