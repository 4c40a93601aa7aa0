package transform

import (
	"strings"

	"github.com/go-tabula/tabula"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

// copyRow extracts the cells of the given leaves from a row, keyed by each
// leaf's own path
func copyRow(r tabula.Row, leaves []tabula.ColumnNode) (map[string]interface{}, error) {
	cells := make(map[string]interface{}, len(leaves))
	for _, leaf := range leaves {
		v, err := r.Get(leaf.Path()...)
		if err != nil {
			return nil, err
		}
		cells[table.PathKey(leaf.Path())] = v
	}
	return cells, nil
}

// rebuild copies a DataFrame's rows into a new snapshot over the given column
// tree, sourcing each new leaf's cell through remap (new leaf key to old leaf
// key). Several new leaves may share one source leaf; new leaves absent from
// remap load as nil cells.
func rebuild(df tabula.DataFrame, root tabula.ColumnNode, remap map[string]string) (tabula.DataFrame, error) {
	builder, err := table.CreateBuilder(root)
	if err != nil {
		return nil, err
	}
	newLeaves := schema.Leaves(root)
	err = df.ForEachRow(func(i int, r tabula.Row) error {
		cells := make(map[string]interface{}, len(newLeaves))
		for _, leaf := range newLeaves {
			newKey := table.PathKey(leaf.Path())
			oldKey, ok := remap[newKey]
			if !ok {
				continue
			}
			v, err := r.Get(strings.Split(oldKey, ".")...)
			if err != nil {
				return err
			}
			cells[newKey] = v
		}
		return builder.AppendRow(cells)
	})
	if err != nil {
		return nil, err
	}
	return builder.Build()
}

// pathKeySet renders resolved columns as a set of their tree paths
func pathKeySet(cols []tabula.ResolvedColumn) map[string]bool {
	set := make(map[string]bool, len(cols))
	for _, c := range cols {
		set[table.PathKey(c.Node.Path())] = true
	}
	return set
}
