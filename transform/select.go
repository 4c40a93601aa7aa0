package transform

import (
	"github.com/go-tabula/tabula"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

// Select produces a new DataFrame containing only the resolved columns, each
// promoted to the top level of the new tree under its own name. Selecting two
// columns which share a name fails with AmbiguousColumn.
func Select(df tabula.DataFrame, resolver tabula.ColumnsResolver) (tabula.DataFrame, error) {
	cols, err := df.Resolve(resolver)
	if err != nil {
		return nil, err
	}
	nodes := make([]tabula.ColumnNode, 0, len(cols))
	remap := make(map[string]string)
	for _, c := range cols {
		nodes = append(nodes, c.Node)
		// leaves keep their position below the promoted column; overlapping
		// selections may source several output leaves from one cell
		prefixLen := len(c.Node.Path()) - 1
		for _, leaf := range schema.Leaves(c.Node) {
			oldPath := leaf.Path()
			newPath := oldPath[prefixLen:]
			remap[table.PathKey(newPath)] = table.PathKey(oldPath)
		}
	}
	root, err := schema.NewRoot(nodes...)
	if err != nil {
		return nil, err
	}
	return rebuild(df, root, remap)
}
