package transform

import (
	"github.com/go-tabula/tabula"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

// Remove produces a new DataFrame with the resolved columns removed. Groups
// whose children are all removed disappear as well. Removing every column
// yields a valid empty DataFrame.
func Remove(df tabula.DataFrame, resolver tabula.ColumnsResolver) (tabula.DataFrame, error) {
	cols, err := df.Resolve(resolver)
	if err != nil {
		return nil, err
	}
	removed := pathKeySet(cols)
	builder := schema.CreateSchema()
	remap := make(map[string]string)
	for _, c := range df.Root().Children() {
		keep(builder, c, removed, remap)
	}
	root, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return rebuild(df, root, remap)
}

// keep copies the surviving part of a subtree into the schema builder,
// recording identity leaf key mappings
func keep(b *schema.Builder, n tabula.ColumnNode, removed map[string]bool, remap map[string]string) {
	if !survives(n, removed) {
		return
	}
	if !n.IsGroup() {
		key := table.PathKey(n.Path())
		remap[key] = key
		b.AddColumn(n.Name(), n.Type())
		return
	}
	b.AddGroup(n.Name(), func(g *schema.Builder) {
		for _, c := range n.Children() {
			keep(g, c, removed, remap)
		}
	})
}

// survives reports whether a subtree still contains at least one leaf after removal
func survives(n tabula.ColumnNode, removed map[string]bool) bool {
	if removed[table.PathKey(n.Path())] {
		return false
	}
	if !n.IsGroup() {
		return true
	}
	for _, c := range n.Children() {
		if survives(c, removed) {
			return true
		}
	}
	return false
}
