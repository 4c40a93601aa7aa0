package transform

import (
	"github.com/go-tabula/tabula"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

// Rename produces a new DataFrame with each resolved column renamed through
// the given function. Descendant paths follow renamed groups. Sibling name
// uniqueness is revalidated on the rebuilt tree.
func Rename(df tabula.DataFrame, resolver tabula.ColumnsResolver, rename func(oldName string) string) (tabula.DataFrame, error) {
	cols, err := df.Resolve(resolver)
	if err != nil {
		return nil, err
	}
	renamed := pathKeySet(cols)
	builder := schema.CreateSchema()
	remap := make(map[string]string)
	for _, c := range df.Root().Children() {
		copyRenamed(builder, c, nil, renamed, rename, remap)
	}
	root, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return rebuild(df, root, remap)
}

// copyRenamed copies a subtree into the schema builder, applying renames and
// recording new-to-old leaf key mappings
func copyRenamed(b *schema.Builder, n tabula.ColumnNode, newPrefix []string, renamed map[string]bool, rename func(string) string, remap map[string]string) {
	name := n.Name()
	if renamed[table.PathKey(n.Path())] {
		name = rename(name)
	}
	newPath := make([]string, 0, len(newPrefix)+1)
	newPath = append(newPath, newPrefix...)
	newPath = append(newPath, name)
	if !n.IsGroup() {
		remap[table.PathKey(newPath)] = table.PathKey(n.Path())
		b.AddColumn(name, n.Type())
		return
	}
	b.AddGroup(name, func(g *schema.Builder) {
		for _, c := range n.Children() {
			copyRenamed(g, c, newPath, renamed, rename, remap)
		}
	})
}
