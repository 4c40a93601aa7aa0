package transform

import (
	"github.com/go-tabula/tabula"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

// Distinct produces a new DataFrame keeping the first occurrence of each row,
// where row identity is the fingerprint of the resolved columns' cells.
// Resolution output is never deduplicated implicitly; this is the explicit
// opt-in for callers needing uniqueness.
func Distinct(df tabula.DataFrame, resolver tabula.ColumnsResolver) (tabula.DataFrame, error) {
	cols, err := df.Resolve(resolver)
	if err != nil {
		return nil, err
	}
	root, err := schema.NewRoot(df.Root().Children()...)
	if err != nil {
		return nil, err
	}
	builder, err := table.CreateBuilder(root)
	if err != nil {
		return nil, err
	}
	leaves := schema.Leaves(df.Root())
	seen := make(map[uint64]bool, df.NumRows())
	err = df.ForEachRow(func(i int, r tabula.Row) error {
		fp, err := table.Fingerprint(r, cols)
		if err != nil {
			return err
		}
		if seen[fp] {
			return nil
		}
		seen[fp] = true
		cells, err := copyRow(r, leaves)
		if err != nil {
			return err
		}
		return builder.AppendRow(cells)
	})
	if err != nil {
		return nil, err
	}
	return builder.Build()
}
