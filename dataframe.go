package tabula

// A DataFrame is an immutable snapshot of hierarchical columnar data: a tree
// of ColumnNodes plus an ordered sequence of Rows. Operations which change
// structure or content produce a new DataFrame.
type DataFrame interface {
	ID() string                                         // ID returns the unique identity of this snapshot
	Root() ColumnNode                                   // Root returns the synthetic root group whose children are the top-level columns
	NumRows() int                                       // NumRows returns the number of rows in this DataFrame
	Row(i int) Row                                      // Row returns a read-only view of the i-th row
	ForEachRow(fn func(i int, r Row) error) error       // ForEachRow calls fn for each row in order, stopping at the first error
	Resolve(r ColumnsResolver) ([]ResolvedColumn, error) // Resolve binds a ColumnsResolver to this DataFrame's column tree
}
