package tabula

// ColumnNode describes a single column within a hierarchical Schema.
// A ColumnNode is either a leaf carrying typed cell data, or a column
// group whose children are themselves ColumnNodes. Trees of ColumnNodes
// are immutable once built - structural operations on a DataFrame
// produce a new tree rather than mutating an existing one.
type ColumnNode interface {
	Name() string                          // Name returns the name of this column, unique among its direct siblings
	Path() []string                        // Path returns the full nesting path of this column from the root of its tree
	Type() ColumnType                      // Type returns the ColumnType of this column. Column groups report a GroupColumnType
	IsGroup() bool                         // IsGroup returns true iff this column is a group containing child columns
	Children() []ColumnNode                // Children returns the ordered child columns of a group, or an empty slice for a leaf
	Child(name string) (ColumnNode, error) // Child returns the direct child with the given name, or a ColumnNotFoundError
}
