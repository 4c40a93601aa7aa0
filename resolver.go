package tabula

// ResolvedColumn is one entry in the output of a column resolution: the
// matched node, the path it was reached by (which may include selection-induced
// elements such as a join's "right" mount point), and its depth from the
// resolution root. ResolvedColumns are produced fresh per resolution call and
// are consumed immediately by the calling operation.
type ResolvedColumn struct {
	Node  ColumnNode
	Path  []string
	Depth int
}

// ColumnsResolver is a deferred, composable description of which columns of a
// hierarchical schema to select. Resolvers are pure: resolving the same chain
// against the same tree twice yields identical results, so a resolver may be
// stored and reused across DataFrames with compatible schemas. Construction of
// a resolver never fails; all failures surface at resolution time.
type ColumnsResolver interface {
	// Resolve binds this resolver to a concrete column tree, producing the
	// ordered sequence of matching columns. The root must be a column group.
	Resolve(root ColumnNode) ([]ResolvedColumn, error)
}
