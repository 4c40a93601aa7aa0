package resolve

import (
	"github.com/go-tabula/tabula"
)

// Dfs selects the columns at any depth below the current scope which match
// the given predicate, excluding matches at the top level itself.
//
// Deprecated: Dfs is a redirection kept for callers migrating from the legacy
// traversal API. Use Cols(filter).Recursively(false) instead.
func Dfs(filter func(tabula.ColumnNode) bool) Selector {
	return Cols(filter).Recursively(false)
}

// AllDfs selects every column at any depth below the current scope, excluding
// the top level itself. Column groups are only included as matches when
// includeGroups is true.
//
// Deprecated: AllDfs is a redirection kept for callers migrating from the
// legacy traversal API. Use Cols().Recursively(false), optionally with
// ExcludeGroups, instead.
func AllDfs(includeGroups bool) Selector {
	if includeGroups {
		return Cols().Recursively(false)
	}
	return Cols().Recursively(false, ExcludeGroups())
}

// DfsOf selects the columns of the given type at any depth below the current
// scope, excluding matches at the top level itself.
//
// Deprecated: DfsOf is a redirection kept for callers migrating from the
// legacy traversal API. Use ColsOf(colType, filters...).Recursively(false)
// instead.
func DfsOf(colType tabula.ColumnType, filters ...func(tabula.ColumnNode) bool) Selector {
	return ColsOf(colType, filters...).Recursively(false)
}
