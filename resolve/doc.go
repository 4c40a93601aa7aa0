// Package resolve implements Tabula's column-selection DSL: composable,
// lazily-evaluated Selectors which describe which columns of a hierarchical
// schema to select, and the engine which binds them to a concrete column tree.
package resolve
