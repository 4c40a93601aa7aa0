// Package transform provides the structural DataFrame operations driven by
// resolved column lists: select, remove, rename, convert and distinct. Each
// operation resolves its ColumnsResolver against the input DataFrame and
// produces a new snapshot; inputs are never mutated.
package transform
