package join

import (
	"github.com/go-tabula/tabula"
)

// PredicateJoin performs an inner predicate join: one output row per matching
// (left, right) pair, in left-row order
func PredicateJoin(left tabula.DataFrame, right tabula.DataFrame, expr Predicate) (tabula.DataFrame, error) {
	return Join(left, right, Inner, expr, nil)
}

// FilterPredicateJoin keeps each left row with at least one match, emitting
// left columns only
func FilterPredicateJoin(left tabula.DataFrame, right tabula.DataFrame, expr Predicate) (tabula.DataFrame, error) {
	return Join(left, right, Filter, expr, nil)
}

// LeftPredicateJoin performs a left outer predicate join; unmatched left rows
// appear once with right-side cells set to the missing marker
func LeftPredicateJoin(left tabula.DataFrame, right tabula.DataFrame, expr Predicate) (tabula.DataFrame, error) {
	return Join(left, right, Left, expr, nil)
}

// RightPredicateJoin performs a right outer predicate join; output rows follow
// right-row order
func RightPredicateJoin(left tabula.DataFrame, right tabula.DataFrame, expr Predicate) (tabula.DataFrame, error) {
	return Join(left, right, Right, expr, nil)
}

// FullPredicateJoin performs a full outer predicate join: every left row
// appears, and every right row which matched no left row appears once with
// left-side cells set to the missing marker
func FullPredicateJoin(left tabula.DataFrame, right tabula.DataFrame, expr Predicate) (tabula.DataFrame, error) {
	return Join(left, right, Full, expr, nil)
}

// ExcludePredicateJoin keeps each left row with no match, emitting left
// columns only. Together with FilterPredicateJoin it partitions the left rows.
func ExcludePredicateJoin(left tabula.DataFrame, right tabula.DataFrame, expr Predicate) (tabula.DataFrame, error) {
	return Join(left, right, Exclude, expr, nil)
}

// CrossJoin produces the full Cartesian product of the two DataFrames: an
// inner predicate join whose expression is constant-true
func CrossJoin(left tabula.DataFrame, right tabula.DataFrame) (tabula.DataFrame, error) {
	return Join(left, right, Inner, nil, nil)
}
