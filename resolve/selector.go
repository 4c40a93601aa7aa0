package resolve

import (
	"golang.org/x/exp/slices"

	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
)

// Selector is an immutable, lazily-evaluated pipeline of selection steps.
// Combinator methods return a new Selector; construction never fails, and all
// failures surface when the Selector is resolved against a concrete tree. The
// zero-value Selector selects all direct children of the resolution root.
type Selector struct {
	steps []step
}

// Cols starts a Selector which selects the columns matching every given
// filter. With no filters, all columns in scope are selected.
func Cols(filters ...func(tabula.ColumnNode) bool) Selector {
	return Selector{}.Cols(filters...)
}

// ColsNamed starts a Selector which selects the columns whose name is among
// the given names, preserving the schema's native column order. Names with no
// matching column are skipped silently.
func ColsNamed(names ...string) Selector {
	return Selector{}.ColsNamed(names...)
}

// ColsOf starts a Selector which selects the columns whose declared type
// matches the given ColumnType, optionally narrowed by filters.
func ColsOf(colType tabula.ColumnType, filters ...func(tabula.ColumnNode) bool) Selector {
	return Selector{}.ColsOf(colType, filters...)
}

// ColsAt starts a Selector which selects the columns at the given positions,
// in argument order, allowing repeats.
func ColsAt(indices ...int) Selector {
	return Selector{}.ColsAt(indices...)
}

// ColsRange starts a Selector which selects the contiguous inclusive slice of
// columns [first, last].
func ColsRange(first int, last int) Selector {
	return Selector{}.ColsRange(first, last)
}

// Col starts a Selector which selects exactly one column by name, failing
// with ColumnNotFound when no such column exists.
func Col(name string) Selector {
	return Selector{}.Col(name)
}

// Cols chains a predicate selection onto this Selector
func (s Selector) Cols(filters ...func(tabula.ColumnNode) bool) Selector {
	return s.with(predicateStep{filters: filters})
}

// ColsNamed chains a name-set selection onto this Selector
func (s Selector) ColsNamed(names ...string) Selector {
	return s.with(nameStep{names: slices.Clone(names)})
}

// ColsOf chains a type selection onto this Selector
func (s Selector) ColsOf(colType tabula.ColumnType, filters ...func(tabula.ColumnNode) bool) Selector {
	return s.with(typeStep{colType: colType, filters: filters})
}

// ColsAt chains an index-set selection onto this Selector
func (s Selector) ColsAt(indices ...int) Selector {
	return s.with(indexStep{indices: slices.Clone(indices)})
}

// ColsRange chains an index-range selection onto this Selector
func (s Selector) ColsRange(first int, last int) Selector {
	return s.with(rangeStep{first: first, last: last})
}

// Col chains a singular by-name selection onto this Selector
func (s Selector) Col(name string) Selector {
	return s.with(singularStep{name: name})
}

// RecOption adjusts the behavior of Recursively
type RecOption func(*recursiveStep)

// ExcludeGroups makes a recursive descent match only leaf columns; groups are
// still traversed, but are not themselves eligible matches
func ExcludeGroups() RecOption {
	return func(r *recursiveStep) {
		r.includeGroups = false
	}
}

// Recursively reinterprets the preceding step's matches as seeds and descends
// into every column group in scope, re-applying the same match criterion at
// every depth. Traversal is pre-order in native sibling order. includeTopLevel
// controls whether matches found before descending are included; groups are
// eligible matches unless ExcludeGroups is given. Applying Recursively twice
// in a row has no additional effect beyond the first application.
func (s Selector) Recursively(includeTopLevel bool, opts ...RecOption) Selector {
	steps := slices.Clone(s.steps)
	var inner selecting = predicateStep{}
	if n := len(steps); n > 0 {
		if _, ok := steps[n-1].(recursiveStep); ok {
			return Selector{steps: steps}
		}
		if sel, ok := steps[n-1].(selecting); ok {
			inner = sel
			steps = steps[:n-1]
		}
	}
	rec := recursiveStep{inner: inner, includeTop: includeTopLevel, includeGroups: true}
	for _, o := range opts {
		o(&rec)
	}
	return Selector{steps: append(steps, rec)}
}

// Rec is shorthand for Recursively(true)
func (s Selector) Rec() Selector {
	return s.Recursively(true)
}

func (s Selector) with(st step) Selector {
	steps := make([]step, 0, len(s.steps)+1)
	steps = append(steps, s.steps...)
	steps = append(steps, st)
	return Selector{steps: steps}
}

// Resolve binds this Selector to a concrete column tree, applying its steps
// left to right over ordered candidate sequences. The root must be a column
// group. An empty root, or a criterion matching nothing, resolves to an empty
// sequence rather than an error; repeated selections of the same column are
// preserved, not deduplicated.
func (s Selector) Resolve(root tabula.ColumnNode) ([]tabula.ResolvedColumn, error) {
	if root == nil {
		return nil, terrors.NotColumnGroupError{Name: "<nil>"}
	}
	if !root.IsGroup() {
		return nil, terrors.NotColumnGroupError{Name: root.Name()}
	}
	steps := s.steps
	if len(steps) == 0 {
		steps = []step{predicateStep{}}
	}
	cur := []tabula.ResolvedColumn{{Node: root, Path: root.Path(), Depth: len(root.Path())}}
	for _, st := range steps {
		next, err := st.apply(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
