package resolve

import (
	"golang.org/x/exp/slices"

	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
)

// step is one stage of a Selector pipeline. Steps form a closed set of
// variants (predicate, name set, type, index set, index range, singular,
// recursive) applied in order by the resolution engine.
type step interface {
	apply(in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error)
}

// selecting is a step whose match criterion can be re-applied level by level
// during recursive descent
type selecting interface {
	step
	selectFrom(candidates []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error)
}

// scope prepares a stage's working set. A stage holding a single column handle
// descends into its children (failing if the handle is not a group); a stage
// holding several candidates is consumed as-is.
func scope(in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	if len(in) == 1 {
		c := in[0]
		if !c.Node.IsGroup() {
			return nil, terrors.NotColumnGroupError{Name: c.Node.Name()}
		}
		return childrenOf(c), nil
	}
	return in, nil
}

// childrenOf expands a resolved group column into its direct children,
// extending the accumulated resolution path
func childrenOf(parent tabula.ResolvedColumn) []tabula.ResolvedColumn {
	children := parent.Node.Children()
	out := make([]tabula.ResolvedColumn, 0, len(children))
	for _, c := range children {
		path := append(slices.Clone(parent.Path), c.Name())
		out = append(out, tabula.ResolvedColumn{Node: c, Path: path, Depth: parent.Depth + 1})
	}
	return out
}

// applySelect runs a selecting step against a stage. An empty working set
// selects nothing, never an error.
func applySelect(s selecting, in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	scoped, err := scope(in)
	if err != nil {
		return nil, err
	}
	if len(scoped) == 0 {
		return nil, nil
	}
	return s.selectFrom(scoped)
}

// predicateStep selects candidates matching every filter. With no filters it
// selects everything, which must be exactly equivalent to the unfiltered
// all-children selection.
type predicateStep struct {
	filters []func(tabula.ColumnNode) bool
}

func (s predicateStep) matches(c tabula.ColumnNode) bool {
	for _, f := range s.filters {
		if !f(c) {
			return false
		}
	}
	return true
}

func (s predicateStep) apply(in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	return applySelect(s, in)
}

func (s predicateStep) selectFrom(candidates []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	out := make([]tabula.ResolvedColumn, 0, len(candidates))
	for _, c := range candidates {
		if s.matches(c.Node) {
			out = append(out, c)
		}
	}
	return out, nil
}

// nameStep selects candidates whose name is in the given set, preserving the
// candidates' native order rather than argument order. Unknown names yield an
// empty match for that name, never an error.
type nameStep struct {
	names []string
}

func (s nameStep) apply(in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	return applySelect(s, in)
}

func (s nameStep) selectFrom(candidates []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	out := make([]tabula.ResolvedColumn, 0, len(s.names))
	for _, c := range candidates {
		if slices.Contains(s.names, c.Node.Name()) {
			out = append(out, c)
		}
	}
	return out, nil
}

// typeStep selects candidates whose declared ColumnType matches the given
// descriptor, optionally narrowed further by predicates
type typeStep struct {
	colType tabula.ColumnType
	filters []func(tabula.ColumnNode) bool
}

func (s typeStep) matches(c tabula.ColumnNode) bool {
	if !tabula.SameColumnType(c.Type(), s.colType) {
		return false
	}
	for _, f := range s.filters {
		if !f(c) {
			return false
		}
	}
	return true
}

func (s typeStep) apply(in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	return applySelect(s, in)
}

func (s typeStep) selectFrom(candidates []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	out := make([]tabula.ResolvedColumn, 0, len(candidates))
	for _, c := range candidates {
		if s.matches(c.Node) {
			out = append(out, c)
		}
	}
	return out, nil
}

// indexStep selects candidates at explicit positions, in argument order,
// allowing repeats
type indexStep struct {
	indices []int
}

func (s indexStep) apply(in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	return applySelect(s, in)
}

func (s indexStep) selectFrom(candidates []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	out := make([]tabula.ResolvedColumn, 0, len(s.indices))
	for _, idx := range s.indices {
		if idx < 0 || idx >= len(candidates) {
			return nil, terrors.IndexOutOfBoundsError{Index: idx, Size: len(candidates)}
		}
		out = append(out, candidates[idx])
	}
	return out, nil
}

// rangeStep selects the contiguous inclusive slice [first, last]
type rangeStep struct {
	first int
	last  int
}

func (s rangeStep) apply(in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	return applySelect(s, in)
}

func (s rangeStep) selectFrom(candidates []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	if s.last < s.first {
		return nil, terrors.InvalidRangeError{First: s.first, Last: s.last}
	}
	if s.first < 0 {
		return nil, terrors.IndexOutOfBoundsError{Index: s.first, Size: len(candidates)}
	}
	if s.last >= len(candidates) {
		return nil, terrors.IndexOutOfBoundsError{Index: s.last, Size: len(candidates)}
	}
	out := make([]tabula.ResolvedColumn, 0, s.last-s.first+1)
	out = append(out, candidates[s.first:s.last+1]...)
	return out, nil
}

// singularStep selects exactly one candidate by name. Zero matches fail with
// ColumnNotFound, several matches with AmbiguousColumn.
type singularStep struct {
	name string
}

func (s singularStep) apply(in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	matched, err := applySelect(s, in)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, terrors.ColumnNotFoundError{Name: s.name}
	}
	if len(matched) > 1 {
		return nil, terrors.AmbiguousColumnError{Name: s.name, Count: len(matched)}
	}
	return matched, nil
}

func (s singularStep) selectFrom(candidates []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	out := make([]tabula.ResolvedColumn, 0, 1)
	for _, c := range candidates {
		if c.Node.Name() == s.name {
			out = append(out, c)
		}
	}
	return out, nil
}

// recursiveStep wraps the immediately preceding step, re-applying its match
// criterion at every depth of the column tree. Traversal is pre-order, in
// native sibling order, implemented with an explicit stack to bound call-stack
// usage for deeply nested schemas.
type recursiveStep struct {
	inner         selecting
	includeTop    bool
	includeGroups bool
}

type recFrame struct {
	col     tabula.ResolvedColumn
	matched bool
	top     bool
}

func (s recursiveStep) apply(in []tabula.ResolvedColumn) ([]tabula.ResolvedColumn, error) {
	scoped, err := scope(in)
	if err != nil {
		return nil, err
	}
	var out []tabula.ResolvedColumn
	stack := make([]recFrame, 0, len(scoped))
	if err := s.pushLevel(&stack, scoped, true); err != nil {
		return nil, err
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.matched && (s.includeTop || !f.top) && (s.includeGroups || !f.col.Node.IsGroup()) {
			out = append(out, f.col)
		}
		if f.col.Node.IsGroup() {
			if err := s.pushLevel(&stack, childrenOf(f.col), false); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// pushLevel applies the wrapped criterion to one level of siblings and pushes
// them in reverse so the stack pops in native order
func (s recursiveStep) pushLevel(stack *[]recFrame, level []tabula.ResolvedColumn, top bool) error {
	if len(level) == 0 {
		return nil
	}
	matched, err := s.inner.selectFrom(level)
	if err != nil {
		return err
	}
	for i := len(level) - 1; i >= 0; i-- {
		f := recFrame{col: level[i], top: top}
		for _, m := range matched {
			if m.Node == level[i].Node {
				f.matched = true
				break
			}
		}
		*stack = append(*stack, f)
	}
	return nil
}
