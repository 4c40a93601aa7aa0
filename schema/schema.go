package schema

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"

	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
)

// node is the concrete ColumnNode produced by this package. Nodes are
// immutable once built; rebasing under a new root copies them.
type node struct {
	name     string
	path     []string
	colType  tabula.ColumnType
	children []tabula.ColumnNode
}

// Name returns the name of this column
func (n *node) Name() string {
	return n.name
}

// Path returns the full nesting path of this column from the root of its tree
func (n *node) Path() []string {
	return slices.Clone(n.path)
}

// Type returns the ColumnType of this column
func (n *node) Type() tabula.ColumnType {
	return n.colType
}

// IsGroup returns true iff this column is a group containing child columns
func (n *node) IsGroup() bool {
	return isGroupType(n.colType)
}

// Children returns the ordered child columns of a group
func (n *node) Children() []tabula.ColumnNode {
	return slices.Clone(n.children)
}

// Child returns the direct child with the given name
func (n *node) Child(name string) (tabula.ColumnNode, error) {
	for _, c := range n.children {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, terrors.ColumnNotFoundError{Name: name}
}

func isGroupType(ct tabula.ColumnType) bool {
	_, ok := ct.(*tabula.GroupColumnType)
	return ok
}

// Builder accumulates a column tree definition. Builders are cheap
// declarative values; all validation happens in Build.
type Builder struct {
	name     string
	colType  tabula.ColumnType
	children []*Builder
	group    bool
}

// CreateSchema is a factory for schema Builders, starting from an empty root group
func CreateSchema() *Builder {
	return &Builder{group: true, colType: &tabula.GroupColumnType{}}
}

// AddColumn appends a leaf column with the given name and type to this level of the schema
func (b *Builder) AddColumn(name string, colType tabula.ColumnType) *Builder {
	b.children = append(b.children, &Builder{name: name, colType: colType})
	return b
}

// AddGroup appends a column group with the given name, populated by the given
// function, to this level of the schema
func (b *Builder) AddGroup(name string, build func(g *Builder)) *Builder {
	g := &Builder{name: name, group: true, colType: &tabula.GroupColumnType{}}
	if build != nil {
		build(g)
	}
	b.children = append(b.children, g)
	return b
}

// Build validates the accumulated definition and produces an immutable column
// tree. Validation failures for independent columns are aggregated.
func (b *Builder) Build() (tabula.ColumnNode, error) {
	var errs *multierror.Error
	root := b.build(nil, true, &errs)
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return root, nil
}

func (b *Builder) build(prefix []string, isRoot bool, errs **multierror.Error) *node {
	path := prefix
	if !isRoot {
		path = append(slices.Clone(prefix), b.name)
	}
	n := &node{name: b.name, path: path, colType: b.colType}
	if b.group {
		if !isRoot && len(b.children) == 0 {
			*errs = multierror.Append(*errs, fmt.Errorf("column group %s has no children", b.name))
		}
		seen := make(map[string]bool, len(b.children))
		for _, c := range b.children {
			if c.name == "" {
				*errs = multierror.Append(*errs, fmt.Errorf("column at path %v has an empty name", path))
				continue
			}
			if seen[c.name] {
				*errs = multierror.Append(*errs, fmt.Errorf("duplicate column name %s at path %v", c.name, path))
				continue
			}
			seen[c.name] = true
			n.children = append(n.children, c.build(path, false, errs))
		}
	} else if b.colType == nil {
		*errs = multierror.Append(*errs, fmt.Errorf("column %s has no type", b.name))
	}
	return n
}

// NewRoot assembles a synthetic root group from existing subtrees, copying
// them and recomputing their paths. Sibling name uniqueness is revalidated.
func NewRoot(children ...tabula.ColumnNode) (tabula.ColumnNode, error) {
	var errs *multierror.Error
	root := &node{colType: &tabula.GroupColumnType{}}
	seen := make(map[string]bool, len(children))
	for _, c := range children {
		if seen[c.Name()] {
			errs = multierror.Append(errs, terrors.AmbiguousColumnError{Name: c.Name(), Count: 2})
			continue
		}
		seen[c.Name()] = true
		root.children = append(root.children, rebase(c, nil))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return root, nil
}

// NewGroup wraps existing subtrees in a named column group, copying them and
// recomputing their paths relative to the new group
func NewGroup(name string, children ...tabula.ColumnNode) tabula.ColumnNode {
	g := &node{name: name, path: []string{name}, colType: &tabula.GroupColumnType{}}
	for _, c := range children {
		g.children = append(g.children, rebase(c, g.path))
	}
	return g
}

// rebase deep-copies a column subtree, recomputing paths under the given prefix
func rebase(c tabula.ColumnNode, prefix []string) *node {
	path := append(slices.Clone(prefix), c.Name())
	n := &node{name: c.Name(), path: path, colType: c.Type()}
	for _, child := range c.Children() {
		n.children = append(n.children, rebase(child, path))
	}
	return n
}

// Leaves returns the leaf columns of a tree in pre-order, using an explicit
// stack to bound stack usage for deeply nested schemas
func Leaves(root tabula.ColumnNode) []tabula.ColumnNode {
	var out []tabula.ColumnNode
	stack := []tabula.ColumnNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !n.IsGroup() {
			out = append(out, n)
			continue
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return out
}
