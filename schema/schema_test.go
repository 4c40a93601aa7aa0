package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
)

func TestSchemaBuildBasic(t *testing.T) {
	root, err := CreateSchema().
		AddColumn("id", &tabula.Int64ColumnType{}).
		AddGroup("user", func(g *Builder) {
			g.AddColumn("name", &tabula.StringColumnType{})
			g.AddColumn("email", &tabula.StringColumnType{})
		}).
		Build()
	require.Nil(t, err)
	require.True(t, root.IsGroup())
	require.Len(t, root.Children(), 2)

	id := root.Children()[0]
	require.Equal(t, "id", id.Name())
	require.False(t, id.IsGroup())
	require.Equal(t, []string{"id"}, id.Path())

	user, err := root.Child("user")
	require.Nil(t, err)
	require.True(t, user.IsGroup())
	name, err := user.Child("name")
	require.Nil(t, err)
	require.Equal(t, []string{"user", "name"}, name.Path())

	_, err = user.Child("missing")
	require.IsType(t, terrors.ColumnNotFoundError{}, err)
}

func TestSchemaBuildValidation(t *testing.T) {
	_, err := CreateSchema().
		AddColumn("id", &tabula.Int64ColumnType{}).
		AddColumn("id", &tabula.StringColumnType{}).
		AddGroup("empty", nil).
		Build()
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "duplicate column name id")
	require.Contains(t, err.Error(), "column group empty has no children")
}

func TestNewRootRebasesPaths(t *testing.T) {
	root, err := CreateSchema().
		AddGroup("info", func(g *Builder) {
			g.AddColumn("city", &tabula.StringColumnType{})
		}).
		Build()
	require.Nil(t, err)
	info := root.Children()[0]

	mounted := NewGroup("right", info)
	require.Equal(t, []string{"right"}, mounted.Path())
	movedInfo, err := mounted.Child("info")
	require.Nil(t, err)
	require.Equal(t, []string{"right", "info"}, movedInfo.Path())

	newRoot, err := NewRoot(mounted)
	require.Nil(t, err)
	leaf := Leaves(newRoot)[0]
	require.Equal(t, []string{"right", "info", "city"}, leaf.Path())

	// the source tree is untouched
	require.Equal(t, []string{"info"}, info.Path())
}

func TestNewRootRejectsDuplicates(t *testing.T) {
	root, err := CreateSchema().
		AddColumn("a", &tabula.Int64ColumnType{}).
		Build()
	require.Nil(t, err)
	a := root.Children()[0]
	_, err = NewRoot(a, a)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "ambiguous")
}

func TestLeavesPreOrder(t *testing.T) {
	root, err := CreateSchema().
		AddColumn("a", &tabula.Int64ColumnType{}).
		AddGroup("g", func(g *Builder) {
			g.AddColumn("b", &tabula.Int64ColumnType{})
			g.AddGroup("h", func(h *Builder) {
				h.AddColumn("c", &tabula.Int64ColumnType{})
			})
			g.AddColumn("d", &tabula.Int64ColumnType{})
		}).
		AddColumn("e", &tabula.Int64ColumnType{}).
		Build()
	require.Nil(t, err)
	var names []string
	for _, leaf := range Leaves(root) {
		names = append(names, leaf.Name())
	}
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
}
