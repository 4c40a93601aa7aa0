package transform

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
	"github.com/go-tabula/tabula/resolve"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

func testFrame(t *testing.T) tabula.DataFrame {
	root, err := schema.CreateSchema().
		AddColumn("id", &tabula.Int64ColumnType{}).
		AddGroup("user", func(g *schema.Builder) {
			g.AddColumn("name", &tabula.StringColumnType{})
			g.AddColumn("city", &tabula.StringColumnType{})
		}).
		AddColumn("score", &tabula.Int64ColumnType{}).
		Build()
	require.Nil(t, err)
	builder, err := table.CreateBuilder(root)
	require.Nil(t, err)
	rows := []map[string]interface{}{
		{"id": int64(1), "user.name": "ada", "user.city": "london", "score": int64(10)},
		{"id": int64(2), "user.name": "bob", "user.city": "paris", "score": int64(10)},
		{"id": int64(3), "user.name": "ada", "user.city": "london", "score": int64(10)},
	}
	for _, r := range rows {
		require.Nil(t, builder.AppendRow(r))
	}
	df, err := builder.Build()
	require.Nil(t, err)
	return df
}

func leafKeys(df tabula.DataFrame) []string {
	var keys []string
	for _, leaf := range schema.Leaves(df.Root()) {
		keys = append(keys, strings.Join(leaf.Path(), "."))
	}
	return keys
}

func TestSelectPromotesResolvedColumns(t *testing.T) {
	df := testFrame(t)
	out, err := Select(df, resolve.Col("user").Col("name"))
	require.Nil(t, err)
	require.Equal(t, []string{"name"}, leafKeys(out))
	require.Equal(t, 3, out.NumRows())
	name, err := out.Row(0).GetString("name")
	require.Nil(t, err)
	require.Equal(t, "ada", name)
}

func TestSelectKeepsGroupSubtrees(t *testing.T) {
	df := testFrame(t)
	out, err := Select(df, resolve.ColsNamed("user", "id"))
	require.Nil(t, err)
	require.Equal(t, []string{"id", "user.name", "user.city"}, leafKeys(out))
	city, err := out.Row(1).GetString("user", "city")
	require.Nil(t, err)
	require.Equal(t, "paris", city)
}

func TestSelectOverlappingResolutionsShareSourceCells(t *testing.T) {
	df := testFrame(t)
	// resolves both the user group and its own leaves, so one source cell
	// must feed the nested copy and the promoted copy
	out, err := Select(df, resolve.Cols().Rec())
	require.Nil(t, err)
	require.Equal(t, []string{"id", "user.name", "user.city", "name", "city", "score"}, leafKeys(out))

	nested, err := out.Row(0).GetString("user", "name")
	require.Nil(t, err)
	require.Equal(t, "ada", nested)
	promoted, err := out.Row(0).GetString("name")
	require.Nil(t, err)
	require.Equal(t, "ada", promoted)
	require.False(t, out.Row(0).IsNil("user", "name"))

	city, err := out.Row(1).GetString("user", "city")
	require.Nil(t, err)
	require.Equal(t, "paris", city)
}

func TestSelectRejectsDuplicateNames(t *testing.T) {
	df := testFrame(t)
	_, err := Select(df, resolve.ColsAt(0, 0))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "ambiguous")
}

func TestRemovePrunesEmptiedGroups(t *testing.T) {
	df := testFrame(t)
	out, err := Remove(df, resolve.Col("user").Cols())
	require.Nil(t, err)
	require.Equal(t, []string{"id", "score"}, leafKeys(out))
	_, err = out.Root().Child("user")
	require.IsType(t, terrors.ColumnNotFoundError{}, err)
}

func TestRemoveEverythingYieldsEmptyFrame(t *testing.T) {
	df := testFrame(t)
	out, err := Remove(df, resolve.Cols())
	require.Nil(t, err)
	require.Empty(t, out.Root().Children())
	require.Equal(t, 3, out.NumRows())
}

func TestRenameFollowsGroupPaths(t *testing.T) {
	df := testFrame(t)
	out, err := Rename(df, resolve.ColsNamed("user"), func(old string) string { return "person" })
	require.Nil(t, err)
	require.Equal(t, []string{"id", "person.name", "person.city", "score"}, leafKeys(out))
	name, err := out.Row(0).GetString("person", "name")
	require.Nil(t, err)
	require.Equal(t, "ada", name)
}

func TestRenameRevalidatesSiblingUniqueness(t *testing.T) {
	df := testFrame(t)
	_, err := Rename(df, resolve.ColsNamed("id"), func(old string) string { return "score" })
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "duplicate column name score")
}

func TestConvertRetypesCells(t *testing.T) {
	df := testFrame(t)
	out, err := Convert(df, resolve.ColsNamed("score"), &tabula.StringColumnType{}, func(v interface{}) (interface{}, error) {
		return fmt.Sprintf("%d points", v.(int64)), nil
	})
	require.Nil(t, err)
	score, err := out.Row(0).GetString("score")
	require.Nil(t, err)
	require.Equal(t, "10 points", score)

	col, err := out.Root().Child("score")
	require.Nil(t, err)
	require.True(t, tabula.SameColumnType(col.Type(), &tabula.StringColumnType{}))
}

func TestConvertRejectsGroups(t *testing.T) {
	df := testFrame(t)
	_, err := Convert(df, resolve.ColsNamed("user"), &tabula.StringColumnType{}, nil)
	require.IsType(t, terrors.NotLeafColumnError{}, err)
}

func TestConvertErrorAborts(t *testing.T) {
	df := testFrame(t)
	boom := fmt.Errorf("conversion failed")
	_, err := Convert(df, resolve.ColsNamed("score"), &tabula.StringColumnType{}, func(v interface{}) (interface{}, error) {
		return nil, boom
	})
	require.Equal(t, boom, err)
}

func TestDistinctKeepsFirstOccurrence(t *testing.T) {
	df := testFrame(t)
	out, err := Distinct(df, resolve.Col("user").Cols())
	require.Nil(t, err)
	require.Equal(t, 2, out.NumRows())
	id, err := out.Row(0).GetInt64("id")
	require.Nil(t, err)
	require.Equal(t, int64(1), id)
	id, err = out.Row(1).GetInt64("id")
	require.Nil(t, err)
	require.Equal(t, int64(2), id)
}

func TestDistinctOnConstantColumnKeepsOneRow(t *testing.T) {
	df := testFrame(t)
	out, err := Distinct(df, resolve.ColsNamed("score"))
	require.Nil(t, err)
	require.Equal(t, 1, out.NumRows())
}
