package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
	"github.com/go-tabula/tabula/resolve"
	"github.com/go-tabula/tabula/schema"
)

func testFrame(t *testing.T) tabula.DataFrame {
	root, err := schema.CreateSchema().
		AddColumn("id", &tabula.Int64ColumnType{}).
		AddGroup("user", func(g *schema.Builder) {
			g.AddColumn("name", &tabula.StringColumnType{})
			g.AddColumn("signup", &tabula.TimeColumnType{Format: "2006-01-02"})
		}).
		Build()
	require.Nil(t, err)
	builder, err := CreateBuilder(root)
	require.Nil(t, err)
	require.Nil(t, builder.AppendRow(map[string]interface{}{
		"id":          int64(1),
		"user.name":   "ada",
		"user.signup": time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
	}))
	require.Nil(t, builder.AppendRow(map[string]interface{}{
		"id":        int64(2),
		"user.name": nil,
	}))
	df, err := builder.Build()
	require.Nil(t, err)
	return df
}

func TestRowTypedGetters(t *testing.T) {
	df := testFrame(t)
	r := df.Row(0)

	id, err := r.GetInt64("id")
	require.Nil(t, err)
	require.Equal(t, int64(1), id)

	name, err := r.GetString("user", "name")
	require.Nil(t, err)
	require.Equal(t, "ada", name)

	signup, err := r.GetTime("user", "signup")
	require.Nil(t, err)
	require.Equal(t, int64(time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC).UnixNano()), signup.UnixNano())

	_, err = r.GetString("id")
	require.IsType(t, terrors.IncompatibleTypeError{}, err)

	_, err = r.GetInt64("nope")
	require.IsType(t, terrors.ColumnNotFoundError{}, err)
}

func TestNilCellVersusMissingMarker(t *testing.T) {
	df := testFrame(t)
	r := df.Row(1)

	require.True(t, r.IsNil("user", "name"))
	require.False(t, r.IsMissing("user", "name"))
	_, err := r.GetString("user", "name")
	require.IsType(t, terrors.NilValueError{}, err)

	// absent keys load as nil cells
	require.True(t, r.IsNil("user", "signup"))

	root, err := schema.CreateSchema().AddColumn("v", &tabula.Int64ColumnType{}).Build()
	require.Nil(t, err)
	builder, err := CreateBuilder(root)
	require.Nil(t, err)
	require.Nil(t, builder.AppendRow(map[string]interface{}{"v": tabula.Missing}))
	joined, err := builder.Build()
	require.Nil(t, err)

	jr := joined.Row(0)
	require.True(t, jr.IsMissing("v"))
	require.False(t, jr.IsNil("v"))
	_, err = jr.GetInt64("v")
	require.IsType(t, terrors.MissingValueError{}, err)
}

func TestBuilderValidatesCells(t *testing.T) {
	root, err := schema.CreateSchema().AddColumn("n", &tabula.Int64ColumnType{}).Build()
	require.Nil(t, err)
	builder, err := CreateBuilder(root)
	require.Nil(t, err)

	err = builder.AppendRow(map[string]interface{}{"n": "not a number"})
	require.IsType(t, terrors.IncompatibleTypeError{}, err)

	err = builder.AppendRow(map[string]interface{}{"unknown": int64(1)})
	require.IsType(t, terrors.ColumnNotFoundError{}, err)

	// plain ints are widened to the column's storage type
	require.Nil(t, builder.AppendRow(map[string]interface{}{"n": 7}))
	df, err := builder.Build()
	require.Nil(t, err)
	n, err := df.Row(0).GetInt64("n")
	require.Nil(t, err)
	require.Equal(t, int64(7), n)
}

func TestBuilderRequiresGroupRoot(t *testing.T) {
	root, err := schema.CreateSchema().AddColumn("n", &tabula.Int64ColumnType{}).Build()
	require.Nil(t, err)
	leaf, err := root.Child("n")
	require.Nil(t, err)
	_, err = CreateBuilder(leaf)
	require.IsType(t, terrors.NotColumnGroupError{}, err)
}

func TestSnapshotIdentity(t *testing.T) {
	a := testFrame(t)
	b := testFrame(t)
	require.NotEmpty(t, a.ID())
	require.NotEqual(t, a.ID(), b.ID())
}

func TestRowToString(t *testing.T) {
	df := testFrame(t)
	s := df.Row(1).ToString()
	require.Contains(t, s, "id: 2")
	require.Contains(t, s, "user.name: nil")
}

func TestFingerprint(t *testing.T) {
	df := testFrame(t)
	cols, err := df.Resolve(resolve.Cols().Recursively(true, resolve.ExcludeGroups()))
	require.Nil(t, err)

	fp0, err := Fingerprint(df.Row(0), cols)
	require.Nil(t, err)
	fp0again, err := Fingerprint(df.Row(0), cols)
	require.Nil(t, err)
	require.Equal(t, fp0, fp0again)

	fp1, err := Fingerprint(df.Row(1), cols)
	require.Nil(t, err)
	require.NotEqual(t, fp0, fp1)
}

func TestFingerprintDistinguishesNilFromMissing(t *testing.T) {
	root, err := schema.CreateSchema().AddColumn("v", &tabula.Int64ColumnType{}).Build()
	require.Nil(t, err)
	builder, err := CreateBuilder(root)
	require.Nil(t, err)
	require.Nil(t, builder.AppendRow(map[string]interface{}{"v": nil}))
	require.Nil(t, builder.AppendRow(map[string]interface{}{"v": tabula.Missing}))
	df, err := builder.Build()
	require.Nil(t, err)

	cols, err := df.Resolve(resolve.Cols())
	require.Nil(t, err)
	fpNil, err := Fingerprint(df.Row(0), cols)
	require.Nil(t, err)
	fpMissing, err := Fingerprint(df.Row(1), cols)
	require.Nil(t, err)
	require.NotEqual(t, fpNil, fpMissing)
}

func TestFingerprintExpandsGroups(t *testing.T) {
	df := testFrame(t)
	groupCols, err := df.Resolve(resolve.ColsNamed("user"))
	require.Nil(t, err)
	leafCols, err := df.Resolve(resolve.Col("user").Cols())
	require.Nil(t, err)

	fpGroup, err := Fingerprint(df.Row(0), groupCols)
	require.Nil(t, err)
	fpLeaves, err := Fingerprint(df.Row(0), leafCols)
	require.Nil(t, err)
	require.Equal(t, fpGroup, fpLeaves)
}
