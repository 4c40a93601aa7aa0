package serialize

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/go-tabula/tabula"
	terrors "github.com/go-tabula/tabula/errors"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

func testFrame(t *testing.T) tabula.DataFrame {
	root, err := schema.CreateSchema().
		AddColumn("id", &tabula.Int64ColumnType{}).
		AddGroup("meta", func(g *schema.Builder) {
			g.AddColumn("name", &tabula.StringColumnType{})
			g.AddColumn("active", &tabula.BoolColumnType{})
			g.AddColumn("seen", &tabula.TimeColumnType{Format: "2006-01-02"})
		}).
		AddColumn("weight", &tabula.Float64ColumnType{}).
		Build()
	require.Nil(t, err)
	builder, err := table.CreateBuilder(root)
	require.Nil(t, err)
	require.Nil(t, builder.AppendRow(map[string]interface{}{
		"id":          int64(1),
		"meta.name":   "ada",
		"meta.active": true,
		"meta.seen":   time.Date(2023, 4, 2, 12, 30, 0, 0, time.UTC),
		"weight":      3.25,
	}))
	require.Nil(t, builder.AppendRow(map[string]interface{}{
		"id":          int64(2),
		"meta.name":   nil,
		"meta.active": tabula.Missing,
	}))
	df, err := builder.Build()
	require.Nil(t, err)
	return df
}

func TestRoundTrip(t *testing.T) {
	df := testFrame(t)
	var buf bytes.Buffer
	require.Nil(t, Write(&buf, df))

	out, err := Read(&buf)
	require.Nil(t, err)
	require.Equal(t, df.NumRows(), out.NumRows())

	id, err := out.Row(0).GetInt64("id")
	require.Nil(t, err)
	require.Equal(t, int64(1), id)
	name, err := out.Row(0).GetString("meta", "name")
	require.Nil(t, err)
	require.Equal(t, "ada", name)
	active, err := out.Row(0).GetBool("meta", "active")
	require.Nil(t, err)
	require.True(t, active)
	weight, err := out.Row(0).GetFloat64("weight")
	require.Nil(t, err)
	require.Equal(t, 3.25, weight)

	seen, err := out.Row(0).GetTime("meta", "seen")
	require.Nil(t, err)
	require.Equal(t, time.Date(2023, 4, 2, 12, 30, 0, 0, time.UTC).UnixNano(), seen.UnixNano())
}

func TestRoundTripPreservesColumnTree(t *testing.T) {
	df := testFrame(t)
	var buf bytes.Buffer
	require.Nil(t, Write(&buf, df))

	out, err := Read(&buf)
	require.Nil(t, err)
	meta, err := out.Root().Child("meta")
	require.Nil(t, err)
	require.True(t, meta.IsGroup())
	seen, err := meta.Child("seen")
	require.Nil(t, err)
	ct, ok := seen.Type().(*tabula.TimeColumnType)
	require.True(t, ok)
	require.Equal(t, "2006-01-02", ct.Format)
}

func TestRoundTripDistinguishesNilFromMissing(t *testing.T) {
	df := testFrame(t)
	var buf bytes.Buffer
	require.Nil(t, Write(&buf, df))

	out, err := Read(&buf)
	require.Nil(t, err)
	r := out.Row(1)
	require.True(t, r.IsNil("meta", "name"))
	require.False(t, r.IsMissing("meta", "name"))
	require.True(t, r.IsMissing("meta", "active"))
	require.False(t, r.IsNil("meta", "active"))

	// cells never written load back as nil
	require.True(t, r.IsNil("meta", "seen"))
	require.True(t, r.IsNil("weight"))
}

func TestReadAssignsFreshIdentity(t *testing.T) {
	df := testFrame(t)
	var buf bytes.Buffer
	require.Nil(t, Write(&buf, df))

	out, err := Read(&buf)
	require.Nil(t, err)
	require.NotEmpty(t, out.ID())
	require.NotEqual(t, df.ID(), out.ID())
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not an lz4 stream")))
	require.NotNil(t, err)
	require.NotPanics(t, func() {
		Read(bytes.NewReader(nil))
	})
}

func TestRoundTripEmptyFrame(t *testing.T) {
	root, err := schema.CreateSchema().
		AddColumn("v", &tabula.Int64ColumnType{}).
		Build()
	require.Nil(t, err)
	builder, err := table.CreateBuilder(root)
	require.Nil(t, err)
	df, err := builder.Build()
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, Write(&buf, df))
	out, err := Read(&buf)
	require.Nil(t, err)
	require.Equal(t, 0, out.NumRows())
	_, err = out.Root().Child("v")
	require.Nil(t, err)
	_, err = out.Root().Child("w")
	require.IsType(t, terrors.ColumnNotFoundError{}, err)
}
