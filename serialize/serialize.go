// Package serialize writes DataFrame snapshots to a stream and reads them
// back: the column tree and rows are encoded with msgpack and wrapped in an
// lz4 stream. Nil cells and missing-row markers round-trip losslessly.
package serialize

import (
	"fmt"
	"io"
	"time"

	"github.com/pierrec/lz4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/go-tabula/tabula"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

// Cell tags distinguishing missing rows, nil cells and real values
const (
	cellMissing = uint8(iota)
	cellNil
	cellValue
)

type columnSnapshot struct {
	Name     string           `msgpack:"n"`
	Kind     string           `msgpack:"k"`
	Format   string           `msgpack:"f,omitempty"`
	Children []columnSnapshot `msgpack:"c,omitempty"`
}

type cellSnapshot struct {
	Tag   uint8       `msgpack:"t"`
	Value interface{} `msgpack:"v,omitempty"`
}

type tableSnapshot struct {
	Columns []columnSnapshot          `msgpack:"cols"`
	Rows    []map[string]cellSnapshot `msgpack:"rows"`
}

// Write serializes and compresses a DataFrame snapshot to a write stream
func Write(w io.Writer, df tabula.DataFrame) error {
	snap, err := snapshot(df)
	if err != nil {
		return err
	}
	compressor := lz4.NewWriter(w)
	if err := msgpack.NewEncoder(compressor).Encode(snap); err != nil {
		return err
	}
	return compressor.Close()
}

// Read decompresses and deserializes a DataFrame snapshot from a read stream.
// The rebuilt DataFrame receives a fresh identity.
func Read(r io.Reader) (tabula.DataFrame, error) {
	decompressor := lz4.NewReader(r)
	var snap tableSnapshot
	if err := msgpack.NewDecoder(decompressor).Decode(&snap); err != nil {
		return nil, err
	}
	builder := schema.CreateSchema()
	for _, c := range snap.Columns {
		if err := addColumn(builder, c); err != nil {
			return nil, err
		}
	}
	root, err := builder.Build()
	if err != nil {
		return nil, err
	}
	out, err := table.CreateBuilder(root)
	if err != nil {
		return nil, err
	}
	leaves := schema.Leaves(root)
	kinds := make(map[string]string, len(leaves))
	for _, leaf := range leaves {
		kinds[table.PathKey(leaf.Path())] = kindOf(leaf.Type())
	}
	for _, row := range snap.Rows {
		cells := make(map[string]interface{}, len(row))
		for key, cell := range row {
			v, err := decodeCell(key, kinds[key], cell)
			if err != nil {
				return nil, err
			}
			cells[key] = v
		}
		if err := out.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return out.Build()
}

func snapshot(df tabula.DataFrame) (*tableSnapshot, error) {
	snap := &tableSnapshot{}
	for _, c := range df.Root().Children() {
		col, err := snapshotColumn(c)
		if err != nil {
			return nil, err
		}
		snap.Columns = append(snap.Columns, col)
	}
	leaves := schema.Leaves(df.Root())
	err := df.ForEachRow(func(i int, r tabula.Row) error {
		row := make(map[string]cellSnapshot, len(leaves))
		for _, leaf := range leaves {
			v, err := r.Get(leaf.Path()...)
			if err != nil {
				return err
			}
			row[table.PathKey(leaf.Path())] = encodeCell(v)
		}
		snap.Rows = append(snap.Rows, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func snapshotColumn(c tabula.ColumnNode) (columnSnapshot, error) {
	snap := columnSnapshot{Name: c.Name(), Kind: kindOf(c.Type())}
	if snap.Kind == "" {
		return snap, fmt.Errorf("serialization does not support column type %T", c.Type())
	}
	if t, ok := c.Type().(*tabula.TimeColumnType); ok {
		snap.Format = t.Format
	}
	for _, child := range c.Children() {
		cs, err := snapshotColumn(child)
		if err != nil {
			return snap, err
		}
		snap.Children = append(snap.Children, cs)
	}
	return snap, nil
}

func kindOf(ct tabula.ColumnType) string {
	switch ct.(type) {
	case *tabula.GroupColumnType:
		return "group"
	case *tabula.BoolColumnType:
		return "bool"
	case *tabula.Int64ColumnType:
		return "int64"
	case *tabula.Float64ColumnType:
		return "float64"
	case *tabula.StringColumnType:
		return "string"
	case *tabula.TimeColumnType:
		return "time"
	case *tabula.AnyColumnType:
		return "any"
	default:
		return ""
	}
}

func addColumn(b *schema.Builder, snap columnSnapshot) error {
	if snap.Kind == "group" {
		var childErr error
		b.AddGroup(snap.Name, func(g *schema.Builder) {
			for _, c := range snap.Children {
				if err := addColumn(g, c); err != nil && childErr == nil {
					childErr = err
				}
			}
		})
		return childErr
	}
	var colType tabula.ColumnType
	switch snap.Kind {
	case "bool":
		colType = &tabula.BoolColumnType{}
	case "int64":
		colType = &tabula.Int64ColumnType{}
	case "float64":
		colType = &tabula.Float64ColumnType{}
	case "string":
		colType = &tabula.StringColumnType{}
	case "time":
		colType = &tabula.TimeColumnType{Format: snap.Format}
	case "any":
		colType = &tabula.AnyColumnType{}
	default:
		return fmt.Errorf("unknown column kind %q for column %s", snap.Kind, snap.Name)
	}
	b.AddColumn(snap.Name, colType)
	return nil
}

func encodeCell(v interface{}) cellSnapshot {
	switch val := v.(type) {
	case tabula.MissingValue:
		return cellSnapshot{Tag: cellMissing}
	case nil:
		return cellSnapshot{Tag: cellNil}
	case time.Time:
		return cellSnapshot{Tag: cellValue, Value: val.UnixNano()}
	default:
		return cellSnapshot{Tag: cellValue, Value: val}
	}
}

func decodeCell(key string, kind string, cell cellSnapshot) (interface{}, error) {
	switch cell.Tag {
	case cellMissing:
		return tabula.Missing, nil
	case cellNil:
		return nil, nil
	}
	switch kind {
	case "bool":
		if b, ok := cell.Value.(bool); ok {
			return b, nil
		}
	case "int64":
		if n, ok := asInt64(cell.Value); ok {
			return n, nil
		}
	case "float64":
		switch n := cell.Value.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		}
		if n, ok := asInt64(cell.Value); ok {
			return float64(n), nil
		}
	case "string":
		if s, ok := cell.Value.(string); ok {
			return s, nil
		}
	case "time":
		if n, ok := asInt64(cell.Value); ok {
			return time.Unix(0, n).UTC(), nil
		}
	case "any":
		return cell.Value, nil
	}
	return nil, fmt.Errorf("cell %s does not match column kind %s. Was: %#v", key, kind, cell.Value)
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int16:
		return int64(n), true
	case int8:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint8:
		return int64(n), true
	}
	return 0, false
}
