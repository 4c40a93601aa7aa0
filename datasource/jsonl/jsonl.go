// Package jsonl loads DataFrames from JSON Lines data. This loader uses
// https://github.com/tidwall/gjson to process data: each leaf column's path is
// addressed in the JSON as a gjson path (path elements joined with '.').
// Values within the JSON which do not correspond to a schema column are
// ignored; schema columns absent from a line load as nil cells.
package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/tidwall/gjson"

	"github.com/go-tabula/tabula"
	"github.com/go-tabula/tabula/logging"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

// ParserConf configures a JSONL load
type ParserConf struct {
	MaxBufferSize int  // Maximum size in bytes of the buffer used to read lines. Defaults to bufio.MaxScanTokenSize.
	Lenient       bool // Skip rows which fail to parse instead of aborting. Their errors are aggregated and returned alongside the DataFrame.
	LogLevel      int  // Minimum criticality of log messages. Defaults to logging.InfoLevel.
}

func withDefaults(conf *ParserConf) *ParserConf {
	if conf == nil {
		conf = &ParserConf{}
	}
	if conf.MaxBufferSize == 0 {
		conf.MaxBufferSize = bufio.MaxScanTokenSize
	}
	if conf.LogLevel == 0 {
		conf.LogLevel = logging.InfoLevel
	}
	return conf
}

// Load reads JSON Lines data and produces a DataFrame over the given column
// tree. In strict mode (the default), the first malformed row aborts the
// load. In lenient mode the returned DataFrame contains every row which
// parsed, and the error is a *multierror.Error describing the skipped rows,
// or nil if none were skipped.
func Load(r io.Reader, root tabula.ColumnNode, conf *ParserConf) (tabula.DataFrame, error) {
	conf = withDefaults(conf)
	builder, err := table.CreateBuilder(root)
	if err != nil {
		return nil, err
	}
	leaves := schema.Leaves(root)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), conf.MaxBufferSize)
	var rowErrs *multierror.Error
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if len(text) == 0 {
			continue
		}
		cells, err := parseRow(text, leaves)
		if err != nil {
			err = fmt.Errorf("line %d: %w", line, err)
			if !conf.Lenient {
				return nil, err
			}
			if logging.ShouldLog(conf.LogLevel, logging.WarnLevel) {
				log.Printf("[%s] skipping unparseable row: %v", logging.LogLevelToString(logging.WarnLevel), err)
			}
			rowErrs = multierror.Append(rowErrs, err)
			continue
		}
		if err := builder.AppendRow(cells); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	df, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return df, rowErrs.ErrorOrNil()
}

func parseRow(text string, leaves []tabula.ColumnNode) (map[string]interface{}, error) {
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("row is not valid JSON")
	}
	parsed := gjson.Parse(text)
	cells := make(map[string]interface{}, len(leaves))
	for _, leaf := range leaves {
		jsonPath := strings.Join(leaf.Path(), ".")
		res := parsed.Get(jsonPath)
		if !res.Exists() || res.Type == gjson.Null {
			cells[table.PathKey(leaf.Path())] = nil
			continue
		}
		v, err := parseValue(res, jsonPath, leaf.Type())
		if err != nil {
			return nil, err
		}
		cells[table.PathKey(leaf.Path())] = v
	}
	return cells, nil
}

// parseValue coerces one JSON value to a column's declared type
func parseValue(res gjson.Result, colName string, colType tabula.ColumnType) (interface{}, error) {
	switch ct := colType.(type) {
	case *tabula.BoolColumnType:
		if res.Type != gjson.True && res.Type != gjson.False {
			return nil, fmt.Errorf("Column %s was not a boolean. Was: %s", colName, res.Raw)
		}
		return res.Bool(), nil
	case *tabula.Int64ColumnType:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("Column %s was not a number. Was: %s", colName, res.Raw)
		}
		return res.Int(), nil
	case *tabula.Float64ColumnType:
		if res.Type != gjson.Number {
			return nil, fmt.Errorf("Column %s was not a number. Was: %s", colName, res.Raw)
		}
		return res.Float(), nil
	case *tabula.StringColumnType:
		if res.Type != gjson.String {
			return nil, fmt.Errorf("Column %s was not a string. Was: %s", colName, res.Raw)
		}
		return res.String(), nil
	case *tabula.TimeColumnType:
		if res.Type != gjson.String {
			return nil, fmt.Errorf("Column %s was not a datetime string. Was: %s", colName, res.Raw)
		}
		tval, err := time.Parse(ct.Format, res.String())
		if err != nil {
			return nil, fmt.Errorf("Column %s could not be parsed as datetime with format %s. Was: %s", colName, ct.Format, res.Raw)
		}
		return tval, nil
	case *tabula.AnyColumnType:
		return res.Value(), nil
	default:
		return nil, fmt.Errorf("JSONL parsing does not support column type %T", colType)
	}
}
