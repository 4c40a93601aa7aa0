package table

import (
	"fmt"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"rsc.io/ordered"

	"github.com/go-tabula/tabula"
)

// Cell encoding tags for fingerprints. Missing rows, nil cells and real
// values must hash distinctly.
const (
	fpMissing = int64(iota)
	fpNil
	fpValue
)

// Fingerprint hashes one row's cells for the given resolved columns. Resolved
// column groups contribute all of their leaf cells. Cells are encoded with an
// order-preserving tuple encoding before hashing, so fingerprints are stable
// across processes.
func Fingerprint(r tabula.Row, cols []tabula.ResolvedColumn) (uint64, error) {
	d := xxhash.New()
	for _, c := range cols {
		for _, path := range resolvedLeafPaths(c) {
			v, err := r.Get(path...)
			if err != nil {
				return 0, err
			}
			if _, err := d.Write(encodeCell(PathKey(path), v)); err != nil {
				return 0, err
			}
		}
	}
	return d.Sum64(), nil
}

// resolvedLeafPaths expands a resolved column to the resolution paths of its
// leaves, in pre-order
func resolvedLeafPaths(c tabula.ResolvedColumn) [][]string {
	type frame struct {
		node tabula.ColumnNode
		path []string
	}
	var out [][]string
	stack := []frame{{node: c.Node, path: c.Path}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f.node.IsGroup() {
			out = append(out, f.path)
			continue
		}
		children := f.node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			child := children[i]
			path := make([]string, 0, len(f.path)+1)
			path = append(path, f.path...)
			path = append(path, child.Name())
			stack = append(stack, frame{node: child, path: path})
		}
	}
	return out
}

func encodeCell(key string, v interface{}) []byte {
	switch val := v.(type) {
	case tabula.MissingValue:
		return ordered.Encode(key, fpMissing)
	case nil:
		return ordered.Encode(key, fpNil)
	case bool:
		n := int64(0)
		if val {
			n = 1
		}
		return ordered.Encode(key, fpValue, n)
	case time.Time:
		return ordered.Encode(key, fpValue, val.UnixNano())
	default:
		if ordered.CanEncode(val) {
			return ordered.Encode(key, fpValue, val)
		}
		return ordered.Encode(key, fpValue, fmt.Sprintf("%v", val))
	}
}
