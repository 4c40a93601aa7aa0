// Package join implements Tabula's predicate join engine: joining two
// DataFrames where matching is defined by an arbitrary boolean expression
// evaluated against a composed row view, rather than equality on keys.
package join

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/go-tabula/tabula"
	"github.com/go-tabula/tabula/logging"
	"github.com/go-tabula/tabula/schema"
	"github.com/go-tabula/tabula/table"
)

// Type enumerates the supported join semantics
type Type int

const (
	// Inner emits one row per matching (left, right) pair
	Inner Type = iota
	// Filter emits each left row with at least one match, left columns only
	Filter
	// Left emits Inner rows plus unmatched left rows with missing right cells
	Left
	// Right emits Inner rows plus unmatched right rows with missing left cells, in right-row order
	Right
	// Full emits every left row (matched or missing-filled) plus unmatched right rows
	Full
	// Exclude emits each left row with no match, left columns only
	Exclude
)

// String returns a textual representation of a join Type
func (t Type) String() string {
	switch t {
	case Inner:
		return "inner"
	case Filter:
		return "filter"
	case Left:
		return "left"
	case Right:
		return "right"
	case Full:
		return "full"
	case Exclude:
		return "exclude"
	default:
		return "unknown"
	}
}

// JoinRow is a composed read-only view over one candidate row pair. The two
// sides remain physically separate; predicates address each side's columns
// through its own DataFrame's paths.
type JoinRow struct {
	Left  tabula.Row
	Right tabula.Row
}

// Predicate decides whether a candidate row pair matches. Predicates must be
// pure functions of the two row values only - no hidden mutable state - so
// row-pair evaluation order is unconstrained and parallelizable.
type Predicate func(r JoinRow) (bool, error)

// Conf configures the join engine
type Conf struct {
	MaxParallelism int // Number of outer rows evaluated concurrently. Defaults to 1 (serial evaluation).
	LogLevel       int // Minimum criticality of log messages emitted by the engine. Defaults to logging.InfoLevel.
}

func withDefaults(conf *Conf) *Conf {
	if conf == nil {
		conf = &Conf{}
	}
	if conf.MaxParallelism == 0 {
		conf.MaxParallelism = 1
	}
	if conf.LogLevel == 0 {
		conf.LogLevel = logging.InfoLevel
	}
	return conf
}

// rightMount is the group name under which the right side's columns are
// mounted when a top-level name collides with the left side
const rightMount = "right"

// Join matches the rows of two DataFrames with the given predicate and
// assembles a new DataFrame per the given join Type. The predicate is
// evaluated once per candidate row pair; a predicate error aborts the whole
// join with no partial result.
func Join(left tabula.DataFrame, right tabula.DataFrame, joinType Type, expr Predicate, conf *Conf) (tabula.DataFrame, error) {
	conf = withDefaults(conf)
	if expr == nil {
		expr = func(r JoinRow) (bool, error) { return true, nil }
	}
	if logging.ShouldLog(conf.LogLevel, logging.DebugLevel) {
		log.Printf("[%s] %s predicate join: %d left rows x %d right rows", logging.LogLevelToString(logging.DebugLevel), joinType, left.NumRows(), right.NumRows())
	}
	if joinType == Right {
		matches, err := computeMatches(right.NumRows(), left.NumRows(), func(j int, i int) (bool, error) {
			return expr(JoinRow{Left: left.Row(i), Right: right.Row(j)})
		}, conf)
		if err != nil {
			return nil, err
		}
		return assembleRight(left, right, matches)
	}
	matches, err := computeMatches(left.NumRows(), right.NumRows(), func(i int, j int) (bool, error) {
		return expr(JoinRow{Left: left.Row(i), Right: right.Row(j)})
	}, conf)
	if err != nil {
		return nil, err
	}
	switch joinType {
	case Filter, Exclude:
		return assembleLeftOnly(left, matches, joinType == Exclude)
	default:
		return assembleCombined(left, right, joinType, matches)
	}
}

// computeMatches evaluates the predicate for every (outer, inner) pair and
// returns, per outer row, the ordered inner rows it matched. When
// MaxParallelism exceeds one, outer rows are evaluated concurrently under a
// weighted semaphore; results are stored per outer index, so assembly order
// is identical to the serial path.
func computeMatches(outerRows int, innerRows int, eval func(outer int, inner int) (bool, error), conf *Conf) ([][]int, error) {
	matches := make([][]int, outerRows)
	matchRow := func(o int) ([]int, error) {
		var ms []int
		for i := 0; i < innerRows; i++ {
			ok, err := eval(o, i)
			if err != nil {
				return nil, err
			}
			if ok {
				ms = append(ms, i)
			}
		}
		return ms, nil
	}
	if conf.MaxParallelism <= 1 || outerRows <= 1 {
		for o := 0; o < outerRows; o++ {
			ms, err := matchRow(o)
			if err != nil {
				return nil, err
			}
			matches[o] = ms
		}
		return matches, nil
	}
	ctx := context.Background()
	limit := semaphore.NewWeighted(int64(conf.MaxParallelism))
	errors := make(chan error, outerRows)
	var wg sync.WaitGroup
	for o := 0; o < outerRows; o++ {
		if err := limit.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(o int) {
			defer wg.Done()
			defer limit.Release(1)
			ms, err := matchRow(o)
			if err != nil {
				errors <- err
				return
			}
			matches[o] = ms
		}(o)
	}
	wg.Wait()
	close(errors)
	if err := <-errors; err != nil {
		return nil, err
	}
	return matches, nil
}

// combinedRoot builds the output column tree: left columns followed by right
// columns. When a right top-level name collides with a left one, the right
// side is mounted under a "right" group.
func combinedRoot(left tabula.DataFrame, right tabula.DataFrame) (tabula.ColumnNode, []string, error) {
	leftKids := left.Root().Children()
	rightKids := right.Root().Children()
	leftNames := make(map[string]bool, len(leftKids))
	for _, c := range leftKids {
		leftNames[c.Name()] = true
	}
	collision := false
	for _, c := range rightKids {
		if leftNames[c.Name()] {
			collision = true
			break
		}
	}
	children := make([]tabula.ColumnNode, 0, len(leftKids)+len(rightKids))
	children = append(children, leftKids...)
	var rightPrefix []string
	if collision {
		children = append(children, schema.NewGroup(rightMount, rightKids...))
		rightPrefix = []string{rightMount}
	} else {
		children = append(children, rightKids...)
	}
	root, err := schema.NewRoot(children...)
	if err != nil {
		return nil, nil, err
	}
	return root, rightPrefix, nil
}

// copyCells copies one side's leaf cells into an output row map, optionally
// re-keying them under a mount prefix
func copyCells(out map[string]interface{}, r tabula.Row, leaves []tabula.ColumnNode, prefix []string) error {
	for _, leaf := range leaves {
		path := leaf.Path()
		v, err := r.Get(path...)
		if err != nil {
			return err
		}
		out[table.PathKey(append(prefix, path...))] = v
	}
	return nil
}

// fillMissing marks one side's leaf cells as belonging to an unmatched row
func fillMissing(out map[string]interface{}, leaves []tabula.ColumnNode, prefix []string) {
	for _, leaf := range leaves {
		out[table.PathKey(append(prefix, leaf.Path()...))] = tabula.Missing
	}
}

func assembleCombined(left tabula.DataFrame, right tabula.DataFrame, joinType Type, matches [][]int) (tabula.DataFrame, error) {
	root, rightPrefix, err := combinedRoot(left, right)
	if err != nil {
		return nil, err
	}
	builder, err := table.CreateBuilder(root)
	if err != nil {
		return nil, err
	}
	leftLeaves := schema.Leaves(left.Root())
	rightLeaves := schema.Leaves(right.Root())
	appendPair := func(i int, j int) error {
		cells := make(map[string]interface{}, len(leftLeaves)+len(rightLeaves))
		if err := copyCells(cells, left.Row(i), leftLeaves, nil); err != nil {
			return err
		}
		if j < 0 {
			fillMissing(cells, rightLeaves, rightPrefix)
		} else if err := copyCells(cells, right.Row(j), rightLeaves, rightPrefix); err != nil {
			return err
		}
		return builder.AppendRow(cells)
	}
	rightMatched := make([]bool, right.NumRows())
	for i, ms := range matches {
		if len(ms) == 0 {
			if joinType == Left || joinType == Full {
				if err := appendPair(i, -1); err != nil {
					return nil, err
				}
			}
			continue
		}
		for _, j := range ms {
			rightMatched[j] = true
			if err := appendPair(i, j); err != nil {
				return nil, err
			}
		}
	}
	if joinType == Full {
		for j := range rightMatched {
			if rightMatched[j] {
				continue
			}
			cells := make(map[string]interface{}, len(leftLeaves)+len(rightLeaves))
			fillMissing(cells, leftLeaves, nil)
			if err := copyCells(cells, right.Row(j), rightLeaves, rightPrefix); err != nil {
				return nil, err
			}
			if err := builder.AppendRow(cells); err != nil {
				return nil, err
			}
		}
	}
	return builder.Build()
}

// assembleRight emits rows in right-row order, attaching matched left rows or
// a missing-filled left side. Output columns still lead with the left side.
func assembleRight(left tabula.DataFrame, right tabula.DataFrame, matches [][]int) (tabula.DataFrame, error) {
	root, rightPrefix, err := combinedRoot(left, right)
	if err != nil {
		return nil, err
	}
	builder, err := table.CreateBuilder(root)
	if err != nil {
		return nil, err
	}
	leftLeaves := schema.Leaves(left.Root())
	rightLeaves := schema.Leaves(right.Root())
	for j, ms := range matches {
		if len(ms) == 0 {
			cells := make(map[string]interface{}, len(leftLeaves)+len(rightLeaves))
			fillMissing(cells, leftLeaves, nil)
			if err := copyCells(cells, right.Row(j), rightLeaves, rightPrefix); err != nil {
				return nil, err
			}
			if err := builder.AppendRow(cells); err != nil {
				return nil, err
			}
			continue
		}
		for _, i := range ms {
			cells := make(map[string]interface{}, len(leftLeaves)+len(rightLeaves))
			if err := copyCells(cells, left.Row(i), leftLeaves, nil); err != nil {
				return nil, err
			}
			if err := copyCells(cells, right.Row(j), rightLeaves, rightPrefix); err != nil {
				return nil, err
			}
			if err := builder.AppendRow(cells); err != nil {
				return nil, err
			}
		}
	}
	return builder.Build()
}

// assembleLeftOnly implements Filter (keep left rows with a match) and its
// logical complement Exclude (keep left rows without one)
func assembleLeftOnly(left tabula.DataFrame, matches [][]int, exclude bool) (tabula.DataFrame, error) {
	root, err := schema.NewRoot(left.Root().Children()...)
	if err != nil {
		return nil, err
	}
	builder, err := table.CreateBuilder(root)
	if err != nil {
		return nil, err
	}
	leftLeaves := schema.Leaves(left.Root())
	for i, ms := range matches {
		if (len(ms) > 0) == exclude {
			continue
		}
		cells := make(map[string]interface{}, len(leftLeaves))
		if err := copyCells(cells, left.Row(i), leftLeaves, nil); err != nil {
			return nil, err
		}
		if err := builder.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return builder.Build()
}
