package frame

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyBatch is returned when a placement is requested for zero frames.
// Use errors.Is(err, ErrEmptyBatch) to check for this error.
var ErrEmptyBatch = errors.New("frame batch is empty")

// InvalidColumnCountError reports a non-positive grid column count.
type InvalidColumnCountError struct {
	Cols int
}

func (e *InvalidColumnCountError) Error() string {
	return fmt.Sprintf("column count must be positive, got %d", e.Cols)
}

func (e *InvalidColumnCountError) Is(target error) bool {
	_, ok := target.(*InvalidColumnCountError)
	return ok
}

// DuplicateIndexError reports two frames sharing the same index.
// Index uniqueness is what makes the placement unambiguous, so a
// duplicate rejects the whole batch rather than picking a winner.
type DuplicateIndexError struct {
	Index int
}

func (e *DuplicateIndexError) Error() string {
	return fmt.Sprintf("duplicate frame index %d", e.Index)
}

func (e *DuplicateIndexError) Is(target error) bool {
	_, ok := target.(*DuplicateIndexError)
	return ok
}

// Cell is one grid position in a placement. Frame is nil for the blank
// trailing cells of the final row; renderers must leave those empty.
type Cell struct {
	Row   int
	Col   int
	Frame *Frame
}

// Placement is a deterministic arrangement of a frame batch: the
// minimum-index frame as the reference plus the remaining frames in a
// row-major grid. Rows counts grid rows only; the reference occupies its
// own row above row 0.
type Placement struct {
	Reference Frame
	Rows      int
	Cols      int
	Cells     []Cell // row-major, len == Rows*Cols
}

// Blanks returns the number of empty trailing cells in the final row.
func (p *Placement) Blanks() int {
	n := 0
	for _, c := range p.Cells {
		if c.Frame == nil {
			n++
		}
	}
	return n
}

// ComputePlacement sorts frames ascending by index, designates the
// smallest as the reference and fills the rest row-major into a
// cols-wide grid. Cell (row, col) holds the frame at sorted position
// row*cols + col. The computation is pure: identical input yields an
// identical plan.
func ComputePlacement(frames []Frame, cols int) (*Placement, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyBatch
	}
	if cols <= 0 {
		return nil, &InvalidColumnCountError{Cols: cols}
	}

	sorted := make([]Frame, len(frames))
	copy(sorted, frames)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Index == sorted[i-1].Index {
			return nil, &DuplicateIndexError{Index: sorted[i].Index}
		}
	}

	ref := sorted[0]
	rest := sorted[1:]

	rows := (len(rest) + cols - 1) / cols
	cells := make([]Cell, rows*cols)
	for i := range cells {
		cells[i] = Cell{Row: i / cols, Col: i % cols}
		if i < len(rest) {
			cells[i].Frame = &rest[i]
		}
	}

	return &Placement{
		Reference: ref,
		Rows:      rows,
		Cols:      cols,
		Cells:     cells,
	}, nil
}
