package frame

import (
	"errors"
	"reflect"
	"testing"
)

// batch builds frames with the given indices and no pixel data; the
// layout never inspects pixels.
func batch(indices ...int) []Frame {
	frames := make([]Frame, len(indices))
	for i, idx := range indices {
		frames[i] = Frame{Index: idx}
	}
	return frames
}

func TestComputePlacement_Scenario(t *testing.T) {
	p, err := ComputePlacement(batch(3, 1, 5, 2), 2)
	if err != nil {
		t.Fatalf("ComputePlacement failed: %v", err)
	}

	if p.Reference.Index != 1 {
		t.Errorf("Expected reference index 1, got %d", p.Reference.Index)
	}
	if p.Rows != 2 || p.Cols != 2 {
		t.Errorf("Expected 2x2 grid, got %dx%d", p.Rows, p.Cols)
	}
	if len(p.Cells) != 4 {
		t.Fatalf("Expected 4 cells, got %d", len(p.Cells))
	}

	want := []struct {
		row, col int
		index    int // -1 for blank
	}{
		{0, 0, 2},
		{0, 1, 3},
		{1, 0, 5},
		{1, 1, -1},
	}

	for i, w := range want {
		c := p.Cells[i]
		if c.Row != w.row || c.Col != w.col {
			t.Errorf("Cell %d: expected position (%d,%d), got (%d,%d)", i, w.row, w.col, c.Row, c.Col)
		}
		if w.index == -1 {
			if c.Frame != nil {
				t.Errorf("Cell %d: expected blank, got frame %d", i, c.Frame.Index)
			}
		} else if c.Frame == nil {
			t.Errorf("Cell %d: expected frame %d, got blank", i, w.index)
		} else if c.Frame.Index != w.index {
			t.Errorf("Cell %d: expected frame %d, got %d", i, w.index, c.Frame.Index)
		}
	}
}

func TestComputePlacement_ReferenceIsMinIndex(t *testing.T) {
	p, err := ComputePlacement(batch(40, 12, 99, 30, 17), 3)
	if err != nil {
		t.Fatalf("ComputePlacement failed: %v", err)
	}

	if p.Reference.Index != 12 {
		t.Errorf("Expected reference index 12, got %d", p.Reference.Index)
	}
	for _, c := range p.Cells {
		if c.Frame != nil && c.Frame.Index == 12 {
			t.Error("Reference frame must not appear in a grid cell")
		}
	}
}

func TestComputePlacement_SingleFrame(t *testing.T) {
	p, err := ComputePlacement(batch(7), 4)
	if err != nil {
		t.Fatalf("ComputePlacement failed: %v", err)
	}

	if p.Reference.Index != 7 {
		t.Errorf("Expected reference index 7, got %d", p.Reference.Index)
	}
	if p.Rows != 0 {
		t.Errorf("Expected 0 grid rows, got %d", p.Rows)
	}
	if len(p.Cells) != 0 {
		t.Errorf("Expected no cells, got %d", len(p.Cells))
	}
}

func TestComputePlacement_EmptyBatch(t *testing.T) {
	_, err := ComputePlacement(nil, 3)
	if err == nil {
		t.Fatal("Expected error for empty batch")
	}
	if !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("Expected ErrEmptyBatch, got %v", err)
	}
}

func TestComputePlacement_InvalidColumnCount(t *testing.T) {
	for _, cols := range []int{0, -1, -10} {
		_, err := ComputePlacement(batch(1, 2), cols)
		if err == nil {
			t.Fatalf("Expected error for cols=%d", cols)
		}
		if !errors.Is(err, &InvalidColumnCountError{}) {
			t.Errorf("cols=%d: expected InvalidColumnCountError, got %v", cols, err)
		}
	}
}

func TestComputePlacement_DuplicateIndex(t *testing.T) {
	_, err := ComputePlacement(batch(1, 4, 2, 4), 2)
	if err == nil {
		t.Fatal("Expected error for duplicate index")
	}
	if !errors.Is(err, &DuplicateIndexError{}) {
		t.Errorf("Expected DuplicateIndexError, got %v", err)
	}

	var dup *DuplicateIndexError
	if !errors.As(err, &dup) {
		t.Fatalf("Expected *DuplicateIndexError, got %T", err)
	}
	if dup.Index != 4 {
		t.Errorf("Expected duplicate index 4, got %d", dup.Index)
	}
}

func TestComputePlacement_RowMajorOrder(t *testing.T) {
	p, err := ComputePlacement(batch(9, 0, 3, 7, 1, 5, 8, 2, 6, 4), 3)
	if err != nil {
		t.Fatalf("ComputePlacement failed: %v", err)
	}

	last := -1
	placed := 0
	for _, c := range p.Cells {
		if c.Frame == nil {
			continue
		}
		if c.Frame.Index <= last {
			t.Errorf("Row-major order violated: %d after %d", c.Frame.Index, last)
		}
		last = c.Frame.Index
		placed++
	}

	if placed != 9 {
		t.Errorf("Expected 9 placed frames, got %d", placed)
	}
}

func TestComputePlacement_Blanks(t *testing.T) {
	// 6 non-reference frames in 3 columns fill the grid exactly.
	p, err := ComputePlacement(batch(0, 1, 2, 3, 4, 5, 6), 3)
	if err != nil {
		t.Fatalf("ComputePlacement failed: %v", err)
	}
	if p.Blanks() != 0 {
		t.Errorf("Expected no blanks for exact fit, got %d", p.Blanks())
	}

	// 5 non-reference frames leave one blank in the last row.
	p, err = ComputePlacement(batch(0, 1, 2, 3, 4, 5), 3)
	if err != nil {
		t.Fatalf("ComputePlacement failed: %v", err)
	}
	if p.Blanks() != 1 {
		t.Errorf("Expected 1 blank, got %d", p.Blanks())
	}
}

func TestComputePlacement_Idempotent(t *testing.T) {
	frames := batch(3, 1, 5, 2)

	p1, err := ComputePlacement(frames, 2)
	if err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	p2, err := ComputePlacement(frames, 2)
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}

	if !reflect.DeepEqual(p1, p2) {
		t.Error("Expected identical plans for identical input")
	}
}

func TestComputePlacement_DoesNotMutateInput(t *testing.T) {
	frames := batch(3, 1, 5, 2)

	if _, err := ComputePlacement(frames, 2); err != nil {
		t.Fatalf("ComputePlacement failed: %v", err)
	}

	want := []int{3, 1, 5, 2}
	for i, f := range frames {
		if f.Index != want[i] {
			t.Fatalf("Input slice mutated: position %d is %d, want %d", i, f.Index, want[i])
		}
	}
}
