package convert

import (
	"testing"

	"sdx/shelf"
)

func cellDepths(blocks []shelf.Block) []int {
	out := make([]int, len(blocks))
	for i, b := range blocks {
		out[i] = b.Depth
	}
	return out
}

func TestNormalizeCellDepths(t *testing.T) {
	blocks := []shelf.Block{
		{Type: shelf.BlockCell, Depth: 1},
		{Type: shelf.BlockCell, Depth: 1},
		{Type: shelf.BlockCell, Depth: 2},
		{Type: shelf.BlockCell, Depth: 2},
	}

	normalizeCellDepths(blocks)

	want := []int{3, 3, 3, 2}
	for i, d := range cellDepths(blocks) {
		if d != want[i] {
			t.Fatalf("depths = %v, want %v", cellDepths(blocks), want)
		}
	}
}

func TestNormalizeCellDepths_Idempotent(t *testing.T) {
	blocks := []shelf.Block{
		{Type: shelf.BlockCell, Depth: 1},
		{Type: shelf.BlockCell, Depth: 0},
		{Type: shelf.BlockCell, Depth: 2},
	}

	normalizeCellDepths(blocks)
	first := cellDepths(blocks)
	normalizeCellDepths(blocks)
	second := cellDepths(blocks)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("second pass changed depths: %v then %v", first, second)
		}
		if first[i] != 3 {
			t.Errorf("depths = %v, want all 3", first)
		}
	}
}

func TestNormalizeCellDepths_NonMatching(t *testing.T) {
	blocks := []shelf.Block{
		{Type: shelf.BlockCell, Depth: 0},
		{Type: shelf.BlockCell, Depth: 0},
		{Type: shelf.BlockCell, Depth: 0},
		{Type: shelf.BlockUnstyled, Depth: 1},
		{Type: shelf.BlockCell, Depth: 1},
	}

	normalizeCellDepths(blocks)

	// depth-0 cells and non-cell blocks are untouched; the trailing depth-1
	// cell has no lookahead and stays as is
	want := []int{0, 0, 0, 1, 1}
	for i, d := range cellDepths(blocks) {
		if d != want[i] {
			t.Fatalf("depths = %v, want %v", cellDepths(blocks), want)
		}
	}
}
