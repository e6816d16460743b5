package convert

import "sdx/shelf"

// normalizeCellDepths rewrites the ambiguous legacy depth encoding in place.
// In legacy streams the first cells of a 3-column table arrive as depths
// [1, ?, 2], colliding with the depth-1 (4-column) case. The pre-pass detects
// the pattern and rewrites the triple to depth 3 uniformly so the cell state
// machine recognizes a 3-column table. A peek past the end of the stream
// defaults to a neutral triple that never matches.
//
// This is a best-effort heuristic for a historical encoding, not an exact
// contract. It is idempotent: rewritten triples start with depth 3 and can
// never match again.
func normalizeCellDepths(blocks []shelf.Block) {
	for i := 0; i < len(blocks); i++ {
		if blocks[i].Type != shelf.BlockCell {
			continue
		}
		depths := [3]int{1, 1, 1}
		if i+2 < len(blocks) {
			depths = [3]int{blocks[i].Depth, blocks[i+1].Depth, blocks[i+2].Depth}
		}
		if blocks[i].Depth == 1 && depths[2] == 2 {
			blocks[i].Depth = 3
			blocks[i+1].Depth = 3
			blocks[i+2].Depth = 3
			i++
		}
	}
}
