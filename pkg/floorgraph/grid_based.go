package floorgraph

import (
	"sort"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
)

// generateGridBased lays roomCount nodes onto a rectangular grid, connects
// adjacent cells with a randomized spanning tree, then scatters extra
// edges along remaining grid-adjacent pairs per branchingFactor.
func generateGridBased(roomCount int, branchingFactor float32, stream *rng.Stream, cfg GridBasedConfig) (*FloorGraph, error) {
	width, height := cfg.GridWidth, cfg.GridHeight
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	for width*height < roomCount {
		if width <= height {
			width++
		} else {
			height++
		}
	}

	type cell struct{ x, y int }
	cells := make([]cell, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cells = append(cells, cell{x, y})
		}
	}

	stream.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
	cells = cells[:roomCount]

	cellAt := make(map[cell]int, roomCount) // cell -> node id
	for id, c := range cells {
		cellAt[c] = id
	}

	adjacent := func(a, b cell) bool {
		dx, dy := a.x-b.x, a.y-b.y
		if dx < 0 {
			dx = -dx
		}
		if dy < 0 {
			dy = -dy
		}
		if cfg.Connectivity == EightWay {
			return dx <= 1 && dy <= 1 && (dx+dy) > 0
		}
		return dx+dy == 1
	}

	type gridEdge struct{ a, b int }
	var candidates []gridEdge
	for i := 0; i < roomCount; i++ {
		for j := i + 1; j < roomCount; j++ {
			if adjacent(cells[i], cells[j]) {
				candidates = append(candidates, gridEdge{i, j})
			}
		}
	}

	fg := newNodeGraph(roomCount)

	// Randomized spanning tree over the grid-adjacency candidates via
	// union-find: shuffle candidates, add any edge joining two components.
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	stream.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	parent := make([]int, roomCount)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	used := make(map[gridEdge]bool, len(candidates))
	componentsLeft := roomCount
	for _, idx := range order {
		if componentsLeft == 1 {
			break
		}
		e := candidates[idx]
		ra, rb := find(e.a), find(e.b)
		if ra == rb {
			continue
		}
		if _, err := fg.AddConnection(e.a, e.b); err != nil {
			return nil, err
		}
		used[e] = true
		parent[ra] = rb
		componentsLeft--
	}

	// Grid cells may not form a single connected region (shuffled subset
	// of a larger grid); patch any leftover islands deterministically.
	repairConnectivity(fg)

	// Extra edges: remaining grid-adjacent pairs, gated by branchingFactor.
	remaining := candidates[:0:0]
	for _, e := range candidates {
		if !used[e] {
			remaining = append(remaining, e)
		}
	}
	sort.Slice(remaining, func(i, j int) bool {
		if remaining[i].a != remaining[j].a {
			return remaining[i].a < remaining[j].a
		}
		return remaining[i].b < remaining[j].b
	})
	if branchingFactor > 0 {
		for _, e := range remaining {
			if fg.backing.HasEdgeBetween(int64(e.a), int64(e.b)) {
				continue
			}
			if stream.Float64() < float64(branchingFactor) {
				fg.AddConnection(e.a, e.b) //nolint:errcheck // freshly deduplicated candidate
			}
		}
	}

	return fg, nil
}
