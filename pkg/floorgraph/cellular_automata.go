package floorgraph

import (
	"sort"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
)

// generateCellularAutomata grows a cave-shaped region with a standard
// birth/survival CA, then treats roomCount of the resulting live cells as
// nodes and wires them with a 4-way-adjacency spanning tree.
func generateCellularAutomata(roomCount int, branchingFactor float32, stream *rng.Stream, cfg CellularAutomataConfig) (*FloorGraph, error) {
	width, height := cfg.GridWidth, cfg.GridHeight
	if width <= 0 {
		width = 10
	}
	if height <= 0 {
		height = 10
	}
	birth, survival := cfg.BirthThreshold, cfg.SurvivalThreshold
	if birth <= 0 {
		birth = 4
	}
	if survival <= 0 {
		survival = 3
	}
	iterations := cfg.Iterations
	if iterations <= 0 {
		iterations = 4
	}

	type cell struct{ x, y int }

	var liveCells []cell
	for width*height < roomCount*2 {
		width++
		height++
	}

	for attempt := 0; attempt < 8; attempt++ {
		grid := make([][]bool, height)
		for y := range grid {
			grid[y] = make([]bool, width)
			for x := range grid[y] {
				grid[y][x] = stream.Float64() < 0.45
			}
		}

		liveNeighbors := func(g [][]bool, x, y int) int {
			count := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						count++ // treat out-of-bounds as walls, biases toward solid edges
						continue
					}
					if g[ny][nx] {
						count++
					}
				}
			}
			return count
		}

		for iter := 0; iter < iterations; iter++ {
			next := make([][]bool, height)
			for y := range next {
				next[y] = make([]bool, width)
				for x := range next[y] {
					n := liveNeighbors(grid, x, y)
					if grid[y][x] {
						next[y][x] = n >= survival
					} else {
						next[y][x] = n >= birth
					}
				}
			}
			grid = next
		}

		liveCells = liveCells[:0]
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if grid[y][x] {
					liveCells = append(liveCells, cell{x, y})
				}
			}
		}

		if len(liveCells) >= roomCount {
			break
		}
		width += 2
		height += 2
	}

	if len(liveCells) < roomCount {
		// Degenerate CA run even after growing the grid; pad with synthetic
		// cells in a line so the algorithm still returns roomCount nodes.
		maxX := width
		for len(liveCells) < roomCount {
			liveCells = append(liveCells, cell{maxX, 0})
			maxX++
		}
	}

	sort.Slice(liveCells, func(i, j int) bool {
		if liveCells[i].y != liveCells[j].y {
			return liveCells[i].y < liveCells[j].y
		}
		return liveCells[i].x < liveCells[j].x
	})

	stream.Shuffle(len(liveCells), func(i, j int) { liveCells[i], liveCells[j] = liveCells[j], liveCells[i] })
	cells := liveCells[:roomCount]

	fg := newNodeGraph(roomCount)

	type gridEdge struct{ a, b int }
	var candidates []gridEdge
	for i := 0; i < roomCount; i++ {
		for j := i + 1; j < roomCount; j++ {
			dx, dy := cells[i].x-cells[j].x, cells[i].y-cells[j].y
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			if dx+dy == 1 {
				candidates = append(candidates, gridEdge{i, j})
			}
		}
	}

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

	repairConnectivity(fg)

	if branchingFactor > 0 {
		var remaining []gridEdge
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
