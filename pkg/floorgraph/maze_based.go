package floorgraph

import "github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"

// generateMazeBased builds a spanning tree over the abstract room set using
// either randomized Prim's or randomized Kruskal's algorithm. Imperfect
// mazes get loop edges added afterward per branchingFactor; Perfect mazes
// stay a tree regardless of branchingFactor (a perfect maze has exactly
// one path between any two cells by definition).
func generateMazeBased(roomCount int, branchingFactor float32, stream *rng.Stream, cfg MazeBasedConfig) (*FloorGraph, error) {
	fg := newNodeGraph(roomCount)

	var err error
	switch cfg.Algorithm {
	case Kruskals:
		err = mazeKruskals(fg, roomCount, stream)
	default:
		err = mazePrims(fg, roomCount, stream)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Type == Imperfect {
		addBranchingEdges(fg, branchingFactor, stream, roomCount)
	}

	return fg, nil
}

// mazePrims grows a spanning tree one node at a time: at each step it picks
// a uniformly random edge from the current frontier (tree node -> outside
// node) and absorbs the outside node.
func mazePrims(fg *FloorGraph, roomCount int, stream *rng.Stream) error {
	inTree := make([]bool, roomCount)
	inTree[0] = true

	type frontierEdge struct{ inside, outside int }
	var frontier []frontierEdge
	addFrontier := func(node int) {
		for other := 0; other < roomCount; other++ {
			if other != node && !inTree[other] {
				frontier = append(frontier, frontierEdge{node, other})
			}
		}
	}
	addFrontier(0)

	for len(frontier) > 0 {
		idx := stream.Intn(len(frontier))
		edge := frontier[idx]
		frontier[idx] = frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		if inTree[edge.outside] {
			continue
		}
		if _, err := fg.AddConnection(edge.inside, edge.outside); err != nil {
			return err
		}
		inTree[edge.outside] = true
		addFrontier(edge.outside)
	}
	return nil
}

// mazeKruskals builds a spanning tree by shuffling every candidate edge and
// adding each one that joins two distinct components, via union-find.
func mazeKruskals(fg *FloorGraph, roomCount int, stream *rng.Stream) error {
	type edge struct{ a, b int }
	var candidates []edge
	for i := 0; i < roomCount; i++ {
		for j := i + 1; j < roomCount; j++ {
			candidates = append(candidates, edge{i, j})
		}
	}
	stream.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

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

	componentsLeft := roomCount
	for _, e := range candidates {
		if componentsLeft == 1 {
			break
		}
		ra, rb := find(e.a), find(e.b)
		if ra == rb {
			continue
		}
		if _, err := fg.AddConnection(e.a, e.b); err != nil {
			return err
		}
		parent[ra] = rb
		componentsLeft--
	}
	return nil
}
