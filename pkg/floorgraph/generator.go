package floorgraph

import (
	"fmt"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
)

// Generate produces a connected FloorGraph of roomCount nodes using the
// selected algorithm. branchingFactor is the probability (per candidate
// non-tree edge, up to an implementation cap) that an extra edge is added
// on top of whatever spanning structure the algorithm builds.
//
// All variants guarantee: node count equals roomCount, the graph is
// connected, edges are unordered and unique, and identical
// (roomCount, branchingFactor, stream, cfg) always produce the same graph.
func Generate(roomCount int, branchingFactor float32, stream *rng.Stream, cfg GeneratorConfig) (*FloorGraph, error) {
	if roomCount < 2 {
		return nil, fmt.Errorf("floorgraph: room_count must be >= 2, got %d", roomCount)
	}
	if branchingFactor < 0 || branchingFactor > 1 {
		return nil, fmt.Errorf("floorgraph: branching_factor must be in [0,1], got %f", branchingFactor)
	}

	switch cfg.Algorithm {
	case SpanningTree:
		return generateSpanningTree(roomCount, branchingFactor, stream)
	case GridBased:
		return generateGridBased(roomCount, branchingFactor, stream, cfg.GridBased)
	case CellularAutomata:
		return generateCellularAutomata(roomCount, branchingFactor, stream, cfg.CellularAutomata)
	case MazeBased:
		return generateMazeBased(roomCount, branchingFactor, stream, cfg.MazeBased)
	case HubAndSpoke:
		return generateHubAndSpoke(roomCount, branchingFactor, stream, cfg.HubAndSpoke)
	default:
		return nil, fmt.Errorf("floorgraph: unknown algorithm %v", cfg.Algorithm)
	}
}

// newNodeGraph creates a FloorGraph with nodes 0..n-1 already inserted.
func newNodeGraph(n int) *FloorGraph {
	fg := NewFloorGraph()
	for i := 0; i < n; i++ {
		fg.AddNode(i) //nolint:errcheck // ids are fresh and ascending, cannot collide
	}
	return fg
}

// addBranchingEdges walks every non-adjacent node pair in ascending id
// order and, with probability branchingFactor, adds the connection if it
// doesn't already exist, up to maxExtra additions. Deterministic given the
// stream's draw sequence.
func addBranchingEdges(fg *FloorGraph, branchingFactor float32, stream *rng.Stream, maxExtra int) {
	if branchingFactor <= 0 || maxExtra <= 0 {
		return
	}
	ids := fg.NodeIDsSorted()
	added := 0
	for i := 0; i < len(ids) && added < maxExtra; i++ {
		for j := i + 1; j < len(ids) && added < maxExtra; j++ {
			a, b := ids[i], ids[j]
			if fg.backing.HasEdgeBetween(int64(a), int64(b)) {
				continue
			}
			if stream.Float64() < float64(branchingFactor) {
				if _, err := fg.AddConnection(a, b); err == nil {
					added++
				}
			}
		}
	}
}

// repairConnectivity connects any component not reachable from node 0 by
// adding one edge from its lowest-id member to the lowest-id member of the
// already-connected component. Used by algorithms (CellularAutomata,
// GridBased) whose natural construction can leave islands.
func repairConnectivity(fg *FloorGraph) {
	ids := fg.NodeIDsSorted()
	if len(ids) == 0 {
		return
	}

	visited := make(map[int]bool)
	component := make(map[int]int) // node id -> component representative

	var bfsMark func(start, rep int)
	bfsMark = func(start, rep int) {
		queue := []int{start}
		visited[start] = true
		component[start] = rep
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range fg.nodes[cur].NeighborIDs() {
				if !visited[nb] {
					visited[nb] = true
					component[nb] = rep
					queue = append(queue, nb)
				}
			}
		}
	}

	mainRep := ids[0]
	bfsMark(mainRep, mainRep)

	for _, id := range ids {
		if visited[id] {
			continue
		}
		rep := id
		bfsMark(id, rep)
		// Connect this new component's representative to the main one.
		fg.AddConnection(mainRep, rep) //nolint:errcheck // endpoints exist and are not yet connected
	}
}
