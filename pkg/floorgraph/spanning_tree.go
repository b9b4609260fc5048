package floorgraph

import "github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"

// generateSpanningTree builds a random spanning tree over nodes 0..n-1 by
// attaching each new node to a uniformly chosen already-attached node, then
// scatters extra edges per branchingFactor. This is the default,
// backwards-compatible algorithm.
func generateSpanningTree(roomCount int, branchingFactor float32, stream *rng.Stream) (*FloorGraph, error) {
	fg := newNodeGraph(roomCount)

	for i := 1; i < roomCount; i++ {
		attachTo := stream.Intn(i)
		if _, err := fg.AddConnection(i, attachTo); err != nil {
			return nil, err
		}
	}

	maxExtra := roomCount // generous cap; branchingFactor gates actual additions
	addBranchingEdges(fg, branchingFactor, stream, maxExtra)

	return fg, nil
}
