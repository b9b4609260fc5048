package floorgraph

import "github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"

// generateHubAndSpoke designates the first HubCount nodes as hubs, connects
// every pair of hubs so the hub layer is dense, then hangs the remaining
// nodes off hubs as spoke chains no longer than MaxSpokeLength.
func generateHubAndSpoke(roomCount int, branchingFactor float32, stream *rng.Stream, cfg HubAndSpokeConfig) (*FloorGraph, error) {
	hubCount := cfg.HubCount
	if hubCount <= 0 {
		hubCount = 1
	}
	if hubCount > roomCount {
		hubCount = roomCount
	}
	maxSpoke := cfg.MaxSpokeLength
	if maxSpoke <= 0 {
		maxSpoke = roomCount
	}

	fg := newNodeGraph(roomCount)

	for a := 0; a < hubCount; a++ {
		for b := a + 1; b < hubCount; b++ {
			if _, err := fg.AddConnection(a, b); err != nil {
				return nil, err
			}
		}
	}

	type chainState struct {
		tail  int
		depth int
	}
	chains := make([]chainState, hubCount)
	for h := range chains {
		chains[h] = chainState{tail: h, depth: 0}
	}

	for node := hubCount; node < roomCount; node++ {
		h := stream.Intn(hubCount)
		if chains[h].depth >= maxSpoke {
			chains[h] = chainState{tail: h, depth: 0}
		}
		if _, err := fg.AddConnection(chains[h].tail, node); err != nil {
			return nil, err
		}
		chains[h] = chainState{tail: node, depth: chains[h].depth + 1}
	}

	addBranchingEdges(fg, branchingFactor, stream, roomCount)

	return fg, nil
}
