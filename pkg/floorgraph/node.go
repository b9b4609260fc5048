package floorgraph

import "fmt"

// RoomNode is a vertex of the abstract dungeon graph. Connections is a
// read-only back-reference list maintained by FloorGraph. RoomNode never
// owns RoomConnection values, it only borrows them for constraint and
// analyzer queries.
//
// DistanceFromStart, IsOnCriticalPath and Difficulty are populated after
// construction by the graph analyzer and difficulty scorer respectively;
// nothing else in the pipeline mutates a RoomNode once FloorGraph is
// returned from the generator.
type RoomNode struct {
	ID          int
	Connections []*RoomConnection

	DistanceFromStart int
	IsOnCriticalPath  bool
	Difficulty        float64
}

// ConnectionCount returns the node's degree.
func (n *RoomNode) ConnectionCount() int {
	return len(n.Connections)
}

// IsDeadEnd reports whether the node has exactly one connection.
func (n *RoomNode) IsDeadEnd() bool {
	return len(n.Connections) == 1
}

// NeighborIDs returns the ids of nodes directly connected to n.
func (n *RoomNode) NeighborIDs() []int {
	out := make([]int, 0, len(n.Connections))
	for _, c := range n.Connections {
		out = append(out, c.GetOtherNodeID(n.ID))
	}
	return out
}

// String returns a human-readable representation of the node.
func (n *RoomNode) String() string {
	return fmt.Sprintf("RoomNode[%d: degree=%d, dist=%d, critical=%t, difficulty=%.2f]",
		n.ID, len(n.Connections), n.DistanceFromStart, n.IsOnCriticalPath, n.Difficulty)
}
