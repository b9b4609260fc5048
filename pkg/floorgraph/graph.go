package floorgraph

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// FloorGraph is the abstract dungeon graph: a connected set of RoomNodes
// joined by RoomConnections, with a designated start/boss node pair and
// the derived critical path between them.
//
// Node and edge storage is delegated to a gonum simple.UndirectedGraph so
// BFS distance (ComputeDistances) reuses graph/traverse rather than a
// hand-rolled queue; FloorGraph itself owns the RoomNode/RoomConnection
// values and keeps the gonum graph in lock-step as a pure adjacency index.
type FloorGraph struct {
	nodes       map[int]*RoomNode
	connections []*RoomConnection
	backing     *simple.UndirectedGraph

	StartNodeID  int
	BossNodeID   int
	CriticalPath []int
}

// NewFloorGraph creates an empty graph.
func NewFloorGraph() *FloorGraph {
	return &FloorGraph{
		nodes:   make(map[int]*RoomNode),
		backing: simple.NewUndirectedGraph(),
	}
}

// AddNode creates and inserts a node with the given id. Returns an error
// if the id is already present.
func (fg *FloorGraph) AddNode(id int) (*RoomNode, error) {
	if _, exists := fg.nodes[id]; exists {
		return nil, fmt.Errorf("floorgraph: node %d already exists", id)
	}
	n := &RoomNode{ID: id}
	fg.nodes[id] = n
	fg.backing.AddNode(simple.Node(int64(id)))
	return n, nil
}

// AddConnection connects two existing nodes. Returns an error if either
// endpoint is missing, the endpoints are equal, or the edge already
// exists.
func (fg *FloorGraph) AddConnection(a, b int) (*RoomConnection, error) {
	na, ok := fg.nodes[a]
	if !ok {
		return nil, fmt.Errorf("floorgraph: node %d does not exist", a)
	}
	nb, ok := fg.nodes[b]
	if !ok {
		return nil, fmt.Errorf("floorgraph: node %d does not exist", b)
	}
	if fg.backing.HasEdgeBetween(int64(a), int64(b)) {
		return nil, fmt.Errorf("floorgraph: connection (%d,%d) already exists", a, b)
	}
	conn, err := NewRoomConnection(a, b)
	if err != nil {
		return nil, err
	}

	fg.connections = append(fg.connections, conn)
	na.Connections = append(na.Connections, conn)
	nb.Connections = append(nb.Connections, conn)
	fg.backing.SetEdge(simple.Edge{F: simple.Node(int64(a)), T: simple.Node(int64(b))})

	return conn, nil
}

// Node returns the node with the given id.
func (fg *FloorGraph) Node(id int) (*RoomNode, bool) {
	n, ok := fg.nodes[id]
	return n, ok
}

// NodeCount returns the number of nodes.
func (fg *FloorGraph) NodeCount() int { return len(fg.nodes) }

// Connections returns all edges, in insertion order.
func (fg *FloorGraph) Connections() []*RoomConnection {
	return fg.connections
}

// NodeIDsSorted returns every node id in ascending order, the
// deterministic iteration order every stage downstream of graph generation
// relies on.
func (fg *FloorGraph) NodeIDsSorted() []int {
	ids := make([]int, 0, len(fg.nodes))
	for id := range fg.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// IsConnected reports whether every node is reachable from the lowest-id
// node, treating connections as undirected (they already are).
func (fg *FloorGraph) IsConnected() bool {
	if len(fg.nodes) == 0 {
		return true
	}
	ids := fg.NodeIDsSorted()
	reached := 0
	bfs := traverse.BreadthFirst{}
	bfs.Walk(fg.backing, simple.Node(int64(ids[0])), func(n graph.Node, d int) bool {
		reached++
		return false
	})
	return reached == len(fg.nodes)
}

// ComputeDistances runs BFS from startID and records DistanceFromStart on
// every reachable node. Unreachable nodes (only possible on a disconnected
// graph, which generators must never produce) keep a distance of -1.
func (fg *FloorGraph) ComputeDistances(startID int) error {
	if _, ok := fg.nodes[startID]; !ok {
		return fmt.Errorf("floorgraph: start node %d does not exist", startID)
	}
	for _, n := range fg.nodes {
		n.DistanceFromStart = -1
	}
	bfs := traverse.BreadthFirst{}
	bfs.Walk(fg.backing, simple.Node(int64(startID)), func(n graph.Node, d int) bool {
		fg.nodes[int(n.ID())].DistanceFromStart = d
		return false
	})
	return nil
}

// criticalPath finds a shortest path from startID to bossID, breaking ties
// by always visiting a node's neighbors in ascending id order so the first
// BFS layer to reach any given node is reproducible across runs.
func (fg *FloorGraph) criticalPath(startID, bossID int) ([]int, error) {
	if _, ok := fg.nodes[startID]; !ok {
		return nil, fmt.Errorf("floorgraph: start node %d does not exist", startID)
	}
	if _, ok := fg.nodes[bossID]; !ok {
		return nil, fmt.Errorf("floorgraph: boss node %d does not exist", bossID)
	}
	if startID == bossID {
		return []int{startID}, nil
	}

	parent := make(map[int]int)
	visited := map[int]bool{startID: true}
	queue := []int{startID}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == bossID {
			break
		}

		neighbors := fg.nodes[cur].NeighborIDs()
		sort.Ints(neighbors)
		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			parent[nb] = cur
			queue = append(queue, nb)
		}
	}

	if !visited[bossID] {
		return nil, fmt.Errorf("floorgraph: no path from %d to %d", startID, bossID)
	}

	path := []int{bossID}
	for cur := bossID; cur != startID; {
		p := parent[cur]
		path = append([]int{p}, path...)
		cur = p
	}
	return path, nil
}

// Analyze runs the graph analyzer (spec §4.3): distance-from-start,
// critical path, and the is-on-critical-path flag. startID and bossID
// must both already be present as nodes.
func (fg *FloorGraph) Analyze(startID, bossID int) error {
	if err := fg.ComputeDistances(startID); err != nil {
		return err
	}
	path, err := fg.criticalPath(startID, bossID)
	if err != nil {
		return err
	}

	fg.StartNodeID = startID
	fg.BossNodeID = bossID
	fg.CriticalPath = path

	onPath := make(map[int]bool, len(path))
	for _, id := range path {
		onPath[id] = true
	}
	for _, n := range fg.nodes {
		n.IsOnCriticalPath = onPath[n.ID]
	}
	return nil
}

// DistanceBetween returns the BFS hop distance between any two nodes,
// independent of StartNodeID. Used by graph constraints that measure
// distance from an already-placed reference node rather than from the
// spawn room (the MinDistanceFromRoomType family).
func (fg *FloorGraph) DistanceBetween(a, b int) (int, error) {
	if _, ok := fg.nodes[a]; !ok {
		return 0, fmt.Errorf("floorgraph: node %d does not exist", a)
	}
	if _, ok := fg.nodes[b]; !ok {
		return 0, fmt.Errorf("floorgraph: node %d does not exist", b)
	}
	if a == b {
		return 0, nil
	}
	visited := map[int]bool{a: true}
	queue := []int{a}
	dist := map[int]int{a: 0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == b {
			return dist[cur], nil
		}
		neighbors := fg.nodes[cur].NeighborIDs()
		sort.Ints(neighbors)
		for _, nb := range neighbors {
			if !visited[nb] {
				visited[nb] = true
				dist[nb] = dist[cur] + 1
				queue = append(queue, nb)
			}
		}
	}
	return 0, fmt.Errorf("floorgraph: no path from %d to %d", a, b)
}

// Validate checks the graph's structural invariants: connectivity, and a
// well-formed critical path when one has been computed.
func (fg *FloorGraph) Validate() error {
	if !fg.IsConnected() {
		return fmt.Errorf("floorgraph: graph is not connected")
	}
	if len(fg.CriticalPath) == 0 {
		return nil
	}
	if fg.CriticalPath[0] != fg.StartNodeID {
		return fmt.Errorf("floorgraph: critical path must start at %d, got %d", fg.StartNodeID, fg.CriticalPath[0])
	}
	if fg.CriticalPath[len(fg.CriticalPath)-1] != fg.BossNodeID {
		return fmt.Errorf("floorgraph: critical path must end at %d, got %d", fg.BossNodeID, fg.CriticalPath[len(fg.CriticalPath)-1])
	}
	for i := 0; i+1 < len(fg.CriticalPath); i++ {
		a, b := fg.CriticalPath[i], fg.CriticalPath[i+1]
		if !fg.backing.HasEdgeBetween(int64(a), int64(b)) {
			return fmt.Errorf("floorgraph: critical path step %d->%d is not a connection", a, b)
		}
	}
	return nil
}
