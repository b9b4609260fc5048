package floorgraph

import "fmt"

// ZoneBoundary is a tagged variant: a node matches a zone either by its
// BFS distance from the start room or by its position along the critical
// path, never both at once.
type ZoneBoundary struct {
	Distance     *DistanceBoundary
	CriticalPath *CriticalPathBoundary
}

// DistanceBoundary matches iff min <= distance_from_start <= max.
type DistanceBoundary struct {
	Min, Max int
}

// CriticalPathBoundary matches iff the node lies on the critical path and
// its index falls within [StartPct*L, EndPct*L], L = len(critical path).
type CriticalPathBoundary struct {
	StartPct, EndPct float64
}

// Matches reports whether node satisfies the boundary, given its
// distance-from-start and its index on the critical path (-1 if the node
// is not on the critical path).
func (b ZoneBoundary) Matches(distanceFromStart int, criticalPathIndex int, criticalPathLen int) bool {
	switch {
	case b.Distance != nil:
		d := b.Distance
		return distanceFromStart >= d.Min && distanceFromStart <= d.Max
	case b.CriticalPath != nil:
		if criticalPathIndex < 0 || criticalPathLen == 0 {
			return false
		}
		cp := b.CriticalPath
		lo := cp.StartPct * float64(criticalPathLen)
		hi := cp.EndPct * float64(criticalPathLen)
		idx := float64(criticalPathIndex)
		return idx >= lo && idx <= hi
	default:
		return false
	}
}

// Zone groups rooms for theming and room-requirement enforcement. T is the
// room-type identifier type used elsewhere in the pipeline (constraint,
// assign, template all share it).
type Zone[T comparable] struct {
	ID               string
	Name             string
	Boundary         ZoneBoundary
	Templates        []string
	RoomRequirements []ZoneRoomRequirement[T]
}

// ZoneRoomRequirement pins a minimum count of a room type within a zone.
type ZoneRoomRequirement[T comparable] struct {
	RoomType T
	Count    int
}

// ZoneAssignments maps node id to the id of the zone that claimed it.
// Nodes absent from the map matched no zone.
type ZoneAssignments map[int]string

// AssignZones evaluates zones in config declaration order against every
// node in fg; the first zone whose boundary matches a node claims it.
// Nodes that match no zone are simply absent from the result.
func AssignZones[T comparable](fg *FloorGraph, zones []Zone[T]) (ZoneAssignments, error) {
	cpIndex := make(map[int]int, len(fg.CriticalPath))
	for i, id := range fg.CriticalPath {
		cpIndex[id] = i
	}

	assignments := make(ZoneAssignments, fg.NodeCount())
	for _, id := range fg.NodeIDsSorted() {
		node, ok := fg.Node(id)
		if !ok {
			return nil, fmt.Errorf("floorgraph: node %d missing during zone assignment", id)
		}
		idx, onPath := cpIndex[id]
		if !onPath {
			idx = -1
		}
		for _, z := range zones {
			if z.Boundary.Matches(node.DistanceFromStart, idx, len(fg.CriticalPath)) {
				assignments[id] = z.ID
				break
			}
		}
	}
	return assignments, nil
}

// TransitionRooms returns the set of node ids with at least one neighbor
// assigned to a different zone than their own. A node with no zone
// assignment is never a transition room.
func TransitionRooms(fg *FloorGraph, assignments ZoneAssignments) map[int]bool {
	transitions := make(map[int]bool)
	for _, id := range fg.NodeIDsSorted() {
		zoneID, ok := assignments[id]
		if !ok {
			continue
		}
		node, _ := fg.Node(id)
		for _, nb := range node.NeighborIDs() {
			if nbZone, ok := assignments[nb]; ok && nbZone != zoneID {
				transitions[id] = true
				break
			}
		}
	}
	return transitions
}
