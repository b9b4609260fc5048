// Package secretpassage implements the secret-passage inserter: a
// deterministic filter-then-shuffle-then-take pass over candidate room
// pairs, each becoming an extra connection outside the main graph's
// connection set.
package secretpassage

import (
	"sort"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/hallway"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
)

// Config parameterizes the inserter.
type Config[T comparable] struct {
	Count                        int
	MaxSpatialDistance           int        // Manhattan distance between room centers; 0 disables the bound
	AllowedRoomTypes             map[T]bool // empty/nil means unrestricted
	ForbiddenRoomTypes           map[T]bool
	AllowCriticalPathConnections bool
	AllowGraphConnectedRooms     bool
}

// RoomView is the minimal per-room data the inserter needs: its type,
// whether it lies on the critical path, and a representative center cell
// (e.g. the centroid of its world cells) for the distance bound.
type RoomView[T comparable] struct {
	NodeID     int
	RoomType   T
	OnCritical bool
	Center     geo.Cell
	WorldCells map[geo.Cell]bool
}

// Pair is an unordered room-pair candidate.
type Pair struct {
	A, B int
}

// SecretPassage is a (rooms, doors, optional hallway) triple that is
// never added to the main graph's connection set. Both rooms always get a
// door; the hallway is nil when the rooms are already cell-adjacent.
type SecretPassage struct {
	RoomA, RoomB int
	DoorA, DoorB hallway.Door
	Hallway      *hallway.Hallway
}

// Insert draws up to cfg.Count secret passages. graph supplies graph
// connectivity (for the "already graph-connected" filter); rooms supplies
// per-room geometry; obstacles is consulted only when a pair needs a
// routed hallway.
func Insert[T comparable](
	graph *floorgraph.FloorGraph,
	rooms map[int]RoomView[T],
	cfg Config[T],
	obstacles hallway.Obstacles,
	doorFor func(nodeID int) hallway.Door,
	stream *rng.Stream,
) ([]SecretPassage, error) {
	if cfg.Count <= 0 {
		return nil, nil
	}

	ids := make([]int, 0, len(rooms))
	for id := range rooms {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var candidates []Pair
	for i, a := range ids {
		for _, b := range ids[i+1:] {
			if passesFilters(graph, rooms, cfg, a, b) {
				candidates = append(candidates, Pair{A: a, B: b})
			}
		}
	}

	stream.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	n := cfg.Count
	if n > len(candidates) {
		n = len(candidates)
	}

	var result []SecretPassage
	for _, pair := range candidates[:n] {
		roomA, roomB := rooms[pair.A], rooms[pair.B]
		sp := SecretPassage{
			RoomA: pair.A,
			RoomB: pair.B,
			DoorA: doorFor(pair.A),
			DoorB: doorFor(pair.B),
		}
		if !cellAdjacent(roomA.WorldCells, roomB.WorldCells) {
			h, err := hallway.Route(sp.DoorA, sp.DoorB, obstacles, hallway.Config{})
			if err != nil {
				return nil, err
			}
			sp.Hallway = h
		}
		result = append(result, sp)
	}
	return result, nil
}

func passesFilters[T comparable](graph *floorgraph.FloorGraph, rooms map[int]RoomView[T], cfg Config[T], a, b int) bool {
	roomA, roomB := rooms[a], rooms[b]

	if len(cfg.AllowedRoomTypes) > 0 && (!cfg.AllowedRoomTypes[roomA.RoomType] || !cfg.AllowedRoomTypes[roomB.RoomType]) {
		return false
	}
	if cfg.ForbiddenRoomTypes[roomA.RoomType] || cfg.ForbiddenRoomTypes[roomB.RoomType] {
		return false
	}
	if cfg.MaxSpatialDistance > 0 && roomA.Center.ManhattanDistance(roomB.Center) > cfg.MaxSpatialDistance {
		return false
	}
	if !cfg.AllowCriticalPathConnections && (roomA.OnCritical || roomB.OnCritical) {
		return false
	}
	if !cfg.AllowGraphConnectedRooms {
		if na, ok := graph.Node(a); ok {
			for _, nb := range na.NeighborIDs() {
				if nb == b {
					return false
				}
			}
		}
	}
	return true
}

func cellAdjacent(a, b map[geo.Cell]bool) bool {
	for ca := range a {
		for _, n := range ca.Neighbors4() {
			if b[n] {
				return true
			}
		}
	}
	return false
}
