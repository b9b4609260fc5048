// Package constraint implements the room-assignment constraint DSL: a
// flat tagged-variant family of predicates over a candidate node, the
// abstract graph, and the partial room-type assignment, plus a spatial
// sub-family that additionally sees proposed anchor/template placements.
//
// There is no string DSL to parse and no inheritance hierarchy: every
// constraint implements Constraint[T]; spatial ones additionally
// implement Spatial[T].
package constraint

import (
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/template"
)

// Context carries everything a graph constraint needs to evaluate a
// candidate: the graph itself, the partial type assignment built up so
// far by the solver, each node's zone id (if zones are configured), and
// the floor index for multi-floor constraints (-1 for a single floor).
type Context[T comparable] struct {
	Graph       *floorgraph.FloorGraph
	Assignments map[int]T
	ZoneOf      map[int]string
	FloorIndex  int
}

// CountOf returns how many nodes currently hold room type t.
func (c Context[T]) CountOf(t T) int {
	n := 0
	for _, rt := range c.Assignments {
		if rt == t {
			n++
		}
	}
	return n
}

// NodesOfType returns the node ids currently assigned any room type in
// types, sorted ascending for deterministic iteration.
func (c Context[T]) NodesOfType(types map[T]bool) []int {
	var out []int
	for id, rt := range c.Assignments {
		if types[rt] {
			out = append(out, id)
		}
	}
	sortInts(out)
	return out
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// PlacedRoomInfo is the minimal read-only view of an already-placed room
// that spatial constraints need. The placement package constructs these
// from its own PlacedRoom values; constraint never imports placement,
// avoiding an import cycle (placement evaluates spatial constraints
// during the incremental placer, so the dependency must run the other
// way).
type PlacedRoomInfo[T comparable] struct {
	NodeID     int
	RoomType   T
	Anchor     geo.Cell
	WorldCells map[geo.Cell]bool
}

// Constraint is the uniform predicate interface every constraint variant
// implements. TargetRoomType names the room type this constraint governs;
// the solver only evaluates a constraint when it proposes that type for a
// candidate node.
type Constraint[T comparable] interface {
	TargetRoomType() T
	IsValid(candidateNodeID int, ctx Context[T]) bool
}

// Spatial is implemented by constraints whose validity depends on
// already-placed room geometry. The
// spatial placer (pkg/placement) consults IsValidSpatially once a
// candidate anchor and template are known; the constraint-satisfaction
// assigner (pkg/assign) never calls it, since positions don't exist yet
// at assignment time.
type Spatial[T comparable] interface {
	Constraint[T]
	IsValidSpatially(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], placed []PlacedRoomInfo[T], ctx Context[T]) bool
}

// IsSpatial reports whether c also implements Spatial[T].
func IsSpatial[T comparable](c Constraint[T]) bool {
	_, ok := c.(Spatial[T])
	return ok
}
