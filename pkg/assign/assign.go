// Package assign implements the constraint-satisfaction room-type
// assigner. It backtracks over a composable constraint DSL
// (pkg/constraint) to produce exactly one spawn node, exactly one boss
// node, every global and per-zone room-type requirement satisfied, and
// every constraint's target node validated, deterministically for a given
// (graph, config, rng).
package assign

import (
	"fmt"
	"sort"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/constraint"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorerr"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
)

// RoomRequirement pins a minimum count of RoomType across the whole
// floor.
type RoomRequirement[T comparable] struct {
	RoomType T
	Count    int
}

// ZoneRequirement pins a minimum count of RoomType within a single zone.
type ZoneRequirement[T comparable] struct {
	ZoneID   string
	RoomType T
	Count    int
}

// Config carries everything Assign needs beyond the graph itself.
type Config[T comparable] struct {
	SpawnRoomType    T
	BossRoomType     T
	DefaultRoomType  T
	RoomRequirements []RoomRequirement[T]
	ZoneRequirements []ZoneRequirement[T]
	Constraints      []constraint.Constraint[T]
	FloorIndex       int // -1 for a single-floor generation
	MaxSteps         int // backtracking step cap; 0 uses DefaultMaxSteps
}

// DefaultMaxSteps bounds the number of candidate attempts the backtracking
// search makes before raising a configuration-infeasible error. Spec.md
// §9 requires this cap be documented and surfaced in error diagnostics.
const DefaultMaxSteps = 200000

// unit is one node-shaped slot the search must fill.
type unit[T comparable] struct {
	roomType     T
	zoneRestrict string // "" means unrestricted
}

// Result carries the final assignment plus search diagnostics.
type Result[T comparable] struct {
	RoomTypes map[int]T
	Steps     int // candidate attempts consumed against the step cap
}

// Assign runs the backtracking constraint-satisfaction search and returns
// a complete node id -> room type mapping.
func Assign[T comparable](graph *floorgraph.FloorGraph, cfg Config[T], zoneAssignments floorgraph.ZoneAssignments, stream *rng.Stream) (map[int]T, error) {
	result, err := AssignDetailed(graph, cfg, zoneAssignments, stream)
	if err != nil {
		return nil, err
	}
	return result.RoomTypes, nil
}

// AssignDetailed is Assign plus the step count the search consumed, for
// callers assembling a generation trace.
func AssignDetailed[T comparable](graph *floorgraph.FloorGraph, cfg Config[T], zoneAssignments floorgraph.ZoneAssignments, stream *rng.Stream) (*Result[T], error) {
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	s := &searcher[T]{
		graph:       graph,
		cfg:         cfg,
		zoneOf:      zoneAssignments,
		stream:      stream,
		maxSteps:    maxSteps,
		assignments: make(map[int]T, graph.NodeCount()),
		used:        make(map[int]bool, graph.NodeCount()),
	}

	units, err := s.buildUnits()
	if err != nil {
		return nil, err
	}

	ok, err := s.assignUnit(0, units)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, floorerr.NewInvalidConfiguration("assign", fmt.Sprintf("no satisfying assignment found within %d backtracking steps", maxSteps), nil)
	}

	return &Result[T]{RoomTypes: s.assignments, Steps: s.steps}, nil
}

type searcher[T comparable] struct {
	graph       *floorgraph.FloorGraph
	cfg         Config[T]
	zoneOf      floorgraph.ZoneAssignments
	stream      *rng.Stream
	maxSteps    int
	steps       int
	assignments map[int]T
	used        map[int]bool
}

func (s *searcher[T]) context() constraint.Context[T] {
	return constraint.Context[T]{
		Graph:       s.graph,
		Assignments: s.assignments,
		ZoneOf:      s.zoneOf,
		FloorIndex:  s.cfg.FloorIndex,
	}
}

func (s *searcher[T]) constraintsFor(roomType T) []constraint.Constraint[T] {
	var out []constraint.Constraint[T]
	for _, c := range s.cfg.Constraints {
		if c.TargetRoomType() == roomType {
			out = append(out, c)
		}
	}
	return out
}

// passesGraphConstraints evaluates every non-spatial constraint target
// for roomType against nodeID. Spatial constraints are always permissive
// here (their IsValid is a no-op true); pkg/placement re-checks them once
// anchors exist. Adjacency to a type with no assigned node yet is
// deferred rather than failed: the final validation pass re-checks it
// once default-filled neighbors are visible.
func (s *searcher[T]) passesGraphConstraints(nodeID int, roomType T) bool {
	ctx := s.context()
	for _, c := range s.constraintsFor(roomType) {
		if s.deferred(c, ctx) {
			continue
		}
		if !c.IsValid(nodeID, ctx) {
			return false
		}
	}
	return true
}

// deferred reports whether c cannot be decided yet mid-search: a
// MustBeAdjacentTo whose reference types have no assigned node is
// unsatisfiable for every candidate until the reference type (often the
// default room type) appears, so its verdict waits for the completed
// assignment.
func (s *searcher[T]) deferred(c constraint.Constraint[T], ctx constraint.Context[T]) bool {
	adj, ok := c.(constraint.MustBeAdjacentTo[T])
	if !ok {
		return false
	}
	return len(ctx.NodesOfType(adj.RefTypes)) == 0
}

func (s *searcher[T]) zoneRestrictOK(nodeID int, zoneRestrict string) bool {
	if zoneRestrict == "" {
		return true
	}
	return s.zoneOf[nodeID] == zoneRestrict
}

// buildUnits constructs the ordered slot list: spawn, boss, then required
// room types (global, then per-zone) ordered "most constrained first" by
// ascending feasible-set size computed against an empty assignment.
func (s *searcher[T]) buildUnits() ([]unit[T], error) {
	units := []unit[T]{{roomType: s.cfg.SpawnRoomType}, {roomType: s.cfg.BossRoomType}}

	type group struct {
		u        unit[T]
		count    int
		feasible int
	}
	var groups []group
	for _, req := range s.cfg.RoomRequirements {
		groups = append(groups, group{u: unit[T]{roomType: req.RoomType}, count: req.Count, feasible: s.feasibleCount(req.RoomType, "")})
	}
	for _, zreq := range s.cfg.ZoneRequirements {
		groups = append(groups, group{
			u:        unit[T]{roomType: zreq.RoomType, zoneRestrict: zreq.ZoneID},
			count:    zreq.Count,
			feasible: s.feasibleCount(zreq.RoomType, zreq.ZoneID),
		})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].feasible < groups[j].feasible })

	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			units = append(units, g.u)
		}
	}
	return units, nil
}

// feasibleCount counts nodes satisfying every graph constraint for
// roomType against an empty partial assignment. A pure ordering
// heuristic, not a correctness guarantee: later picks can still narrow
// what remains feasible.
func (s *searcher[T]) feasibleCount(roomType T, zoneRestrict string) int {
	empty := constraint.Context[T]{Graph: s.graph, Assignments: map[int]T{}, ZoneOf: s.zoneOf, FloorIndex: s.cfg.FloorIndex}
	n := 0
	for _, id := range s.graph.NodeIDsSorted() {
		if zoneRestrict != "" && s.zoneOf[id] != zoneRestrict {
			continue
		}
		ok := true
		for _, c := range s.constraintsFor(roomType) {
			if s.deferred(c, empty) {
				continue
			}
			if !c.IsValid(id, empty) {
				ok = false
				break
			}
		}
		if ok {
			n++
		}
	}
	return n
}

// candidateOrder returns the node ids eligible for u, in the deterministic
// order the search tries them.
func (s *searcher[T]) candidateOrder(u unit[T], isSpawn, isBoss bool) []int {
	ids := s.graph.NodeIDsSorted()
	var candidates []int
	for _, id := range ids {
		if s.used[id] {
			continue
		}
		if !s.zoneRestrictOK(id, u.zoneRestrict) {
			continue
		}
		candidates = append(candidates, id)
	}

	switch {
	case isSpawn:
		// Prefer node 0 first, then ascending id.
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i] == 0 {
				return true
			}
			if candidates[j] == 0 {
				return false
			}
			return candidates[i] < candidates[j]
		})
	case isBoss:
		// Prefer maximum distance_from_start, ties by lowest id.
		sort.SliceStable(candidates, func(i, j int) bool {
			ni, _ := s.graph.Node(candidates[i])
			nj, _ := s.graph.Node(candidates[j])
			if ni.DistanceFromStart != nj.DistanceFromStart {
				return ni.DistanceFromStart > nj.DistanceFromStart
			}
			return candidates[i] < candidates[j]
		})
	default:
		// Deterministic secondary ordering drawn from the assignment
		// PRNG stream.
		s.stream.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	}
	return candidates
}

// assignUnit tries to fill units[idx..] via depth-first backtracking.
// Once every unit is placed it completes the attempt: default-fill the
// remaining nodes and validate the whole assignment, backtracking if the
// completed state violates any constraint.
func (s *searcher[T]) assignUnit(idx int, units []unit[T]) (bool, error) {
	if idx >= len(units) {
		return s.finishAttempt(), nil
	}
	u := units[idx]
	isSpawn := idx == 0
	isBoss := idx == 1

	for _, nodeID := range s.candidateOrder(u, isSpawn, isBoss) {
		s.steps++
		if s.steps > s.maxSteps {
			return false, nil
		}
		if !s.passesGraphConstraints(nodeID, u.roomType) {
			continue
		}

		s.assignments[nodeID] = u.roomType
		s.used[nodeID] = true

		ok, err := s.assignUnit(idx+1, units)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}

		delete(s.assignments, nodeID)
		delete(s.used, nodeID)
	}
	return false, nil
}

// finishAttempt default-fills the remaining nodes and validates the
// completed assignment: every constraint for every node's type, plus the
// global and per-zone count requirements. On any violation the defaults
// are undone and the caller backtracks over earlier choices.
func (s *searcher[T]) finishAttempt() bool {
	var defaulted []int
	for _, id := range s.graph.NodeIDsSorted() {
		if s.used[id] {
			continue
		}
		s.assignments[id] = s.cfg.DefaultRoomType
		s.used[id] = true
		defaulted = append(defaulted, id)
	}

	if s.validateCompleted() && s.meetsRequirements() {
		return true
	}

	for _, id := range defaulted {
		delete(s.assignments, id)
		delete(s.used, id)
	}
	return false
}

// validateCompleted checks every constraint against the full assignment.
// Each candidate node is evaluated with itself removed from the type map,
// matching the solver's proposal-time view (a MaxPerFloor count, for
// instance, never includes the node under evaluation).
func (s *searcher[T]) validateCompleted() bool {
	for _, id := range s.graph.NodeIDsSorted() {
		roomType := s.assignments[id]
		delete(s.assignments, id)
		ctx := s.context()
		ok := true
		for _, c := range s.constraintsFor(roomType) {
			if !c.IsValid(id, ctx) {
				ok = false
				break
			}
		}
		s.assignments[id] = roomType
		if !ok {
			return false
		}
	}
	return true
}

// meetsRequirements re-checks the global and per-zone room-requirement
// counts against the completed assignment.
func (s *searcher[T]) meetsRequirements() bool {
	for _, zreq := range s.cfg.ZoneRequirements {
		n := 0
		for id, rt := range s.assignments {
			if rt == zreq.RoomType && s.zoneOf[id] == zreq.ZoneID {
				n++
			}
		}
		if n < zreq.Count {
			return false
		}
	}
	for _, req := range s.cfg.RoomRequirements {
		n := 0
		for _, rt := range s.assignments {
			if rt == req.RoomType {
				n++
			}
		}
		if n < req.Count {
			return false
		}
	}
	return true
}
