// Package placement implements the spatial placer. It assigns every room
// an integer grid anchor such that world cells never overlap,
// door-exterior cells stay reserved, and every spatial constraint
// targeting a room's type holds given the placements made so far.
//
// Placement proceeds BFS-order from the spawn node. For each graph-tree
// edge, the child room is anchored so it faces the parent across a single
// reserved gap cell; that gap becomes the shared Door position for both
// rooms once the edge is confirmed door-adjacent, keeping every Door
// position outside every room's world cells. When no door-adjacent pose
// satisfies the spatial constraints, the child is placed at a detached
// free anchor instead and its edge is routed as a hallway. Non-tree edges
// and any edge under HallwayMode Always are likewise left for pkg/hallway
// to route explicitly.
package placement

import (
	"fmt"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/constraint"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorerr"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/template"
)

// PlacedRoom is the result of placing one node's selected template at a
// concrete anchor.
type PlacedRoom[T comparable] struct {
	NodeID     int
	RoomType   T
	Template   *template.RoomTemplate[T]
	Anchor     geo.Cell
	Difficulty float64
}

// WorldCells returns the room's footprint translated to world coordinates.
func (p PlacedRoom[T]) WorldCells() map[geo.Cell]bool {
	out := make(map[geo.Cell]bool, len(p.Template.Cells))
	for c := range p.Template.Cells {
		out[p.Anchor.Add(c.X, c.Y)] = true
	}
	return out
}

func (p PlacedRoom[T]) toInfo() constraint.PlacedRoomInfo[T] {
	return constraint.PlacedRoomInfo[T]{
		NodeID:     p.NodeID,
		RoomType:   p.RoomType,
		Anchor:     p.Anchor,
		WorldCells: p.WorldCells(),
	}
}

// EdgeKey canonically identifies an undirected graph edge for door
// bookkeeping: A < B always.
type EdgeKey struct{ A, B int }

func edgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// Config parameterizes the placer's bounded search.
type Config struct {
	SpawnAnchor        geo.Cell
	CenterThresholdPct float64 // passed through to MustBeInQuadrant constraints
	MaxRetriesPerNode  int     // candidate (parent-edge x child-edge) combos tried before giving up on a node
}

// DefaultConfig returns the placer's default bounds.
func DefaultConfig() Config {
	return Config{SpawnAnchor: geo.C(0, 0), CenterThresholdPct: 0.15, MaxRetriesPerNode: 2000}
}

// Result bundles the final placements with the doors resolved directly
// during placement (graph edges that need no hallway) and the total
// anchor attempts consumed against the per-node cap.
type Result[T comparable] struct {
	Rooms       map[int]PlacedRoom[T]
	DirectDoors map[EdgeKey]geo.Cell
	Attempts    int
}

// HallwayMode mirrors dungeonfloor-level config: Always forces hallway
// routing even for touching rooms; AsNeeded only routes when no direct
// door was resolved during placement.
type HallwayMode int

const (
	AsNeeded HallwayMode = iota
	Always
)

// Place runs the incremental BFS placer. templates supplies the
// already-selected template for every node (pkg/template.Pool.Select is
// called once per node before placement).
func Place[T comparable](
	graph *floorgraph.FloorGraph,
	assignments map[int]T,
	templates map[int]*template.RoomTemplate[T],
	difficulties map[int]float64,
	constraints []constraint.Constraint[T],
	zoneOf floorgraph.ZoneAssignments,
	mode HallwayMode,
	stream *rng.Stream,
	cfg Config,
) (*Result[T], error) {
	p := &placer[T]{
		graph:        graph,
		assignments:  assignments,
		templates:    templates,
		difficulties: difficulties,
		constraints:  constraints,
		zoneOf:       zoneOf,
		mode:         mode,
		stream:       stream,
		cfg:          cfg,
		rooms:        make(map[int]PlacedRoom[T]),
		occupied:     make(map[geo.Cell]int),
		reserved:     make(map[geo.Cell]bool),
		directDoors:  make(map[EdgeKey]geo.Cell),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return &Result[T]{Rooms: p.rooms, DirectDoors: p.directDoors, Attempts: p.attempts}, nil
}

type placer[T comparable] struct {
	graph        *floorgraph.FloorGraph
	assignments  map[int]T
	templates    map[int]*template.RoomTemplate[T]
	difficulties map[int]float64
	constraints  []constraint.Constraint[T]
	zoneOf       floorgraph.ZoneAssignments
	mode         HallwayMode
	stream       *rng.Stream
	cfg          Config

	rooms       map[int]PlacedRoom[T]
	occupied    map[geo.Cell]int // cell -> owning node id
	reserved    map[geo.Cell]bool
	directDoors map[EdgeKey]geo.Cell
	attempts    int
}

func (p *placer[T]) constraintsFor(roomType T) []constraint.Spatial[T] {
	var out []constraint.Spatial[T]
	for _, c := range p.constraints {
		if c.TargetRoomType() != roomType {
			continue
		}
		if q, ok := c.(constraint.MustBeInQuadrant[T]); ok && q.CenterThresholdPct <= 0 {
			q.CenterThresholdPct = p.cfg.CenterThresholdPct
			out = append(out, q)
			continue
		}
		if sc, ok := c.(constraint.Spatial[T]); ok {
			out = append(out, sc)
		}
	}
	return out
}

func (p *placer[T]) placedInfos() []constraint.PlacedRoomInfo[T] {
	out := make([]constraint.PlacedRoomInfo[T], 0, len(p.rooms))
	for _, id := range p.graph.NodeIDsSorted() {
		if room, ok := p.rooms[id]; ok {
			out = append(out, room.toInfo())
		}
	}
	return out
}

func (p *placer[T]) context() constraint.Context[T] {
	return constraint.Context[T]{Graph: p.graph, Assignments: p.assignments, ZoneOf: p.zoneOf, FloorIndex: -1}
}

// bfsOrder returns (node id, parent id) pairs in BFS order from the
// graph's start node; parent is -1 for the start node itself. Ties broken
// by ascending neighbor id for determinism.
func (p *placer[T]) bfsOrder() [][2]int {
	start := p.graph.StartNodeID
	visited := map[int]bool{start: true}
	queue := []int{start}
	order := [][2]int{{start, -1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		n, _ := p.graph.Node(cur)
		neighbors := n.NeighborIDs()
		sortInts(neighbors)
		for _, nb := range neighbors {
			if !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
				order = append(order, [2]int{nb, cur})
			}
		}
	}
	return order
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func (p *placer[T]) run() error {
	order := p.bfsOrder()
	if len(order) != p.graph.NodeCount() {
		return floorerr.NewInvalidConfiguration("placement", "graph is not fully reachable from the start node", nil)
	}

	for _, pair := range order {
		nodeID, parentID := pair[0], pair[1]
		if parentID == -1 {
			if err := p.placeRoot(nodeID); err != nil {
				return err
			}
			continue
		}
		if err := p.placeChild(nodeID, parentID); err != nil {
			return err
		}
	}
	return nil
}

func (p *placer[T]) placeRoot(nodeID int) error {
	tmpl := p.templates[nodeID]
	if tmpl == nil {
		return floorerr.NewInvalidConfiguration("placement", "no template selected for node", nodeID)
	}
	p.commit(nodeID, tmpl, p.cfg.SpawnAnchor)
	return nil
}

// placeChild attempts to anchor nodeID's template so it faces parentID
// across a single reserved gap cell, trying parent boundary edges and
// child boundary edges in a deterministic shuffled order.
func (p *placer[T]) placeChild(nodeID, parentID int) error {
	parent, ok := p.rooms[parentID]
	if !ok {
		return floorerr.NewInvalidConfiguration("placement", "parent node not yet placed", parentID)
	}
	childTmpl := p.templates[nodeID]
	if childTmpl == nil {
		return floorerr.NewInvalidConfiguration("placement", "no template selected for node", nodeID)
	}

	parentEdges := parent.Template.ExteriorEdges()
	p.stream.Shuffle(len(parentEdges), func(i, j int) { parentEdges[i], parentEdges[j] = parentEdges[j], parentEdges[i] })

	roomType := p.assignments[nodeID]
	spatialConstraints := p.constraintsFor(roomType)
	placedInfos := p.placedInfos()
	ctx := p.context()

	attempts := 0
	for _, pe := range parentEdges {
		if !parent.Template.DoorEdges.Permits(pe.Edge) {
			continue
		}
		parentWorldCell := parent.Anchor.Add(pe.Cell.X, pe.Cell.Y)
		doorCell := parentWorldCell.Neighbor(pe.Edge)
		if _, occ := p.occupied[doorCell]; occ || p.reserved[doorCell] {
			continue
		}

		childEdges := childTmpl.ExteriorEdges()
		wantEdge := pe.Edge.Opposite()
		p.stream.Shuffle(len(childEdges), func(i, j int) { childEdges[i], childEdges[j] = childEdges[j], childEdges[i] })

		for _, ce := range childEdges {
			if ce.Edge != wantEdge || !childTmpl.DoorEdges.Permits(ce.Edge) {
				continue
			}
			attempts++
			p.attempts++
			if attempts > p.cfg.MaxRetriesPerNode {
				return floorerr.NewSpatialPlacement("placement", fmt.Sprintf("exceeded %d placement attempts", p.cfg.MaxRetriesPerNode), nodeID)
			}

			childWorldCell := doorCell.Neighbor(pe.Edge)
			anchor := geo.C(childWorldCell.X-ce.Cell.X, childWorldCell.Y-ce.Cell.Y)

			if !p.fits(nodeID, childTmpl, anchor, doorCell) {
				continue
			}
			if !p.satisfiesSpatial(nodeID, anchor, childTmpl, spatialConstraints, placedInfos, ctx) {
				continue
			}

			p.commit(nodeID, childTmpl, anchor)
			p.reserved[doorCell] = true
			if p.mode == AsNeeded {
				p.directDoors[edgeKey(nodeID, parentID)] = doorCell
			}
			return nil
		}
	}

	// No door-adjacent pose works (spatial constraints can rule out every
	// one, e.g. a minimum-distance bound from the parent's own type). Fall
	// back to a detached anchor; the edge gets no direct door, so the
	// hallway router connects it with an A* corridor.
	anchor, found, err := p.detachedAnchor(nodeID, childTmpl, parent, spatialConstraints, placedInfos, ctx, &attempts)
	if err != nil {
		return err
	}
	if found {
		p.commit(nodeID, childTmpl, anchor)
		return nil
	}

	return floorerr.NewSpatialPlacement("placement", "no valid anchor found for node, adjacent to its parent or detached", nodeID)
}

// fallbackSearchRadius bounds how far (in Manhattan rings around the
// parent anchor) the detached-anchor search looks before giving up.
const fallbackSearchRadius = 64

// detachedAnchor searches outward from the parent's anchor, ring by ring
// in a fixed order, for a free anchor that satisfies every spatial
// constraint and leaves at least one door-capable exterior cell open for
// hallway routing. Attempts count against the same per-node cap as the
// door-adjacent search.
func (p *placer[T]) detachedAnchor(
	nodeID int,
	tmpl *template.RoomTemplate[T],
	parent PlacedRoom[T],
	constraints []constraint.Spatial[T],
	placed []constraint.PlacedRoomInfo[T],
	ctx constraint.Context[T],
	attempts *int,
) (geo.Cell, bool, error) {
	for r := int32(1); r <= fallbackSearchRadius; r++ {
		for dx := -r; dx <= r; dx++ {
			rem := r - absInt32(dx)
			for _, dy := range []int32{-rem, rem} {
				if dy == rem && rem == 0 {
					continue
				}
				*attempts++
				p.attempts++
				if *attempts > p.cfg.MaxRetriesPerNode {
					return geo.Cell{}, false, floorerr.NewSpatialPlacement("placement", fmt.Sprintf("exceeded %d placement attempts", p.cfg.MaxRetriesPerNode), nodeID)
				}

				anchor := parent.Anchor.Add(dx, dy)
				if !p.freeFootprint(tmpl, anchor) {
					continue
				}
				if !p.hasFreeDoorCell(tmpl, anchor) {
					continue
				}
				if !p.satisfiesSpatial(nodeID, anchor, tmpl, constraints, placed, ctx) {
					continue
				}
				return anchor, true, nil
			}
		}
	}
	return geo.Cell{}, false, nil
}

// freeFootprint reports whether every cell of tmpl anchored at anchor is
// unoccupied and unreserved.
func (p *placer[T]) freeFootprint(tmpl *template.RoomTemplate[T], anchor geo.Cell) bool {
	for c := range tmpl.Cells {
		world := anchor.Add(c.X, c.Y)
		if _, occ := p.occupied[world]; occ {
			return false
		}
		if p.reserved[world] {
			return false
		}
	}
	return true
}

// hasFreeDoorCell reports whether some door-capable exterior edge of tmpl
// anchored at anchor has a free outward cell, so the hallway router can
// later attach a door there.
func (p *placer[T]) hasFreeDoorCell(tmpl *template.RoomTemplate[T], anchor geo.Cell) bool {
	for _, ee := range tmpl.ExteriorEdges() {
		if !tmpl.DoorEdges.Permits(ee.Edge) {
			continue
		}
		outward := anchor.Add(ee.Cell.X, ee.Cell.Y).Neighbor(ee.Edge)
		if _, occ := p.occupied[outward]; occ || p.reserved[outward] {
			continue
		}
		return true
	}
	return false
}

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// fits reports whether tmpl anchored at anchor overlaps no occupied cell,
// no reserved door cell (other than doorCell itself, which is expected to
// remain empty), and stays distinct from doorCell.
func (p *placer[T]) fits(nodeID int, tmpl *template.RoomTemplate[T], anchor geo.Cell, doorCell geo.Cell) bool {
	for c := range tmpl.Cells {
		world := anchor.Add(c.X, c.Y)
		if world == doorCell {
			return false
		}
		if owner, occupied := p.occupied[world]; occupied && owner != nodeID {
			return false
		}
		if p.reserved[world] {
			return false
		}
	}
	return true
}

func (p *placer[T]) satisfiesSpatial(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], constraints []constraint.Spatial[T], placed []constraint.PlacedRoomInfo[T], ctx constraint.Context[T]) bool {
	for _, c := range constraints {
		if !c.IsValidSpatially(nodeID, anchor, tmpl, placed, ctx) {
			return false
		}
	}
	return true
}

func (p *placer[T]) commit(nodeID int, tmpl *template.RoomTemplate[T], anchor geo.Cell) {
	room := PlacedRoom[T]{
		NodeID:     nodeID,
		RoomType:   p.assignments[nodeID],
		Template:   tmpl,
		Anchor:     anchor,
		Difficulty: p.difficulties[nodeID],
	}
	p.rooms[nodeID] = room
	for c := range tmpl.Cells {
		p.occupied[anchor.Add(c.X, c.Y)] = nodeID
	}
}
