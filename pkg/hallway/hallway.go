// Package hallway implements the A* corridor router. Given two door
// cells on the integer lattice, it finds a 4-connected path around
// already-placed room footprints and reduces it to a minimal run of
// horizontal/vertical HallwaySegments.
//
// The priority queue is a container/heap min-heap rather than
// gonum.org/v1/gonum/graph/path.AStar because the tie-break rule (lowest
// g-score, then lexicographic (x, y)) isn't a hook gonum's generic A*
// exposes.
package hallway

import (
	"container/heap"
	"fmt"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorerr"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
)

// Mode selects whether every graph edge gets a routed hallway or only
// edges whose rooms were not already placed door-adjacent.
type Mode int

const (
	AsNeeded Mode = iota
	Always
)

// HallwaySegment is a maximal collinear run of the routed path.
type HallwaySegment struct {
	Start, End geo.Cell
}

// GetCells enumerates every lattice point from Start to End inclusive.
func (s HallwaySegment) GetCells() []geo.Cell {
	if s.Start == s.End {
		return []geo.Cell{s.Start}
	}
	var cells []geo.Cell
	dx := sign(s.End.X - s.Start.X)
	dy := sign(s.End.Y - s.Start.Y)
	cur := s.Start
	cells = append(cells, cur)
	for cur != s.End {
		cur = geo.C(cur.X+dx, cur.Y+dy)
		cells = append(cells, cur)
	}
	return cells
}

func sign(v int32) int32 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Door mirrors the data model's Door entity: a cell outside a room's
// world cells, adjacent across edge to one of that room's interior cells.
type Door struct {
	Position         geo.Cell
	Edge             geo.Edge
	ConnectsToRoomID int
}

// Hallway is the fully routed result connecting two doors.
type Hallway struct {
	ID       int
	Segments []HallwaySegment
	DoorA    Door
	DoorB    Door
}

// Obstacles reports, for a candidate lattice cell, whether it is occupied
// by a room's world cells or reserved by another hallway, making it
// untraversable.
type Obstacles interface {
	Blocked(c geo.Cell) bool
}

// Config bounds the search.
type Config struct {
	MaxExploredCells int // 0 uses DefaultMaxExploredCells
}

// DefaultMaxExploredCells bounds A*'s open-set exploration before the
// router gives up and reports a routing failure.
const DefaultMaxExploredCells = 50000

// Route runs A* from start to goal (exclusive of room interiors, via
// obstacles) and returns the hallway connecting doorA and doorB. start and
// goal are expected to be the two door positions themselves.
func Route(doorA, doorB Door, obstacles Obstacles, cfg Config) (*Hallway, error) {
	maxExplored := cfg.MaxExploredCells
	if maxExplored <= 0 {
		maxExplored = DefaultMaxExploredCells
	}

	path, err := astar(doorA.Position, doorB.Position, obstacles, maxExplored)
	if err != nil {
		return nil, floorerr.NewSpatialPlacement("hallway", err.Error(), fmt.Sprintf("%v -> %v", doorA.Position, doorB.Position))
	}

	for i := 0; i+1 < len(path); i++ {
		if !path[i].IsAdjacent4(path[i+1]) {
			return nil, floorerr.NewSpatialPlacement("hallway", "reconstructed path is not 4-adjacent", nil)
		}
	}

	return &Hallway{Segments: coalesce(path), DoorA: doorA, DoorB: doorB}, nil
}

// coalesce reduces a cell path into maximal horizontal/vertical runs;
// consecutive segments share exactly one cell (the turning point).
func coalesce(path []geo.Cell) []HallwaySegment {
	if len(path) == 0 {
		return nil
	}
	if len(path) == 1 {
		return []HallwaySegment{{Start: path[0], End: path[0]}}
	}

	var segments []HallwaySegment
	segStart := 0
	dirX, dirY := direction(path[0], path[1])

	for i := 1; i+1 < len(path); i++ {
		ndx, ndy := direction(path[i], path[i+1])
		if ndx != dirX || ndy != dirY {
			segments = append(segments, HallwaySegment{Start: path[segStart], End: path[i]})
			segStart = i
			dirX, dirY = ndx, ndy
		}
	}
	segments = append(segments, HallwaySegment{Start: path[segStart], End: path[len(path)-1]})
	return segments
}

func direction(a, b geo.Cell) (int32, int32) {
	return sign(b.X - a.X), sign(b.Y - a.Y)
}

type openItem struct {
	cell  geo.Cell
	g     int
	f     int
	index int
}

type openHeap []*openItem

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].g != h[j].g {
		return h[i].g < h[j].g
	}
	return h[i].cell.Less(h[j].cell)
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openHeap) Push(x any) {
	item := x.(*openItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *openHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// astar runs A* on the 4-connected integer lattice from start to goal,
// treating obstacle-blocked cells (other than start/goal themselves) as
// impassable. Tie-breaking on equal f: lower g first, then lexicographic
// (x, y) of the cell (geo.Cell.Less).
func astar(start, goal geo.Cell, obstacles Obstacles, maxExplored int) ([]geo.Cell, error) {
	if start == goal {
		return []geo.Cell{start}, nil
	}

	gScore := map[geo.Cell]int{start: 0}
	cameFrom := map[geo.Cell]geo.Cell{}
	closed := map[geo.Cell]bool{}

	open := &openHeap{{cell: start, g: 0, f: heuristic(start, goal)}}
	heap.Init(open)

	explored := 0
	for open.Len() > 0 {
		cur := heap.Pop(open).(*openItem)
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true
		explored++
		if explored > maxExplored {
			return nil, fmt.Errorf("exceeded %d explored cells without reaching the goal", maxExplored)
		}

		if cur.cell == goal {
			return reconstruct(cameFrom, start, goal), nil
		}

		for _, nb := range cur.cell.Neighbors4() {
			if closed[nb] {
				continue
			}
			if nb != goal && nb != start && obstacles != nil && obstacles.Blocked(nb) {
				continue
			}
			tentativeG := cur.g + 1
			if existing, ok := gScore[nb]; ok && existing <= tentativeG {
				continue
			}
			gScore[nb] = tentativeG
			cameFrom[nb] = cur.cell
			heap.Push(open, &openItem{cell: nb, g: tentativeG, f: tentativeG + heuristic(nb, goal)})
		}
	}

	return nil, fmt.Errorf("no path found from %v to %v", start, goal)
}

func heuristic(a, b geo.Cell) int {
	return a.ManhattanDistance(b)
}

func reconstruct(cameFrom map[geo.Cell]geo.Cell, start, goal geo.Cell) []geo.Cell {
	path := []geo.Cell{goal}
	cur := goal
	for cur != start {
		cur = cameFrom[cur]
		path = append([]geo.Cell{cur}, path...)
	}
	return path
}

// CellSetObstacles is the straightforward Obstacles implementation: a cell
// is blocked iff it belongs to the union of room world cells or reserved
// hallway cells supplied at construction.
type CellSetObstacles struct {
	cells map[geo.Cell]bool
}

// NewCellSetObstacles unions every supplied cell set into one obstacle
// index.
func NewCellSetObstacles(sets ...map[geo.Cell]bool) *CellSetObstacles {
	merged := make(map[geo.Cell]bool)
	for _, set := range sets {
		for c := range set {
			merged[c] = true
		}
	}
	return &CellSetObstacles{cells: merged}
}

func (o *CellSetObstacles) Blocked(c geo.Cell) bool { return o.cells[c] }

// Reserve adds a cell (e.g. a newly routed hallway's cells) to the
// obstacle set, so subsequent Route calls treat it as occupied.
func (o *CellSetObstacles) Reserve(c geo.Cell) { o.cells[c] = true }
