package constraint

import (
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/template"
)

// Quadrant is a bitset over the four corner regions plus the center
// region of the current occupied bounding box, for MustBeInQuadrant.
type Quadrant uint8

const (
	TopLeft Quadrant = 1 << iota
	TopRight
	BottomLeft
	BottomRight
	Center
)

// Has reports whether q includes region.
func (q Quadrant) Has(region Quadrant) bool { return q&region != 0 }

// boundingBox returns the min/max corners of the union of every placed
// room's world cells. ok is false if placed is empty.
func boundingBox[T comparable](placed []PlacedRoomInfo[T]) (min, max geo.Cell, ok bool) {
	first := true
	for _, p := range placed {
		for c := range p.WorldCells {
			if first {
				min, max = c, c
				first = false
				continue
			}
			if c.X < min.X {
				min.X = c.X
			}
			if c.Y < min.Y {
				min.Y = c.Y
			}
			if c.X > max.X {
				max.X = c.X
			}
			if c.Y > max.Y {
				max.Y = c.Y
			}
		}
	}
	return min, max, !first
}

// MustBeInQuadrant requires the candidate anchor, relative to the center
// of the bounding box over currently placed rooms, to lie in one of the
// regions set in Regions. CenterThresholdPct (default 0.15) controls how
// close to centroid counts as Center, as a fraction of each axis's
// half-extent.
type MustBeInQuadrant[T comparable] struct {
	RoomType           T
	Regions            Quadrant
	CenterThresholdPct float64
}

func (c MustBeInQuadrant[T]) TargetRoomType() T { return c.RoomType }

// IsValid is permissive at assignment time: quadrant membership needs
// placed-room geometry that doesn't exist yet, so the graph-level check
// always passes; IsValidSpatially is authoritative.
func (c MustBeInQuadrant[T]) IsValid(nodeID int, ctx Context[T]) bool { return true }

func (c MustBeInQuadrant[T]) IsValidSpatially(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], placed []PlacedRoomInfo[T], ctx Context[T]) bool {
	min, max, ok := boundingBox(placed)
	if !ok {
		return true
	}
	cx := float64(min.X+max.X) / 2
	cy := float64(min.Y+max.Y) / 2
	halfW := float64(max.X-min.X) / 2
	halfH := float64(max.Y-min.Y) / 2

	thresholdPct := c.CenterThresholdPct
	if thresholdPct <= 0 {
		thresholdPct = 0.15
	}

	dx := float64(anchor.X) - cx
	dy := float64(anchor.Y) - cy

	if c.Regions.Has(Center) {
		if halfW*thresholdPct >= absF(dx) && halfH*thresholdPct >= absF(dy) {
			return true
		}
	}
	var region Quadrant
	switch {
	case dx < 0 && dy < 0:
		region = TopLeft
	case dx >= 0 && dy < 0:
		region = TopRight
	case dx < 0 && dy >= 0:
		region = BottomLeft
	default:
		region = BottomRight
	}
	return c.Regions.Has(region)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// MustBeInRegion requires every world-cell of the candidate placement to
// lie within [MinX,MaxX] x [MinY,MaxY].
type MustBeInRegion[T comparable] struct {
	RoomType               T
	MinX, MaxX, MinY, MaxY int32
}

func (c MustBeInRegion[T]) TargetRoomType() T                       { return c.RoomType }
func (c MustBeInRegion[T]) IsValid(nodeID int, ctx Context[T]) bool { return true }
func (c MustBeInRegion[T]) IsValidSpatially(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], placed []PlacedRoomInfo[T], ctx Context[T]) bool {
	for cell := range tmpl.Cells {
		world := anchor.Add(cell.X, cell.Y)
		if world.X < c.MinX || world.X > c.MaxX || world.Y < c.MinY || world.Y > c.MaxY {
			return false
		}
	}
	return true
}

// minCellDistance returns the minimum Manhattan distance between any cell
// of a and any cell of b.
func minCellDistance(a, b map[geo.Cell]bool) int {
	min := -1
	for ca := range a {
		for cb := range b {
			d := ca.ManhattanDistance(cb)
			if min == -1 || d < min {
				min = d
			}
		}
	}
	return min
}

func worldCells[T comparable](anchor geo.Cell, tmpl *template.RoomTemplate[T]) map[geo.Cell]bool {
	out := make(map[geo.Cell]bool, len(tmpl.Cells))
	for c := range tmpl.Cells {
		out[anchor.Add(c.X, c.Y)] = true
	}
	return out
}

// MinSpatialDistanceFromRoomType requires the Manhattan distance between
// the candidate's world cells and the nearest already-placed room of a ref
// type to be >= D.
type MinSpatialDistanceFromRoomType[T comparable] struct {
	RoomType T
	RefTypes map[T]bool
	D        int
}

func (c MinSpatialDistanceFromRoomType[T]) TargetRoomType() T                       { return c.RoomType }
func (c MinSpatialDistanceFromRoomType[T]) IsValid(nodeID int, ctx Context[T]) bool { return true }
func (c MinSpatialDistanceFromRoomType[T]) IsValidSpatially(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], placed []PlacedRoomInfo[T], ctx Context[T]) bool {
	candidate := worldCells(anchor, tmpl)
	for _, p := range placed {
		if !c.RefTypes[p.RoomType] {
			continue
		}
		if minCellDistance(candidate, p.WorldCells) < c.D {
			return false
		}
	}
	return true
}

// MaxSpatialDistanceFromRoomType mirrors the Min variant with a <= bound;
// if no ref-typed room has been placed yet, it is permissive.
type MaxSpatialDistanceFromRoomType[T comparable] struct {
	RoomType T
	RefTypes map[T]bool
	D        int
}

func (c MaxSpatialDistanceFromRoomType[T]) TargetRoomType() T                       { return c.RoomType }
func (c MaxSpatialDistanceFromRoomType[T]) IsValid(nodeID int, ctx Context[T]) bool { return true }
func (c MaxSpatialDistanceFromRoomType[T]) IsValidSpatially(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], placed []PlacedRoomInfo[T], ctx Context[T]) bool {
	candidate := worldCells(anchor, tmpl)
	nearest := -1
	for _, p := range placed {
		if !c.RefTypes[p.RoomType] {
			continue
		}
		if d := minCellDistance(candidate, p.WorldCells); nearest == -1 || d < nearest {
			nearest = d
		}
	}
	return nearest == -1 || nearest <= c.D
}

// MinSpatialDistanceFromStart requires Manhattan distance from the
// already-placed spawn room to be >= D.
type MinSpatialDistanceFromStart[T comparable] struct {
	RoomType T
	D        int
}

func (c MinSpatialDistanceFromStart[T]) TargetRoomType() T                       { return c.RoomType }
func (c MinSpatialDistanceFromStart[T]) IsValid(nodeID int, ctx Context[T]) bool { return true }
func (c MinSpatialDistanceFromStart[T]) IsValidSpatially(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], placed []PlacedRoomInfo[T], ctx Context[T]) bool {
	candidate := worldCells(anchor, tmpl)
	for _, p := range placed {
		if p.NodeID != ctx.Graph.StartNodeID {
			continue
		}
		return minCellDistance(candidate, p.WorldCells) >= c.D
	}
	return true
}

// MaxSpatialDistanceFromStart mirrors MinSpatialDistanceFromStart with a
// <= bound.
type MaxSpatialDistanceFromStart[T comparable] struct {
	RoomType T
	D        int
}

func (c MaxSpatialDistanceFromStart[T]) TargetRoomType() T                       { return c.RoomType }
func (c MaxSpatialDistanceFromStart[T]) IsValid(nodeID int, ctx Context[T]) bool { return true }
func (c MaxSpatialDistanceFromStart[T]) IsValidSpatially(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], placed []PlacedRoomInfo[T], ctx Context[T]) bool {
	candidate := worldCells(anchor, tmpl)
	for _, p := range placed {
		if p.NodeID != ctx.Graph.StartNodeID {
			continue
		}
		return minCellDistance(candidate, p.WorldCells) <= c.D
	}
	return true
}

// MustFormSpatialCluster requires the candidate to be within Manhattan
// distance R of some existing room of the same type. The first room of
// its type is always valid.
type MustFormSpatialCluster[T comparable] struct {
	RoomType T
	R        int
	MinSize  int
}

func (c MustFormSpatialCluster[T]) TargetRoomType() T                       { return c.RoomType }
func (c MustFormSpatialCluster[T]) IsValid(nodeID int, ctx Context[T]) bool { return true }
func (c MustFormSpatialCluster[T]) IsValidSpatially(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], placed []PlacedRoomInfo[T], ctx Context[T]) bool {
	candidate := worldCells(anchor, tmpl)
	any := false
	for _, p := range placed {
		if p.RoomType != c.RoomType {
			continue
		}
		any = true
		if minCellDistance(candidate, p.WorldCells) <= c.R {
			return true
		}
	}
	return !any
}
