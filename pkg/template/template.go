// Package template implements RoomTemplate: a named cell footprint, the
// room types allowed to use it, its door-edge strategy, interior
// features, and the weighted-selection machinery the pipeline draws
// room shapes from.
package template

import (
	"fmt"
	"sort"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
)

// FeatureKind enumerates the interior-feature kinds a template may place
// on one of its own cells.
type FeatureKind int

const (
	Pillar FeatureKind = iota
	Wall
	Hazard
	Decorative
)

func (f FeatureKind) String() string {
	switch f {
	case Pillar:
		return "Pillar"
	case Wall:
		return "Wall"
	case Hazard:
		return "Hazard"
	case Decorative:
		return "Decorative"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// DifficultyBounds restricts a template to nodes whose difficulty falls
// within [Min, Max].
type DifficultyBounds struct {
	Min, Max float64
}

// DoorEdges describes which of a template's exterior edges may host a
// door. AllExterior allows every exterior edge; Allowed restricts to a
// caller-supplied subset.
type DoorEdges struct {
	AllExterior bool
	Allowed     map[geo.Edge]bool // consulted only when AllExterior is false
}

// Permits reports whether edge may host a door under this strategy.
func (d DoorEdges) Permits(edge geo.Edge) bool {
	if d.AllExterior {
		return true
	}
	return d.Allowed[edge]
}

// AllExteriorEdges is the default door-edge strategy: every exterior edge
// of the template may host a door.
func AllExteriorEdges() DoorEdges { return DoorEdges{AllExterior: true} }

// RoomTemplate[T] is a named cell footprint in template-local
// coordinates, anchored at (0,0). T is the room-type identifier type
// shared across the pipeline.
type RoomTemplate[T comparable] struct {
	ID               string
	ValidRoomTypes   map[T]bool
	Weight           float64
	Width, Height    int32
	Cells            map[geo.Cell]bool
	DoorEdges        DoorEdges
	InteriorFeatures map[geo.Cell]FeatureKind
	DifficultyBounds *DifficultyBounds
}

// NewRectangle builds a w x h rectangle template: {(i,j) : 0<=i<w, 0<=j<h}.
func NewRectangle[T comparable](id string, w, h int32, validTypes []T, weight float64) (*RoomTemplate[T], error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("template: rectangle %q must have positive dimensions, got %dx%d", id, w, h)
	}
	cells := make(map[geo.Cell]bool, int(w*h))
	for i := int32(0); i < w; i++ {
		for j := int32(0); j < h; j++ {
			cells[geo.C(i, j)] = true
		}
	}
	return build(id, w, h, cells, validTypes, weight)
}

// NewLShape builds a w x h rectangle with a rectangular cut of size
// (cutW, cutH) removed from the named corner.
func NewLShape[T comparable](id string, w, h, cutW, cutH int32, corner geo.Edge, validTypes []T, weight float64) (*RoomTemplate[T], error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("template: L-shape %q must have positive dimensions, got %dx%d", id, w, h)
	}
	if cutW <= 0 || cutH <= 0 || cutW >= w || cutH >= h {
		return nil, fmt.Errorf("template: L-shape %q cut %dx%d must be smaller than the bounding box %dx%d", id, cutW, cutH, w, h)
	}

	var cutX0, cutY0 int32
	switch corner {
	case geo.North, geo.West: // top-left corner of local coords
		cutX0, cutY0 = 0, 0
	case geo.East:
		cutX0, cutY0 = w-cutW, 0
	case geo.South:
		cutX0, cutY0 = 0, h-cutH
	default:
		cutX0, cutY0 = w-cutW, h-cutH
	}

	cells := make(map[geo.Cell]bool, int(w*h-cutW*cutH))
	for i := int32(0); i < w; i++ {
		for j := int32(0); j < h; j++ {
			if i >= cutX0 && i < cutX0+cutW && j >= cutY0 && j < cutY0+cutH {
				continue
			}
			cells[geo.C(i, j)] = true
		}
	}
	return build(id, w, h, cells, validTypes, weight)
}

// NewCustom builds a template from an explicit cell set. Width/Height are
// derived as the bounding box of cells.
func NewCustom[T comparable](id string, cells []geo.Cell, validTypes []T, weight float64) (*RoomTemplate[T], error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("template: custom template %q must have at least one cell", id)
	}
	set := make(map[geo.Cell]bool, len(cells))
	var maxX, maxY int32
	for _, c := range cells {
		set[c] = true
		if c.X+1 > maxX {
			maxX = c.X + 1
		}
		if c.Y+1 > maxY {
			maxY = c.Y + 1
		}
	}
	return build(id, maxX, maxY, set, validTypes, weight)
}

func build[T comparable](id string, w, h int32, cells map[geo.Cell]bool, validTypes []T, weight float64) (*RoomTemplate[T], error) {
	if id == "" {
		return nil, fmt.Errorf("template: id must not be empty")
	}
	if weight < 0 {
		return nil, fmt.Errorf("template: %q weight must be >= 0, got %f", id, weight)
	}
	types := make(map[T]bool, len(validTypes))
	for _, t := range validTypes {
		types[t] = true
	}
	return &RoomTemplate[T]{
		ID:               id,
		ValidRoomTypes:   types,
		Weight:           weight,
		Width:            w,
		Height:           h,
		Cells:            cells,
		DoorEdges:        AllExteriorEdges(),
		InteriorFeatures: make(map[geo.Cell]FeatureKind),
	}, nil
}

// IsExteriorEdge reports whether edge of cell c faces outside the
// template footprint: c is in Cells and the neighbor across edge is not.
func (t *RoomTemplate[T]) IsExteriorEdge(c geo.Cell, edge geo.Edge) bool {
	if !t.Cells[c] {
		return false
	}
	return !t.Cells[c.Neighbor(edge)]
}

// ExteriorEdges enumerates every (cell, edge) pair on the footprint's
// boundary, sorted for deterministic iteration.
func (t *RoomTemplate[T]) ExteriorEdges() []struct {
	Cell geo.Cell
	Edge geo.Edge
} {
	var out []struct {
		Cell geo.Cell
		Edge geo.Edge
	}
	cells := t.sortedCells()
	for _, c := range cells {
		for _, e := range []geo.Edge{geo.North, geo.South, geo.East, geo.West} {
			if t.IsExteriorEdge(c, e) {
				out = append(out, struct {
					Cell geo.Cell
					Edge geo.Edge
				}{c, e})
			}
		}
	}
	return out
}

func (t *RoomTemplate[T]) sortedCells() []geo.Cell {
	cells := make([]geo.Cell, 0, len(t.Cells))
	for c := range t.Cells {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
	return cells
}

// AddInteriorFeature places kind at c. Rejected unless c is a footprint
// cell that does not lie on any exterior edge.
func (t *RoomTemplate[T]) AddInteriorFeature(c geo.Cell, kind FeatureKind) error {
	if !t.Cells[c] {
		return fmt.Errorf("template: %q interior feature at %s is outside the footprint", t.ID, c)
	}
	for _, e := range []geo.Edge{geo.North, geo.South, geo.East, geo.West} {
		if t.IsExteriorEdge(c, e) {
			return fmt.Errorf("template: %q interior feature at %s lies on an exterior edge", t.ID, c)
		}
	}
	t.InteriorFeatures[c] = kind
	return nil
}

// AllowsRoomType reports whether roomType may use this template.
func (t *RoomTemplate[T]) AllowsRoomType(roomType T) bool {
	return t.ValidRoomTypes[roomType]
}

// AllowsDifficulty reports whether difficulty falls within the template's
// bounds, or true if no bounds are set.
func (t *RoomTemplate[T]) AllowsDifficulty(difficulty float64) bool {
	if t.DifficultyBounds == nil {
		return true
	}
	return difficulty >= t.DifficultyBounds.Min && difficulty <= t.DifficultyBounds.Max
}
