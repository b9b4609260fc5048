package constraint

import (
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/template"
)

// Op selects how CompositeConstraint combines its children.
type Op int

const (
	And Op = iota
	Or
)

// CompositeConstraint logically combines child constraints that all share
// the same target room type. Every composite implements Spatial via
// IsValidSpatially, whatever its children are; non-spatial children are
// evaluated through IsValid inside IsValidSpatially too, so a mixed
// composite is still fully checked at placement time.
type CompositeConstraint[T comparable] struct {
	RoomType T
	Op       Op
	Children []Constraint[T]
}

func (c CompositeConstraint[T]) TargetRoomType() T { return c.RoomType }

func (c CompositeConstraint[T]) IsValid(nodeID int, ctx Context[T]) bool {
	switch c.Op {
	case Or:
		for _, child := range c.Children {
			if child.IsValid(nodeID, ctx) {
				return true
			}
		}
		return len(c.Children) == 0
	default:
		for _, child := range c.Children {
			if !child.IsValid(nodeID, ctx) {
				return false
			}
		}
		return true
	}
}

// IsValidSpatially evaluates every child, using IsValidSpatially for
// children that implement Spatial[T] and IsValid for the rest.
func (c CompositeConstraint[T]) IsValidSpatially(nodeID int, anchor geo.Cell, tmpl *template.RoomTemplate[T], placed []PlacedRoomInfo[T], ctx Context[T]) bool {
	evalChild := func(child Constraint[T]) bool {
		if sc, ok := child.(Spatial[T]); ok {
			return sc.IsValidSpatially(nodeID, anchor, tmpl, placed, ctx)
		}
		return child.IsValid(nodeID, ctx)
	}
	switch c.Op {
	case Or:
		for _, child := range c.Children {
			if evalChild(child) {
				return true
			}
		}
		return len(c.Children) == 0
	default:
		for _, child := range c.Children {
			if !evalChild(child) {
				return false
			}
		}
		return true
	}
}

// CustomConstraint wraps an arbitrary predicate. Predicate receives the
// candidate node id and the graph context, mirroring every other graph
// constraint's IsValid signature.
type CustomConstraint[T comparable] struct {
	RoomType  T
	Predicate func(nodeID int, ctx Context[T]) bool
}

func (c CustomConstraint[T]) TargetRoomType() T { return c.RoomType }
func (c CustomConstraint[T]) IsValid(nodeID int, ctx Context[T]) bool {
	return c.Predicate(nodeID, ctx)
}
