package constraint

// MinDistanceFromStart requires the candidate's BFS distance from the
// spawn room to be >= D.
type MinDistanceFromStart[T comparable] struct {
	RoomType T
	D        int
}

func (c MinDistanceFromStart[T]) TargetRoomType() T { return c.RoomType }
func (c MinDistanceFromStart[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	return ok && n.DistanceFromStart >= c.D
}

// MaxDistanceFromStart requires distance from spawn to be <= D.
type MaxDistanceFromStart[T comparable] struct {
	RoomType T
	D        int
}

func (c MaxDistanceFromStart[T]) TargetRoomType() T { return c.RoomType }
func (c MaxDistanceFromStart[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	return ok && n.DistanceFromStart <= c.D
}

// MinDistanceFromRoomType requires the minimum BFS distance from the
// candidate to any node already assigned one of RefTypes to be >= D. If no
// ref-typed node has been placed yet, the constraint is permissive
// (true).
type MinDistanceFromRoomType[T comparable] struct {
	RoomType T
	RefTypes map[T]bool
	D        int
}

func (c MinDistanceFromRoomType[T]) TargetRoomType() T { return c.RoomType }
func (c MinDistanceFromRoomType[T]) IsValid(nodeID int, ctx Context[T]) bool {
	refs := ctx.NodesOfType(c.RefTypes)
	if len(refs) == 0 {
		return true
	}
	min := -1
	for _, ref := range refs {
		d, err := ctx.Graph.DistanceBetween(nodeID, ref)
		if err != nil {
			continue
		}
		if min == -1 || d < min {
			min = d
		}
	}
	if min == -1 {
		return true
	}
	return min >= c.D
}

// MaxDistanceFromRoomType mirrors MinDistanceFromRoomType with a <= bound.
type MaxDistanceFromRoomType[T comparable] struct {
	RoomType T
	RefTypes map[T]bool
	D        int
}

func (c MaxDistanceFromRoomType[T]) TargetRoomType() T { return c.RoomType }
func (c MaxDistanceFromRoomType[T]) IsValid(nodeID int, ctx Context[T]) bool {
	refs := ctx.NodesOfType(c.RefTypes)
	if len(refs) == 0 {
		return true
	}
	min := -1
	for _, ref := range refs {
		d, err := ctx.Graph.DistanceBetween(nodeID, ref)
		if err != nil {
			continue
		}
		if min == -1 || d < min {
			min = d
		}
	}
	if min == -1 {
		return true
	}
	return min <= c.D
}

// NotOnCriticalPath requires the candidate to be off the critical path.
type NotOnCriticalPath[T comparable] struct{ RoomType T }

func (c NotOnCriticalPath[T]) TargetRoomType() T { return c.RoomType }
func (c NotOnCriticalPath[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	return ok && !n.IsOnCriticalPath
}

// OnlyOnCriticalPath requires the candidate to be on the critical path.
type OnlyOnCriticalPath[T comparable] struct{ RoomType T }

func (c OnlyOnCriticalPath[T]) TargetRoomType() T { return c.RoomType }
func (c OnlyOnCriticalPath[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	return ok && n.IsOnCriticalPath
}

// MustBeDeadEnd requires the candidate to have exactly one connection.
type MustBeDeadEnd[T comparable] struct{ RoomType T }

func (c MustBeDeadEnd[T]) TargetRoomType() T { return c.RoomType }
func (c MustBeDeadEnd[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	return ok && n.IsDeadEnd()
}

// MinConnectionCount requires degree >= K.
type MinConnectionCount[T comparable] struct {
	RoomType T
	K        int
}

func (c MinConnectionCount[T]) TargetRoomType() T { return c.RoomType }
func (c MinConnectionCount[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	return ok && n.ConnectionCount() >= c.K
}

// MaxConnectionCount requires degree <= K.
type MaxConnectionCount[T comparable] struct {
	RoomType T
	K        int
}

func (c MaxConnectionCount[T]) TargetRoomType() T { return c.RoomType }
func (c MaxConnectionCount[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	return ok && n.ConnectionCount() <= c.K
}

// MaxPerFloor requires that fewer than K nodes already hold RoomType.
type MaxPerFloor[T comparable] struct {
	RoomType T
	K        int
}

func (c MaxPerFloor[T]) TargetRoomType() T { return c.RoomType }
func (c MaxPerFloor[T]) IsValid(nodeID int, ctx Context[T]) bool {
	return ctx.CountOf(c.RoomType) < c.K
}

// MustBeAdjacentTo requires at least one graph neighbor already assigned
// one of RefTypes. An empty neighborhood is false.
type MustBeAdjacentTo[T comparable] struct {
	RoomType T
	RefTypes map[T]bool
}

func (c MustBeAdjacentTo[T]) TargetRoomType() T { return c.RoomType }
func (c MustBeAdjacentTo[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	if !ok {
		return false
	}
	for _, nb := range n.NeighborIDs() {
		if rt, assigned := ctx.Assignments[nb]; assigned && c.RefTypes[rt] {
			return true
		}
	}
	return false
}

// MustNotBeAdjacentTo requires no graph neighbor already assigned one of
// RefTypes. An empty neighborhood is true. NewMustNotBeAdjacentTo rejects
// an empty RefTypes set at construction.
type MustNotBeAdjacentTo[T comparable] struct {
	RoomType T
	RefTypes map[T]bool
}

// NewMustNotBeAdjacentTo validates refTypes is non-empty before returning
// the constraint, since an empty ref set would be vacuously always-true
// and likely signals a misconfigured caller.
func NewMustNotBeAdjacentTo[T comparable](roomType T, refTypes map[T]bool) (MustNotBeAdjacentTo[T], error) {
	if len(refTypes) == 0 {
		return MustNotBeAdjacentTo[T]{}, errEmptyRefTypes
	}
	return MustNotBeAdjacentTo[T]{RoomType: roomType, RefTypes: refTypes}, nil
}

func (c MustNotBeAdjacentTo[T]) TargetRoomType() T { return c.RoomType }
func (c MustNotBeAdjacentTo[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	if !ok {
		return true
	}
	for _, nb := range n.NeighborIDs() {
		if rt, assigned := ctx.Assignments[nb]; assigned && c.RefTypes[rt] {
			return false
		}
	}
	return true
}

// MustComeBefore requires that, when both the candidate and some
// already-assigned node of a ref type are on the critical path, the
// candidate's critical-path index is strictly less. Permissive (true) when
// the reference type has no assigned node yet, and when either node is
// off the critical path.
type MustComeBefore[T comparable] struct {
	RoomType T
	RefTypes map[T]bool
}

func (c MustComeBefore[T]) TargetRoomType() T { return c.RoomType }
func (c MustComeBefore[T]) IsValid(nodeID int, ctx Context[T]) bool {
	cpIndex := make(map[int]int, len(ctx.Graph.CriticalPath))
	for i, id := range ctx.Graph.CriticalPath {
		cpIndex[id] = i
	}
	candIdx, candOnPath := cpIndex[nodeID]
	if !candOnPath {
		return true
	}
	for _, ref := range ctx.NodesOfType(c.RefTypes) {
		if ref == nodeID {
			return false
		}
		refIdx, refOnPath := cpIndex[ref]
		if !refOnPath {
			continue
		}
		if candIdx >= refIdx {
			return false
		}
	}
	return true
}

// OnlyInZone requires the candidate's zone id to equal ZoneID.
type OnlyInZone[T comparable] struct {
	RoomType T
	ZoneID   string
}

func (c OnlyInZone[T]) TargetRoomType() T { return c.RoomType }
func (c OnlyInZone[T]) IsValid(nodeID int, ctx Context[T]) bool {
	return ctx.ZoneOf[nodeID] == c.ZoneID
}

// MinDifficulty requires node.Difficulty >= Bound.
type MinDifficulty[T comparable] struct {
	RoomType T
	Bound    float64
}

func (c MinDifficulty[T]) TargetRoomType() T { return c.RoomType }
func (c MinDifficulty[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	return ok && n.Difficulty >= c.Bound
}

// MaxDifficulty requires node.Difficulty <= Bound.
type MaxDifficulty[T comparable] struct {
	RoomType T
	Bound    float64
}

func (c MaxDifficulty[T]) TargetRoomType() T { return c.RoomType }
func (c MaxDifficulty[T]) IsValid(nodeID int, ctx Context[T]) bool {
	n, ok := ctx.Graph.Node(nodeID)
	return ok && n.Difficulty <= c.Bound
}

// Multi-floor constraints. These only bind under the multi-floor outer
// layer (pkg/dungeonfloor.GenerateMulti), which populates
// Context.FloorIndex; within a single Generate call FloorIndex is -1 and
// every multi-floor constraint is permissive.

// OnlyOnFloor requires Context.FloorIndex to be one of Floors.
type OnlyOnFloor[T comparable] struct {
	RoomType T
	Floors   map[int]bool
}

func (c OnlyOnFloor[T]) TargetRoomType() T { return c.RoomType }
func (c OnlyOnFloor[T]) IsValid(nodeID int, ctx Context[T]) bool {
	if ctx.FloorIndex < 0 {
		return true
	}
	return c.Floors[ctx.FloorIndex]
}

// NotOnFloor requires Context.FloorIndex to not be one of Floors.
type NotOnFloor[T comparable] struct {
	RoomType T
	Floors   map[int]bool
}

func (c NotOnFloor[T]) TargetRoomType() T { return c.RoomType }
func (c NotOnFloor[T]) IsValid(nodeID int, ctx Context[T]) bool {
	if ctx.FloorIndex < 0 {
		return true
	}
	return !c.Floors[ctx.FloorIndex]
}

// MinFloor requires Context.FloorIndex >= Index.
type MinFloor[T comparable] struct {
	RoomType T
	Index    int
}

func (c MinFloor[T]) TargetRoomType() T { return c.RoomType }
func (c MinFloor[T]) IsValid(nodeID int, ctx Context[T]) bool {
	if ctx.FloorIndex < 0 {
		return true
	}
	return ctx.FloorIndex >= c.Index
}

// MaxFloor requires Context.FloorIndex <= Index.
type MaxFloor[T comparable] struct {
	RoomType T
	Index    int
}

func (c MaxFloor[T]) TargetRoomType() T { return c.RoomType }
func (c MaxFloor[T]) IsValid(nodeID int, ctx Context[T]) bool {
	if ctx.FloorIndex < 0 {
		return true
	}
	return ctx.FloorIndex <= c.Index
}
