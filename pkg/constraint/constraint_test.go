package constraint

import (
	"testing"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
)

type roomType int

const (
	spawn roomType = iota
	bossType
	combat
	treasure
)

func lineGraph(t *testing.T, n int) *floorgraph.FloorGraph {
	t.Helper()
	fg := floorgraph.NewFloorGraph()
	for i := 0; i < n; i++ {
		if _, err := fg.AddNode(i); err != nil {
			t.Fatalf("AddNode(%d) error = %v", i, err)
		}
	}
	for i := 1; i < n; i++ {
		if _, err := fg.AddConnection(i-1, i); err != nil {
			t.Fatalf("AddConnection error = %v", err)
		}
	}
	if err := fg.Analyze(0, n-1); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return fg
}

func TestMustBeDeadEnd(t *testing.T) {
	fg := lineGraph(t, 5)
	ctx := Context[roomType]{Graph: fg, Assignments: map[int]roomType{}}
	c := MustBeDeadEnd[roomType]{RoomType: bossType}
	if !c.IsValid(4, ctx) {
		t.Errorf("node 4 (dead end) should satisfy MustBeDeadEnd")
	}
	if c.IsValid(2, ctx) {
		t.Errorf("node 2 (degree 2) should not satisfy MustBeDeadEnd")
	}
}

func TestMaxPerFloor(t *testing.T) {
	ctx := Context[roomType]{Assignments: map[int]roomType{0: treasure, 1: treasure}}
	c := MaxPerFloor[roomType]{RoomType: treasure, K: 2}
	if c.IsValid(2, ctx) {
		t.Errorf("expected MaxPerFloor to reject a third treasure room")
	}
}

func TestMustBeAdjacentTo_EmptyNeighborhoodIsFalse(t *testing.T) {
	fg := lineGraph(t, 3)
	ctx := Context[roomType]{Graph: fg, Assignments: map[int]roomType{}}
	c := MustBeAdjacentTo[roomType]{RoomType: combat, RefTypes: map[roomType]bool{bossType: true}}
	if c.IsValid(1, ctx) {
		t.Errorf("no neighbor assigned bossType yet; should be invalid")
	}
	ctx.Assignments[0] = bossType
	if !c.IsValid(1, ctx) {
		t.Errorf("node 0 (neighbor of 1) now bossType; should be valid")
	}
}

func TestMustNotBeAdjacentTo_RejectsEmptyRefSet(t *testing.T) {
	if _, err := NewMustNotBeAdjacentTo[roomType](combat, nil); err == nil {
		t.Errorf("expected error constructing MustNotBeAdjacentTo with empty ref set")
	}
}

func TestMinDistanceFromRoomType_PermissiveWhenUnassigned(t *testing.T) {
	fg := lineGraph(t, 5)
	ctx := Context[roomType]{Graph: fg, Assignments: map[int]roomType{}}
	c := MinDistanceFromRoomType[roomType]{RoomType: treasure, RefTypes: map[roomType]bool{bossType: true}, D: 3}
	if !c.IsValid(0, ctx) {
		t.Errorf("no boss assigned yet; constraint should be permissive")
	}
}

func TestMustComeBefore_PermissiveWhenRefUnassigned(t *testing.T) {
	fg := lineGraph(t, 5)
	ctx := Context[roomType]{Graph: fg, Assignments: map[int]roomType{}}
	c := MustComeBefore[roomType]{RoomType: combat, RefTypes: map[roomType]bool{bossType: true}}
	if !c.IsValid(2, ctx) {
		t.Errorf("boss not yet assigned; MustComeBefore should be permissive")
	}
}

func TestMustComeBefore_EnforcesOrderOnCriticalPath(t *testing.T) {
	fg := lineGraph(t, 5)
	ctx := Context[roomType]{Graph: fg, Assignments: map[int]roomType{4: bossType}}
	c := MustComeBefore[roomType]{RoomType: combat, RefTypes: map[roomType]bool{bossType: true}}
	if !c.IsValid(1, ctx) {
		t.Errorf("node 1 is before boss (node 4) on the critical path; should be valid")
	}
}

func TestCompositeConstraint_And(t *testing.T) {
	fg := lineGraph(t, 5)
	ctx := Context[roomType]{Graph: fg, Assignments: map[int]roomType{}}
	c := CompositeConstraint[roomType]{
		RoomType: combat,
		Op:       And,
		Children: []Constraint[roomType]{
			MinDistanceFromStart[roomType]{RoomType: combat, D: 1},
			MaxDistanceFromStart[roomType]{RoomType: combat, D: 3},
		},
	}
	if !c.IsValid(2, ctx) {
		t.Errorf("node 2 (distance 2) should satisfy 1<=d<=3")
	}
	if c.IsValid(0, ctx) {
		t.Errorf("node 0 (distance 0) should fail MinDistanceFromStart(1)")
	}
}

func TestCustomConstraint(t *testing.T) {
	c := CustomConstraint[roomType]{
		RoomType: combat,
		Predicate: func(nodeID int, ctx Context[roomType]) bool {
			return nodeID%2 == 0
		},
	}
	if !c.IsValid(2, Context[roomType]{}) {
		t.Errorf("predicate should accept even node ids")
	}
	if c.IsValid(3, Context[roomType]{}) {
		t.Errorf("predicate should reject odd node ids")
	}
}
