package assign

import (
	"testing"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/constraint"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
)

type roomType int

const (
	spawnT roomType = iota
	bossT
	combatT
	treasureT
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

func TestAssign_SpawnAndBossPinned(t *testing.T) {
	fg := lineGraph(t, 5)
	cfg := Config[roomType]{
		SpawnRoomType:   spawnT,
		BossRoomType:    bossT,
		DefaultRoomType: combatT,
		FloorIndex:      -1,
	}
	stream := rng.NewStream(rng.StageGraph, 1)
	result, err := Assign(fg, cfg, nil, stream)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if result[0] != spawnT {
		t.Errorf("node 0 = %v, want spawnT", result[0])
	}
	spawnCount, bossCount := 0, 0
	for _, rt := range result {
		if rt == spawnT {
			spawnCount++
		}
		if rt == bossT {
			bossCount++
		}
	}
	if spawnCount != 1 || bossCount != 1 {
		t.Errorf("spawnCount=%d bossCount=%d, want 1 and 1", spawnCount, bossCount)
	}
}

func TestAssign_BossDeadEndAndTreasureRequirement(t *testing.T) {
	fg := lineGraph(t, 10)
	cfg := Config[roomType]{
		SpawnRoomType:   spawnT,
		BossRoomType:    bossT,
		DefaultRoomType: combatT,
		RoomRequirements: []RoomRequirement[roomType]{
			{RoomType: treasureT, Count: 2},
		},
		Constraints: []constraint.Constraint[roomType]{
			constraint.MustBeDeadEnd[roomType]{RoomType: bossT},
			constraint.MaxPerFloor[roomType]{RoomType: treasureT, K: 2},
		},
		FloorIndex: -1,
	}
	stream := rng.NewStream(rng.StageGraph, 42)
	result, err := Assign(fg, cfg, nil, stream)
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	treasureCount := 0
	var bossID int = -1
	for id, rt := range result {
		if rt == treasureT {
			treasureCount++
		}
		if rt == bossT {
			bossID = id
		}
	}
	if treasureCount != 2 {
		t.Errorf("treasureCount = %d, want 2", treasureCount)
	}
	if bossID == -1 {
		t.Fatalf("no boss room assigned")
	}
	bossNode, _ := fg.Node(bossID)
	if !bossNode.IsDeadEnd() {
		t.Errorf("boss node %d is not a dead end (degree %d)", bossID, bossNode.ConnectionCount())
	}
}

func TestAssign_InfeasibleConfigReturnsInvalidConfiguration(t *testing.T) {
	fg := lineGraph(t, 3)
	cfg := Config[roomType]{
		SpawnRoomType:   spawnT,
		BossRoomType:    bossT,
		DefaultRoomType: combatT,
		Constraints: []constraint.Constraint[roomType]{
			constraint.MinConnectionCount[roomType]{RoomType: bossT, K: 99},
		},
		FloorIndex: -1,
	}
	stream := rng.NewStream(rng.StageGraph, 1)
	if _, err := Assign(fg, cfg, nil, stream); err == nil {
		t.Errorf("expected an infeasibility error")
	}
}

func TestAssign_Deterministic(t *testing.T) {
	fg1 := lineGraph(t, 8)
	fg2 := lineGraph(t, 8)
	cfg := Config[roomType]{
		SpawnRoomType:   spawnT,
		BossRoomType:    bossT,
		DefaultRoomType: combatT,
		RoomRequirements: []RoomRequirement[roomType]{
			{RoomType: treasureT, Count: 1},
		},
		FloorIndex: -1,
	}
	r1, err := Assign(fg1, cfg, nil, rng.NewStream(rng.StageGraph, 99))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	r2, err := Assign(fg2, cfg, nil, rng.NewStream(rng.StageGraph, 99))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	for id, rt := range r1 {
		if r2[id] != rt {
			t.Errorf("node %d: got %v and %v across identical runs", id, rt, r2[id])
		}
	}
}
