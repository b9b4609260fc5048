package secretpassage

import (
	"testing"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/hallway"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
)

type roomType int

const (
	combatT roomType = iota
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

func scatteredRooms(n int) map[int]RoomView[roomType] {
	rooms := make(map[int]RoomView[roomType], n)
	for i := 0; i < n; i++ {
		center := geo.C(int32(i)*10, 0)
		rooms[i] = RoomView[roomType]{
			NodeID:     i,
			RoomType:   combatT,
			OnCritical: i == 0,
			Center:     center,
			WorldCells: map[geo.Cell]bool{center: true},
		}
	}
	return rooms
}

func doorFor(rooms map[int]RoomView[roomType]) func(int) hallway.Door {
	return func(id int) hallway.Door {
		return hallway.Door{Position: rooms[id].Center}
	}
}

func TestInsert_RespectsCountAndMaxDistance(t *testing.T) {
	fg := lineGraph(t, 15)
	rooms := scatteredRooms(15)
	cfg := Config[roomType]{
		Count:              3,
		MaxSpatialDistance: 50,
		AllowGraphConnectedRooms: false,
	}
	obstacles := hallway.NewCellSetObstacles()
	stream := rng.NewStream(rng.StageSecret, 7)

	result, err := Insert[roomType](fg, rooms, cfg, obstacles, doorFor(rooms), stream)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("len(result) = %d, want 3", len(result))
	}
	for _, sp := range result {
		d := rooms[sp.RoomA].Center.ManhattanDistance(rooms[sp.RoomB].Center)
		if d > 50 {
			t.Errorf("pair (%d,%d) distance %d exceeds MaxSpatialDistance 50", sp.RoomA, sp.RoomB, d)
		}
	}
}

func TestInsert_ZeroCountReturnsNil(t *testing.T) {
	fg := lineGraph(t, 5)
	rooms := scatteredRooms(5)
	cfg := Config[roomType]{Count: 0}
	stream := rng.NewStream(rng.StageSecret, 1)

	result, err := Insert[roomType](fg, rooms, cfg, hallway.NewCellSetObstacles(), doorFor(rooms), stream)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result for Count=0, got %v", result)
	}
}

func TestInsert_ExcludesGraphConnectedPairs(t *testing.T) {
	fg := lineGraph(t, 5)
	rooms := scatteredRooms(5)
	cfg := Config[roomType]{
		Count:                    10,
		AllowGraphConnectedRooms: false,
	}
	stream := rng.NewStream(rng.StageSecret, 1)

	result, err := Insert[roomType](fg, rooms, cfg, hallway.NewCellSetObstacles(), doorFor(rooms), stream)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	for _, sp := range result {
		node, _ := fg.Node(sp.RoomA)
		for _, nb := range node.NeighborIDs() {
			if nb == sp.RoomB {
				t.Errorf("pair (%d,%d) is already graph-connected; should have been excluded", sp.RoomA, sp.RoomB)
			}
		}
	}
}

func TestInsert_ExcludesCriticalPathRoomsByDefault(t *testing.T) {
	fg := lineGraph(t, 5)
	rooms := scatteredRooms(5)
	cfg := Config[roomType]{
		Count:                        10,
		AllowCriticalPathConnections: false,
		AllowGraphConnectedRooms:     true,
	}
	stream := rng.NewStream(rng.StageSecret, 1)

	result, err := Insert[roomType](fg, rooms, cfg, hallway.NewCellSetObstacles(), doorFor(rooms), stream)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	for _, sp := range result {
		if rooms[sp.RoomA].OnCritical || rooms[sp.RoomB].OnCritical {
			t.Errorf("pair (%d,%d) includes a critical-path room; should have been excluded", sp.RoomA, sp.RoomB)
		}
	}
}
