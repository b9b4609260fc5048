package floorgraph

import "testing"

type testRoomType string

func buildZoneTestGraph(t *testing.T) *FloorGraph {
	t.Helper()
	fg := buildLineGraph(t, 9)
	if err := fg.Analyze(0, 8); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return fg
}

func TestAssignZones_FirstMatchWins(t *testing.T) {
	fg := buildZoneTestGraph(t)

	zones := []Zone[testRoomType]{
		{ID: "early", Boundary: ZoneBoundary{Distance: &DistanceBoundary{Min: 0, Max: 8}}},
		{ID: "never", Boundary: ZoneBoundary{Distance: &DistanceBoundary{Min: 0, Max: 3}}},
	}

	assignments, err := AssignZones(fg, zones)
	if err != nil {
		t.Fatalf("AssignZones() error = %v", err)
	}
	for id := 0; id <= 8; id++ {
		if assignments[id] != "early" {
			t.Errorf("node %d zone = %q, want %q (first matching zone must win)", id, assignments[id], "early")
		}
	}
}

func TestAssignZones_UnmatchedNodesAbsent(t *testing.T) {
	fg := buildZoneTestGraph(t)
	zones := []Zone[testRoomType]{
		{ID: "tail", Boundary: ZoneBoundary{Distance: &DistanceBoundary{Min: 6, Max: 8}}},
	}

	assignments, err := AssignZones(fg, zones)
	if err != nil {
		t.Fatalf("AssignZones() error = %v", err)
	}
	for id := 0; id < 6; id++ {
		if _, ok := assignments[id]; ok {
			t.Errorf("node %d should have no zone assignment, got %q", id, assignments[id])
		}
	}
	for id := 6; id <= 8; id++ {
		if assignments[id] != "tail" {
			t.Errorf("node %d zone = %q, want %q", id, assignments[id], "tail")
		}
	}
}

func TestAssignZones_CriticalPathBoundary(t *testing.T) {
	fg := buildZoneTestGraph(t) // critical path is 0..8, length 9
	zones := []Zone[testRoomType]{
		{ID: "finale", Boundary: ZoneBoundary{CriticalPath: &CriticalPathBoundary{StartPct: 0.8, EndPct: 1.0}}},
	}

	assignments, err := AssignZones(fg, zones)
	if err != nil {
		t.Fatalf("AssignZones() error = %v", err)
	}
	// L=9: [0.8*9, 1.0*9] = [7.2, 9.0], so indices 8 only.
	if assignments[8] != "finale" {
		t.Errorf("node 8 (last index) zone = %q, want %q", assignments[8], "finale")
	}
	if _, ok := assignments[0]; ok {
		t.Errorf("node 0 should not match the finale zone")
	}
}

func TestTransitionRooms(t *testing.T) {
	fg := buildZoneTestGraph(t)
	zones := []Zone[testRoomType]{
		{ID: "front", Boundary: ZoneBoundary{Distance: &DistanceBoundary{Min: 0, Max: 3}}},
		{ID: "back", Boundary: ZoneBoundary{Distance: &DistanceBoundary{Min: 4, Max: 8}}},
	}
	assignments, err := AssignZones(fg, zones)
	if err != nil {
		t.Fatalf("AssignZones() error = %v", err)
	}

	transitions := TransitionRooms(fg, assignments)
	if !transitions[3] || !transitions[4] {
		t.Errorf("nodes 3 and 4 straddle the zone boundary and must both be transition rooms, got %v", transitions)
	}
	if transitions[0] || transitions[8] {
		t.Errorf("interior nodes must not be transition rooms, got %v", transitions)
	}
}
