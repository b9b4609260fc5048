package cluster

import (
	"testing"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
)

type roomType int

const (
	treasureT roomType = iota
	combatT
)

func roomAt(id int, rt roomType, x, y int32) RoomView[roomType] {
	return RoomView[roomType]{NodeID: id, RoomType: rt, WorldCells: map[geo.Cell]bool{geo.C(x, y): true}}
}

func TestDetect_FormsOneClusterForNearbyRooms(t *testing.T) {
	rooms := map[int]RoomView[roomType]{
		0: roomAt(0, treasureT, 0, 0),
		1: roomAt(1, treasureT, 1, 0),
		2: roomAt(2, treasureT, 0, 1),
		3: roomAt(3, treasureT, 100, 100), // far outlier, never clusters
	}
	cfg := Config[roomType]{Epsilon: 2, MinClusterSize: 2}

	clusters := Detect(rooms, cfg)
	if len(clusters) != 1 {
		t.Fatalf("len(clusters) = %d, want 1", len(clusters))
	}
	if clusters[0].GetSize() != 3 {
		t.Errorf("cluster size = %d, want 3", clusters[0].GetSize())
	}
	if clusters[0].ContainsRoom(3) {
		t.Errorf("outlier room 3 should not be in the cluster")
	}
}

func TestDetect_BelowMinSizeNotReported(t *testing.T) {
	rooms := map[int]RoomView[roomType]{
		0: roomAt(0, treasureT, 0, 0),
		1: roomAt(1, treasureT, 1, 0),
	}
	cfg := Config[roomType]{Epsilon: 2, MinClusterSize: 5}
	clusters := Detect(rooms, cfg)
	if len(clusters) != 0 {
		t.Errorf("len(clusters) = %d, want 0 (below MinClusterSize)", len(clusters))
	}
}

func TestDetect_RoomTypesAreIndependent(t *testing.T) {
	rooms := map[int]RoomView[roomType]{
		0: roomAt(0, treasureT, 0, 0),
		1: roomAt(1, treasureT, 1, 0),
		2: roomAt(2, combatT, 0, 0),
		3: roomAt(3, combatT, 1, 0),
	}
	cfg := Config[roomType]{Epsilon: 2, MinClusterSize: 2}
	clusters := Detect(rooms, cfg)
	if len(clusters) != 2 {
		t.Fatalf("len(clusters) = %d, want 2 (one per room type)", len(clusters))
	}
	types := map[roomType]bool{}
	for _, c := range clusters {
		types[c.RoomType] = true
	}
	if !types[treasureT] || !types[combatT] {
		t.Errorf("expected one cluster per room type, got types %v", types)
	}
}

func TestDetect_StableAscendingClusterIDs(t *testing.T) {
	rooms := map[int]RoomView[roomType]{
		5: roomAt(5, treasureT, 0, 0),
		6: roomAt(6, treasureT, 1, 0),
		1: roomAt(1, combatT, 50, 50),
		2: roomAt(2, combatT, 51, 50),
	}
	cfg := Config[roomType]{Epsilon: 2, MinClusterSize: 2}
	clusters := Detect(rooms, cfg)
	if len(clusters) != 2 {
		t.Fatalf("len(clusters) = %d, want 2", len(clusters))
	}
	if clusters[0].ClusterID != 0 || clusters[1].ClusterID != 1 {
		t.Errorf("cluster ids not ascending: %d, %d", clusters[0].ClusterID, clusters[1].ClusterID)
	}
	if clusters[0].minMember() > clusters[1].minMember() {
		t.Errorf("clusters not ordered by ascending minimum member id")
	}
}

func TestRoomCluster_GetAverageDistance(t *testing.T) {
	rooms := map[int]RoomView[roomType]{
		0: roomAt(0, treasureT, 0, 0),
		1: roomAt(1, treasureT, 2, 0),
	}
	c := RoomCluster[roomType]{Rooms: []int{0, 1}, Centroid: geo.C(1, 0)}
	if got := c.GetAverageDistance(rooms); got != 1 {
		t.Errorf("GetAverageDistance() = %v, want 1", got)
	}
}
