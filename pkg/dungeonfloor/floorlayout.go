package dungeonfloor

import (
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/cluster"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/hallway"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/placement"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/secretpassage"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/template"
)

// Room is the layout's public view of one placed room: its assigned type,
// chosen template, world-cell anchor, and derived difficulty.
type Room[T comparable] struct {
	NodeID     int
	RoomType   T
	Template   *template.RoomTemplate[T]
	Anchor     geo.Cell
	Difficulty float64
}

// WorldCells returns the room's footprint translated to world coordinates.
func (r Room[T]) WorldCells() map[geo.Cell]bool {
	out := make(map[geo.Cell]bool, len(r.Template.Cells))
	for c := range r.Template.Cells {
		out[r.Anchor.Add(c.X, c.Y)] = true
	}
	return out
}

// GenerationTrace records the per-stage sub-seeds and the step counts the
// constraint solver and spatial placer consumed against their caps. It is
// populated only when Config.Trace is set; generation itself never reads
// it.
type GenerationTrace struct {
	SubSeeds          map[string]int32
	DrawOrder         []string
	AssignSteps       int
	PlacementAttempts int
}

// FloorLayout is the immutable aggregate output of Generate.
type FloorLayout[T comparable] struct {
	Seed int64

	Graph       *floorgraph.FloorGraph
	Rooms       map[int]Room[T]
	Hallways    []hallway.Hallway
	Doors       []hallway.Door
	DirectDoors map[placement.EdgeKey]geo.Cell

	SpawnRoomID  int
	BossRoomID   int
	CriticalPath []int

	ZoneAssignments floorgraph.ZoneAssignments
	TransitionRooms map[int]bool

	SecretPassages []secretpassage.SecretPassage
	Clusters       map[T][]cluster.RoomCluster[T]

	Trace *GenerationTrace
}

// GetRoom returns the room at nodeID, or false if no such room exists.
func (f *FloorLayout[T]) GetRoom(nodeID int) (Room[T], bool) {
	r, ok := f.Rooms[nodeID]
	return r, ok
}

// GetClustersForRoomType returns the clusters detected for roomType, or
// nil if clustering was disabled or found none.
func (f *FloorLayout[T]) GetClustersForRoomType(roomType T) []cluster.RoomCluster[T] {
	return f.Clusters[roomType]
}

// GetLargestCluster returns the largest cluster across every room type, or
// false if no clusters were detected.
func (f *FloorLayout[T]) GetLargestCluster() (cluster.RoomCluster[T], bool) {
	var best cluster.RoomCluster[T]
	found := false
	for _, clusters := range f.Clusters {
		for _, c := range clusters {
			if !found || c.GetSize() > best.GetSize() {
				best = c
				found = true
			}
		}
	}
	return best, found
}

// GetSecretPassagesForRoom returns every secret passage touching nodeID.
func (f *FloorLayout[T]) GetSecretPassagesForRoom(nodeID int) []secretpassage.SecretPassage {
	var out []secretpassage.SecretPassage
	for _, sp := range f.SecretPassages {
		if sp.RoomA == nodeID || sp.RoomB == nodeID {
			out = append(out, sp)
		}
	}
	return out
}

// GetDifficultyByNodeId returns the difficulty of nodeID, or 0 if absent.
func (f *FloorLayout[T]) GetDifficultyByNodeId(nodeID int) float64 {
	return f.Rooms[nodeID].Difficulty
}

// InteriorFeatures iterates every placed room's interior features in
// world coordinates.
func (f *FloorLayout[T]) InteriorFeatures() map[geo.Cell]template.FeatureKind {
	out := make(map[geo.Cell]template.FeatureKind)
	for _, room := range f.Rooms {
		for c, kind := range room.Template.InteriorFeatures {
			out[room.Anchor.Add(c.X, c.Y)] = kind
		}
	}
	return out
}
