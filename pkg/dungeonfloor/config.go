// Package dungeonfloor is the generator's public API surface: Config,
// the FloorLayout aggregate, and the Generate/GenerateMulti entry points
// that orchestrate every pipeline stage into one deterministic pass.
package dungeonfloor

import (
	"crypto/sha256"
	"fmt"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/assign"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/constraint"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/difficulty"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorerr"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/placement"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/template"
)

// HallwayMode selects the hallway routing policy.
type HallwayMode int

const (
	// AsNeeded routes a hallway only when rooms are not already
	// door-adjacent (the default).
	AsNeeded HallwayMode = iota
	// Always routes a hallway for every graph edge, even adjacent rooms.
	Always
)

// SecretPassageConfig enables and filters secret-passage insertion.
type SecretPassageConfig[T comparable] struct {
	Count                        int
	MaxSpatialDistance           int
	AllowedRoomTypes             map[T]bool
	ForbiddenRoomTypes           map[T]bool
	AllowCriticalPathConnections bool
	AllowGraphConnectedRooms     bool
}

// DifficultyConfig enables and parameterizes difficulty scoring.
type DifficultyConfig struct {
	Enabled  bool
	Base     float64
	Factor   float64
	Function difficulty.Function
	CustomFn func(distanceFromStart int) float64
	Max      float64
}

// ClusterConfig enables and parameterizes room-cluster detection.
type ClusterConfig[T comparable] struct {
	Enabled            bool
	Epsilon            float64
	MinClusterSize     int
	RoomTypesToCluster map[T]bool
}

// Config is the full recognized option set for a single floor,
// parameterized over the caller's room-type identifier type T.
type Config[T comparable] struct {
	Seed int64

	RoomCount       int
	SpawnRoomType   T
	BossRoomType    T
	DefaultRoomType T

	Templates        []*template.RoomTemplate[T]
	RoomRequirements []assign.RoomRequirement[T]
	Constraints      []constraint.Constraint[T]
	Zones            []floorgraph.Zone[T]

	BranchingFactor float32
	HallwayMode     HallwayMode
	GraphAlgorithm  floorgraph.GeneratorConfig

	SecretPassage *SecretPassageConfig[T]
	Difficulty    *DifficultyConfig
	Cluster       *ClusterConfig[T]

	PlacementConfig placement.Config

	// Trace opts in to a GenerationTrace on the returned layout: the six
	// derived sub-seeds and the step counts the constraint solver and the
	// spatial placer consumed. Generation output is identical either way.
	Trace bool
}

// Validate checks structural preconditions: a too-small room count, an
// out-of-range branching factor, negative template weights, and a
// spawn/boss template gap (no template in the global pool accepts the
// pinned role type).
func (c Config[T]) Validate() error {
	if c.RoomCount < 2 {
		return floorerr.NewInvalidConfiguration("config", "room_count must be >= 2", c.RoomCount)
	}
	if c.BranchingFactor < 0 || c.BranchingFactor > 1 {
		return floorerr.NewInvalidConfiguration("config", "branching_factor must be in [0,1]", c.BranchingFactor)
	}
	if !anyTemplateAllows(c.Templates, c.SpawnRoomType) {
		return floorerr.NewInvalidConfiguration("config", "no template accepts the spawn room type", nil)
	}
	if !anyTemplateAllows(c.Templates, c.BossRoomType) {
		return floorerr.NewInvalidConfiguration("config", "no template accepts the boss room type", nil)
	}
	for _, tmpl := range c.Templates {
		if tmpl.Weight < 0 {
			return floorerr.NewInvalidConfiguration("config", fmt.Sprintf("template %q has a negative weight", tmpl.ID), nil)
		}
	}
	return nil
}

// Hash computes a deterministic digest of the configuration, excluding
// the seed, so callers can detect config drift between two Generate calls
// without diffing the struct by hand. It plays no role in PRNG
// derivation, which is fixed to the seed alone.
func (c Config[T]) Hash() []byte {
	h := sha256.New()
	fmt.Fprintf(h, "rooms=%d spawn=%v boss=%v default=%v branching=%f hallway=%d algo=%d\n",
		c.RoomCount, c.SpawnRoomType, c.BossRoomType, c.DefaultRoomType, c.BranchingFactor, c.HallwayMode, c.GraphAlgorithm.Algorithm)
	for _, tmpl := range c.Templates {
		fmt.Fprintf(h, "template=%s weight=%f w=%d h=%d cells=%d\n", tmpl.ID, tmpl.Weight, tmpl.Width, tmpl.Height, len(tmpl.Cells))
	}
	for _, req := range c.RoomRequirements {
		fmt.Fprintf(h, "require=%v count=%d\n", req.RoomType, req.Count)
	}
	fmt.Fprintf(h, "constraints=%d\n", len(c.Constraints))
	for _, z := range c.Zones {
		fmt.Fprintf(h, "zone=%s templates=%d requirements=%d\n", z.ID, len(z.Templates), len(z.RoomRequirements))
	}
	if c.SecretPassage != nil {
		fmt.Fprintf(h, "secret=%d maxdist=%d\n", c.SecretPassage.Count, c.SecretPassage.MaxSpatialDistance)
	}
	if c.Difficulty != nil {
		fmt.Fprintf(h, "difficulty base=%f factor=%f fn=%d max=%f\n", c.Difficulty.Base, c.Difficulty.Factor, c.Difficulty.Function, c.Difficulty.Max)
	}
	if c.Cluster != nil {
		fmt.Fprintf(h, "cluster eps=%f minsize=%d\n", c.Cluster.Epsilon, c.Cluster.MinClusterSize)
	}
	return h.Sum(nil)
}

func anyTemplateAllows[T comparable](templates []*template.RoomTemplate[T], roomType T) bool {
	for _, tmpl := range templates {
		if tmpl.AllowsRoomType(roomType) {
			return true
		}
	}
	return false
}

func toPlacementMode(m HallwayMode) placement.HallwayMode {
	if m == Always {
		return placement.Always
	}
	return placement.AsNeeded
}
