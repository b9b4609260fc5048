// Command dungeongen generates a single dungeon floor from command-line
// flags and prints a summary to stdout. It has no file format of its own:
// persistence and rendering are external collaborators, so
// this binary exists only to exercise pkg/dungeonfloor end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/dlog"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/dungeonfloor"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/floorgraph"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/placement"
	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/template"
)

const version = "1.0.0"

var (
	seedFlag      = flag.Int64("seed", 12345, "master PRNG seed")
	roomCountFlag = flag.Int("rooms", 10, "number of abstract rooms")
	branchingFlag = flag.Float64("branching", 0.1, "branching factor in [0,1]")
	verbose       = flag.Bool("verbose", false, "enable verbose diagnostic logging")
	versionF      = flag.Bool("version", false, "print version and exit")
)

// roomType is the CLI's concrete room-type identifier; a library consumer
// is free to parameterize dungeonfloor.Config over any comparable type.
type roomType string

const (
	spawnRoom    roomType = "spawn"
	bossRoom     roomType = "boss"
	combatRoom   roomType = "combat"
	treasureRoom roomType = "treasure"
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("dungeongen version %s\n", version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	var logger *dlog.Logger
	if *verbose {
		logger = dlog.New(dlog.LevelDebug, nil)
	}

	cfg, err := buildConfig()
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}

	gen := &dungeonfloor.Generator[roomType]{Logger: logger}

	start := time.Now()
	layout, err := gen.Generate(ctx, cfg)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	elapsed := time.Since(start)

	printSummary(layout, elapsed)
	return nil
}

func buildConfig() (dungeonfloor.Config[roomType], error) {
	square, err := template.NewRectangle[roomType]("square3x3", 3, 3, []roomType{spawnRoom, bossRoom, combatRoom, treasureRoom}, 1)
	if err != nil {
		return dungeonfloor.Config[roomType]{}, err
	}

	return dungeonfloor.Config[roomType]{
		Seed:            *seedFlag,
		RoomCount:       *roomCountFlag,
		SpawnRoomType:   spawnRoom,
		BossRoomType:    bossRoom,
		DefaultRoomType: combatRoom,
		Templates:       []*template.RoomTemplate[roomType]{square},
		BranchingFactor: float32(*branchingFlag),
		HallwayMode:     dungeonfloor.AsNeeded,
		GraphAlgorithm:  floorgraph.DefaultGeneratorConfig(),
		PlacementConfig: placement.DefaultConfig(),
	}, nil
}

func printSummary(layout *dungeonfloor.FloorLayout[roomType], elapsed time.Duration) {
	fmt.Printf("Generated dungeon (seed=%d) in %v\n", layout.Seed, elapsed)
	fmt.Printf("  Rooms: %d\n", len(layout.Rooms))
	fmt.Printf("  Hallways: %d\n", len(layout.Hallways))
	fmt.Printf("  Spawn room: %d\n", layout.SpawnRoomID)
	fmt.Printf("  Boss room: %d\n", layout.BossRoomID)
	fmt.Printf("  Critical path length: %d\n", len(layout.CriticalPath))
	if len(layout.SecretPassages) > 0 {
		fmt.Printf("  Secret passages: %d\n", len(layout.SecretPassages))
	}
	if len(layout.Clusters) > 0 {
		total := 0
		for _, cs := range layout.Clusters {
			total += len(cs)
		}
		fmt.Printf("  Clusters: %d\n", total)
	}
}
