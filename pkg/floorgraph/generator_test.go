package floorgraph

import (
	"testing"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
	"pgregory.net/rapid"
)

func allAlgorithmConfigs() []GeneratorConfig {
	return []GeneratorConfig{
		{Algorithm: SpanningTree},
		{Algorithm: GridBased, GridBased: GridBasedConfig{GridWidth: 4, GridHeight: 4, Connectivity: FourWay}},
		{Algorithm: GridBased, GridBased: GridBasedConfig{GridWidth: 4, GridHeight: 4, Connectivity: EightWay}},
		{Algorithm: CellularAutomata, CellularAutomata: CellularAutomataConfig{BirthThreshold: 4, SurvivalThreshold: 3, Iterations: 4, GridWidth: 8, GridHeight: 8}},
		{Algorithm: MazeBased, MazeBased: MazeBasedConfig{Type: Perfect, Algorithm: Prims}},
		{Algorithm: MazeBased, MazeBased: MazeBasedConfig{Type: Perfect, Algorithm: Kruskals}},
		{Algorithm: MazeBased, MazeBased: MazeBasedConfig{Type: Imperfect, Algorithm: Prims}},
		{Algorithm: HubAndSpoke, HubAndSpoke: HubAndSpokeConfig{HubCount: 3, MaxSpokeLength: 2}},
	}
}

func TestGenerate_ProducesConnectedGraphOfCorrectSize(t *testing.T) {
	for _, cfg := range allAlgorithmConfigs() {
		cfg := cfg
		t.Run(cfg.Algorithm.String(), func(t *testing.T) {
			stream := rng.NewStream(rng.StageGraph, 777)
			fg, err := Generate(15, 0.2, stream, cfg)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if fg.NodeCount() != 15 {
				t.Fatalf("NodeCount() = %d, want 15", fg.NodeCount())
			}
			if !fg.IsConnected() {
				t.Fatalf("algorithm %s produced a disconnected graph", cfg.Algorithm)
			}
		})
	}
}

func TestGenerate_EdgesAreUniqueAndUnordered(t *testing.T) {
	for _, cfg := range allAlgorithmConfigs() {
		cfg := cfg
		t.Run(cfg.Algorithm.String(), func(t *testing.T) {
			stream := rng.NewStream(rng.StageGraph, 42)
			fg, err := Generate(12, 0.3, stream, cfg)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			seen := make(map[[2]int]bool)
			for _, c := range fg.Connections() {
				a, b := c.AID, c.BID
				if a > b {
					a, b = b, a
				}
				key := [2]int{a, b}
				if seen[key] {
					t.Fatalf("duplicate edge (%d,%d)", a, b)
				}
				seen[key] = true
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	for _, cfg := range allAlgorithmConfigs() {
		cfg := cfg
		t.Run(cfg.Algorithm.String(), func(t *testing.T) {
			s1 := rng.NewStream(rng.StageGraph, 555)
			s2 := rng.NewStream(rng.StageGraph, 555)

			fg1, err := Generate(20, 0.25, s1, cfg)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			fg2, err := Generate(20, 0.25, s2, cfg)
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			if len(fg1.Connections()) != len(fg2.Connections()) {
				t.Fatalf("edge count differs: %d vs %d", len(fg1.Connections()), len(fg2.Connections()))
			}
			for i, c1 := range fg1.Connections() {
				c2 := fg2.Connections()[i]
				if c1.AID != c2.AID || c1.BID != c2.BID {
					t.Fatalf("edge %d differs: (%d,%d) vs (%d,%d)", i, c1.AID, c1.BID, c2.AID, c2.BID)
				}
			}
		})
	}
}

func TestGenerate_RejectsInvalidInput(t *testing.T) {
	stream := rng.NewStream(rng.StageGraph, 1)
	if _, err := Generate(1, 0.2, stream, DefaultGeneratorConfig()); err == nil {
		t.Errorf("expected error for room_count=1")
	}
	if _, err := Generate(10, 1.5, stream, DefaultGeneratorConfig()); err == nil {
		t.Errorf("expected error for branching_factor > 1")
	}
	if _, err := Generate(10, -0.1, stream, DefaultGeneratorConfig()); err == nil {
		t.Errorf("expected error for negative branching_factor")
	}
}

// TestGenerate_ConnectedAcrossRandomSizes is a property test: for any
// room count in a reasonable range and any branching factor, every
// algorithm must return a connected graph with exactly room_count nodes.
func TestGenerate_ConnectedAcrossRandomSizes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		roomCount := rapid.IntRange(2, 40).Draw(rt, "roomCount")
		branching := rapid.Float32Range(0, 1).Draw(rt, "branching")
		seed := rapid.Int64().Draw(rt, "seed")
		cfg := allAlgorithmConfigs()[rapid.IntRange(0, len(allAlgorithmConfigs())-1).Draw(rt, "cfgIdx")]

		stream := rng.NewStream(rng.StageGraph, int32(seed))
		fg, err := Generate(roomCount, branching, stream, cfg)
		if err != nil {
			rt.Fatalf("Generate() error = %v", err)
		}
		if fg.NodeCount() != roomCount {
			rt.Fatalf("NodeCount() = %d, want %d", fg.NodeCount(), roomCount)
		}
		if !fg.IsConnected() {
			rt.Fatalf("algorithm %s produced a disconnected graph (roomCount=%d, branching=%f)", cfg.Algorithm, roomCount, branching)
		}
	})
}
