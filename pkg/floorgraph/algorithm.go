package floorgraph

import "fmt"

// Algorithm selects which abstract-graph generation strategy Generate
// uses.
type Algorithm int

const (
	// SpanningTree is the default, backwards-compatible algorithm: a
	// random spanning tree over nodes 0..n-1 plus extra edges added per
	// branching factor.
	SpanningTree Algorithm = iota
	GridBased
	CellularAutomata
	MazeBased
	HubAndSpoke
)

// String returns the algorithm's name.
func (a Algorithm) String() string {
	switch a {
	case SpanningTree:
		return "SpanningTree"
	case GridBased:
		return "GridBased"
	case CellularAutomata:
		return "CellularAutomata"
	case MazeBased:
		return "MazeBased"
	case HubAndSpoke:
		return "HubAndSpoke"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// Connectivity controls which cell adjacencies GridBased treats as
// candidate edges.
type Connectivity int

const (
	FourWay Connectivity = iota
	EightWay
)

// MazeType selects whether MazeBased produces a tree (Perfect) or adds
// loops afterward (Imperfect).
type MazeType int

const (
	Perfect MazeType = iota
	Imperfect
)

// MazeAlgorithm selects the maze-carving algorithm MazeBased uses.
type MazeAlgorithm int

const (
	Prims MazeAlgorithm = iota
	Kruskals
)

// GridBasedConfig parameterizes the GridBased algorithm.
type GridBasedConfig struct {
	GridWidth, GridHeight int
	Connectivity          Connectivity
}

// CellularAutomataConfig parameterizes the CellularAutomata algorithm.
type CellularAutomataConfig struct {
	BirthThreshold    int
	SurvivalThreshold int
	Iterations        int
	// GridWidth/GridHeight bound the CA's working grid; it is resized
	// upward automatically if room_count exceeds the live-cell count the
	// configured grid can plausibly hold.
	GridWidth, GridHeight int
}

// MazeBasedConfig parameterizes the MazeBased algorithm.
type MazeBasedConfig struct {
	Type      MazeType
	Algorithm MazeAlgorithm
}

// HubAndSpokeConfig parameterizes the HubAndSpoke algorithm.
type HubAndSpokeConfig struct {
	HubCount       int
	MaxSpokeLength int
}

// GeneratorConfig selects an Algorithm and carries its parameters. Only
// the field matching Algorithm is consulted.
type GeneratorConfig struct {
	Algorithm        Algorithm
	GridBased        GridBasedConfig
	CellularAutomata CellularAutomataConfig
	MazeBased        MazeBasedConfig
	HubAndSpoke      HubAndSpokeConfig
}

// DefaultGeneratorConfig returns the backwards-compatible SpanningTree
// configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{Algorithm: SpanningTree}
}
