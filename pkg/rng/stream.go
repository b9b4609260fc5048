package rng

import "math/rand"

// Stage names identify the six fixed draws made from the master stream,
// in the exact order they are consumed.
const (
	StageGraph      = "graph"
	StageTemplate   = "template_selection"
	StageSpatial    = "spatial_placement"
	StageHallway    = "hallway_routing"
	StageSecret     = "secret_passages"
	StageClustering = "clustering"
)

// stageOrder is the fixed draw order. Tests re-derive StageGraph's seed
// exactly this way: construct a master Lcg from the config seed and call
// Next() once.
var stageOrder = []string{
	StageGraph,
	StageTemplate,
	StageSpatial,
	StageHallway,
	StageSecret,
	StageClustering,
}

// MasterStream draws one sub-seed per pipeline stage from a single master
// seed, in the fixed order stageOrder. It is the only place the master
// seed is consumed.
type MasterStream struct {
	lcg   *Lcg
	seeds map[string]int32
	drawn []string
}

// NewMasterStream derives all six sub-seeds up front, in order, from seed.
func NewMasterStream(seed int64) *MasterStream {
	m := &MasterStream{
		lcg:   NewLcg(seed),
		seeds: make(map[string]int32, len(stageOrder)),
	}
	for _, stage := range stageOrder {
		m.seeds[stage] = m.lcg.Next()
		m.drawn = append(m.drawn, stage)
	}
	return m
}

// SeedFor returns the sub-seed drawn for the named stage. It panics if
// stage is not one of the recognized stage constants, which is a
// programmer error, not a data-dependent failure.
func (m *MasterStream) SeedFor(stage string) int32 {
	seed, ok := m.seeds[stage]
	if !ok {
		panic("rng: unknown stage " + stage)
	}
	return seed
}

// StreamFor builds a Stream for the named stage's sub-seed.
func (m *MasterStream) StreamFor(stage string) *Stream {
	return NewStream(stage, m.SeedFor(stage))
}

// DrawOrder returns the stage names in the order their sub-seeds were
// drawn, for diagnostics.
func (m *MasterStream) DrawOrder() []string {
	out := make([]string, len(m.drawn))
	copy(out, m.drawn)
	return out
}

// Stream provides deterministic pseudo-random draws for a single pipeline
// stage. It layers math/rand convenience methods (Intn, Float64, Shuffle,
// weighted choice) on top of a seed derived from the master stream's
// LCG. The LCG values themselves are only compatibility-critical at the
// point they are drawn from MasterStream; once a stage has its int32
// seed, it is free to use an ordinary PRNG for its own internal
// decisions, isolated per stage.
type Stream struct {
	stageName string
	seed      int32
	source    *rand.Rand
}

// NewStream creates a stage-specific stream from a sub-seed.
func NewStream(stageName string, seed int32) *Stream {
	return &Stream{
		stageName: stageName,
		seed:      seed,
		source:    rand.New(rand.NewSource(int64(seed))),
	}
}

// Seed returns the sub-seed this stream was derived from.
func (s *Stream) Seed() int32 { return s.seed }

// StageName returns the pipeline stage this stream belongs to.
func (s *Stream) StageName() string { return s.stageName }

// Intn returns a pseudo-random integer in [0, n). Panics if n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn argument must be positive")
	}
	return s.source.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0.0, 1.0).
func (s *Stream) Float64() float64 {
	return s.source.Float64()
}

// Shuffle pseudo-randomizes the order of n elements via swap.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.source.Shuffle(n, swap)
}

// IntRange returns a pseudo-random integer in [min, max]. Panics if
// min > max.
func (s *Stream) IntRange(min, max int) int {
	if min > max {
		panic("rng: IntRange min must be <= max")
	}
	if min == max {
		return min
	}
	return min + s.source.Intn(max-min+1)
}

// Float64Range returns a pseudo-random float64 in [min, max). Panics if
// min >= max.
func (s *Stream) Float64Range(min, max float64) float64 {
	if min >= max {
		panic("rng: Float64Range min must be < max")
	}
	return min + s.source.Float64()*(max-min)
}

// Bool returns a pseudo-random boolean.
func (s *Stream) Bool() bool {
	return s.source.Intn(2) == 1
}

// WeightedDraw draws a uniform value in [0, total) and returns it, for
// callers that walk a sorted candidate list accumulating weights
// themselves (template selection needs the draw value, not just an
// index, since candidates are sorted by template id rather than slice
// order). Panics if total <= 0.
func (s *Stream) WeightedDraw(total float64) float64 {
	if total <= 0 {
		panic("rng: WeightedDraw total must be positive")
	}
	return s.source.Float64() * total
}

// WeightedChoice selects an index from weights using weighted random
// selection. Weights must be non-negative. Returns -1 if all weights are
// zero or weights is empty.
func (s *Stream) WeightedChoice(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("rng: WeightedChoice weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return -1
	}

	draw := s.WeightedDraw(total)
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if draw < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
