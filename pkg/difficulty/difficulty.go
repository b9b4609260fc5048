// Package difficulty implements the difficulty scorer: for each node, a
// raw score grows with distance from the spawn room under a pluggable
// curve, then clamps to a configured ceiling.
package difficulty

import "math"

// Function selects which monotone curve shapes f(distance_from_start).
type Function int

const (
	Linear Function = iota
	Exponential
	Custom
)

// Config parameterizes the scorer. CustomFn is consulted only when
// Function == Custom; it must be monotone non-decreasing in d, same as
// the builtin curves.
type Config struct {
	Base     float64
	Factor   float64
	Function Function
	CustomFn func(distanceFromStart int) float64
	Max      float64
}

// Curve is the pluggable shape function f(d), evaluated over an integer
// hop distance rather than a [0,1] progress fraction.
type Curve interface {
	Evaluate(distanceFromStart int) float64
}

// LinearCurve is f(d) = d: the raw score grows by exactly factor per hop.
type LinearCurve struct{}

func (LinearCurve) Evaluate(d int) float64 { return float64(d) }

// ExponentialCurve is f(d) = (g^d - 1) / (g - 1) with g = factor (or 2
// when factor <= 1), normalized so f(0) = 0 and f(1) = 1, keeping it
// strictly steeper than LinearCurve for d > 1 while still producing base
// exactly at d = 0 regardless of factor.
type ExponentialCurve struct {
	Factor float64
}

func (c ExponentialCurve) Evaluate(d int) float64 {
	base := c.Factor
	if base <= 1 {
		base = 2
	}
	if d <= 0 {
		return 0
	}
	return (math.Pow(base, float64(d)) - 1) / (base - 1)
}

// CustomCurve wraps a caller-supplied f(d).
type CustomCurve struct {
	Fn func(d int) float64
}

func (c CustomCurve) Evaluate(d int) float64 { return c.Fn(d) }

func curveFor(cfg Config) Curve {
	switch cfg.Function {
	case Exponential:
		return ExponentialCurve{Factor: cfg.Factor}
	case Custom:
		return CustomCurve{Fn: cfg.CustomFn}
	default:
		return LinearCurve{}
	}
}

// Score computes one node's difficulty: base + factor*f(d), clamped to
// [0, max]. Spawn (d=0) always yields exactly base, since every builtin
// curve evaluates to 0 at d=0 and a Custom curve is required to do the
// same.
func Score(cfg Config, distanceFromStart int) float64 {
	curve := curveFor(cfg)
	raw := cfg.Base + cfg.Factor*curve.Evaluate(distanceFromStart)
	if raw < 0 {
		raw = 0
	}
	if cfg.Max > 0 && raw > cfg.Max {
		raw = cfg.Max
	}
	return raw
}

// ScoreAll computes a difficulty for every node id present in distances.
func ScoreAll(cfg Config, distances map[int]int) map[int]float64 {
	out := make(map[int]float64, len(distances))
	for id, d := range distances {
		out[id] = Score(cfg, d)
	}
	return out
}
