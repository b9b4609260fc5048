package difficulty

import "testing"

func TestScore_SpawnIsExactlyBase(t *testing.T) {
	for _, fn := range []Function{Linear, Exponential} {
		cfg := Config{Base: 0.2, Factor: 0.1, Function: fn, Max: 1.0}
		if got := Score(cfg, 0); got != cfg.Base {
			t.Errorf("function=%v Score(0) = %v, want base %v", fn, got, cfg.Base)
		}
	}
}

func TestScore_LinearMonotoneNonDecreasing(t *testing.T) {
	cfg := Config{Base: 0, Factor: 0.1, Function: Linear, Max: 10}
	prev := Score(cfg, 0)
	for d := 1; d <= 10; d++ {
		cur := Score(cfg, d)
		if cur < prev {
			t.Fatalf("Score(%d) = %v < Score(%d) = %v; expected non-decreasing", d, cur, d-1, prev)
		}
		prev = cur
	}
}

func TestScore_ExponentialSteeperThanLinear(t *testing.T) {
	base, factor := 0.0, 1.0
	lin := Config{Base: base, Factor: factor, Function: Linear, Max: 1000}
	exp := Config{Base: base, Factor: factor, Function: Exponential, Max: 1000}
	if Score(exp, 5) <= Score(lin, 5) {
		t.Errorf("Exponential(5) = %v, want strictly greater than Linear(5) = %v", Score(exp, 5), Score(lin, 5))
	}
}

func TestScore_ClampsToMax(t *testing.T) {
	cfg := Config{Base: 0, Factor: 100, Function: Linear, Max: 5}
	if got := Score(cfg, 10); got != 5 {
		t.Errorf("Score(10) = %v, want clamped to max 5", got)
	}
}

func TestScore_CustomCurve(t *testing.T) {
	cfg := Config{
		Base:     0.1,
		Factor:   1,
		Function: Custom,
		CustomFn: func(d int) float64 {
			if d == 0 {
				return 0
			}
			return float64(d) * float64(d)
		},
		Max: 100,
	}
	if got := Score(cfg, 0); got != cfg.Base {
		t.Errorf("Score(0) = %v, want base %v", got, cfg.Base)
	}
	if got := Score(cfg, 3); got != cfg.Base+9 {
		t.Errorf("Score(3) = %v, want %v", got, cfg.Base+9)
	}
}

func TestScoreAll(t *testing.T) {
	cfg := Config{Base: 0, Factor: 0.1, Function: Linear, Max: 10}
	distances := map[int]int{0: 0, 1: 3, 2: 7}
	scores := ScoreAll(cfg, distances)
	if scores[0] != 0 {
		t.Errorf("node 0 score = %v, want 0", scores[0])
	}
	if diff := scores[1] - 0.3; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("node 1 score = %v, want ~0.3", scores[1])
	}
}
