package template

import (
	"testing"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/rng"
)

func TestSelect_ZeroWeightNeverSelected(t *testing.T) {
	heavy, _ := NewRectangle[roomType]("heavy", 3, 3, []roomType{combat}, 3.0)
	zero, _ := NewRectangle[roomType]("zero", 3, 3, []roomType{combat}, 0.0)
	pool, err := NewPool([]*RoomTemplate[roomType]{heavy, zero})
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}

	stream := rng.NewStream(rng.StageTemplate, 42)
	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		tmpl, err := pool.Select(combat, "", nil, 0, stream)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		counts[tmpl.ID]++
	}
	if counts["zero"] != 0 {
		t.Errorf("zero-weight template selected %d times, want 0", counts["zero"])
	}
	if counts["heavy"] != 1000 {
		t.Errorf("heavy template selected %d times, want 1000", counts["heavy"])
	}
}

func TestSelect_AllZeroWeight_Errors(t *testing.T) {
	zero, _ := NewRectangle[roomType]("zero", 3, 3, []roomType{combat}, 0.0)
	pool, _ := NewPool([]*RoomTemplate[roomType]{zero})
	stream := rng.NewStream(rng.StageTemplate, 1)
	if _, err := pool.Select(combat, "", nil, 0, stream); err == nil {
		t.Errorf("expected error when all candidates have weight 0")
	}
}

func TestSelect_WeightedConvergence(t *testing.T) {
	heavy, _ := NewRectangle[roomType]("heavy", 3, 3, []roomType{combat}, 3.0)
	light, _ := NewRectangle[roomType]("light", 3, 3, []roomType{combat}, 1.0)
	pool, _ := NewPool([]*RoomTemplate[roomType]{heavy, light})

	stream := rng.NewStream(rng.StageTemplate, 7)
	const n = 10000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		tmpl, err := pool.Select(combat, "", nil, 0, stream)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		counts[tmpl.ID]++
	}
	wantHeavy := 0.75 * n
	tolerance := 0.05 * n
	if diff := float64(counts["heavy"]) - wantHeavy; diff > tolerance || diff < -tolerance {
		t.Errorf("heavy template selected %d times, want ~%v (+-%v)", counts["heavy"], wantHeavy, tolerance)
	}
}

func TestSelect_DifficultyBoundsFilter(t *testing.T) {
	easy, _ := NewRectangle[roomType]("easy", 3, 3, []roomType{combat}, 1.0)
	easy.DifficultyBounds = &DifficultyBounds{Min: 0, Max: 2}
	hard, _ := NewRectangle[roomType]("hard", 3, 3, []roomType{combat}, 1.0)
	hard.DifficultyBounds = &DifficultyBounds{Min: 3, Max: 10}
	pool, _ := NewPool([]*RoomTemplate[roomType]{easy, hard})

	stream := rng.NewStream(rng.StageTemplate, 1)
	tmpl, err := pool.Select(combat, "", nil, 5, stream)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if tmpl.ID != "hard" {
		t.Errorf("Select() = %q, want %q", tmpl.ID, "hard")
	}
}
