package template

import (
	"testing"

	"github.com/JohnVonDrashek/shepherd-dungeons/pkg/geo"
)

type roomType int

const (
	combat roomType = iota
	boss
)

func TestNewRectangle(t *testing.T) {
	tmpl, err := NewRectangle[roomType]("rect-3x3", 3, 3, []roomType{combat}, 1.0)
	if err != nil {
		t.Fatalf("NewRectangle() error = %v", err)
	}
	if len(tmpl.Cells) != 9 {
		t.Errorf("len(Cells) = %d, want 9", len(tmpl.Cells))
	}
	if !tmpl.AllowsRoomType(combat) {
		t.Errorf("AllowsRoomType(combat) = false, want true")
	}
	if tmpl.AllowsRoomType(boss) {
		t.Errorf("AllowsRoomType(boss) = true, want false")
	}
}

func TestNewRectangle_RejectsNegativeWeight(t *testing.T) {
	if _, err := NewRectangle[roomType]("bad", 2, 2, []roomType{combat}, -1); err == nil {
		t.Errorf("expected error for negative weight")
	}
}

func TestNewLShape(t *testing.T) {
	tmpl, err := NewLShape[roomType]("l-shape", 4, 4, 2, 2, geo.East, []roomType{combat}, 1.0)
	if err != nil {
		t.Fatalf("NewLShape() error = %v", err)
	}
	if len(tmpl.Cells) != 16-4 {
		t.Errorf("len(Cells) = %d, want %d", len(tmpl.Cells), 16-4)
	}
	// The cut corner itself must not be present.
	if tmpl.Cells[geo.C(3, 0)] {
		t.Errorf("cut corner cell (3,0) should be removed")
	}
}

func TestAddInteriorFeature_RejectsOutsideFootprint(t *testing.T) {
	tmpl, _ := NewRectangle[roomType]("rect", 3, 3, []roomType{combat}, 1.0)
	if err := tmpl.AddInteriorFeature(geo.C(5, 5), Pillar); err == nil {
		t.Errorf("expected error placing feature outside footprint")
	}
}

func TestAddInteriorFeature_RejectsExteriorEdge(t *testing.T) {
	tmpl, _ := NewRectangle[roomType]("rect", 3, 3, []roomType{combat}, 1.0)
	if err := tmpl.AddInteriorFeature(geo.C(0, 0), Pillar); err == nil {
		t.Errorf("expected error placing feature on an exterior-edge cell")
	}
	if err := tmpl.AddInteriorFeature(geo.C(1, 1), Pillar); err != nil {
		t.Errorf("interior cell (1,1) should be accepted: %v", err)
	}
}

func TestAllowsDifficulty(t *testing.T) {
	tmpl, _ := NewRectangle[roomType]("rect", 3, 3, []roomType{combat}, 1.0)
	if !tmpl.AllowsDifficulty(5) {
		t.Errorf("no bounds set should allow any difficulty")
	}
	tmpl.DifficultyBounds = &DifficultyBounds{Min: 2, Max: 4}
	if tmpl.AllowsDifficulty(1) || tmpl.AllowsDifficulty(5) {
		t.Errorf("bounds should exclude out-of-range difficulty")
	}
	if !tmpl.AllowsDifficulty(3) {
		t.Errorf("bounds should include in-range difficulty")
	}
}
