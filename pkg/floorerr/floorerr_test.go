package floorerr

import (
	"errors"
	"testing"
)

func TestInvalidConfigurationError_Is(t *testing.T) {
	err := NewInvalidConfiguration("assign", "no feasible node for Boss", "node 7")
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("errors.Is(err, ErrInvalidConfiguration) = false, want true")
	}
	if errors.Is(err, ErrSpatialPlacement) {
		t.Errorf("errors.Is(err, ErrSpatialPlacement) = true, want false")
	}
}

func TestSpatialPlacementException_Is(t *testing.T) {
	err := NewSpatialPlacement("placement", "no valid anchor after 500 retries", nil)
	if !errors.Is(err, ErrSpatialPlacement) {
		t.Errorf("errors.Is(err, ErrSpatialPlacement) = false, want true")
	}
	if errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("errors.Is(err, ErrInvalidConfiguration) = true, want false")
	}
}

func TestInvalidConfigurationError_ErrorMessage(t *testing.T) {
	err := NewInvalidConfiguration("template", "all weights zero", "Combat")
	if got := err.Error(); got == "" {
		t.Errorf("Error() returned empty string")
	}
}
