package utils

import (
	"math"
	"testing"
)

func TestEasingEndpoints(t *testing.T) {
	funcs := map[string]func(float64) float64{
		"linear":  EaseLinear,
		"outQuad": EaseOutQuad,
		"inQuad":  EaseInQuad,
	}
	for name, f := range funcs {
		if got := f(0); math.Abs(got) > 1e-9 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := f(1); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
	if EaseOutQuad(0.5) <= 0.5 {
		t.Error("EaseOutQuad should be ahead of linear at the midpoint")
	}
	if EaseInQuad(0.5) >= 0.5 {
		t.Error("EaseInQuad should lag behind linear at the midpoint")
	}
}

func TestLerpAndClamp(t *testing.T) {
	if got := Lerp(10, 20, 0.25); got != 12.5 {
		t.Errorf("Lerp = %v, want 12.5", got)
	}
	tests := []struct{ v, want float64 }{
		{-5, 0}, {5, 5}, {15, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, 0, 10); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
