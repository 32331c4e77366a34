package geom

import (
	"math"
	"testing"
)

func TestRectEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	if got := r.Right(); got != 40 {
		t.Errorf("Right() = %v, want 40", got)
	}
	if got := r.Bottom(); got != 60 {
		t.Errorf("Bottom() = %v, want 60", got)
	}
	if got := r.Size(); got != (Size{Width: 30, Height: 40}) {
		t.Errorf("Size() = %+v", got)
	}
}

func TestRectIntersects(t *testing.T) {
	base := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", Rect{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"touching edge", Rect{X: 100, Y: 0, Width: 10, Height: 10}, true},
		{"disjoint below", Rect{X: 0, Y: 101, Width: 10, Height: 10}, false},
		{"disjoint right", Rect{X: 101, Y: 0, Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsInfinite(t *testing.T) {
	if !IsInfinite(math.Inf(1)) {
		t.Error("IsInfinite(+Inf) = false")
	}
	if IsInfinite(1e9) {
		t.Error("IsInfinite(1e9) = true")
	}
}
