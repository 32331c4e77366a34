package viewport

import (
	"testing"

	"github.com/matzehuels/tilewindow/pkg/geom"
)

func TestWindowBounds(t *testing.T) {
	var w Window
	w.Update(geom.Rect{Y: 1000, Width: 300, Height: 200})

	if got := w.Top(); got != 600 {
		t.Errorf("Top() = %v, want 600", got)
	}
	if got := w.Bottom(); got != 1600 {
		t.Errorf("Bottom() = %v, want 1600", got)
	}
}

func TestWindowClampsAtZero(t *testing.T) {
	var w Window
	w.Update(geom.Rect{Y: 50, Height: 100})
	if got := w.Top(); got != 0 {
		t.Errorf("Top() = %v, want 0", got)
	}
}

func TestWindowInclusiveBoundary(t *testing.T) {
	var w Window
	w.Update(geom.Rect{Y: 1000, Height: 200})

	tests := []struct {
		name string
		rect geom.Rect
		want bool
	}{
		{"bottom equals window top", geom.Rect{Y: 550, Height: 50}, true},
		{"one pixel above window top", geom.Rect{Y: 549, Height: 50}, false},
		{"top equals window bottom", geom.Rect{Y: 1600, Height: 50}, true},
		{"one pixel below window bottom", geom.Rect{Y: 1601, Height: 50}, false},
		{"inside visible region", geom.Rect{Y: 1100, Height: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.rect); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.rect, got, tt.want)
			}
		})
	}
}

func TestWindowFallback(t *testing.T) {
	var w Window
	if w.Reported() {
		t.Fatal("zero window should not be reported")
	}
	if got := w.Bottom(); got != DefaultExtent*(1+BufferRatio) {
		t.Errorf("default Bottom() = %v, want %v", got, DefaultExtent*(1+BufferRatio))
	}

	w.SetFallback(100)
	if got := w.Bottom(); got != 300 {
		t.Errorf("fallback Bottom() = %v, want 300", got)
	}

	w.Update(geom.Rect{Y: 0, Height: 10})
	w.SetFallback(1000)
	if got := w.Bottom(); got != 30 {
		t.Errorf("Bottom() after real viewport = %v, want 30", got)
	}
}

func TestWindowUpdateReportsMovement(t *testing.T) {
	var w Window
	if !w.Update(geom.Rect{Y: 0, Height: 100}) {
		t.Error("first Update should report movement")
	}
	if w.Update(geom.Rect{Y: 0, Height: 100}) {
		t.Error("identical Update should not report movement")
	}
	if !w.Update(geom.Rect{Y: 500, Height: 100}) {
		t.Error("scrolling should report movement")
	}
}
