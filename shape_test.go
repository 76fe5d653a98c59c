package blit

import (
	"testing"
)

func TestShapeBounds(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  Rect
	}{
		{"rect", Rect{X: 1, Y: 2, W: 3, H: 4}, Rect{X: 1, Y: 2, W: 3, H: 4}},
		{"rounded rect", RoundedRect{Rect: Rect{X: 0, Y: 0, W: 10, H: 8}, Radius: 2}, Rect{W: 10, H: 8}},
		{"ellipse", Ellipse{X: 10, Y: 10, RX: 4, RY: 3}, Rect{X: 6, Y: 7, W: 8, H: 6}},
		{"line", Line{X1: 5, Y1: 1, X2: 1, Y2: 9}, Rect{X: 1, Y: 1, W: 4, H: 8}},
		{
			"polygon",
			Polygon{X: 10, Y: 10, Points: []Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 7}}},
			Rect{X: 10, Y: 10, W: 5, H: 7},
		},
	}
	for _, tt := range tests {
		if got := tt.shape.Bounds(); got != tt.want {
			t.Errorf("%s: Bounds() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	if !r.Contains(15, 15) {
		t.Error("interior point not contained")
	}
	if r.Contains(35, 15) {
		t.Error("exterior point contained")
	}
}

func TestCircle(t *testing.T) {
	c := Circle(5, 6, 3)
	if c.RX != 3 || c.RY != 3 || c.X != 5 || c.Y != 6 {
		t.Errorf("Circle = %+v", c)
	}
}
