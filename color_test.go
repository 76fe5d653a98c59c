package blit

import (
	"image/color"
	"testing"
)

func TestRGBAToArray(t *testing.T) {
	c := RGBA{R: 0.5, G: 0.25, B: 1, A: 0.75}
	got := c.ToArray()
	want := []float64{0.5, 0.25, 1, 0.75}
	if len(got) != 4 {
		t.Fatalf("ToArray() length = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ToArray()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRGBAToRGBA(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
		want string
	}{
		{"opaque red", Red, "rgba(255,0,0,1)"},
		{"half black", RGBA{A: 0.5}, "rgba(0,0,0,0.5)"},
		{"transparent", Transparent, "rgba(0,0,0,0)"},
	}
	for _, tt := range tests {
		if got := tt.c.ToRGBA(); got != tt.want {
			t.Errorf("%s: ToRGBA() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRGBAIsWhite(t *testing.T) {
	if !White.IsWhite() {
		t.Error("White.IsWhite() = false")
	}
	// Alpha does not matter for tinting.
	if !(RGBA{R: 1, G: 1, B: 1, A: 0.5}).IsWhite() {
		t.Error("translucent white not white")
	}
	if (RGBA{R: 1, G: 1, B: 0.99, A: 1}).IsWhite() {
		t.Error("off-white reported white")
	}
}

func TestFromColorRoundTrip(t *testing.T) {
	src := color.NRGBA{R: 255, G: 128, B: 0, A: 255}
	c := FromColor(src)
	if c.R != 1 || c.A != 1 {
		t.Errorf("FromColor = %+v", c)
	}
	if g := int(c.G*255 + 0.5); g != 128 {
		t.Errorf("green channel = %d, want 128", g)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#ff0000", Red},
		{"#00ff00", Green},
		{"#fff", White},
		{"ff0000", Red},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestWithAlpha(t *testing.T) {
	c := Red.WithAlpha(0.25)
	if c.A != 0.25 || c.R != 1 {
		t.Errorf("WithAlpha = %+v", c)
	}
}
