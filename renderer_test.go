package blit

import (
	"testing"
)

func TestParseBlendMode(t *testing.T) {
	tests := []struct {
		in   string
		want BlendMode
	}{
		{"normal", BlendNormal},
		{"multiply", BlendMultiply},
		{"lighter", BlendLighter},
		{"additive", BlendLighter},
		{"screen", BlendScreen},
		{"overlay", BlendNormal},
		{"", BlendNormal},
	}
	for _, tt := range tests {
		if got := ParseBlendMode(tt.in); got != tt.want {
			t.Errorf("ParseBlendMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBlendModeString(t *testing.T) {
	tests := []struct {
		m    BlendMode
		want string
	}{
		{BlendNormal, "normal"},
		{BlendMultiply, "multiply"},
		{BlendLighter, "lighter"},
		{BlendScreen, "screen"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMinVisibleAlpha(t *testing.T) {
	if MinVisibleAlpha != 1.0/255 {
		t.Errorf("MinVisibleAlpha = %v", MinVisibleAlpha)
	}
}
