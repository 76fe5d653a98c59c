package backend_test

import (
	"errors"
	"testing"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/backend"
	_ "github.com/gogpu/blit/canvas"
)

func TestCanvasSelfRegisters(t *testing.T) {
	if !backend.IsRegistered(backend.Canvas) {
		t.Fatalf("canvas backend not registered; available: %v", backend.Available())
	}

	r, err := backend.Get(backend.Canvas, 64, 48)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.Name() != backend.Canvas {
		t.Errorf("Name = %q", r.Name())
	}
	if w, h := r.Width(), r.Height(); w != 64 || h != 48 {
		t.Errorf("size = %dx%d", w, h)
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := backend.Get("no-such-backend", 1, 1)
	if !errors.Is(err, backend.ErrNotAvailable) {
		t.Errorf("err = %v, want ErrNotAvailable", err)
	}
}

func TestDefaultFallsBackToCanvas(t *testing.T) {
	// No shader backend is registered here, so the software fallback
	// wins.
	r, err := backend.Default(32, 32)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if r.Name() != backend.Canvas {
		t.Errorf("default backend = %q", r.Name())
	}
}

func TestRegisterOverride(t *testing.T) {
	name := "test-backend"
	backend.Register(name, func(w, h int) (blit.Renderer, error) {
		return nil, errors.New("unbuildable")
	})
	defer backend.Unregister(name)

	if !backend.IsRegistered(name) {
		t.Fatal("registered backend not found")
	}
	if _, err := backend.Get(name, 1, 1); err == nil {
		t.Error("factory error swallowed")
	}
}
