// Package blit is the rendering backend core of a 2D presentation layer.
//
// # Overview
//
// blit lets drawing clients (scenes, sprites, shapes) issue
// backend-agnostic draw calls that are fulfilled by one of two
// structurally different execution engines: an immediate-mode surface
// backend (package canvas) and a GPU shader-program backend (package
// gpu). Both implement the same Renderer contract and produce the same
// observable output for geometry, blending, masking, transforms, and
// alpha.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/blit"
//	    "github.com/gogpu/blit/canvas"
//	)
//
//	r := canvas.NewRenderer(640, 480)
//	r.SetColor(blit.RGB(1, 0, 0))
//	r.FillRect(10, 10, 100, 100)
//	r.Flush()
//
// # Backends
//
// The canvas backend draws immediately against a retained 2D surface,
// optionally double-buffered. The gpu backend batches geometry through
// compiled shader programs on a GPU device; it survives device context
// loss by destroying its programs and letting the owner reconstruct them
// after restoration.
//
// Backends register themselves with the backend package; clients select
// one at startup via backend.Get or backend.Default.
//
// # Architecture
//
//   - Public API: Renderer contract, RGBA, Matrix, Point, shapes, Notifier
//   - canvas: surface backend, mask/clip stack, double buffer
//   - gpu: shader program lifecycle, device abstraction
//   - glsl: shader source minification and precision injection
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down. Angles
// are in radians.
package blit

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"
)
