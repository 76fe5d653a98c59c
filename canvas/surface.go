// Package canvas implements the surface-backed rendering backend.
//
// The backend draws through a Surface, a Canvas2D-style drawing target
// that owns transform, style, path, and clip state. ImageSurface is the
// in-memory implementation; hosts with a native 2D context can supply
// their own Surface and reuse the full renderer on top of it.
package canvas

import (
	"image"

	"github.com/gogpu/blit"
)

// CompositeOp selects how painted pixels combine with the destination.
type CompositeOp uint8

const (
	// OpSourceOver paints source over destination (the default).
	OpSourceOver CompositeOp = iota
	// OpMultiply multiplies source and destination channels.
	OpMultiply
	// OpLighter adds source to destination.
	OpLighter
	// OpScreen inverts, multiplies, and inverts again.
	OpScreen
	// OpCopy replaces the destination outright.
	OpCopy
	// OpDestinationIn keeps destination only where the source covers it.
	OpDestinationIn
)

func (op CompositeOp) String() string {
	switch op {
	case OpSourceOver:
		return "source-over"
	case OpMultiply:
		return "multiply"
	case OpLighter:
		return "lighter"
	case OpScreen:
		return "screen"
	case OpCopy:
		return "copy"
	case OpDestinationIn:
		return "destination-in"
	}
	return "unknown"
}

// FillStyle is a paint source for fill operations: a solid color or a
// tiling pattern.
type FillStyle interface {
	isFillStyle()
}

// ColorStyle fills with a solid color.
type ColorStyle struct {
	Color blit.RGBA
}

func (ColorStyle) isFillStyle() {}

// PatternStyle fills by tiling an image.
type PatternStyle struct {
	Image  image.Image
	Repeat blit.Repeat
}

func (PatternStyle) isFillStyle() {}

// Surface is the drawing target of the canvas backend.
//
// Save and Restore cover the complete surface state including the clip
// region; the renderer builds its clip-free save/restore semantics on
// top by re-applying state itself and reserving surface saves for the
// mask stack.
type Surface interface {
	// Size returns the drawable size in pixels.
	Size() (width, height int)

	// Save pushes the full surface state, clip region included.
	Save()
	// Restore pops to the most recent save. Without one it is a no-op.
	Restore()

	// SetTransform replaces the current transform (absolute).
	SetTransform(m blit.Matrix)
	// SetComposite selects the compositing operation for paints.
	SetComposite(op CompositeOp)
	// SetAlpha sets the global alpha multiplied into every paint.
	SetAlpha(a float64)
	// SetFillStyle sets the active fill paint source.
	SetFillStyle(s FillStyle)
	// FillStyle returns the active fill paint source.
	FillStyle() FillStyle
	// SetStrokeColor sets the stroke color.
	SetStrokeColor(c blit.RGBA)
	// SetLineWidth sets the stroke width in pixels.
	SetLineWidth(w float64)

	// BeginPath discards the current path.
	BeginPath()
	// MoveTo starts a new subpath at (x, y).
	MoveTo(x, y float64)
	// LineTo extends the current subpath with a line segment.
	LineTo(x, y float64)
	// CurveTo extends the current subpath with a cubic Bezier segment.
	CurveTo(c1x, c1y, c2x, c2y, x, y float64)
	// Arc extends the current subpath with a circular arc from start to
	// end radians.
	Arc(x, y, radius, start, end float64)
	// ClosePath closes the current subpath.
	ClosePath()

	// Fill paints the current path's interior with the fill style.
	Fill()
	// Stroke paints the current path's outline with the stroke color.
	Stroke()
	// Clip intersects the clip region with the current path's interior.
	Clip()

	// ClearRect resets a rectangle to fully transparent.
	ClearRect(x, y, w, h float64)
	// DrawImage composites a source sub-rectangle scaled into a
	// destination rectangle. Only the current transform's translation
	// applies to placement; scale and rotation components are not
	// applied to image draws, and implementations must not diverge on
	// this.
	DrawImage(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64)

	// Resize changes the drawable size, discarding pixel contents, the
	// clip region, and the save stack.
	Resize(width, height int)
	// Snapshot returns the current pixel contents.
	Snapshot() *image.RGBA
}
