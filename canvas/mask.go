package canvas

import (
	"github.com/gogpu/blit"
)

// ClipRect implements blit.Renderer: an unconditional hard clip,
// memoized so the clip path is rebuilt only when the requested
// rectangle differs from both the full surface bounds and the cached
// scissor rectangle.
func (r *Renderer) ClipRect(x, y, w, h float64) {
	rect := blit.Rect{X: x, Y: y, W: w, H: h}
	full := blit.Rect{W: float64(r.width), H: float64(r.height)}
	if rect == full || rect == r.scissor {
		return
	}
	s := r.back
	s.BeginPath()
	traceRect(s, x, y, w, h)
	s.Clip()
	r.scissor = rect
}

// SetMask implements blit.Renderer: pushes a nested mask. The surface
// state is saved once, at the first push; every push traces the shape
// boundary into the shared path and re-applies it. With invert the path
// is painted with a destination-in composite instead of clipping, which
// keeps the destination only where the traced geometry covers it.
//
// Inverted masks at nesting level above one repaint destination-in with
// the accumulated path; overlapping shapes resolve through that
// accumulation rather than per-shape.
func (r *Renderer) SetMask(shape blit.Shape, invert bool) {
	s := r.back
	if r.maskLevel == 0 {
		s.Save()
		s.BeginPath()
	}
	r.maskLevel++

	traceShape(s, shape)

	if invert {
		s.ClosePath()
		s.SetComposite(OpDestinationIn)
		s.Fill()
		s.SetComposite(compositeFor(r.state.blend))
		return
	}
	s.Clip()
}

// ClearMask implements blit.Renderer: one call unwinds all nested
// pushes with the single restore paired with the save made at the first
// push. Renderer-level style state is re-applied afterwards so style
// changes made while masked survive the unwind. The restore also drops
// any clip applied while masked, so the cached scissor is reset to the
// full bounds; a repeated ClipRect must rebuild it.
func (r *Renderer) ClearMask() {
	if r.maskLevel == 0 {
		return
	}
	r.maskLevel = 0
	r.back.Restore()
	r.applyState()
	r.scissor = blit.Rect{W: float64(r.width), H: float64(r.height)}
}

// traceShape traces a shape boundary in shape-local coordinates offset
// by the shape position.
func traceShape(s Surface, shape blit.Shape) {
	switch sh := shape.(type) {
	case blit.Rect:
		traceRect(s, sh.X, sh.Y, sh.W, sh.H)
	case blit.RoundedRect:
		traceRoundedRect(s, sh.X, sh.Y, sh.W, sh.H, sh.Radius)
	case blit.Ellipse:
		traceEllipse(s, sh.X, sh.Y, sh.RX, sh.RY)
	case blit.Polygon:
		if len(sh.Points) > 0 {
			tracePolygon(s, sh)
		}
	default:
		// Lines, arcs, and unknown shapes clip to their axis-aligned
		// bounds.
		b := shape.Bounds()
		traceRect(s, b.X, b.Y, b.W, b.H)
	}
}
