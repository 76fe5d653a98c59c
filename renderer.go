package blit

import "image"

// MinVisibleAlpha is the global-alpha threshold below which drawing
// operations are skipped entirely. One 1/255 step is the smallest alpha
// a surface can represent, so anything below it cannot change a pixel.
// The gate is a hard performance short-circuit: no geometry or
// compositing work happens under it.
const MinVisibleAlpha = 1.0 / 255

// BlendMode selects how source pixels combine with the destination.
type BlendMode uint8

const (
	// BlendNormal is standard source-over alpha compositing.
	BlendNormal BlendMode = iota

	// BlendMultiply multiplies source and destination colors.
	BlendMultiply

	// BlendLighter adds source to destination (additive).
	BlendLighter

	// BlendScreen is the inverse of multiply.
	BlendScreen
)

// String returns the canonical token for the blend mode.
func (m BlendMode) String() string {
	switch m {
	case BlendMultiply:
		return "multiply"
	case BlendLighter:
		return "lighter"
	case BlendScreen:
		return "screen"
	default:
		return "normal"
	}
}

// ParseBlendMode maps a blend-mode token to a BlendMode.
// The mapping is total: "additive" is an alias for "lighter", and any
// unrecognized token falls back to BlendNormal rather than erroring.
func ParseBlendMode(s string) BlendMode {
	switch s {
	case "multiply":
		return BlendMultiply
	case "additive", "lighter":
		return BlendLighter
	case "screen":
		return BlendScreen
	case "normal":
		return BlendNormal
	default:
		Logger().Warn("blit: unknown blend mode, using normal", "mode", s)
		return BlendNormal
	}
}

// Repeat selects how a pattern tiles its source image.
type Repeat uint8

const (
	// RepeatXY tiles in both directions.
	RepeatXY Repeat = iota

	// RepeatX tiles horizontally only.
	RepeatX

	// RepeatY tiles vertically only.
	RepeatY

	// NoRepeat draws the source once.
	NoRepeat
)

// Pattern is an opaque tiling fill created by a Renderer.
// A Pattern is only valid with the renderer that created it.
type Pattern interface {
	// Repeat returns the tiling mode the pattern was created with.
	Repeat() Repeat
}

// Renderer is the backend-agnostic drawing contract.
//
// Exactly two implementations exist: the immediate-mode surface backend
// (canvas.Renderer) and the GPU shader-program backend (gpu.Renderer).
// Client code selects one at startup and issues all draw and state calls
// against it; both variants produce the same observable output.
//
// All drawing operations share one fast-path rule: if the current global
// alpha is below MinVisibleAlpha, the operation is a no-op.
//
// Renderers are not safe for concurrent use. All calls execute
// synchronously within a caller-driven render step.
type Renderer interface {
	// Name returns the backend identifier (e.g. "canvas", "shader").
	Name() string

	// Width returns the drawable width in pixels.
	Width() int

	// Height returns the drawable height in pixels.
	Height() int

	// Valid reports whether the backing device context is usable.
	// No drawing operation is defined while invalid.
	Valid() bool

	// Save pushes the current transform and style state.
	Save()

	// Restore pops the last saved state. Restoring re-synchronizes the
	// cached global alpha and resets the cached scissor rectangle to the
	// full back-buffer bounds; it does not restore clip regions, which
	// are owned by the mask stack.
	Restore()

	// SetTransform resets the transform to identity and multiplies in m.
	SetTransform(m Matrix)

	// Transform multiplies m into the current transform. When sub-pixel
	// rendering is disabled, m's translation components are floored
	// first.
	Transform(m Matrix)

	// Translate offsets the current transform by (x, y), floored to
	// whole pixels when sub-pixel rendering is disabled.
	Translate(x, y float64)

	// SetColor sets the current fill/stroke color, including its alpha
	// channel.
	SetColor(c RGBA)

	// SetTint sets the tint applied to subsequent image draws. A pure
	// white tint disables tinting.
	SetTint(c RGBA)

	// SetGlobalAlpha sets the global alpha multiplier.
	SetGlobalAlpha(a float64)

	// GlobalAlpha returns the current global alpha multiplier.
	GlobalAlpha() float64

	// SetLineWidth sets the stroke width.
	SetLineWidth(w float64)

	// SetBlendMode sets the active blend mode for subsequent drawing.
	SetBlendMode(m BlendMode)

	// BlendMode returns the active blend mode.
	BlendMode() BlendMode

	// Clear fills the entire drawable area with the given color,
	// bypassing the current transform and blend mode.
	Clear(c RGBA)

	// StrokeRect outlines a rectangle.
	StrokeRect(x, y, w, h float64)

	// FillRect fills a rectangle. Equivalent to StrokeRect with the
	// terminal paint operation replaced by a fill.
	FillRect(x, y, w, h float64)

	// StrokeRoundedRect outlines a rounded rectangle.
	StrokeRoundedRect(x, y, w, h, radius float64)

	// FillRoundedRect fills a rounded rectangle.
	FillRoundedRect(x, y, w, h, radius float64)

	// StrokeEllipse outlines an ellipse centered at (x, y).
	StrokeEllipse(x, y, rx, ry float64)

	// FillEllipse fills an ellipse centered at (x, y).
	FillEllipse(x, y, rx, ry float64)

	// StrokeArc outlines a circular arc spanning [start, end] radians.
	StrokeArc(x, y, radius, start, end float64)

	// FillArc fills a circular arc as a pie slice.
	FillArc(x, y, radius, start, end float64)

	// StrokeLine draws a straight line segment.
	StrokeLine(x1, y1, x2, y2 float64)

	// StrokePolygon outlines an arbitrary closed polygon.
	StrokePolygon(p Polygon)

	// FillPolygon fills an arbitrary closed polygon.
	FillPolygon(p Polygon)

	// DrawImage draws the full image at its natural size at (dx, dy).
	DrawImage(img image.Image, dx, dy float64)

	// DrawImageScaled draws the full image scaled to (dw, dh).
	DrawImageScaled(img image.Image, dx, dy, dw, dh float64)

	// DrawImageRegion draws the source sub-rectangle (sx, sy, sw, sh)
	// scaled into the destination rectangle (dx, dy, dw, dh).
	DrawImageRegion(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64)

	// CreatePattern prepares img for tiled fills.
	CreatePattern(img image.Image, repeat Repeat) Pattern

	// DrawPattern fills the rectangle (x, y, w, h) by tiling the
	// pattern. The previous fill style is restored afterwards.
	DrawPattern(p Pattern, x, y, w, h float64)

	// ClipRect applies a hard axis-aligned clip. Re-applying the same
	// rectangle is memoized and does not rebuild the clip path.
	ClipRect(x, y, w, h float64)

	// SetMask pushes a nested mask traced from the shape's boundary.
	// With invert false the traced path confines subsequent drawing;
	// with invert true the complementary region is masked out instead.
	SetMask(shape Shape, invert bool)

	// ClearMask unwinds all nested mask pushes at once.
	ClearMask()

	// Flush completes the frame. With double buffering enabled it
	// composites the back buffer onto the front buffer.
	Flush() error

	// Close releases backend resources. The renderer must not be used
	// after Close.
	Close() error
}
