package canvas

import (
	"image"
	"math"

	"github.com/gogpu/blit"
)

// BackendName is the registry identifier of the surface backend.
const BackendName = "canvas"

// kappa is the control-point offset approximating a quarter circle with
// one cubic Bezier segment.
const kappa = 0.5522847498307936

// renderState is the renderer-level style and transform state covered
// by Save and Restore. Clip state is deliberately absent: the mask
// stack owns it.
type renderState struct {
	matrix    blit.Matrix
	color     blit.RGBA
	tint      blit.RGBA
	alpha     float64
	lineWidth float64
	blend     blit.BlendMode
}

func defaultRenderState() renderState {
	return renderState{
		matrix:    blit.Identity(),
		color:     blit.Black,
		tint:      blit.White,
		alpha:     1,
		lineWidth: 1,
		blend:     blit.BlendNormal,
	}
}

// Renderer is the surface-backed rendering backend. All drawing goes to
// the back surface; with double buffering enabled, Flush composites the
// back surface onto the front one.
type Renderer struct {
	back  Surface
	front Surface // nil without double buffering

	width  int
	height int

	state renderState
	stack []renderState

	scissor   blit.Rect
	maskLevel int

	tints *blit.TintCache
	ctx   *blit.ContextState

	subPixel    bool
	transparent bool

	gpuTexture any // last texture uploaded by RenderTo
}

var _ blit.Renderer = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	surface     Surface
	doubleBuf   bool
	transparent bool
	subPixel    bool
	tints       *blit.TintCache
	notifier    *blit.Notifier
}

// WithSurface supplies the presentation surface. Without it an
// ImageSurface of the renderer's size is created.
func WithSurface(s Surface) Option {
	return func(o *options) { o.surface = s }
}

// WithDoubleBuffering draws to an off-screen back surface and
// composites it onto the presentation surface on Flush.
func WithDoubleBuffering(enabled bool) Option {
	return func(o *options) { o.doubleBuf = enabled }
}

// WithTransparency marks the back surface as transparent. Combined with
// double buffering, presentation replaces front pixels instead of
// blending so transparency is not composited twice.
func WithTransparency(enabled bool) Option {
	return func(o *options) { o.transparent = enabled }
}

// WithSubPixel enables sub-pixel positioning. When disabled (the
// default), translations are floored to whole pixels.
func WithSubPixel(enabled bool) Option {
	return func(o *options) { o.subPixel = enabled }
}

// WithTintCache sets the texture tint cache consulted for image draws.
func WithTintCache(t *blit.TintCache) Option {
	return func(o *options) { o.tints = t }
}

// WithNotifier sets the notifier used for context lost/restored events.
func WithNotifier(n *blit.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// NewRenderer creates a surface backend of the given size.
func NewRenderer(width, height int, opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.surface == nil {
		o.surface = NewImageSurface(width, height)
	}
	if o.tints == nil {
		o.tints = blit.NewTintCache()
	}
	if o.notifier == nil {
		o.notifier = blit.NewNotifier()
	}

	r := &Renderer{
		back:        o.surface,
		width:       width,
		height:      height,
		state:       defaultRenderState(),
		scissor:     blit.Rect{W: float64(width), H: float64(height)},
		tints:       o.tints,
		ctx:         blit.NewContextState(o.notifier),
		subPixel:    o.subPixel,
		transparent: o.transparent,
	}
	if o.doubleBuf {
		r.front = o.surface
		r.back = NewImageSurface(width, height)
	}
	r.applyState()
	return r
}

// Surface returns the surface draw calls land on.
func (r *Renderer) Surface() Surface { return r.back }

// Snapshot returns the back surface pixel contents.
func (r *Renderer) Snapshot() *image.RGBA { return r.back.Snapshot() }

// NotifyContextLost marks the renderer invalid and broadcasts loss.
func (r *Renderer) NotifyContextLost() { r.ctx.MarkLost(r) }

// NotifyContextRestored marks the renderer valid and broadcasts
// restoration.
func (r *Renderer) NotifyContextRestored() { r.ctx.MarkRestored(r) }

// Notifier returns the renderer's event notifier.
func (r *Renderer) Notifier() *blit.Notifier { return r.ctx.Notifier() }

// Name implements blit.Renderer.
func (r *Renderer) Name() string { return BackendName }

// Width implements blit.Renderer.
func (r *Renderer) Width() int { return r.width }

// Height implements blit.Renderer.
func (r *Renderer) Height() int { return r.height }

// Valid implements blit.Renderer.
func (r *Renderer) Valid() bool { return r.ctx.Valid() }

// Save implements blit.Renderer.
func (r *Renderer) Save() {
	r.stack = append(r.stack, r.state)
}

// Restore implements blit.Renderer. The popped state is re-applied to
// the surface, which re-synchronizes the cached alpha; the cached
// scissor resets to the full bounds. A clip region active at Save time
// is NOT restored, that is the mask stack's job.
func (r *Renderer) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.applyState()
	r.scissor = blit.Rect{W: float64(r.width), H: float64(r.height)}
}

// applyState pushes the complete renderer state down to the back
// surface.
func (r *Renderer) applyState() {
	s := r.back
	s.SetTransform(r.state.matrix)
	s.SetAlpha(r.state.alpha)
	s.SetFillStyle(ColorStyle{Color: r.state.color})
	s.SetStrokeColor(r.state.color)
	s.SetLineWidth(r.state.lineWidth)
	s.SetComposite(compositeFor(r.state.blend))
}

// SetTransform implements blit.Renderer: the transform is replaced, not
// multiplied.
func (r *Renderer) SetTransform(m blit.Matrix) {
	r.state.matrix = m
	r.back.SetTransform(m)
}

// Transform implements blit.Renderer: m multiplies into the current
// transform. Without sub-pixel positioning the translation components
// are floored first.
func (r *Renderer) Transform(m blit.Matrix) {
	if !r.subPixel {
		m = m.WithFlooredTranslation()
	}
	r.state.matrix = r.state.matrix.Multiply(m)
	r.back.SetTransform(r.state.matrix)
}

// Translate implements blit.Renderer.
func (r *Renderer) Translate(x, y float64) {
	if !r.subPixel {
		x = math.Floor(x)
		y = math.Floor(y)
	}
	r.state.matrix = r.state.matrix.Multiply(blit.Translate(x, y))
	r.back.SetTransform(r.state.matrix)
}

// SetColor implements blit.Renderer.
func (r *Renderer) SetColor(c blit.RGBA) {
	r.state.color = c
	r.back.SetFillStyle(ColorStyle{Color: c})
	r.back.SetStrokeColor(c)
}

// SetTint implements blit.Renderer.
func (r *Renderer) SetTint(c blit.RGBA) { r.state.tint = c }

// SetGlobalAlpha implements blit.Renderer.
func (r *Renderer) SetGlobalAlpha(a float64) {
	r.state.alpha = a
	r.back.SetAlpha(a)
}

// GlobalAlpha implements blit.Renderer.
func (r *Renderer) GlobalAlpha() float64 { return r.state.alpha }

// SetLineWidth implements blit.Renderer.
func (r *Renderer) SetLineWidth(w float64) {
	r.state.lineWidth = w
	r.back.SetLineWidth(w)
}

// SetBlendMode implements blit.Renderer.
func (r *Renderer) SetBlendMode(m blit.BlendMode) {
	r.state.blend = m
	r.back.SetComposite(compositeFor(m))
}

// BlendMode implements blit.Renderer.
func (r *Renderer) BlendMode() blit.BlendMode { return r.state.blend }

// compositeFor maps a blend mode to the surface composite operation.
func compositeFor(m blit.BlendMode) CompositeOp {
	switch m {
	case blit.BlendMultiply:
		return OpMultiply
	case blit.BlendLighter:
		return OpLighter
	case blit.BlendScreen:
		return OpScreen
	default:
		return OpSourceOver
	}
}

// Clear implements blit.Renderer.
func (r *Renderer) Clear(c blit.RGBA) {
	s := r.back
	w, h := float64(r.width), float64(r.height)
	s.Save()
	s.SetTransform(blit.Identity())
	s.SetAlpha(1)
	s.ClearRect(0, 0, w, h)
	if c.A > 0 {
		s.SetFillStyle(ColorStyle{Color: c})
		s.SetComposite(OpCopy)
		s.BeginPath()
		traceRect(s, 0, 0, w, h)
		s.Fill()
	}
	s.Restore()
}

// visible reports whether drawing can change any pixel at the current
// global alpha. Calls below the threshold skip all geometry and
// compositing work.
func (r *Renderer) visible() bool {
	return r.state.alpha >= blit.MinVisibleAlpha
}

// terminal runs the paint operation a geometry routine ends with.
func (r *Renderer) terminal(fill bool) {
	if fill {
		r.back.Fill()
	} else {
		r.back.Stroke()
	}
}

// StrokeRect implements blit.Renderer.
func (r *Renderer) StrokeRect(x, y, w, h float64) { r.strokeRect(x, y, w, h, false) }

// FillRect implements blit.Renderer.
func (r *Renderer) FillRect(x, y, w, h float64) { r.strokeRect(x, y, w, h, true) }

func (r *Renderer) strokeRect(x, y, w, h float64, fill bool) {
	if !r.visible() {
		return
	}
	r.back.BeginPath()
	traceRect(r.back, x, y, w, h)
	r.terminal(fill)
}

// StrokeRoundedRect implements blit.Renderer.
func (r *Renderer) StrokeRoundedRect(x, y, w, h, radius float64) {
	r.strokeRoundedRect(x, y, w, h, radius, false)
}

// FillRoundedRect implements blit.Renderer.
func (r *Renderer) FillRoundedRect(x, y, w, h, radius float64) {
	r.strokeRoundedRect(x, y, w, h, radius, true)
}

func (r *Renderer) strokeRoundedRect(x, y, w, h, radius float64, fill bool) {
	if !r.visible() {
		return
	}
	r.back.BeginPath()
	traceRoundedRect(r.back, x, y, w, h, radius)
	r.terminal(fill)
}

// StrokeEllipse implements blit.Renderer.
func (r *Renderer) StrokeEllipse(x, y, rx, ry float64) { r.strokeEllipse(x, y, rx, ry, false) }

// FillEllipse implements blit.Renderer.
func (r *Renderer) FillEllipse(x, y, rx, ry float64) { r.strokeEllipse(x, y, rx, ry, true) }

func (r *Renderer) strokeEllipse(x, y, rx, ry float64, fill bool) {
	if !r.visible() {
		return
	}
	r.back.BeginPath()
	traceEllipse(r.back, x, y, rx, ry)
	r.terminal(fill)
}

// StrokeArc implements blit.Renderer.
func (r *Renderer) StrokeArc(x, y, radius, start, end float64) {
	r.strokeArc(x, y, radius, start, end, false)
}

// FillArc implements blit.Renderer.
func (r *Renderer) FillArc(x, y, radius, start, end float64) {
	r.strokeArc(x, y, radius, start, end, true)
}

func (r *Renderer) strokeArc(x, y, radius, start, end float64, fill bool) {
	if !r.visible() {
		return
	}
	s := r.back
	s.BeginPath()
	if fill {
		// Pie slice: anchor at the center so the closed path has a
		// well-defined interior.
		s.MoveTo(x, y)
	}
	s.Arc(x, y, radius, start, end)
	if fill {
		s.ClosePath()
	}
	r.terminal(fill)
}

// StrokeLine implements blit.Renderer.
func (r *Renderer) StrokeLine(x1, y1, x2, y2 float64) {
	if !r.visible() {
		return
	}
	s := r.back
	s.BeginPath()
	s.MoveTo(x1, y1)
	s.LineTo(x2, y2)
	s.Stroke()
}

// StrokePolygon implements blit.Renderer.
func (r *Renderer) StrokePolygon(p blit.Polygon) { r.strokePolygon(p, false) }

// FillPolygon implements blit.Renderer.
func (r *Renderer) FillPolygon(p blit.Polygon) { r.strokePolygon(p, true) }

func (r *Renderer) strokePolygon(p blit.Polygon, fill bool) {
	if !r.visible() || len(p.Points) < 2 {
		return
	}
	r.back.BeginPath()
	tracePolygon(r.back, p)
	r.terminal(fill)
}

// DrawImage implements blit.Renderer: the full image at its natural
// size.
func (r *Renderer) DrawImage(img image.Image, dx, dy float64) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	r.DrawImageRegion(img, 0, 0, w, h, dx, dy, w, h)
}

// DrawImageScaled implements blit.Renderer: the full image scaled to
// the destination size.
func (r *Renderer) DrawImageScaled(img image.Image, dx, dy, dw, dh float64) {
	b := img.Bounds()
	r.DrawImageRegion(img, 0, 0, float64(b.Dx()), float64(b.Dy()), dx, dy, dw, dh)
}

// DrawImageRegion implements blit.Renderer: a source sub-rectangle
// scaled into a destination rectangle. A non-white tint substitutes a
// tinted variant from the texture cache before compositing.
func (r *Renderer) DrawImageRegion(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	if !r.visible() {
		return
	}
	if !r.state.tint.IsWhite() {
		img = r.tints.Tint(img, r.state.tint)
	}
	if !r.subPixel {
		dx = math.Floor(dx)
		dy = math.Floor(dy)
	}
	r.back.DrawImage(img, sx, sy, sw, sh, dx, dy, dw, dh)
}

// Flush implements blit.Renderer: with double buffering the back
// surface is composited onto the front one.
func (r *Renderer) Flush() error {
	r.present()
	return nil
}

// Close implements blit.Renderer.
func (r *Renderer) Close() error {
	r.tints.Clear()
	if d, ok := r.gpuTexture.(textureDestroyer); ok {
		d.Destroy()
	}
	r.gpuTexture = nil
	return nil
}

// Resize changes the drawable size. Pixel contents, the clip region,
// and the mask stack are discarded; style state is re-applied.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
	r.back.Resize(width, height)
	if r.front != nil {
		r.front.Resize(width, height)
	}
	r.scissor = blit.Rect{W: float64(width), H: float64(height)}
	r.maskLevel = 0
	r.applyState()
}

// traceRect traces an axis-aligned rectangle boundary.
func traceRect(s Surface, x, y, w, h float64) {
	s.MoveTo(x, y)
	s.LineTo(x+w, y)
	s.LineTo(x+w, y+h)
	s.LineTo(x, y+h)
	s.ClosePath()
}

// traceEllipse traces an ellipse boundary as 4 cubic Bezier segments.
func traceEllipse(s Surface, x, y, rx, ry float64) {
	ox, oy := rx*kappa, ry*kappa
	s.MoveTo(x+rx, y)
	s.CurveTo(x+rx, y+oy, x+ox, y+ry, x, y+ry)
	s.CurveTo(x-ox, y+ry, x-rx, y+oy, x-rx, y)
	s.CurveTo(x-rx, y-oy, x-ox, y-ry, x, y-ry)
	s.CurveTo(x+ox, y-ry, x+rx, y-oy, x+rx, y)
	s.ClosePath()
}

// traceRoundedRect traces a rounded rectangle boundary with quarter
// ellipse corners.
func traceRoundedRect(s Surface, x, y, w, h, radius float64) {
	rad := math.Min(radius, math.Min(w, h)/2)
	if rad <= 0 {
		traceRect(s, x, y, w, h)
		return
	}
	o := rad * kappa
	s.MoveTo(x+rad, y)
	s.LineTo(x+w-rad, y)
	s.CurveTo(x+w-rad+o, y, x+w, y+rad-o, x+w, y+rad)
	s.LineTo(x+w, y+h-rad)
	s.CurveTo(x+w, y+h-rad+o, x+w-rad+o, y+h, x+w-rad, y+h)
	s.LineTo(x+rad, y+h)
	s.CurveTo(x+rad-o, y+h, x, y+h-rad+o, x, y+h-rad)
	s.LineTo(x, y+rad)
	s.CurveTo(x, y+rad-o, x+rad-o, y, x+rad, y)
	s.ClosePath()
}

// tracePolygon traces polygon vertices offset by the polygon position.
func tracePolygon(s Surface, p blit.Polygon) {
	s.MoveTo(p.X+p.Points[0].X, p.Y+p.Points[0].Y)
	for _, pt := range p.Points[1:] {
		s.LineTo(p.X+pt.X, p.Y+pt.Y)
	}
	s.ClosePath()
}
