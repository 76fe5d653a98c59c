package gpu

import (
	"image"
	"math"

	"github.com/gogpu/blit"
	"github.com/gogpu/gputypes"
)

// BackendName is the registry identifier of the shader backend.
const BackendName = "shader"

// vertexStride is the byte stride of one batched vertex:
// position vec2 + color vec4, all float32.
const vertexStride = 6 * 4

// quadLayout is the client vertex layout of the batch buffer.
var quadLayout = []VertexAttribute{
	{Name: "position", Size: 2, Type: TypeFloat, Offset: 0},
	{Name: "color", Size: 4, Type: TypeFloat, Offset: 8},
}

// Default WGSL program for batched colored geometry.
const (
	defaultVertexShader = `
struct Uniforms {
    projection: mat3x3<f32>,
};
@group(0) @binding(0) var<uniform> globals: Uniforms;

struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) color: vec4<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let p = globals.projection * vec3<f32>(in.position, 1.0);
    out.clip = vec4<f32>(p.xy, 0.0, 1.0);
    out.color = in.color;
    return out;
}
`

	defaultFragmentShader = `
@fragment
fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`
)

// drawState is the saveable style and transform state.
type drawState struct {
	matrix    blit.Matrix
	color     blit.RGBA
	tint      blit.RGBA
	alpha     float64
	lineWidth float64
	blend     blit.BlendMode
}

func defaultDrawState() drawState {
	return drawState{
		matrix:    blit.Identity(),
		color:     blit.Black,
		tint:      blit.White,
		alpha:     1,
		lineWidth: 1,
		blend:     blit.BlendNormal,
	}
}

// Renderer is the GPU shader-program backend.
//
// Geometry is transformed on the CPU, batched as colored vertices, and
// flushed through the device's Drawer capability under the active
// shader program. The renderer owns its default program and rebuilds it
// from the same sources after a context restoration; the program
// destroys itself on loss.
type Renderer struct {
	device Device
	drawer Drawer // nil when the device cannot draw
	ctx    *blit.ContextState
	tints  *blit.TintCache

	width  int
	height int

	state drawState
	stack []drawState

	scissor     blit.Rect
	maskLevel   int
	maskScissor blit.Rect // scissor saved at first mask push

	program *Program
	subtle  bool // sub-pixel rendering enabled
	verts   []float32
	pending int // batched vertex count

	closed bool
}

var _ blit.Renderer = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*options)

type options struct {
	notifier *blit.Notifier
	tints    *blit.TintCache
	subPixel bool
}

// WithRendererNotifier sets the notifier used for context lost/restored
// events. Without it the renderer creates its own.
func WithRendererNotifier(n *blit.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithTintCache sets the texture tint cache consulted for image draws.
func WithTintCache(t *blit.TintCache) Option {
	return func(o *options) { o.tints = t }
}

// WithSubPixel enables sub-pixel positioning. When disabled (the
// default), translations are floored to whole pixels.
func WithSubPixel(enabled bool) Option {
	return func(o *options) { o.subPixel = enabled }
}

// NewRenderer creates a shader backend on the given device.
//
// The default colored-geometry program is compiled immediately;
// compilation failure is fatal since there is no fallback program.
func NewRenderer(device Device, width, height int, opts ...Option) (*Renderer, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.notifier == nil {
		o.notifier = blit.NewNotifier()
	}
	if o.tints == nil {
		o.tints = blit.NewTintCache()
	}

	r := &Renderer{
		device:  device,
		ctx:     blit.NewContextState(o.notifier),
		tints:   o.tints,
		width:   width,
		height:  height,
		state:   defaultDrawState(),
		scissor: blit.Rect{W: float64(width), H: float64(height)},
		subtle:  o.subPixel,
	}
	if d, ok := device.(Drawer); ok {
		r.drawer = d
	}

	if err := r.compileProgram(); err != nil {
		return nil, err
	}

	// Reconstruction after restoration is this renderer's job; the
	// program only destroys itself on loss.
	o.notifier.On(blit.EventContextRestored, func(any) {
		if err := r.compileProgram(); err != nil {
			blit.Logger().Warn("gpu: program rebuild failed", "err", err)
		}
	})

	return r, nil
}

// compileProgram (re)builds the default program from its sources and
// uploads the drawable's projection.
func (r *Renderer) compileProgram() error {
	p, err := Compile(r.device, defaultVertexShader, defaultFragmentShader,
		WithNotifier(r.ctx.Notifier()))
	if err != nil {
		return err
	}
	r.program = p
	p.Bind()
	p.SetVertexAttributes(quadLayout, vertexStride)
	if err := p.SetUniform("globals", projectionMatrix(r.width, r.height)); err != nil {
		blit.Logger().Warn("gpu: projection upload failed", "err", err)
	}
	return nil
}

// projectionMatrix builds the column-major pixel to clip-space
// transform for a drawable of the given size. Pixel (0, 0) maps to the
// top-left corner, (width, height) to the bottom-right.
func projectionMatrix(width, height int) []float64 {
	w, h := float64(width), float64(height)
	return []float64{
		2 / w, 0, 0,
		0, -2 / h, 0,
		-1, 1, 1,
	}
}

// Program returns the renderer's active shader program.
func (r *Renderer) Program() *Program { return r.program }

// NotifyContextLost drives the VALID to LOST transition. The renderer
// marks itself invalid and broadcasts loss; every subscribed program
// destroys itself.
func (r *Renderer) NotifyContextLost() {
	r.verts = r.verts[:0]
	r.pending = 0
	r.ctx.MarkLost(r)
}

// NotifyContextRestored drives the LOST to VALID transition and
// broadcasts restoration. Programs are rebuilt by their owners.
func (r *Renderer) NotifyContextRestored() {
	r.ctx.MarkRestored(r)
}

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

// Restore implements blit.Renderer. The cached scissor resets to the
// full drawable bounds; clip state belongs to the mask stack.
func (r *Renderer) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.scissor = blit.Rect{W: float64(r.width), H: float64(r.height)}
}

// SetTransform implements blit.Renderer.
func (r *Renderer) SetTransform(m blit.Matrix) {
	r.state.matrix = m
}

// Transform implements blit.Renderer.
func (r *Renderer) Transform(m blit.Matrix) {
	if !r.subtle {
		m = m.WithFlooredTranslation()
	}
	r.state.matrix = r.state.matrix.Multiply(m)
}

// Translate implements blit.Renderer.
func (r *Renderer) Translate(x, y float64) {
	if !r.subtle {
		x = math.Floor(x)
		y = math.Floor(y)
	}
	r.state.matrix = r.state.matrix.Multiply(blit.Translate(x, y))
}

// SetColor implements blit.Renderer.
func (r *Renderer) SetColor(c blit.RGBA) { r.state.color = c }

// SetTint implements blit.Renderer.
func (r *Renderer) SetTint(c blit.RGBA) { r.state.tint = c }

// SetGlobalAlpha implements blit.Renderer.
func (r *Renderer) SetGlobalAlpha(a float64) { r.state.alpha = a }

// GlobalAlpha implements blit.Renderer.
func (r *Renderer) GlobalAlpha() float64 { return r.state.alpha }

// SetLineWidth implements blit.Renderer.
func (r *Renderer) SetLineWidth(w float64) { r.state.lineWidth = w }

// SetBlendMode implements blit.Renderer. A mode change flushes the
// current batch since blend state is per draw call.
func (r *Renderer) SetBlendMode(m blit.BlendMode) {
	if m == r.state.blend {
		return
	}
	r.flushBatch()
	r.state.blend = m
}

// BlendMode implements blit.Renderer.
func (r *Renderer) BlendMode() blit.BlendMode { return r.state.blend }

// Clear implements blit.Renderer.
func (r *Renderer) Clear(c blit.RGBA) {
	r.verts = r.verts[:0]
	r.pending = 0
	if r.drawer != nil {
		r.drawer.Clear(c)
	}
}

// visible reports whether drawing can change any pixel at the current
// global alpha. Calls below the threshold skip all geometry work.
func (r *Renderer) visible() bool {
	return r.state.alpha >= blit.MinVisibleAlpha
}

// StrokeRect implements blit.Renderer.
func (r *Renderer) StrokeRect(x, y, w, h float64) {
	r.strokeRect(x, y, w, h, false)
}

// FillRect implements blit.Renderer.
func (r *Renderer) FillRect(x, y, w, h float64) {
	r.strokeRect(x, y, w, h, true)
}

func (r *Renderer) strokeRect(x, y, w, h float64, fill bool) {
	if !r.visible() {
		return
	}
	pts := []blit.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	if fill {
		r.fillConvex(pts)
	} else {
		r.strokeRing(pts)
	}
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
	pts := roundedRectPoints(x, y, w, h, radius)
	if fill {
		r.fillConvex(pts)
	} else {
		r.strokeRing(pts)
	}
}

// StrokeEllipse implements blit.Renderer.
func (r *Renderer) StrokeEllipse(x, y, rx, ry float64) {
	r.strokeEllipse(x, y, rx, ry, false)
}

// FillEllipse implements blit.Renderer.
func (r *Renderer) FillEllipse(x, y, rx, ry float64) {
	r.strokeEllipse(x, y, rx, ry, true)
}

func (r *Renderer) strokeEllipse(x, y, rx, ry float64, fill bool) {
	if !r.visible() {
		return
	}
	pts := ellipsePoints(x, y, rx, ry)
	if fill {
		r.fillConvex(pts)
	} else {
		r.strokeRing(pts)
	}
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
	pts := arcPoints(x, y, radius, start, end)
	if fill {
		// Pie slice: fan from the center.
		pts = append([]blit.Point{{X: x, Y: y}}, pts...)
		r.fillConvex(pts)
	} else {
		r.strokeOpen(pts)
	}
}

// StrokeLine implements blit.Renderer.
func (r *Renderer) StrokeLine(x1, y1, x2, y2 float64) {
	if !r.visible() {
		return
	}
	r.strokeOpen([]blit.Point{{X: x1, Y: y1}, {X: x2, Y: y2}})
}

// StrokePolygon implements blit.Renderer.
func (r *Renderer) StrokePolygon(p blit.Polygon) {
	r.strokePolygon(p, false)
}

// FillPolygon implements blit.Renderer.
func (r *Renderer) FillPolygon(p blit.Polygon) {
	r.strokePolygon(p, true)
}

func (r *Renderer) strokePolygon(p blit.Polygon, fill bool) {
	if !r.visible() || len(p.Points) < 2 {
		return
	}
	pts := make([]blit.Point, len(p.Points))
	for i, pt := range p.Points {
		pts[i] = blit.Point{X: p.X + pt.X, Y: p.Y + pt.Y}
	}
	if fill {
		r.fillConvex(pts)
	} else {
		r.strokeRing(pts)
	}
}

// DrawImage implements blit.Renderer.
func (r *Renderer) DrawImage(img image.Image, dx, dy float64) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	r.DrawImageRegion(img, 0, 0, w, h, dx, dy, w, h)
}

// DrawImageScaled implements blit.Renderer.
func (r *Renderer) DrawImageScaled(img image.Image, dx, dy, dw, dh float64) {
	b := img.Bounds()
	r.DrawImageRegion(img, 0, 0, float64(b.Dx()), float64(b.Dy()), dx, dy, dw, dh)
}

// DrawImageRegion implements blit.Renderer.
func (r *Renderer) DrawImageRegion(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	if !r.visible() || r.drawer == nil {
		return
	}
	if !r.state.tint.IsWhite() {
		img = r.tints.Tint(img, r.state.tint)
	}
	if !r.subtle {
		dx = math.Floor(dx)
		dy = math.Floor(dy)
	}
	p := r.state.matrix.TransformPoint(blit.Point{X: dx, Y: dy})
	r.flushBatch()
	r.drawer.BlitImage(img, sx, sy, sw, sh, p.X, p.Y, dw, dh, r.state.alpha)
}

// pattern is the Pattern implementation of the shader backend.
type pattern struct {
	img    image.Image
	repeat blit.Repeat
}

func (p *pattern) Repeat() blit.Repeat { return p.repeat }

// CreatePattern implements blit.Renderer.
func (r *Renderer) CreatePattern(img image.Image, repeat blit.Repeat) blit.Pattern {
	return &pattern{img: img, repeat: repeat}
}

// DrawPattern implements blit.Renderer.
// The pattern source tiles the rectangle; partial tiles are clipped by
// shrinking the blit region, so no fill-style state needs restoring
// here.
func (r *Renderer) DrawPattern(pt blit.Pattern, x, y, w, h float64) {
	if !r.visible() || r.drawer == nil {
		return
	}
	p, ok := pt.(*pattern)
	if !ok || p.img == nil {
		return
	}

	b := p.img.Bounds()
	tw, th := float64(b.Dx()), float64(b.Dy())
	if tw <= 0 || th <= 0 {
		return
	}

	stepX, stepY := tw, th
	if p.repeat == blit.RepeatY || p.repeat == blit.NoRepeat {
		stepX = w // single column
	}
	if p.repeat == blit.RepeatX || p.repeat == blit.NoRepeat {
		stepY = h // single row
	}

	r.flushBatch()
	for ty := y; ty < y+h; ty += stepY {
		for tx := x; tx < x+w; tx += stepX {
			cw := math.Min(tw, x+w-tx)
			ch := math.Min(th, y+h-ty)
			o := r.state.matrix.TransformPoint(blit.Point{X: tx, Y: ty})
			r.drawer.BlitImage(p.img, 0, 0, cw, ch, o.X, o.Y, cw, ch, r.state.alpha)
		}
	}
}

// ClipRect implements blit.Renderer. The clip is memoized: it is
// re-applied only when the requested rectangle differs from both the
// full drawable bounds and the cached scissor.
func (r *Renderer) ClipRect(x, y, w, h float64) {
	rect := blit.Rect{X: x, Y: y, W: w, H: h}
	full := blit.Rect{W: float64(r.width), H: float64(r.height)}
	if rect == full || rect == r.scissor {
		return
	}
	r.flushBatch()
	r.scissor = rect
	if r.drawer != nil {
		r.drawer.SetScissor(int(x), int(y), int(w), int(h))
	}
}

// SetMask implements blit.Renderer.
//
// The shader backend approximates nested masks by intersecting the
// scissor with each shape's axis-aligned bounds; exact path masking is
// the surface backend's domain. Inverted masks cannot be expressed as a
// scissor and draw no mask, but still count toward the nesting level so
// ClearMask unwinds the same way on both backends.
func (r *Renderer) SetMask(shape blit.Shape, invert bool) {
	if r.maskLevel == 0 {
		r.maskScissor = r.scissor
	}
	r.maskLevel++

	if invert {
		blit.Logger().Warn("gpu: inverted masks are not supported by the shader backend")
		return
	}

	b := shape.Bounds()
	cur := r.scissor
	x1 := math.Max(cur.X, b.X)
	y1 := math.Max(cur.Y, b.Y)
	x2 := math.Min(cur.X+cur.W, b.X+b.W)
	y2 := math.Min(cur.Y+cur.H, b.Y+b.H)
	r.ClipRect(x1, y1, math.Max(0, x2-x1), math.Max(0, y2-y1))
}

// ClearMask implements blit.Renderer. One call unwinds all nested
// pushes at once.
func (r *Renderer) ClearMask() {
	if r.maskLevel == 0 {
		return
	}
	r.maskLevel = 0
	r.flushBatch()
	r.scissor = r.maskScissor
	if r.drawer != nil {
		r.drawer.SetScissor(int(r.scissor.X), int(r.scissor.Y), int(r.scissor.W), int(r.scissor.H))
	}
}

// Flush implements blit.Renderer: the batch is drawn and the frame
// presented.
func (r *Renderer) Flush() error {
	if r.drawer == nil {
		return ErrNoDrawer
	}
	r.flushBatch()
	return r.drawer.Present()
}

// Close implements blit.Renderer.
func (r *Renderer) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.verts = nil
	r.pending = 0
	if r.program != nil && !r.program.Destroyed() {
		r.program.Destroy()
	}
	return nil
}

// fillConvex batches a convex ring as a triangle fan.
func (r *Renderer) fillConvex(pts []blit.Point) {
	if len(pts) < 3 {
		return
	}
	for i := 1; i < len(pts)-1; i++ {
		r.pushVertex(pts[0])
		r.pushVertex(pts[i])
		r.pushVertex(pts[i+1])
	}
}

// strokeRing strokes a closed ring of points.
func (r *Renderer) strokeRing(pts []blit.Point) {
	for i := range pts {
		r.strokeSegment(pts[i], pts[(i+1)%len(pts)])
	}
}

// strokeOpen strokes an open polyline.
func (r *Renderer) strokeOpen(pts []blit.Point) {
	for i := 0; i+1 < len(pts); i++ {
		r.strokeSegment(pts[i], pts[i+1])
	}
}

// strokeSegment batches one line segment as a width-expanded quad.
func (r *Renderer) strokeSegment(a, b blit.Point) {
	d := b.Sub(a)
	length := d.Length()
	if length == 0 {
		return
	}
	half := math.Max(r.state.lineWidth, 1) / 2
	// Perpendicular offset of half the line width.
	n := blit.Point{X: -d.Y / length * half, Y: d.X / length * half}

	q := []blit.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}
	r.fillConvex(q)
}

// pushVertex appends one transformed vertex with the current color and
// global alpha.
func (r *Renderer) pushVertex(p blit.Point) {
	t := r.state.matrix.TransformPoint(p)
	c := r.state.color
	r.verts = append(r.verts,
		float32(t.X), float32(t.Y),
		float32(c.R), float32(c.G), float32(c.B), float32(c.A*r.state.alpha))
	r.pending++
}

// flushBatch uploads and draws any batched vertices.
func (r *Renderer) flushBatch() {
	if r.pending == 0 || r.drawer == nil {
		if r.pending > 0 {
			r.verts = r.verts[:0]
			r.pending = 0
		}
		return
	}
	if r.program != nil {
		r.program.Bind()
	}
	r.drawer.SetBlend(blendState(r.state.blend))
	r.drawer.UploadVertices(r.verts)
	r.drawer.DrawTriangles(0, r.pending)
	r.verts = r.verts[:0]
	r.pending = 0
}

// blendState maps a blend mode to its premultiplied-alpha blend state.
func blendState(m blit.BlendMode) gputypes.BlendState {
	add := func(src, dst gputypes.BlendFactor) gputypes.BlendState {
		c := gputypes.BlendComponent{
			SrcFactor: src,
			DstFactor: dst,
			Operation: gputypes.BlendOperationAdd,
		}
		return gputypes.BlendState{Color: c, Alpha: c}
	}

	switch m {
	case blit.BlendMultiply:
		return add(gputypes.BlendFactorDst, gputypes.BlendFactorOneMinusSrcAlpha)
	case blit.BlendLighter:
		return add(gputypes.BlendFactorOne, gputypes.BlendFactorOne)
	case blit.BlendScreen:
		return add(gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrc)
	default:
		return gputypes.BlendStatePremultiplied()
	}
}

// ellipseSegments is the tessellation density of ellipse and arc
// boundaries.
const ellipseSegments = 40

// ellipsePoints samples an ellipse boundary.
func ellipsePoints(x, y, rx, ry float64) []blit.Point {
	pts := make([]blit.Point, ellipseSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		pts[i] = blit.Point{X: x + rx*math.Cos(a), Y: y + ry*math.Sin(a)}
	}
	return pts
}

// arcPoints samples a circular arc from start to end radians.
func arcPoints(x, y, radius, start, end float64) []blit.Point {
	for end < start {
		end += 2 * math.Pi
	}
	n := int(math.Ceil((end - start) / (2 * math.Pi) * ellipseSegments))
	if n < 2 {
		n = 2
	}
	pts := make([]blit.Point, n+1)
	for i := 0; i <= n; i++ {
		a := start + (end-start)*float64(i)/float64(n)
		pts[i] = blit.Point{X: x + radius*math.Cos(a), Y: y + radius*math.Sin(a)}
	}
	return pts
}

// roundedRectPoints samples a rounded rectangle boundary.
func roundedRectPoints(x, y, w, h, radius float64) []blit.Point {
	r := math.Min(radius, math.Min(w, h)/2)
	if r <= 0 {
		return []blit.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	}

	corner := func(cx, cy, from float64) []blit.Point {
		const steps = 6
		pts := make([]blit.Point, steps+1)
		for i := 0; i <= steps; i++ {
			a := from + math.Pi/2*float64(i)/steps
			pts[i] = blit.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
		}
		return pts
	}

	var pts []blit.Point
	pts = append(pts, corner(x+w-r, y+r, -math.Pi/2)...)
	pts = append(pts, corner(x+w-r, y+h-r, 0)...)
	pts = append(pts, corner(x+r, y+h-r, math.Pi/2)...)
	pts = append(pts, corner(x+r, y+r, math.Pi)...)
	return pts
}
