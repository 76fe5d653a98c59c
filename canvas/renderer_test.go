package canvas

import (
	"fmt"
	"image"
	"reflect"
	"testing"

	"github.com/gogpu/blit"
)

// recordingSurface logs every surface call so tests can assert on the
// exact call sequences the renderer produces.
type recordingSurface struct {
	w, h int
	ops  []string

	saves    int
	restores int
	clips    int

	fill FillStyle
}

func newRecordingSurface(w, h int) *recordingSurface {
	return &recordingSurface{w: w, h: h, fill: ColorStyle{Color: blit.Black}}
}

func (s *recordingSurface) log(format string, args ...any) {
	s.ops = append(s.ops, fmt.Sprintf(format, args...))
}

// paintOps returns only the ops that mutate pixels.
func (s *recordingSurface) paintOps() []string {
	var out []string
	for _, op := range s.ops {
		switch op[:4] {
		case "fill", "stro", "clea", "draw":
			out = append(out, op)
		}
	}
	return out
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }

func (s *recordingSurface) Save()    { s.saves++; s.log("save") }
func (s *recordingSurface) Restore() { s.restores++; s.log("restore") }

func (s *recordingSurface) SetTransform(m blit.Matrix) { s.log("transform %v", m) }
func (s *recordingSurface) SetComposite(op CompositeOp) {
	s.log("composite %s", op)
}
func (s *recordingSurface) SetAlpha(a float64)          { s.log("alpha %v", a) }
func (s *recordingSurface) SetFillStyle(st FillStyle)   { s.fill = st; s.log("style %T", st) }
func (s *recordingSurface) FillStyle() FillStyle        { return s.fill }
func (s *recordingSurface) SetStrokeColor(c blit.RGBA)  { s.log("pen %v", c) }
func (s *recordingSurface) SetLineWidth(w float64)      { s.log("linewidth %v", w) }

func (s *recordingSurface) BeginPath()       { s.log("begin") }
func (s *recordingSurface) MoveTo(x, y float64) { s.log("move %v %v", x, y) }
func (s *recordingSurface) LineTo(x, y float64) { s.log("line %v %v", x, y) }
func (s *recordingSurface) CurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.log("curve %v %v %v %v %v %v", c1x, c1y, c2x, c2y, x, y)
}
func (s *recordingSurface) Arc(x, y, radius, start, end float64) {
	s.log("arc %v %v %v %v %v", x, y, radius, start, end)
}
func (s *recordingSurface) ClosePath() { s.log("close") }

func (s *recordingSurface) Fill()   { s.log("fillpath") }
func (s *recordingSurface) Stroke() { s.log("strokepath") }
func (s *recordingSurface) Clip()   { s.clips++; s.log("clip") }

func (s *recordingSurface) ClearRect(x, y, w, h float64) { s.log("clearrect %v %v %v %v", x, y, w, h) }
func (s *recordingSurface) DrawImage(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	s.log("drawimage %p %v %v %v %v %v %v %v %v", img, sx, sy, sw, sh, dx, dy, dw, dh)
}

func (s *recordingSurface) Resize(w, h int) { s.w, s.h = w, h; s.log("resize %d %d", w, h) }
func (s *recordingSurface) Snapshot() *image.RGBA {
	s.log("snapshot")
	return image.NewRGBA(image.Rect(0, 0, s.w, s.h))
}

func newRecordedRenderer() (*Renderer, *recordingSurface) {
	s := newRecordingSurface(320, 240)
	r := NewRenderer(320, 240, WithSurface(s))
	s.ops = nil // drop construction traffic
	return r, s
}

func TestFillRectEqualsStrokeRectFilled(t *testing.T) {
	r1, s1 := newRecordedRenderer()
	r1.FillRect(3, 4, 50, 60)

	r2, s2 := newRecordedRenderer()
	r2.strokeRect(3, 4, 50, 60, true)

	if !reflect.DeepEqual(s1.ops, s2.ops) {
		t.Errorf("call sequences differ:\n fill:   %v\n stroke: %v", s1.ops, s2.ops)
	}
}

func TestAlphaGate(t *testing.T) {
	r, s := newRecordedRenderer()

	r.SetGlobalAlpha(0.9 / 255)
	s.ops = nil
	r.FillRect(0, 0, 10, 10)
	r.StrokeEllipse(50, 50, 10, 10)
	r.StrokeLine(0, 0, 10, 10)
	r.FillArc(30, 30, 5, 0, 1)
	r.StrokePolygon(blit.Polygon{Points: []blit.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}}})
	r.DrawImage(image.NewRGBA(image.Rect(0, 0, 4, 4)), 0, 0)
	r.DrawPattern(r.CreatePattern(image.NewRGBA(image.Rect(0, 0, 4, 4)), blit.RepeatXY), 0, 0, 8, 8)

	if got := s.paintOps(); len(got) != 0 {
		t.Errorf("invisible draws mutated the surface: %v", got)
	}

	// Exactly at the threshold drawing resumes.
	r.SetGlobalAlpha(1.0 / 255)
	s.ops = nil
	r.FillRect(0, 0, 10, 10)
	if got := s.paintOps(); len(got) == 0 {
		t.Error("threshold alpha draw was dropped")
	}
}

func TestMaskNestingNetZero(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		r, s := newRecordedRenderer()
		before := s.saves - s.restores

		for i := 0; i < n; i++ {
			r.SetMask(blit.Rect{X: float64(i), Y: 0, W: 50, H: 50}, false)
		}
		r.ClearMask()

		if depth := s.saves - s.restores; depth != before {
			t.Errorf("n=%d: stack depth changed by %d", n, depth-before)
		}
		// Only the first push saved.
		if s.saves != 1 {
			t.Errorf("n=%d: saves = %d, want 1", n, s.saves)
		}
	}
}

func TestClipRectMemoized(t *testing.T) {
	r, s := newRecordedRenderer()

	r.ClipRect(10, 10, 50, 50)
	r.ClipRect(10, 10, 50, 50)
	if s.clips != 1 {
		t.Errorf("clip path built %d times, want 1", s.clips)
	}

	// The full surface bounds never build a clip path.
	r2, s2 := newRecordedRenderer()
	r2.ClipRect(0, 0, 320, 240)
	if s2.clips != 0 {
		t.Errorf("full-bounds clip built a clip path")
	}
}

func TestRestoreResetsScissorCache(t *testing.T) {
	r, s := newRecordedRenderer()

	r.ClipRect(10, 10, 50, 50)
	r.Save()
	r.Restore()
	// The cache was reset, so the same rectangle clips again.
	r.ClipRect(10, 10, 50, 50)
	if s.clips != 2 {
		t.Errorf("clips = %d, want 2", s.clips)
	}
}

func TestClearMaskResetsScissorCache(t *testing.T) {
	r, s := newRecordedRenderer()

	r.SetMask(blit.Rect{X: 0, Y: 0, W: 100, H: 100}, false)
	r.ClipRect(10, 10, 50, 50)
	r.ClearMask()
	// The restore dropped the clip along with the mask, so the same
	// rectangle must clip again.
	r.ClipRect(10, 10, 50, 50)
	if s.clips != 3 {
		t.Errorf("clips = %d, want 3", s.clips)
	}
}

func TestBlendModeMappingTotal(t *testing.T) {
	tests := []struct {
		token string
		want  CompositeOp
	}{
		{"normal", OpSourceOver},
		{"multiply", OpMultiply},
		{"lighter", OpLighter},
		{"additive", OpLighter},
		{"screen", OpScreen},
		{"no-such-mode", OpSourceOver},
		{"", OpSourceOver},
	}
	for _, tt := range tests {
		if got := compositeFor(blit.ParseBlendMode(tt.token)); got != tt.want {
			t.Errorf("compositeFor(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}

	// An unknown token behaves identically to normal end to end.
	r1, s1 := newRecordedRenderer()
	r1.SetBlendMode(blit.ParseBlendMode("no-such-mode"))
	r1.FillRect(0, 0, 10, 10)

	r2, s2 := newRecordedRenderer()
	r2.SetBlendMode(blit.ParseBlendMode("normal"))
	r2.FillRect(0, 0, 10, 10)

	if !reflect.DeepEqual(s1.ops, s2.ops) {
		t.Errorf("unknown mode diverged from normal:\n %v\n %v", s1.ops, s2.ops)
	}
}

func TestDrawImageArityEquivalence(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))

	r1, s1 := newRecordedRenderer()
	r1.DrawImage(img, 10, 10)

	r2, s2 := newRecordedRenderer()
	r2.DrawImageRegion(img, 0, 0, 32, 32, 10, 10, 32, 32)

	if !reflect.DeepEqual(s1.ops, s2.ops) {
		t.Errorf("arities diverge:\n short: %v\n full:  %v", s1.ops, s2.ops)
	}
}

func TestDrawImageFloorsDestination(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	r, s := newRecordedRenderer()
	r.DrawImage(img, 10.7, 10.2)

	r2, s2 := newRecordedRenderer()
	r2.DrawImage(img, 10, 10)

	if !reflect.DeepEqual(s.ops, s2.ops) {
		t.Errorf("sub-pixel destination not floored:\n %v\n %v", s.ops, s2.ops)
	}

	// With sub-pixel positioning enabled the fraction survives.
	s3 := newRecordingSurface(320, 240)
	r3 := NewRenderer(320, 240, WithSurface(s3), WithSubPixel(true))
	s3.ops = nil
	r3.DrawImage(img, 10.7, 10.2)
	if reflect.DeepEqual(s3.ops, s2.ops) {
		t.Error("sub-pixel destination was floored")
	}
}

func TestDrawImageTintSubstitution(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	r, s := newRecordedRenderer()
	r.DrawImage(img, 0, 0)
	white := s.ops[len(s.ops)-1]

	// A white tint draws the original image.
	r.SetTint(blit.White)
	s.ops = nil
	r.DrawImage(img, 0, 0)
	if s.ops[len(s.ops)-1] != white {
		t.Error("white tint substituted an image")
	}

	// A non-white tint substitutes the cached tinted variant.
	r.SetTint(blit.RGBA{R: 1, G: 0, B: 0, A: 1})
	s.ops = nil
	r.DrawImage(img, 0, 0)
	if s.ops[len(s.ops)-1] == white {
		t.Error("tinted draw reused the original image")
	}
}

func TestDrawPatternRestoresFillStyle(t *testing.T) {
	r, s := newRecordedRenderer()

	r.SetColor(blit.Blue)
	before := s.fill
	p := r.CreatePattern(image.NewRGBA(image.Rect(0, 0, 4, 4)), blit.RepeatX)
	if p.Repeat() != blit.RepeatX {
		t.Errorf("Repeat = %v", p.Repeat())
	}
	r.DrawPattern(p, 0, 0, 64, 64)

	if !reflect.DeepEqual(s.fill, before) {
		t.Errorf("fill style leaked: %#v", s.fill)
	}
}

func TestTransformGridSnapping(t *testing.T) {
	r, _ := newRecordedRenderer()

	r.Translate(10.9, 20.1)
	m := r.state.matrix
	if m.C != 10 || m.F != 20 {
		t.Errorf("translation not floored: %v %v", m.C, m.F)
	}

	r.SetTransform(blit.Identity())
	r.Transform(blit.Translate(3.7, 4.2))
	m = r.state.matrix
	if m.C != 3 || m.F != 4 {
		t.Errorf("transform translation not floored: %v %v", m.C, m.F)
	}

	// SetTransform is absolute and never snapped.
	r.SetTransform(blit.Translate(1.5, 2.5))
	m = r.state.matrix
	if m.C != 1.5 || m.F != 2.5 {
		t.Errorf("absolute transform altered: %v %v", m.C, m.F)
	}
}

func TestSaveRestoreResyncsAlpha(t *testing.T) {
	r, s := newRecordedRenderer()

	r.SetGlobalAlpha(0.75)
	r.Save()
	r.SetGlobalAlpha(0.1)
	s.ops = nil
	r.Restore()

	if r.GlobalAlpha() != 0.75 {
		t.Fatalf("alpha = %v, want 0.75", r.GlobalAlpha())
	}
	// The restored alpha was pushed back down to the surface.
	found := false
	for _, op := range s.ops {
		if op == "alpha 0.75" {
			found = true
		}
	}
	if !found {
		t.Errorf("alpha not re-synchronized: %v", s.ops)
	}
}

func TestDoubleBufferPresent(t *testing.T) {
	front := newRecordingSurface(64, 64)
	r := NewRenderer(64, 64, WithSurface(front), WithDoubleBuffering(true))
	front.ops = nil

	// Drawing goes to the back surface, not the front.
	r.FillRect(0, 0, 10, 10)
	if len(front.paintOps()) != 0 {
		t.Fatalf("draw leaked to front surface: %v", front.ops)
	}

	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	ops := front.paintOps()
	if len(ops) != 1 || ops[0][:9] != "drawimage" {
		t.Fatalf("present ops = %v", front.ops)
	}

	// Opaque presentation blends source-over.
	if !contains(front.ops, "composite source-over") {
		t.Errorf("opaque present composite: %v", front.ops)
	}

	// Transparency forces a direct copy regardless of blend mode.
	front2 := newRecordingSurface(64, 64)
	r2 := NewRenderer(64, 64, WithSurface(front2),
		WithDoubleBuffering(true), WithTransparency(true))
	r2.SetBlendMode(blit.BlendLighter)
	front2.ops = nil
	r2.Flush()
	if !contains(front2.ops, "composite copy") {
		t.Errorf("transparent present composite: %v", front2.ops)
	}
}

func contains(ops []string, want string) bool {
	for _, op := range ops {
		if op == want {
			return true
		}
	}
	return false
}

func TestRendererContract(t *testing.T) {
	r, _ := newRecordedRenderer()
	if r.Name() != BackendName {
		t.Errorf("Name = %q", r.Name())
	}
	if w, h := r.Width(), r.Height(); w != 320 || h != 240 {
		t.Errorf("size = %dx%d", w, h)
	}
	if !r.Valid() {
		t.Error("renderer invalid at start")
	}
	r.NotifyContextLost()
	if r.Valid() {
		t.Error("renderer valid after loss")
	}
	r.NotifyContextRestored()
	if !r.Valid() {
		t.Error("renderer invalid after restore")
	}
}
