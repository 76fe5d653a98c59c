package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/blit"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// curveSteps is the flattening density of cubic Bezier segments.
const curveSteps = 24

// surfaceState is the saveable state of an ImageSurface. The clip mask
// is immutable once built, so saved states can share it.
type surfaceState struct {
	matrix    blit.Matrix
	fill      FillStyle
	stroke    blit.RGBA
	lineWidth float64
	alpha     float64
	op        CompositeOp
	clip      *image.Alpha // nil when unclipped
}

func defaultSurfaceState() surfaceState {
	return surfaceState{
		matrix:    blit.Identity(),
		fill:      ColorStyle{Color: blit.Black},
		stroke:    blit.Black,
		lineWidth: 1,
		alpha:     1,
		op:        OpSourceOver,
	}
}

// ImageSurface is the in-memory Surface implementation. Paths are
// flattened to polylines at record time with the current transform
// applied, rasterized to coverage masks, and composited per pixel.
type ImageSurface struct {
	rgba  *image.RGBA
	state surfaceState
	stack []surfaceState

	contours [][]blit.Point // device space
	cur      blit.Point     // user space, for curve flattening
	open     bool
}

var _ Surface = (*ImageSurface)(nil)

// NewImageSurface creates a transparent surface of the given size.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		rgba:  image.NewRGBA(image.Rect(0, 0, width, height)),
		state: defaultSurfaceState(),
	}
}

// Size implements Surface.
func (s *ImageSurface) Size() (int, int) {
	b := s.rgba.Bounds()
	return b.Dx(), b.Dy()
}

// Save implements Surface.
func (s *ImageSurface) Save() {
	s.stack = append(s.stack, s.state)
}

// Restore implements Surface.
func (s *ImageSurface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

// SetTransform implements Surface.
func (s *ImageSurface) SetTransform(m blit.Matrix) { s.state.matrix = m }

// SetComposite implements Surface.
func (s *ImageSurface) SetComposite(op CompositeOp) { s.state.op = op }

// SetAlpha implements Surface.
func (s *ImageSurface) SetAlpha(a float64) { s.state.alpha = math.Min(math.Max(a, 0), 1) }

// SetFillStyle implements Surface.
func (s *ImageSurface) SetFillStyle(style FillStyle) { s.state.fill = style }

// FillStyle implements Surface.
func (s *ImageSurface) FillStyle() FillStyle { return s.state.fill }

// SetStrokeColor implements Surface.
func (s *ImageSurface) SetStrokeColor(c blit.RGBA) { s.state.stroke = c }

// SetLineWidth implements Surface.
func (s *ImageSurface) SetLineWidth(w float64) { s.state.lineWidth = w }

// BeginPath implements Surface.
func (s *ImageSurface) BeginPath() {
	s.contours = s.contours[:0]
	s.open = false
}

// MoveTo implements Surface.
func (s *ImageSurface) MoveTo(x, y float64) {
	p := s.state.matrix.TransformPoint(blit.Point{X: x, Y: y})
	s.contours = append(s.contours, []blit.Point{p})
	s.cur = blit.Point{X: x, Y: y}
	s.open = true
}

// LineTo implements Surface.
func (s *ImageSurface) LineTo(x, y float64) {
	if !s.open {
		s.MoveTo(x, y)
		return
	}
	p := s.state.matrix.TransformPoint(blit.Point{X: x, Y: y})
	last := len(s.contours) - 1
	s.contours[last] = append(s.contours[last], p)
	s.cur = blit.Point{X: x, Y: y}
}

// CurveTo implements Surface. The segment is flattened at record time.
func (s *ImageSurface) CurveTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !s.open {
		s.MoveTo(x, y)
		return
	}
	p0 := s.cur
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		px := u*u*u*p0.X + 3*u*u*t*c1x + 3*u*t*t*c2x + t*t*t*x
		py := u*u*u*p0.Y + 3*u*u*t*c1y + 3*u*t*t*c2y + t*t*t*y
		s.LineTo(px, py)
	}
}

// Arc implements Surface.
func (s *ImageSurface) Arc(x, y, radius, start, end float64) {
	for end < start {
		end += 2 * math.Pi
	}
	steps := int(math.Ceil((end - start) / (2 * math.Pi) * 64))
	if steps < 2 {
		steps = 2
	}
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		px := x + radius*math.Cos(a)
		py := y + radius*math.Sin(a)
		if i == 0 && !s.open {
			s.MoveTo(px, py)
			continue
		}
		s.LineTo(px, py)
	}
}

// ClosePath implements Surface.
func (s *ImageSurface) ClosePath() {
	if len(s.contours) == 0 {
		return
	}
	last := len(s.contours) - 1
	c := s.contours[last]
	if len(c) > 1 {
		s.contours[last] = append(c, c[0])
	}
}

// Fill implements Surface.
func (s *ImageSurface) Fill() {
	mask := s.coverage(s.contours)
	s.paint(mask, s.state.fill)
}

// Stroke implements Surface.
func (s *ImageSurface) Stroke() {
	quads := strokeContours(s.contours, s.state.lineWidth)
	mask := s.coverage(quads)
	s.paint(mask, ColorStyle{Color: s.state.stroke})
}

// Clip implements Surface. The new region is the intersection of the
// current region with the path's interior.
func (s *ImageSurface) Clip() {
	mask := s.coverage(s.contours)
	if prev := s.state.clip; prev != nil {
		for i, a := range prev.Pix {
			mask.Pix[i] = uint8(uint16(mask.Pix[i]) * uint16(a) / 255)
		}
	}
	s.state.clip = mask
}

// ClearRect implements Surface.
func (s *ImageSurface) ClearRect(x, y, w, h float64) {
	p := s.state.matrix.TransformPoint(blit.Point{X: x, Y: y})
	r := image.Rect(int(p.X), int(p.Y), int(p.X+w), int(p.Y+h)).Intersect(s.rgba.Bounds())
	draw.Draw(s.rgba, r, image.Transparent, image.Point{}, draw.Src)
}

// DrawImage implements Surface. The source sub-rectangle is scaled to
// the destination size, then composited under the current alpha, clip,
// and composite operation. Only the transform's translation applies to
// image placement.
func (s *ImageSurface) DrawImage(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return
	}

	sb := img.Bounds()
	srcRect := image.Rect(
		sb.Min.X+int(sx), sb.Min.Y+int(sy),
		sb.Min.X+int(sx+sw), sb.Min.Y+int(sy+sh),
	).Intersect(sb)
	if srcRect.Empty() {
		return
	}

	tmp := image.NewRGBA(image.Rect(0, 0, int(math.Round(dw)), int(math.Round(dh))))
	xdraw.ApproxBiLinear.Scale(tmp, tmp.Bounds(), img, srcRect, xdraw.Src, nil)

	origin := s.state.matrix.TransformPoint(blit.Point{X: dx, Y: dy})
	ox, oy := int(origin.X), int(origin.Y)

	w, h := s.Size()
	tb := tmp.Bounds()
	for ty := tb.Min.Y; ty < tb.Max.Y; ty++ {
		for tx := tb.Min.X; tx < tb.Max.X; tx++ {
			x, y := ox+tx, oy+ty
			if x < 0 || y < 0 || x >= w || y >= h {
				continue
			}
			factor := s.state.alpha
			if s.state.clip != nil {
				factor *= float64(s.state.clip.AlphaAt(x, y).A) / 255
			}
			if factor == 0 {
				continue
			}
			c := tmp.RGBAAt(tx, ty)
			pr := float64(c.R) / 255 * factor
			pg := float64(c.G) / 255 * factor
			pb := float64(c.B) / 255 * factor
			pa := float64(c.A) / 255 * factor
			if pa == 0 && s.state.op != OpCopy {
				continue
			}
			s.compose(x, y, pr, pg, pb, pa)
		}
	}
}

// Resize implements Surface. Contents, clip, and saves are discarded.
func (s *ImageSurface) Resize(width, height int) {
	s.rgba = image.NewRGBA(image.Rect(0, 0, width, height))
	s.state = defaultSurfaceState()
	s.stack = s.stack[:0]
	s.contours = s.contours[:0]
	s.open = false
}

// Snapshot implements Surface. The returned image is a copy.
func (s *ImageSurface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.rgba.Bounds())
	copy(out.Pix, s.rgba.Pix)
	return out
}

// coverage rasterizes contours to an antialiased alpha mask.
func (s *ImageSurface) coverage(contours [][]blit.Point) *image.Alpha {
	w, h := s.Size()
	vr := vector.NewRasterizer(w, h)
	vr.DrawOp = draw.Src
	for _, c := range contours {
		if len(c) < 2 {
			continue
		}
		vr.MoveTo(float32(c[0].X), float32(c[0].Y))
		for _, p := range c[1:] {
			vr.LineTo(float32(p.X), float32(p.Y))
		}
		vr.ClosePath()
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	vr.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// paint composites a coverage mask with the given style. Destination-in
// touches every pixel since uncovered destination must be dropped.
func (s *ImageSurface) paint(mask *image.Alpha, style FillStyle) {
	w, h := s.Size()

	if s.state.op == OpDestinationIn {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				factor := float64(mask.AlphaAt(x, y).A) / 255 * s.state.alpha
				_, _, _, sa := styleAt(style, x, y)
				s.scaleDst(x, y, factor*sa)
			}
		}
		return
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			factor := float64(mask.AlphaAt(x, y).A) / 255
			if factor == 0 {
				continue
			}
			if s.state.clip != nil {
				factor *= float64(s.state.clip.AlphaAt(x, y).A) / 255
			}
			factor *= s.state.alpha
			if factor == 0 {
				continue
			}
			sr, sg, sb, sa := styleAt(style, x, y)
			if sa == 0 && s.state.op != OpCopy {
				continue
			}
			s.compose(x, y, sr*factor, sg*factor, sb*factor, sa*factor)
		}
	}
}

// compose applies the current composite operation at one pixel. Source
// channels are premultiplied, range [0, 1].
func (s *ImageSurface) compose(x, y int, sr, sg, sb, sa float64) {
	d := s.rgba.RGBAAt(x, y)
	dr := float64(d.R) / 255
	dg := float64(d.G) / 255
	db := float64(d.B) / 255
	da := float64(d.A) / 255

	var or, og, ob, oa float64
	switch s.state.op {
	case OpMultiply:
		or = sr*dr + sr*(1-da) + dr*(1-sa)
		og = sg*dg + sg*(1-da) + dg*(1-sa)
		ob = sb*db + sb*(1-da) + db*(1-sa)
		oa = sa + da*(1-sa)
	case OpLighter:
		or, og, ob, oa = sr+dr, sg+dg, sb+db, sa+da
	case OpScreen:
		or = sr + dr - sr*dr
		og = sg + dg - sg*dg
		ob = sb + db - sb*db
		oa = sa + da - sa*da
	case OpCopy:
		or, og, ob, oa = sr, sg, sb, sa
	default: // OpSourceOver
		or = sr + dr*(1-sa)
		og = sg + dg*(1-sa)
		ob = sb + db*(1-sa)
		oa = sa + da*(1-sa)
	}

	s.rgba.SetRGBA(x, y, toRGBA8(or, og, ob, oa))
}

// scaleDst multiplies one destination pixel by a factor.
func (s *ImageSurface) scaleDst(x, y int, factor float64) {
	d := s.rgba.RGBAAt(x, y)
	s.rgba.SetRGBA(x, y, toRGBA8(
		float64(d.R)/255*factor,
		float64(d.G)/255*factor,
		float64(d.B)/255*factor,
		float64(d.A)/255*factor,
	))
}

func toRGBA8(r, g, b, a float64) color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{R: clamp(r), G: clamp(g), B: clamp(b), A: clamp(a)}
}

// styleAt samples the fill style at a device pixel, returning
// premultiplied channels in [0, 1].
func styleAt(style FillStyle, x, y int) (r, g, b, a float64) {
	switch st := style.(type) {
	case ColorStyle:
		c := st.Color
		return c.R * c.A, c.G * c.A, c.B * c.A, c.A
	case PatternStyle:
		if st.Image == nil {
			return 0, 0, 0, 0
		}
		pb := st.Image.Bounds()
		tw, th := pb.Dx(), pb.Dy()
		if tw == 0 || th == 0 {
			return 0, 0, 0, 0
		}
		u, v := x, y
		switch st.Repeat {
		case blit.RepeatXY:
			u, v = mod(x, tw), mod(y, th)
		case blit.RepeatX:
			u = mod(x, tw)
		case blit.RepeatY:
			v = mod(y, th)
		}
		if u < 0 || v < 0 || u >= tw || v >= th {
			return 0, 0, 0, 0
		}
		pr, pg, pb16, pa := st.Image.At(pb.Min.X+u, pb.Min.Y+v).RGBA()
		return float64(pr) / 0xffff, float64(pg) / 0xffff, float64(pb16) / 0xffff, float64(pa) / 0xffff
	}
	return 0, 0, 0, 0
}

func mod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// strokeContours expands polyline contours into filled quads of the
// given width.
func strokeContours(contours [][]blit.Point, width float64) [][]blit.Point {
	half := math.Max(width, 1) / 2
	var out [][]blit.Point
	for _, c := range contours {
		for i := 0; i+1 < len(c); i++ {
			a, b := c[i], c[i+1]
			d := b.Sub(a)
			length := d.Length()
			if length == 0 {
				continue
			}
			n := blit.Point{X: -d.Y / length * half, Y: d.X / length * half}
			out = append(out, []blit.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
		}
	}
	return out
}
