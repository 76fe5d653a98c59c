package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/blit"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

func TestImageSurfaceFillRect(t *testing.T) {
	r := NewRenderer(20, 20)
	r.SetColor(blit.Red)
	r.FillRect(5, 5, 10, 10)

	px := r.Snapshot().RGBAAt(10, 10)
	if px != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("interior pixel = %v", px)
	}
	if out := r.Snapshot().RGBAAt(2, 2); out.A != 0 {
		t.Errorf("exterior pixel painted: %v", out)
	}
}

func TestImageSurfaceStrokeLeavesInterior(t *testing.T) {
	r := NewRenderer(30, 30)
	r.SetColor(blit.Blue)
	r.SetLineWidth(2)
	r.StrokeRect(5, 5, 20, 20)

	snap := r.Snapshot()
	if edge := snap.RGBAAt(15, 5); edge.A == 0 {
		t.Errorf("edge pixel unpainted: %v", edge)
	}
	if center := snap.RGBAAt(15, 15); center.A != 0 {
		t.Errorf("stroke painted the interior: %v", center)
	}
}

func TestImageSurfaceFillEllipse(t *testing.T) {
	r := NewRenderer(40, 40)
	r.SetColor(blit.Green)
	r.FillEllipse(20, 20, 15, 10)

	snap := r.Snapshot()
	if c := snap.RGBAAt(20, 20); c.A == 0 {
		t.Errorf("ellipse center unpainted: %v", c)
	}
	// Inside the bounding box but outside the ellipse.
	if c := snap.RGBAAt(6, 11); c.A != 0 {
		t.Errorf("ellipse corner painted: %v", c)
	}
}

func TestImageSurfaceClear(t *testing.T) {
	r := NewRenderer(10, 10)
	r.SetColor(blit.Red)
	r.FillRect(0, 0, 10, 10)

	r.Clear(blit.RGBA{})
	if c := r.Snapshot().RGBAAt(5, 5); c.A != 0 {
		t.Errorf("pixel survived clear: %v", c)
	}

	r.Clear(blit.Blue)
	if c := r.Snapshot().RGBAAt(5, 5); c != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("clear color = %v", c)
	}
}

func TestImageSurfaceMaskClips(t *testing.T) {
	r := NewRenderer(40, 40)
	r.SetMask(blit.Rect{X: 10, Y: 10, W: 10, H: 10}, false)
	r.SetColor(blit.Red)
	r.FillRect(0, 0, 40, 40)
	r.ClearMask()

	snap := r.Snapshot()
	if c := snap.RGBAAt(15, 15); c.A == 0 {
		t.Error("masked-in pixel unpainted")
	}
	if c := snap.RGBAAt(30, 30); c.A != 0 {
		t.Errorf("masked-out pixel painted: %v", c)
	}

	// The single restore dropped the clip.
	r.SetColor(blit.Blue)
	r.FillRect(30, 30, 5, 5)
	if c := r.Snapshot().RGBAAt(32, 32); c.A == 0 {
		t.Error("clip survived ClearMask")
	}
}

func TestImageSurfaceInvertedMask(t *testing.T) {
	r := NewRenderer(40, 40)
	r.SetColor(blit.Red)
	r.FillRect(0, 0, 40, 40)

	// Keep destination only where the shape covers it.
	r.SetMask(blit.Rect{X: 10, Y: 10, W: 10, H: 10}, true)
	r.ClearMask()

	snap := r.Snapshot()
	if c := snap.RGBAAt(15, 15); c.A == 0 {
		t.Error("overlapped destination dropped")
	}
	if c := snap.RGBAAt(30, 30); c.A != 0 {
		t.Errorf("uncovered destination kept: %v", c)
	}
}

func TestImageSurfaceLighter(t *testing.T) {
	r := NewRenderer(10, 10)
	r.SetColor(blit.Red)
	r.FillRect(0, 0, 10, 10)
	r.SetBlendMode(blit.BlendLighter)
	r.SetColor(blit.Blue)
	r.FillRect(0, 0, 10, 10)

	if c := r.Snapshot().RGBAAt(5, 5); c.R != 255 || c.B != 255 {
		t.Errorf("lighter composite = %v", c)
	}
}

func TestImageSurfaceDrawImage(t *testing.T) {
	r := NewRenderer(20, 20)
	src := solid(4, 4, color.RGBA{B: 255, A: 255})
	r.DrawImage(src, 8, 8)

	snap := r.Snapshot()
	if c := snap.RGBAAt(9, 9); c != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("blitted pixel = %v", c)
	}
	if c := snap.RGBAAt(5, 5); c.A != 0 {
		t.Errorf("pixel outside blit painted: %v", c)
	}
}

func TestImageSurfaceDrawImageScaled(t *testing.T) {
	r := NewRenderer(20, 20)
	src := solid(2, 2, color.RGBA{G: 255, A: 255})
	r.DrawImageScaled(src, 0, 0, 16, 16)

	if c := r.Snapshot().RGBAAt(8, 8); c.G != 255 {
		t.Errorf("scaled pixel = %v", c)
	}
}

func TestImageSurfacePattern(t *testing.T) {
	r := NewRenderer(16, 16)
	tile := solid(4, 4, color.RGBA{R: 255, A: 255})
	p := r.CreatePattern(tile, blit.RepeatXY)
	r.DrawPattern(p, 0, 0, 16, 16)

	// The tile repeats across the whole rectangle.
	for _, xy := range [][2]int{{1, 1}, {9, 9}, {14, 2}} {
		if c := r.Snapshot().RGBAAt(xy[0], xy[1]); c.R != 255 {
			t.Errorf("pattern pixel (%d,%d) = %v", xy[0], xy[1], c)
		}
	}

	// Without repetition only the first tile paints.
	r2 := NewRenderer(16, 16)
	p2 := r2.CreatePattern(tile, blit.NoRepeat)
	r2.DrawPattern(p2, 0, 0, 16, 16)
	if c := r2.Snapshot().RGBAAt(2, 2); c.R != 255 {
		t.Errorf("first tile unpainted: %v", c)
	}
	if c := r2.Snapshot().RGBAAt(9, 9); c.A != 0 {
		t.Errorf("pattern repeated without repeat mode: %v", c)
	}
}

func TestImageSurfaceGlobalAlpha(t *testing.T) {
	r := NewRenderer(10, 10)
	r.SetColor(blit.White)
	r.SetGlobalAlpha(0.5)
	r.FillRect(0, 0, 10, 10)

	c := r.Snapshot().RGBAAt(5, 5)
	if c.A < 120 || c.A > 135 {
		t.Errorf("alpha = %d, want about 128", c.A)
	}
}

func TestImageSurfaceResize(t *testing.T) {
	r := NewRenderer(10, 10)
	r.SetColor(blit.Red)
	r.FillRect(0, 0, 10, 10)

	r.Resize(24, 12)
	if w, h := r.Width(), r.Height(); w != 24 || h != 12 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if c := r.Snapshot().RGBAAt(5, 5); c.A != 0 {
		t.Errorf("contents survived resize: %v", c)
	}
	// Style state was re-applied: a fill still uses the red color.
	r.FillRect(0, 0, 24, 12)
	if c := r.Snapshot().RGBAAt(5, 5); c.R != 255 {
		t.Errorf("style lost on resize: %v", c)
	}
}

func TestImageSurfaceTranslateDraw(t *testing.T) {
	r := NewRenderer(20, 20)
	r.Translate(5, 5)
	r.SetColor(blit.Red)
	r.FillRect(0, 0, 5, 5)

	snap := r.Snapshot()
	if c := snap.RGBAAt(7, 7); c.A == 0 {
		t.Error("translated fill missed")
	}
	if c := snap.RGBAAt(2, 2); c.A != 0 {
		t.Errorf("untranslated region painted: %v", c)
	}
}
