package canvas

import (
	"image"

	"github.com/gogpu/blit"
)

// imagePattern is the Pattern implementation of the surface backend.
type imagePattern struct {
	img    image.Image
	repeat blit.Repeat
}

func (p *imagePattern) Repeat() blit.Repeat { return p.repeat }

// CreatePattern implements blit.Renderer.
func (r *Renderer) CreatePattern(img image.Image, repeat blit.Repeat) blit.Pattern {
	return &imagePattern{img: img, repeat: repeat}
}

// DrawPattern implements blit.Renderer: fills the rectangle by tiling
// the pattern image. The previous fill style is restored afterwards so
// pattern use leaks no state.
func (r *Renderer) DrawPattern(pt blit.Pattern, x, y, w, h float64) {
	if !r.visible() {
		return
	}
	p, ok := pt.(*imagePattern)
	if !ok || p.img == nil {
		return
	}

	s := r.back
	prev := s.FillStyle()
	s.SetFillStyle(PatternStyle{Image: p.img, Repeat: p.repeat})
	s.BeginPath()
	traceRect(s, x, y, w, h)
	s.Fill()
	s.SetFillStyle(prev)
}
