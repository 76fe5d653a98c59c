package canvas

import (
	"github.com/gogpu/blit"
)

// present composites the back surface onto the front one. With a
// transparent back surface the composite is a direct copy: blending a
// transparent buffer onto the front would composite its alpha twice.
func (r *Renderer) present() {
	if r.front == nil {
		return
	}

	op := compositeFor(r.state.blend)
	if r.transparent {
		op = OpCopy
	}

	f := r.front
	w, h := float64(r.width), float64(r.height)
	f.Save()
	f.SetTransform(blit.Identity())
	f.SetAlpha(1)
	f.SetComposite(op)
	f.DrawImage(r.back.Snapshot(), 0, 0, w, h, 0, 0, w, h)
	f.Restore()
}

// Front returns the presentation surface, or nil when double buffering
// is off.
func (r *Renderer) Front() Surface {
	return r.front
}
