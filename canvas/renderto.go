package canvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

var (
	// ErrNoTextureCreator is returned when the draw context cannot
	// create textures.
	ErrNoTextureCreator = errors.New("canvas: draw context has no texture creator")

	// ErrInvalidTexture is returned when the created texture does not
	// implement gpucontext.Texture.
	ErrInvalidTexture = errors.New("canvas: texture does not implement gpucontext.Texture")
)

// textureDestroyer releases GPU texture resources.
type textureDestroyer interface {
	Destroy()
}

// RenderTo uploads the rendered pixels as a GPU texture and draws it
// through the host's texture drawer at (x, y). This is the integration
// point for hosts that composite the surface backend's output into a
// GPU frame.
//
// The previous frame's texture is destroyed after the new upload:
// texture upload waits for the GPU internally, so the old texture is no
// longer referenced by in-flight work.
func (r *Renderer) RenderTo(dc gpucontext.TextureDrawer, x, y float32) error {
	creator := dc.TextureCreator()
	if creator == nil {
		return ErrNoTextureCreator
	}

	snap := r.Snapshot()
	b := snap.Bounds()
	tex, err := creator.NewTextureFromRGBA(b.Dx(), b.Dy(), snap.Pix)
	if err != nil {
		return fmt.Errorf("canvas: texture upload failed: %w", err)
	}

	// Surface pixels are premultiplied; the host must composite with a
	// one/one-minus-src-alpha pipeline.
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}

	if old := r.gpuTexture; old != nil {
		if d, ok := old.(textureDestroyer); ok {
			d.Destroy()
		}
	}
	r.gpuTexture = tex

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidTexture
	}
	return dc.DrawTexture(gpuTex, x, y)
}
