package gpu

import (
	"github.com/gogpu/blit"
	"github.com/gogpu/blit/backend"
)

// RegisterBackend registers the shader backend on the given device.
// Unlike the canvas backend, shader rendering needs a live device, so
// the host registers it once the device exists.
func RegisterBackend(device Device, opts ...Option) {
	backend.Register(BackendName, func(width, height int) (blit.Renderer, error) {
		return NewRenderer(device, width, height, opts...)
	})
}
