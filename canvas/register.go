package canvas

import (
	"github.com/gogpu/blit"
	"github.com/gogpu/blit/backend"
)

func init() {
	backend.Register(BackendName, func(width, height int) (blit.Renderer, error) {
		return NewRenderer(width, height), nil
	})
}
