// Package backend is the registry of rendering backends.
//
// Backends register a factory under their name, typically from an
// init() function in the backend package. Hosts pick one explicitly
// with Get, or take the best available with Default.
package backend

import (
	"errors"
	"sync"

	"github.com/gogpu/blit"
)

// Backend names.
const (
	Canvas = "canvas"
	Shader = "shader"
)

// ErrNotAvailable is returned when no registered backend can be built.
var ErrNotAvailable = errors.New("backend: no backend available")

// Factory creates a backend renderer of the given size.
type Factory func(width, height int) (blit.Renderer, error)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)

	// Priority order for default selection, first available wins. The
	// shader backend is preferred when a host registered one; the
	// canvas backend is the software fallback.
	priority = []string{Shader, Canvas}
)

// Register registers a factory under name, replacing any previous one.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes a registered factory. Useful in tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	return names
}

// IsRegistered reports whether a backend with the given name is
// registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get builds a renderer from the named backend.
func Get(name string, width, height int) (blit.Renderer, error) {
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, ErrNotAvailable
	}
	return f(width, height)
}

// Default builds a renderer from the best available backend in
// priority order, falling back to any registered backend.
func Default(width, height int) (blit.Renderer, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range priority {
		if f, ok := factories[name]; ok {
			if r, err := f(width, height); err == nil {
				return r, nil
			}
		}
	}
	for _, f := range factories {
		if r, err := f(width, height); err == nil {
			return r, nil
		}
	}
	return nil, ErrNotAvailable
}

// MustDefault builds a renderer from the default backend or panics.
func MustDefault(width, height int) blit.Renderer {
	r, err := Default(width, height)
	if err != nil {
		panic("backend: no backend available")
	}
	return r
}
