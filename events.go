package blit

import "sync"

// Event identifies a backend lifecycle notification.
type Event int

const (
	// EventContextLost is emitted when the underlying device invalidates
	// all GPU resources. Subscribers owning device resources must destroy
	// them; they are not usable afterwards.
	EventContextLost Event = iota

	// EventContextRestored is emitted when the device becomes usable
	// again. Subscribers are responsible for recreating the resources
	// they destroyed on loss; nothing is resurrected automatically.
	EventContextRestored
)

// Handler receives an event payload. The payload identifies the emitting
// backend; no further contract is attached to it.
type Handler func(payload any)

// Notifier dispatches context lifecycle events to registered handlers.
//
// There is deliberately no package-level notifier: a Notifier is passed
// to backends and shader programs at construction, so tests can simulate
// context loss deterministically.
type Notifier struct {
	mu       sync.Mutex
	nextID   int
	handlers map[Event]map[int]Handler
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{handlers: make(map[Event]map[int]Handler)}
}

// On registers a handler for the given event kind.
// The returned function unregisters the handler; calling it more than
// once is harmless.
func (n *Notifier) On(e Event, h Handler) (off func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.handlers[e] == nil {
		n.handlers[e] = make(map[int]Handler)
	}
	id := n.nextID
	n.nextID++
	n.handlers[e][id] = h

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.handlers[e], id)
	}
}

// Emit invokes every handler registered for the event kind.
// Handlers run synchronously on the calling goroutine.
func (n *Notifier) Emit(e Event, payload any) {
	n.mu.Lock()
	hs := make([]Handler, 0, len(n.handlers[e]))
	for _, h := range n.handlers[e] {
		hs = append(hs, h)
	}
	n.mu.Unlock()

	for _, h := range hs {
		h(payload)
	}
}

// ContextState tracks device-context validity for a backend.
//
// The state machine has two states, VALID and LOST. Loss and restoration
// are driven by the device and may arrive between any two draw calls; no
// drawing operation is defined while LOST, so callers gate draw calls on
// Valid.
type ContextState struct {
	notifier *Notifier
	valid    bool
}

// NewContextState creates a state tracker in the VALID state.
// The notifier may be nil, in which case transitions are tracked but not
// broadcast.
func NewContextState(n *Notifier) *ContextState {
	return &ContextState{notifier: n, valid: true}
}

// Valid reports whether the context is usable.
func (s *ContextState) Valid() bool { return s.valid }

// Notifier returns the notifier transitions are broadcast on.
func (s *ContextState) Notifier() *Notifier { return s.notifier }

// MarkLost transitions VALID to LOST and broadcasts EventContextLost.
// Subscribed shader programs destroy themselves on receipt.
func (s *ContextState) MarkLost(payload any) {
	if !s.valid {
		return
	}
	s.valid = false
	Logger().Warn("blit: device context lost")
	if s.notifier != nil {
		s.notifier.Emit(EventContextLost, payload)
	}
}

// MarkRestored transitions LOST to VALID and broadcasts
// EventContextRestored. Reconstruction of programs, textures, and
// buffers is the subscribers' responsibility.
func (s *ContextState) MarkRestored(payload any) {
	if s.valid {
		return
	}
	s.valid = true
	Logger().Info("blit: device context restored")
	if s.notifier != nil {
		s.notifier.Emit(EventContextRestored, payload)
	}
}
