package gpu

import (
	"github.com/gogpu/blit"
	"github.com/gogpu/blit/glsl"
)

// arrayConvertible is satisfied by value objects (colors, matrices)
// that serialize to a flat numeric sequence. Uniform writes flatten
// such values before storage.
type arrayConvertible interface {
	ToArray() []float64
}

// uniformSlot pairs a device location with the cached value.
type uniformSlot struct {
	location int
	value    any
}

// Program owns one compiled GPU program: its handle, its attribute
// location table, and its uniform value table.
//
// The handle is valid exactly between Compile and Destroy. A program
// subscribed to a notifier destroys itself when the device context is
// lost. It is not recompiled on restoration; the owning renderer must
// reconstruct it from the same sources.
type Program struct {
	device Device
	handle ProgramHandle

	// Sources after minification and precision injection, kept so the
	// owner can inspect what was actually compiled.
	vertexSource   string
	fragmentSource string

	attributes map[string]int         // built once at compile, immutable
	uniforms   map[string]uniformSlot // mutable value table

	destroyed bool
	off       func() // context-lost unsubscribe, nil when not subscribed
}

// CompileOption configures program compilation.
type CompileOption func(*compileOptions)

type compileOptions struct {
	precision glsl.Precision
	notifier  *blit.Notifier
}

// WithPrecision sets an explicit float precision qualifier to inject
// into GLSL sources. Without it, the device's highest supported
// precision is used. Ignored for WGSL devices.
func WithPrecision(p glsl.Precision) CompileOption {
	return func(o *compileOptions) {
		o.precision = p
	}
}

// WithNotifier subscribes the program to context-lost notifications so
// it destroys itself when the device invalidates its resources.
func WithNotifier(n *blit.Notifier) CompileOption {
	return func(o *compileOptions) {
		o.notifier = n
	}
}

// Compile prepares both sources for the device's shader language,
// compiles and links them, and introspects the resulting program for
// every active attribute and uniform. GLSL sources are minified and
// given a default float precision qualifier; WGSL sources are compiled
// verbatim.
//
// Compilation or link failure is fatal for the program: the error
// carries the device diagnostic text and no fallback is substituted.
func Compile(device Device, vertexSrc, fragmentSrc string, opts ...CompileOption) (*Program, error) {
	var options compileOptions
	for _, opt := range opts {
		opt(&options)
	}

	vs, fs := vertexSrc, fragmentSrc
	if device.ShaderLanguage() == LanguageGLSL {
		precision := options.precision
		if !precision.Valid() {
			precision = device.MaxShaderPrecision()
		}
		vs = glsl.Prepare(vs, precision)
		fs = glsl.Prepare(fs, precision)
	}

	handle, err := device.CompileProgram(vs, fs)
	if err != nil {
		return nil, err
	}

	p := &Program{
		device:         device,
		handle:         handle,
		vertexSource:   vs,
		fragmentSource: fs,
		attributes:     make(map[string]int),
		uniforms:       make(map[string]uniformSlot),
	}

	for _, a := range device.ProgramAttributes(handle) {
		p.attributes[a.Name] = a.Location
	}
	for _, u := range device.ProgramUniforms(handle) {
		p.uniforms[u.Name] = uniformSlot{location: u.Location, value: u.Default}
	}

	blit.Logger().Debug("gpu: program compiled",
		"attributes", len(p.attributes), "uniforms", len(p.uniforms))

	if options.notifier != nil {
		p.off = options.notifier.On(blit.EventContextLost, func(any) {
			p.Destroy()
		})
	}

	return p, nil
}

// VertexSource returns the vertex source exactly as handed to the
// device, after any language-specific preparation.
func (p *Program) VertexSource() string { return p.vertexSource }

// FragmentSource returns the fragment source as compiled.
func (p *Program) FragmentSource() string { return p.fragmentSource }

// Destroyed reports whether the program's GPU resource has been
// released. Callers gate draw calls on this.
func (p *Program) Destroyed() bool { return p.destroyed }

// Bind makes this program the active one for subsequent draw calls.
func (p *Program) Bind() {
	if p.destroyed {
		blit.Logger().Warn("gpu: bind on destroyed program")
		return
	}
	p.device.UseProgram(p.handle)
}

// AttribLocation returns the bound location for an active attribute, or
// -1 when name is not an active attribute. Absence is a normal,
// queryable condition: vertex layouts are commonly a superset of any one
// program's attributes.
func (p *Program) AttribLocation(name string) int {
	if loc, ok := p.attributes[name]; ok {
		return loc
	}
	return -1
}

// SetUniform updates the cached value for name and pushes it to the
// device. Values with a flat-array serialization are flattened before
// storage. Writing a name that was not discovered during introspection
// returns *UnknownUniformError.
func (p *Program) SetUniform(name string, value any) error {
	if p.destroyed {
		return ErrDestroyed
	}
	slot, ok := p.uniforms[name]
	if !ok {
		return &UnknownUniformError{Name: name}
	}

	if conv, ok := value.(arrayConvertible); ok {
		value = conv.ToArray()
	}
	slot.value = value
	p.uniforms[name] = slot

	p.device.UploadUniform(p.handle, slot.location, value)
	return nil
}

// Uniform returns the cached value for name.
// The second result is false when name is not an active uniform.
func (p *Program) Uniform(name string) (any, bool) {
	slot, ok := p.uniforms[name]
	if !ok {
		return nil, false
	}
	return slot.value, true
}

// SetVertexAttributes configures the device vertex arrays for a client
// layout. Each element present in the program is enabled with the given
// stride and its offset; elements the program does not declare have the
// array at their layout index disabled instead, so a previously bound
// program cannot leave a stale enabled array.
func (p *Program) SetVertexAttributes(attrs []VertexAttribute, strideBytes int) {
	if p.destroyed {
		return
	}
	for i, a := range attrs {
		loc := p.AttribLocation(a.Name)
		if loc < 0 {
			p.device.DisableVertexAttrib(i)
			continue
		}
		p.device.EnableVertexAttrib(loc, a.Size, a.Type, a.Normalized, strideBytes, a.Offset)
	}
}

// Destroy releases the compiled GPU resource and clears the attribute
// and uniform tables. Destroy is idempotent; the destroyed state is
// checked before touching the device so the resource is never freed
// twice.
func (p *Program) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true

	p.device.DeleteProgram(p.handle)
	p.handle = nil
	p.attributes = nil
	p.uniforms = nil

	if p.off != nil {
		p.off()
		p.off = nil
	}
}
