package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/blit"
	"github.com/gogpu/blit/glsl"
	"github.com/gogpu/gputypes"
)

// Common gpu errors.
var (
	// ErrDestroyed is returned when operating on a destroyed program.
	ErrDestroyed = errors.New("gpu: program destroyed")

	// ErrNoDrawer is returned when the device does not implement the
	// Drawer capability required for rendering.
	ErrNoDrawer = errors.New("gpu: device does not support drawing")
)

// CompileError reports a failed vertex or fragment stage compilation.
// Log carries the device-reported diagnostic text. Compilation failure
// is fatal: there is no fallback program.
type CompileError struct {
	Stage string // "vertex" or "fragment"
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gpu: %s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError reports a failed program link. Log carries the
// device-reported diagnostic text.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("gpu: program link failed: %s", e.Log)
}

// UnknownUniformError reports a write to a uniform name that was not
// discovered during program introspection. This is a programmer error:
// a uniform write must never be silently dropped.
type UnknownUniformError struct {
	Name string
}

func (e *UnknownUniformError) Error() string {
	return fmt.Sprintf("gpu: unknown uniform %q", e.Name)
}

// ProgramHandle is an opaque device-owned identifier for a compiled and
// linked program. It is valid exactly between CompileProgram and
// DeleteProgram.
type ProgramHandle any

// AttribType identifies the component type of a vertex attribute array.
type AttribType uint8

const (
	// TypeFloat is a 32-bit float component.
	TypeFloat AttribType = iota

	// TypeUnsignedByte is an 8-bit unsigned component, typically
	// normalized color data.
	TypeUnsignedByte
)

// ActiveAttrib describes one active vertex attribute discovered by
// program introspection.
type ActiveAttrib struct {
	// Name is the attribute name as declared in the vertex source.
	Name string

	// Location is the bound attribute location.
	Location int

	// Size is the component count of the attribute type (vec2 = 2).
	Size int
}

// ActiveUniform describes one active uniform discovered by program
// introspection.
type ActiveUniform struct {
	// Name is the uniform name as declared in the source.
	Name string

	// Location is the device location or binding index.
	Location int

	// Default is the zero value the device reports for the uniform's
	// type (scalar 0, or a flat zero vector/matrix).
	Default any
}

// VertexAttribute describes one element of a client vertex layout.
// Layouts are commonly a superset of any one program's declared
// attributes; elements absent from the program are disabled rather than
// treated as errors.
type VertexAttribute struct {
	Name       string
	Size       int
	Type       AttribType
	Normalized bool
	Offset     int
}

// ShaderLanguage identifies the source language a Device compiles.
type ShaderLanguage int

const (
	// LanguageGLSL sources are minified and given a default float
	// precision qualifier before compilation.
	LanguageGLSL ShaderLanguage = iota

	// LanguageWGSL sources reach the device verbatim. WGSL has no
	// precision statement and its compilers reject one.
	LanguageWGSL
)

// Device is the opaque GPU device collaborator.
//
// blit RECEIVES the device from the host application; it never creates
// one. Program compilation, introspection, and vertex-array state go
// through this interface so tests can substitute a fake and so real
// devices (see HALDevice) stay swappable.
type Device interface {
	// ShaderLanguage returns the source language the device compiles.
	// It selects the source preparation applied before CompileProgram.
	ShaderLanguage() ShaderLanguage

	// MaxShaderPrecision returns the highest float precision the device
	// supports. Queried once at program construction when the caller
	// gives no explicit precision. Only consulted for GLSL devices.
	MaxShaderPrecision() glsl.Precision

	// CompileProgram compiles and links a vertex/fragment source pair.
	// Returns *CompileError or *LinkError on failure.
	CompileProgram(vertexSrc, fragmentSrc string) (ProgramHandle, error)

	// ProgramAttributes returns every active attribute of a linked
	// program.
	ProgramAttributes(h ProgramHandle) []ActiveAttrib

	// ProgramUniforms returns every active uniform of a linked program
	// with its default value.
	ProgramUniforms(h ProgramHandle) []ActiveUniform

	// UseProgram makes the program active for subsequent draws.
	UseProgram(h ProgramHandle)

	// UploadUniform pushes a uniform value to the device.
	UploadUniform(h ProgramHandle, location int, value any)

	// EnableVertexAttrib enables and configures a vertex attribute
	// array.
	EnableVertexAttrib(location, size int, typ AttribType, normalized bool, stride, offset int)

	// DisableVertexAttrib disables a vertex attribute array so a layout
	// element absent from the current program cannot leave a stale
	// enabled array behind.
	DisableVertexAttrib(location int)

	// DeleteProgram releases the compiled program resource.
	DeleteProgram(h ProgramHandle)
}

// Drawer is the optional device capability the shader backend renders
// through. Devices that cannot draw (introspection-only fakes) simply
// do not implement it.
type Drawer interface {
	// Size returns the drawable dimensions in pixels.
	Size() (width, height int)

	// Clear fills the drawable area with a color.
	Clear(c blit.RGBA)

	// SetBlend configures the blend state for subsequent draws.
	SetBlend(state gputypes.BlendState)

	// SetScissor restricts rendering to the given rectangle.
	SetScissor(x, y, w, h int)

	// UploadVertices replaces the active vertex buffer contents.
	UploadVertices(data []float32)

	// DrawTriangles draws count vertices from the active buffer as a
	// triangle list.
	DrawTriangles(first, count int)

	// BlitImage samples the source sub-rectangle of img into the
	// destination rectangle with the given opacity.
	BlitImage(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh, opacity float64)

	// Present finishes the frame and swaps buffers.
	Present() error
}
