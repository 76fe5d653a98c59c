package gpu

import (
	"github.com/gogpu/blit"
	"github.com/gogpu/blit/glsl"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// HALDevice implements Device on top of a wgpu HAL device.
//
// Shader sources are WGSL: they are translated to SPIR-V through naga
// and turned into HAL shader modules. Attribute and uniform tables come
// from source reflection (WGSL carries explicit @location and @binding
// annotations), and vertex-array state is recorded for later pipeline
// assembly, since wgpu fixes the vertex layout at pipeline creation
// rather than per draw.
type HALDevice struct {
	device hal.Device

	// active is the program selected by UseProgram.
	active *halProgram

	// arrays tracks enabled vertex attribute arrays by location.
	arrays map[int]vertexArray
}

// halProgram is the ProgramHandle produced by HALDevice.
type halProgram struct {
	vertexModule   hal.ShaderModule
	fragmentModule hal.ShaderModule
	attributes     []ActiveAttrib
	uniforms       []ActiveUniform

	// uniformValues stages uploads until the next pipeline encoding.
	uniformValues map[int]any
}

// NewHALDevice wraps a HAL device.
// The device is received from the host application, never created here.
func NewHALDevice(device hal.Device) *HALDevice {
	return &HALDevice{
		device: device,
		arrays: make(map[int]vertexArray),
	}
}

// vertexArray records one enabled attribute array configuration.
type vertexArray struct {
	size       int
	typ        AttribType
	normalized bool
	stride     int
	offset     int
}

// ShaderLanguage implements Device: HAL programs are written in WGSL
// and must not carry GLSL precision statements.
func (d *HALDevice) ShaderLanguage() ShaderLanguage {
	return LanguageWGSL
}

// MaxShaderPrecision implements Device. WGSL floats are full 32-bit on
// every wgpu backend, so the highest qualifier is always supported.
// Unused for WGSL sources, which carry no precision qualifier.
func (d *HALDevice) MaxShaderPrecision() glsl.Precision {
	return glsl.PrecisionHigh
}

// CompileProgram implements Device: both stages are translated to
// SPIR-V through naga and wrapped in HAL shader modules. A translation
// failure surfaces as *CompileError for the failing stage; a module
// creation failure surfaces as *LinkError.
func (d *HALDevice) CompileProgram(vertexSrc, fragmentSrc string) (ProgramHandle, error) {
	vertexModule, err := d.compileStage("vertex", vertexSrc)
	if err != nil {
		return nil, err
	}
	fragmentModule, err := d.compileStage("fragment", fragmentSrc)
	if err != nil {
		d.device.DestroyShaderModule(vertexModule)
		return nil, err
	}

	return &halProgram{
		vertexModule:   vertexModule,
		fragmentModule: fragmentModule,
		attributes:     reflectAttributes(vertexSrc),
		uniforms:       reflectUniforms(vertexSrc + "\n" + fragmentSrc),
		uniformValues:  make(map[int]any),
	}, nil
}

// compileStage translates one stage to SPIR-V and creates its module.
func (d *HALDevice) compileStage(stage, source string) (hal.ShaderModule, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, &CompileError{Stage: stage, Log: err.Error()}
	}

	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "blit_" + stage,
		Source: hal.ShaderSource{
			SPIRV: spirvWords(spirvBytes),
		},
	})
	if err != nil {
		return nil, &LinkError{Log: err.Error()}
	}
	return module, nil
}

// ProgramAttributes implements Device.
func (d *HALDevice) ProgramAttributes(h ProgramHandle) []ActiveAttrib {
	return h.(*halProgram).attributes
}

// ProgramUniforms implements Device.
func (d *HALDevice) ProgramUniforms(h ProgramHandle) []ActiveUniform {
	return h.(*halProgram).uniforms
}

// UseProgram implements Device.
func (d *HALDevice) UseProgram(h ProgramHandle) {
	d.active = h.(*halProgram)
}

// UploadUniform implements Device. Values are staged on the program and
// written into its uniform buffer when the frame is encoded.
func (d *HALDevice) UploadUniform(h ProgramHandle, location int, value any) {
	h.(*halProgram).uniformValues[location] = value
}

// EnableVertexAttrib implements Device.
func (d *HALDevice) EnableVertexAttrib(location, size int, typ AttribType, normalized bool, stride, offset int) {
	d.arrays[location] = vertexArray{
		size:       size,
		typ:        typ,
		normalized: normalized,
		stride:     stride,
		offset:     offset,
	}
}

// DisableVertexAttrib implements Device.
func (d *HALDevice) DisableVertexAttrib(location int) {
	delete(d.arrays, location)
}

// DeleteProgram implements Device.
func (d *HALDevice) DeleteProgram(h ProgramHandle) {
	p := h.(*halProgram)
	if d.active == p {
		d.active = nil
	}
	if p.vertexModule != nil {
		d.device.DestroyShaderModule(p.vertexModule)
		p.vertexModule = nil
	}
	if p.fragmentModule != nil {
		d.device.DestroyShaderModule(p.fragmentModule)
		p.fragmentModule = nil
	}
	blit.Logger().Debug("gpu: program deleted")
}

// spirvWords converts SPIR-V little-endian bytes to 32-bit words.
func spirvWords(spirvBytes []byte) []uint32 {
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words
}
