package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names exposed by the sprite program.
const (
	UniformProj    = "proj"
	UniformMatrix  = "matrix"
	UniformTexture = "basic_texture"
)

var (
	// ErrCompile is returned when a shader fails to compile or link.
	ErrCompile = errors.New("render: shader compile failed")
	// ErrUnknownUniform is returned for a uniform the program does not declare.
	ErrUnknownUniform = errors.New("render: unknown uniform")
)

// Uniforms is the value of every uniform slot at draw time.
type Uniforms struct {
	Proj    mgl32.Mat4
	Matrix  mgl32.Mat4
	Sampler int
}

// Program is a linked shader program. The fragment stage runs on the
// backend; the vertex stage is transformVertices.
type Program struct {
	ctx      *Context
	handle   Handle
	uniforms Uniforms
}

// CompileProgram compiles and links src. Any failure, including an empty
// source, is reported as ErrCompile with the backend diagnostic attached.
func CompileProgram(ctx *Context, src string) (*Program, error) {
	if ctx.closed {
		return nil, ErrClosed
	}
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty source", ErrCompile)
	}
	h, err := ctx.device.CompileShader([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	p := &Program{
		ctx:    ctx,
		handle: h,
		uniforms: Uniforms{
			Proj:   mgl32.Ident4(),
			Matrix: mgl32.Ident4(),
		},
	}
	ctx.track(h, p)
	return p, nil
}

// SetMat4 uploads a 4x4 matrix uniform.
func (p *Program) SetMat4(name string, m mgl32.Mat4) error {
	switch name {
	case UniformProj:
		p.uniforms.Proj = m
	case UniformMatrix:
		p.uniforms.Matrix = m
	default:
		return fmt.Errorf("%w: mat4 %q", ErrUnknownUniform, name)
	}
	return nil
}

// SetSampler points a sampler uniform at a texture unit.
func (p *Program) SetSampler(name string, unit int) error {
	if name != UniformTexture {
		return fmt.Errorf("%w: sampler %q", ErrUnknownUniform, name)
	}
	if unit < 0 || unit >= MaxTextureUnits {
		return fmt.Errorf("render: texture unit %d out of range", unit)
	}
	p.uniforms.Sampler = unit
	return nil
}

// Uniforms returns the current uniform values.
func (p *Program) Uniforms() Uniforms {
	return p.uniforms
}

// Handle returns the backend object, or nil once released.
func (p *Program) Handle() Handle {
	return p.handle
}

// Release frees the program. Calling it more than once is a no-op.
func (p *Program) Release() {
	if p == nil || p.handle == nil {
		return
	}
	if p.ctx.program == p {
		p.ctx.program = nil
	}
	p.ctx.release(p.handle)
	p.handle = nil
}
