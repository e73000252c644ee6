package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"pitch/internal/assets"
	"pitch/internal/render"
)

// quadColor is the constant per-vertex tint of every sprite quad.
var quadColor = mgl32.Vec3{0, 1, 1}

// Sprite is a textured quad sized to its texture, with its own model
// transform and projection. The program is shared and not owned.
type Sprite struct {
	texture *render.Texture
	program *render.Program

	width, height int
	z             float32

	projection mgl32.Mat4
	transform  mgl32.Mat4

	vertices [6]render.Vertex
}

// New builds the quad geometry covering (0,0)-(width,height) at depth z.
func New(tex *render.Texture, width, height int, z float32, program *render.Program, projection, transform mgl32.Mat4) *Sprite {
	s := &Sprite{
		texture:    tex,
		program:    program,
		width:      width,
		height:     height,
		z:          z,
		projection: projection,
		transform:  transform,
	}
	w, h := float32(width), float32(height)
	s.vertices = [6]render.Vertex{
		{Position: mgl32.Vec3{0, 0, z}, Color: quadColor, UV: mgl32.Vec2{0, 0}},
		{Position: mgl32.Vec3{w, 0, z}, Color: quadColor, UV: mgl32.Vec2{1, 0}},
		{Position: mgl32.Vec3{w, h, z}, Color: quadColor, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{w, h, z}, Color: quadColor, UV: mgl32.Vec2{1, 1}},
		{Position: mgl32.Vec3{0, h, z}, Color: quadColor, UV: mgl32.Vec2{0, 1}},
		{Position: mgl32.Vec3{0, 0, z}, Color: quadColor, UV: mgl32.Vec2{0, 0}},
	}
	return s
}

// Create loads the texture at path and builds a sprite with an
// orthographic projection over a viewWidth x viewHeight pixel space and an
// identity transform.
func Create(m *assets.Manager, path string, program *render.Program, z float32, viewWidth, viewHeight int) (*Sprite, error) {
	tex, err := m.LoadTexture(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture: %w", err)
	}
	w, h := tex.Size()
	return New(tex, w, h, z, program, Ortho(viewWidth, viewHeight), mgl32.Ident4()), nil
}

// Ortho maps pixel coordinates with the origin at the top left.
func Ortho(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// Translate replaces the transform with a translation to (x, y).
func (s *Sprite) Translate(x, y float32) {
	s.transform = mgl32.Translate3D(x, y, 0)
}

// SideScroll moves the sprite by x on top of its current transform.
func (s *Sprite) SideScroll(x float32) {
	s.transform = s.transform.Mul4(mgl32.Translate3D(x, 0, 0))
}

// SetProjection replaces the projection matrix.
func (s *Sprite) SetProjection(projection mgl32.Mat4) {
	s.projection = projection
}

// GetX returns the x translation of the transform.
func (s *Sprite) GetX() float32 {
	return s.transform.At(0, 3)
}

func (s *Sprite) Size() (width, height int) { return s.width, s.height }
func (s *Sprite) Z() float32                { return s.z }
func (s *Sprite) Transform() mgl32.Mat4     { return s.transform }
func (s *Sprite) Projection() mgl32.Mat4    { return s.projection }
func (s *Sprite) Texture() *render.Texture  { return s.texture }

// Vertices returns the static quad geometry.
func (s *Sprite) Vertices() []render.Vertex {
	return s.vertices[:]
}

// Draw issues one draw of the quad onto target.
func (s *Sprite) Draw(ctx *render.Context, target render.Target) error {
	ctx.UseProgram(s.program)
	defer ctx.UseProgram(nil)

	if err := s.program.SetMat4(render.UniformProj, s.projection); err != nil {
		return err
	}
	if err := s.program.SetMat4(render.UniformMatrix, s.transform); err != nil {
		return err
	}
	if err := ctx.BindTexture(0, s.texture); err != nil {
		return err
	}
	if err := s.program.SetSampler(render.UniformTexture, 0); err != nil {
		return err
	}
	return ctx.DrawArrays(target, s.vertices[:], 0, len(s.vertices))
}

// Close releases the sprite's texture. The shared program is left alone.
func (s *Sprite) Close() {
	s.texture.Release()
}
