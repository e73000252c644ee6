package render

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Attribute slots of the interleaved vertex layout.
const (
	AttribPosition = 0
	AttribColor    = 1
	AttribUV       = 2

	// FloatsPerVertex is the stride of the interleaved layout.
	FloatsPerVertex = 8
)

// Vertex is one interleaved corner: position (3), color (3), uv (2).
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	UV       mgl32.Vec2
}

// Floats returns v in its interleaved layout.
func (v Vertex) Floats() [FloatsPerVertex]float32 {
	return [FloatsPerVertex]float32{
		v.Position[0], v.Position[1], v.Position[2],
		v.Color[0], v.Color[1], v.Color[2],
		v.UV[0], v.UV[1],
	}
}

// ScreenVertex is a vertex after the vertex stage, in target pixels with
// y growing downwards.
type ScreenVertex struct {
	X, Y    float32
	U, V    float32
	R, G, B float32
}

// transformVertices runs the vertex stage over src, appending to dst.
// clip = proj * matrix * position, then NDC is mapped onto viewport.
func transformVertices(dst []ScreenVertex, src []Vertex, u Uniforms, viewport image.Rectangle) []ScreenVertex {
	mvp := u.Proj.Mul4(u.Matrix)
	vx, vy := float32(viewport.Min.X), float32(viewport.Min.Y)
	vw, vh := float32(viewport.Dx()), float32(viewport.Dy())
	for _, v := range src {
		clip := mvp.Mul4x1(v.Position.Vec4(1))
		w := clip.W()
		if w == 0 {
			w = 1
		}
		ndcX, ndcY := clip.X()/w, clip.Y()/w
		dst = append(dst, ScreenVertex{
			X: vx + (ndcX+1)/2*vw,
			Y: vy + (1-ndcY)/2*vh,
			U: v.UV[0],
			V: v.UV[1],
			R: v.Color[0],
			G: v.Color[1],
			B: v.Color[2],
		})
	}
	return dst
}
