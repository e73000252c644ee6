package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrForeignHandle is returned by Screen.Submit for a program or texture
// that was not allocated by EbitenDevice.
var ErrForeignHandle = errors.New("render: handle not allocated by ebiten")

// EbitenDevice allocates textures and shaders through ebiten.
type EbitenDevice struct{}

// UploadTexture creates an ebiten image from img.
func (EbitenDevice) UploadTexture(img *image.NRGBA) (Handle, error) {
	return ebiten.NewImageFromImage(img), nil
}

// CompileShader compiles Kage source.
func (EbitenDevice) CompileShader(src []byte) (Handle, error) {
	s, err := ebiten.NewShader(src)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Screen adapts the frame's ebiten image to a Target.
type Screen struct {
	dst      *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewScreen returns a Screen drawing onto dst. Reset swaps dst each frame.
func NewScreen(dst *ebiten.Image) *Screen {
	return &Screen{dst: dst}
}

// Reset points the screen at the next frame's image.
func (s *Screen) Reset(dst *ebiten.Image) {
	s.dst = dst
}

// Size returns the destination size in pixels.
func (s *Screen) Size() (int, int) {
	b := s.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (s *Screen) Fill(c color.Color) {
	s.dst.Fill(c)
}

// Submit issues one DrawTrianglesShader with source-over blending.
func (s *Screen) Submit(call *DrawCall) error {
	shader, ok := call.Program.Handle().(*ebiten.Shader)
	if !ok {
		return fmt.Errorf("%w: program %T", ErrForeignHandle, call.Program.Handle())
	}
	src, ok := call.Texture.Handle().(*ebiten.Image)
	if !ok {
		return fmt.Errorf("%w: texture %T", ErrForeignHandle, call.Texture.Handle())
	}
	tw, th := call.Texture.Size()
	origin := src.Bounds().Min

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	for i, v := range call.Vertices {
		s.vertices = append(s.vertices, ebitenVertex(v, origin, tw, th))
		s.indices = append(s.indices, uint16(i))
	}

	op := &ebiten.DrawTrianglesShaderOptions{}
	op.Images[0] = src
	op.Blend = ebiten.BlendSourceOver
	s.dst.DrawTrianglesShader(s.vertices, s.indices, shader, op)
	return nil
}

// ebitenVertex converts v for a source image at origin. UVs are scaled to
// texels because the sprite shader works in pixel units.
func ebitenVertex(v ScreenVertex, origin image.Point, texWidth, texHeight int) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   v.X,
		DstY:   v.Y,
		SrcX:   float32(origin.X) + v.U*float32(texWidth),
		SrcY:   float32(origin.Y) + v.V*float32(texHeight),
		ColorR: v.R,
		ColorG: v.G,
		ColorB: v.B,
		ColorA: 1,
	}
}
