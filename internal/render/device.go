package render

import (
	"image"
	"image/color"
)

// Handle is a GPU-side object owned by a Context.
type Handle interface {
	Deallocate()
}

// Device allocates GPU objects. Implementations must not retain img after
// UploadTexture returns.
type Device interface {
	UploadTexture(img *image.NRGBA) (Handle, error)
	CompileShader(src []byte) (Handle, error)
}

// Target is the surface a frame is composed on.
type Target interface {
	Fill(c color.Color)
	Submit(call *DrawCall) error
}

// DrawCall is one draw of a triangle list. Vertices are already in target
// pixel space and are only valid for the duration of Submit.
type DrawCall struct {
	Program  *Program
	Texture  *Texture
	Uniforms Uniforms
	Vertices []ScreenVertex
}
