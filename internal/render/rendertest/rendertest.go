// Package rendertest provides a GPU-less Device and a recording Target.
package rendertest

import (
	"errors"
	"image"
	"image/color"

	"pitch/internal/render"
)

// Object is a fake GPU object.
type Object struct {
	Kind        string
	Width       int
	Height      int
	Source      string
	Deallocated int
}

func (o *Object) Deallocate() {
	o.Deallocated++
}

// Device records every allocation. CompileErr and UploadErr, when set, are
// returned by the matching call.
type Device struct {
	Objects    []*Object
	CompileErr error
	UploadErr  error
}

// ErrFakeCompile is a ready-made compile diagnostic.
var ErrFakeCompile = errors.New("0:3: undefined: vec5")

func (d *Device) UploadTexture(img *image.NRGBA) (render.Handle, error) {
	if d.UploadErr != nil {
		return nil, d.UploadErr
	}
	b := img.Bounds()
	o := &Object{Kind: "texture", Width: b.Dx(), Height: b.Dy()}
	d.Objects = append(d.Objects, o)
	return o, nil
}

func (d *Device) CompileShader(src []byte) (render.Handle, error) {
	if d.CompileErr != nil {
		return nil, d.CompileErr
	}
	o := &Object{Kind: "shader", Source: string(src)}
	d.Objects = append(d.Objects, o)
	return o, nil
}

// Allocated returns the number of objects of kind ever allocated.
func (d *Device) Allocated(kind string) int {
	n := 0
	for _, o := range d.Objects {
		if o.Kind == kind {
			n++
		}
	}
	return n
}

// Leaked returns the objects never deallocated.
func (d *Device) Leaked() []*Object {
	var out []*Object
	for _, o := range d.Objects {
		if o.Deallocated == 0 {
			out = append(out, o)
		}
	}
	return out
}

// Call is a recorded DrawCall with its vertices copied.
type Call struct {
	Texture  *render.Texture
	Uniforms render.Uniforms
	Vertices []render.ScreenVertex
}

// Recorder is a Target that keeps every fill and draw. When SubmitErr is
// set, Submit records nothing and returns it.
type Recorder struct {
	Fills     []color.Color
	Calls     []Call
	SubmitErr error
}

func (r *Recorder) Fill(c color.Color) {
	r.Fills = append(r.Fills, c)
}

func (r *Recorder) Submit(call *render.DrawCall) error {
	if r.SubmitErr != nil {
		return r.SubmitErr
	}
	r.Calls = append(r.Calls, Call{
		Texture:  call.Texture,
		Uniforms: call.Uniforms,
		Vertices: append([]render.ScreenVertex(nil), call.Vertices...),
	})
	return nil
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.Fills = r.Fills[:0]
	r.Calls = r.Calls[:0]
}
