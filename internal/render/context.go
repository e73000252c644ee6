// Package render owns the GPU context: resource allocation, bind state,
// the vertex stage and draw submission.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"pitch/internal/logging"
)

// MaxTextureUnits is the number of texture units a Context exposes.
const MaxTextureUnits = 4

var (
	// ErrReleased is returned when drawing with a released program or texture.
	ErrReleased = errors.New("render: resource already released")
	// ErrNoProgram is returned by DrawArrays when no program is in use.
	ErrNoProgram = errors.New("render: no program in use")
	// ErrNoTexture is returned by DrawArrays when the sampled unit is empty.
	ErrNoTexture = errors.New("render: no texture bound")
	// ErrClosed is returned when allocating on a closed Context.
	ErrClosed = errors.New("render: context closed")
)

// Context is the single owned GPU context. It is not safe for concurrent
// use; everything runs on the game loop goroutine.
type Context struct {
	device   Device
	closed   bool
	viewport image.Rectangle
	clearRGB color.Color
	program  *Program
	units    [MaxTextureUnits]*Texture
	live     map[Handle]any
	scratch  []ScreenVertex
}

// NewContext wraps device. Release everything it allocates with Close.
func NewContext(device Device) *Context {
	return &Context{
		device:   device,
		clearRGB: color.Black,
		live:     make(map[Handle]any),
	}
}

// NewTexture uploads img and leaves it bound to unit 0.
func (c *Context) NewTexture(img *image.NRGBA) (*Texture, error) {
	if c.closed {
		return nil, ErrClosed
	}
	b := img.Bounds()
	h, err := c.device.UploadTexture(img)
	if err != nil {
		return nil, fmt.Errorf("render: upload texture: %w", err)
	}
	t := &Texture{ctx: c, handle: h, width: b.Dx(), height: b.Dy()}
	c.track(h, t)
	c.units[0] = t
	logging.Logger().Debug("texture uploaded", "width", t.width, "height", t.height)
	return t, nil
}

// Viewport sets the target rectangle NDC is mapped onto.
func (c *Context) Viewport(x, y, width, height int) {
	c.viewport = image.Rect(x, y, x+width, y+height)
}

// ViewportRect returns the current viewport.
func (c *Context) ViewportRect() image.Rectangle {
	return c.viewport
}

// ClearColor sets the color used by Clear. Components are in [0, 1].
func (c *Context) ClearColor(r, g, b, a float32) {
	c.clearRGB = color.NRGBA{R: unit8(r), G: unit8(g), B: unit8(b), A: unit8(a)}
}

// Clear fills target with the clear color.
func (c *Context) Clear(target Target) {
	target.Fill(c.clearRGB)
}

// UseProgram makes p current. Nil unbinds.
func (c *Context) UseProgram(p *Program) {
	c.program = p
}

// BindTexture binds t to unit. Nil unbinds.
func (c *Context) BindTexture(unit int, t *Texture) error {
	if unit < 0 || unit >= MaxTextureUnits {
		return fmt.Errorf("render: texture unit %d out of range", unit)
	}
	c.units[unit] = t
	return nil
}

// DrawArrays runs count vertices starting at first through the current
// program and submits them to target as a triangle list. Errors from the
// target are returned unchanged.
func (c *Context) DrawArrays(target Target, vertices []Vertex, first, count int) error {
	p := c.program
	if p == nil {
		return ErrNoProgram
	}
	if p.handle == nil {
		return fmt.Errorf("%w: program", ErrReleased)
	}
	if first < 0 || count < 0 || first+count > len(vertices) {
		return fmt.Errorf("render: draw range [%d, %d) outside %d vertices", first, first+count, len(vertices))
	}
	if count%3 != 0 {
		return fmt.Errorf("render: vertex count %d is not a triangle list", count)
	}
	tex := c.units[p.uniforms.Sampler]
	if tex == nil {
		return ErrNoTexture
	}
	if tex.handle == nil {
		return fmt.Errorf("%w: texture", ErrReleased)
	}

	c.scratch = transformVertices(c.scratch[:0], vertices[first:first+count], p.uniforms, c.viewport)
	return target.Submit(&DrawCall{
		Program:  p,
		Texture:  tex,
		Uniforms: p.uniforms,
		Vertices: c.scratch,
	})
}

// Live returns the number of allocated objects not yet released.
func (c *Context) Live() int {
	return len(c.live)
}

// Close releases every object still live. Textures and programs handed
// out earlier report Released afterwards.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if n := len(c.live); n > 0 {
		logging.Logger().Debug("releasing live GPU objects", "count", n)
	}
	for h, owner := range c.live {
		h.Deallocate()
		switch o := owner.(type) {
		case *Texture:
			o.handle = nil
		case *Program:
			o.handle = nil
		}
	}
	clear(c.live)
	clear(c.units[:])
	c.program = nil
	return nil
}

func (c *Context) track(h Handle, owner any) {
	c.live[h] = owner
}

func (c *Context) release(h Handle) {
	if _, ok := c.live[h]; !ok {
		return
	}
	h.Deallocate()
	delete(c.live, h)
}

func (c *Context) unbindTexture(t *Texture) {
	for i := range c.units {
		if c.units[i] == t {
			c.units[i] = nil
		}
	}
}

func unit8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}
