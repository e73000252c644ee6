package render

// Texture is a 2D RGBA texture owned by a Context.
type Texture struct {
	ctx    *Context
	handle Handle
	width  int
	height int
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (width, height int) {
	return t.width, t.height
}

// Handle returns the backend object, or nil once released.
func (t *Texture) Handle() Handle {
	return t.handle
}

// Released reports whether Release has been called.
func (t *Texture) Released() bool {
	return t.handle == nil
}

// Release frees the GPU object and unbinds it from every texture unit.
// Calling it more than once is a no-op.
func (t *Texture) Release() {
	if t == nil || t.handle == nil {
		return
	}
	t.ctx.unbindTexture(t)
	t.ctx.release(t.handle)
	t.handle = nil
}
