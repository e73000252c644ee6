package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io/fs"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"pitch/internal/logging"
	"pitch/internal/render"
)

var (
	// ErrDecode is returned when a texture file is not a decodable image.
	ErrDecode = errors.New("assets: could not decode image")
	// ErrEmptySource is returned when a shader file is missing, unreadable or empty.
	ErrEmptySource = errors.New("assets: shader source is empty")
)

// Manager loads textures and shaders from an asset tree onto a render context.
type Manager struct {
	fsys fs.FS
	ctx  *render.Context
}

// NewManager reads assets from fsys and allocates them on ctx.
func NewManager(fsys fs.FS, ctx *render.Context) *Manager {
	return &Manager{fsys: fsys, ctx: ctx}
}

// LoadTexture decodes the image at name as 4-channel RGBA and uploads it,
// leaving it bound to texture unit 0. Nothing is allocated when reading or
// decoding fails.
func (m *Manager) LoadTexture(name string) (*render.Texture, error) {
	img, err := m.DecodeImage(name)
	if err != nil {
		logging.Logger().Error("could not load texture", "path", name, "error", err)
		return nil, err
	}
	tex, err := m.ctx.NewTexture(img)
	if err != nil {
		logging.Logger().Error("could not upload texture", "path", name, "error", err)
		return nil, err
	}
	logging.Logger().Debug("texture loaded", "path", name, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return tex, nil
}

// DecodeImage reads and decodes name into an NRGBA image anchored at the
// origin. Images with no pixels fail with ErrDecode.
func (m *Manager) DecodeImage(name string) (*image.NRGBA, error) {
	data, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read image %q: %w", name, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrDecode, name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w %q: empty %s image %v", ErrDecode, name, format, img.Bounds())
	}
	logging.Logger().Debug("image decoded", "path", name, "format", format)
	return toNRGBA(img), nil
}

// ShaderSource returns the full text of the shader file at name.
func (m *Manager) ShaderSource(name string) (string, error) {
	data, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		logging.Logger().Error("failed to open shader", "path", name, "error", err)
		return "", fmt.Errorf("%w: %q: %v", ErrEmptySource, name, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("%w: %q", ErrEmptySource, name)
	}
	return string(data), nil
}

// LoadProgram reads and compiles the shader at name.
func (m *Manager) LoadProgram(name string) (*render.Program, error) {
	src, err := m.ShaderSource(name)
	if err != nil {
		return nil, err
	}
	p, err := render.CompileProgram(m.ctx, src)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", name, err)
	}
	return p, nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
