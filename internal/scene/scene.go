// Package scene describes the window and the ordered sprite layers, and
// builds the sprites from that description.
package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"pitch/internal/assets"
	"pitch/internal/entity"
	"pitch/internal/logging"
	"pitch/internal/render"
)

// ErrInvalid is returned for a scene that fails validation.
var ErrInvalid = errors.New("scene: invalid")

const (
	DefaultWidth  = 798
	DefaultHeight = 420
	DefaultTitle  = "pitch"
	DefaultShader = "Shaders/sprite.kage"
)

// Window holds the window settings.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// Layer is one sprite, drawn in list order.
type Layer struct {
	Name    string  `yaml:"name"`
	Texture string  `yaml:"texture"`
	Z       float32 `yaml:"z"`
	X       float32 `yaml:"x"`
	Y       float32 `yaml:"y"`
}

// Config is a whole scene.
type Config struct {
	Window     Window     `yaml:"window"`
	Shader     string     `yaml:"shader"`
	ClearColor [4]float32 `yaml:"clear_color"`
	Sprites    []Layer    `yaml:"sprites"`
}

// Default returns the stadium scene: the background and three players.
func Default() *Config {
	return &Config{
		Window:     Window{Width: DefaultWidth, Height: DefaultHeight, Title: DefaultTitle},
		Shader:     DefaultShader,
		ClearColor: [4]float32{0.8, 0.8, 0.8, 1},
		Sprites: []Layer{
			{Name: "background", Texture: "Textures/estadio_futebol.png", Z: 0.50, X: 0, Y: 0},
			{Name: "cr7", Texture: "Textures/cr7_siuuu.png", Z: 0.51, X: 255, Y: 150},
			{Name: "neymar", Texture: "Textures/neymar.png", Z: 0.52, X: 500, Y: 300},
			{Name: "geromel", Texture: "Textures/geromel.png", Z: 0.53, X: 100, Y: 150},
		},
	}
}

// Load reads a scene file. Fields left out keep their Default values,
// except sprites, which replace the default list when present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML scene.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Sprites = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}
	if cfg.Sprites == nil {
		cfg.Sprites = Default().Sprites
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks window size, shader path and the sprite list. Sprite z
// must lie in the ortho near/far range [-1, 1]; vertices are not clipped.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Shader == "" {
		return fmt.Errorf("%w: no shader", ErrInvalid)
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: clear_color[%d] = %v outside [0, 1]", ErrInvalid, i, v)
		}
	}
	if len(c.Sprites) == 0 {
		return fmt.Errorf("%w: no sprites", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Sprites))
	for i, l := range c.Sprites {
		if l.Name == "" {
			return fmt.Errorf("%w: sprite %d has no name", ErrInvalid, i)
		}
		if l.Texture == "" {
			return fmt.Errorf("%w: sprite %q has no texture", ErrInvalid, l.Name)
		}
		if l.Z < -1 || l.Z > 1 {
			return fmt.Errorf("%w: sprite %q z = %v outside the projection's [-1, 1] depth range", ErrInvalid, l.Name, l.Z)
		}
		if seen[l.Name] {
			return fmt.Errorf("%w: duplicate sprite %q", ErrInvalid, l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}

// Sprite is a built layer.
type Sprite struct {
	Name string
	*entity.Sprite
}

// Build creates every sprite in order and moves it to its position. If
// any sprite fails, the ones already created are closed before returning.
func (c *Config) Build(m *assets.Manager, program *render.Program) ([]Sprite, error) {
	sprites := make([]Sprite, 0, len(c.Sprites))
	for _, l := range c.Sprites {
		s, err := entity.Create(m, l.Texture, program, l.Z, c.Window.Width, c.Window.Height)
		if err != nil {
			Close(sprites)
			return nil, fmt.Errorf("sprite %q: %w", l.Name, err)
		}
		s.Translate(l.X, l.Y)
		sprites = append(sprites, Sprite{Name: l.Name, Sprite: s})
		logging.Logger().Debug("sprite created", "name", l.Name, "x", l.X, "y", l.Y, "z", l.Z)
	}
	return sprites, nil
}

// Close releases every sprite's texture.
func Close(sprites []Sprite) {
	for _, s := range sprites {
		s.Close()
	}
}
