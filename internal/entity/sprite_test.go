package entity

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"

	"pitch/internal/assets"
	"pitch/internal/render"
	"pitch/internal/render/rendertest"
)

type fixture struct {
	dev     *rendertest.Device
	ctx     *render.Context
	assets  *assets.Manager
	program *render.Program
}

func pngFile(t *testing.T, w, h int) *fstest.MapFile {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return &fstest.MapFile{Data: buf.Bytes()}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fsys := fstest.MapFS{
		"Shaders/sprite.kage":    {Data: []byte("package main\n")},
		"Textures/cr7_siuuu.png": pngFile(t, 40, 60),
	}
	dev := &rendertest.Device{}
	ctx := render.NewContext(dev)
	t.Cleanup(func() { ctx.Close() })
	m := assets.NewManager(fsys, ctx)
	p, err := m.LoadProgram("Shaders/sprite.kage")
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{dev: dev, ctx: ctx, assets: m, program: p}
}

func (f *fixture) sprite(t *testing.T) *Sprite {
	t.Helper()
	s, err := Create(f.assets, "Textures/cr7_siuuu.png", f.program, 0.51, 798, 420)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return s
}

func TestCreateSizesQuadToTexture(t *testing.T) {
	f := newFixture(t)
	s := f.sprite(t)

	tw, th := s.Texture().Size()
	if w, h := s.Size(); w != tw || h != th || w != 40 || h != 60 {
		t.Fatalf("sprite %dx%d, texture %dx%d, want both 40x60", w, h, tw, th)
	}
	var maxX, maxY float32
	for _, v := range s.Vertices() {
		maxX = max(maxX, v.Position.X())
		maxY = max(maxY, v.Position.Y())
		if v.Position.Z() != 0.51 {
			t.Errorf("vertex z = %v, want 0.51", v.Position.Z())
		}
		if v.Color != quadColor {
			t.Errorf("vertex color = %v, want %v", v.Color, quadColor)
		}
		if v.UV.X() < 0 || v.UV.X() > 1 || v.UV.Y() < 0 || v.UV.Y() > 1 {
			t.Errorf("uv %v outside [0,1]", v.UV)
		}
	}
	if maxX != 40 || maxY != 60 {
		t.Errorf("quad extent = (%v, %v), want (40, 60)", maxX, maxY)
	}
	if s.Transform() != mgl32.Ident4() {
		t.Error("initial transform is not identity")
	}
	if s.Projection() != Ortho(798, 420) {
		t.Error("initial projection is not the window ortho")
	}
}

func TestCreateMissingTexture(t *testing.T) {
	f := newFixture(t)
	before := len(f.dev.Objects)

	s, err := Create(f.assets, "Textures/neymar.png", f.program, 0.52, 798, 420)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Create() error = %v, want fs.ErrNotExist", err)
	}
	if s != nil {
		t.Error("Create returned a sprite on failure")
	}
	if len(f.dev.Objects) != before {
		t.Errorf("failed Create allocated %d GPU objects", len(f.dev.Objects)-before)
	}
}

func TestTranslateReplaces(t *testing.T) {
	s := newFixture(t).sprite(t)

	s.Translate(10, 20)
	s.Translate(255, 150)
	if got, want := s.Transform(), mgl32.Translate3D(255, 150, 0); got != want {
		t.Errorf("transform = %v, want %v", got, want)
	}
	if s.GetX() != 255 {
		t.Errorf("GetX() = %v, want 255", s.GetX())
	}
}

func TestSideScrollAccumulates(t *testing.T) {
	s := newFixture(t).sprite(t)

	s.Translate(100, 150)
	s.SideScroll(7)
	s.SideScroll(-2.5)
	if got := s.GetX(); got != 104.5 {
		t.Errorf("GetX() = %v, want 104.5", got)
	}
	if got := s.Transform().At(1, 3); got != 150 {
		t.Errorf("y translation = %v, want 150", got)
	}

	s.Translate(3, 4)
	if s.GetX() != 3 {
		t.Errorf("GetX() after Translate = %v, want 3", s.GetX())
	}
}

func TestSetProjection(t *testing.T) {
	s := newFixture(t).sprite(t)
	p := Ortho(1024, 768)
	s.SetProjection(p)
	if s.Projection() != p {
		t.Error("SetProjection did not replace the projection")
	}
}

func TestDrawUploadsUniforms(t *testing.T) {
	f := newFixture(t)
	s := f.sprite(t)
	s.Translate(500, 300)
	f.ctx.Viewport(0, 0, 798, 420)

	var rec rendertest.Recorder
	if err := s.Draw(f.ctx, &rec); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(rec.Calls) != 1 {
		t.Fatalf("Draw issued %d calls, want 1", len(rec.Calls))
	}
	call := rec.Calls[0]
	if call.Texture != s.Texture() {
		t.Error("draw did not sample the sprite texture")
	}
	if call.Uniforms.Matrix != mgl32.Translate3D(500, 300, 0) {
		t.Errorf("matrix uniform = %v", call.Uniforms.Matrix)
	}
	if call.Uniforms.Proj != Ortho(798, 420) {
		t.Errorf("proj uniform = %v", call.Uniforms.Proj)
	}
	if call.Uniforms.Sampler != 0 {
		t.Errorf("basic_texture unit = %d, want 0", call.Uniforms.Sampler)
	}
	if len(call.Vertices) != 6 {
		t.Errorf("drew %d vertices, want 6", len(call.Vertices))
	}

	// The program is unbound after the draw.
	if err := f.ctx.DrawArrays(&rec, s.Vertices(), 0, 6); !errors.Is(err, render.ErrNoProgram) {
		t.Errorf("program still bound after Draw: %v", err)
	}
}

func TestCloseReleasesTexture(t *testing.T) {
	f := newFixture(t)
	s := f.sprite(t)
	s.Close()
	s.Close()

	if !s.Texture().Released() {
		t.Error("texture not released")
	}
	var rec rendertest.Recorder
	if err := s.Draw(f.ctx, &rec); !errors.Is(err, render.ErrReleased) {
		t.Errorf("Draw after Close: error = %v, want ErrReleased", err)
	}
	// Only the shared program is left.
	if f.ctx.Live() != 1 {
		t.Errorf("Live() = %d, want 1", f.ctx.Live())
	}
}
