package main

import (
	"errors"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"

	"pitch/internal/assets"
	"pitch/internal/gamemode"
	"pitch/internal/logging"
	"pitch/internal/render"
	"pitch/internal/scene"
)

// Game owns the render context and everything allocated on it.
type Game struct {
	loop    *gamemode.Loop
	ctx     *render.Context
	program *render.Program
	sprites []scene.Sprite
	screen  *render.Screen
	overlay *Overlay

	drawFailed bool
	closed     bool
}

// NewGame loads the shader and builds the scene's sprites. On failure
// everything allocated so far is released.
func NewGame(cfg *scene.Config, fsys fs.FS, device render.Device, input gamemode.Input) (*Game, error) {
	ctx := render.NewContext(device)
	c := cfg.ClearColor
	ctx.ClearColor(c[0], c[1], c[2], c[3])

	m := assets.NewManager(fsys, ctx)
	program, err := m.LoadProgram(cfg.Shader)
	if err != nil {
		ctx.Close()
		return nil, err
	}
	sprites, err := cfg.Build(m, program)
	if err != nil {
		ctx.Close()
		return nil, err
	}
	logging.Logger().Info("scene ready", "sprites", len(sprites), "width", cfg.Window.Width, "height", cfg.Window.Height)

	return &Game{
		loop:    gamemode.NewLoop(input),
		ctx:     ctx,
		program: program,
		sprites: sprites,
	}, nil
}

// Update: input polling. Teardown happens here, on the loop goroutine,
// as soon as the loop starts closing.
func (g *Game) Update() error {
	err := g.loop.Update()
	if errors.Is(err, ebiten.Termination) {
		g.Close()
	}
	return err
}

// Draw: one frame onto the window
func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = render.NewScreen(screen)
	} else {
		g.screen.Reset(screen)
	}
	w, h := g.screen.Size()
	if !g.frame(g.screen, w, h) {
		return
	}
	if g.overlay != nil {
		g.overlay.Draw(screen, g.sprites)
	}
}

// frame clears target, resets the viewport to the window size and draws
// every sprite in scene order. It reports whether anything was drawn.
func (g *Game) frame(target render.Target, width, height int) bool {
	if !g.loop.Running() {
		return false
	}
	g.ctx.Clear(target)
	g.ctx.Viewport(0, 0, width, height)
	for _, s := range g.sprites {
		if err := s.Draw(g.ctx, target); err != nil && !g.drawFailed {
			g.drawFailed = true
			logging.Logger().Warn("draw failed", "sprite", s.Name, "error", err)
		}
	}
	g.loop.FrameDone()
	return true
}

// Layout: the screen follows the window so the viewport tracks its size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// Close releases the sprites, the program and anything else still live
// on the context. It is safe to call more than once.
func (g *Game) Close() {
	if g.closed {
		return
	}
	g.closed = true
	scene.Close(g.sprites)
	g.program.Release()
	g.ctx.Close()
}
