package main

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"pitch/internal/gamemode"
	"pitch/internal/logging"
	"pitch/internal/render"
	"pitch/internal/scene"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// options are the command line flags.
type options struct {
	scenePath string
	assetDir  string
	overlay   bool
	logLevel  string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("pitch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.scenePath, "scene", "", "scene file (YAML); the built-in stadium scene when empty")
	fs.StringVar(&opts.assetDir, "assets", ".", "directory shader and texture paths are relative to")
	fs.BoolVar(&opts.overlay, "overlay", false, "print sprite positions on screen")
	fs.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// startup turns flags into a ready Game. The window is not opened yet.
func startup(opts *options, device render.Device) (*scene.Config, *Game, error) {
	cfg := scene.Default()
	if opts.scenePath != "" {
		var err error
		if cfg, err = scene.Load(opts.scenePath); err != nil {
			return nil, nil, err
		}
	}

	game, err := NewGame(cfg, os.DirFS(opts.assetDir), device, gamemode.EbitenInput{})
	if err != nil {
		return nil, nil, err
	}
	if opts.overlay {
		if game.overlay, err = NewOverlay(); err != nil {
			game.Close()
			return nil, nil, err
		}
	}
	return cfg, game, nil
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		slog.New(slog.NewTextHandler(stderr, nil)).Error("bad -log-level", "value", opts.logLevel, "error", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(logger)

	cfg, game, err := startup(opts, render.EbitenDevice{})
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer game.Close()

	// Window Setup
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetWindowClosingHandled(true)

	// Run Loop
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("render loop failed", "error", err)
		return 1
	}
	return 0
}
