package gamemode

import (
	"github.com/hajimehoshi/ebiten/v2"

	"pitch/internal/logging"
)

type LoopState int

const (
	LoopRunning LoopState = iota // Drawing frames
	LoopClosing                  // Close requested, tearing down
)

func (s LoopState) String() string {
	switch s {
	case LoopRunning:
		return "running"
	case LoopClosing:
		return "closing"
	}
	return "unknown"
}

// Input is what the loop polls each tick.
type Input interface {
	CloseRequested() bool
	KeyPressed(key ebiten.Key) bool
}

// EbitenInput polls the ebiten window. The window close button only sets
// a flag because main enables ebiten.SetWindowClosingHandled.
type EbitenInput struct{}

func (EbitenInput) CloseRequested() bool           { return ebiten.IsWindowBeingClosed() }
func (EbitenInput) KeyPressed(key ebiten.Key) bool { return ebiten.IsKeyPressed(key) }

// Loop is the render loop state machine.
type Loop struct {
	State  LoopState
	Frames uint64

	input Input
}

func NewLoop(input Input) *Loop {
	return &Loop{
		State: LoopRunning,
		input: input,
	}
}

// Update polls input. It returns ebiten.Termination once the loop is
// closing, which makes ebiten.RunGame return nil.
func (l *Loop) Update() error {
	switch l.State {
	case LoopRunning:
		// Escape or the window close button
		if l.input.CloseRequested() || l.input.KeyPressed(ebiten.KeyEscape) {
			l.State = LoopClosing
			logging.Logger().Info("closing", "frames", l.Frames)
			return ebiten.Termination
		}
	case LoopClosing:
		return ebiten.Termination
	}
	return nil
}

// Running reports whether frames should still be drawn.
func (l *Loop) Running() bool {
	return l.State == LoopRunning
}

// FrameDone counts a presented frame.
func (l *Loop) FrameDone() {
	l.Frames++
}
