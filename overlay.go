package main

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"pitch/internal/scene"
)

const overlaySize = 12

// Overlay prints each sprite's name and position in the top left corner.
type Overlay struct {
	face *text.GoTextFace
}

func NewOverlay() (*Overlay, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("overlay font: %w", err)
	}
	return &Overlay{face: &text.GoTextFace{Source: src, Size: overlaySize}}, nil
}

func (o *Overlay) Draw(screen *ebiten.Image, sprites []scene.Sprite) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(4, 4)
	op.ColorScale.ScaleWithColor(color.Black)
	op.LineSpacing = overlaySize * 1.4
	text.Draw(screen, overlayText(sprites), o.face, op)
}

func overlayText(sprites []scene.Sprite) string {
	var b strings.Builder
	for i, s := range sprites {
		if i > 0 {
			b.WriteByte('\n')
		}
		m := s.Transform()
		fmt.Fprintf(&b, "%s (%g, %g) z=%.2f", s.Name, m.At(0, 3), m.At(1, 3), s.Z())
	}
	return b.String()
}
