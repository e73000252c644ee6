package render

import (
	"image"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestEbitenVertex(t *testing.T) {
	tests := []struct {
		name   string
		v      ScreenVertex
		origin image.Point
		w, h   int
		want   ebiten.Vertex
	}{
		{
			name: "top left",
			v:    ScreenVertex{X: 255, Y: 150, U: 0, V: 0, R: 0, G: 1, B: 1},
			w:    80,
			h:    120,
			want: ebiten.Vertex{DstX: 255, DstY: 150, SrcX: 0, SrcY: 0, ColorG: 1, ColorB: 1, ColorA: 1},
		},
		{
			name: "far corner in texels",
			v:    ScreenVertex{X: 335, Y: 270, U: 1, V: 1},
			w:    80,
			h:    120,
			want: ebiten.Vertex{DstX: 335, DstY: 270, SrcX: 80, SrcY: 120, ColorA: 1},
		},
		{
			name:   "sub image origin",
			v:      ScreenVertex{X: 1, Y: 2, U: 0.5, V: 0.25},
			origin: image.Pt(16, 32),
			w:      10,
			h:      8,
			want:   ebiten.Vertex{DstX: 1, DstY: 2, SrcX: 21, SrcY: 34, ColorA: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ebitenVertex(tt.v, tt.origin, tt.w, tt.h); got != tt.want {
				t.Errorf("ebitenVertex() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
