package tui

import (
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func plainRenderer() *lipgloss.Renderer {
	// No TTY: the renderer falls back to the ASCII profile and drops colours.
	return lipgloss.NewRenderer(io.Discard)
}

func TestPixelRows(t *testing.T) {
	tests := []struct {
		rows int
		want int
	}{
		{0, 0},
		{1, 2},
		{22, 44},
	}
	for _, tt := range tests {
		if got := PixelRows(tt.rows); got != tt.want {
			t.Errorf("PixelRows(%d) = %d, want %d", tt.rows, got, tt.want)
		}
	}
}

func TestRenderImageShape(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		wantLines int
	}{
		{"even height", 4, 4, 2},
		{"odd height", 3, 5, 3},
		{"single row", 5, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			out := RenderImage(plainRenderer(), img)
			lines := strings.Split(out, "\n")
			if len(lines) != tt.wantLines {
				t.Fatalf("got %d lines, want %d", len(lines), tt.wantLines)
			}
			for i, line := range lines {
				if got := strings.Count(line, string(HalfBlock)); got != tt.w {
					t.Errorf("line %d has %d cells, want %d", i, got, tt.w)
				}
			}
		})
	}
}

func TestRenderImageOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 6, 6)).SubImage(image.Rect(2, 2, 5, 4)).(*image.RGBA)
	out := RenderImage(plainRenderer(), img)
	if strings.Count(out, "\n") != 0 {
		t.Errorf("two pixel rows should render as one line, got %q", out)
	}
	if got := strings.Count(out, string(HalfBlock)); got != 3 {
		t.Errorf("got %d cells, want 3", got)
	}
}

func TestRenderImageNilRenderer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	if out := RenderImage(nil, img); strings.Count(out, string(HalfBlock)) != 2 {
		t.Errorf("unexpected output %q", out)
	}
}

func TestHex(t *testing.T) {
	if got := hex(color.RGBA{R: 0xff, G: 0x08, B: 0x80, A: 0xff}); got != "#ff0880" {
		t.Errorf("hex = %q", got)
	}
}
