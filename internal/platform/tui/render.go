package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HalfBlock draws two vertically stacked pixels in one cell: the foreground
// colours the upper half and the background the lower half.
const HalfBlock = '▀'

// PixelRows returns how many pixel rows fit in the given number of text rows.
func PixelRows(textRows int) int {
	return textRows * 2
}

type cellColors struct {
	top, bottom color.RGBA
}

// RenderImage converts an image to half-block text, one cell per pixel
// column and two pixel rows per line. Adjacent cells with the same colours
// are grouped to minimize ANSI escape sequences. A nil renderer uses the
// default lipgloss renderer.
func RenderImage(r *lipgloss.Renderer, img *image.RGBA) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(w*h*4 + h)

	styles := make(map[cellColors]lipgloss.Style)
	styleFor := func(c cellColors) lipgloss.Style {
		if s, ok := styles[c]; ok {
			return s
		}
		s := r.NewStyle().
			Foreground(lipgloss.Color(hex(c.top))).
			Background(lipgloss.Color(hex(c.bottom)))
		styles[c] = s
		return s
	}

	cellAt := func(x, y int) cellColors {
		c := cellColors{top: img.RGBAAt(b.Min.X+x, b.Min.Y+y)}
		if y+1 < h {
			c.bottom = img.RGBAAt(b.Min.X+x, b.Min.Y+y+1)
		}
		return c
	}

	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colours
		x := 0
		for x < w {
			start := cellAt(x, y)
			n := 0
			for x < w && cellAt(x, y) == start {
				n++
				x++
			}
			sb.WriteString(styleFor(start).Render(strings.Repeat(string(HalfBlock), n)))
		}
	}
	return sb.String()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
