package core

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor resolves an SVG colour name ("black", "steelblue") or a hex
// string ("#1e90ff", "#fff"). An empty string is black.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return colornames.Black, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("unknown colour %q: %w", s, ErrInvalidArgument)
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("bad hex colour %q: %w", s, ErrInvalidArgument)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad hex colour %q: %w", s, ErrInvalidArgument)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustColor is ParseColor for literals known to be valid.
func MustColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
