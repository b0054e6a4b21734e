package property

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque RGB colour value for paint properties.
type Color struct {
	c colorful.Color
}

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseColor parses "#RRGGBB" or "#RGB" (case-insensitive).
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !hexColorRegex.MatchString(s) {
		return Color{}, fmt.Errorf("colour %q must be #RGB or #RRGGBB", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return Color{c: c}, nil
}

// MustParseColor is ParseColor for package-level defaults; it panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGB returns a colour from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{c: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}}
}

// Hex returns the lowercase "#rrggbb" form.
func (c Color) Hex() string {
	return c.c.Hex()
}

// RGB255 returns the 8-bit channels.
func (c Color) RGB255() (r, g, b uint8) {
	return c.c.RGB255()
}

// Equal reports whether both colours have the same 8-bit channels.
func (c Color) Equal(other Color) bool {
	return c.Hex() == other.Hex()
}

func (c Color) String() string {
	return c.Hex()
}

// MarshalText encodes the colour as "#rrggbb" for JSON and YAML output.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}
