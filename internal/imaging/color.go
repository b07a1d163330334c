package imaging

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a pixel value in several representations.
type ColorResult struct {
	Row int      `json:"row"`
	Col int      `json:"col"`
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
}

// SampleColor returns the pixel at img[row, col] of a (height, width, 3)
// array. Negative indices count from the end, as in array indexing.
func SampleColor(img *ndarray.Array, row, col int) (*ColorResult, error) {
	if err := requireRGB(img); err != nil {
		return nil, err
	}
	px, err := img.Slice(ndarray.Pos(row), ndarray.Pos(col))
	if err != nil {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds: %w", row, col, err)
	}

	v := px.Values()
	rgb := RGBColor{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2])}
	c := colorful.Color{R: v[0] / 255, G: v[1] / 255, B: v[2] / 255}
	h, s, l := c.Hsl()

	return &ColorResult{
		Row: row,
		Col: col,
		Hex: strings.ToUpper(c.Hex()),
		RGB: rgb,
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}, nil
}

// ParseHexColor parses "#RRGGBB" or "#RGB" (the leading '#' is optional).
func ParseHexColor(hex string) (RGBColor, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return RGBColor{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return RGBColor{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return RGBColor{R: r, G: g, B: b}, nil
}

// Black returns a (height, width, 3) uint8 array of zeros.
func Black(height, width int) (*ndarray.Array, error) {
	return ndarray.Zeros(ndarray.Uint8, height, width, 3)
}

// Solid returns a (height, width, 3) uint8 array filled with one color.
// Red is "#FF0000" and blue is "#0000FF".
func Solid(height, width int, hex string) (*ndarray.Array, error) {
	c, err := ParseHexColor(hex)
	if err != nil {
		return nil, err
	}
	img, err := Black(height, width)
	if err != nil {
		return nil, err
	}
	for ch, v := range []uint8{c.R, c.G, c.B} {
		if v == 0 {
			continue
		}
		if err := img.Assign(float64(v), ndarray.All(), ndarray.All(), ndarray.Pos(ch)); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// SetChannel returns a copy of img with one channel set to value everywhere,
// like blue = black.copy(); blue[:, :, 2] = 255.
func SetChannel(img *ndarray.Array, channel int, value float64) (*ndarray.Array, error) {
	if err := requireRGB(img); err != nil {
		return nil, err
	}
	out := img.Copy()
	if err := out.Assign(value, ndarray.All(), ndarray.All(), ndarray.Pos(channel)); err != nil {
		return nil, fmt.Errorf("channel %d: %w", channel, err)
	}
	return out, nil
}

// Channel returns the (height, width) slice img[:, :, channel].
func Channel(img *ndarray.Array, channel int) (*ndarray.Array, error) {
	if err := requireRGB(img); err != nil {
		return nil, err
	}
	ch, err := img.Slice(ndarray.All(), ndarray.All(), ndarray.Pos(channel))
	if err != nil {
		return nil, fmt.Errorf("channel %d: %w", channel, err)
	}
	return ch, nil
}

// ParseChannel accepts a channel index or one of "red", "green", "blue".
func ParseChannel(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "red", "r", "0":
		return Red, nil
	case "green", "g", "1":
		return Green, nil
	case "blue", "b", "2":
		return Blue, nil
	default:
		return 0, fmt.Errorf("unknown channel: %s", name)
	}
}
