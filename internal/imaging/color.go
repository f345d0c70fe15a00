package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// BGR is an 8-bit colour triple in capture order (blue, green, red).
type BGR struct {
	B uint8 `json:"b" yaml:"b"`
	G uint8 `json:"g" yaml:"g"`
	R uint8 `json:"r" yaml:"r"`
}

// String formats the triple the way the camera reports it.
func (c BGR) String() string {
	return fmt.Sprintf("[%d,%d,%d]", c.B, c.G, c.R)
}

// ColorRange is an inclusive per-channel colour interval.
//
// A pixel is inside the range when every channel satisfies
// Lower <= value <= Upper.
type ColorRange struct {
	Lower BGR `json:"lower" yaml:"lower"`
	Upper BGR `json:"upper" yaml:"upper"`
}

// DefaultColorRange returns the dark-red range used for car detection:
// B in [1,60], G in [0,40], R in [20,200].
func DefaultColorRange() ColorRange {
	return ColorRange{
		Lower: BGR{B: 1, G: 0, R: 20},
		Upper: BGR{B: 60, G: 40, R: 200},
	}
}

// Contains reports whether the RGB pixel lies inside the range.
func (cr ColorRange) Contains(r, g, b uint8) bool {
	return b >= cr.Lower.B && b <= cr.Upper.B &&
		g >= cr.Lower.G && g <= cr.Upper.G &&
		r >= cr.Lower.R && r <= cr.Upper.R
}

// Validate returns an error when a lower bound exceeds its upper bound.
// Such a range can never match and is almost always a configuration mistake.
func (cr ColorRange) Validate() error {
	switch {
	case cr.Lower.B > cr.Upper.B:
		return fmt.Errorf("invalid color range: blue lower %d > upper %d", cr.Lower.B, cr.Upper.B)
	case cr.Lower.G > cr.Upper.G:
		return fmt.Errorf("invalid color range: green lower %d > upper %d", cr.Lower.G, cr.Upper.G)
	case cr.Lower.R > cr.Upper.R:
		return fmt.Errorf("invalid color range: red lower %d > upper %d", cr.Lower.R, cr.Upper.R)
	}
	return nil
}

// HSLColor represents a colour in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult describes a single sampled pixel.
type ColorResult struct {
	Hex     string   `json:"hex"`      // "#RRGGBB"
	BGR     BGR      `json:"bgr"`      // capture-order components
	HSL     HSLColor `json:"hsl"`      // perceptual representation
	InRange bool     `json:"in_range"` // inside the range passed to SampleColor
}

// SampleColor reads the pixel at (x, y) and reports whether it falls inside cr.
//
// Coordinates are absolute image coordinates; an error is returned when they
// fall outside img.Bounds().
func SampleColor(img image.Image, x, y int, cr ColorRange) (*ColorResult, error) {
	bounds := img.Bounds()
	if !image.Pt(x, y).In(bounds) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b := rgb8(img.At(x, y))
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	h, s, l := c.Hsl()

	return &ColorResult{
		Hex:     strings.ToUpper(c.Hex()),
		BGR:     BGR{B: b, G: g, R: r},
		HSL:     HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
		InRange: cr.Contains(r, g, b),
	}, nil
}

// MeanColor returns the average colour of the pixels of img inside r that are
// set in mask, as "#RRGGBB". Pixels outside the mask are ignored. An empty
// selection yields "#000000".
func MeanColor(img image.Image, mask *Mask, r image.Rectangle) string {
	bounds := img.Bounds()
	var sr, sg, sb, n float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if mask != nil && !mask.At(x, y) {
				continue
			}
			p := image.Pt(x+bounds.Min.X, y+bounds.Min.Y)
			if !p.In(bounds) {
				continue
			}
			cr, cg, cb := rgb8(img.At(p.X, p.Y))
			sr += float64(cr)
			sg += float64(cg)
			sb += float64(cb)
			n++
		}
	}
	if n == 0 {
		return "#000000"
	}
	c := colorful.Color{R: sr / n / 255, G: sg / n / 255, B: sb / n / 255}
	return strings.ToUpper(c.Hex())
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA" (the leading '#' is optional).
func ParseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	s = strings.TrimPrefix(s, "#")

	alpha := uint8(255)
	switch len(s) {
	case 6:
	case 8:
		a, err := strconv.ParseUint(s[6:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha in color %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:6]
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %q", s)
	}

	c, err := colorful.Hex("#" + s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}

// MustParseColor is ParseColor for compile-time constants. It panics on error.
func MustParseColor(s string) color.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func rgb8(c color.Color) (r, g, b uint8) {
	cr, cg, cb, _ := c.RGBA()
	return uint8(cr >> 8), uint8(cg >> 8), uint8(cb >> 8)
}
