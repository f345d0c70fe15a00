package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Annotation colours used on rendered frames.
var (
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorRed   = color.RGBA{255, 0, 0, 255}
)

// Canvas returns a writable copy of img for drawing annotations on.
// The source image is never modified.
func Canvas(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// DrawHLine draws a horizontal line across the whole width of dst at row y.
// Rows y-thickness/2 through y-thickness/2+thickness-1 are painted; rows
// outside dst are skipped.
func DrawHLine(dst draw.Image, y, thickness int, c color.Color) {
	if thickness < 1 {
		thickness = 1
	}
	b := dst.Bounds()
	top := y - thickness/2
	for row := top; row < top+thickness; row++ {
		if row < b.Min.Y || row >= b.Max.Y {
			continue
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, row, c)
		}
	}
}

// FillCircle paints a solid disc of the given radius centred on (cx, cy).
// Pixels outside dst are skipped.
func FillCircle(dst draw.Image, cx, cy, radius int, c color.Color) {
	b := dst.Bounds()
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			p := image.Pt(cx+dx, cy+dy)
			if p.In(b) {
				dst.Set(p.X, p.Y, c)
			}
		}
	}
}

// DrawText renders text with its baseline starting at (x, y) using the 7x13
// bitmap face. Thickness above 1 re-draws the string shifted right one pixel
// per extra step, which approximates a bold stroke.
func DrawText(dst draw.Image, x, y int, text string, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	for i := 0; i < thickness; i++ {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(c),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(x+i, y),
		}
		d.DrawString(text)
	}
}
