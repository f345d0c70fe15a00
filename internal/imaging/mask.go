package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// Mask is a binary single-channel grid. Pix holds one byte per pixel in
// row-major order: 255 for set pixels, 0 for clear ones.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewMask allocates a clear mask of the given size.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At reports whether (x, y) is set. Coordinates outside the mask read as clear.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

// Set marks (x, y) as set or clear. Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	if on {
		m.Pix[y*m.Width+x] = 255
	} else {
		m.Pix[y*m.Width+x] = 0
	}
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	c := &Mask{Width: m.Width, Height: m.Height, Pix: make([]uint8, len(m.Pix))}
	copy(c.Pix, m.Pix)
	return c
}

// Equal reports whether two masks have the same size and pixels.
func (m *Mask) Equal(o *Mask) bool {
	if m.Width != o.Width || m.Height != o.Height {
		return false
	}
	for i := range m.Pix {
		if m.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Gray returns the mask as a grayscale image sharing no memory with m.
func (m *Mask) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	copy(g.Pix, m.Pix)
	return g
}

// InRange builds the mask of pixels of img whose colour lies inside cr.
// The mask is indexed from 0 regardless of img.Bounds().Min.
func InRange(img image.Image, cr ColorRange) *Mask {
	src := asNRGBA(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	mask := NewMask(w, h)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			if cr.Contains(p[0], p[1], p[2]) {
				mask.Pix[y*w+x] = 255
			}
		}
	}
	return mask
}

// ApplyMask keeps the pixels of img where mask is set and blacks out the rest,
// the equivalent of a bitwise AND of the frame with itself under the mask.
// The result is only meant for display.
func ApplyMask(img image.Image, mask *Mask) *image.RGBA {
	return blend.Multiply(asNRGBA(img), mask.Gray())
}

// asNRGBA returns img as a zero-origin *image.NRGBA, copying only when needed.
func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
