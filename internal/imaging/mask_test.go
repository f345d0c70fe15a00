package imaging

import (
	"image"
	"image/color"
	"testing"
)

// paintRect fills r on img with c
func paintRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func TestInRange(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	paintRect(img, img.Bounds(), color.White)
	paintRect(img, image.Rect(5, 2, 9, 6), color.RGBA{120, 10, 30, 255})

	mask := InRange(img, DefaultColorRange())

	if mask.Width != 20 || mask.Height != 10 {
		t.Fatalf("mask size: got %dx%d, want 20x10", mask.Width, mask.Height)
	}
	if got := mask.Count(); got != 16 {
		t.Errorf("Count: got %d, want 16", got)
	}
	if !mask.At(5, 2) || !mask.At(8, 5) {
		t.Error("blob corners should be set")
	}
	if mask.At(4, 2) || mask.At(9, 5) {
		t.Error("pixels outside the blob should be clear")
	}
	if v := mask.Pix[2*20+5]; v != 255 {
		t.Errorf("set pixel value: got %d, want 255", v)
	}
}

func TestInRange_OutsideRange(t *testing.T) {
	img := createInMemoryImage(32, 24, color.RGBA{0, 200, 255, 255})

	mask := InRange(img, DefaultColorRange())
	if mask.Count() != 0 {
		t.Errorf("expected empty mask, got %d pixels", mask.Count())
	}
}

func TestInRange_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 14, 13))
	paintRect(img, img.Bounds(), color.White)
	img.Set(10, 10, color.RGBA{100, 20, 30, 255})

	mask := InRange(img, DefaultColorRange())
	if mask.Width != 4 || mask.Height != 3 {
		t.Fatalf("mask size: got %dx%d, want 4x3", mask.Width, mask.Height)
	}
	if !mask.At(0, 0) || mask.Count() != 1 {
		t.Error("mask should be indexed from the image origin")
	}
}

func TestMask_AtSetBounds(t *testing.T) {
	m := NewMask(3, 3)

	m.Set(-1, 0, true)
	m.Set(3, 3, true)
	if m.Count() != 0 {
		t.Error("out-of-range Set should be ignored")
	}
	if m.At(-1, -1) || m.At(5, 5) {
		t.Error("out-of-range At should read clear")
	}

	m.Set(1, 1, true)
	m.Set(1, 1, false)
	if m.At(1, 1) {
		t.Error("Set(false) should clear the pixel")
	}
}

func TestMask_CloneEqualGray(t *testing.T) {
	m := NewMask(4, 2)
	m.Set(3, 1, true)

	c := m.Clone()
	if !c.Equal(m) {
		t.Fatal("clone should equal original")
	}
	c.Set(0, 0, true)
	if c.Equal(m) || m.At(0, 0) {
		t.Error("clone should not share memory with original")
	}
	if m.Equal(NewMask(2, 4)) {
		t.Error("masks of different shape should not be equal")
	}

	g := m.Gray()
	if g.GrayAt(3, 1).Y != 255 || g.GrayAt(0, 0).Y != 0 {
		t.Error("Gray should carry mask values")
	}
}

func TestApplyMask(t *testing.T) {
	img := createInMemoryImage(4, 4, color.RGBA{100, 20, 30, 255})
	mask := NewMask(4, 4)
	mask.Set(1, 1, true)

	out := ApplyMask(img, mask)

	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 4 {
		t.Fatalf("output size: got %v", out.Bounds())
	}

	r, g, b, _ := out.At(1, 1).RGBA()
	if uint8(r>>8) < 99 || uint8(g>>8) < 19 || uint8(b>>8) < 29 {
		t.Errorf("masked pixel should keep its colour, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}

	r, g, b, _ = out.At(0, 0).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("unmasked pixel should be black, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}
