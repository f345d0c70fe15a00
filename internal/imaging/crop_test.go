package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCrop(t *testing.T) {
	img := createPatternImage(100, 100)

	cropped, err := Crop(img, image.Rect(50, 0, 100, 50), 1.0)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if cropped.Bounds().Dx() != 50 || cropped.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %v, want 50x50", cropped.Bounds())
	}

	r, g, b, _ := cropped.At(10, 10).RGBA()
	if r != 0 || g>>8 != 255 || b != 0 {
		t.Errorf("expected green top-right quadrant, got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestCrop_WithScale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name  string
		r     image.Rectangle
		scale float64
		want  int
	}{
		{"up", image.Rect(0, 0, 50, 50), 2.0, 100},
		{"down", image.Rect(0, 0, 100, 100), 0.5, 50},
		{"zero means unchanged", image.Rect(0, 0, 40, 40), 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cropped, err := Crop(img, tt.r, tt.scale)
			if err != nil {
				t.Fatalf("Crop failed: %v", err)
			}
			if cropped.Bounds().Dx() != tt.want || cropped.Bounds().Dy() != tt.want {
				t.Errorf("dimensions: got %v, want %dx%d", cropped.Bounds(), tt.want, tt.want)
			}
		})
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name string
		r    image.Rectangle
	}{
		{"x negative", image.Rect(-1, 0, 50, 50)},
		{"y too large", image.Rect(0, 0, 50, 101)},
		{"empty", image.Rect(10, 10, 10, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.r, 1.0); err == nil {
				t.Error("Crop should fail")
			}
		})
	}
}

func TestPad(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	if got := Pad(image.Rect(10, 10, 20, 20), 5, bounds); got != image.Rect(5, 5, 25, 25) {
		t.Errorf("Pad: got %v", got)
	}
	if got := Pad(image.Rect(0, 90, 10, 100), 5, bounds); got != image.Rect(0, 85, 15, 100) {
		t.Errorf("Pad at edge: got %v", got)
	}
}

func TestEncodePNG(t *testing.T) {
	img := createPatternImage(20, 10)

	enc, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	if enc.Width != 20 || enc.Height != 10 {
		t.Errorf("dimensions: got %dx%d, want 20x10", enc.Width, enc.Height)
	}
	if enc.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", enc.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds: got %v, want %v", decoded.Bounds(), img.Bounds())
	}
}
