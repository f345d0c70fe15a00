package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates a solid-colour in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDefaultColorRange(t *testing.T) {
	cr := DefaultColorRange()

	if cr.Lower != (BGR{B: 1, G: 0, R: 20}) {
		t.Errorf("Lower: got %v", cr.Lower)
	}
	if cr.Upper != (BGR{B: 60, G: 40, R: 200}) {
		t.Errorf("Upper: got %v", cr.Upper)
	}
	if err := cr.Validate(); err != nil {
		t.Errorf("default range should be valid: %v", err)
	}
}

func TestColorRange_Contains(t *testing.T) {
	cr := DefaultColorRange()

	tests := []struct {
		name    string
		r, g, b uint8
		want    bool
	}{
		{"inside", 100, 20, 30, true},
		{"lower corner", 20, 0, 1, true},
		{"upper corner", 200, 40, 60, true},
		{"blue below", 100, 20, 0, false},
		{"blue above", 100, 20, 61, false},
		{"green above", 100, 41, 30, false},
		{"red below", 19, 20, 30, false},
		{"red above", 201, 20, 30, false},
		{"white", 255, 255, 255, false},
		{"black", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cr.Contains(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Contains(%d,%d,%d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestColorRange_Validate(t *testing.T) {
	tests := []struct {
		name string
		cr   ColorRange
	}{
		{"blue inverted", ColorRange{Lower: BGR{B: 10}, Upper: BGR{B: 5, G: 255, R: 255}}},
		{"green inverted", ColorRange{Lower: BGR{G: 10}, Upper: BGR{B: 255, G: 5, R: 255}}},
		{"red inverted", ColorRange{Lower: BGR{R: 10}, Upper: BGR{B: 255, G: 255, R: 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cr.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{100, 20, 30, 255})

	result, err := SampleColor(img, 5, 5, DefaultColorRange())
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#64141E" {
		t.Errorf("Hex: got %s, want #64141E", result.Hex)
	}
	if result.BGR != (BGR{B: 30, G: 20, R: 100}) {
		t.Errorf("BGR: got %v", result.BGR)
	}
	if !result.InRange {
		t.Error("pixel should be inside the default range")
	}
}

func TestSampleColor_KnownHSL(t *testing.T) {
	tests := []struct {
		name  string
		color color.RGBA
		want  HSLColor
	}{
		{"red", color.RGBA{255, 0, 0, 255}, HSLColor{0, 100, 50}},
		{"green", color.RGBA{0, 255, 0, 255}, HSLColor{120, 100, 50}},
		{"black", color.RGBA{0, 0, 0, 255}, HSLColor{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(2, 2, tt.color)
			result, err := SampleColor(img, 0, 0, DefaultColorRange())
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}
			if abs(result.HSL.H-tt.want.H) > 1 || abs(result.HSL.S-tt.want.S) > 1 || abs(result.HSL.L-tt.want.L) > 1 {
				t.Errorf("HSL: got %+v, want %+v", result.HSL, tt.want)
			}
		})
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	for _, p := range []image.Point{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		if _, err := SampleColor(img, p.X, p.Y, DefaultColorRange()); err == nil {
			t.Errorf("SampleColor(%d,%d) should fail", p.X, p.Y)
		}
	}
}

func TestMeanColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 1))
	img.Set(0, 0, color.RGBA{100, 0, 0, 255})
	img.Set(1, 0, color.RGBA{200, 0, 0, 255})
	img.Set(2, 0, color.RGBA{0, 0, 255, 255})
	img.Set(3, 0, color.RGBA{0, 0, 255, 255})

	mask := NewMask(4, 1)
	mask.Set(0, 0, true)
	mask.Set(1, 0, true)

	if got := MeanColor(img, mask, image.Rect(0, 0, 4, 1)); got != "#960000" {
		t.Errorf("MeanColor: got %s, want #960000", got)
	}

	empty := NewMask(4, 1)
	if got := MeanColor(img, empty, image.Rect(0, 0, 4, 1)); got != "#000000" {
		t.Errorf("MeanColor of empty selection: got %s, want #000000", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		hex     string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"#00ff00", color.RGBA{0, 255, 0, 255}, false},
		{"0000FF", color.RGBA{0, 0, 255, 255}, false},
		{"#FF000080", color.RGBA{255, 0, 0, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
		{"#FF0000ZZ", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			c, err := ParseColor(tt.hex)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c != tt.want {
				t.Errorf("got %v, want %v", c, tt.want)
			}
		})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
