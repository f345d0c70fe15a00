//go:build opencv

package detection

import (
	"sort"
	"testing"

	"github.com/ironsheep/blob-alert/internal/imaging"
)

func TestExtract_MatchesPureGo(t *testing.T) {
	ring := imaging.NewMask(40, 40)
	for y := 5; y < 30; y++ {
		for x := 5; x < 30; x++ {
			if x < 12 || x >= 23 || y < 12 || y >= 23 {
				ring.Set(x, y, true)
			}
		}
	}

	twoSquares := squareMask(60, 40, 3, 3, 10)
	for y := 20; y < 35; y++ {
		for x := 40; x < 55; x++ {
			twoSquares.Set(x, y, true)
		}
	}

	tests := []struct {
		name string
		mask *imaging.Mask
	}{
		{"empty", imaging.NewMask(20, 20)},
		{"squares", twoSquares},
		{"touching border", squareMask(30, 30, 0, 0, 8)},
		{"ring", ring},
	}

	k := Kernel{Width: 2, Height: 2}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, contours, err := extract(tt.mask, k, 3)
			if err != nil {
				t.Fatalf("extract failed: %v", err)
			}

			want := Clean(tt.mask, k, 3)
			if !cleaned.Equal(want) {
				t.Fatal("cleaned mask differs from Clean")
			}

			got, exp := summarize(contours), summarize(FindContours(want))
			if len(got) != len(exp) {
				t.Fatalf("contours: got %v, want %v", got, exp)
			}
			for i := range got {
				if got[i] != exp[i] {
					t.Errorf("contour %d: got %+v, want %+v", i, got[i], exp[i])
				}
			}
		})
	}
}

type contourSummary struct {
	area float64
	rect Rect
	hole bool
}

func summarize(cs []Contour) []contourSummary {
	out := make([]contourSummary, len(cs))
	for i, c := range cs {
		out[i] = contourSummary{area: c.Area(), rect: c.BoundingRect(), hole: c.Hole}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].rect.Y != out[j].rect.Y {
			return out[i].rect.Y < out[j].rect.Y
		}
		if out[i].rect.X != out[j].rect.X {
			return out[i].rect.X < out[j].rect.X
		}
		return !out[i].hole && out[j].hole
	})
	return out
}
