//go:build opencv

package detection

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/blob-alert/internal/imaging"
)

// extract runs the cleanup and contour stages through OpenCV. The result
// matches Clean and FindContours except for the order of the contours.
func extract(raw *imaging.Mask, k Kernel, iterations int) (*imaging.Mask, []Contour, error) {
	src, err := gocv.NewMatFromBytes(raw.Height, raw.Width, gocv.MatTypeCV8U, raw.Pix)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to wrap mask: %w", err)
	}
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(k.Width, k.Height))
	defer kernel.Close()

	dilated := src.Clone()
	defer dilated.Close()
	for i := 0; i < iterations; i++ {
		gocv.Dilate(dilated, &dilated, kernel)
	}

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(dilated, &closed, gocv.MorphClose, kernel)

	cleaned := imaging.NewMask(raw.Width, raw.Height)
	copy(cleaned.Pix, closed.ToBytes())

	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	found := gocv.FindContoursWithParams(closed, &hierarchy, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]Contour, found.Size())
	for i := range contours {
		pts := found.At(i).ToPoints()
		c := Contour{Points: make([]Point, len(pts)), Parent: -1}
		for j, p := range pts {
			c.Points[j] = Point{X: p.X, Y: p.Y}
		}
		if !hierarchy.Empty() {
			c.Parent = int(hierarchy.GetVeciAt(0, i)[3])
		}
		contours[i] = c
	}

	// Borders alternate outer, hole, outer... with depth in the tree.
	for i := range contours {
		depth := 0
		for p := contours[i].Parent; p >= 0; p = contours[p].Parent {
			depth++
		}
		contours[i].Hole = depth%2 == 1
	}
	return cleaned, contours, nil
}
