//go:build !opencv

package detection

import "github.com/ironsheep/blob-alert/internal/imaging"

// extract cleans the raw colour mask and traces the contours of the result.
func extract(raw *imaging.Mask, k Kernel, iterations int) (*imaging.Mask, []Contour, error) {
	cleaned := Clean(raw, k, iterations)
	return cleaned, FindContours(cleaned), nil
}
