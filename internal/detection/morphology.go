package detection

import "github.com/ironsheep/blob-alert/internal/imaging"

// Kernel is a rectangular structuring element of all ones.
//
// The anchor sits at (Width/2, Height/2). For even sizes this places the
// element up and to the left of the output pixel, so a 2x2 dilation grows
// regions one pixel right and down, and the matching erosion shrinks them
// from the left and top.
type Kernel struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func (k Kernel) anchor() (int, int) {
	return k.Width / 2, k.Height / 2
}

// Dilate returns src dilated by k, repeated iterations times.
// Pixels outside the mask never contribute. src is not modified.
func Dilate(src *imaging.Mask, k Kernel, iterations int) *imaging.Mask {
	out := src
	for i := 0; i < iterations; i++ {
		out = morph(out, k, true)
	}
	if out == src {
		out = src.Clone()
	}
	return out
}

// Erode returns src eroded by k, repeated iterations times.
// Pixels outside the mask never contribute, so regions touching the border
// are not eaten from that side. src is not modified.
func Erode(src *imaging.Mask, k Kernel, iterations int) *imaging.Mask {
	out := src
	for i := 0; i < iterations; i++ {
		out = morph(out, k, false)
	}
	if out == src {
		out = src.Clone()
	}
	return out
}

// Close is a dilation followed by an erosion with the same kernel.
// It fills gaps narrower than the kernel and merges nearby regions.
func Close(src *imaging.Mask, k Kernel) *imaging.Mask {
	return Erode(Dilate(src, k, 1), k, 1)
}

// Clean runs the cleanup stage of the pipeline: iterations dilations
// followed by one closing, all with k.
func Clean(src *imaging.Mask, k Kernel, iterations int) *imaging.Mask {
	return Close(Dilate(src, k, iterations), k)
}

func morph(src *imaging.Mask, k Kernel, dilate bool) *imaging.Mask {
	w, h := src.Width, src.Height
	ax, ay := k.anchor()
	dst := imaging.NewMask(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255)
			if dilate {
				v = 0
			}
			for ky := 0; ky < k.Height; ky++ {
				sy := y + ky - ay
				if sy < 0 || sy >= h {
					continue
				}
				row := src.Pix[sy*w : sy*w+w]
				for kx := 0; kx < k.Width; kx++ {
					sx := x + kx - ax
					if sx < 0 || sx >= w {
						continue
					}
					p := row[sx]
					if dilate && p > v {
						v = p
					} else if !dilate && p < v {
						v = p
					}
				}
			}
			dst.Pix[y*w+x] = v
		}
	}
	return dst
}
