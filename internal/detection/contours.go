package detection

import (
	"image"
	"math"

	"github.com/ironsheep/blob-alert/internal/imaging"
)

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Rect is an axis-aligned bounding rectangle. (X, Y) is the top-left pixel;
// W and H count pixels, so the rectangle covers X..X+W-1 and Y..Y+H-1.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Bottom returns Y+H, the first row below the rectangle.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Center returns the midpoint ((X + X+W)/2, (Y + Y+H)/2), truncated.
func (r Rect) Center() Point {
	return Point{X: (r.X + r.X + r.W) / 2, Y: (r.Y + r.Y + r.H) / 2}
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Contour is a closed border traced on a binary mask.
//
// Points are the border pixels at which the tracing direction changes;
// pixels in the middle of straight horizontal, vertical or diagonal runs are
// omitted. Hole is true for borders between a region and a hole inside it.
// Parent is the index of the enclosing contour in the slice returned by
// FindContours, or -1 for top-level outer borders.
type Contour struct {
	Points []Point `json:"points"`
	Hole   bool    `json:"hole"`
	Parent int     `json:"parent"`
}

// Area returns the polygon area enclosed by the contour points (shoelace
// formula over pixel centres). Contours with fewer than three points have
// zero area.
func (c Contour) Area() float64 {
	n := len(c.Points)
	if n < 3 {
		return 0
	}
	var sum int
	for i := 0; i < n; i++ {
		p, q := c.Points[i], c.Points[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// BoundingRect returns the smallest rectangle containing every point.
func (c Contour) BoundingRect() Rect {
	if len(c.Points) == 0 {
		return Rect{}
	}
	minX, minY := c.Points[0].X, c.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range c.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, W: maxX - minX + 1, H: maxY - minY + 1}
}

// Neighbour offsets, counter-clockwise on screen starting east.
// The table is doubled so a sweep can run past index 7 without wrapping.
var deltas = [16]Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
	{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

const (
	dirEast = 0
	dirWest = 4
)

// FindContours extracts every outer and hole border of the set regions in m
// using Suzuki-Abe border following with 8-connectivity.
//
// The mask is treated as if surrounded by a one-pixel clear frame, so
// regions touching the image edge still produce closed borders. Contours are
// returned in raster order of their starting pixel.
func FindContours(m *imaging.Mask) []Contour {
	w, h := m.Width+2, m.Height+2
	f := make([]int, w*h)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y*m.Width+x] != 0 {
				f[(y+1)*w+x+1] = 1
			}
		}
	}

	// Per border number: hole flag, parent border number and contour index.
	// Border 1 is the frame, which behaves like a hole border with no parent.
	isHole := []bool{false, true}
	parentOf := []int{0, 0}
	index := []int{-1, -1}

	var contours []Contour
	nbd := 1

	for i := 1; i < h-1; i++ {
		lnbd := 1
		for j := 1; j < w-1; j++ {
			fij := f[i*w+j]
			if fij == 0 {
				continue
			}

			start, hole, found := 0, false, false
			if fij == 1 && f[i*w+j-1] == 0 {
				start, hole, found = dirWest, false, true
			} else if fij >= 1 && f[i*w+j+1] == 0 {
				start, hole, found = dirEast, true, true
				if fij > 1 {
					lnbd = fij
				}
			}

			if found {
				nbd++

				parent := lnbd
				if hole == isHole[lnbd] {
					parent = parentOf[lnbd]
				}

				pts := follow(f, w, i, j, start, nbd)
				for k := range pts {
					pts[k].X--
					pts[k].Y--
				}

				isHole = append(isHole, hole)
				parentOf = append(parentOf, parent)
				index = append(index, len(contours))
				contours = append(contours, Contour{
					Points: pts,
					Hole:   hole,
					Parent: index[parent],
				})
			}

			if v := f[i*w+j]; v != 1 {
				lnbd = absInt(v)
			}
		}
	}

	return contours
}

// follow traces one border starting at (i, j) in the padded grid f, labelling
// it nbd, and returns its points in padded coordinates. start is the
// direction of the known clear neighbour that triggered the trace.
func follow(f []int, w, i, j, start, nbd int) []Point {
	at := func(p Point) int { return f[p.Y*w+p.X] }
	p0 := Point{X: j, Y: i}

	// Clockwise search around the start pixel for any set neighbour.
	s := start
	var p1 Point
	for {
		s = (s - 1) & 7
		p1 = Point{X: p0.X + deltas[s].X, Y: p0.Y + deltas[s].Y}
		if at(p1) != 0 || s == start {
			break
		}
	}
	if at(p1) == 0 {
		f[i*w+j] = -nbd
		return []Point{p0}
	}

	var pts []Point
	p3 := p0
	prevS := s ^ 4
	for {
		end := s
		var p4 Point
		for s < len(deltas)-1 {
			s++
			p4 = Point{X: p3.X + deltas[s].X, Y: p3.Y + deltas[s].Y}
			if at(p4) != 0 {
				break
			}
		}
		s &= 7

		// The east neighbour was examined and found clear exactly when the
		// counter-clockwise sweep wrapped past direction 0.
		if uint(s-1) < uint(end) {
			f[p3.Y*w+p3.X] = -nbd
		} else if at(p3) == 1 {
			f[p3.Y*w+p3.X] = nbd
		}

		if s != prevS {
			pts = append(pts, p3)
			prevS = s
		}

		if p4 == p0 && p3 == p1 {
			break
		}
		p3 = p4
		s = (s + 4) & 7
	}

	return pts
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
