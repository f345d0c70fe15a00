package detection

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/blob-alert/internal/imaging"
)

// ErrEmptyFrame is returned by Detect for frames with no pixels.
var ErrEmptyFrame = errors.New("empty frame")

// Config holds the detector parameters. They are fixed for the lifetime of
// a Detector.
type Config struct {
	// ColorRange selects the pixels that belong to candidate objects.
	ColorRange imaging.ColorRange

	// AlertOffset is added to half the frame height to place the alert line.
	AlertOffset int

	// MinArea is the area a contour must exceed to be kept.
	MinArea float64

	// Kernel is the structuring element for the cleanup stage.
	Kernel Kernel

	// DilateIterations is the number of dilations run before the closing.
	DilateIterations int

	// MarkerRadius is the radius of the disc drawn at each blob centre.
	MarkerRadius int

	// LineThickness is the thickness of the drawn alert line.
	LineThickness int

	// LineColor, MarkerColor and TextColor style the annotations.
	LineColor   color.RGBA
	MarkerColor color.RGBA
	TextColor   color.RGBA

	// AlertText is drawn near the centre of every alerting blob.
	AlertText string

	// KeepMasked stores the masked frame in Result.Masked for display.
	KeepMasked bool
}

// DefaultConfig returns the parameters of the car detector: dark-red colour
// range, line 100 px below the middle of the frame, contours larger than
// 400 px², three 2x2 dilations followed by a 2x2 closing.
func DefaultConfig() Config {
	return Config{
		ColorRange:       imaging.DefaultColorRange(),
		AlertOffset:      100,
		MinArea:          400,
		Kernel:           Kernel{Width: 2, Height: 2},
		DilateIterations: 3,
		MarkerRadius:     7,
		LineThickness:    2,
		LineColor:        imaging.ColorRed,
		MarkerColor:      imaging.ColorWhite,
		TextColor:        imaging.ColorWhite,
		AlertText:        "ALERT!",
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c Config) Validate() error {
	if err := c.ColorRange.Validate(); err != nil {
		return err
	}
	if c.Kernel.Width < 1 || c.Kernel.Height < 1 {
		return fmt.Errorf("invalid kernel %dx%d: both sides must be at least 1", c.Kernel.Width, c.Kernel.Height)
	}
	if c.DilateIterations < 0 {
		return fmt.Errorf("invalid dilate iterations %d: must not be negative", c.DilateIterations)
	}
	if c.MinArea < 0 {
		return fmt.Errorf("invalid min area %v: must not be negative", c.MinArea)
	}
	return nil
}

// AlertLine returns the row of the alert line for a frame of the given height.
func AlertLine(height, offset int) int {
	return height/2 + offset
}

// Blob is a contour that survived the area filter.
type Blob struct {
	// Rect is the bounding rectangle of the contour.
	Rect Rect `json:"rect"`

	// Center is the midpoint of Rect.
	Center Point `json:"center"`

	// Area is the polygon area of the contour in square pixels.
	Area float64 `json:"area"`

	// Hole is true when the contour is the border of a hole in a region.
	Hole bool `json:"hole"`

	// Alert is true when the bottom edge of Rect is below the alert line.
	Alert bool `json:"alert"`

	// Color is the mean colour, as "#RRGGBB", of the in-range pixels inside Rect.
	Color string `json:"color"`
}

// Result is the outcome of processing one frame.
type Result struct {
	// Alert is true when any blob crosses the alert line.
	Alert bool `json:"alert"`

	// AlertY is the alert line row for this frame.
	AlertY int `json:"alert_y"`

	// Blobs are the surviving contours in raster order of their first
	// border pixel. Builds with the opencv tag use OpenCV's order instead.
	Blobs []Blob `json:"blobs"`

	// Contours is the number of contours found before area filtering.
	Contours int `json:"contours"`

	// Mask is the cleaned binary mask contours were extracted from.
	Mask *imaging.Mask `json:"-"`

	// Annotated is a copy of the frame with the alert line and markers drawn.
	Annotated *image.NRGBA `json:"-"`

	// Masked is the frame restricted to in-range pixels. Nil unless
	// Config.KeepMasked is set.
	Masked *image.RGBA `json:"-"`
}

// Detector runs the colour-blob pipeline on individual frames.
//
// A Detector holds no per-frame state; Detect may be called concurrently
// and returns the same result for the same input.
type Detector struct {
	cfg Config
}

// New creates a detector with cfg.
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect processes a single frame.
//
// # Pipeline
//
//  1. alertY = height/2 + AlertOffset
//  2. Colour mask: pixels inside ColorRange
//  3. Masked frame (only when KeepMasked)
//  4. Cleanup: DilateIterations dilations, then one closing
//  5. Contour extraction, outer and hole borders
//  6. Area filter: keep contours with area > MinArea
//  7. Bounding rectangle and centre of each survivor
//  8. Alert test: rect bottom (y+h) > alertY
//
// The frame itself is never modified; annotations go to Result.Annotated.
func (d *Detector) Detect(frame image.Image) (*Result, error) {
	bounds := frame.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyFrame
	}

	alertY := AlertLine(bounds.Dy(), d.cfg.AlertOffset)

	raw := imaging.InRange(frame, d.cfg.ColorRange)

	var masked *image.RGBA
	if d.cfg.KeepMasked {
		masked = imaging.ApplyMask(frame, raw)
	}

	cleaned, contours, err := extract(raw, d.cfg.Kernel, d.cfg.DilateIterations)
	if err != nil {
		return nil, err
	}

	canvas := imaging.Canvas(frame)
	imaging.DrawHLine(canvas, alertY, d.cfg.LineThickness, d.cfg.LineColor)

	result := &Result{
		AlertY:    alertY,
		Blobs:     make([]Blob, 0),
		Contours:  len(contours),
		Mask:      cleaned,
		Annotated: canvas,
		Masked:    masked,
	}

	for _, c := range contours {
		area := c.Area()
		if area <= d.cfg.MinArea {
			continue
		}

		rect := c.BoundingRect()
		center := rect.Center()
		alert := rect.Bottom() > alertY

		imaging.FillCircle(canvas, center.X, center.Y, d.cfg.MarkerRadius, d.cfg.MarkerColor)
		if alert {
			imaging.DrawText(canvas, center.X-20, center.Y-20, d.cfg.AlertText, d.cfg.TextColor, 2)
			result.Alert = true
		}

		result.Blobs = append(result.Blobs, Blob{
			Rect:   rect,
			Center: center,
			Area:   area,
			Hole:   c.Hole,
			Alert:  alert,
			Color:  imaging.MeanColor(frame, raw, rect.Image()),
		})
	}

	return result, nil
}
