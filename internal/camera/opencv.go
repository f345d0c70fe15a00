//go:build opencv

package camera

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ironsheep/blob-alert/internal/log"
)

// Capture reads frames from a video device through OpenCV.
type Capture struct {
	mu  sync.Mutex
	vc  *gocv.VideoCapture
	mat gocv.Mat
}

// OpenDevice opens capture device s.Device, requests the configured
// resolution and frame rate, and waits s.WarmUp before returning.
func OpenDevice(ctx context.Context, s Settings) (Source, error) {
	vc, err := gocv.OpenVideoCapture(s.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", s.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("failed to open camera %d: device not opened", s.Device)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(s.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(s.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(s.FPS))

	log.Info("camera opened",
		"device", s.Device,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight),
		"fps", vc.Get(gocv.VideoCaptureFPS))

	if err := sleep(ctx, s.WarmUp); err != nil {
		vc.Close()
		return nil, err
	}

	return &Capture{vc: vc, mat: gocv.NewMat()}, nil
}

// Next reads one frame. The device paces the stream, so Next blocks for
// roughly one frame interval.
func (c *Capture) Next(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.vc.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, ErrReadFailed
	}

	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	return img, nil
}

// Close releases the device.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.mat.Close(); err != nil {
		return err
	}
	return c.vc.Close()
}
