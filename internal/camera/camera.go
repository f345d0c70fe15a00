package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"
)

var (
	// ErrUnavailable is returned by OpenDevice in builds without OpenCV.
	ErrUnavailable = errors.New("camera capture not available in this build (rebuild with -tags opencv)")

	// ErrReadFailed is returned by Next when the device delivered no frame.
	ErrReadFailed = errors.New("failed to read frame")
)

// Source delivers frames one at a time.
type Source interface {
	// Next returns the next frame. It returns io.EOF when the source is
	// exhausted and ctx.Err() when ctx is cancelled while waiting.
	Next(ctx context.Context) (image.Image, error)
	// Close releases the source.
	Close() error
}

// Settings configures a frame source.
type Settings struct {
	// Device is the capture device index.
	Device int `yaml:"device"`
	// Width and Height are the requested capture resolution.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// FPS is the requested capture rate, also the replay pace.
	FPS int `yaml:"fps"`
	// WarmUp is slept after opening a device before the first read.
	WarmUp time.Duration `yaml:"warm_up"`
}

// DefaultSettings returns 320x240 at 24 fps on device 0 with a 100 ms
// warm-up.
func DefaultSettings() Settings {
	return Settings{
		Device: 0,
		Width:  320,
		Height: 240,
		FPS:    24,
		WarmUp: 100 * time.Millisecond,
	}
}

// Validate checks for settings no source can honour.
func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", s.Width, s.Height)
	}
	if s.FPS <= 0 {
		return fmt.Errorf("invalid fps %d: must be positive", s.FPS)
	}
	if s.WarmUp < 0 {
		return fmt.Errorf("invalid warm-up %v: must not be negative", s.WarmUp)
	}
	return nil
}

// FrameInterval returns the time between frames at s.FPS.
func (s Settings) FrameInterval() time.Duration {
	if s.FPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(s.FPS)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
