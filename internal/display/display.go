// Package display shows annotated frames and reports operator key presses.
package display

import (
	"errors"
	"image"
	"sync/atomic"
)

// QuitKey stops the monitor when pressed in a display window.
const QuitKey = 'q'

// ErrUnavailable is returned by OpenWindow in builds without OpenCV.
var ErrUnavailable = errors.New("display window not available in this build (rebuild with -tags opencv)")

// Display is an operator-facing frame sink.
type Display interface {
	// Show presents img. It must not retain img after returning.
	Show(img image.Image) error
	// PollKey returns the key pressed since the last poll, if any. It waits
	// at most a few milliseconds.
	PollKey() (rune, bool)
	// Close tears the display down.
	Close() error
}

// Headless discards frames and never reports a key. A headless monitor
// stops on signals or end of input only.
type Headless struct {
	shown atomic.Int64
}

// Show counts the frame and drops it.
func (h *Headless) Show(image.Image) error {
	h.shown.Add(1)
	return nil
}

// PollKey always reports no key.
func (h *Headless) PollKey() (rune, bool) {
	return 0, false
}

// Close is a no-op.
func (h *Headless) Close() error {
	return nil
}

// Shown returns the number of frames passed to Show.
func (h *Headless) Shown() int64 {
	return h.shown.Load()
}
