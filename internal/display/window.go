//go:build opencv

package display

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Window shows frames in an OpenCV HighGUI window.
type Window struct {
	win *gocv.Window
	mat gocv.Mat
}

// OpenWindow creates a window titled title.
func OpenWindow(title string) (Display, error) {
	return &Window{win: gocv.NewWindow(title), mat: gocv.NewMat()}, nil
}

// Show converts img to a BGR matrix and hands it to the window. The window
// repaints on the next PollKey, which pumps the HighGUI event loop.
func (w *Window) Show(img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("failed to convert frame: %w", err)
	}
	w.mat.Close()
	w.mat = mat

	w.win.IMShow(w.mat)
	return nil
}

// PollKey waits one millisecond for a key press. The key queue is shared by
// every window of the process.
func (w *Window) PollKey() (rune, bool) {
	k := w.win.WaitKey(1)
	if k < 0 {
		return 0, false
	}
	return rune(k & 0xFF), true
}

// Close destroys the window.
func (w *Window) Close() error {
	w.mat.Close()
	return w.win.Close()
}
