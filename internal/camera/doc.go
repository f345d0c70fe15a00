// Package camera provides the frame sources the monitor reads from.
//
// Two sources exist:
//   - a live capture device, opened through OpenCV (gocv) when the binary is
//     built with the "opencv" tag; without the tag OpenDevice reports
//     ErrUnavailable
//   - DirSource, which replays still images from a directory at the
//     configured frame rate
//
// Both implement Source. Next blocks until a frame is available, the
// context is cancelled, or the source is exhausted (io.EOF).
//
// # Frame Format
//
// Frames are plain image.Image values. Live frames are converted from the
// capture's BGR matrices to RGBA; replayed frames are whatever the decoder
// produced. Callers must not assume a concrete image type.
package camera
