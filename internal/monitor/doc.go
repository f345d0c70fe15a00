// Package monitor runs the capture loop that ties a frame source, the
// detector, the buzzer output and the display together.
//
// The loop is strictly sequential. For every frame:
//
//  1. read the next frame from the source
//  2. run the detector
//  3. write the alert state to the output
//  4. save a snapshot on a rising alert edge (when enabled)
//  5. show the annotated frame
//  6. poll for the quit key
//
// A frame is fully processed before the next one is requested, so frames
// that arrive while processing is slow are dropped by the source rather
// than queued. Nothing but counters survives from one frame to the next.
//
// # Stopping
//
// Run returns when the quit key is pressed, the context is cancelled, or
// the source reports io.EOF. Each of these is a normal stop and returns
// nil. Runs of failed frames longer than MaxConsecutiveErrors end the loop
// with ErrTooManyErrors.
//
// On every exit path the configured shutdown state is written to the
// output exactly once.
package monitor
