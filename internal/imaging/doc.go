// Package imaging provides the pixel-level operations used by the blob detector.
//
// This package implements colour-range masking, mask application, frame
// annotation (lines, markers, text labels), cropping and PNG encoding. All
// operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Channel Order
//
// Camera frames are captured in blue/green/red order on the Raspberry Pi
// hardware, so colour ranges are expressed as BGR triples. A Go image.Image
// carries RGB; ColorRange.Contains takes care of the mapping.
//
// # Masks
//
// A Mask is a single-channel binary grid with the same width and height as
// the frame it was built from. Set pixels hold 255, clear pixels hold 0, so a
// mask converts losslessly to an *image.Gray for display or encoding.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless; none of them mutate their source image. Drawing helpers mutate
// only the destination they are given.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Empty crop regions
//   - Malformed colour strings
//   - File I/O and encoding errors
package imaging
