// Package detection implements colour-blob detection and the alert-line test.
//
// A Detector turns one camera frame into an alert decision and an annotated
// copy of the frame:
//
//  1. Colour masking: pixels inside a BGR colour range become set
//  2. Cleanup: repeated dilation and a closing with a small rectangular kernel
//     merge nearby fragments into solid blobs
//  3. Contour extraction: Suzuki-Abe border following yields outer and hole
//     borders of every region
//  4. Filtering: contours whose polygon area does not exceed a threshold are
//     dropped
//  5. Alert test: a blob alerts when the bottom edge of its bounding
//     rectangle lies below the alert line at height/2 + offset
//
// Every frame is processed from scratch. Nothing is remembered between
// calls: no tracking, no hysteresis.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward, so "below the line" means a larger Y
//
// # Fidelity
//
// Morphology anchors even-sized kernels at (size/2, size/2), contour areas
// use the shoelace formula over pixel centres, and bounding rectangles count
// pixels inclusively. A solid NxN square therefore reports an area of
// (N-1)² and a width of N.
package detection
