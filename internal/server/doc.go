// Package server implements the MCP (Model Context Protocol) server that
// exposes the blob detector for offline inspection of still frames.
//
// It lets an MCP client check what the detector sees in a saved frame,
// tune the colour range and alert offset, and sample pixel colours without
// touching the camera or the buzzer.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Detection:
//   - frame_detect: Run the detector, return blobs, alert state and the annotated frame
//   - frame_mask: Return the cleaned binary mask and its pixel count
//   - alert_line: Compute the alert line row for a frame height
//
// Inspection:
//   - frame_sample: Get the colour at a pixel and whether it is in range
//   - frame_info: Get dimensions, format and file size
//
// Detection tools start from the detector parameters the server was created
// with; color_range, alert_offset and min_area arguments override them for a
// single call.
//
// # Image Caching
//
// Frames are cached by path and reused across tool calls for the lifetime of
// the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(detection.DefaultConfig(), version)
//	if err := srv.Run(); err != nil {
//	    log.Error("server error", "error", err)
//	}
package server
