package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/blob-alert/internal/detection"
	"github.com/ironsheep/blob-alert/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "frame_detect", "alert_line").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "frame_detect":
		return s.handleFrameDetect(args)
	case "frame_mask":
		return s.handleFrameMask(args)
	case "alert_line":
		return s.handleAlertLine(args)
	case "frame_sample":
		return s.handleFrameSample(args)
	case "frame_info":
		return s.handleFrameInfo(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// detectorFor returns a detector built from the base parameters with the
// per-call overrides applied.
func (s *Server) detectorFor(cr *imaging.ColorRange, offset *int, minArea *float64) (*detection.Detector, error) {
	cfg := s.base
	if cr != nil {
		cfg.ColorRange = *cr
	}
	if offset != nil {
		cfg.AlertOffset = *offset
	}
	if minArea != nil {
		cfg.MinArea = *minArea
	}
	return detection.New(cfg)
}

// === Detection Handlers ===

type frameDetectArgs struct {
	Path         string              `json:"path"`
	ColorRange   *imaging.ColorRange `json:"color_range"`
	AlertOffset  *int                `json:"alert_offset"`
	MinArea      *float64            `json:"min_area"`
	IncludeImage *bool               `json:"include_image"`
}

// FrameDetectResult is the frame_detect tool result.
type FrameDetectResult struct {
	Alert     bool                  `json:"alert"`
	AlertY    int                   `json:"alert_y"`
	Width     int                   `json:"width"`
	Height    int                   `json:"height"`
	Contours  int                   `json:"contours"`
	Blobs     []detection.Blob      `json:"blobs"`
	Annotated *imaging.EncodedImage `json:"annotated,omitempty"`
}

func (s *Server) handleFrameDetect(args json.RawMessage) (interface{}, error) {
	var a frameDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	det, err := s.detectorFor(a.ColorRange, a.AlertOffset, a.MinArea)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := det.Detect(img)
	if err != nil {
		return nil, err
	}

	out := &FrameDetectResult{
		Alert:    res.Alert,
		AlertY:   res.AlertY,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		Contours: res.Contours,
		Blobs:    res.Blobs,
	}
	if a.IncludeImage == nil || *a.IncludeImage {
		enc, err := imaging.EncodePNG(res.Annotated)
		if err != nil {
			return nil, err
		}
		out.Annotated = enc
	}
	return out, nil
}

type frameMaskArgs struct {
	Path       string              `json:"path"`
	ColorRange *imaging.ColorRange `json:"color_range"`
}

// FrameMaskResult is the frame_mask tool result.
type FrameMaskResult struct {
	Pixels int                   `json:"pixels"`
	Mask   *imaging.EncodedImage `json:"mask"`
}

func (s *Server) handleFrameMask(args json.RawMessage) (interface{}, error) {
	var a frameMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	det, err := s.detectorFor(a.ColorRange, nil, nil)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := det.Detect(img)
	if err != nil {
		return nil, err
	}

	enc, err := imaging.EncodePNG(res.Mask.Gray())
	if err != nil {
		return nil, err
	}
	return &FrameMaskResult{Pixels: res.Mask.Count(), Mask: enc}, nil
}

type alertLineArgs struct {
	Height int  `json:"height"`
	Offset *int `json:"offset"`
}

// AlertLineResult is the alert_line tool result.
type AlertLineResult struct {
	Height int `json:"height"`
	Offset int `json:"offset"`
	AlertY int `json:"alert_y"`
}

func (s *Server) handleAlertLine(args json.RawMessage) (interface{}, error) {
	var a alertLineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Height <= 0 {
		return nil, fmt.Errorf("invalid height %d: must be positive", a.Height)
	}

	offset := s.base.AlertOffset
	if a.Offset != nil {
		offset = *a.Offset
	}
	return &AlertLineResult{
		Height: a.Height,
		Offset: offset,
		AlertY: detection.AlertLine(a.Height, offset),
	}, nil
}

// === Inspection Handlers ===

type frameSampleArgs struct {
	Path       string              `json:"path"`
	X          int                 `json:"x"`
	Y          int                 `json:"y"`
	ColorRange *imaging.ColorRange `json:"color_range"`
}

func (s *Server) handleFrameSample(args json.RawMessage) (interface{}, error) {
	var a frameSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cr := s.base.ColorRange
	if a.ColorRange != nil {
		cr = *a.ColorRange
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y, cr)
}

type frameInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleFrameInfo(args json.RawMessage) (interface{}, error) {
	var a frameInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}
