package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the frame image (PNG, JPEG or GIF)",
}

var bgrSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"b": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
		"g": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
		"r": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 255},
	},
	"required": []string{"b", "g", "r"},
}

var colorRangeProperty = map[string]interface{}{
	"type":        "object",
	"description": "Optional inclusive BGR colour range. Defaults to the configured range",
	"properties": map[string]interface{}{
		"lower": bgrSchema,
		"upper": bgrSchema,
	},
	"required": []string{"lower", "upper"},
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Detection
		{
			Name:        "frame_detect",
			Description: "Run the blob detector on a frame. Returns the alert decision, the alert line row, every blob that passed the area filter (bounding box, centre, area, mean colour, alert flag) and the annotated frame as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty,
					"color_range": colorRangeProperty,
					"alert_offset": map[string]interface{}{
						"type":        "integer",
						"description": "Optional offset of the alert line below the frame middle, in pixels",
					},
					"min_area": map[string]interface{}{
						"type":        "number",
						"description": "Optional area a contour must exceed to count as a blob, in square pixels",
					},
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the annotated frame. Default true",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "frame_mask",
			Description: "Return the cleaned binary mask the detector extracts contours from, as base64-encoded PNG, with the number of set pixels. Useful for tuning the colour range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty,
					"color_range": colorRangeProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "alert_line",
			Description: "Compute the alert line row for a frame height: height/2 + offset.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Frame height in pixels",
					},
					"offset": map[string]interface{}{
						"type":        "integer",
						"description": "Optional offset below the frame middle. Defaults to the configured offset",
					},
				},
				"required": []string{"height"},
			},
		},

		// Inspection
		{
			Name:        "frame_sample",
			Description: "Get the colour at a pixel in hex, BGR and HSL, and whether it lies inside the colour range.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
					"color_range": colorRangeProperty,
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "frame_info",
			Description: "Get the width, height, format and file size of a frame image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
