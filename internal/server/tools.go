package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_info",
			Description: "Get the dimensions and current representation of an image file. Reads only the header; the file is not fully decoded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_transform",
			Description: "Apply an ordered list of operations (resize, crop, rotate, flip-h, flip-v, blur, sharpen, grayscale, edge-detect) to an image and save the result. Format conversions between processing steps are routed automatically.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the input image file",
					},
					"steps": map[string]interface{}{
						"type":        "array",
						"description": "Operations to apply, in order",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"op": map[string]interface{}{
									"type":        "string",
									"description": "Operation name, e.g. resize, crop, rotate",
								},
								"args": map[string]interface{}{
									"type":        "array",
									"description": "Numeric arguments, e.g. [800, 600] for resize",
									"items":       map[string]interface{}{"type": "number"},
								},
							},
							"required": []string{"op"},
						},
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to write the result to",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output format (png, jpeg, gif, bmp, tiff, webp). Defaults to the output_path extension",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "Quality for jpeg/webp output (1-100)",
					},
				},
				"required": []string{"path", "output_path"},
			},
		},
		{
			Name:        "image_convert",
			Description: "Re-encode an image into another format. If the input already is the target format, the bytes are copied without re-encoding.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the input image file",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to write the result to",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output format (png, jpeg, gif, bmp, tiff, webp). Defaults to the output_path extension",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "Quality for jpeg/webp output (1-100)",
					},
				},
				"required": []string{"path", "output_path"},
			},
		},
		{
			Name:        "image_dominant_colors",
			Description: "Extract the most common colors of an image, merged by perceptual similarity and sorted by frequency.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_ocr",
			Description: "Extract text from an image using Tesseract OCR. Only available in builds with native Tesseract support.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default eng",
						"default":     "eng",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "capabilities_list",
			Description: "List the representations, operations, and converter edges registered in this build's capability graph.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
