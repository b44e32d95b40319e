package server

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/image-router/internal/backend"
	"github.com/ironsheep/image-router/internal/backend/codec"
	"github.com/ironsheep/image-router/internal/backend/vips"
	"github.com/ironsheep/image-router/internal/engine"
	"github.com/ironsheep/image-router/internal/ocr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_info", "image_transform").
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

// executeTool dispatches tool execution to the appropriate handler.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Opens (or re-uses) a Session for the input file
//  3. Invokes engine operations by name, letting the router insert
//     whatever conversions the capability graph requires
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_info":
		return s.handleImageInfo(args)
	case "image_transform":
		return s.handleImageTransform(args)
	case "image_convert":
		return s.handleImageConvert(args)
	case "image_dominant_colors":
		return s.handleImageDominantColors(args)
	case "image_ocr":
		return s.handleImageOCR(args)
	case "capabilities_list":
		return s.handleCapabilitiesList(args)
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information ===

type imageInfoArgs struct {
	Path string `json:"path"`
}

// InfoResult describes an opened image without modifying it.
type InfoResult struct {
	Path           string `json:"path"`
	Representation string `json:"representation"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Open(a.Path)
	if err != nil {
		return nil, err
	}
	result, err := sess.Invoke("dimensions")
	if err != nil {
		return nil, err
	}
	dims, ok := result.(*backend.Dimensions)
	if !ok {
		return nil, fmt.Errorf("dimensions returned unexpected result %T", result)
	}
	return &InfoResult{
		Path:           a.Path,
		Representation: string(sess.Representation()),
		Width:          dims.Width,
		Height:         dims.Height,
	}, nil
}

// === Transformation Pipeline ===

// TransformStep is one named operation with its numeric arguments, applied
// in order by image_transform.
type TransformStep struct {
	Op   string    `json:"op"`
	Args []float64 `json:"args,omitempty"`
}

type imageTransformArgs struct {
	Path       string          `json:"path"`
	Steps      []TransformStep `json:"steps"`
	OutputPath string          `json:"output_path"`
	Format     string          `json:"format"`
	Quality    int             `json:"quality"`
}

// TransformResult summarizes a completed pipeline run.
type TransformResult struct {
	OutputPath     string `json:"output_path"`
	Format         string `json:"format"`
	Bytes          int64  `json:"bytes"`
	Representation string `json:"representation"`
	StepsApplied   int    `json:"steps_applied"`
}

func (s *Server) handleImageTransform(args json.RawMessage) (interface{}, error) {
	var a imageTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	sess, err := s.sessions.Open(a.Path)
	if err != nil {
		return nil, err
	}

	current := sess
	for _, step := range a.Steps {
		callArgs := make([]any, len(step.Args))
		for i, v := range step.Args {
			callArgs[i] = v
		}
		result, err := current.Invoke(step.Op, callArgs...)
		if err != nil {
			return nil, err
		}
		next, ok := result.(*engine.Session)
		if !ok {
			return nil, fmt.Errorf("step %q did not produce an image", step.Op)
		}
		current = next
	}

	return s.saveSession(current, a.OutputPath, a.Format, a.Quality, len(a.Steps))
}

type imageConvertArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
	Format     string `json:"format"`
	Quality    int    `json:"quality"`
}

func (s *Server) handleImageConvert(args json.RawMessage) (interface{}, error) {
	var a imageConvertArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.sessions.Open(a.Path)
	if err != nil {
		return nil, err
	}
	return s.saveSession(sess, a.OutputPath, a.Format, a.Quality, 0)
}

// saveSession writes the session's image to outputPath in the requested
// format (or the format implied by the output extension). If the session
// already holds encoded bytes of the target format, the cheap "write"
// operation is used; otherwise the engine routes to the save-as-* operation
// of whichever backend provides it.
func (s *Server) saveSession(sess *engine.Session, outputPath, format string, quality, steps int) (interface{}, error) {
	if outputPath == "" {
		return nil, fmt.Errorf("output_path is required")
	}
	format = normalizeFormat(format)
	if format == "" {
		format = formatFromExt(outputPath)
	}
	if format == "" {
		return nil, fmt.Errorf("cannot determine output format: pass format or use a recognized extension")
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	op := "save-as-" + format
	saveArgs := []any{io.Writer(f)}
	if codec.FormatOf(sess.Representation()) == format {
		op = "write"
	} else if quality > 0 && (format == "jpeg" || format == "webp") {
		saveArgs = append(saveArgs, quality)
	}

	result, err := sess.Invoke(op, saveArgs...)
	if err != nil {
		return nil, err
	}
	saved, ok := result.(*backend.SaveResult)
	if !ok {
		return nil, fmt.Errorf("%s returned unexpected result %T", op, result)
	}
	return &TransformResult{
		OutputPath:     outputPath,
		Format:         saved.Format,
		Bytes:          saved.Bytes,
		Representation: string(sess.Representation()),
		StepsApplied:   steps,
	}, nil
}

// normalizeFormat folds aliases ("jpg") onto canonical format names.
func normalizeFormat(format string) string {
	format = strings.ToLower(format)
	if format == "jpg" {
		return "jpeg"
	}
	return format
}

// formatFromExt maps an output file extension to a format name.
func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	case ".webp":
		return "webp"
	default:
		return ""
	}
}

// === Analysis ===

type imageDominantColorsArgs struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func (s *Server) handleImageDominantColors(args json.RawMessage) (interface{}, error) {
	var a imageDominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	sess, err := s.sessions.Open(a.Path)
	if err != nil {
		return nil, err
	}
	return sess.Invoke("dominant-colors", a.Count)
}

type imageOCRArgs struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

func (s *Server) handleImageOCR(args json.RawMessage) (interface{}, error) {
	var a imageOCRArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = "eng"
	}
	sess, err := s.sessions.Open(a.Path)
	if err != nil {
		return nil, err
	}
	return sess.Invoke("extract-text", a.Language)
}

// === Capability Listing ===

// OperationInfo is one registered operation in a capability listing.
type OperationInfo struct {
	Representation string `json:"representation"`
	Name           string `json:"name"`
	Signature      string `json:"signature,omitempty"`
}

// ConverterInfo is one registered converter edge in a capability listing.
type ConverterInfo struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Cost   int    `json:"cost"`
}

// CapabilitiesResult enumerates the capability graph of this build.
type CapabilitiesResult struct {
	Representations []string        `json:"representations"`
	Operations      []OperationInfo `json:"operations"`
	Converters      []ConverterInfo `json:"converters"`
	VipsAvailable   bool            `json:"vips_available"`
	OCRAvailable    bool            `json:"ocr_available"`
}

func (s *Server) handleCapabilitiesList(json.RawMessage) (interface{}, error) {
	reg := engine.Default

	reps := reg.Representations()
	result := &CapabilitiesResult{
		Representations: make([]string, len(reps)),
		VipsAvailable:   vips.Available(),
		OCRAvailable:    ocr.Available(),
	}
	for i, rep := range reps {
		result.Representations[i] = string(rep)
	}
	for _, op := range reg.OperationEntries() {
		result.Operations = append(result.Operations, OperationInfo{
			Representation: string(op.Rep),
			Name:           op.Name,
			Signature:      op.Signature,
		})
	}
	for _, conv := range reg.ConverterEntries() {
		result.Converters = append(result.Converters, ConverterInfo{
			Source: string(conv.Source),
			Target: string(conv.Target),
			Cost:   conv.Cost,
		})
	}
	return result, nil
}
