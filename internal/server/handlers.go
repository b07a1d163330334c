package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/ironsheep/image-matrix-mcp/internal/imaging"
	"github.com/ironsheep/image-matrix-mcp/internal/lesson"
	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "array_create", "image_slice").
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
		if s.Debug {
			log.Printf("Tool %s failed: %v", params.Name, err)
		}
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
	// Array Operations
	case "array_create":
		return s.handleArrayCreate(args)
	case "array_full":
		return s.handleArrayFull(args)
	case "array_random":
		return s.handleArrayRandom(args)
	case "array_arithmetic":
		return s.handleArrayArithmetic(args)
	case "array_slice":
		return s.handleArraySlice(args)
	case "array_astype":
		return s.handleArrayAsType(args)

	// Image Arrays
	case "image_load":
		return s.handleImageLoad(args)
	case "image_slice":
		return s.handleImageSlice(args)
	case "image_crop_quadrant":
		return s.handleImageCropQuadrant(args)
	case "image_channel":
		return s.handleImageChannel(args)
	case "image_linear_combination":
		return s.handleImageLinearCombination(args)
	case "image_add_noise":
		return s.handleImageAddNoise(args)
	case "image_solid":
		return s.handleImageSolid(args)
	case "image_noise":
		return s.handleImageNoise(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_compare":
		return s.handleImageCompare(args)

	// Lesson
	case "lesson_run":
		return s.handleLessonRun(args)

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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// ArrayResult describes an array returned by the array tools.
type ArrayResult struct {
	Shape []int  `json:"shape"`
	DType string `json:"dtype"`
	NDim  int    `json:"ndim"`
	Size  int    `json:"size"`

	// Values holds the elements as nested lists.
	Values interface{} `json:"values"`

	// Text is the array printed the way NumPy prints it.
	Text string `json:"text"`
}

func newArrayResult(arr *ndarray.Array) *ArrayResult {
	return &ArrayResult{
		Shape:  arr.Shape(),
		DType:  arr.DType().String(),
		NDim:   arr.NDim(),
		Size:   arr.Size(),
		Values: arr.ToNested(),
		Text:   arr.String(),
	}
}

// ImageResult is a rendered image array, optionally written to disk.
type ImageResult struct {
	*imaging.EncodedImage
	DType   string `json:"dtype"`
	SavedTo string `json:"saved_to,omitempty"`
}

func renderImage(arr *ndarray.Array, outputPath string) (*ImageResult, error) {
	enc, err := imaging.Encode(arr)
	if err != nil {
		return nil, err
	}
	if outputPath != "" {
		if err := imaging.Save(outputPath, arr); err != nil {
			return nil, err
		}
	}
	return &ImageResult{EncodedImage: enc, DType: arr.DType().String(), SavedTo: outputPath}, nil
}

// parseArray decodes nested JSON values into an array of the named dtype.
func parseArray(raw json.RawMessage, dtype string) (*ndarray.Array, error) {
	if len(raw) == 0 {
		return nil, errors.New("values are required")
	}
	dt, err := ndarray.ParseDType(dtype)
	if err != nil {
		return nil, err
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return ndarray.FromNested(dt, v)
}

// maxImageSide bounds the height and width of generated images.
const maxImageSide = 8192

// imageSize applies the 250x250 default to zero sides and checks bounds.
func imageSize(height, width int) (int, int, error) {
	if height == 0 {
		height = 250
	}
	if width == 0 {
		width = 250
	}
	if height < 0 || width < 0 || height > maxImageSide || width > maxImageSide {
		return 0, 0, fmt.Errorf("image size %dx%d out of range, each side must be 1 to %d", height, width, maxImageSide)
	}
	return height, width, nil
}

func newRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(*seed))
}

// === Array Operation Handlers ===

type arrayCreateArgs struct {
	Values json.RawMessage `json:"values"`
	DType  string          `json:"dtype"`
}

func (s *Server) handleArrayCreate(args json.RawMessage) (interface{}, error) {
	var a arrayCreateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	arr, err := parseArray(a.Values, a.DType)
	if err != nil {
		return nil, err
	}
	return newArrayResult(arr), nil
}

type arrayFullArgs struct {
	Shape     []int   `json:"shape"`
	FillValue float64 `json:"fill_value"`
	DType     string  `json:"dtype"`
}

func (s *Server) handleArrayFull(args json.RawMessage) (interface{}, error) {
	var a arrayFullArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dt, err := ndarray.ParseDType(a.DType)
	if err != nil {
		return nil, err
	}
	if dt == ndarray.Unspecified {
		dt = ndarray.Int64
		if a.FillValue != float64(int64(a.FillValue)) {
			dt = ndarray.Float64
		}
	}
	arr, err := ndarray.Full(dt, a.FillValue, a.Shape...)
	if err != nil {
		return nil, err
	}
	return newArrayResult(arr), nil
}

type arrayRandomArgs struct {
	Shape []int    `json:"shape"`
	Seed  *int64   `json:"seed"`
	Scale *float64 `json:"scale"`
}

func (s *Server) handleArrayRandom(args json.RawMessage) (interface{}, error) {
	var a arrayRandomArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	arr, err := ndarray.Rand(newRand(a.Seed), a.Shape...)
	if err != nil {
		return nil, err
	}
	if a.Scale != nil {
		if arr, err = arr.Scale(*a.Scale); err != nil {
			return nil, err
		}
	}
	return newArrayResult(arr), nil
}

type arrayArithmeticArgs struct {
	Op     string          `json:"op"`
	A      json.RawMessage `json:"a"`
	B      json.RawMessage `json:"b"`
	Scalar *float64        `json:"scalar"`
	Engine string          `json:"engine"`
}

func (s *Server) handleArrayArithmetic(args json.RawMessage) (interface{}, error) {
	var a arrayArithmeticArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var useGonum bool
	switch a.Engine {
	case "", "elementwise":
	case "gonum":
		useGonum = true
	default:
		return nil, fmt.Errorf("unknown engine: %s", a.Engine)
	}

	x, err := parseArray(a.A, "")
	if err != nil {
		return nil, fmt.Errorf("operand a: %w", err)
	}

	var out *ndarray.Array
	switch a.Op {
	case "add", "subtract":
		if len(a.B) == 0 {
			return nil, fmt.Errorf("operand b is required for %s", a.Op)
		}
		y, err := parseArray(a.B, "")
		if err != nil {
			return nil, fmt.Errorf("operand b: %w", err)
		}
		switch {
		case a.Op == "add" && useGonum:
			out, err = ndarray.MatAdd(x, y)
		case a.Op == "add":
			out, err = x.Add(y)
		case useGonum:
			out, err = ndarray.MatSub(x, y)
		default:
			out, err = x.Sub(y)
		}
		if err != nil {
			return nil, err
		}

	case "scale", "add_scalar":
		if a.Scalar == nil {
			return nil, fmt.Errorf("scalar is required for %s", a.Op)
		}
		switch {
		case a.Op == "scale" && useGonum:
			out, err = ndarray.MatScale(*a.Scalar, x)
		case a.Op == "scale":
			out, err = x.Scale(*a.Scalar)
		default:
			out, err = x.AddScalar(*a.Scalar)
		}
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown op: %s", a.Op)
	}
	return newArrayResult(out), nil
}

type arraySliceArgs struct {
	Values    json.RawMessage `json:"values"`
	DType     string          `json:"dtype"`
	Selection string          `json:"selection"`
}

func (s *Server) handleArraySlice(args json.RawMessage) (interface{}, error) {
	var a arraySliceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	arr, err := parseArray(a.Values, a.DType)
	if err != nil {
		return nil, err
	}
	out, err := arr.SliceString(a.Selection)
	if err != nil {
		return nil, err
	}
	return newArrayResult(out), nil
}

type arrayAsTypeArgs struct {
	Values json.RawMessage `json:"values"`
	DType  string          `json:"dtype"`
}

func (s *Server) handleArrayAsType(args json.RawMessage) (interface{}, error) {
	var a arrayAsTypeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.DType == "" {
		return nil, errors.New("dtype is required")
	}
	target, err := ndarray.ParseDType(a.DType)
	if err != nil {
		return nil, err
	}
	arr, err := parseArray(a.Values, "")
	if err != nil {
		return nil, err
	}
	out, err := arr.AsType(target)
	if err != nil {
		return nil, err
	}
	return newArrayResult(out), nil
}

// === Image Array Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

type imageSliceArgs struct {
	Path      string  `json:"path"`
	Selection string  `json:"selection"`
	Scale     float64 `json:"scale"`
}

func (s *Server) handleImageSlice(args json.RawMessage) (interface{}, error) {
	var a imageSliceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	sel, err := ndarray.ParseSelection(a.Selection)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Crop(img, sel, a.Scale)
}

type imageCropQuadrantArgs struct {
	Path   string  `json:"path"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleImageCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a imageCropQuadrantArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.CropQuadrant(img, a.Region, a.Scale)
}

type imageChannelArgs struct {
	Path    string `json:"path"`
	Channel string `json:"channel"`
}

func (s *Server) handleImageChannel(args json.RawMessage) (interface{}, error) {
	var a imageChannelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ch, err := imaging.ParseChannel(a.Channel)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	gray, err := imaging.Channel(img, ch)
	if err != nil {
		return nil, err
	}
	return renderImage(gray, "")
}

type imageLinearCombinationArgs struct {
	PathA      string   `json:"path_a"`
	PathB      string   `json:"path_b"`
	Alpha      *float64 `json:"alpha"`
	Mode       string   `json:"mode"`
	Saturate   bool     `json:"saturate"`
	Fit        bool     `json:"fit"`
	OutputPath string   `json:"output_path"`
}

func (s *Server) handleImageLinearCombination(args json.RawMessage) (interface{}, error) {
	var a imageLinearCombinationArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	alpha := 0.5
	if a.Alpha != nil {
		alpha = *a.Alpha
	}
	mode, err := imaging.ParseCombineMode(a.Mode)
	if err != nil {
		return nil, err
	}

	imgA, err := s.cache.Load(a.PathA)
	if err != nil {
		return nil, err
	}
	imgB, err := s.cache.Load(a.PathB)
	if err != nil {
		return nil, err
	}
	if shape := imgA.Shape(); a.Fit && !shape.Equal(imgB.Shape()) {
		if imgB, err = imaging.Fit(imgB, shape[0], shape[1]); err != nil {
			return nil, err
		}
	}

	blend, err := imaging.LinearCombinationWith(imgA, imgB, alpha, imaging.BlendOptions{Mode: mode, Saturate: a.Saturate})
	if err != nil {
		return nil, err
	}
	return renderImage(blend, a.OutputPath)
}

type imageAddNoiseArgs struct {
	Path        string   `json:"path"`
	Noise       *float64 `json:"noise"`
	RandomScale *float64 `json:"random_scale"`
	Seed        *int64   `json:"seed"`
	Saturate    bool     `json:"saturate"`
	OutputPath  string   `json:"output_path"`
}

func (s *Server) handleImageAddNoise(args json.RawMessage) (interface{}, error) {
	var a imageAddNoiseArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if (a.Noise == nil) == (a.RandomScale == nil) {
		return nil, errors.New("exactly one of noise or random_scale is required")
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	noise := ndarray.Scalar(0)
	if a.Noise != nil {
		noise = ndarray.Scalar(*a.Noise)
	} else {
		if noise, err = imaging.RandomNoise(newRand(a.Seed), *a.RandomScale, img.Shape()...); err != nil {
			return nil, err
		}
	}

	noisy, err := imaging.AddRandomNoiseWith(img, noise, imaging.BlendOptions{Saturate: a.Saturate})
	if err != nil {
		return nil, err
	}
	return renderImage(noisy, a.OutputPath)
}

type imageSolidArgs struct {
	Height     int    `json:"height"`
	Width      int    `json:"width"`
	Color      string `json:"color"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleImageSolid(args json.RawMessage) (interface{}, error) {
	var a imageSolidArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	height, width, err := imageSize(a.Height, a.Width)
	if err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#000000"
	}
	img, err := imaging.Solid(height, width, a.Color)
	if err != nil {
		return nil, err
	}
	return renderImage(img, a.OutputPath)
}

type imageNoiseArgs struct {
	Height     int    `json:"height"`
	Width      int    `json:"width"`
	Monochrome bool   `json:"monochrome"`
	Seed       *int64 `json:"seed"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleImageNoise(args json.RawMessage) (interface{}, error) {
	var a imageNoiseArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	height, width, err := imageSize(a.Height, a.Width)
	if err != nil {
		return nil, err
	}
	var rng *rand.Rand
	if a.Seed != nil {
		rng = newRand(a.Seed)
	}
	img, err := imaging.NoiseImage(rng, height, width, a.Monochrome)
	if err != nil {
		return nil, err
	}
	return renderImage(img, a.OutputPath)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.Row, a.Col)
}

type imageCompareArgs struct {
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`
}

func (s *Server) handleImageCompare(args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	imgA, err := s.cache.Load(a.PathA)
	if err != nil {
		return nil, err
	}
	imgB, err := s.cache.Load(a.PathB)
	if err != nil {
		return nil, err
	}
	return imaging.Compare(imgA, imgB)
}

// === Lesson Handlers ===

type lessonRunArgs struct {
	ConfigPath string `json:"config_path"`
}

func (s *Server) handleLessonRun(args json.RawMessage) (interface{}, error) {
	var a lessonRunArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := lesson.LoadConfig(a.ConfigPath)
	if err != nil {
		return nil, err
	}
	reports, err := lesson.NewRunner(s.cache, s.Debug).Run(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"config_path": a.ConfigPath,
		"steps":       reports,
	}, nil
}
