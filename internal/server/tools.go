package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Schema fragments shared by several tools.
var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}

	nestedValuesProperty = map[string]interface{}{
		"description": "Array elements as nested JSON lists, e.g. [[1,2,3],[10,20,30]]. Leaves may be numbers, booleans or strings.",
	}

	dtypeProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"int64", "float64", "uint8", "bool", "str"},
		"description": "Element type. Omit to infer from the values.",
	}

	shapeProperty = map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "integer", "minimum": 0},
		"description": "Size of each dimension, e.g. [250, 250, 3]",
	}

	saturateProperty = map[string]interface{}{
		"type":        "boolean",
		"description": "Clip results into [0,255] instead of wrapping modulo 256. Default false",
		"default":     false,
	}

	outputPathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Optional file to also write the result to (.png or .jpg)",
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Array Operations
		{
			Name:        "array_create",
			Description: "Create an n-dimensional array from nested lists and report its shape, dtype and elements.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"values": nestedValuesProperty,
					"dtype":  dtypeProperty,
				},
				"required": []string{"values"},
			},
		},
		{
			Name:        "array_full",
			Description: "Create an array of the given shape with every element set to fill_value, like np.full.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"shape": shapeProperty,
					"fill_value": map[string]interface{}{
						"type":        "number",
						"description": "Value for every element. Default 0",
						"default":     0,
					},
					"dtype": dtypeProperty,
				},
				"required": []string{"shape"},
			},
		},
		{
			Name:        "array_random",
			Description: "Create an array of uniform random samples in [0, 1), like np.random.rand. Optionally scaled.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"shape": shapeProperty,
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for reproducible output. Omit for a time-based seed",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Multiply every sample by this factor. Default 1",
						"default":     1.0,
					},
				},
				"required": []string{"shape"},
			},
		},
		{
			Name:        "array_arithmetic",
			Description: "Elementwise arithmetic: add or subtract two arrays (with broadcasting), multiply an array by a scalar, or add a scalar.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"op": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"add", "subtract", "scale", "add_scalar"},
						"description": "Operation: a+b, a-b, scalar*a or a+scalar",
					},
					"a": nestedValuesProperty,
					"b": nestedValuesProperty,
					"scalar": map[string]interface{}{
						"type":        "number",
						"description": "Scalar operand for scale and add_scalar",
					},
					"engine": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"elementwise", "gonum"},
						"description": "gonum runs 2-D operands through gonum's dense matrices. Default elementwise",
						"default":     "elementwise",
					},
				},
				"required": []string{"op", "a"},
			},
		},
		{
			Name:        "array_slice",
			Description: "Index or slice an array with Python syntax, e.g. \"1\", \":, 1\" or \"0:2, ::2\".",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"values": nestedValuesProperty,
					"dtype":  dtypeProperty,
					"selection": map[string]interface{}{
						"type":        "string",
						"description": "Comma-separated selectors: integers or start:stop:step ranges",
					},
				},
				"required": []string{"values", "selection"},
			},
		},
		{
			Name:        "array_astype",
			Description: "Convert an array to another dtype. Casting to uint8 truncates and wraps modulo 256.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"values": nestedValuesProperty,
					"dtype": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"int64", "float64", "uint8", "bool", "str"},
						"description": "Target element type",
					},
				},
				"required": []string{"values", "dtype"},
			},
		},

		// Image Arrays
		{
			Name:        "image_load",
			Description: "Load an image file as a (height, width, 3) uint8 array and return its shape, dtype and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_slice",
			Description: "Slice an image array with Python syntax (e.g. \"50:100, :\" or \":, :, 0\") and return the result as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"selection": map[string]interface{}{
						"type":        "string",
						"description": "Selection over (rows, cols, channels)",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "selection"},
			},
		},
		{
			Name:        "image_crop_quadrant",
			Description: "Crop a named region of the image (top-left, top-right, bottom-left, bottom-right, top-half, bottom-half, left-half, right-half, center).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Named region to extract",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "region"},
			},
		},
		{
			Name:        "image_channel",
			Description: "Extract one color channel, img[:, :, channel], rendered as a grayscale PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"channel": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"red", "green", "blue", "0", "1", "2"},
						"description": "Channel name or index. Default red",
						"default":     "red",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_linear_combination",
			Description: "Blend two images. convex mode computes alpha*A + (1-alpha)*B; uniform mode computes alpha*A + alpha*B. The result is cast to uint8.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": pathProperty,
					"path_b": pathProperty,
					"alpha": map[string]interface{}{
						"type":        "number",
						"description": "Weight of image A. Default 0.5",
						"default":     0.5,
					},
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"convex", "uniform"},
						"description": "Weighting mode. Default convex",
						"default":     "convex",
					},
					"saturate": saturateProperty,
					"fit": map[string]interface{}{
						"type":        "boolean",
						"description": "Resize B to A's size when the shapes differ. Default false",
						"default":     false,
					},
					"output_path": outputPathProperty,
				},
				"required": []string{"path_a", "path_b"},
			},
		},
		{
			Name:        "image_add_noise",
			Description: "Add noise to an image: either a constant (noise) or uniform random noise in [0, random_scale). The result is cast to uint8.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"noise": map[string]interface{}{
						"type":        "number",
						"description": "Constant added to every element",
					},
					"random_scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale of uniform random noise, e.g. 255",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for random noise",
					},
					"saturate":    saturateProperty,
					"output_path": outputPathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_solid",
			Description: "Create a solid-color (height, width, 3) image, e.g. #0000FF for blue.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Image height. Default 250",
						"default":     250,
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Image width. Default 250",
						"default":     250,
					},
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color. Default #000000",
						"default":     "#000000",
					},
					"output_path": outputPathProperty,
				},
			},
		},
		{
			Name:        "image_noise",
			Description: "Generate a (height, width, 3) image of uniform random pixel noise.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Image height. Default 250",
						"default":     250,
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Image width. Default 250",
						"default":     250,
					},
					"monochrome": map[string]interface{}{
						"type":        "boolean",
						"description": "Use the same value for all three channels. Default false",
						"default":     false,
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for the pixel values",
					},
					"output_path": outputPathProperty,
				},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color of img[row, col] as hex, RGB and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"row": map[string]interface{}{
						"type":        "integer",
						"description": "Row index (0-based, from top). Negative counts from the bottom",
					},
					"col": map[string]interface{}{
						"type":        "integer",
						"description": "Column index (0-based, from left). Negative counts from the right",
					},
				},
				"required": []string{"path", "row", "col"},
			},
		},
		{
			Name:        "image_compare",
			Description: "Compare two equally sized images: similarity score, differing pixels and mean absolute difference.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path_a": pathProperty,
					"path_b": pathProperty,
				},
				"required": []string{"path_a", "path_b"},
			},
		},

		// Lesson
		{
			Name:        "lesson_run",
			Description: "Run the matrix walkthrough described by a YAML lesson file and return one report per step.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"config_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the lesson YAML file",
					},
				},
				"required": []string{"config_path"},
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
