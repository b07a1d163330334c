// Package server implements the MCP (Model Context Protocol) server for
// array and image-matrix tools.
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods are initialize, tools/list, tools/call and ping.
// Lines that are not valid JSON get a -32700 parse error.
//
// # Available Tools
//
// Array Operations:
//   - array_create: Build an array from nested lists
//   - array_full: Array of one repeated value
//   - array_random: Uniform samples in [0, 1)
//   - array_arithmetic: add, subtract, scale, add_scalar
//   - array_slice: Python-style indexing and slicing
//   - array_astype: dtype conversion (uint8 wraps)
//
// Image Arrays:
//   - image_load: Load an image as a (height, width, 3) uint8 array
//   - image_slice: Slice the pixel array, rendered as PNG
//   - image_crop_quadrant: Extract a named region
//   - image_channel: One color channel as grayscale
//   - image_linear_combination: Blend two images
//   - image_add_noise: Constant or random noise
//   - image_solid: Solid-color image
//   - image_noise: Random pixel noise
//   - image_sample_color: Color at img[row, col]
//   - image_compare: Similarity of two images
//
// Lesson:
//   - lesson_run: Run a YAML-described walkthrough
//
// Loaded images are cached by path for the lifetime of the process.
//
// Tool failures return code -32000 with the Go error string as data.
// Malformed tools/call params return -32602.
package server
