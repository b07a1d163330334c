package imaging

import (
	"fmt"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// ImageCache provides thread-safe caching of decoded images as pixel arrays.
//
// Each entry is the (height, width, 3) uint8 array of an image file, keyed by
// the path it was loaded from. Once loaded, subsequent Load() calls for the
// same path return the cached array without disk I/O.
//
// Callers must treat returned arrays as read-only; use Copy() before calling
// Assign on them.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	macaw, err := cache.Load("data/images/macaw.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(macaw.Shape()) // (250, 250, 3)
type ImageCache struct {
	mu     sync.RWMutex
	arrays map[string]*ndarray.Array
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		arrays: make(map[string]*ndarray.Array),
	}
}

// Load retrieves a pixel array from the cache or decodes the file at path.
//
// Supported formats are PNG, JPEG and GIF. Alpha channels are discarded.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a valid PNG, JPEG, or GIF image
func (c *ImageCache) Load(path string) (*ndarray.Array, error) {
	c.mu.RLock()
	if arr, ok := c.arrays[path]; ok {
		c.mu.RUnlock()
		return arr, nil
	}
	c.mu.RUnlock()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	arr, err := ToArray(img)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.arrays[path] = arr
	c.mu.Unlock()

	return arr, nil
}

// Clear removes all arrays from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.arrays = make(map[string]*ndarray.Array)
	c.mu.Unlock()
}

// Evict removes a specific entry from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.arrays, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.arrays)
}

// ImageInfo describes an image file viewed as a pixel array.
type ImageInfo struct {
	// Shape is the array shape: (height, width, channels).
	Shape []int `json:"shape"`

	// DType is the element type of the array, always "uint8".
	DType string `json:"dtype"`

	// Height is the number of pixel rows.
	Height int `json:"height"`

	// Width is the number of pixel columns.
	Width int `json:"width"`

	// Channels is the number of color channels (3 for RGB).
	Channels int `json:"channels"`

	// Format is "png", "jpeg", "gif" or "unknown", based on the file extension.
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and describes it.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	arr, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	shape := arr.Shape()
	return &ImageInfo{
		Shape:         shape,
		DType:         arr.DType().String(),
		Height:        shape[0],
		Width:         shape[1],
		Channels:      shape[2],
		Format:        formatFromPath(path),
		FileSizeBytes: stat.Size(),
	}, nil
}

// formatFromPath detects the image format from the file extension.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	default:
		return "unknown"
	}
}
