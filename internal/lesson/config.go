package lesson

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-matrix-mcp/internal/imaging"
	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// Config drives a lesson run. It is usually loaded from a YAML file:
//
//	image_a: data/images/macaw.jpg
//	image_b: data/images/tigers.jpg
//	alphas: [0.5, 0, 1, 0.25, 0.75]
//	combine_mode: convex
//	output_dir: out
type Config struct {
	// ImageA and ImageB are the two photos to blend. Leave both empty to
	// run only the steps that do not need images.
	ImageA string `yaml:"image_a"`
	ImageB string `yaml:"image_b"`

	// Alphas are the weights used for the photo blends.
	Alphas []float64 `yaml:"alphas"`

	// CombineMode is "convex" (alpha*A + (1-alpha)*B) or "uniform"
	// (alpha*A + alpha*B).
	CombineMode string `yaml:"combine_mode"`

	// NoiseScale multiplies uniform [0,1) noise before it is added.
	NoiseScale float64 `yaml:"noise_scale"`

	// NoiseLevel is the constant added by the scalar noise step.
	NoiseLevel float64 `yaml:"noise_level"`

	// SolidSize is the edge length of the black, blue and red squares.
	SolidSize int `yaml:"solid_size"`

	// SolidAlphas are the weights used for the red/blue blends.
	SolidAlphas []float64 `yaml:"solid_alphas"`

	// Seed makes random noise and integer draws reproducible.
	Seed int64 `yaml:"seed"`

	// OutputDir receives the PNG artifacts. Empty means the working
	// directory.
	OutputDir string `yaml:"output_dir"`
}

// DefaultConfig returns the settings of the classic walkthrough without
// image paths.
func DefaultConfig() *Config {
	return &Config{
		Alphas:      []float64{0.5, 0, 1, 0.25, 0.75},
		CombineMode: imaging.CombineConvex.String(),
		NoiseScale:  255,
		NoiseLevel:  100,
		SolidSize:   250,
		SolidAlphas: []float64{0.3, 0.6},
		Seed:        1,
		OutputDir:   ".",
	}
}

// LoadConfig reads a YAML lesson file. Fields missing from the file keep
// their DefaultConfig values. The result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML lesson settings on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// HasImages reports whether photo steps can run.
func (c *Config) HasImages() bool {
	return c.ImageA != "" && c.ImageB != ""
}

// Validate checks the configuration:
//   - image_a and image_b are both set or both empty
//   - every alpha is finite
//   - noise settings are finite and noise_scale is not negative
//   - solid_size is positive and small enough to allocate
//   - combine_mode is known
func (c *Config) Validate() error {
	if (c.ImageA == "") != (c.ImageB == "") {
		return errors.New("image_a and image_b must be set together")
	}
	if len(c.Alphas) == 0 {
		return errors.New("alphas cannot be empty")
	}
	for i, a := range c.Alphas {
		if !finite(a) {
			return fmt.Errorf("alphas[%d] is not finite: %v", i, a)
		}
	}
	for i, a := range c.SolidAlphas {
		if !finite(a) {
			return fmt.Errorf("solid_alphas[%d] is not finite: %v", i, a)
		}
	}
	if !finite(c.NoiseScale) || c.NoiseScale < 0 {
		return fmt.Errorf("noise_scale must be a non-negative number, got %v", c.NoiseScale)
	}
	if !finite(c.NoiseLevel) {
		return fmt.Errorf("noise_level is not finite: %v", c.NoiseLevel)
	}
	if c.SolidSize <= 0 {
		return fmt.Errorf("solid_size must be positive, got %d", c.SolidSize)
	}
	if err := (ndarray.Shape{c.SolidSize, c.SolidSize, 3}).Validate(); err != nil {
		return fmt.Errorf("solid_size %d: %w", c.SolidSize, err)
	}
	if _, err := imaging.ParseCombineMode(c.CombineMode); err != nil {
		return err
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
