package lesson

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/image-matrix-mcp/internal/imaging"
	"github.com/ironsheep/image-matrix-mcp/internal/ndarray"
)

// Report describes the outcome of one lesson step.
type Report struct {
	// Name is the short step identifier, e.g. "linear-combinations".
	Name string `json:"name"`

	// Title is a human readable heading.
	Title string `json:"title"`

	// Summary holds the printed arrays, shapes and values the step produced.
	Summary string `json:"summary"`

	// Artifacts lists the image files written by the step.
	Artifacts []string `json:"artifacts,omitempty"`

	// Skipped is set when the step needs images and none were configured.
	Skipped bool `json:"skipped,omitempty"`
}

// Runner executes lesson steps. The zero value is not usable; create one
// with NewRunner.
type Runner struct {
	cache *imaging.ImageCache
	debug bool
}

// NewRunner returns a runner that loads images through cache. A nil cache
// gets a private one. With debug set, each step is logged as it runs.
func NewRunner(cache *imaging.ImageCache, debug bool) *Runner {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	return &Runner{cache: cache, debug: debug}
}

// Run executes the lesson with a fresh runner.
func Run(ctx context.Context, cfg *Config) ([]Report, error) {
	return NewRunner(nil, false).Run(ctx, cfg)
}

// session is the state shared by the steps of one run.
type session struct {
	cfg   *Config
	cache *imaging.ImageCache
	rng   *rand.Rand
	mode  imaging.CombineMode

	table      *ndarray.Array
	matA, matB *ndarray.Array
	imgA, imgB *ndarray.Array
	red, blue  *ndarray.Array

	artifacts []string
}

type step struct {
	name        string
	title       string
	needsImages bool
	run         func(s *session) (string, error)
}

var steps = []step{
	{"creation", "Creating arrays", false, stepCreation},
	{"table", "A table and its shape", false, stepTable},
	{"indexing", "Indexing", false, stepIndexing},
	{"add-subtract", "Matrix addition and subtraction", false, stepAddSubtract},
	{"scalar-multiply", "Scalar multiplication", false, stepScalar},
	{"gonum", "The same arithmetic through gonum", false, stepGonum},
	{"load-images", "Images as arrays", true, stepLoadImages},
	{"linear-combinations", "Linear combinations", true, stepLinearCombinations},
	{"slicing", "Slicing images", true, stepSlicing},
	{"red-channel", "Extracting the red channel", true, stepRedChannel},
	{"random-noise", "Adding random noise", true, stepNoise},
	{"solids", "Black, blue and red squares", false, stepSolids},
	{"red-blue-blends", "Blending red and blue", false, stepRedBlue},
	{"random-integer", "A random integer", false, stepRandomInteger},
}

// Run executes every step in order and returns one report per step.
//
// Steps that need images are skipped when cfg has no image paths. The
// context is checked between steps; on cancellation the reports produced so
// far are returned with ctx.Err().
func (r *Runner) Run(ctx context.Context, cfg *Config) ([]Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lesson config: %w", err)
	}
	mode, _ := imaging.ParseCombineMode(cfg.CombineMode)

	s := &session{
		cfg:   cfg,
		cache: r.cache,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		mode:  mode,
	}

	reports := make([]Report, 0, len(steps))
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		if st.needsImages && !cfg.HasImages() {
			log.Printf("Skipping step %d (%s): no image paths configured", i+1, st.name)
			reports = append(reports, Report{
				Name:    st.name,
				Title:   st.title,
				Summary: "skipped: no image paths configured",
				Skipped: true,
			})
			continue
		}

		if r.debug {
			log.Printf("Running step %d: %s", i+1, st.name)
		}
		s.artifacts = nil
		summary, err := st.run(s)
		if err != nil {
			return reports, fmt.Errorf("step %s: %w", st.name, err)
		}
		reports = append(reports, Report{
			Name:      st.name,
			Title:     st.title,
			Summary:   summary,
			Artifacts: s.artifacts,
		})
	}
	return reports, nil
}

func (s *session) save(name string, arr *ndarray.Array) error {
	path := filepath.Join(s.cfg.OutputDir, name)
	if err := imaging.Save(path, arr); err != nil {
		return err
	}
	s.artifacts = append(s.artifacts, path)
	return nil
}

func stepCreation(s *session) (string, error) {
	var b strings.Builder
	for _, arr := range []*ndarray.Array{
		ndarray.Vector(ndarray.Int64, 1, 2, 3, 4),
		ndarray.Vector(ndarray.Float64, 1, 2, 3, 4),
		ndarray.FromStrings("Once", "in", "a", "blue", "moon"),
		ndarray.FromBools(true, false, false, false, true),
		ndarray.Vector(ndarray.Float64, 25.7521, 45.11112, 50),
	} {
		fmt.Fprintf(&b, "%s: %v\n", arr.DType(), arr)
	}

	for _, nested := range []interface{}{
		[]interface{}{
			[]int{1, 2, 3, 4},
			[]int{5, 6, 7, 8},
			[]int{9, 10, 11, 12},
		},
		[]interface{}{
			[]interface{}{[]int{1, 4}, []int{7, 10}},
			[]interface{}{[]int{3, 6}, []int{9, 12}},
		},
	} {
		arr, err := ndarray.FromNested(ndarray.Int64, nested)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%v\nshape %v\n", arr, arr.Shape())
	}
	return b.String(), nil
}

func stepTable(s *session) (string, error) {
	table, err := ndarray.Matrix(ndarray.Float64, [][]float64{
		{99, 112, 44},
		{7.89, 1.74, 22.3},
		{9.879, 4.71, 3.22},
	})
	if err != nil {
		return "", err
	}
	s.table = table
	return fmt.Sprintf("%v\nshape %v", table, table.Shape()), nil
}

func stepIndexing(s *session) (string, error) {
	var b strings.Builder
	for _, i := range []int{0, 1} {
		row, err := s.table.Index(i)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "table[%d] = %v\n", i, row)
	}
	v, err := s.table.At(1, 2)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "table[1][2] = %v\n", v)

	values := make([]float64, 27)
	for i := range values {
		values[i] = float64(i)
	}
	cube, err := ndarray.FromValues(ndarray.Int64, ndarray.Shape{3, 3, 3}, values)
	if err != nil {
		return "", err
	}
	block, err := cube.Index(1)
	if err != nil {
		return "", err
	}
	rows, err := cube.Slice(ndarray.All(), ndarray.Pos(1))
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "T[1] =\n%v\nT[:, 1] =\n%v\n", block, rows)
	return b.String(), nil
}

func stepAddSubtract(s *session) (string, error) {
	var err error
	if s.matA, err = ndarray.Matrix(ndarray.Int64, [][]float64{{1, 2, 3}, {10, 20, 30}}); err != nil {
		return "", err
	}
	if s.matB, err = ndarray.Matrix(ndarray.Int64, [][]float64{{4, 8, 16}, {3, 9, 27}}); err != nil {
		return "", err
	}
	sum, err := s.matA.Add(s.matB)
	if err != nil {
		return "", err
	}
	diff, err := s.matB.Sub(s.matA)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("A + B =\n%v\nB - A =\n%v", sum, diff), nil
}

func stepScalar(s *session) (string, error) {
	scaled, err := s.matA.Scale(5)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("5*A =\n%v", scaled), nil
}

func stepGonum(s *session) (string, error) {
	type check struct {
		label      string
		gonum, ref func() (*ndarray.Array, error)
	}
	checks := []check{
		{"A + B", func() (*ndarray.Array, error) { return ndarray.MatAdd(s.matA, s.matB) }, func() (*ndarray.Array, error) { return s.matA.Add(s.matB) }},
		{"B - A", func() (*ndarray.Array, error) { return ndarray.MatSub(s.matB, s.matA) }, func() (*ndarray.Array, error) { return s.matB.Sub(s.matA) }},
		{"5*A", func() (*ndarray.Array, error) { return ndarray.MatScale(5, s.matA) }, func() (*ndarray.Array, error) { return s.matA.Scale(5) }},
	}

	var b strings.Builder
	for _, c := range checks {
		got, err := c.gonum()
		if err != nil {
			return "", fmt.Errorf("%s: %w", c.label, err)
		}
		want, err := c.ref()
		if err != nil {
			return "", fmt.Errorf("%s: %w", c.label, err)
		}
		if !got.Equal(want) {
			return "", fmt.Errorf("%s: gonum result %v differs from elementwise %v", c.label, got, want)
		}
		fmt.Fprintf(&b, "%s (gonum) =\n%v\n", c.label, got)
	}
	return b.String(), nil
}

func stepLoadImages(s *session) (string, error) {
	var err error
	if s.imgA, err = s.cache.Load(s.cfg.ImageA); err != nil {
		return "", fmt.Errorf("image_a: %w", err)
	}
	if s.imgB, err = s.cache.Load(s.cfg.ImageB); err != nil {
		return "", fmt.Errorf("image_b: %w", err)
	}

	summary := fmt.Sprintf("A shape %v\nB shape %v", s.imgA.Shape(), s.imgB.Shape())

	shapeA := s.imgA.Shape()
	if !shapeA.Equal(s.imgB.Shape()) {
		if s.imgB, err = imaging.Fit(s.imgB, shapeA[0], shapeA[1]); err != nil {
			return "", err
		}
		summary += fmt.Sprintf("\nB resized to %v", s.imgB.Shape())
	}
	return summary, nil
}

func stepLinearCombinations(s *session) (string, error) {
	var b strings.Builder
	opts := imaging.BlendOptions{Mode: s.mode}
	for _, alpha := range s.cfg.Alphas {
		blend, err := imaging.LinearCombinationWith(s.imgA, s.imgB, alpha, opts)
		if err != nil {
			return "", err
		}
		if err := s.save("blend_alpha_"+formatAlpha(alpha)+".png", blend); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "alpha=%s (%s) -> %v %s\n", formatAlpha(alpha), s.mode, blend.Shape(), blend.DType())
	}
	return b.String(), nil
}

func stepSlicing(s *session) (string, error) {
	crops := []struct {
		label string
		file  string
		src   *ndarray.Array
		chain []string
	}{
		{"A[50:100, :]", "slice_rows.png", s.imgA, []string{"50:100, :"}},
		{"A[:, 50:100]", "slice_cols.png", s.imgA, []string{":, 50:100"}},
		{"A[:][50:100]", "slice_chained.png", s.imgA, []string{":", "50:100"}},
		{"B[200:][:200]", "slice_b_tail.png", s.imgB, []string{"200:", ":200"}},
		{"B[25:-25, 25:-25]", "slice_b_border.png", s.imgB, []string{"25:-25, 25:-25"}},
	}

	var b strings.Builder
	for _, c := range crops {
		arr := c.src
		for _, sel := range c.chain {
			var err error
			if arr, err = arr.SliceString(sel); err != nil {
				return "", fmt.Errorf("%s: %w", c.label, err)
			}
		}
		if arr.Size() == 0 {
			fmt.Fprintf(&b, "%s -> %v (empty, not saved)\n", c.label, arr.Shape())
			continue
		}
		if err := s.save(c.file, arr); err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s -> %v\n", c.label, arr.Shape())
	}
	return b.String(), nil
}

func stepRedChannel(s *session) (string, error) {
	red, err := imaging.Channel(s.imgA, imaging.Red)
	if err != nil {
		return "", err
	}
	if err := s.save("red_channel.png", red); err != nil {
		return "", err
	}
	return fmt.Sprintf("A[:, :, 0] -> %v, rendered as grayscale", red.Shape()), nil
}

func stepNoise(s *session) (string, error) {
	shape := s.imgA.Shape()
	noise, err := imaging.RandomNoise(s.rng, s.cfg.NoiseScale, shape...)
	if err != nil {
		return "", err
	}
	noisy, err := imaging.AddRandomNoise(s.imgA, noise)
	if err != nil {
		return "", err
	}
	if err := s.save("noise_random.png", noisy); err != nil {
		return "", err
	}

	shifted, err := imaging.AddRandomNoiseScalar(s.imgA, s.cfg.NoiseLevel)
	if err != nil {
		return "", err
	}
	if err := s.save("noise_scalar.png", shifted); err != nil {
		return "", err
	}

	return fmt.Sprintf("rand%v * %v added -> %v %s\nA + %v -> %v %s",
		shape, s.cfg.NoiseScale, noisy.Shape(), noisy.DType(),
		s.cfg.NoiseLevel, shifted.Shape(), shifted.DType()), nil
}

func stepSolids(s *session) (string, error) {
	n := s.cfg.SolidSize
	black, err := imaging.Black(n, n)
	if err != nil {
		return "", err
	}
	if s.blue, err = imaging.SetChannel(black, imaging.Blue, 255); err != nil {
		return "", err
	}
	if s.red, err = imaging.SetChannel(black, imaging.Red, 255); err != nil {
		return "", err
	}

	for _, out := range []struct {
		file string
		arr  *ndarray.Array
	}{
		{"black.png", black},
		{"blue.png", s.blue},
		{"red.png", s.red},
	} {
		if err := s.save(out.file, out.arr); err != nil {
			return "", err
		}
	}

	solidBlue, err := imaging.Solid(n, n, "#0000FF")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("black, blue and red %v %s\nblue equals solid #0000FF: %t",
		black.Shape(), black.DType(), s.blue.Equal(solidBlue)), nil
}

func stepRedBlue(s *session) (string, error) {
	var b strings.Builder
	opts := imaging.BlendOptions{Mode: s.mode}
	mid := s.cfg.SolidSize / 2
	for _, alpha := range s.cfg.SolidAlphas {
		blend, err := imaging.LinearCombinationWith(s.red, s.blue, alpha, opts)
		if err != nil {
			return "", err
		}
		if err := s.save("red_blue_"+formatAlpha(alpha)+".png", blend); err != nil {
			return "", err
		}
		c, err := imaging.SampleColor(blend, mid, mid)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "alpha=%s -> %s\n", formatAlpha(alpha), c.Hex)
	}
	return b.String(), nil
}

func stepRandomInteger(s *session) (string, error) {
	n, err := ndarray.RandInt(s.rng, 4, 15)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("randint(4, 15) = %d", n), nil
}

func formatAlpha(a float64) string {
	return strconv.FormatFloat(a, 'g', -1, 64)
}
