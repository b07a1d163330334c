package ndarray

import (
	"fmt"
	"strconv"
	"strings"
)

// Selector picks positions along one dimension. A Selector is either a
// single position (which drops the dimension) or a range with optional
// bounds and a positive step (which keeps it).
type Selector struct {
	single   bool
	index    int
	start    int
	stop     int
	hasStart bool
	hasStop  bool
	step     int
}

// Pos selects a single position, like a[i]. Negative values count from the end.
func Pos(i int) Selector {
	return Selector{single: true, index: i}
}

// All selects a whole dimension, like a[:].
func All() Selector {
	return Selector{step: 1}
}

// Range selects [start, stop), like a[start:stop].
func Range(start, stop int) Selector {
	return Selector{start: start, stop: stop, hasStart: true, hasStop: true, step: 1}
}

// From selects [start, end), like a[start:].
func From(start int) Selector {
	return Selector{start: start, hasStart: true, step: 1}
}

// To selects [0, stop), like a[:stop].
func To(stop int) Selector {
	return Selector{stop: stop, hasStop: true, step: 1}
}

// Step returns a copy of the selector with the given step, like a[::step].
// Only positive steps are supported.
func (s Selector) Step(step int) Selector {
	s.step = step
	return s
}

// String formats the selector in Python slice syntax.
func (s Selector) String() string {
	if s.single {
		return strconv.Itoa(s.index)
	}
	var b strings.Builder
	if s.hasStart {
		b.WriteString(strconv.Itoa(s.start))
	}
	b.WriteByte(':')
	if s.hasStop {
		b.WriteString(strconv.Itoa(s.stop))
	}
	if s.step != 1 && s.step != 0 {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(s.step))
	}
	return b.String()
}

// resolved is a selector bound to a concrete dimension size.
type resolved struct {
	start int
	count int
	step  int
	keep  bool
}

func (s Selector) resolve(n int) (resolved, error) {
	if s.single {
		i := s.index
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return resolved{}, fmt.Errorf("%w: index %d is out of bounds for size %d", ErrIndexOutOfRange, s.index, n)
		}
		return resolved{start: i, count: 1, step: 1}, nil
	}

	step := s.step
	if step == 0 {
		step = 1
	}
	if step < 0 {
		return resolved{}, fmt.Errorf("%w: negative step %d", ErrSelection, step)
	}

	start, stop := 0, n
	if s.hasStart {
		start = clampBound(s.start, n)
	}
	if s.hasStop {
		stop = clampBound(s.stop, n)
	}

	count := 0
	if stop > start {
		count = (stop - start + step - 1) / step
	}
	return resolved{start: start, count: count, step: step, keep: true}, nil
}

// clampBound applies Python's slice bound rules: negative values count from
// the end, then the result is clamped into [0, n].
func clampBound(v, n int) int {
	if v < 0 {
		v += n
	}
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}

// plan resolves a selection into an output shape and the flat source
// offsets of every selected element, in row-major output order.
func (a *Array) plan(sel []Selector) (Shape, []int, error) {
	if len(sel) > len(a.shape) {
		return nil, nil, fmt.Errorf("%w: too many indices: array is %d-dimensional, but %d were indexed",
			ErrSelection, len(a.shape), len(sel))
	}

	strides := a.shape.Strides()
	out := make(Shape, 0, len(a.shape))
	offsets := []int{0}

	for d, n := range a.shape {
		r := resolved{start: 0, count: n, step: 1, keep: true}
		if d < len(sel) {
			var err error
			if r, err = sel[d].resolve(n); err != nil {
				return nil, nil, fmt.Errorf("axis %d: %w", d, err)
			}
		}
		if r.keep {
			out = append(out, r.count)
		}

		next := make([]int, 0, len(offsets)*r.count)
		for _, o := range offsets {
			for k := 0; k < r.count; k++ {
				next = append(next, o+(r.start+k*r.step)*strides[d])
			}
		}
		offsets = next
	}

	return out, offsets, nil
}

// Slice returns a copy of the selected elements. It is the equivalent of
// NumPy's a[sel0, sel1, ...].
func (a *Array) Slice(sel ...Selector) (*Array, error) {
	shape, offsets, err := a.plan(sel)
	if err != nil {
		return nil, err
	}

	out := &Array{shape: shape, dtype: a.dtype}
	if a.dtype == String {
		out.text = make([]string, len(offsets))
		for i, o := range offsets {
			out.text[i] = a.text[o]
		}
		return out, nil
	}

	out.data = make([]float64, len(offsets))
	for i, o := range offsets {
		out.data[i] = a.data[o]
	}
	return out, nil
}

// SliceString parses a Python-style selection and applies it.
func (a *Array) SliceString(selection string) (*Array, error) {
	sel, err := ParseSelection(selection)
	if err != nil {
		return nil, err
	}
	return a.Slice(sel...)
}

// Assign sets every selected element to value, in place. It is the
// equivalent of NumPy's a[sel] = value.
func (a *Array) Assign(value float64, sel ...Selector) error {
	if a.dtype == String {
		return fmt.Errorf("%w: numeric assignment to string array", ErrDType)
	}
	_, offsets, err := a.plan(sel)
	if err != nil {
		return err
	}
	v := castValue(a.dtype, value)
	for _, o := range offsets {
		a.data[o] = v
	}
	return nil
}

// ParseSelection parses Python slice syntax such as "50:100, :", ":, :, 0"
// or "::2". Surrounding brackets are ignored. An empty selection selects
// everything.
func ParseSelection(s string) ([]Selector, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	sel := make([]Selector, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty selector in %q", ErrSelection, s)
		}

		if !strings.Contains(part, ":") {
			i, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not an integer", ErrSelection, part)
			}
			sel = append(sel, Pos(i))
			continue
		}

		fields := strings.Split(part, ":")
		if len(fields) > 3 {
			return nil, fmt.Errorf("%w: %q has too many colons", ErrSelection, part)
		}

		r := All()
		for i, f := range fields {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not an integer", ErrSelection, f)
			}
			switch i {
			case 0:
				r.start, r.hasStart = v, true
			case 1:
				r.stop, r.hasStop = v, true
			case 2:
				if v <= 0 {
					return nil, fmt.Errorf("%w: step must be positive, got %d", ErrSelection, v)
				}
				r.step = v
			}
		}
		sel = append(sel, r)
	}
	return sel, nil
}
