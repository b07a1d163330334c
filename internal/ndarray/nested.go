package ndarray

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FromNested builds an array from nested slices, as produced by decoding a
// JSON array into interface{}. Leaves may be numbers, booleans or strings.
// With dtype Unspecified the type is inferred: any string gives String,
// all booleans give Bool, all integral numbers give Int64, otherwise Float64.
func FromNested(dtype DType, v interface{}) (*Array, error) {
	var shape Shape
	var leaves []interface{}
	if err := flatten(v, 0, &shape, &leaves); err != nil {
		return nil, err
	}

	if dtype == Unspecified {
		dtype = inferDType(leaves)
	}

	if dtype == String {
		text := make([]string, len(leaves))
		for i, leaf := range leaves {
			text[i] = leafString(leaf)
		}
		return &Array{shape: shape, dtype: String, text: text}, nil
	}

	values := make([]float64, len(leaves))
	for i, leaf := range leaves {
		f, err := leafFloat(dtype, leaf)
		if err != nil {
			return nil, err
		}
		values[i] = f
	}
	return FromValues(dtype, shape, values)
}

// flatten walks v depth first, recording the shape on first descent and
// checking that every later branch matches it.
func flatten(v interface{}, depth int, shape *Shape, leaves *[]interface{}) error {
	items, isList := asList(v)
	if !isList {
		if depth != len(*shape) {
			return fmt.Errorf("%w: ragged nesting at depth %d", ErrInvalidShape, depth)
		}
		*leaves = append(*leaves, v)
		return nil
	}

	if depth == len(*shape) {
		if len(*leaves) > 0 {
			return fmt.Errorf("%w: ragged nesting at depth %d", ErrInvalidShape, depth)
		}
		*shape = append(*shape, len(items))
	} else if depth > len(*shape) || (*shape)[depth] != len(items) {
		return fmt.Errorf("%w: inconsistent length %d at depth %d", ErrInvalidShape, len(items), depth)
	}

	for _, item := range items {
		if err := flatten(item, depth+1, shape, leaves); err != nil {
			return err
		}
	}
	return nil
}

func asList(v interface{}) ([]interface{}, bool) {
	switch t := v.(type) {
	case []interface{}:
		return t, true
	case []float64:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out, true
	case []int:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out, true
	case []string:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out, true
	case []bool:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out, true
	case [][]float64:
		out := make([]interface{}, len(t))
		for i, x := range t {
			out[i] = x
		}
		return out, true
	}
	return nil, false
}

func inferDType(leaves []interface{}) DType {
	if len(leaves) == 0 {
		return Float64
	}
	allBool, allInt := true, true
	for _, leaf := range leaves {
		switch t := leaf.(type) {
		case string:
			return String
		case bool:
			allInt = false
		case int, int64:
			allBool = false
		case float64:
			allBool = false
			if t != math.Trunc(t) {
				allInt = false
			}
		default:
			allBool, allInt = false, false
		}
	}
	switch {
	case allBool:
		return Bool
	case allInt:
		return Int64
	default:
		return Float64
	}
}

func leafFloat(dtype DType, leaf interface{}) (float64, error) {
	switch t := leaf.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case bool:
		return boolValue(t), nil
	case string:
		return parseElement(dtype, t)
	default:
		return 0, fmt.Errorf("%w: unsupported element %v (%T)", ErrDType, leaf, leaf)
	}
}

func leafString(leaf interface{}) string {
	switch t := leaf.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// ToNested returns the array as nested []interface{} slices suitable for
// JSON encoding. Integer dtypes produce int64 leaves, Bool produces bool,
// Float64 produces float64 and String produces string. A 0-d array returns
// its single leaf.
func (a *Array) ToNested() interface{} {
	pos := 0
	return a.nest(0, &pos)
}

func (a *Array) nest(depth int, pos *int) interface{} {
	if depth == len(a.shape) {
		i := *pos
		*pos++
		if a.dtype == String {
			return a.text[i]
		}
		return a.leaf(a.data[i])
	}
	items := make([]interface{}, a.shape[depth])
	for i := range items {
		items[i] = a.nest(depth+1, pos)
	}
	return items
}

func (a *Array) leaf(v float64) interface{} {
	switch a.dtype {
	case Int64, Uint8:
		return int64(v)
	case Bool:
		return v != 0
	default:
		return v
	}
}

// String renders the array the way NumPy prints it, e.g.
//
//	[[ 1  2  3]
//	 [10 20 30]]
func (a *Array) String() string {
	n := a.Size()
	cells := make([]string, n)
	width := 0
	for i := 0; i < n; i++ {
		if a.dtype == String {
			cells[i] = "'" + a.text[i] + "'"
		} else {
			cells[i] = formatElement(a.dtype, a.data[i])
		}
		if len(cells[i]) > width {
			width = len(cells[i])
		}
	}
	if len(a.shape) == 0 {
		if n == 0 {
			return ""
		}
		return cells[0]
	}

	var b strings.Builder
	pos := 0
	a.render(&b, cells, width, 0, &pos)
	return b.String()
}

func (a *Array) render(b *strings.Builder, cells []string, width, depth int, pos *int) {
	b.WriteByte('[')
	n := a.shape[depth]
	for i := 0; i < n; i++ {
		if depth == len(a.shape)-1 {
			if i > 0 {
				b.WriteByte(' ')
			}
			cell := cells[*pos]
			*pos++
			if a.dtype == String {
				b.WriteString(cell)
			} else {
				b.WriteString(strings.Repeat(" ", width-len(cell)))
				b.WriteString(cell)
			}
			continue
		}
		if i > 0 {
			b.WriteString(strings.Repeat("\n", len(a.shape)-depth-1))
			b.WriteString(strings.Repeat(" ", depth+1))
		}
		a.render(b, cells, width, depth+1, pos)
	}
	b.WriteByte(']')
}

// formatElement formats a single numeric element for its dtype.
func formatElement(t DType, v float64) string {
	switch t {
	case Int64, Uint8:
		return strconv.FormatInt(int64(v), 10)
	case Bool:
		if v != 0 {
			return "True"
		}
		return "False"
	default:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".NI") {
			s += "."
		}
		return s
	}
}
