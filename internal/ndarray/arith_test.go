package ndarray

import (
	"errors"
	"math"
	"testing"
)

func lessonMatrices(t *testing.T) (*Array, *Array) {
	t.Helper()
	a, err := Matrix(Int64, [][]float64{{1, 2, 3}, {10, 20, 30}})
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	b, err := Matrix(Int64, [][]float64{{4, 8, 16}, {3, 9, 27}})
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	return a, b
}

func TestAdd(t *testing.T) {
	a, b := lessonMatrices(t)
	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if sum.DType() != Int64 {
		t.Errorf("dtype: got %s, want int64", sum.DType())
	}
	assertValues(t, sum, Shape{2, 3}, []float64{5, 10, 19, 13, 29, 57})
}

func TestSub(t *testing.T) {
	a, b := lessonMatrices(t)
	diff, err := b.Sub(a)
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	assertValues(t, diff, Shape{2, 3}, []float64{3, 6, 13, -7, -11, -3})
}

func TestAdd_ShapeMismatch(t *testing.T) {
	a, _ := lessonMatrices(t)
	c, _ := New(Int64, 3, 2)
	if _, err := a.Add(c); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}
}

func TestAdd_BroadcastOverLimit(t *testing.T) {
	col, _ := Zeros(Float64, 1<<15, 1)
	row, _ := Zeros(Float64, 1, 1<<15)
	if _, err := col.Add(row); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("got %v, want ErrInvalidShape", err)
	}
}

func TestAdd_Broadcasting(t *testing.T) {
	a, _ := lessonMatrices(t)
	row := Vector(Int64, 100, 200, 300)
	got, err := a.Add(row)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	assertValues(t, got, Shape{2, 3}, []float64{101, 202, 303, 110, 220, 330})

	col, _ := FromValues(Int64, Shape{3, 1}, []float64{1, 2, 3})
	line, _ := FromValues(Int64, Shape{1, 4}, []float64{10, 20, 30, 40})
	grid, err := col.Add(line)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	assertValues(t, grid, Shape{3, 4}, []float64{
		11, 21, 31, 41,
		12, 22, 32, 42,
		13, 23, 33, 43,
	})

	scalar, err := a.Add(Scalar(0.5))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if scalar.DType() != Float64 {
		t.Errorf("dtype: got %s, want float64", scalar.DType())
	}
	assertValues(t, scalar, Shape{2, 3}, []float64{1.5, 2.5, 3.5, 10.5, 20.5, 30.5})
}

func TestAdd_Uint8Wraps(t *testing.T) {
	a := Vector(Uint8, 200, 10)
	b := Vector(Uint8, 100, 10)
	got, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if got.DType() != Uint8 {
		t.Errorf("dtype: got %s, want uint8", got.DType())
	}
	assertValues(t, got, Shape{2}, []float64{44, 20})
}

func TestArithmetic_StringRejected(t *testing.T) {
	words := FromStrings("a", "b")
	if _, err := words.Add(words); !errors.Is(err, ErrDType) {
		t.Errorf("Add: got %v, want ErrDType", err)
	}
	if _, err := words.Scale(2); !errors.Is(err, ErrDType) {
		t.Errorf("Scale: got %v, want ErrDType", err)
	}
}

func TestScale(t *testing.T) {
	a, _ := lessonMatrices(t)
	five, err := a.Scale(5)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if five.DType() != Int64 {
		t.Errorf("dtype: got %s, want int64", five.DType())
	}
	assertValues(t, five, Shape{2, 3}, []float64{5, 10, 15, 50, 100, 150})

	half, err := a.Scale(0.5)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if half.DType() != Float64 {
		t.Errorf("dtype: got %s, want float64", half.DType())
	}
	assertValues(t, half, Shape{2, 3}, []float64{0.5, 1, 1.5, 5, 10, 15})
}

func TestAddScalar_Uint8(t *testing.T) {
	img := Vector(Uint8, 0, 155, 200)
	got, err := img.AddScalar(100)
	if err != nil {
		t.Fatalf("AddScalar failed: %v", err)
	}
	assertValues(t, got, Shape{3}, []float64{100, 255, 44})
}

func TestClip(t *testing.T) {
	a := Vector(Float64, -20, 100, 300)
	got, err := a.Clip(0, 255)
	if err != nil {
		t.Fatalf("Clip failed: %v", err)
	}
	assertValues(t, got, Shape{3}, []float64{0, 100, 255})
	if _, err := a.Clip(5, 1); err == nil {
		t.Error("inverted bounds should fail")
	}
}

func TestAsType(t *testing.T) {
	f := Vector(Float64, 300, -1, 255.9, 256, 127.5, math.NaN())
	u, err := f.AsType(Uint8)
	if err != nil {
		t.Fatalf("AsType failed: %v", err)
	}
	assertValues(t, u, Shape{6}, []float64{44, 255, 255, 0, 127, 0})

	i, _ := Vector(Float64, 1.9, -1.9).AsType(Int64)
	assertValues(t, i, Shape{2}, []float64{1, -1})

	b, _ := Vector(Int64, 0, 3).AsType(Bool)
	assertValues(t, b, Shape{2}, []float64{0, 1})
}

func TestAsType_Strings(t *testing.T) {
	s, err := Vector(Float64, 1, 2.5).AsType(String)
	if err != nil {
		t.Fatalf("AsType failed: %v", err)
	}
	if got := s.Strings(); got[0] != "1.0" || got[1] != "2.5" {
		t.Errorf("got %v, want [1.0 2.5]", got)
	}

	n, err := FromStrings("4", "8.5").AsType(Float64)
	if err != nil {
		t.Fatalf("AsType failed: %v", err)
	}
	assertValues(t, n, Shape{2}, []float64{4, 8.5})

	if _, err := FromStrings("moon").AsType(Int64); !errors.Is(err, ErrDType) {
		t.Errorf("got %v, want ErrDType", err)
	}
}

func TestEqual(t *testing.T) {
	a, b := lessonMatrices(t)
	if !a.Equal(a.Copy()) {
		t.Error("array not equal to its copy")
	}
	if a.Equal(b) {
		t.Error("different arrays reported equal")
	}
	f, _ := a.AsType(Float64)
	if a.Equal(f) {
		t.Error("arrays with different dtypes reported equal")
	}
}

func TestString(t *testing.T) {
	a, _ := lessonMatrices(t)
	want := "[[ 1  2  3]\n [10 20 30]]"
	if got := a.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}

	if got := Vector(Float64, 1, 2.5).String(); got != "[ 1. 2.5]" {
		t.Errorf("got %q", got)
	}
	if got := FromStrings("Once", "in").String(); got != "['Once' 'in']" {
		t.Errorf("got %q", got)
	}
}

func TestFromNested(t *testing.T) {
	nested := []interface{}{
		[]interface{}{[]interface{}{1.0, 4.0}, []interface{}{7.0, 10.0}},
		[]interface{}{[]interface{}{3.0, 6.0}, []interface{}{9.0, 12.0}},
	}
	a, err := FromNested(Unspecified, nested)
	if err != nil {
		t.Fatalf("FromNested failed: %v", err)
	}
	if a.DType() != Int64 {
		t.Errorf("dtype: got %s, want int64", a.DType())
	}
	assertValues(t, a, Shape{2, 2, 2}, []float64{1, 4, 7, 10, 3, 6, 9, 12})

	tests := []struct {
		name string
		in   interface{}
		want DType
	}{
		{"floats", []interface{}{25.7521, 45.11112, 50.0}, Float64},
		{"strings", []interface{}{"Once", "in"}, String},
		{"bools", []interface{}{true, false}, Bool},
		{"scalar", 3.0, Int64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromNested(Unspecified, tt.in)
			if err != nil {
				t.Fatalf("FromNested failed: %v", err)
			}
			if got.DType() != tt.want {
				t.Errorf("dtype: got %s, want %s", got.DType(), tt.want)
			}
		})
	}
}

func TestFromNested_Ragged(t *testing.T) {
	ragged := []interface{}{
		[]interface{}{1.0, 2.0},
		[]interface{}{3.0},
	}
	if _, err := FromNested(Unspecified, ragged); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("got %v, want ErrInvalidShape", err)
	}
	mixed := []interface{}{1.0, []interface{}{2.0}}
	if _, err := FromNested(Unspecified, mixed); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("got %v, want ErrInvalidShape", err)
	}
}

func TestToNested(t *testing.T) {
	a, _ := lessonMatrices(t)
	rows, ok := a.ToNested().([]interface{})
	if !ok || len(rows) != 2 {
		t.Fatalf("unexpected nesting: %#v", a.ToNested())
	}
	second, ok := rows[1].([]interface{})
	if !ok || len(second) != 3 {
		t.Fatalf("unexpected row: %#v", rows[1])
	}
	if second[2] != int64(30) {
		t.Errorf("a[1][2]: got %#v, want int64(30)", second[2])
	}

	if got := Scalar(2.5).ToNested(); got != 2.5 {
		t.Errorf("scalar: got %#v", got)
	}
}
