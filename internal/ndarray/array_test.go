package ndarray

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNew(t *testing.T) {
	a, err := New(Int64, 2, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !a.Shape().Equal(Shape{2, 3}) {
		t.Errorf("shape: got %v, want (2, 3)", a.Shape())
	}
	if a.NDim() != 2 || a.Size() != 6 {
		t.Errorf("ndim/size: got %d/%d, want 2/6", a.NDim(), a.Size())
	}
	if a.DType() != Int64 {
		t.Errorf("dtype: got %s, want int64", a.DType())
	}
	for i, v := range a.Values() {
		if v != 0 {
			t.Errorf("element %d: got %v, want 0", i, v)
		}
	}
}

func TestNew_NegativeDimension(t *testing.T) {
	_, err := New(Float64, 2, -1)
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("got %v, want ErrInvalidShape", err)
	}
}

func TestShapeValidate_Limits(t *testing.T) {
	big := math.MaxInt / 2

	tests := []struct {
		name    string
		shape   Shape
		wantErr bool
	}{
		{"scalar", Shape{}, false},
		{"image", Shape{250, 250, 3}, false},
		{"empty", Shape{0, big, big}, false},
		{"at limit", Shape{MaxElements}, false},
		{"over limit", Shape{MaxElements + 1}, true},
		{"square over limit", Shape{1 << 15, 1 << 15}, true},
		{"overflows int", Shape{big, 3}, true},
		{"overflows in the middle", Shape{2, big, big, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidShape) {
				t.Errorf("got %v, want ErrInvalidShape", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConstructors_RejectOversizedShapes(t *testing.T) {
	big := math.MaxInt / 2

	if _, err := New(Float64, big, 3); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("New: got %v, want ErrInvalidShape", err)
	}
	if _, err := Full(Float64, 7, 1<<15, 1<<15); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("Full: got %v, want ErrInvalidShape", err)
	}
	if _, err := Rand(rand.New(rand.NewSource(1)), big, big); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("Rand: got %v, want ErrInvalidShape", err)
	}
	if _, err := FromValues(Float64, Shape{big, 4}, nil); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("FromValues: got %v, want ErrInvalidShape", err)
	}
}

func TestZeros(t *testing.T) {
	z, err := Zeros(Uint8, 4, 5, 3)
	if err != nil {
		t.Fatalf("Zeros failed: %v", err)
	}
	if z.DType() != Uint8 || z.Size() != 60 {
		t.Errorf("got %s with %d elements, want uint8 with 60", z.DType(), z.Size())
	}
	for i, v := range z.Values() {
		if v != 0 {
			t.Fatalf("element %d: got %v, want 0", i, v)
		}
	}
}

func TestVector_StringDTypePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Vector(String) should panic")
		}
	}()
	Vector(String, 1, 2)
}

func TestFromValues_NormalizesToDType(t *testing.T) {
	tests := []struct {
		name  string
		dtype DType
		in    []float64
		want  []float64
	}{
		{"int64 truncates", Int64, []float64{1.9, -1.9, 3}, []float64{1, -1, 3}},
		{"float64 keeps", Float64, []float64{25.7521, 45.11112, 50}, []float64{25.7521, 45.11112, 50}},
		{"uint8 wraps", Uint8, []float64{256, 300, -1}, []float64{0, 44, 255}},
		{"bool nonzero", Bool, []float64{0, 2, -3}, []float64{0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := FromValues(tt.dtype, Shape{len(tt.in)}, tt.in)
			if err != nil {
				t.Fatalf("FromValues failed: %v", err)
			}
			got := a.Values()
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("element %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFromValues_CountMismatch(t *testing.T) {
	_, err := FromValues(Int64, Shape{2, 2}, []float64{1, 2, 3})
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("got %v, want ErrInvalidShape", err)
	}
}

func TestMatrix(t *testing.T) {
	table, err := Matrix(Float64, [][]float64{
		{99, 112, 44},
		{7.89, 1.74, 22.3},
		{9.879, 4.71, 3.22},
	})
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	if got := table.Shape().String(); got != "(3, 3)" {
		t.Errorf("shape: got %s, want (3, 3)", got)
	}

	v, err := table.At(1, 2)
	if err != nil {
		t.Fatalf("At failed: %v", err)
	}
	if v != 22.3 {
		t.Errorf("table[1][2]: got %v, want 22.3", v)
	}
}

func TestMatrix_Ragged(t *testing.T) {
	_, err := Matrix(Int64, [][]float64{{1, 2}, {3}})
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("got %v, want ErrInvalidShape", err)
	}
}

func TestFromStringsAndBools(t *testing.T) {
	words := FromStrings("Once", "in", "a", "blue", "moon")
	if words.DType() != String || words.Size() != 5 {
		t.Fatalf("got %s with %d elements", words.DType(), words.Size())
	}
	w, err := words.StringAt(3)
	if err != nil || w != "blue" {
		t.Errorf("StringAt(3): got %q, %v", w, err)
	}
	if _, err := words.At(0); !errors.Is(err, ErrDType) {
		t.Errorf("At on string array: got %v, want ErrDType", err)
	}

	flags := FromBools(true, false, false, false, true)
	if flags.DType() != Bool {
		t.Errorf("dtype: got %s, want bool", flags.DType())
	}
	if got := flags.String(); got != "[ True False False False  True]" {
		t.Errorf("String: got %q", got)
	}
}

func TestFull(t *testing.T) {
	black, err := Full(Uint8, 0, 250, 250, 3)
	if err != nil {
		t.Fatalf("Full failed: %v", err)
	}
	if !black.Shape().Equal(Shape{250, 250, 3}) {
		t.Errorf("shape: got %v", black.Shape())
	}

	sevens, err := Full(Int64, 7.5, 2, 2)
	if err != nil {
		t.Fatalf("Full failed: %v", err)
	}
	for _, v := range sevens.Values() {
		if v != 7 {
			t.Errorf("got %v, want 7", v)
		}
	}

	if _, err := Full(String, 1, 2); !errors.Is(err, ErrDType) {
		t.Errorf("Full(String): got %v, want ErrDType", err)
	}
}

func TestRand(t *testing.T) {
	a, err := Rand(rand.New(rand.NewSource(42)), 250, 250, 3)
	if err != nil {
		t.Fatalf("Rand failed: %v", err)
	}
	if a.DType() != Float64 {
		t.Errorf("dtype: got %s, want float64", a.DType())
	}
	for i, v := range a.Values() {
		if v < 0 || v >= 1 {
			t.Fatalf("element %d out of [0,1): %v", i, v)
		}
	}

	b, _ := Rand(rand.New(rand.NewSource(42)), 250, 250, 3)
	if !a.Equal(b) {
		t.Error("same seed produced different arrays")
	}
}

func TestRandInt(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		v, err := RandInt(rng, 4, 15)
		if err != nil {
			t.Fatalf("RandInt failed: %v", err)
		}
		if v < 4 || v >= 15 {
			t.Fatalf("got %d, want [4,15)", v)
		}
	}
	if _, err := RandInt(rng, 5, 5); err == nil {
		t.Error("RandInt(5,5) should fail")
	}
}

func TestCopy_IsIndependent(t *testing.T) {
	black, _ := Full(Uint8, 0, 2, 2, 3)
	blue := black.Copy()
	if err := blue.Set(255, 0, 0, 2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, _ := black.At(0, 0, 2)
	if v != 0 {
		t.Errorf("original changed: got %v", v)
	}
}

func TestReshape(t *testing.T) {
	a := Vector(Int64, 1, 2, 3, 4, 5, 6)
	m, err := a.Reshape(2, 3)
	if err != nil {
		t.Fatalf("Reshape failed: %v", err)
	}
	v, _ := m.At(1, 0)
	if v != 4 {
		t.Errorf("m[1][0]: got %v, want 4", v)
	}
	if _, err := a.Reshape(4, 2); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("got %v, want ErrShapeMismatch", err)
	}
}

func TestAt_NegativeAndOutOfRange(t *testing.T) {
	a := Vector(Int64, 10, 20, 30)
	v, err := a.At(-1)
	if err != nil || v != 30 {
		t.Errorf("At(-1): got %v, %v", v, err)
	}
	if _, err := a.At(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("At(3): got %v, want ErrIndexOutOfRange", err)
	}
	if _, err := a.At(0, 0); !errors.Is(err, ErrSelection) {
		t.Errorf("At(0,0): got %v, want ErrSelection", err)
	}
}

func TestShapeString(t *testing.T) {
	tests := []struct {
		shape Shape
		want  string
	}{
		{Shape{}, "()"},
		{Shape{4}, "(4,)"},
		{Shape{250, 250, 3}, "(250, 250, 3)"},
	}
	for _, tt := range tests {
		if got := tt.shape.String(); got != tt.want {
			t.Errorf("got %s, want %s", got, tt.want)
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b    Shape
		want    Shape
		wantErr bool
	}{
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, false},
		{Shape{250, 250, 3}, Shape{}, Shape{250, 250, 3}, false},
		{Shape{2, 3}, Shape{3}, Shape{2, 3}, false},
		{Shape{3, 1}, Shape{1, 4}, Shape{3, 4}, false},
		{Shape{3, 4}, Shape{3, 5}, nil, true},
	}
	for _, tt := range tests {
		got, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("%v+%v: got %v, want ErrShapeMismatch", tt.a, tt.b, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%v+%v: unexpected error %v", tt.a, tt.b, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%v+%v: got %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseDType(t *testing.T) {
	for name, want := range map[string]DType{
		"int64": Int64, "float64": Float64, "uint8": Uint8,
		"bool": Bool, "str": String, "": Unspecified,
	} {
		got, err := ParseDType(name)
		if err != nil || got != want {
			t.Errorf("ParseDType(%q): got %s, %v", name, got, err)
		}
	}
	if _, err := ParseDType("complex128"); !errors.Is(err, ErrDType) {
		t.Errorf("got %v, want ErrDType", err)
	}
}
