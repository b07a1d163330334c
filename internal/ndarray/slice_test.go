package ndarray

import (
	"errors"
	"testing"
)

// cube returns the 3x3x3 array with T[i][j][k] = i*9 + j*3 + k.
func cube(t *testing.T) *Array {
	t.Helper()
	values := make([]float64, 27)
	for i := range values {
		values[i] = float64(i)
	}
	a, err := FromValues(Int64, Shape{3, 3, 3}, values)
	if err != nil {
		t.Fatalf("FromValues failed: %v", err)
	}
	return a
}

func assertValues(t *testing.T, a *Array, shape Shape, want []float64) {
	t.Helper()
	if !a.Shape().Equal(shape) {
		t.Fatalf("shape: got %v, want %v", a.Shape(), shape)
	}
	got := a.Values()
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIndex_MiddleBlock(t *testing.T) {
	mid, err := cube(t).Index(1)
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	assertValues(t, mid, Shape{3, 3}, []float64{9, 10, 11, 12, 13, 14, 15, 16, 17})
}

func TestSlice_SecondRowOfEachBlock(t *testing.T) {
	rows, err := cube(t).Slice(All(), Pos(1))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	assertValues(t, rows, Shape{3, 3}, []float64{3, 4, 5, 12, 13, 14, 21, 22, 23})
}

func TestSlice_LastChannel(t *testing.T) {
	ch, err := cube(t).Slice(All(), All(), Pos(-1))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	assertValues(t, ch, Shape{3, 3}, []float64{2, 5, 8, 11, 14, 17, 20, 23, 26})
}

func TestSlice_ChainedEqualsDirect(t *testing.T) {
	img, _ := New(Uint8, 250, 250, 3)
	for i := 0; i < 250; i++ {
		_ = img.Assign(float64(i), Pos(i))
	}

	direct, err := img.Slice(Range(50, 100))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	all, _ := img.Slice(All())
	chained, err := all.Slice(Range(50, 100))
	if err != nil {
		t.Fatalf("chained Slice failed: %v", err)
	}
	if !direct.Equal(chained) {
		t.Error("a[:][50:100] differs from a[50:100]")
	}
	if !direct.Shape().Equal(Shape{50, 250, 3}) {
		t.Errorf("shape: got %v, want (50, 250, 3)", direct.Shape())
	}
}

func TestSlice_ChainedRowRanges(t *testing.T) {
	img, _ := New(Uint8, 250, 250, 3)
	tail, _ := img.Slice(From(200))
	head, err := tail.Slice(To(200))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if !head.Shape().Equal(Shape{50, 250, 3}) {
		t.Errorf("b[200:][:200] shape: got %v, want (50, 250, 3)", head.Shape())
	}

	cropped, err := img.Slice(Range(25, -25), Range(25, -25))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if !cropped.Shape().Equal(Shape{200, 200, 3}) {
		t.Errorf("b[25:-25, 25:-25] shape: got %v, want (200, 200, 3)", cropped.Shape())
	}
}

func TestSlice_StepAndClamp(t *testing.T) {
	a := Vector(Int64, 0, 1, 2, 3, 4, 5, 6)

	even, err := a.Slice(All().Step(2))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	assertValues(t, even, Shape{4}, []float64{0, 2, 4, 6})

	clamped, err := a.Slice(Range(5, 100))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	assertValues(t, clamped, Shape{2}, []float64{5, 6})

	empty, err := a.Slice(Range(4, 2))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	assertValues(t, empty, Shape{0}, nil)
}

func TestSlice_Errors(t *testing.T) {
	a := cube(t)
	if _, err := a.Index(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Index(3): got %v, want ErrIndexOutOfRange", err)
	}
	if _, err := a.Slice(All(), All(), All(), All()); !errors.Is(err, ErrSelection) {
		t.Errorf("too many selectors: got %v, want ErrSelection", err)
	}
	if _, err := a.Slice(All().Step(-1)); !errors.Is(err, ErrSelection) {
		t.Errorf("negative step: got %v, want ErrSelection", err)
	}
}

func TestAssign_OnlySelectedRegion(t *testing.T) {
	black, _ := Full(Uint8, 0, 4, 4, 3)
	blue := black.Copy()
	if err := blue.Assign(255, All(), All(), Pos(2)); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			for c := 0; c < 3; c++ {
				v, _ := blue.At(y, x, c)
				want := 0.0
				if c == 2 {
					want = 255
				}
				if v != want {
					t.Fatalf("blue[%d,%d,%d]: got %v, want %v", y, x, c, v, want)
				}
			}
		}
	}

	if err := FromStrings("a").Assign(1); !errors.Is(err, ErrDType) {
		t.Errorf("string Assign: got %v, want ErrDType", err)
	}
}

func TestSlice_StringArray(t *testing.T) {
	words := FromStrings("Once", "in", "a", "blue", "moon")
	tail, err := words.Slice(From(3))
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if got := tail.Strings(); len(got) != 2 || got[0] != "blue" || got[1] != "moon" {
		t.Errorf("got %v, want [blue moon]", got)
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"50:100, :", "50:100 :"},
		{":, :, 0", ": : 0"},
		{"[200:]", "200:"},
		{"::2", "::2"},
		{"-1", "-1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			sel, err := ParseSelection(tt.in)
			if err != nil {
				t.Fatalf("ParseSelection failed: %v", err)
			}
			got := ""
			for i, s := range sel {
				if i > 0 {
					got += " "
				}
				got += s.String()
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSelection_Errors(t *testing.T) {
	for _, in := range []string{"a:b", "1:2:3:4", "1,,2", "::0", "x"} {
		if _, err := ParseSelection(in); !errors.Is(err, ErrSelection) {
			t.Errorf("ParseSelection(%q): got %v, want ErrSelection", in, err)
		}
	}
}

func TestSliceString(t *testing.T) {
	rows, err := cube(t).SliceString(":, 1")
	if err != nil {
		t.Fatalf("SliceString failed: %v", err)
	}
	assertValues(t, rows, Shape{3, 3}, []float64{3, 4, 5, 12, 13, 14, 21, 22, 23})
}
