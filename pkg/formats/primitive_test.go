package formats

import (
	"errors"
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name    string
		mode    DrawMode
		indices []uint32
		want    []uint32
	}{
		{"list", ModeTriangles, []uint32{0, 1, 2, 0, 2, 3}, []uint32{0, 1, 2, 0, 2, 3}},
		{"list drops partial triangle", ModeTriangles, []uint32{0, 1, 2, 3}, []uint32{0, 1, 2}},
		{"list drops two trailing indices", ModeTriangles, []uint32{4, 5, 6, 7, 8}, []uint32{4, 5, 6}},
		{"list shorter than a triangle", ModeTriangles, []uint32{0, 1}, []uint32{}},
		{"strip of five", ModeTriangleStrip, []uint32{0, 1, 2, 3, 4}, []uint32{0, 1, 2, 2, 1, 3, 2, 3, 4}},
		{"strip of four", ModeTriangleStrip, []uint32{0, 1, 2, 3}, []uint32{0, 1, 2}},
		{"strip of six", ModeTriangleStrip, []uint32{0, 1, 2, 3, 4, 5}, []uint32{0, 1, 2, 2, 1, 3, 2, 3, 4}},
		{"strip uses index values", ModeTriangleStrip, []uint32{10, 11, 12, 13, 14}, []uint32{10, 11, 12, 12, 11, 13, 12, 13, 14}},
		{"short strip", ModeTriangleStrip, []uint32{0, 1}, []uint32{}},
		{"fan of four", ModeTriangleFan, []uint32{0, 1, 2, 3}, []uint32{0, 1, 2, 0, 2, 3}},
		{"fan of five", ModeTriangleFan, []uint32{7, 1, 2, 3, 4}, []uint32{7, 1, 2, 7, 2, 3, 7, 3, 4}},
		{"short fan", ModeTriangleFan, []uint32{0}, []uint32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.mode, tt.indices)
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expand() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandUnsupportedModes(t *testing.T) {
	for _, mode := range []DrawMode{ModePoints, ModeLines, ModeLineLoop, ModeLineStrip, DrawMode(9)} {
		_, err := Expand(mode, []uint32{0, 1, 2})
		if !errors.Is(err, ErrUnsupportedPrimitiveMode) {
			t.Errorf("Expand(%s) error = %v, want %v", mode, err, ErrUnsupportedPrimitiveMode)
		}
	}
}

func TestExpandWedgeCountIsMultipleOfThree(t *testing.T) {
	for _, mode := range []DrawMode{ModeTriangles, ModeTriangleStrip, ModeTriangleFan} {
		for n := 0; n <= 16; n++ {
			indices := make([]uint32, n)
			for i := range indices {
				indices[i] = uint32(i)
			}
			got, err := Expand(mode, indices)
			if err != nil {
				t.Fatalf("Expand(%s, %d) error = %v", mode, n, err)
			}
			if len(got)%3 != 0 {
				t.Errorf("Expand(%s, %d) produced %d wedges, not a multiple of 3", mode, n, len(got))
			}
		}
	}
}

func TestWedgeCount(t *testing.T) {
	tests := []struct {
		mode DrawMode
		n    int
		want int
	}{
		{ModeTriangles, 6, 6},
		{ModeTriangles, 7, 6},
		{ModeTriangles, 8, 6},
		{ModeTriangles, 2, 0},
		{ModeTriangleStrip, 5, 9},
		{ModeTriangleFan, 4, 6},
		{ModeTriangleFan, 2, 0},
		{ModePoints, 3, 0},
	}
	for _, tt := range tests {
		if got := WedgeCount(tt.mode, tt.n); got != tt.want {
			t.Errorf("WedgeCount(%s, %d) = %d, want %d", tt.mode, tt.n, got, tt.want)
		}
	}
}
