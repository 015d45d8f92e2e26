package formats

import "fmt"

// WedgeCount returns the number of triangle corners a primitive with n
// indices declares. Lists declare n rounded down to a multiple of 3. Strip and
// fan primitives declare (n-2)*3.
func WedgeCount(mode DrawMode, n int) int {
	switch mode {
	case ModeTriangles:
		return n - n%3
	case ModeTriangleStrip, ModeTriangleFan:
		if n < 3 {
			return 0
		}
		return (n - 2) * 3
	default:
		return 0
	}
}

// Expand converts a primitive's index list into a flat triangle list with
// one entry per wedge.
//
// Strips emit the first triangle as is and then, for every second index i,
// the pair (i, i-1, i+1) and (i, i+1, i+2). This is not the canonical strip
// decomposition: strips with an even number of indices lose their final
// triangle, and existing assets rely on that output.
// Strips and fans with fewer than three indices produce no triangles.
//
// A list is returned unchanged except that a trailing partial triangle is
// dropped, so the wedge count is always a multiple of 3 and can be less than
// the index count.
func Expand(mode DrawMode, indices []uint32) ([]uint32, error) {
	n := len(indices)
	switch mode {
	case ModeTriangles:
		return indices[:n-n%3], nil

	case ModeTriangleStrip:
		if n < 3 {
			return []uint32{}, nil
		}
		out := make([]uint32, 0, WedgeCount(mode, n))
		out = append(out, indices[0], indices[1], indices[2])
		for i := 2; i < n-2; i += 2 {
			out = append(out,
				indices[i], indices[i-1], indices[i+1],
				indices[i], indices[i+1], indices[i+2],
			)
		}
		return out, nil

	case ModeTriangleFan:
		if n < 3 {
			return []uint32{}, nil
		}
		out := make([]uint32, 0, WedgeCount(mode, n))
		for i := 1; i < n-1; i++ {
			out = append(out, indices[0], indices[i], indices[i+1])
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPrimitiveMode, mode)
	}
}
