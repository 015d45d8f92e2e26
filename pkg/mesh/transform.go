package mesh

import gmath "github.com/Faultbox/gltfmesh/pkg/math"

// UpAxisCorrection is the fixed rotation that turns the source's Y-up axis
// into the engine's Z-up axis.
func UpAxisCorrection() gmath.Mat4 {
	return gmath.Rotator{Roll: -90}.Quaternion().ToMat4()
}

// ImportTransform builds the user transform of the options: uniform scale,
// rotation and translation, followed by the up-axis correction when enabled.
func ImportTransform(opts ImportOptions) gmath.Mat4 {
	s := opts.ImportUniformScale
	m := gmath.ComposeTRS(opts.ImportRotation.Quaternion(), opts.ImportTranslation, gmath.Vec3{X: s, Y: s, Z: s})
	if opts.CorrectUpDirection {
		m = m.Mul(UpAxisCorrection())
	}
	return m
}

// TotalTransform applies the node transform and then the import transform.
func TotalTransform(node gmath.Mat4, opts ImportOptions) gmath.Mat4 {
	return node.Mul(ImportTransform(opts))
}

// OddNegativeScale reports whether the product of the diagonal scale terms
// is negative, meaning the transform already mirrors the winding.
func OddNegativeScale(m gmath.Mat4) bool {
	return m.At(0, 0)*m.At(1, 1)*m.At(2, 2) < 0
}

// ReverseWinding swaps the first and third element of every triple.
func ReverseWinding[T any](s []T) {
	for i := 0; i+2 < len(s); i += 3 {
		s[i], s[i+2] = s[i+2], s[i]
	}
}

// fit pads s with zero values, or truncates it, to exactly n entries.
func fit[T any](s []T, n int) []T {
	if len(s) >= n {
		return s[:n]
	}
	return append(s, make([]T, n-len(s))...)
}
