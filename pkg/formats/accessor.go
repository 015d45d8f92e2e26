package formats

import (
	"fmt"
	"math"

	gmath "github.com/Faultbox/gltfmesh/pkg/math"
)

// Number is the set of destination types the decoder can produce.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~int | ~float32 | ~float64
}

// accessorRange describes where an accessor's elements live.
type accessorRange struct {
	data       []byte
	start      int // Byte offset of the first element
	stride     int // Bytes between elements
	size       int // Bytes per component
	components int // Components per element
}

// locate validates the accessor against the requested shape and resolves its
// buffer, view and stride.
func (d *Document) locate(acc *Accessor, shape ElementShape) (accessorRange, error) {
	var r accessorRange
	if acc.Shape != shape {
		return r, fmt.Errorf("%w: accessor is %s, want %s", ErrShapeMismatch, acc.Shape, shape)
	}
	r.components = shape.Components()
	r.size = acc.ComponentType.Size()
	if r.components == 0 || r.size == 0 || acc.Sparse {
		return r, fmt.Errorf("%w: %s %s", ErrUnsupportedAccessorFormat, acc.ComponentType, acc.Shape)
	}
	if acc.BufferView < 0 || acc.BufferView >= len(d.BufferViews) {
		return r, fmt.Errorf("%w: %d", ErrMissingBufferView, acc.BufferView)
	}
	view := &d.BufferViews[acc.BufferView]
	if view.Buffer < 0 || view.Buffer >= len(d.Buffers) {
		return r, fmt.Errorf("%w: %d", ErrMissingBuffer, view.Buffer)
	}
	r.data = d.Buffers[view.Buffer].Data

	r.stride = acc.ByteStride
	if r.stride == 0 {
		r.stride = view.ByteStride
	}
	if r.stride == 0 {
		r.stride = r.size * r.components
	}
	r.start = view.ByteOffset + acc.ByteOffset

	if acc.Count < 0 || acc.ByteOffset < 0 || view.ByteOffset < 0 || r.start < 0 || r.stride < 0 {
		return r, fmt.Errorf("%w: count %d, offset %d, stride %d", ErrAccessorOutOfRange, acc.Count, r.start, r.stride)
	}
	if acc.Count == 0 {
		return r, nil
	}

	elemSize := r.size * r.components
	if r.start > len(r.data)-elemSize {
		return r, fmt.Errorf("%w: first element at %d, buffer has %d", ErrAccessorOutOfRange, r.start, len(r.data))
	}
	// Bound the count before multiplying so the span cannot overflow.
	if r.stride > 0 && acc.Count-1 > (len(r.data)-r.start-elemSize)/r.stride {
		return r, fmt.Errorf("%w: %d elements of stride %d, buffer has %d bytes", ErrAccessorOutOfRange, acc.Count, r.stride, len(r.data))
	}
	span := (acc.Count-1)*r.stride + elemSize
	if view.ByteLength > 0 && acc.ByteOffset+span > view.ByteLength {
		return r, fmt.Errorf("%w: needs %d bytes, view has %d", ErrAccessorOutOfRange, acc.ByteOffset+span, view.ByteLength)
	}
	if r.start+span > len(r.data) {
		return r, fmt.Errorf("%w: needs %d bytes, buffer has %d", ErrAccessorOutOfRange, r.start+span, len(r.data))
	}
	return r, nil
}

// readComponent reads one little-endian component of the given width as an
// unsigned bit pattern.
func readComponent(b []byte) uint64 {
	var v uint64
	for i := range b {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

// componentValue reinterprets a raw bit pattern of the given component type
// and converts it to T. Float types are bit-cast, never converted from their
// integer value.
func componentValue[T Number](ct ComponentType, bits uint64) T {
	switch ct {
	case ComponentInt8:
		return T(int8(bits))
	case ComponentUint8:
		return T(uint8(bits))
	case ComponentInt16:
		return T(int16(bits))
	case ComponentUint16:
		return T(uint16(bits))
	case ComponentInt32:
		return T(int32(bits))
	case ComponentUint32:
		return T(uint32(bits))
	case ComponentFloat32:
		return T(math.Float32frombits(uint32(bits)))
	case ComponentFloat64:
		return T(math.Float64frombits(bits))
	}
	return 0
}

// Decode reads every element of acc as a flat sequence of components
// converted to T. The accessor must have the requested shape.
func Decode[T Number](doc *Document, acc *Accessor, shape ElementShape) ([]T, error) {
	r, err := doc.locate(acc, shape)
	if err != nil {
		return nil, err
	}

	out := make([]T, acc.Count*r.components)
	for e := 0; e < acc.Count; e++ {
		base := r.start + e*r.stride
		for c := 0; c < r.components; c++ {
			off := base + c*r.size
			out[e*r.components+c] = componentValue[T](acc.ComponentType, readComponent(r.data[off:off+r.size]))
		}
	}
	return out, nil
}

// normalizeScale returns the divisor that maps a normalized integer
// component onto [0,1] or [-1,1].
func normalizeScale(ct ComponentType) float32 {
	switch ct {
	case ComponentInt8:
		return math.MaxInt8
	case ComponentUint8:
		return math.MaxUint8
	case ComponentInt16:
		return math.MaxInt16
	case ComponentUint16:
		return math.MaxUint16
	case ComponentInt32:
		return math.MaxInt32
	case ComponentUint32:
		return math.MaxUint32
	}
	return 1
}

// DecodeFloat decodes acc as float32 components, applying glTF
// normalization when the accessor is marked normalized.
func DecodeFloat(doc *Document, acc *Accessor, shape ElementShape) ([]float32, error) {
	out, err := Decode[float32](doc, acc, shape)
	if err != nil {
		return nil, err
	}
	if acc.Normalized && !acc.ComponentType.IsFloat() {
		scale := normalizeScale(acc.ComponentType)
		for i, v := range out {
			v /= scale
			if v < -1 {
				v = -1
			}
			out[i] = v
		}
	}
	return out, nil
}

// DecodeIndices decodes a scalar accessor into vertex indices.
func DecodeIndices(doc *Document, acc *Accessor) ([]uint32, error) {
	return Decode[uint32](doc, acc, ShapeScalar)
}

// DecodeVec2 decodes a VEC2 accessor.
func DecodeVec2(doc *Document, acc *Accessor) ([]gmath.Vec2, error) {
	flat, err := DecodeFloat(doc, acc, ShapeVec2)
	if err != nil {
		return nil, err
	}
	out := make([]gmath.Vec2, acc.Count)
	for i := range out {
		out[i] = gmath.Vec2{X: flat[i*2], Y: flat[i*2+1]}
	}
	return out, nil
}

// DecodeVec3 decodes a VEC3 accessor.
func DecodeVec3(doc *Document, acc *Accessor) ([]gmath.Vec3, error) {
	flat, err := DecodeFloat(doc, acc, ShapeVec3)
	if err != nil {
		return nil, err
	}
	out := make([]gmath.Vec3, acc.Count)
	for i := range out {
		out[i] = gmath.Vec3{X: flat[i*3], Y: flat[i*3+1], Z: flat[i*3+2]}
	}
	return out, nil
}

// DecodeVec4 decodes a VEC4 accessor.
func DecodeVec4(doc *Document, acc *Accessor) ([]gmath.Vec4, error) {
	flat, err := DecodeFloat(doc, acc, ShapeVec4)
	if err != nil {
		return nil, err
	}
	out := make([]gmath.Vec4, acc.Count)
	for i := range out {
		out[i] = gmath.Vec4{X: flat[i*4], Y: flat[i*4+1], Z: flat[i*4+2], W: flat[i*4+3]}
	}
	return out, nil
}
