// Package formats provides the parsed glTF document model and the readers
// that turn its binary buffers into typed vertex and index arrays.
package formats

import (
	"errors"
	"fmt"
)

// Decoding and lookup errors.
var (
	ErrShapeMismatch             = errors.New("accessor element shape mismatch")
	ErrMissingBufferView         = errors.New("accessor references a missing buffer view")
	ErrMissingBuffer             = errors.New("buffer view references a missing buffer")
	ErrUnsupportedAccessorFormat = errors.New("unsupported accessor format")
	ErrAccessorOutOfRange        = errors.New("accessor reads past the end of its buffer")
	ErrMissingAccessor           = errors.New("missing accessor")
	ErrUnsupportedPrimitiveMode  = errors.New("unsupported primitive mode")
	ErrIndexOutOfRange           = errors.New("vertex index out of range")
	ErrUnknownMesh               = errors.New("unknown mesh")
	ErrUnknownNode               = errors.New("unknown node")
)

// ComponentType is the numeric type of a single accessor component.
type ComponentType uint8

const (
	ComponentInt8 ComponentType = iota
	ComponentUint8
	ComponentInt16
	ComponentUint16
	ComponentInt32
	ComponentUint32
	ComponentFloat32
	ComponentFloat64
)

// Size returns the component width in bytes, or 0 for an unknown type.
func (c ComponentType) Size() int {
	switch c {
	case ComponentInt8, ComponentUint8:
		return 1
	case ComponentInt16, ComponentUint16:
		return 2
	case ComponentInt32, ComponentUint32, ComponentFloat32:
		return 4
	case ComponentFloat64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether the component is stored as an IEEE-754 value.
func (c ComponentType) IsFloat() bool {
	return c == ComponentFloat32 || c == ComponentFloat64
}

// String returns a human-readable component type name.
func (c ComponentType) String() string {
	switch c {
	case ComponentInt8:
		return "int8"
	case ComponentUint8:
		return "uint8"
	case ComponentInt16:
		return "int16"
	case ComponentUint16:
		return "uint16"
	case ComponentInt32:
		return "int32"
	case ComponentUint32:
		return "uint32"
	case ComponentFloat32:
		return "float32"
	case ComponentFloat64:
		return "float64"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// ElementShape is the number and layout of components in one element.
type ElementShape uint8

const (
	ShapeScalar ElementShape = iota
	ShapeVec2
	ShapeVec3
	ShapeVec4
	ShapeMatrix // mat2, mat3 and mat4; not decodable
)

// Components returns the number of components per element, or 0 for shapes
// the decoder does not handle.
func (s ElementShape) Components() int {
	switch s {
	case ShapeScalar:
		return 1
	case ShapeVec2:
		return 2
	case ShapeVec3:
		return 3
	case ShapeVec4:
		return 4
	default:
		return 0
	}
}

// String returns the glTF type name of the shape.
func (s ElementShape) String() string {
	switch s {
	case ShapeScalar:
		return "SCALAR"
	case ShapeVec2:
		return "VEC2"
	case ShapeVec3:
		return "VEC3"
	case ShapeVec4:
		return "VEC4"
	case ShapeMatrix:
		return "MAT"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(s))
	}
}

// DrawMode is the topology of a primitive. Values follow glTF numbering.
type DrawMode uint8

const (
	ModePoints DrawMode = iota
	ModeLines
	ModeLineLoop
	ModeLineStrip
	ModeTriangles
	ModeTriangleStrip
	ModeTriangleFan
)

// String returns a human-readable draw mode name.
func (m DrawMode) String() string {
	switch m {
	case ModePoints:
		return "points"
	case ModeLines:
		return "lines"
	case ModeLineLoop:
		return "line-loop"
	case ModeLineStrip:
		return "line-strip"
	case ModeTriangles:
		return "triangles"
	case ModeTriangleStrip:
		return "triangle-strip"
	case ModeTriangleFan:
		return "triangle-fan"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(m))
	}
}
