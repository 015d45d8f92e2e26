package formats

import (
	"fmt"

	"github.com/chewxy/math32"

	gmath "github.com/Faultbox/gltfmesh/pkg/math"
)

// Standard attribute names.
const (
	AttributePosition  = "POSITION"
	AttributeNormal    = "NORMAL"
	AttributeTangent   = "TANGENT"
	AttributeBinormal  = "BINORMAL"
	AttributeColor     = "COLOR_0"
	AttributeColorBare = "COLOR"

	// WedgeIndicesAttribute names the synthetic attribute backed by each
	// primitive's index accessor. It is read with CollectWedgeIndices.
	WedgeIndicesAttribute = "__WedgeIndices"
)

// TexCoordAttribute returns the attribute name of UV channel n.
func TexCoordAttribute(n int) string {
	return fmt.Sprintf("TEXCOORD_%d", n)
}

// Color is an 8-bit RGBA vertex color.
type Color struct {
	R, G, B, A uint8
}

// Decoder reads one accessor into a typed array.
type Decoder[T any] func(doc *Document, acc *Accessor) ([]T, error)

// HasAttribute reports whether every primitive of mesh carries the
// attribute. A mesh without primitives has no attributes.
func HasAttribute(mesh *Mesh, name string) bool {
	if len(mesh.Primitives) == 0 {
		return false
	}
	for i := range mesh.Primitives {
		if _, ok := mesh.Primitives[i].Attributes[name]; !ok {
			return false
		}
	}
	return true
}

// CollectVertices decodes the attribute of every primitive and concatenates
// the per-vertex arrays in primitive order. found is false when any
// primitive lacks the attribute.
func CollectVertices[T any](doc *Document, mesh *Mesh, name string, decode Decoder[T]) (values []T, found bool, err error) {
	if !HasAttribute(mesh, name) {
		return nil, false, nil
	}
	for i := range mesh.Primitives {
		acc, err := doc.AccessorAt(mesh.Primitives[i].Attributes[name])
		if err != nil {
			return nil, true, fmt.Errorf("primitive %d %s: %w", i, name, err)
		}
		v, err := decode(doc, acc)
		if err != nil {
			return nil, true, fmt.Errorf("primitive %d %s: %w", i, name, err)
		}
		values = append(values, v...)
	}
	return values, true, nil
}

// CollectWedges decodes the attribute of every primitive and gathers one
// value per expanded wedge index, concatenated in primitive order.
func CollectWedges[T any](doc *Document, mesh *Mesh, name string, decode Decoder[T]) (values []T, found bool, err error) {
	if !HasAttribute(mesh, name) {
		return nil, false, nil
	}
	for i := range mesh.Primitives {
		prim := &mesh.Primitives[i]
		acc, err := doc.AccessorAt(prim.Attributes[name])
		if err != nil {
			return nil, true, fmt.Errorf("primitive %d %s: %w", i, name, err)
		}
		perVertex, err := decode(doc, acc)
		if err != nil {
			return nil, true, fmt.Errorf("primitive %d %s: %w", i, name, err)
		}
		wedges, err := doc.expandPrimitive(prim, len(perVertex))
		if err != nil {
			return nil, true, fmt.Errorf("primitive %d: %w", i, err)
		}
		for _, idx := range wedges {
			if int(idx) >= len(perVertex) {
				return nil, true, fmt.Errorf("primitive %d %s: %w: %d >= %d", i, name, ErrIndexOutOfRange, idx, len(perVertex))
			}
			values = append(values, perVertex[idx])
		}
	}
	return values, true, nil
}

// CollectWedgeIndices returns the expanded triangle corners of every
// primitive. Each primitive's indices are offset by the number of positions
// in the preceding primitives so that they address the concatenated
// per-vertex arrays.
func CollectWedgeIndices(doc *Document, mesh *Mesh) ([]uint32, error) {
	var out []uint32
	base := 0
	for i := range mesh.Primitives {
		prim := &mesh.Primitives[i]
		vertexCount, err := doc.primitiveVertexCount(prim)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		wedges, err := doc.expandPrimitive(prim, vertexCount)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		for _, idx := range wedges {
			if int(idx) >= vertexCount {
				return nil, fmt.Errorf("primitive %d: %w: %d >= %d", i, ErrIndexOutOfRange, idx, vertexCount)
			}
			out = append(out, uint32(base)+idx)
		}
		base += vertexCount
	}
	return out, nil
}

// PrimitiveTriangleCounts returns how many triangles each primitive
// contributes after expansion.
func PrimitiveTriangleCounts(doc *Document, mesh *Mesh) ([]int, error) {
	counts := make([]int, len(mesh.Primitives))
	for i := range mesh.Primitives {
		prim := &mesh.Primitives[i]
		vertexCount, err := doc.primitiveVertexCount(prim)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		wedges, err := doc.expandPrimitive(prim, vertexCount)
		if err != nil {
			return nil, fmt.Errorf("primitive %d: %w", i, err)
		}
		counts[i] = len(wedges) / 3
	}
	return counts, nil
}

// primitiveVertexCount is the element count of the primitive's POSITION
// accessor, or 0 if it has none. The count is checked against the buffer.
func (d *Document) primitiveVertexCount(prim *Primitive) (int, error) {
	idx, ok := prim.Attributes[AttributePosition]
	if !ok {
		return 0, nil
	}
	acc, err := d.AccessorAt(idx)
	if err != nil {
		return 0, nil
	}
	if _, err := d.locate(acc, acc.Shape); err != nil {
		return 0, fmt.Errorf("positions: %w", err)
	}
	return acc.Count, nil
}

// expandPrimitive decodes the primitive's index accessor, or generates
// sequential indices for non-indexed geometry, and expands it into wedges.
func (d *Document) expandPrimitive(prim *Primitive, vertexCount int) ([]uint32, error) {
	var indices []uint32
	if prim.Indices < 0 {
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	} else {
		acc, err := d.AccessorAt(prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices, err = DecodeIndices(d, acc)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	}
	return Expand(prim.Mode, indices)
}

// DecodeDirection decodes a VEC3 accessor, or the xyz part of a VEC4
// accessor such as a tangent with its handedness sign.
func DecodeDirection(doc *Document, acc *Accessor) ([]gmath.Vec3, error) {
	if acc.Shape != ShapeVec4 {
		return DecodeVec3(doc, acc)
	}
	v4, err := DecodeVec4(doc, acc)
	if err != nil {
		return nil, err
	}
	out := make([]gmath.Vec3, len(v4))
	for i, v := range v4 {
		out[i] = v.XYZ()
	}
	return out, nil
}

// DecodeColors decodes a VEC3 or VEC4 color accessor into 8-bit RGBA.
// VEC3 colors are opaque.
func DecodeColors(doc *Document, acc *Accessor) ([]Color, error) {
	shape := ShapeVec4
	if acc.Shape == ShapeVec3 {
		shape = ShapeVec3
	}
	n := shape.Components()

	var channel func(i int) uint8
	switch acc.ComponentType {
	case ComponentUint8:
		raw, err := Decode[uint8](doc, acc, shape)
		if err != nil {
			return nil, err
		}
		channel = func(i int) uint8 { return raw[i] }
	case ComponentUint16:
		raw, err := Decode[uint16](doc, acc, shape)
		if err != nil {
			return nil, err
		}
		channel = func(i int) uint8 { return uint8(raw[i] >> 8) }
	default:
		raw, err := DecodeFloat(doc, acc, shape)
		if err != nil {
			return nil, err
		}
		channel = func(i int) uint8 { return unitToByte(raw[i]) }
	}

	out := make([]Color, acc.Count)
	for i := range out {
		c := Color{R: channel(i * n), G: channel(i*n + 1), B: channel(i*n + 2), A: 255}
		if n == 4 {
			c.A = channel(i*n + 3)
		}
		out[i] = c
	}
	return out, nil
}

func unitToByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math32.Floor(v*255 + 0.5))
}

// ColorAttribute returns the name under which the mesh stores vertex colors,
// preferring COLOR_0 over the legacy COLOR, or "" if neither is present on
// every primitive.
func ColorAttribute(mesh *Mesh) string {
	for _, name := range []string{AttributeColor, AttributeColorBare} {
		if HasAttribute(mesh, name) {
			return name
		}
	}
	return ""
}
