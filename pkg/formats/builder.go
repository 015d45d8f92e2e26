package formats

import (
	"encoding/binary"
	"math"
)

// Builder assembles a Document in memory, packing every array into a
// single buffer.
type Builder struct {
	doc *Document
}

// NewBuilder returns a builder holding an empty document with one buffer.
func NewBuilder() *Builder {
	return &Builder{doc: &Document{Buffers: []Buffer{{}}}}
}

// AddView appends data to the buffer, aligned to four bytes, and returns the
// index of a new buffer view covering it.
func (b *Builder) AddView(data []byte, stride int) int {
	buf := &b.doc.Buffers[0]
	for len(buf.Data)%4 != 0 {
		buf.Data = append(buf.Data, 0)
	}
	offset := len(buf.Data)
	buf.Data = append(buf.Data, data...)
	b.doc.BufferViews = append(b.doc.BufferViews, BufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: len(data),
		ByteStride: stride,
	})
	return len(b.doc.BufferViews) - 1
}

// AddAccessor appends an accessor and returns its index.
func (b *Builder) AddAccessor(acc Accessor) int {
	b.doc.Accessors = append(b.doc.Accessors, acc)
	return len(b.doc.Accessors) - 1
}

// AddFloats stores tightly packed float32 elements of the given shape and
// returns the accessor index.
func (b *Builder) AddFloats(shape ElementShape, values ...float32) int {
	data := make([]byte, 0, len(values)*4)
	for _, v := range values {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
	}
	view := b.AddView(data, 0)
	return b.AddAccessor(Accessor{
		BufferView:    view,
		ComponentType: ComponentFloat32,
		Shape:         shape,
		Count:         len(values) / shape.Components(),
	})
}

// AddIndices stores a scalar index accessor, using 16-bit components when
// every index fits.
func (b *Builder) AddIndices(indices ...uint32) int {
	wide := false
	for _, i := range indices {
		if i > math.MaxUint16 {
			wide = true
			break
		}
	}

	var data []byte
	ct := ComponentUint16
	if wide {
		ct = ComponentUint32
		for _, i := range indices {
			data = binary.LittleEndian.AppendUint32(data, i)
		}
	} else {
		for _, i := range indices {
			data = binary.LittleEndian.AppendUint16(data, uint16(i))
		}
	}
	view := b.AddView(data, 0)
	return b.AddAccessor(Accessor{
		BufferView:    view,
		ComponentType: ct,
		Shape:         ShapeScalar,
		Count:         len(indices),
	})
}

// AddMaterial appends a material and returns its index.
func (b *Builder) AddMaterial(name string) int {
	b.doc.Materials = append(b.doc.Materials, Material{Name: name})
	return len(b.doc.Materials) - 1
}

// AddMesh appends a mesh.
func (b *Builder) AddMesh(name string, prims ...Primitive) {
	b.doc.Meshes = append(b.doc.Meshes, Mesh{Name: name, Primitives: prims})
}

// AddNode appends a node.
func (b *Builder) AddNode(n Node) {
	b.doc.Nodes = append(b.doc.Nodes, n)
}

// Document indexes and returns the built document.
func (b *Builder) Document() *Document {
	b.doc.Index()
	return b.doc
}
