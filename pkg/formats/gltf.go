package formats

import (
	"fmt"

	"github.com/qmuntal/gltf"
)

// Buffer is an immutable block of binary data owned by the document.
type Buffer struct {
	Data []byte
}

// BufferView is a byte range of a buffer.
type BufferView struct {
	Buffer     int // Index into Document.Buffers
	ByteOffset int // Offset of the view inside the buffer
	ByteLength int // Length of the view in bytes
	ByteStride int // Distance between elements, 0 means tightly packed
}

// Accessor describes how to read a typed array out of a buffer view.
type Accessor struct {
	BufferView    int // Index into Document.BufferViews, -1 if absent
	ByteOffset    int // Offset of the first element inside the view
	ByteStride    int // Explicit element stride, 0 defers to the view
	ComponentType ComponentType
	Shape         ElementShape
	Count         int  // Number of elements
	Normalized    bool // Integer components map onto [0,1] or [-1,1]
	Sparse        bool // Sparse substitution is present (not supported)
}

// Primitive is one drawable part of a mesh.
type Primitive struct {
	Attributes map[string]int // Attribute name -> accessor index
	Indices    int            // Index accessor, -1 for non-indexed geometry
	Material   int            // Index into Document.Materials, -1 if unset
	Mode       DrawMode
}

// Mesh is a named collection of primitives.
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// Node is an element of the scene hierarchy.
type Node struct {
	Name        string
	Children    []string  // Names of child nodes
	Meshes      []string  // Names of meshes owned by this node
	Matrix      []float64 // 16 column-major values, nil if absent
	Translation []float64 // 3 values, nil if absent
	Rotation    []float64 // Quaternion x, y, z, w, nil if absent
	Scale       []float64 // 3 values, nil if absent
}

// Material is a source material record.
type Material struct {
	Name string
}

// Document is a parsed glTF file. References between its tables are plain
// indexes; meshes and nodes are also reachable by their unique names.
type Document struct {
	Buffers     []Buffer
	BufferViews []BufferView
	Accessors   []Accessor
	Meshes      []Mesh
	Nodes       []Node
	Materials   []Material

	meshIndex map[string]int
	nodeIndex map[string]int
}

// Index rebuilds the name lookup tables. It must be called after Meshes or
// Nodes are modified by hand.
func (d *Document) Index() {
	d.meshIndex = make(map[string]int, len(d.Meshes))
	for i, m := range d.Meshes {
		if _, dup := d.meshIndex[m.Name]; !dup {
			d.meshIndex[m.Name] = i
		}
	}
	d.nodeIndex = make(map[string]int, len(d.Nodes))
	for i, n := range d.Nodes {
		if _, dup := d.nodeIndex[n.Name]; !dup {
			d.nodeIndex[n.Name] = i
		}
	}
}

// Mesh returns the mesh with the given name.
func (d *Document) Mesh(name string) (*Mesh, bool) {
	if d.meshIndex == nil {
		d.Index()
	}
	i, ok := d.meshIndex[name]
	if !ok {
		return nil, false
	}
	return &d.Meshes[i], true
}

// Node returns the node with the given name.
func (d *Document) Node(name string) (*Node, bool) {
	if d.nodeIndex == nil {
		d.Index()
	}
	i, ok := d.nodeIndex[name]
	if !ok {
		return nil, false
	}
	return &d.Nodes[i], true
}

// AccessorAt returns the accessor at index i.
func (d *Document) AccessorAt(i int) (*Accessor, error) {
	if i < 0 || i >= len(d.Accessors) {
		return nil, fmt.Errorf("%w: %d", ErrMissingAccessor, i)
	}
	return &d.Accessors[i], nil
}

// MaterialName returns the name of material i, or "" if i is unset.
func (d *Document) MaterialName(i int) string {
	if i < 0 || i >= len(d.Materials) {
		return ""
	}
	return d.Materials[i].Name
}

// LoadGLTF reads a .gltf or .glb file, including external and data-URI
// buffers.
func LoadGLTF(path string) (*Document, error) {
	src, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading glTF %s: %w", path, err)
	}
	return FromGLTF(src)
}

// FromGLTF converts a decoded glTF document into the index-based model.
func FromGLTF(src *gltf.Document) (*Document, error) {
	doc := &Document{
		Buffers:     make([]Buffer, len(src.Buffers)),
		BufferViews: make([]BufferView, len(src.BufferViews)),
		Accessors:   make([]Accessor, len(src.Accessors)),
		Meshes:      make([]Mesh, len(src.Meshes)),
		Nodes:       make([]Node, len(src.Nodes)),
		Materials:   make([]Material, len(src.Materials)),
	}

	for i, b := range src.Buffers {
		doc.Buffers[i] = Buffer{Data: b.Data}
	}

	for i, v := range src.BufferViews {
		doc.BufferViews[i] = BufferView{
			Buffer:     int(v.Buffer),
			ByteOffset: int(v.ByteOffset),
			ByteLength: int(v.ByteLength),
			ByteStride: int(v.ByteStride),
		}
	}

	for i, a := range src.Accessors {
		acc, err := convertAccessor(a)
		if err != nil {
			return nil, fmt.Errorf("accessor %d: %w", i, err)
		}
		doc.Accessors[i] = acc
	}

	for i, m := range src.Materials {
		doc.Materials[i] = Material{Name: m.Name}
	}

	meshNames := uniqueNames(len(src.Meshes), func(i int) string { return src.Meshes[i].Name }, "mesh_%d")
	for i, m := range src.Meshes {
		mesh := Mesh{Name: meshNames[i], Primitives: make([]Primitive, len(m.Primitives))}
		for j, p := range m.Primitives {
			prim, err := convertPrimitive(p)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, j, err)
			}
			mesh.Primitives[j] = prim
		}
		doc.Meshes[i] = mesh
	}

	nodeNames := uniqueNames(len(src.Nodes), func(i int) string { return src.Nodes[i].Name }, "node_%d")
	for i, n := range src.Nodes {
		node := Node{Name: nodeNames[i]}
		for _, c := range n.Children {
			if int(c) < 0 || int(c) >= len(nodeNames) {
				return nil, fmt.Errorf("node %q: %w: child %d", node.Name, ErrUnknownNode, c)
			}
			node.Children = append(node.Children, nodeNames[c])
		}
		if n.Mesh != nil {
			mi := int(*n.Mesh)
			if mi < 0 || mi >= len(meshNames) {
				return nil, fmt.Errorf("node %q: %w: %d", node.Name, ErrUnknownMesh, mi)
			}
			node.Meshes = []string{meshNames[mi]}
		}

		if n.Matrix != identityMatrix && n.Matrix != ([16]float64{}) {
			node.Matrix = append([]float64(nil), n.Matrix[:]...)
		} else {
			t := n.Translation
			r := n.RotationOrDefault()
			s := n.ScaleOrDefault()
			node.Translation = t[:]
			node.Rotation = r[:]
			node.Scale = s[:]
		}
		doc.Nodes[i] = node
	}

	doc.Index()
	return doc, nil
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func convertAccessor(a *gltf.Accessor) (Accessor, error) {
	acc := Accessor{
		BufferView: -1,
		ByteOffset: int(a.ByteOffset),
		Count:      int(a.Count),
		Normalized: a.Normalized,
		Sparse:     a.Sparse != nil,
	}
	if a.BufferView != nil {
		acc.BufferView = int(*a.BufferView)
	}

	switch a.ComponentType {
	case gltf.ComponentByte:
		acc.ComponentType = ComponentInt8
	case gltf.ComponentUbyte:
		acc.ComponentType = ComponentUint8
	case gltf.ComponentShort:
		acc.ComponentType = ComponentInt16
	case gltf.ComponentUshort:
		acc.ComponentType = ComponentUint16
	case gltf.ComponentUint:
		acc.ComponentType = ComponentUint32
	case gltf.ComponentFloat:
		acc.ComponentType = ComponentFloat32
	default:
		return acc, fmt.Errorf("%w: component type %v", ErrUnsupportedAccessorFormat, a.ComponentType)
	}

	switch a.Type {
	case gltf.AccessorScalar:
		acc.Shape = ShapeScalar
	case gltf.AccessorVec2:
		acc.Shape = ShapeVec2
	case gltf.AccessorVec3:
		acc.Shape = ShapeVec3
	case gltf.AccessorVec4:
		acc.Shape = ShapeVec4
	default:
		acc.Shape = ShapeMatrix
	}
	return acc, nil
}

func convertPrimitive(p *gltf.Primitive) (Primitive, error) {
	prim := Primitive{
		Attributes: make(map[string]int, len(p.Attributes)),
		Indices:    -1,
		Material:   -1,
	}
	for name, idx := range p.Attributes {
		prim.Attributes[name] = int(idx)
	}
	if p.Indices != nil {
		prim.Indices = int(*p.Indices)
	}
	if p.Material != nil {
		prim.Material = int(*p.Material)
	}

	switch p.Mode {
	case gltf.PrimitivePoints:
		prim.Mode = ModePoints
	case gltf.PrimitiveLines:
		prim.Mode = ModeLines
	case gltf.PrimitiveLineLoop:
		prim.Mode = ModeLineLoop
	case gltf.PrimitiveLineStrip:
		prim.Mode = ModeLineStrip
	case gltf.PrimitiveTriangles:
		prim.Mode = ModeTriangles
	case gltf.PrimitiveTriangleStrip:
		prim.Mode = ModeTriangleStrip
	case gltf.PrimitiveTriangleFan:
		prim.Mode = ModeTriangleFan
	default:
		return prim, fmt.Errorf("%w: %v", ErrUnsupportedPrimitiveMode, p.Mode)
	}
	return prim, nil
}

// uniqueNames keeps a document name when it is non-empty and not used by an
// earlier entry, and otherwise falls back to a positional name.
func uniqueNames(n int, name func(int) string, fallback string) []string {
	names := make([]string, n)
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		candidate := name(i)
		if candidate == "" || seen[candidate] {
			candidate = fmt.Sprintf(fallback, i)
		}
		for seen[candidate] {
			candidate += "_"
		}
		seen[candidate] = true
		names[i] = candidate
	}
	return names
}
