package formats

import (
	"github.com/go-gl/mathgl/mgl32"

	gmath "github.com/Faultbox/gltfmesh/pkg/math"
)

// RootNode returns the name of the first node, in document order, that is
// not listed as a child of any node. It returns "" when every node is some
// node's child.
func (d *Document) RootNode() string {
	children := make(map[string]bool, len(d.Nodes))
	for i := range d.Nodes {
		for _, c := range d.Nodes[i].Children {
			children[c] = true
		}
	}
	for i := range d.Nodes {
		if !children[d.Nodes[i].Name] {
			return d.Nodes[i].Name
		}
	}
	return ""
}

// MeshOwner returns the first node, in document order, that owns the mesh.
func (d *Document) MeshOwner(mesh string) (*Node, bool) {
	for i := range d.Nodes {
		for _, m := range d.Nodes[i].Meshes {
			if m == mesh {
				return &d.Nodes[i], true
			}
		}
	}
	return nil, false
}

// MeshCount returns the number of meshes owned directly by the node, or 0
// for an unknown node.
func (d *Document) MeshCount(node string) int {
	n, ok := d.Node(node)
	if !ok {
		return 0
	}
	return len(n.Meshes)
}

// MeshNames lists the meshes owned by the node and, when includeChildren is
// set, by its descendants in depth-first order. Each mesh is listed once.
func (d *Document) MeshNames(node string, includeChildren bool) []string {
	var names []string
	seenMesh := make(map[string]bool)
	visited := make(map[string]bool)

	var walk func(name string)
	walk = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		n, ok := d.Node(name)
		if !ok {
			return
		}
		for _, m := range n.Meshes {
			if !seenMesh[m] {
				seenMesh[m] = true
				names = append(names, m)
			}
		}
		if !includeChildren {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(node)
	return names
}

// LocalTransform returns the node's own transform in the engine's row-vector
// convention. A node without a transform is identity. Parent transforms are
// not applied.
//
// A node that sets only some of translation, rotation and scale is composed
// with the glTF defaults for the missing parts rather than treated as
// identity.
func LocalTransform(n *Node) gmath.Mat4 {
	if n == nil {
		return gmath.Identity()
	}

	// glTF stores column-vector matrices column by column, which is the
	// row-vector matrix stored row by row. Importers that transpose on copy
	// put the translation in the w column instead of the last row.
	if len(n.Matrix) == 16 {
		var m gmath.Mat4
		for i := range m {
			m[i] = float32(n.Matrix[i])
		}
		return m
	}

	if n.Translation == nil && n.Rotation == nil && n.Scale == nil {
		return gmath.Identity()
	}

	t := mgl32.Ident4()
	if len(n.Translation) == 3 {
		t = mgl32.Translate3D(float32(n.Translation[0]), float32(n.Translation[1]), float32(n.Translation[2]))
	}
	r := mgl32.Ident4()
	if len(n.Rotation) == 4 {
		q := mgl32.Quat{
			W: float32(n.Rotation[3]),
			V: mgl32.Vec3{float32(n.Rotation[0]), float32(n.Rotation[1]), float32(n.Rotation[2])},
		}
		r = q.Mat4()
	}
	s := mgl32.Ident4()
	if len(n.Scale) == 3 {
		s = mgl32.Scale3D(float32(n.Scale[0]), float32(n.Scale[1]), float32(n.Scale[2]))
	}

	return gmath.Mat4(t.Mul4(r).Mul4(s))
}

// MeshTransform returns the local transform of the node that owns the mesh,
// or identity when no node references it.
func (d *Document) MeshTransform(mesh string) gmath.Mat4 {
	n, _ := d.MeshOwner(mesh)
	return LocalTransform(n)
}
