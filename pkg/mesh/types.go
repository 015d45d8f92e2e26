// Package mesh assembles glTF meshes into a single engine-ready raw mesh
// with material sections.
package mesh

import (
	"fmt"

	"github.com/Faultbox/gltfmesh/pkg/formats"
	gmath "github.com/Faultbox/gltfmesh/pkg/math"
)

// MaxTexCoords is the number of UV channels a raw mesh carries.
const MaxTexCoords = 8

// RawMesh is the flat build input of a static mesh LOD. Per-wedge arrays
// always hold exactly WedgeCount entries; per-face arrays hold one entry per
// triangle.
type RawMesh struct {
	VertexPositions     []gmath.Vec3
	WedgeIndices        []uint32
	WedgeNormals        []gmath.Vec3
	WedgeTangents       []gmath.Vec3
	WedgeBitangents     []gmath.Vec3
	WedgeTexCoords      [MaxTexCoords][]gmath.Vec2
	WedgeColors         []formats.Color
	FaceMaterialIndices []int
	FaceSmoothingMasks  []uint32 // Kept for the build step, always zero

	// Source flags. Normals, tangents and bitangents are set only when every
	// appended mesh provided them; a UV channel is set when any mesh did.
	HasNormals    bool
	HasTangents   bool
	HasBitangents bool
	HasTexCoords  [MaxTexCoords]bool
	HasColors     bool

	Bounds Bounds
}

// Bounds holds the axis-aligned bounding box of the vertex positions.
type Bounds struct {
	Min gmath.Vec3 `yaml:"min"`
	Max gmath.Vec3 `yaml:"max"`
}

// WedgeCount returns the number of triangle corners.
func (r *RawMesh) WedgeCount() int {
	return len(r.WedgeIndices)
}

// TriangleCount returns the number of triangles.
func (r *RawMesh) TriangleCount() int {
	return len(r.WedgeIndices) / 3
}

// Validate checks that the parallel arrays agree in length and that every
// wedge references an existing vertex.
func (r *RawMesh) Validate() error {
	wedges := r.WedgeCount()
	if wedges%3 != 0 {
		return fmt.Errorf("wedge count %d is not a multiple of 3", wedges)
	}
	check := func(name string, n, want int) error {
		if n != want {
			return fmt.Errorf("%s has %d entries, want %d", name, n, want)
		}
		return nil
	}
	if err := check("normals", len(r.WedgeNormals), wedges); err != nil {
		return err
	}
	if err := check("tangents", len(r.WedgeTangents), wedges); err != nil {
		return err
	}
	if err := check("bitangents", len(r.WedgeBitangents), wedges); err != nil {
		return err
	}
	if err := check("colors", len(r.WedgeColors), wedges); err != nil {
		return err
	}
	for i := range r.WedgeTexCoords {
		if err := check(fmt.Sprintf("uv channel %d", i), len(r.WedgeTexCoords[i]), wedges); err != nil {
			return err
		}
	}
	if err := check("face materials", len(r.FaceMaterialIndices), wedges/3); err != nil {
		return err
	}
	if err := check("smoothing masks", len(r.FaceSmoothingMasks), wedges/3); err != nil {
		return err
	}
	for i, idx := range r.WedgeIndices {
		if int(idx) >= len(r.VertexPositions) {
			return fmt.Errorf("wedge %d references vertex %d of %d", i, idx, len(r.VertexPositions))
		}
	}
	return nil
}

// CompactMaterialIndices renumbers face material indices densely, dropping
// indices that own no triangles. It returns, for each new index, the index
// it had before compaction.
func (r *RawMesh) CompactMaterialIndices() []int {
	return compactIndices(r.FaceMaterialIndices)
}

func compactIndices(faces []int) []int {
	var counts []int
	for _, idx := range faces {
		if idx < 0 {
			continue
		}
		for idx >= len(counts) {
			counts = append(counts, 0)
		}
		counts[idx]++
	}

	var toImport []int
	fromImport := make([]int, len(counts))
	for i, c := range counts {
		fromImport[i] = -1
		if c > 0 {
			fromImport[i] = len(toImport)
			toImport = append(toImport, i)
		}
	}
	for i, idx := range faces {
		if idx >= 0 {
			faces[i] = fromImport[idx]
		}
	}
	return toImport
}

func (r *RawMesh) updateBounds(positions []gmath.Vec3) {
	for i, p := range positions {
		if i == 0 && len(r.VertexPositions) == 0 {
			r.Bounds = Bounds{Min: p, Max: p}
			continue
		}
		r.Bounds.Min = gmath.Vec3{X: min(r.Bounds.Min.X, p.X), Y: min(r.Bounds.Min.Y, p.Y), Z: min(r.Bounds.Min.Z, p.Z)}
		r.Bounds.Max = gmath.Vec3{X: max(r.Bounds.Max.X, p.X), Y: max(r.Bounds.Max.Y, p.Y), Z: max(r.Bounds.Max.Z, p.Z)}
	}
}

// MaterialHandle identifies an engine-side material.
type MaterialHandle struct {
	Name    string `yaml:"name"`
	Default bool   `yaml:"default"`
}

// DefaultMaterial is the engine's fallback surface material.
var DefaultMaterial = MaterialHandle{Name: "DefaultMaterial", Default: true}

// MaterialRecord pairs a source material with its resolved engine material.
type MaterialRecord struct {
	Source     int            `yaml:"source"` // Index into the document's materials, -1 if none
	SourceName string         `yaml:"source_name"`
	Handle     MaterialHandle `yaml:"handle"`
}

// Section is a contiguous material range of a LOD.
type Section struct {
	MaterialIndex   int  `yaml:"material_index"`
	TriangleCount   int  `yaml:"triangles"`
	EnableCollision bool `yaml:"enable_collision"`
}

// BuildSettings tells the engine's mesh build how to treat the raw mesh.
type BuildSettings struct {
	RemoveDegenerates    bool `yaml:"remove_degenerates"`
	BuildAdjacencyBuffer bool `yaml:"build_adjacency_buffer"`
	RecomputeNormals     bool `yaml:"recompute_normals"`
	RecomputeTangents    bool `yaml:"recompute_tangents"`
	UseMikkTSpace        bool `yaml:"use_mikktspace"`
	GenerateLightmapUVs  bool `yaml:"generate_lightmap_uvs"`
	DstLightmapIndex     int  `yaml:"dst_lightmap_index"`
}

// LOD is one level of detail of a static mesh.
type LOD struct {
	RawMesh       RawMesh
	BuildSettings BuildSettings
	Sections      []Section
}

// StaticMesh is the mesh handle shared with the host. The importer fills
// LOD 0 and the material list; everything else belongs to the host.
type StaticMesh struct {
	Name                       string
	LODs                       []LOD
	Materials                  []MaterialRecord
	MaterialIndexToImportIndex []int
	LightMapResolution         int
	LightMapCoordinateIndex    int
	LODGroup                   string
}
