package mesh

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfmesh/pkg/formats"
	gmath "github.com/Faultbox/gltfmesh/pkg/math"
)

const (
	defaultLightMapResolution = 64
	defaultLightMapCoordinate = 1
)

// Importer builds static meshes from a parsed document.
type Importer struct {
	Log       *zap.Logger     // Receives every diagnostic; nil discards
	Materials MaterialLibrary // Resolves imported materials; nil uses the default
}

// BuildCombinedMesh merges the named meshes into LOD 0 of one static mesh.
//
// When existing is non-nil it is updated in place and returned on success;
// on failure it is left untouched and the result is nil. A hard geometry
// failure in any mesh aborts the whole build.
func (im *Importer) BuildCombinedMesh(doc *formats.Document, names []string, opts ImportOptions, existing *StaticMesh) (*StaticMesh, Diagnostics) {
	rep := NewReporter(im.Log)

	if len(names) == 0 {
		rep.Error("No meshes to import.", ErrNoMeshes)
		return nil, rep.Messages()
	}

	meshes := make([]*formats.Mesh, 0, len(names))
	for _, name := range names {
		m, ok := doc.Mesh(name)
		if !ok {
			rep.Error(fmt.Sprintf("Could not find mesh '%s'.", name), fmt.Errorf("%w: %s", formats.ErrUnknownMesh, name), zap.String("mesh", name))
			return nil, rep.Messages()
		}
		meshes = append(meshes, m)
	}

	refs := CollectMaterials(meshes)

	var raw RawMesh
	for _, m := range meshes {
		if err := im.appendMesh(rep, doc, m, refs, opts, &raw); err != nil {
			return nil, rep.Messages()
		}
	}

	resolver := &MaterialResolver{Library: im.Materials, ImportMaterials: opts.ImportMaterials, Report: rep}
	res := resolver.Resolve(doc, refs, raw.FaceMaterialIndices)

	lod := LOD{
		RawMesh: raw,
		BuildSettings: BuildSettings{
			RemoveDegenerates:    opts.RemoveDegenerates,
			BuildAdjacencyBuffer: opts.BuildAdjacencyBuffer,
			RecomputeNormals:     !raw.HasNormals,
			RecomputeTangents:    !raw.HasTangents || !raw.HasBitangents,
			UseMikkTSpace:        false,
		},
	}

	triangles := make([]int, res.NumMaterials)
	for _, f := range raw.FaceMaterialIndices {
		if f >= 0 && f < len(triangles) {
			triangles[f]++
		}
	}
	for i := 0; i < res.NumMaterials; i++ {
		lod.Sections = append(lod.Sections, Section{
			MaterialIndex:   i,
			TriangleCount:   triangles[i],
			EnableCollision: opts.RemoveDegenerates,
		})
	}

	sm := existing
	if sm == nil {
		sm = &StaticMesh{}
	}
	if len(sm.LODs) == 0 {
		sm.LODs = make([]LOD, 1)
	}
	sm.LODs[0] = lod
	sm.Materials = res.Materials
	sm.MaterialIndexToImportIndex = res.MaterialIndexToImportIndex
	sm.LightMapResolution = defaultLightMapResolution
	sm.LightMapCoordinateIndex = defaultLightMapCoordinate
	sm.LODGroup = opts.LODGroup
	if opts.GenerateLightmapUVs {
		open := firstOpenUVChannel(&raw)
		sm.LODs[0].BuildSettings.GenerateLightmapUVs = true
		sm.LODs[0].BuildSettings.DstLightmapIndex = open
		sm.LightMapCoordinateIndex = open
	}

	im.logger().Debug("built combined mesh",
		zap.Strings("meshes", names),
		zap.Int("vertices", len(raw.VertexPositions)),
		zap.Int("triangles", raw.TriangleCount()),
		zap.Int("sections", len(lod.Sections)))

	return sm, rep.Messages()
}

func (im *Importer) logger() *zap.Logger {
	if im.Log == nil {
		return zap.NewNop()
	}
	return im.Log
}

// firstOpenUVChannel returns the first channel no mesh supplied data for.
func firstOpenUVChannel(raw *RawMesh) int {
	for i, has := range raw.HasTexCoords {
		if !has {
			return i
		}
	}
	return defaultLightMapCoordinate
}

// appendMesh converts one mesh and appends it to raw. It returns a non-nil
// error after reporting a hard failure.
func (im *Importer) appendMesh(rep *Reporter, doc *formats.Document, m *formats.Mesh, refs []int, opts ImportOptions, raw *RawMesh) error {
	meshField := zap.String("mesh", m.Name)

	if len(m.Primitives) == 0 {
		err := fmt.Errorf("%w: %s", ErrNoGeometry, m.Name)
		rep.Error(fmt.Sprintf("There is no geometry information in mesh '%s'", m.Name), err, meshField)
		return err
	}

	total := TotalTransform(doc.MeshTransform(m.Name), opts)
	normalMatrix := total.Inverse().Transpose()
	odd := OddNegativeScale(total)

	positions, found, err := formats.CollectVertices(doc, m, formats.AttributePosition, formats.DecodeVec3)
	if !found || err != nil {
		cause := ErrMissingPositionData
		if err != nil {
			cause = fmt.Errorf("%w: %w", ErrMissingPositionData, err)
		}
		rep.Error("Could not obtain position data.", cause, meshField)
		return cause
	}
	for i := range positions {
		positions[i] = total.TransformPosition(positions[i])
	}

	wedges, err := formats.CollectWedgeIndices(doc, m)
	if err != nil {
		rep.Error(fmt.Sprintf("Could not read the triangles of mesh '%s'.", m.Name), err, meshField)
		return err
	}
	wedgeCount := len(wedges)
	triangleCount := wedgeCount / 3
	if triangleCount == 0 {
		err := fmt.Errorf("%w: %s", ErrNoTriangles, m.Name)
		rep.Error(fmt.Sprintf("No triangles were found on mesh '%s'", m.Name), err, meshField)
		return err
	}

	normals, hasNormals := collectOptional(rep, doc, m, formats.AttributeNormal, formats.DecodeVec3)
	if !hasNormals {
		rep.Warn("Could not obtain data for normals; they will be recalculated but the model will lack smoothing data.", nil, meshField)
	}
	for i := range normals {
		normals[i] = normalMatrix.TransformVector(normals[i])
	}
	tangents, hasTangents := collectOptional(rep, doc, m, formats.AttributeTangent, formats.DecodeDirection)
	bitangents, hasBitangents := collectOptional(rep, doc, m, formats.AttributeBinormal, formats.DecodeDirection)

	var uvs [MaxTexCoords][]gmath.Vec2
	var hasUV [MaxTexCoords]bool
	anyUV := false
	for i := range uvs {
		uvs[i], hasUV[i] = collectOptional(rep, doc, m, formats.TexCoordAttribute(i), formats.DecodeVec2)
		anyUV = anyUV || hasUV[i]
	}
	if !anyUV {
		rep.Warn("Could not obtain UV data.", nil, meshField)
	}

	var colors []formats.Color
	hasColors := false
	if name := formats.ColorAttribute(m); name != "" {
		colors, hasColors = collectOptional(rep, doc, m, name, formats.DecodeColors)
	}

	// Source and engine winding disagree unless the transform mirrors an
	// odd number of axes.
	if !odd {
		ReverseWinding(wedges)
		ReverseWinding(colors)
		ReverseWinding(normals)
		ReverseWinding(tangents)
		ReverseWinding(bitangents)
		for i := range uvs {
			ReverseWinding(uvs[i])
		}
	}

	faces, err := im.faceMaterials(rep, doc, m, refs)
	if err != nil {
		rep.Error(fmt.Sprintf("Could not read the triangles of mesh '%s'.", m.Name), err, meshField)
		return err
	}

	first := raw.WedgeCount() == 0
	base := uint32(len(raw.VertexPositions))
	raw.updateBounds(positions)
	raw.VertexPositions = append(raw.VertexPositions, positions...)
	for _, w := range wedges {
		raw.WedgeIndices = append(raw.WedgeIndices, base+w)
	}
	raw.WedgeNormals = append(raw.WedgeNormals, fit(normals, wedgeCount)...)
	raw.WedgeTangents = append(raw.WedgeTangents, fit(tangents, wedgeCount)...)
	raw.WedgeBitangents = append(raw.WedgeBitangents, fit(bitangents, wedgeCount)...)
	raw.WedgeColors = append(raw.WedgeColors, fit(colors, wedgeCount)...)
	for i := range uvs {
		raw.WedgeTexCoords[i] = append(raw.WedgeTexCoords[i], fit(uvs[i], wedgeCount)...)
		raw.HasTexCoords[i] = raw.HasTexCoords[i] || hasUV[i]
	}
	raw.FaceMaterialIndices = append(raw.FaceMaterialIndices, fit(faces, triangleCount)...)
	raw.FaceSmoothingMasks = append(raw.FaceSmoothingMasks, make([]uint32, triangleCount)...)

	if first {
		raw.HasNormals, raw.HasTangents, raw.HasBitangents = hasNormals, hasTangents, hasBitangents
	} else {
		raw.HasNormals = raw.HasNormals && hasNormals
		raw.HasTangents = raw.HasTangents && hasTangents
		raw.HasBitangents = raw.HasBitangents && hasBitangents
	}
	raw.HasColors = raw.HasColors || hasColors
	return nil
}

// faceMaterials returns, per triangle of the mesh, the index of its
// primitive's material in refs.
func (im *Importer) faceMaterials(rep *Reporter, doc *formats.Document, m *formats.Mesh, refs []int) ([]int, error) {
	counts, err := formats.PrimitiveTriangleCounts(doc, m)
	if err != nil {
		return nil, err
	}
	var faces []int
	for i, n := range counts {
		ref := m.Primitives[i].Material
		if ref < 0 {
			rep.Warn(fmt.Sprintf("Primitive %d of mesh '%s' has no material; the default material is used.", i, m.Name), nil,
				zap.String("mesh", m.Name), zap.Int("primitive", i))
		}
		idx := -1
		for j, r := range refs {
			if r == ref {
				idx = j
				break
			}
		}
		for t := 0; t < n; t++ {
			faces = append(faces, idx)
		}
	}
	return faces, nil
}

// collectOptional gathers a per-wedge attribute that may be missing. A
// decode failure is reported as a warning and treated as absence.
func collectOptional[T any](rep *Reporter, doc *formats.Document, m *formats.Mesh, name string, decode formats.Decoder[T]) ([]T, bool) {
	values, found, err := formats.CollectWedges(doc, m, name, decode)
	if err != nil {
		rep.Warn(fmt.Sprintf("Could not read attribute %s of mesh '%s'.", name, m.Name), err,
			zap.String("mesh", m.Name), zap.String("attribute", name))
		return nil, false
	}
	return values, found
}
