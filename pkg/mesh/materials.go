package mesh

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/Faultbox/gltfmesh/pkg/formats"
)

const (
	// maxEfficientMaterials is the unique material count above which a
	// performance warning is issued.
	maxEfficientMaterials = 8

	// unorderedSkin sorts materials without a numeric _SKIN suffix last.
	unorderedSkin = 0xffff

	skinMarker = "_skin"
)

// MaterialLibrary resolves source material names to engine materials.
type MaterialLibrary interface {
	Resolve(name string) (MaterialHandle, bool)
}

// MapLibrary is a MaterialLibrary backed by a map.
type MapLibrary map[string]MaterialHandle

// Resolve implements MaterialLibrary.
func (l MapLibrary) Resolve(name string) (MaterialHandle, bool) {
	h, ok := l[name]
	return h, ok
}

// CollectMaterials returns the material references of every primitive of the
// meshes, in first-seen order. A primitive without a material contributes -1.
func CollectMaterials(meshes []*formats.Mesh) []int {
	var refs []int
	seen := make(map[int]bool)
	for _, m := range meshes {
		for i := range m.Primitives {
			ref := m.Primitives[i].Material
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// SkinIndex parses the number after the last "_SKIN" (any case) in a
// material name. ok is false when the marker is absent or not followed by
// digits only.
func SkinIndex(name string) (skin int, ok bool) {
	folded := cases.Fold().String(name)
	off := strings.LastIndex(folded, skinMarker)
	if off < 0 {
		return unorderedSkin, false
	}
	suffix := folded[off+len(skinMarker):]
	if suffix == "" {
		return unorderedSkin, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return unorderedSkin, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n >= unorderedSkin {
		return unorderedSkin, false
	}
	return n, true
}

// MaterialResolution is the outcome of resolving the materials of a combined
// mesh.
type MaterialResolution struct {
	Materials                  []MaterialRecord // One per section, in section order
	MaterialIndexToImportIndex []int            // Section index -> sorted index before compaction
	NumMaterials               int
}

// MaterialResolver deduplicates, orders and compacts the materials of a
// combined mesh.
type MaterialResolver struct {
	Library         MaterialLibrary
	ImportMaterials bool
	Report          *Reporter
}

// Resolve remaps faces in place. faces holds, per triangle, an index into
// refs. On return every face holds its final section index.
func (r *MaterialResolver) Resolve(doc *formats.Document, refs []int, faces []int) MaterialResolution {
	// Dedup by reference identity, keeping the first occurrence.
	var unique []int
	dedup := make([]int, len(refs))
	firstSeen := make(map[int]int)
	for i, ref := range refs {
		if u, ok := firstSeen[ref]; ok {
			dedup[i] = u
			continue
		}
		firstSeen[ref] = len(unique)
		dedup[i] = len(unique)
		unique = append(unique, ref)
	}

	if len(unique) > maxEfficientMaterials && r.Report != nil {
		r.Report.Warn(
			fmt.Sprintf("StaticMesh has a large number(%d) of materials and may render inefficiently. Consider breaking up the mesh into multiple Static Mesh Assets.", len(unique)),
			nil, zap.Int("materials", len(unique)))
	}

	// Order by skin index; ties keep dedup order.
	order := make([]int, len(unique))
	skins := make([]int, len(unique))
	for i, ref := range unique {
		order[i] = i
		skins[i], _ = SkinIndex(doc.MaterialName(ref))
	}
	sort.SliceStable(order, func(a, b int) bool {
		return skins[order[a]] < skins[order[b]]
	})
	sortedPos := make([]int, len(unique))
	for pos, u := range order {
		sortedPos[u] = pos
	}

	for i, f := range faces {
		if f < 0 || f >= len(dedup) {
			faces[i] = -1
			continue
		}
		faces[i] = sortedPos[dedup[f]]
	}

	toImport := compactIndices(faces)

	sorted := make([]int, 0, len(order))
	for _, u := range order {
		sorted = append(sorted, unique[u])
	}
	if len(toImport) > 0 {
		compacted := make([]int, len(toImport))
		for i, imp := range toImport {
			compacted[i] = sorted[imp]
		}
		sorted = compacted
	}

	maxIndex := 0
	for _, f := range faces {
		maxIndex = max(maxIndex, f)
	}
	num := min(len(sorted), maxIndex+1)

	res := MaterialResolution{
		MaterialIndexToImportIndex: toImport,
		NumMaterials:               num,
		Materials:                  make([]MaterialRecord, num),
	}
	for i := 0; i < num; i++ {
		res.Materials[i] = r.record(doc, sorted[i])
	}
	return res
}

func (r *MaterialResolver) record(doc *formats.Document, ref int) MaterialRecord {
	rec := MaterialRecord{Source: ref, SourceName: doc.MaterialName(ref), Handle: DefaultMaterial}
	if ref < 0 || !r.ImportMaterials || r.Library == nil {
		return rec
	}
	if h, ok := r.Library.Resolve(rec.SourceName); ok {
		rec.Handle = h
	}
	return rec
}

// MeshMaterialNames lists the names of the materials used by the named
// meshes in first-seen order. Unknown meshes and unnamed materials are
// skipped.
func MeshMaterialNames(doc *formats.Document, names []string) []string {
	var meshes []*formats.Mesh
	for _, n := range names {
		if m, ok := doc.Mesh(n); ok {
			meshes = append(meshes, m)
		}
	}
	var out []string
	seen := make(map[string]bool)
	for _, ref := range CollectMaterials(meshes) {
		name := doc.MaterialName(ref)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
