package mesh

import gmath "github.com/Faultbox/gltfmesh/pkg/math"

// ImportOptions is the configuration of one import call. It is passed by
// value and never modified by the importer.
type ImportOptions struct {
	ImportTranslation    gmath.Vec3    `yaml:"translation"`
	ImportRotation       gmath.Rotator `yaml:"rotation"`
	ImportUniformScale   float32       `yaml:"uniform_scale"`
	CorrectUpDirection   bool          `yaml:"correct_up_direction"`
	ImportMaterials      bool          `yaml:"import_materials"`
	ImportTextures       bool          `yaml:"import_textures"`
	RemoveDegenerates    bool          `yaml:"remove_degenerates"`
	BuildAdjacencyBuffer bool          `yaml:"build_adjacency_buffer"`
	GenerateLightmapUVs  bool          `yaml:"generate_lightmap_uvs"`
	CombineToSingle      bool          `yaml:"combine_to_single"`
	LODGroup             string        `yaml:"lod_group"`
}

// DefaultImportOptions returns the default import configuration.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		ImportUniformScale:   1,
		CorrectUpDirection:   true,
		BuildAdjacencyBuffer: true,
		CombineToSingle:      true,
	}
}
