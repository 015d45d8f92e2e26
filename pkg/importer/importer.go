// Package importer is the entry point used by hosts to turn a glTF file into
// static meshes.
//
// The package-level functions expose the document queries a host needs to
// drive its own import UI. Importer.ImportFile runs the whole flow: load,
// root node discovery, mesh collection and assembly.
package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfmesh/pkg/formats"
	"github.com/Faultbox/gltfmesh/pkg/mesh"
)

// Document-level errors.
var (
	ErrLoadFailed      = errors.New("failed to load document")
	ErrInvalidRootNode = errors.New("could not find root node")
	ErrNoNodes         = errors.New("document has no nodes")
	ErrImportFailed    = errors.New("import failed")
)

// LoadDocument parses the file at path. On failure ok is false and msg holds
// the parser's message.
func LoadDocument(path string) (doc *formats.Document, ok bool, msg string) {
	doc, err := formats.LoadGLTF(path)
	if err != nil {
		return nil, false, err.Error()
	}
	return doc, true, ""
}

// RootNodeName returns the name of the first node that is nobody's child, or
// "" if there is none.
func RootNodeName(doc *formats.Document) string {
	return doc.RootNode()
}

// MeshCount returns the number of meshes referenced directly by the node.
func MeshCount(doc *formats.Document, node string) int {
	return doc.MeshCount(node)
}

// MeshNames returns the meshes of the node, and of its descendants when
// includeChildren is set.
func MeshNames(doc *formats.Document, node string, includeChildren bool) []string {
	return doc.MeshNames(node, includeChildren)
}

// Importer runs imports with a shared logger and material library.
type Importer struct {
	log       *zap.Logger
	materials mesh.MaterialLibrary
}

// New creates an importer. A nil logger discards log output and a nil
// library resolves every material to the default one.
func New(log *zap.Logger, materials mesh.MaterialLibrary) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{log: log, materials: materials}
}

// BuildCombinedMesh merges the named meshes into one static mesh. See
// mesh.Importer.BuildCombinedMesh.
func (im *Importer) BuildCombinedMesh(doc *formats.Document, names []string, opts mesh.ImportOptions, existing *mesh.StaticMesh) (*mesh.StaticMesh, mesh.Diagnostics) {
	b := &mesh.Importer{Log: im.log, Materials: im.materials}
	return b.BuildCombinedMesh(doc, names, opts, existing)
}

// Result is the outcome of ImportFile.
type Result struct {
	Document    *formats.Document
	RootNode    string
	MeshNames   []string
	Meshes      []*mesh.StaticMesh
	Diagnostics mesh.Diagnostics
}

// ImportFile imports every mesh under the root node of the file at path.
// The returned error combines every Error-severity diagnostic; the result is
// never nil.
func (im *Importer) ImportFile(path string, opts mesh.ImportOptions, existing *mesh.StaticMesh) (*Result, error) {
	doc, ok, msg := LoadDocument(path)
	if !ok {
		rep := mesh.NewReporter(im.log)
		rep.Error(msg, fmt.Errorf("%w: %s", ErrLoadFailed, path), zap.String("path", path))
		diags := rep.Messages()
		return &Result{Diagnostics: diags}, diags.Err()
	}
	return im.ImportDocument(doc, assetName(path), opts, existing)
}

// ImportDocument imports every mesh under the root node of a parsed
// document. name is given to the combined mesh when it has none.
//
// With CombineToSingle the meshes are merged into one static mesh, which
// reuses existing when it is non-nil. Otherwise each mesh is built on its
// own, named after the source mesh, and existing is ignored.
func (im *Importer) ImportDocument(doc *formats.Document, name string, opts mesh.ImportOptions, existing *mesh.StaticMesh) (*Result, error) {
	rep := mesh.NewReporter(im.log)
	res := &Result{Document: doc}
	finish := func() (*Result, error) {
		res.Diagnostics = rep.Messages()
		return res, res.Diagnostics.Err()
	}

	root := RootNodeName(doc)
	if root == "" {
		if len(doc.Nodes) == 0 {
			rep.Error("Could not find any node.", ErrNoNodes)
		} else {
			rep.Error("Could not find root node.", ErrInvalidRootNode)
		}
		return finish()
	}
	res.RootNode = root

	res.MeshNames = MeshNames(doc, root, true)
	for _, m := range res.MeshNames {
		rep.Info("Found mesh: "+m, zap.String("mesh", m))
	}

	if opts.CombineToSingle {
		sm, diags := im.BuildCombinedMesh(doc, res.MeshNames, opts, existing)
		rep.Extend(diags)
		if sm == nil {
			rep.Error("Import failed.", ErrImportFailed, zap.String("node", root))
			return finish()
		}
		if sm.Name == "" {
			sm.Name = name
		}
		res.Meshes = append(res.Meshes, sm)
		return finish()
	}

	if len(res.MeshNames) == 0 {
		rep.Error("Import failed.", fmt.Errorf("%w: %w", ErrImportFailed, mesh.ErrNoMeshes), zap.String("node", root))
	}
	for _, m := range res.MeshNames {
		sm, diags := im.BuildCombinedMesh(doc, []string{m}, opts, nil)
		rep.Extend(diags)
		if sm == nil {
			rep.Error("Import failed.", fmt.Errorf("%w: mesh %s", ErrImportFailed, m), zap.String("mesh", m))
			continue
		}
		sm.Name = m
		res.Meshes = append(res.Meshes, sm)
	}

	im.log.Debug("imported document",
		zap.String("root", root),
		zap.Int("meshes", len(res.Meshes)))
	return finish()
}

// assetName derives a mesh name from the file name.
func assetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
