// gltfmesh is a CLI utility for importing glTF files as static meshes.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/gltfmesh/internal/config"
	"github.com/Faultbox/gltfmesh/internal/logger"
	"github.com/Faultbox/gltfmesh/pkg/formats"
	"github.com/Faultbox/gltfmesh/pkg/importer"
	"github.com/Faultbox/gltfmesh/pkg/mesh"
)

func main() {
	config.ParseFlags()
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(args)
	case "meshes", "ls":
		cmdMeshes(args)
	case "build":
		cmdBuild(args)
	case "init-config":
		cmdInitConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gltfmesh - glTF static mesh importer

Usage:
  gltfmesh [global options] <command> [options]

Commands:
  info <file.gltf>                          Show document information
  meshes <file.gltf> [-node N] [-recursive] List meshes of a node (default: root)
  build <file.gltf> [-report out.yaml]      Import and print the resulting sections
  init-config [path]                        Write the default configuration

Global options:
  -config path           Config file (default ./gltfmesh.yaml or user config dir)
  -debug                 Enable debug logging
  -log-file path         Also log to a rotating file
  -scale N               Uniform import scale
  -no-up-correction      Keep the source Y-up axis
  -import-materials      Resolve source materials by name
  -lightmap-uvs          Generate lightmap UVs
  -remove-degenerates    Remove degenerate triangles
  -separate              Build one mesh per source mesh

Examples:
  gltfmesh info chair.gltf
  gltfmesh meshes -recursive chair.glb
  gltfmesh -scale 100 build -report chair.yaml chair.gltf
  gltfmesh init-config ./gltfmesh.yaml`)
}

// setup loads the configuration and starts logging.
func setup() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return cfg
}

func loadDocument(path string) *formats.Document {
	doc, ok, msg := importer.LoadDocument(path)
	if !ok {
		logger.Error("failed to load document", zap.String("path", path), zap.String("error", msg))
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		os.Exit(1)
	}
	return doc
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gltfmesh info <file.gltf>")
		os.Exit(1)
	}
	setup()
	defer logger.Sync()

	doc := loadDocument(args[0])

	var bufferBytes int
	for _, b := range doc.Buffers {
		bufferBytes += len(b.Data)
	}

	root := importer.RootNodeName(doc)
	if root == "" {
		root = "(none)"
	}

	fmt.Printf("Document:  %s\n", args[0])
	fmt.Printf("Nodes:     %d\n", len(doc.Nodes))
	fmt.Printf("Meshes:    %d\n", len(doc.Meshes))
	fmt.Printf("Materials: %d\n", len(doc.Materials))
	fmt.Printf("Accessors: %d\n", len(doc.Accessors))
	fmt.Printf("Buffers:   %d (%.2f KB)\n", len(doc.Buffers), float64(bufferBytes)/1024)
	fmt.Printf("Root node: %s\n", root)
	fmt.Println()
	fmt.Println("Meshes:")

	for i := range doc.Meshes {
		m := &doc.Meshes[i]
		counts, err := formats.PrimitiveTriangleCounts(doc, m)
		if err != nil {
			fmt.Printf("  %-24s %d primitives (error: %v)\n", m.Name, len(m.Primitives), err)
			continue
		}
		triangles := 0
		for _, c := range counts {
			triangles += c
		}
		fmt.Printf("  %-24s %d primitives, %d triangles\n", m.Name, len(m.Primitives), triangles)
	}
}

func cmdMeshes(args []string) {
	fs := flag.NewFlagSet("meshes", flag.ExitOnError)
	node := fs.String("node", "", "Node to list (default: root node)")
	recursive := fs.Bool("recursive", false, "Include meshes of child nodes")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gltfmesh meshes <file.gltf> [-node name] [-recursive]")
		os.Exit(1)
	}
	setup()
	defer logger.Sync()

	doc := loadDocument(fs.Arg(0))

	name := *node
	if name == "" {
		name = importer.RootNodeName(doc)
		if name == "" {
			fmt.Fprintln(os.Stderr, "Could not find root node.")
			os.Exit(1)
		}
	}

	names := importer.MeshNames(doc, name, *recursive)
	for _, n := range names {
		fmt.Println(n)
	}
	fmt.Fprintf(os.Stderr, "\n(%d meshes under %s, %d owned directly)\n", len(names), name, importer.MeshCount(doc, name))

	if materials := mesh.MeshMaterialNames(doc, names); len(materials) > 0 {
		fmt.Fprintf(os.Stderr, "Materials: %v\n", materials)
	}
}

func cmdBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	reportPath := fs.String("report", "", "Write a YAML import report to this path")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gltfmesh build <file.gltf> [-report out.yaml]")
		os.Exit(1)
	}
	cfg := setup()
	defer logger.Sync()

	path := fs.Arg(0)
	im := importer.New(logger.Named("import"), cfg.MaterialLibrary())
	res, err := im.ImportFile(path, cfg.Import, nil)

	for _, m := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, m.String())
	}

	for _, sm := range res.Meshes {
		printMesh(sm)
	}

	if *reportPath != "" {
		if werr := writeReport(*reportPath, newReport(path, cfg.Import, res)); werr != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", werr)
			os.Exit(1)
		}
		fmt.Printf("Report: %s\n", *reportPath)
	}

	if err != nil {
		logger.Error("import failed", zap.String("path", path), zap.Error(err))
		os.Exit(1)
	}
}

func printMesh(sm *mesh.StaticMesh) {
	raw := &sm.LODs[0].RawMesh
	fmt.Printf("Mesh: %s\n", sm.Name)
	fmt.Printf("  Vertices:  %d\n", len(raw.VertexPositions))
	fmt.Printf("  Triangles: %d\n", raw.TriangleCount())
	fmt.Printf("  Bounds:    %v - %v\n", raw.Bounds.Min, raw.Bounds.Max)
	fmt.Printf("  Lightmap:  %d px, UV channel %d\n", sm.LightMapResolution, sm.LightMapCoordinateIndex)
	fmt.Println("  Sections:")
	for _, s := range sm.LODs[0].Sections {
		fmt.Printf("    %d %-24s %d triangles\n", s.MaterialIndex, sm.Materials[s.MaterialIndex].SourceName, s.TriangleCount)
	}
}

func cmdInitConfig(args []string) {
	cfg := config.Default()

	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", args[0])
		return
	}

	path, err := cfg.Save()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

// report is the YAML document written by build -report.
type report struct {
	File        string             `yaml:"file"`
	RootNode    string             `yaml:"root_node"`
	Options     mesh.ImportOptions `yaml:"options"`
	Meshes      []meshReport       `yaml:"meshes"`
	Diagnostics mesh.Diagnostics   `yaml:"diagnostics"`
	Failed      bool               `yaml:"failed"`
}

type meshReport struct {
	Name             string          `yaml:"name"`
	Vertices         int             `yaml:"vertices"`
	Triangles        int             `yaml:"triangles"`
	Bounds           mesh.Bounds     `yaml:"bounds"`
	LightMapChannel  int             `yaml:"lightmap_channel"`
	RecomputeNormals bool            `yaml:"recompute_normals"`
	Sections         []sectionReport `yaml:"sections"`
}

type sectionReport struct {
	Index     int    `yaml:"index"`
	Material  string `yaml:"material"`
	Engine    string `yaml:"engine_material"`
	Default   bool   `yaml:"default_material"`
	Triangles int    `yaml:"triangles"`
	Collision bool   `yaml:"collision"`
}

func newReport(path string, opts mesh.ImportOptions, res *importer.Result) report {
	r := report{
		File:        filepath.Base(path),
		RootNode:    res.RootNode,
		Options:     opts,
		Diagnostics: res.Diagnostics,
		Failed:      res.Diagnostics.HasErrors(),
	}
	for _, sm := range res.Meshes {
		lod := &sm.LODs[0]
		mr := meshReport{
			Name:             sm.Name,
			Vertices:         len(lod.RawMesh.VertexPositions),
			Triangles:        lod.RawMesh.TriangleCount(),
			Bounds:           lod.RawMesh.Bounds,
			LightMapChannel:  sm.LightMapCoordinateIndex,
			RecomputeNormals: lod.BuildSettings.RecomputeNormals,
		}
		for _, s := range lod.Sections {
			mat := sm.Materials[s.MaterialIndex]
			mr.Sections = append(mr.Sections, sectionReport{
				Index:     s.MaterialIndex,
				Material:  mat.SourceName,
				Engine:    mat.Handle.Name,
				Default:   mat.Handle.Default,
				Triangles: s.TriangleCount,
				Collision: s.EnableCollision,
			})
		}
		r.Meshes = append(r.Meshes, mr)
	}
	return r
}

func writeReport(path string, r report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
