package config

import "flag"

var (
	flagConfig            = flag.String("config", "", "Path to config file")
	flagDebug             = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile           = flag.String("log-file", "", "Write logs to this file as well")
	flagScale             = flag.Float64("scale", 0, "Uniform import scale")
	flagNoUpCorrection    = flag.Bool("no-up-correction", false, "Keep the source Y-up axis")
	flagImportMaterials   = flag.Bool("import-materials", false, "Resolve source materials through the config materials map")
	flagLightmapUVs       = flag.Bool("lightmap-uvs", false, "Generate lightmap UVs in the first free channel")
	flagRemoveDegenerates = flag.Bool("remove-degenerates", false, "Remove degenerate triangles and enable collision")
	flagSeparate          = flag.Bool("separate", false, "Build one mesh per source mesh")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagScale > 0 {
		cfg.Import.ImportUniformScale = float32(*flagScale)
	}
	if *flagNoUpCorrection {
		cfg.Import.CorrectUpDirection = false
	}
	if *flagImportMaterials {
		cfg.Import.ImportMaterials = true
	}
	if *flagLightmapUVs {
		cfg.Import.GenerateLightmapUVs = true
	}
	if *flagRemoveDegenerates {
		cfg.Import.RemoveDegenerates = true
	}
	if *flagSeparate {
		cfg.Import.CombineToSingle = false
	}
}
