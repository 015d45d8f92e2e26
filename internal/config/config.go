// Package config handles loading and saving of the gltfmesh configuration.
package config

import "github.com/Faultbox/gltfmesh/pkg/mesh"

// Config holds all tool settings.
type Config struct {
	Import    mesh.ImportOptions `yaml:"import"`
	Materials map[string]string  `yaml:"materials,omitempty"` // Source material name to engine material
	Logging   LoggingConfig      `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: mesh.DefaultImportOptions(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// MaterialLibrary returns the configured material remaps, or nil when none
// are set.
func (c *Config) MaterialLibrary() mesh.MaterialLibrary {
	if len(c.Materials) == 0 {
		return nil
	}
	lib := make(mesh.MapLibrary, len(c.Materials))
	for src, engine := range c.Materials {
		lib[src] = mesh.MaterialHandle{Name: engine}
	}
	return lib
}
