// Package config resolves portgen settings from the environment. Command-line
// flags take these values as their defaults, so flags always win.
package config

import (
	"os"
	"path/filepath"
)

// Config holds the generator configuration.
type Config struct {
	// Output
	OutDir       string // Root directory artifacts are written under
	Descriptor   string // Descriptor path relative to OutDir; empty means <plugin>.ttl
	MetadataPath string // Metadata header path relative to OutDir
	EnumPath     string // Port enum header path relative to OutDir; empty means src/<plugin>.gen

	// Input
	SchemaPath string // YAML port table; empty means the built-in table

	// Observability
	SentryDSN   string // Sentry DSN for error tracking
	Environment string
	DebugLog    string // Path of the debug log; empty disables it
}

// Load reads PORTGEN_* variables, falling back to the conventional layout.
func Load() *Config {
	return &Config{
		OutDir:       getEnv("PORTGEN_OUT_DIR", "."),
		Descriptor:   getEnv("PORTGEN_DESCRIPTOR", ""),
		MetadataPath: getEnv("PORTGEN_METADATA", filepath.Join("src", "gui", "config.gen")),
		EnumPath:     getEnv("PORTGEN_ENUM", ""),
		SchemaPath:   getEnv("PORTGEN_SCHEMA", ""),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
		Environment:  getEnv("PORTGEN_ENVIRONMENT", "development"),
		DebugLog:     getEnv("PORTGEN_DEBUG_LOG", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// Paths are the resolved destinations of the three generated artifacts.
type Paths struct {
	Descriptor string
	Metadata   string
	Enum       string
}

// ArtifactPaths resolves output paths for the named plugin. Absolute paths
// are used as is; relative ones are joined to outDir.
func ArtifactPaths(outDir, plugin, descriptor, metadata, enum string) Paths {
	if descriptor == "" {
		descriptor = plugin + ".ttl"
	}
	if enum == "" {
		enum = filepath.Join("src", plugin+".gen")
	}
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(outDir, p)
	}
	return Paths{
		Descriptor: resolve(descriptor),
		Metadata:   resolve(metadata),
		Enum:       resolve(enum),
	}
}

// Vars returns the kong interpolation variables for flag defaults.
func (c *Config) Vars() map[string]string {
	return map[string]string{
		"out_dir":    c.OutDir,
		"descriptor": c.Descriptor,
		"metadata":   c.MetadataPath,
		"enum":       c.EnumPath,
		"schema":     c.SchemaPath,
		"debug_log":  c.DebugLog,
	}
}
