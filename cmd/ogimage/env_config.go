package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-ogimage/internal/config"
)

// envPrefix starts every environment variable the CLI reads.
const envPrefix = "OGIMAGE_"

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // OGIMAGE_CONFIG: config file name or path
	Domain     string // OGIMAGE_DOMAIN: base URL for image URLs
	OutDir     string // OGIMAGE_OUT_DIR: image directory under the build output
	Template   string // OGIMAGE_TEMPLATE: template path or built-in name
	MaxTitle   int    // OGIMAGE_MAX_TITLE: characters per title line
	Renderer   string // OGIMAGE_RENDERER: canvas or chrome
	Workers    int    // OGIMAGE_WORKERS: parallel image jobs
	Timeout    string // OGIMAGE_TIMEOUT: chrome page timeout
}

// knownEnvVars lists valid OGIMAGE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"OGIMAGE_CONFIG":    true,
	"OGIMAGE_DOMAIN":    true,
	"OGIMAGE_OUT_DIR":   true,
	"OGIMAGE_TEMPLATE":  true,
	"OGIMAGE_MAX_TITLE": true,
	"OGIMAGE_RENDERER":  true,
	"OGIMAGE_WORKERS":   true,
	"OGIMAGE_TIMEOUT":   true,
	// Read by doctor only
	"OGIMAGE_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables.
// Numbers and durations that do not parse are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("OGIMAGE_CONFIG"),
		Domain:     os.Getenv("OGIMAGE_DOMAIN"),
		OutDir:     os.Getenv("OGIMAGE_OUT_DIR"),
		Template:   os.Getenv("OGIMAGE_TEMPLATE"),
		Renderer:   os.Getenv("OGIMAGE_RENDERER"),
	}

	if timeout := os.Getenv("OGIMAGE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = timeout
		}
	}

	if n := os.Getenv("OGIMAGE_MAX_TITLE"); n != "" {
		if v, err := strconv.Atoi(n); err == nil && v > 0 {
			cfg.MaxTitle = v
		}
	}

	if workers := os.Getenv("OGIMAGE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized OGIMAGE_* variable.
// Helps catch typos like OGIMAGE_DOMIAN.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeImageFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Domain != "" && cfg.Domain == "" {
		cfg.Domain = env.Domain
	}
	if env.OutDir != "" && cfg.OutDir == "" {
		cfg.OutDir = env.OutDir
	}
	if env.Template != "" && cfg.OGTemplate == "" {
		cfg.OGTemplate = env.Template
	}
	if env.MaxTitle > 0 && cfg.MaxTitleSizePerLine == 0 {
		cfg.MaxTitleSizePerLine = env.MaxTitle
	}
	if env.Renderer != "" && cfg.Renderer == "" {
		cfg.Renderer = env.Renderer
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
	if env.Timeout != "" && cfg.Timeout == "" {
		cfg.Timeout = env.Timeout
	}
}
