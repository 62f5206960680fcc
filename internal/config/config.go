package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-ogimage/internal/fileutil"
	"github.com/alnah/go-ogimage/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength      = 2048 // Browser limit
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxDurationLength = 20   // "1m30s"
)

// MaxWorkers bounds the workers setting; it matches the rasterizer pool ceiling.
const MaxWorkers = 8

// Valid renderer names. Empty selects the library default.
var validRenderers = []string{"canvas", "chrome"}

// userConfigDirName is the directory under os.UserConfigDir searched for named configs.
const userConfigDirName = "go-ogimage"

// Config holds all configuration for image generation.
type Config struct {
	Domain              string     `yaml:"domain"`              // Base URL for image URLs
	OutDir              string     `yaml:"outDir"`              // Image directory under the build root
	OGTemplate          string     `yaml:"ogTemplate"`          // Template path or built-in name
	MaxTitleSizePerLine int        `yaml:"maxTitleSizePerLine"` // 0 = library default
	Renderer            string     `yaml:"renderer"`            // "canvas" or "chrome"
	Workers             int        `yaml:"workers"`             // 0 = auto
	Timeout             string     `yaml:"timeout"`             // Chrome page timeout, e.g. "30s"
	Site                SiteConfig `yaml:"site"`
}

// SiteConfig locates the site directories for the host adapters.
// Root, ContentDir and PublishDir are used by the Hugo host; SrcDir, OutDir and
// DestDir by the front matter host.
type SiteConfig struct {
	Root       string `yaml:"root"`
	ContentDir string `yaml:"contentDir"` // default: content
	PublishDir string `yaml:"publishDir"` // default: public
	SrcDir     string `yaml:"srcDir"`
	OutDir     string `yaml:"outDir"`
	DestDir    string `yaml:"destDir"` // empty = rewrite pages in place
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("domain", c.Domain, MaxURLLength); err != nil {
		return err
	}
	if c.Domain != "" && !fileutil.IsURL(c.Domain) {
		return fmt.Errorf("%w: domain: %q must start with http:// or https://", ErrInvalidValue, c.Domain)
	}

	paths := []struct {
		name  string
		value string
	}{
		{"outDir", c.OutDir},
		{"ogTemplate", c.OGTemplate},
		{"site.root", c.Site.Root},
		{"site.contentDir", c.Site.ContentDir},
		{"site.publishDir", c.Site.PublishDir},
		{"site.srcDir", c.Site.SrcDir},
		{"site.outDir", c.Site.OutDir},
		{"site.destDir", c.Site.DestDir},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.name, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	if c.MaxTitleSizePerLine < 0 {
		return fmt.Errorf("%w: maxTitleSizePerLine: must not be negative, got %d", ErrInvalidValue, c.MaxTitleSizePerLine)
	}

	if c.Renderer != "" && !isValidRenderer(c.Renderer) {
		return fmt.Errorf("%w: renderer: %q (must be %s)", ErrInvalidValue, c.Renderer, strings.Join(validRenderers, " or "))
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	if err := validateFieldLength("timeout", c.Timeout, MaxDurationLength); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// TimeoutDuration parses Timeout. An empty value yields 0 (use the default).
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout: must be positive, got %s", ErrInvalidValue, c.Timeout)
	}
	return d, nil
}

func isValidRenderer(name string) bool {
	name = strings.ToLower(name)
	for _, r := range validRenderers {
		if name == r {
			return true
		}
	}
	return false
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration that defers every choice to the library defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ContentDir: "content",
			PublishDir: "public",
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
// Site directories missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills site directories left empty with their DefaultConfig values.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Site.ContentDir == "" {
		c.Site.ContentDir = def.Site.ContentDir
	}
	if c.Site.PublishDir == "" {
		c.Site.PublishDir = def.Site.PublishDir
	}
}

// SearchPaths returns the locations LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, userConfigDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries the current directory first, then ~/.config/go-ogimage/.
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
