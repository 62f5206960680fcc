package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-ogimage"
	"github.com/alnah/go-ogimage/internal/assets"
	"github.com/alnah/go-ogimage/internal/config"
	"github.com/alnah/go-ogimage/internal/fileutil"
	"github.com/alnah/go-ogimage/internal/hints"
)

// buildSetup holds what every image-producing command resolves before it runs:
// the merged config, a logger, the template to use and a rasterizer pool that
// outlives watch-mode rebuilds.
type buildSetup struct {
	cfg      *config.Config
	logger   *slog.Logger
	template string // Path, or empty for the host default
	pool     *ogimage.RasterizerPool
	cleanup  func()
}

// setupBuild loads and merges configuration (flags > env > config file > defaults),
// validates it, materializes a built-in template if one is named, and creates
// the rasterizer pool. defaultTemplate is used when no template is configured;
// empty defers to the host default. Call Close when done.
func setupBuild(common commonFlags, image *imageFlags, defaultTemplate string, env *Environment) (*buildSetup, error) {
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(common.config, loadEnvConfig())
	if err != nil {
		return nil, err
	}
	mergeImageFlags(image, cfg)
	if cfg.OGTemplate == "" {
		cfg.OGTemplate = defaultTemplate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	env.Config = cfg

	factory, err := rasterizerFactory(cfg)
	if err != nil {
		return nil, err
	}

	template, cleanup, err := resolveTemplate(cfg.OGTemplate, image.assetPath, env.AssetLoader)
	if err != nil {
		return nil, err
	}

	return &buildSetup{
		cfg:      cfg,
		logger:   newLogger(env.Stderr, common),
		template: template,
		pool:     ogimage.NewRasterizerPool(ogimage.ResolvePoolSize(cfg.Workers), factory),
		cleanup:  cleanup,
	}, nil
}

// Close shuts down the rasterizers and removes a materialized template.
func (b *buildSetup) Close() {
	if err := b.pool.Close(); err != nil {
		b.logger.Warn("closing rasterizers", slog.Any("error", err))
	}
	b.cleanup()
}

// options returns the plugin options for the merged config.
func (b *buildSetup) options() ogimage.Options {
	return ogimage.Options{
		Domain:              b.cfg.Domain,
		OutDir:              b.cfg.OutDir,
		OGTemplate:          b.template,
		MaxTitleSizePerLine: b.cfg.MaxTitleSizePerLine,
	}
}

// pluginOptions wires the shared logger and pool into a host's plugin.
func (b *buildSetup) pluginOptions() []ogimage.PluginOption {
	return []ogimage.PluginOption{
		ogimage.WithLogger(b.logger),
		ogimage.WithPool(b.pool),
	}
}

// loadConfig loads the config named by the flag, else by OGIMAGE_CONFIG, else
// the defaults, then fills empty fields from the environment.
func loadConfig(flagConfig string, envCfg *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// mergeImageFlags merges CLI flags into config. CLI values override config values.
func mergeImageFlags(f *imageFlags, cfg *config.Config) {
	if f.domain != "" {
		cfg.Domain = f.domain
	}
	if f.outDir != "" {
		cfg.OutDir = f.outDir
	}
	if f.template != "" {
		cfg.OGTemplate = f.template
	}
	if f.maxTitle != 0 {
		cfg.MaxTitleSizePerLine = f.maxTitle
	}
	if f.renderer != "" {
		cfg.Renderer = f.renderer
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
	if f.timeout != "" {
		cfg.Timeout = f.timeout
	}
}

// newLogger returns a text logger on w: Info by default, Debug with --verbose
// and Warn with --quiet.
func newLogger(w io.Writer, common commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case common.quiet:
		level = slog.LevelWarn
	case common.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// rasterizerFactory returns a factory for the configured renderer.
// The renderer name is checked once here so the pool never fails on it.
func rasterizerFactory(cfg *config.Config) (ogimage.RasterizerFactory, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	var opts []ogimage.ChromeOption
	if timeout > 0 {
		opts = append(opts, ogimage.WithChromeTimeout(timeout))
	}

	first, err := ogimage.NewRasterizer(cfg.Renderer, opts...)
	if err != nil {
		return nil, err
	}
	_ = first.Close()

	return func() (ogimage.Rasterizer, error) {
		return ogimage.NewRasterizer(cfg.Renderer, opts...)
	}, nil
}

// isTemplateName reports whether value names a template asset rather than a file.
// Names carry no path separator and no extension: "default", "light".
func isTemplateName(value string) bool {
	return value != "" && !fileutil.IsFilePath(value) && filepath.Ext(value) == ""
}

// resolveTemplate turns a configured template into a file path.
// Paths are returned unchanged; names are loaded from assetPath/templates or the
// embedded set and written to a temp file removed by the returned cleanup.
// URLs are rejected.
func resolveTemplate(value, assetPath string, loader assets.AssetLoader) (string, func(), error) {
	noop := func() {}

	switch {
	case value == "":
		return "", noop, nil
	case fileutil.IsURL(value):
		return "", noop, fmt.Errorf("%w: template must be a local file or built-in name, got URL %q", ogimage.ErrConfig, value)
	case !isTemplateName(value):
		return value, noop, nil
	}

	if assetPath != "" {
		resolver, err := assets.NewAssetResolver(assetPath)
		if err != nil {
			return "", noop, err
		}
		loader = resolver
	}

	content, err := loader.LoadTemplate(value)
	if err != nil {
		return "", noop, err
	}

	path, cleanup, err := fileutil.WriteTempFile(content, "svg")
	if err != nil {
		return "", noop, fmt.Errorf("%w: %v", ogimage.ErrIO, err)
	}
	return path, cleanup, nil
}

// describeError renders err with an actionable hint when one applies.
func describeError(err error) string {
	msg := err.Error()
	if strings.Contains(msg, "\n  hint: ") {
		return msg
	}

	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, ogimage.ErrBrowserConnect):
		return msg + hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return msg + hints.ForTimeout()
	case errors.Is(err, ogimage.ErrTemplateNotFound), errors.Is(err, assets.ErrTemplateNotFound):
		return msg + hints.ForTemplateNotFound(assets.TemplateNames())
	case errors.Is(err, ogimage.ErrConfig) && strings.Contains(msg, "domain"):
		return msg + hints.ForDomain()
	case errors.Is(err, os.ErrPermission):
		return msg + hints.ForOutputDirectory()
	}
	return msg
}
