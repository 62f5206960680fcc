package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-ogimage/internal/assets"
	"github.com/alnah/go-ogimage/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, configuration, and template loading.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	AssetLoader assets.AssetLoader
	Config      *config.Config // Loaded once per command
}

// DefaultEnv returns the production environment with embedded templates.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		AssetLoader: assets.NewEmbeddedLoader(),
		Config:      config.DefaultConfig(),
	}
}
