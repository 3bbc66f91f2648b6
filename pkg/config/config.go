// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"github.com/user/moviesigdb/pkg/adapters/smartsource"
	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/orchestrator"
	"github.com/user/moviesigdb/pkg/ports"
	"github.com/user/moviesigdb/pkg/stages/export"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for moviesigdb.
type Config struct {
	// Input/Output
	OutputPath string `yaml:"output"`
	Format     string `yaml:"format"`

	// Sampling
	Rate       float64 `yaml:"rate"`
	Backend    string  `yaml:"backend"`
	FFmpegPath string  `yaml:"ffmpeg_path"`

	// Barcode
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`

	// Embedded metadata
	Show    string `yaml:"show"`
	Season  string `yaml:"season"`
	Episode string `yaml:"episode"`

	// Extra views
	Views ViewsConfig `yaml:"views"`

	// Reporting
	SummaryPath string `yaml:"summary"`
	LogLevel    string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// ViewsConfig holds output paths of the extra views. Empty paths are skipped.
type ViewsConfig struct {
	Annotated string `yaml:"annotated"`
	Scatter   string `yaml:"scatter"`
	Polar     string `yaml:"polar"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Format: string(export.FormatPNG),

		Rate:    1.0,
		Backend: string(smartsource.BackendAuto),

		Width:  1500,
		Height: 300,

		Season:  "1",
		Episode: "1",

		LogLevel: "info",

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
// Keys missing from the file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside the pipeline.
func (c Config) Validate() error {
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %v", c.Rate)
	}
	if _, err := smartsource.ParseBackend(c.Backend); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Format); err != nil {
		return err
	}
	var level ports.LogLevel
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return err
	}
	return nil
}

// Level returns the configured log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}

// SourceOptions converts Config to video backend options.
// An unknown backend falls back to auto; Validate reports it.
func (c Config) SourceOptions() smartsource.Options {
	backend, err := smartsource.ParseBackend(c.Backend)
	if err != nil {
		backend = smartsource.BackendAuto
	}
	return smartsource.Options{
		Backend:    backend,
		FFmpegPath: c.FFmpegPath,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(videoPath string) orchestrator.Config {
	return orchestrator.Config{
		VideoPath: videoPath,
		Rate:      c.Rate,

		OutputPath: c.OutputPath,
		Format:     c.Format,
		Width:      c.Width,
		Height:     c.Height,

		ShowName: c.Show,
		Season:   barcode.ParseLabel(c.Season),
		Episode:  barcode.ParseLabel(c.Episode),

		AnnotatedPath: c.Views.Annotated,
		ScatterPath:   c.Views.Scatter,
		PolarPath:     c.Views.Polar,
		Title:         c.Title,
	}
}
