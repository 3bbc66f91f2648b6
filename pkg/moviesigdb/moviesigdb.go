// Package moviesigdb provides a high-level API for extracting average colors
// from videos and saving them as movie barcodes.
package moviesigdb

import (
	"context"
	"fmt"
	"image"

	"github.com/user/moviesigdb/pkg/adapters/ggrenderer"
	"github.com/user/moviesigdb/pkg/adapters/logger"
	"github.com/user/moviesigdb/pkg/adapters/nullsink"
	"github.com/user/moviesigdb/pkg/adapters/osfilesystem"
	"github.com/user/moviesigdb/pkg/adapters/smartsource"
	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/pipeline"
	"github.com/user/moviesigdb/pkg/ports"
	"github.com/user/moviesigdb/pkg/stages/export"
	"github.com/user/moviesigdb/pkg/stages/reduce"
	"github.com/user/moviesigdb/pkg/stages/render"
	"github.com/user/moviesigdb/pkg/stages/sample"
	"github.com/user/moviesigdb/pkg/videosource"
)

// Config holds the adapters used by the convenience functions.
type Config struct {
	Backend    smartsource.Backend
	FFmpegPath string
	Logger     ports.Logger
	Progress   ports.ProgressFunc
}

// ConfigBuilder provides a fluent interface for building a Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder creates a builder with the auto backend and no logging.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: Config{
			Backend: smartsource.BackendAuto,
			Logger:  logger.NewNoop(),
		},
	}
}

// Build returns the constructed Config.
func (b *ConfigBuilder) Build() Config {
	return b.config
}

// WithBackend selects the decoding backend.
func (b *ConfigBuilder) WithBackend(backend smartsource.Backend) *ConfigBuilder {
	b.config.Backend = backend
	return b
}

// WithFFmpegPath sets a custom ffmpeg binary.
func (b *ConfigBuilder) WithFFmpegPath(path string) *ConfigBuilder {
	b.config.FFmpegPath = path
	return b
}

// WithLogger sets the logger.
func (b *ConfigBuilder) WithLogger(l ports.Logger) *ConfigBuilder {
	b.config.Logger = l
	return b
}

// WithProgress sets a sampling progress callback.
func (b *ConfigBuilder) WithProgress(progress ports.ProgressFunc) *ConfigBuilder {
	b.config.Progress = progress
	return b
}

func (c Config) logger() ports.Logger {
	if c.Logger == nil {
		return logger.NewNoop()
	}
	return c.Logger
}

// AverageColors samples the video at path at rate frames per second and
// returns one average color per decoded sample. Decoding problems after the
// first frame shorten the result instead of failing.
func AverageColors(ctx context.Context, path string, rate float64, config Config) ([]barcode.AverageColor, error) {
	log := config.logger()
	sink := nullsink.New()

	opener := smartsource.New(smartsource.Options{Backend: config.Backend, FFmpegPath: config.FFmpegPath})
	source := videosource.New(opener, osfilesystem.New(), log)

	handle, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	sampled, err := sample.New(sink, log).Execute(ctx, pipeline.SampleInput{
		Video:    handle,
		Rate:     rate,
		Progress: config.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}

	reduced, err := reduce.New(sink, log).Execute(ctx, pipeline.ReduceInput{Frames: sampled.Frames})
	if err != nil {
		return nil, fmt.Errorf("reduce: %w", err)
	}
	return reduced.Colors, nil
}

// Render draws one view of colors with default sizes where unset.
func Render(ctx context.Context, input pipeline.RenderInput) (image.Image, error) {
	result, err := render.New(ggrenderer.New(), nullsink.New(), logger.NewNoop()).Execute(ctx, input)
	if err != nil {
		return nil, err
	}
	return result.Image, nil
}

// SaveBarcode writes the plain barcode of input.Colors with embedded metadata
// and returns the final path, which carries the format extension.
func SaveBarcode(ctx context.Context, input pipeline.ExportInput) (string, error) {
	if input.OutputPath == "" {
		return "", fmt.Errorf("save barcode: empty output path")
	}
	stage := export.New(ggrenderer.New(), osfilesystem.New(), nullsink.New(), logger.NewNoop())
	result, err := stage.Execute(ctx, input)
	if err != nil {
		return "", err
	}
	return result.Path, nil
}

// ReadBarcodeMetadata reads the metadata embedded in a saved PNG or SVG barcode.
func ReadBarcodeMetadata(path string) (barcode.Metadata, error) {
	data, err := osfilesystem.New().ReadFile(path)
	if err != nil {
		return barcode.Metadata{}, err
	}
	return export.ReadMetadata(data)
}
