// Package orchestrator coordinates all pipeline stages.
package orchestrator

import (
	"context"
	"fmt"
	"image"

	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/pipeline"
	"github.com/user/moviesigdb/pkg/ports"
	"github.com/user/moviesigdb/pkg/stages/export"
	"github.com/user/moviesigdb/pkg/videosource"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	VideoPath string // Absolute path
	Rate      float64

	// Barcode output
	OutputPath string // Empty renders without saving
	Format     string
	Width      int
	Height     int

	// Embedded metadata
	ShowName string
	Season   barcode.Label
	Episode  barcode.Label

	// Extra views, saved as PNG when the path is set
	AnnotatedPath string
	ScatterPath   string
	PolarPath     string
	Title         string // Annotated barcode title

	// Interaction
	Display  bool
	Progress ports.ProgressFunc
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	defaults := pipeline.DefaultExportInput()
	return Config{
		Rate:    1.0,
		Format:  defaults.Format,
		Width:   defaults.Width,
		Height:  defaults.Height,
		Season:  barcode.Number(1),
		Episode: barcode.Number(1),
	}
}

// VideoSource opens videos for the sample stage.
type VideoSource interface {
	Open(path string) (*videosource.Handle, error)
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	source      VideoSource
	sampleStage pipeline.Stage[pipeline.SampleInput, pipeline.SampleResult]
	reduceStage pipeline.Stage[pipeline.ReduceInput, pipeline.ReduceResult]
	renderStage pipeline.Stage[pipeline.RenderInput, pipeline.RenderResult]
	exportStage pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
	renderer    ports.Renderer
	fs          ports.FileSystem
	display     ports.Display
	logger      ports.Logger
}

// New creates a new Orchestrator. display may be nil when no window is needed.
func New(
	source VideoSource,
	sampleStage pipeline.Stage[pipeline.SampleInput, pipeline.SampleResult],
	reduceStage pipeline.Stage[pipeline.ReduceInput, pipeline.ReduceResult],
	renderStage pipeline.Stage[pipeline.RenderInput, pipeline.RenderResult],
	exportStage pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult],
	renderer ports.Renderer,
	fs ports.FileSystem,
	display ports.Display,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:      source,
		sampleStage: sampleStage,
		reduceStage: reduceStage,
		renderStage: renderStage,
		exportStage: exportStage,
		renderer:    renderer,
		fs:          fs,
		display:     display,
		logger:      logger,
	}
}

// Run executes the complete pipeline for one video.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info("Starting pipeline")
	o.logger.Info("Analyzing %s at %.2f samples/sec...", config.VideoPath, config.Rate)

	// 1. Open video
	handle, err := o.source.Open(config.VideoPath)
	if err != nil {
		o.logger.Error("Failed to open video: %s", err)
		return RunResult{}, fmt.Errorf("open video: %w", err)
	}
	defer handle.Close()

	result := RunResult{
		Video: handle.Info(),
		Rate:  config.Rate,
	}

	// 2. Sample frames
	sampled, err := o.sampleStage.Execute(ctx, pipeline.SampleInput{
		Video:    handle,
		Rate:     config.Rate,
		Progress: config.Progress,
	})
	if err != nil {
		o.logger.Error("Failed to sample video: %s", err)
		return result, fmt.Errorf("sample stage: %w", err)
	}
	result.Interval = sampled.Interval
	result.Requested = sampled.Requested
	result.Sampled = len(sampled.Frames)
	result.Truncated = sampled.Truncated
	o.logger.Info("Sampled %d/%d frames", result.Sampled, result.Requested)

	// 3. Reduce to average colors
	o.logger.Info("Averaging %d frames", len(sampled.Frames))
	reduced, err := o.reduceStage.Execute(ctx, pipeline.ReduceInput{Frames: sampled.Frames})
	if err != nil {
		return result, fmt.Errorf("reduce stage: %w", err)
	}
	result.Colors = reduced.Colors

	// A zero-width barcode cannot be saved or shown
	if len(reduced.Colors) == 0 {
		o.logger.Warn("No frames could be sampled; skipping barcode, views and display")
		return result, nil
	}

	// 4. Barcode, saved with metadata when an output path is set
	exported, err := o.exportStage.Execute(ctx, o.buildExportInput(config, reduced.Colors))
	if err != nil {
		o.logger.Error("Failed to write output: %s", err)
		return result, fmt.Errorf("export stage: %w", err)
	}
	result.Barcode = exported.Image
	if exported.Path != "" {
		result.OutputPath = exported.Path
		result.OutputSize = exported.FileSize
		result.Title = exported.Metadata.Title()
		o.logger.Info("Output saved to %s", exported.Path)
	}

	// 5. Extra views
	shown := []shownImage{{title: o.windowTitle(result), img: exported.Image}}
	for _, v := range o.buildViewRequests(config) {
		out, err := o.renderView(ctx, v, config, reduced.Colors)
		if err != nil {
			o.logger.Error("Failed to render view: %s", err)
			return result, fmt.Errorf("render stage: %w", err)
		}
		result.Views = append(result.Views, out.output)
		shown = append(shown, shownImage{title: string(v.view), img: out.img})
		o.logger.Info("Output saved to %s", out.output.Path)
	}

	// 6. Display
	if config.Display && o.display != nil {
		for _, s := range shown {
			o.logger.Info("Opening display window: %s", s.title)
			if err := o.display.Show(ctx, s.title, s.img); err != nil {
				return result, fmt.Errorf("display: %w", err)
			}
		}
	}

	o.logger.Info("Pipeline completed successfully")
	return result, nil
}

func (o *Orchestrator) buildExportInput(config Config, colors []barcode.AverageColor) pipeline.ExportInput {
	return pipeline.ExportInput{
		Colors:     colors,
		ShowName:   config.ShowName,
		Season:     config.Season,
		Episode:    config.Episode,
		FPS:        config.Rate,
		Format:     config.Format,
		OutputPath: config.OutputPath,
		Width:      config.Width,
		Height:     config.Height,
	}
}

type viewRequest struct {
	view pipeline.View
	path string
}

func (o *Orchestrator) buildViewRequests(config Config) []viewRequest {
	var requests []viewRequest
	if config.AnnotatedPath != "" {
		requests = append(requests, viewRequest{pipeline.ViewAnnotated, config.AnnotatedPath})
	}
	if config.ScatterPath != "" {
		requests = append(requests, viewRequest{pipeline.ViewScatter, config.ScatterPath})
	}
	if config.PolarPath != "" {
		requests = append(requests, viewRequest{pipeline.ViewPolar, config.PolarPath})
	}
	return requests
}

type renderedView struct {
	img    image.Image
	output ViewOutput
}

func (o *Orchestrator) renderView(ctx context.Context, req viewRequest, config Config, colors []barcode.AverageColor) (renderedView, error) {
	input := pipeline.DefaultRenderInput(req.view)
	input.Colors = colors
	if req.view == pipeline.ViewAnnotated {
		input.Width = config.Width
		input.Height = config.Height
		input.Title = config.Title
		if config.Rate > 0 {
			input.SecondsPerSample = 1 / config.Rate
		}
	}

	rendered, err := o.renderStage.Execute(ctx, input)
	if err != nil {
		return renderedView{}, err
	}

	data, err := o.renderer.EncodeImage(rendered.Image, ports.FormatPNG, 0)
	if err != nil {
		return renderedView{}, fmt.Errorf("encode %s: %w", req.view, err)
	}
	path := export.WithExtension(req.path, export.FormatPNG)
	if err := o.fs.WriteFile(path, data); err != nil {
		return renderedView{}, fmt.Errorf("write %s: %w", req.view, err)
	}

	return renderedView{
		img: rendered.Image,
		output: ViewOutput{
			View:     req.view,
			Path:     path,
			FileSize: int64(len(data)),
		},
	}, nil
}

type shownImage struct {
	title string
	img   image.Image
}

func (o *Orchestrator) windowTitle(result RunResult) string {
	if result.Title != "" {
		return result.Title
	}
	return string(pipeline.ViewBarcode)
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	// Source video
	Video ports.VideoInfo

	// Sampling
	Rate      float64
	Interval  float64
	Requested int
	Sampled   int
	Truncated bool

	// Reduction
	Colors []barcode.AverageColor

	// Barcode
	Barcode    image.Image
	OutputPath string // Empty when nothing was saved
	OutputSize int64
	Title      string // Embedded metadata title

	// Extra views
	Views []ViewOutput
}

// ViewOutput describes one saved extra view.
type ViewOutput struct {
	View     pipeline.View
	Path     string
	FileSize int64
}
