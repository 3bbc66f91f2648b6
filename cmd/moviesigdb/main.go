// Package main provides the CLI entry point for moviesigdb.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/moviesigdb/pkg/adapters/chromedisplay"
	"github.com/user/moviesigdb/pkg/adapters/filesink"
	"github.com/user/moviesigdb/pkg/adapters/ggrenderer"
	"github.com/user/moviesigdb/pkg/adapters/logger"
	"github.com/user/moviesigdb/pkg/adapters/nulldisplay"
	"github.com/user/moviesigdb/pkg/adapters/nullsink"
	"github.com/user/moviesigdb/pkg/adapters/osfilesystem"
	"github.com/user/moviesigdb/pkg/adapters/progressbar"
	"github.com/user/moviesigdb/pkg/adapters/smartsource"
	"github.com/user/moviesigdb/pkg/config"
	"github.com/user/moviesigdb/pkg/orchestrator"
	"github.com/user/moviesigdb/pkg/ports"
	"github.com/user/moviesigdb/pkg/stages/export"
	"github.com/user/moviesigdb/pkg/stages/reduce"
	"github.com/user/moviesigdb/pkg/stages/render"
	"github.com/user/moviesigdb/pkg/stages/sample"
	"github.com/user/moviesigdb/pkg/summarizer"
	"github.com/user/moviesigdb/pkg/videosource"
)

var version = "dev"

// Flag categories
const (
	categoryOutput   = "Output"
	categoryMetadata = "Metadata"
	categorySampling = "Sampling"
	categoryViews    = "Views"
	categoryDebug    = "Debug"
	categoryLogging  = "Logging"
)

func main() {
	app := &cli.App{
		Name:        "moviesigdb",
		Usage:       l10n.T("Create movie color barcodes from videos"),
		Description: l10n.T("moviesigdb samples a video at a fixed rate, averages the color of each sampled frame, and renders the sequence as a barcode."),
		Version:     version,
		Commands: []*cli.Command{
			barcodeCommand(),
			inspectCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func barcodeCommand() *cli.Command {
	return &cli.Command{
		Name:        "barcode",
		Usage:       l10n.T("Create a movie barcode from a video"),
		Description: l10n.T("Sample the video, compute average colors, and save the barcode with embedded metadata."),
		ArgsUsage:   "<video>",
		Flags: []cli.Flag{
			// Output
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: l10n.T(categoryOutput),
				Usage: l10n.T("Barcode output path; the format extension is appended when missing (default: <video>-barcode)")},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Category: l10n.T(categoryOutput),
				Usage: l10n.T("Output format (png, svg)")},
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Category: l10n.T(categoryOutput),
				Usage: l10n.T("Barcode width in pixels (default: 1500)")},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Category: l10n.T(categoryOutput),
				Usage: l10n.T("Barcode height in pixels (default: 300)")},
			&cli.StringFlag{Name: "summary", Category: l10n.T(categoryOutput),
				Usage: l10n.T("Write a Markdown run summary to this path")},

			// Metadata
			&cli.StringFlag{Name: "show", Category: l10n.T(categoryMetadata),
				Usage: l10n.T("Show name embedded in the barcode metadata")},
			&cli.StringFlag{Name: "season", Category: l10n.T(categoryMetadata),
				Usage: l10n.T("Season number or label (default: 1)")},
			&cli.StringFlag{Name: "episode", Category: l10n.T(categoryMetadata),
				Usage: l10n.T("Episode number or label (default: 1)")},

			// Sampling
			&cli.Float64Flag{Name: "rate", Aliases: []string{"r"}, Category: l10n.T(categorySampling),
				Usage: l10n.T("Frames sampled per second of video (default: 1.0)")},
			&cli.StringFlag{Name: "backend", Category: l10n.T(categorySampling),
				Usage: l10n.T("Decoding backend (auto, vidio, ffmpeg)")},
			&cli.StringFlag{Name: "ffmpeg-path", Category: l10n.T(categorySampling),
				Usage: l10n.T("Path to the ffmpeg executable")},

			// Views
			&cli.StringFlag{Name: "annotated", Category: l10n.T(categoryViews),
				Usage: l10n.T("Save the barcode with title and time axis as PNG")},
			&cli.StringFlag{Name: "title", Category: l10n.T(categoryViews),
				Usage: l10n.T("Title of the annotated barcode")},
			&cli.StringFlag{Name: "scatter", Category: l10n.T(categoryViews),
				Usage: l10n.T("Save the 3D RGB scatter plot as PNG")},
			&cli.StringFlag{Name: "polar", Category: l10n.T(categoryViews),
				Usage: l10n.T("Save the HSV polar plot as PNG")},
			&cli.BoolFlag{Name: "display", Category: l10n.T(categoryViews),
				Usage: l10n.T("Show the rendered images in a browser window")},
			&cli.StringFlag{Name: "chrome-path", Category: l10n.T(categoryViews),
				Usage: l10n.T("Path to Chrome executable (falls back to CHROME_PATH env, then system default)")},

			// Debug
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: l10n.T(categoryDebug),
				Usage: l10n.T("YAML configuration file; flags override its values")},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Category: l10n.T(categoryDebug),
				Usage: l10n.T("Write sampled frames, colors and views to the debug directory")},
			&cli.StringFlag{Name: "debug-dir", Category: l10n.T(categoryDebug),
				Usage: l10n.T("Directory for debug output (default: ./debug)")},

			// Logging
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: l10n.T(categoryLogging),
				Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Category: l10n.T(categoryLogging),
				Usage: l10n.T("Suppress all log output")},
		},
		Action: runBarcode,
	}
}

// loadConfig merges the optional config file with flags set on the command line.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	stringFlags := map[string]*string{
		"output":      &cfg.OutputPath,
		"format":      &cfg.Format,
		"summary":     &cfg.SummaryPath,
		"show":        &cfg.Show,
		"season":      &cfg.Season,
		"episode":     &cfg.Episode,
		"backend":     &cfg.Backend,
		"ffmpeg-path": &cfg.FFmpegPath,
		"annotated":   &cfg.Views.Annotated,
		"title":       &cfg.Title,
		"scatter":     &cfg.Views.Scatter,
		"polar":       &cfg.Views.Polar,
		"debug-dir":   &cfg.DebugDir,
		"log-level":   &cfg.LogLevel,
	}
	for name, target := range stringFlags {
		if c.IsSet(name) {
			*target = c.String(name)
		}
	}
	if c.IsSet("width") {
		cfg.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.Height = c.Int("height")
	}
	if c.IsSet("rate") {
		cfg.Rate = c.Float64("rate")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}

	return cfg, cfg.Validate()
}

// defaultOutputPath returns "<video name>-barcode" in the working directory.
func defaultOutputPath(videoPath string) string {
	base := filepath.Base(videoPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-barcode"
}

func runBarcode(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit(l10n.T("exactly one video path is required"), 2)
	}
	videoPath, err := filepath.Abs(c.Args().First())
	if err != nil {
		return fmt.Errorf("resolve video path: %w", err)
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = defaultOutputPath(videoPath)
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(cfg.Level())
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	var sink ports.DebugSink
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	var display ports.Display
	if c.Bool("display") {
		display = chromedisplay.New(renderer, chromedisplay.Options{ChromePath: c.String("chrome-path")}, log)
	} else {
		display = nulldisplay.New()
	}

	source := videosource.New(smartsource.New(cfg.SourceOptions()), fs, log)

	// Create orchestrator
	orch := orchestrator.New(
		source,
		sample.New(sink, log),
		reduce.New(sink, log),
		render.New(renderer, sink, log),
		export.New(renderer, fs, sink, log),
		renderer,
		fs,
		display,
		log,
	)

	orchConfig := cfg.ToOrchestratorConfig(videoPath)
	orchConfig.Display = c.Bool("display")

	var bar *progressbar.Bar
	if !c.Bool("quiet") {
		bar = progressbar.NewStderr()
		orchConfig.Progress = bar.Func()
	}

	result, err := orch.Run(ctx, orchConfig)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	if cfg.SummaryPath != "" {
		if err := writeSummary(fs, cfg.SummaryPath, result); err != nil {
			return err
		}
		log.Info("Summary written to %s", cfg.SummaryPath)
	}

	return nil
}

func writeSummary(fs ports.FileSystem, path string, result orchestrator.RunResult) error {
	builder := summarizer.NewBuilder().
		WithVideo(summarizer.VideoInfo{
			Path:       result.Video.Path,
			Backend:    result.Video.Backend,
			Codec:      result.Video.Codec,
			Width:      result.Video.Width,
			Height:     result.Video.Height,
			FPS:        result.Video.FPS,
			FrameCount: result.Video.FrameCount,
		}).
		WithSampling(summarizer.SamplingInfo{
			Rate:      result.Rate,
			Interval:  result.Interval,
			Requested: result.Requested,
			Sampled:   result.Sampled,
			Truncated: result.Truncated,
		}).
		WithColors(result.Colors)

	if result.OutputPath != "" {
		builder.WithOutput(summarizer.OutputInfo{
			Kind:     "barcode",
			Path:     result.OutputPath,
			FileSize: result.OutputSize,
			Title:    result.Title,
		})
	}
	for _, v := range result.Views {
		builder.WithOutput(summarizer.OutputInfo{
			Kind:     string(v.View),
			Path:     v.Path,
			FileSize: v.FileSize,
		})
	}

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	)
	if err := summarizer.NewWriter(formatter, fs).Write(path, builder.Build()); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:        "inspect",
		Usage:       l10n.T("Show the metadata embedded in a saved barcode"),
		Description: l10n.T("Read the title and average colors embedded in a PNG or SVG barcode."),
		ArgsUsage:   "<image>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: l10n.T("Print the raw metadata JSON")},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit(l10n.T("exactly one image path is required"), 2)
			}
			data, err := osfilesystem.New().ReadFile(c.Args().First())
			if err != nil {
				return err
			}
			meta, err := export.ReadMetadata(data)
			if err != nil {
				return err
			}

			w := c.App.Writer
			if c.Bool("json") {
				payload, err := meta.Encode()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(payload))
				return nil
			}

			fmt.Fprintln(w, l10n.F("Title: %s", meta.Title()))
			fmt.Fprintln(w, l10n.F("Show: %s", meta.ShowName))
			fmt.Fprintln(w, l10n.F("Season: %s", meta.Season.String()))
			fmt.Fprintln(w, l10n.F("Episode: %s", meta.Episode.String()))
			fmt.Fprintln(w, l10n.F("Frames: %d", meta.FrameCount))
			fmt.Fprintln(w, l10n.F("Sampling rate: %.2f/s", meta.FPS))
			if bytes.HasPrefix(data, []byte("\x89PNG")) {
				img, err := ggrenderer.New().DecodeImage(data, ports.FormatPNG)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, l10n.F("Size: %dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
			}
			return nil
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, l10n.F("moviesigdb version %s", version))
			return nil
		},
	}
}
