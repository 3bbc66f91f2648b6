// Package render implements the visualization stage: the barcode strip and
// the 3D scatter and polar views of an average color sequence.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/pipeline"
	"github.com/user/moviesigdb/pkg/ports"
)

// ErrUnknownView is returned for a view name the stage cannot render.
var ErrUnknownView = errors.New("render: unknown view")

// Default titles and labels.
const (
	DefaultBarcodeTitle = "Movie Color Barcode (One sliver per second)"
	TimeAxisLabel       = "Time (Seconds)"
	ScatterTitle        = "3D Color Distribution"
	PolarTitle          = "HSV Color Wheel Analysis"
)

var (
	backgroundColor = color.White
	textColor       = color.Black
	axisColor       = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	gridColor       = color.RGBA{R: 200, G: 200, B: 200, A: 255}
)

// Stage renders views of an average color sequence.
type Stage struct {
	renderer ports.Renderer
	sink     ports.DebugSink
	logger   ports.Logger
}

// New creates a new render stage.
func New(renderer ports.Renderer, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		sink:     sink,
		logger:   logger.WithComponent("render"),
	}
}

// Execute renders the requested view.
func (s *Stage) Execute(ctx context.Context, input pipeline.RenderInput) (pipeline.RenderResult, error) {
	defaults := pipeline.DefaultRenderInput(input.View)
	if input.Width <= 0 {
		input.Width = defaults.Width
	}
	if input.Height <= 0 {
		input.Height = defaults.Height
	}

	select {
	case <-ctx.Done():
		return pipeline.RenderResult{}, ctx.Err()
	default:
	}

	s.logger.Debug("Rendering %s view (%dx%d)", string(input.View), input.Width, input.Height)

	var img image.Image
	switch input.View {
	case pipeline.ViewBarcode:
		img = s.Barcode(input.Colors, BarcodeOptions{Width: input.Width, Height: input.Height})
	case pipeline.ViewAnnotated:
		img = s.Barcode(input.Colors, BarcodeOptions{
			Width:            input.Width,
			Height:           input.Height,
			ShowAxes:         true,
			Title:            input.Title,
			SecondsPerSample: input.SecondsPerSample,
		})
	case pipeline.ViewScatter:
		img = s.Scatter3D(input.Colors, input.Width, input.Height)
	case pipeline.ViewPolar:
		img = s.Polar(input.Colors, input.Width, input.Height)
	default:
		return pipeline.RenderResult{}, fmt.Errorf("%w: %q", ErrUnknownView, input.View)
	}

	if s.sink.Enabled() && !img.Bounds().Empty() {
		if err := s.sink.SaveView(string(input.View), img); err != nil {
			s.logger.Warn("Failed to save debug output: %s", err.Error())
		}
	}

	return pipeline.RenderResult{Image: img}, nil
}

// drawTitle draws a centered title line.
func drawTitle(canvas ports.Canvas, title string, width, y int) {
	canvas.DrawText(title, width/2, y, ports.TextStyle{
		FontSize: 16,
		Color:    textColor,
		Align:    ports.AlignCenter,
	})
}

func labelStyle(align ports.TextAlign) ports.TextStyle {
	return ports.TextStyle{
		FontSize: 12,
		Color:    textColor,
		Align:    align,
	}
}

// colorOf returns the plotted color of c at the given opacity.
func colorOf(c barcode.AverageColor, alpha float64) color.Color {
	return c.WithAlpha(alpha)
}
