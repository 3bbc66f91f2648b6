// Package pipeline provides the stage abstraction and the data passed between stages.
package pipeline

import (
	"context"
	"image"

	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/ports"
)

// DefaultFPS replaces a native frame rate the container reports as <= 0.
const DefaultFPS = 24.0

// Stage is one step of the barcode pipeline. The orchestrator runs stages
// in order and each one finishes before the next starts.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc adapts a function to Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

// Execute calls f.
func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// =============================================================================
// Sample Stage Types
// =============================================================================

// SampleInput contains parameters for frame sampling.
type SampleInput struct {
	Video    ports.VideoHandle
	Rate     float64            // Samples per second of video
	Progress ports.ProgressFunc // Optional
}

// SampleResult contains the sampled frames in temporal order.
type SampleResult struct {
	Frames    []barcode.Frame
	NativeFPS float64 // Frame rate used for the plan, after the DefaultFPS fallback
	Interval  float64 // Native frames between two samples
	Requested int     // Planned number of samples
	Truncated bool    // Decoding stopped before Requested frames were read
}

// =============================================================================
// Reduce Stage Types
// =============================================================================

// ReduceInput contains the frames to reduce.
type ReduceInput struct {
	Frames []barcode.Frame
}

// ReduceResult contains one average color per input frame.
type ReduceResult struct {
	Colors []barcode.AverageColor
}

// =============================================================================
// Render Stage Types
// =============================================================================

// View names a visualization of an average color sequence.
type View string

const (
	ViewBarcode   View = "barcode"
	ViewAnnotated View = "annotated"
	ViewScatter   View = "scatter"
	ViewPolar     View = "polar"
)

// RenderInput contains parameters for rendering one view.
type RenderInput struct {
	View   View
	Colors []barcode.AverageColor
	Width  int
	Height int

	// Annotated barcode only
	Title            string  // Empty selects the default title
	SecondsPerSample float64 // X axis scale; 0 means 1 second per sample
}

// DefaultRenderInput returns RenderInput with default values for the view.
func DefaultRenderInput(view View) RenderInput {
	input := RenderInput{View: view}
	switch view {
	case ViewScatter:
		input.Width, input.Height = 1000, 800
	case ViewPolar:
		input.Width, input.Height = 800, 800
	default:
		input.Width, input.Height = 1500, 300
	}
	return input
}

// RenderResult contains the rendered view.
type RenderResult struct {
	Image image.Image
}

// =============================================================================
// Export Stage Types
// =============================================================================

// ExportInput contains parameters for saving a barcode with metadata.
type ExportInput struct {
	Colors     []barcode.AverageColor
	ShowName   string
	Season     barcode.Label
	Episode    barcode.Label
	FPS        float64 // Sampling rate used for extraction
	Format     string  // "png" or "svg"
	OutputPath string  // Empty renders without writing
	Width      int
	Height     int
}

// DefaultExportInput returns ExportInput with default values.
func DefaultExportInput() ExportInput {
	return ExportInput{
		FPS:    1.0,
		Format: "png",
		Width:  1500,
		Height: 300,
	}
}

// ExportResult contains the rendered barcode and where it was written.
type ExportResult struct {
	Image    image.Image
	Path     string // Final path including extension; empty if nothing was written
	FileSize int64
	Metadata *barcode.Metadata
}
