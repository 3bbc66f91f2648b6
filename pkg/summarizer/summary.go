// Package summarizer provides summary generation for barcode runs.
package summarizer

import (
	"time"

	"github.com/user/moviesigdb/pkg/barcode"
)

// Summary contains all data collected during one barcode run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Source video
	Video VideoInfo

	// Sampling plan and outcome
	Sampling SamplingInfo

	// Statistics over the average colors
	Colors ColorStats

	// Files written
	Outputs []OutputInfo
}

// VideoInfo describes the analyzed video.
type VideoInfo struct {
	Path       string
	Backend    string
	Codec      string
	Width      int
	Height     int
	FPS        float64
	FrameCount int
}

// SamplingInfo describes how frames were sampled.
type SamplingInfo struct {
	Rate      float64 // Samples per second
	Interval  float64 // Native frames between samples
	Requested int
	Sampled   int
	Truncated bool
}

// ColorStats summarizes an average color sequence.
type ColorStats struct {
	Count          int
	Mean           barcode.AverageColor
	Darkest        barcode.AverageColor
	Brightest      barcode.AverageColor
	MeanSaturation float64
	MeanValue      float64
}

// OutputInfo describes one written file.
type OutputInfo struct {
	Kind     string
	Path     string
	FileSize int64
	Title    string // Embedded metadata title, barcode output only
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithVideo sets source video information.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// WithSampling sets sampling information.
func (b *Builder) WithSampling(sampling SamplingInfo) *Builder {
	b.summary.Sampling = sampling
	return b
}

// WithColors computes color statistics.
func (b *Builder) WithColors(colors []barcode.AverageColor) *Builder {
	b.summary.Colors = ComputeColorStats(colors)
	return b
}

// WithOutput records a written file.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Outputs = append(b.summary.Outputs, output)
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

// ComputeColorStats returns the per-channel mean (truncated), the darkest and
// brightest colors by luma, and mean HSV saturation and value.
func ComputeColorStats(colors []barcode.AverageColor) ColorStats {
	stats := ColorStats{Count: len(colors)}
	if len(colors) == 0 {
		return stats
	}

	var r, g, b uint64
	var sat, val float64
	darkest, brightest := colors[0], colors[0]
	for _, c := range colors {
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
		_, s, v := c.HSV()
		sat += s
		val += v
		if luma(c) < luma(darkest) {
			darkest = c
		}
		if luma(c) > luma(brightest) {
			brightest = c
		}
	}

	n := uint64(len(colors))
	stats.Mean = barcode.AverageColor{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
	stats.Darkest = darkest
	stats.Brightest = brightest
	stats.MeanSaturation = sat / float64(len(colors))
	stats.MeanValue = val / float64(len(colors))
	return stats
}

// luma is the Rec. 601 brightness.
func luma(c barcode.AverageColor) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}
