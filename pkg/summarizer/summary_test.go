package summarizer

import (
	"math"
	"testing"
	"time"

	"github.com/user/moviesigdb/pkg/barcode"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithVideo(t *testing.T) {
	summary := NewBuilder().
		WithVideo(VideoInfo{Path: "/videos/ep.mp4", FPS: 24, FrameCount: 2880, Backend: "vidio"}).
		Build()

	if summary.Video.Path != "/videos/ep.mp4" {
		t.Errorf("expected path, got %q", summary.Video.Path)
	}
	if summary.Video.FrameCount != 2880 {
		t.Errorf("expected 2880 frames, got %d", summary.Video.FrameCount)
	}
}

func TestBuilder_WithSampling(t *testing.T) {
	summary := NewBuilder().
		WithSampling(SamplingInfo{Rate: 1, Interval: 24, Requested: 120, Sampled: 80, Truncated: true}).
		Build()

	if !summary.Sampling.Truncated || summary.Sampling.Sampled != 80 {
		t.Errorf("unexpected sampling: %+v", summary.Sampling)
	}
}

func TestBuilder_WithOutput(t *testing.T) {
	summary := NewBuilder().
		WithOutput(OutputInfo{Kind: "barcode", Path: "out.png", FileSize: 10}).
		WithOutput(OutputInfo{Kind: "polar", Path: "polar.png", FileSize: 20}).
		Build()

	if len(summary.Outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(summary.Outputs))
	}
	if summary.Outputs[1].Kind != "polar" {
		t.Errorf("expected outputs in insertion order, got %+v", summary.Outputs)
	}
}

func TestComputeColorStats(t *testing.T) {
	colors := []barcode.AverageColor{
		{R: 255, G: 0, B: 0},
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
		{R: 0, G: 0, B: 255},
	}

	stats := ComputeColorStats(colors)

	if stats.Count != 4 {
		t.Errorf("expected count 4, got %d", stats.Count)
	}
	// (255+0+255+0)/4 = 127.5 truncates to 127
	want := barcode.AverageColor{R: 127, G: 63, B: 127}
	if stats.Mean != want {
		t.Errorf("expected mean %v, got %v", want, stats.Mean)
	}
	if stats.Darkest != (barcode.AverageColor{}) {
		t.Errorf("expected black as darkest, got %v", stats.Darkest)
	}
	if stats.Brightest != (barcode.AverageColor{R: 255, G: 255, B: 255}) {
		t.Errorf("expected white as brightest, got %v", stats.Brightest)
	}
	// saturation: 1, 0, 0, 1
	if math.Abs(stats.MeanSaturation-0.5) > 1e-9 {
		t.Errorf("expected mean saturation 0.5, got %v", stats.MeanSaturation)
	}
	// value: 1, 0, 1, 1
	if math.Abs(stats.MeanValue-0.75) > 1e-9 {
		t.Errorf("expected mean value 0.75, got %v", stats.MeanValue)
	}
}

func TestComputeColorStats_Empty(t *testing.T) {
	stats := ComputeColorStats(nil)
	if stats != (ColorStats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestBuilder_FullChain(t *testing.T) {
	summary := NewBuilder().
		WithVideo(VideoInfo{Path: "/videos/ep.mp4", Width: 1920, Height: 1080, FPS: 24, FrameCount: 48}).
		WithSampling(SamplingInfo{Rate: 1, Interval: 24, Requested: 2, Sampled: 2}).
		WithColors([]barcode.AverageColor{{R: 10, G: 20, B: 30}, {R: 30, G: 40, B: 50}}).
		WithOutput(OutputInfo{Kind: "barcode", Path: "/out/ep.png", FileSize: 2048, Title: "ShowS1E2"}).
		Build()

	if summary.Video.Width != 1920 {
		t.Errorf("expected width 1920, got %d", summary.Video.Width)
	}
	if summary.Colors.Mean != (barcode.AverageColor{R: 20, G: 30, B: 40}) {
		t.Errorf("unexpected mean %v", summary.Colors.Mean)
	}
	if summary.Outputs[0].Title != "ShowS1E2" {
		t.Errorf("unexpected output %+v", summary.Outputs[0])
	}
}
