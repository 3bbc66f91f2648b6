// Package integration contains integration tests for the barcode pipeline.
package integration

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/user/moviesigdb/pkg/adapters/filesink"
	"github.com/user/moviesigdb/pkg/adapters/ggrenderer"
	"github.com/user/moviesigdb/pkg/adapters/logger"
	"github.com/user/moviesigdb/pkg/adapters/nulldisplay"
	"github.com/user/moviesigdb/pkg/adapters/nullsink"
	"github.com/user/moviesigdb/pkg/adapters/osfilesystem"
	"github.com/user/moviesigdb/pkg/adapters/smartsource"
	"github.com/user/moviesigdb/pkg/adapters/vidiosource"
	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/orchestrator"
	"github.com/user/moviesigdb/pkg/ports"
	"github.com/user/moviesigdb/pkg/stages/export"
	"github.com/user/moviesigdb/pkg/stages/reduce"
	"github.com/user/moviesigdb/pkg/stages/render"
	"github.com/user/moviesigdb/pkg/stages/sample"
	"github.com/user/moviesigdb/pkg/videosource"
)

// generateClip writes a 4 second 24fps clip: 2 seconds red, then 2 seconds blue.
func generateClip(t *testing.T) string {
	t.Helper()
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not available")
	}

	path := filepath.Join(t.TempDir(), "redblue.mp4")
	cmd := exec.Command(ffmpeg, "-v", "error", "-y",
		"-f", "lavfi", "-i", "color=c=red:s=64x48:r=24:d=2",
		"-f", "lavfi", "-i", "color=c=blue:s=64x48:r=24:d=2",
		"-filter_complex", "[0:v][1:v]concat=n=2:v=1[v]",
		"-map", "[v]",
		"-c:v", "libx264", "-pix_fmt", "yuv444p", "-qp", "0",
		path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("ffmpeg could not encode test clip: %v\n%s", err, out)
	}
	return path
}

func newOrchestrator(backend smartsource.Backend, sink ports.DebugSink) *orchestrator.Orchestrator {
	log := logger.NewNoop()
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	source := videosource.New(smartsource.New(smartsource.Options{Backend: backend}), fs, log)

	return orchestrator.New(
		source,
		sample.New(sink, log),
		reduce.New(sink, log),
		render.New(renderer, sink, log),
		export.New(renderer, fs, sink, log),
		renderer,
		fs,
		nulldisplay.New(),
		log,
	)
}

func isRed(c barcode.AverageColor) bool  { return c.R > 230 && c.G < 25 && c.B < 25 }
func isBlue(c barcode.AverageColor) bool { return c.B > 230 && c.R < 25 && c.G < 25 }

func runPipeline(t *testing.T, backend smartsource.Backend) {
	clip := generateClip(t)
	outDir := t.TempDir()
	debugDir := filepath.Join(outDir, "debug")

	fs := osfilesystem.New()
	sink := filesink.New(debugDir, fs, ggrenderer.New())
	orch := newOrchestrator(backend, sink)

	config := orchestrator.DefaultConfig()
	config.VideoPath = clip
	config.ShowName = "Show"
	config.Season = barcode.Number(1)
	config.Episode = barcode.Number(2)
	config.OutputPath = filepath.Join(outDir, "out")
	config.PolarPath = filepath.Join(outDir, "polar")
	config.ScatterPath = filepath.Join(outDir, "scatter")
	config.AnnotatedPath = filepath.Join(outDir, "annotated")

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	// 96 frames at 24fps, one sample per second
	if result.Requested != 4 {
		t.Errorf("expected 4 requested samples, got %d", result.Requested)
	}
	if result.Truncated {
		t.Error("unexpected truncation")
	}
	if len(result.Colors) != 4 {
		t.Fatalf("expected 4 colors, got %d", len(result.Colors))
	}
	for i, c := range result.Colors {
		if i < 2 && !isRed(c) {
			t.Errorf("color %d: expected red, got %v", i, c)
		}
		if i >= 2 && !isBlue(c) {
			t.Errorf("color %d: expected blue, got %v", i, c)
		}
	}

	if result.OutputPath != config.OutputPath+".png" {
		t.Errorf("expected %s.png, got %s", config.OutputPath, result.OutputPath)
	}
	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("read barcode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode barcode: %v", err)
	}
	if img.Bounds().Dx() != 1500 || img.Bounds().Dy() != 300 {
		t.Errorf("expected 1500x300, got %v", img.Bounds())
	}

	meta, err := export.ReadMetadata(data)
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if meta.Title() != "ShowS1E2" || meta.FrameCount != 4 || meta.FPS != 1 {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	for _, name := range []string{"polar.png", "scatter.png", "annotated.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	for _, name := range []string{"colors.json", "frames/sample-00000.jpg", "views/polar.png"} {
		if _, err := os.Stat(filepath.Join(debugDir, name)); err != nil {
			t.Errorf("expected debug output %s: %v", name, err)
		}
	}
}

func TestPipeline_FFmpegBackend(t *testing.T) {
	runPipeline(t, smartsource.BackendFFmpeg)
}

func TestPipeline_VidioBackend(t *testing.T) {
	if !vidiosource.IsAvailable() {
		t.Skip("ffprobe not available")
	}
	runPipeline(t, smartsource.BackendVidio)
}

func TestPipeline_SVGOutput(t *testing.T) {
	clip := generateClip(t)
	outDir := t.TempDir()
	orch := newOrchestrator(smartsource.BackendAuto, nullsink.New())

	config := orchestrator.DefaultConfig()
	config.VideoPath = clip
	config.ShowName = "Show"
	config.Season = barcode.Text("Special")
	config.Episode = barcode.Number(3)
	config.Format = "svg"
	config.OutputPath = filepath.Join(outDir, "out.SVG")

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if result.OutputPath != config.OutputPath {
		t.Errorf("expected extension to be kept, got %s", result.OutputPath)
	}

	data, err := os.ReadFile(result.OutputPath)
	if err != nil {
		t.Fatalf("read barcode: %v", err)
	}
	meta, err := export.ReadMetadata(data)
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if meta.Season.IsNumber() || meta.Title() != "ShowSSpecialE3" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
}
