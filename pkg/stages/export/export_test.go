package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/user/moviesigdb/pkg/adapters/ggrenderer"
	"github.com/user/moviesigdb/pkg/adapters/logger"
	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/imagemeta"
	"github.com/user/moviesigdb/pkg/mocks"
	"github.com/user/moviesigdb/pkg/pipeline"
	"github.com/user/moviesigdb/pkg/ports"
)

func newStage(fs ports.FileSystem) *Stage {
	return New(ggrenderer.New(), fs, mocks.NewDebugSink(false), logger.NewNoop())
}

func testInput(path, format string) pipeline.ExportInput {
	input := pipeline.DefaultExportInput()
	input.Colors = []barcode.AverageColor{{R: 255}, {G: 128}, {B: 64}}
	input.ShowName = "Show"
	input.Season = barcode.Number(1)
	input.Episode = barcode.Number(2)
	input.OutputPath = path
	input.Format = format
	return input
}

func TestWithExtension(t *testing.T) {
	tests := []struct {
		path   string
		format Format
		want   string
	}{
		{"out", FormatPNG, "out.png"},
		{"out.png", FormatPNG, "out.png"},
		{"OUT.PNG", FormatPNG, "OUT.PNG"},
		{"out.svg", FormatPNG, "out.svg.png"},
		{"dir.png/out", FormatSVG, "dir.png/out.svg"},
	}

	for _, tt := range tests {
		if got := WithExtension(tt.path, tt.format); got != tt.want {
			t.Errorf("WithExtension(%q, %q) = %q, want %q", tt.path, tt.format, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("PNG"); err != nil || f != FormatPNG {
		t.Errorf("ParseFormat(PNG) = %q, %v", f, err)
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestStage_SavePNG(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := newStage(fs)

	result, err := stage.Execute(context.Background(), testInput("out", "png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Path != "out.png" {
		t.Errorf("expected out.png, got %q", result.Path)
	}
	data, ok := fs.GetFile("out.png")
	if !ok {
		t.Fatal("expected out.png to be written")
	}
	if result.FileSize != int64(len(data)) {
		t.Errorf("expected file size %d, got %d", len(data), result.FileSize)
	}

	fields, err := imagemeta.ReadPNGText(data)
	if err != nil {
		t.Fatalf("ReadPNGText failed: %v", err)
	}
	if title, _ := fields.Get(KeywordTitle); title != "ShowS1E2" {
		t.Errorf("expected title ShowS1E2, got %q", title)
	}
	if software, _ := fields.Get(KeywordSoftware); software != Software {
		t.Errorf("expected software %q, got %q", Software, software)
	}
	description, _ := fields.Get(KeywordDescription)
	if strings.Contains(description, " ") || strings.Contains(description, "\n") {
		t.Errorf("expected compact JSON, got %q", description)
	}

	meta, err := ReadMetadata(data)
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	if meta.ShowName != "Show" || meta.Season != barcode.Number(1) || meta.Episode != barcode.Number(2) {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.FrameCount != 3 || len(meta.AverageColors) != 3 {
		t.Errorf("expected 3 frames, got %d / %d colors", meta.FrameCount, len(meta.AverageColors))
	}
	if meta.AverageColors[1] != (barcode.AverageColor{G: 128}) {
		t.Errorf("unexpected color: %v", meta.AverageColors[1])
	}
	if meta.FPS != 1 {
		t.Errorf("expected fps 1, got %v", meta.FPS)
	}

	img, err := ggrenderer.New().DecodeImage(data, ports.FormatPNG)
	if err != nil {
		t.Fatalf("saved PNG does not decode: %v", err)
	}
	if img.Bounds().Dx() != 1500 || img.Bounds().Dy() != 300 {
		t.Errorf("expected 1500x300, got %v", img.Bounds())
	}
}

func TestStage_SaveSVG(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := newStage(fs)

	input := testInput("episode.SVG", "svg")
	input.Season = barcode.Text("Special")
	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Path != "episode.SVG" {
		t.Errorf("expected extension to be kept, got %q", result.Path)
	}

	data, _ := fs.GetFile("episode.SVG")
	if !strings.Contains(string(data), `fill="#ff0000"`) {
		t.Error("expected a red sliver")
	}
	if strings.Contains(string(data), Software) {
		t.Error("SVG output must not carry a Software field")
	}

	meta, err := ReadMetadata(data)
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	if meta.Season != barcode.Text("Special") {
		t.Errorf("expected text season, got %v", meta.Season)
	}
	if meta.Title() != "ShowSSpecialE2" {
		t.Errorf("unexpected title %q", meta.Title())
	}
}

func TestEncodeSVG_SliversTileWidth(t *testing.T) {
	colors := make([]barcode.AverageColor, 7)
	for i := range colors {
		colors[i] = barcode.AverageColor{R: uint8(i * 30)}
	}
	data := encodeSVG(colors, 100, 10, "t", "d")

	var x, total int
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "<rect ") {
			continue
		}
		var rx, ry, rw, rh int
		if _, err := fmt.Sscanf(line[strings.Index(line, "x="):], `x="%d" y="%d" width="%d" height="%d"`, &rx, &ry, &rw, &rh); err != nil {
			t.Fatalf("unparsable rect %q: %v", line, err)
		}
		if rx != x {
			t.Errorf("rect starts at %d, want %d", rx, x)
		}
		if rh != 10 {
			t.Errorf("rect height = %d, want 10", rh)
		}
		x += rw
		total++
	}
	if total != len(colors) {
		t.Errorf("rects = %d, want %d", total, len(colors))
	}
	if x != 100 {
		t.Errorf("slivers cover %d px, want 100", x)
	}
}

func TestEncodeSVG_DropsSubpixelSlivers(t *testing.T) {
	colors := make([]barcode.AverageColor, 30)
	data := encodeSVG(colors, 10, 10, "", "")
	if n := strings.Count(string(data), "<rect "); n != 10 {
		t.Errorf("rects = %d, want 10", n)
	}
}

func TestStage_UnsupportedFormat(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := newStage(fs)

	_, err := stage.Execute(context.Background(), testInput("out", "gif"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if len(fs.Paths()) != 0 {
		t.Error("nothing must be written for unsupported formats")
	}
}

func TestStage_NoOutputPathRendersOnly(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := newStage(fs)

	result, err := stage.Execute(context.Background(), testInput("", "png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Image == nil || result.Path != "" || result.Metadata != nil {
		t.Errorf("expected image only, got %+v", result)
	}
	if len(fs.Paths()) != 0 {
		t.Error("nothing must be written without an output path")
	}
}

func TestStage_WriteErrorPropagates(t *testing.T) {
	fs := mocks.NewFileSystem()
	errDiskFull := errors.New("disk full")
	fs.WriteFileFunc = func(path string, data []byte) error { return errDiskFull }
	stage := newStage(fs)

	_, err := stage.Execute(context.Background(), testInput("out", "png"))
	if !errors.Is(err, errDiskFull) {
		t.Errorf("expected write error, got %v", err)
	}
}

func TestStage_EmptyColors(t *testing.T) {
	stage := newStage(mocks.NewFileSystem())

	input := testInput("out", "png")
	input.Colors = nil
	result, err := stage.Execute(context.Background(), input)
	if !errors.Is(err, ErrEmptyBarcode) {
		t.Errorf("expected ErrEmptyBarcode, got %v", err)
	}
	if result.Image == nil || result.Image.Bounds().Dx() != 0 {
		t.Errorf("expected zero-width image, got %v", result.Image)
	}
}

func TestStage_NonLatin1ShowName(t *testing.T) {
	fs := mocks.NewFileSystem()
	stage := newStage(fs)

	input := testInput("out", "png")
	input.ShowName = "進撃の巨人"
	if _, err := stage.Execute(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := fs.GetFile("out.png")
	meta, err := ReadMetadata(data)
	if err != nil {
		t.Fatalf("ReadMetadata failed: %v", err)
	}
	if meta.ShowName != "進撃の巨人" {
		t.Errorf("expected show name to survive, got %q", meta.ShowName)
	}
}

func TestReadMetadata_Missing(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	data, err := ggrenderer.New().EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}

	if _, err := ReadMetadata(data); !errors.Is(err, ErrNoMetadata) {
		t.Errorf("expected ErrNoMetadata, got %v", err)
	}
}
