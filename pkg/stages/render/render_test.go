package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/user/moviesigdb/pkg/adapters/ggrenderer"
	"github.com/user/moviesigdb/pkg/adapters/logger"
	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/mocks"
	"github.com/user/moviesigdb/pkg/pipeline"
)

func newStage() *Stage {
	return New(ggrenderer.New(), mocks.NewDebugSink(false), logger.NewNoop())
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestBarcode_PlainStretchesEachColor(t *testing.T) {
	colors := []barcode.AverageColor{{R: 255}, {G: 255}, {B: 255}}
	img := newStage().Barcode(colors, BarcodeOptions{Width: 300, Height: 50})

	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 50 {
		t.Fatalf("expected 300x50, got %v", img.Bounds())
	}

	tests := []struct {
		x    int
		want color.RGBA
	}{
		{0, color.RGBA{R: 255, A: 255}},
		{99, color.RGBA{R: 255, A: 255}},
		{100, color.RGBA{G: 255, A: 255}},
		{199, color.RGBA{G: 255, A: 255}},
		{200, color.RGBA{B: 255, A: 255}},
		{299, color.RGBA{B: 255, A: 255}},
	}
	for _, tt := range tests {
		for _, y := range []int{0, 25, 49} {
			if got := rgbaAt(img, tt.x, y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, y, got, tt.want)
			}
		}
	}
}

func TestBarcode_DefaultSize(t *testing.T) {
	img := newStage().Barcode([]barcode.AverageColor{{R: 1}}, BarcodeOptions{})
	if img.Bounds().Dx() != 1500 || img.Bounds().Dy() != 300 {
		t.Errorf("expected 1500x300, got %v", img.Bounds())
	}
}

func TestBarcode_Empty(t *testing.T) {
	for _, axes := range []bool{false, true} {
		img := newStage().Barcode(nil, BarcodeOptions{ShowAxes: axes})
		if img.Bounds().Dx() != 0 {
			t.Errorf("axes=%v: expected zero-width image, got %v", axes, img.Bounds())
		}
	}
}

func samePixels(a, b image.Image) bool {
	if a.Bounds() != b.Bounds() {
		return false
	}
	r := a.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if rgbaAt(a, x, y) != rgbaAt(b, x, y) {
				return false
			}
		}
	}
	return true
}

func TestBarcode_Idempotent(t *testing.T) {
	colors := make([]barcode.AverageColor, 137)
	for i := range colors {
		colors[i] = barcode.AverageColor{R: uint8(i), G: uint8(255 - i), B: uint8(i * 7)}
	}
	stage := newStage()

	for _, axes := range []bool{false, true} {
		opts := BarcodeOptions{Width: 600, Height: 200, ShowAxes: axes}
		first := stage.Barcode(colors, opts)
		second := stage.Barcode(colors, opts)
		if !samePixels(first, second) {
			t.Errorf("axes=%v: rendering twice produced different pixels", axes)
		}
	}
}

func TestBarcode_AnnotatedLabels(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := New(renderer, mocks.NewDebugSink(false), logger.NewNoop())

	colors := make([]barcode.AverageColor, 120)
	stage.Barcode(colors, BarcodeOptions{ShowAxes: true})

	if len(renderer.Canvases) != 1 {
		t.Fatalf("expected 1 canvas, got %d", len(renderer.Canvases))
	}
	canvas := renderer.Canvases[0]
	for _, want := range []string{DefaultBarcodeTitle, TimeAxisLabel, "0", "20", "100"} {
		if !canvas.HasText(want) {
			t.Errorf("expected text %q, got %v", want, canvas.Texts)
		}
	}
}

func TestBarcode_AnnotatedCustomTitle(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := New(renderer, mocks.NewDebugSink(false), logger.NewNoop())

	stage.Barcode([]barcode.AverageColor{{}}, BarcodeOptions{ShowAxes: true, Title: "ShowS1E2"})

	canvas := renderer.Canvases[0]
	if !canvas.HasText("ShowS1E2") {
		t.Error("expected custom title")
	}
	if canvas.HasText(DefaultBarcodeTitle) {
		t.Error("default title must be replaced")
	}
}

func TestBarcode_PlainHasNoText(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := New(renderer, mocks.NewDebugSink(false), logger.NewNoop())

	stage.Barcode([]barcode.AverageColor{{R: 1}}, BarcodeOptions{})

	if len(renderer.Canvases) != 0 {
		t.Error("plain barcode must not draw on a canvas")
	}
}

func TestBarcode_NarrowAxisWidensTicks(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := New(renderer, mocks.NewDebugSink(false), logger.NewNoop())

	colors := make([]barcode.AverageColor, 120)
	stage.Barcode(colors, BarcodeOptions{ShowAxes: true, Width: 200, Height: 150})

	canvas := renderer.Canvases[0]
	for _, want := range []string{"0", "50", "100"} {
		if !canvas.HasText(want) {
			t.Errorf("expected tick %q, got %v", want, canvas.Texts)
		}
	}
	if canvas.HasText("20") {
		t.Errorf("labels 20 apart cannot fit on a 152px axis, got %v", canvas.Texts)
	}
}

func TestFitTickStep(t *testing.T) {
	canvas := &mocks.Canvas{} // 7px per character
	tests := []struct {
		name      string
		step      float64
		last      float64
		pxPerUnit float64
		want      float64
	}{
		{"fits", 20, 119, 10, 20},
		{"one widening", 20, 119, 152.0 / 120, 50},
		{"several widenings", 1, 9, 2, 10},
		{"single tick", 1, 0, 1452, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fitTickStep(canvas, tt.step, tt.last, tt.pxPerUnit); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("fitTickStep = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextTickStep(t *testing.T) {
	tests := []struct{ step, want float64 }{
		{1, 2},
		{2, 5},
		{5, 10},
		{20, 50},
		{0.05, 0.1},
	}
	for _, tt := range tests {
		if got := nextTickStep(tt.step); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("nextTickStep(%v) = %v, want %v", tt.step, got, tt.want)
		}
	}
}

func TestTickStep(t *testing.T) {
	tests := []struct {
		span float64
		want float64
	}{
		{119, 20},
		{100, 10},
		{9, 1},
		{0, 1},
		{3600, 500},
		{0.5, 0.05},
	}

	for _, tt := range tests {
		if got := tickStep(tt.span, maxTicks); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("tickStep(%v) = %v, want %v", tt.span, got, tt.want)
		}
	}
}

func TestScatter3D(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := New(renderer, mocks.NewDebugSink(false), logger.NewNoop())

	colors := []barcode.AverageColor{{R: 255}, {G: 255}, {B: 255}, {R: 128, G: 128, B: 128}}
	img := stage.Scatter3D(colors, 0, 0)

	if img.Bounds().Dx() != 1000 || img.Bounds().Dy() != 800 {
		t.Errorf("expected 1000x800, got %v", img.Bounds())
	}

	canvas := renderer.Canvases[0]
	if len(canvas.Circles) != len(colors) {
		t.Fatalf("expected %d points, got %d", len(colors), len(canvas.Circles))
	}
	for _, c := range canvas.Circles {
		nrgba := c.Color.(color.NRGBA)
		if nrgba.A != 204 {
			t.Errorf("expected alpha 0.8 (204), got %d", nrgba.A)
		}
		if c.X < 0 || c.X > 1000 || c.Y < 0 || c.Y > 800 {
			t.Errorf("point (%v,%v) outside the canvas", c.X, c.Y)
		}
	}
	for _, want := range []string{ScatterTitle, "Red Channel", "Green Channel", "Blue Channel"} {
		if !canvas.HasText(want) {
			t.Errorf("expected text %q", want)
		}
	}
}

func TestScatter3D_PaintsFarToNear(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := New(renderer, mocks.NewDebugSink(false), logger.NewNoop())

	stage.Scatter3D([]barcode.AverageColor{{R: 255, G: 0, B: 255}, {R: 0, G: 255, B: 0}}, 0, 0)

	proj := newProjection(1000, 800, 40)
	var depths []float64
	for _, c := range renderer.Canvases[0].Circles {
		nrgba := c.Color.(color.NRGBA)
		_, _, d := proj.point(float64(nrgba.R), float64(nrgba.G), float64(nrgba.B))
		depths = append(depths, d)
	}
	if len(depths) != 2 || depths[0] > depths[1] {
		t.Errorf("expected ascending depth order, got %v", depths)
	}
}

func TestPolarPoint(t *testing.T) {
	tests := []struct {
		name       string
		c          barcode.AverageColor
		wantTheta  float64
		wantRadius float64
	}{
		{"red", barcode.AverageColor{R: 255}, 0, 1},
		{"green", barcode.AverageColor{G: 255}, 2 * math.Pi / 3, 1},
		{"blue", barcode.AverageColor{B: 255}, 4 * math.Pi / 3, 1},
		{"gray", barcode.AverageColor{R: 128, G: 128, B: 128}, 0, 0},
		{"half saturated", barcode.AverageColor{R: 200, G: 100, B: 100}, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theta, radius := PolarPoint(tt.c)
			if math.Abs(theta-tt.wantTheta) > 1e-9 || math.Abs(radius-tt.wantRadius) > 1e-9 {
				t.Errorf("PolarPoint = (%v, %v), want (%v, %v)", theta, radius, tt.wantTheta, tt.wantRadius)
			}
		})
	}
}

func TestPolar(t *testing.T) {
	renderer := &mocks.Renderer{}
	stage := New(renderer, mocks.NewDebugSink(false), logger.NewNoop())

	img := stage.Polar([]barcode.AverageColor{{R: 255}, {G: 10, B: 200}}, 0, 0)
	if img.Bounds().Dx() != 800 || img.Bounds().Dy() != 800 {
		t.Errorf("expected 800x800, got %v", img.Bounds())
	}

	canvas := renderer.Canvases[0]
	if len(canvas.Circles) != 2 {
		t.Fatalf("expected 2 points, got %d", len(canvas.Circles))
	}
	if a := canvas.Circles[0].Color.(color.NRGBA).A; a != 191 {
		t.Errorf("expected alpha 0.75 (191), got %d", a)
	}
	// pure red: hue 0, saturation 1 -> due east on the outer ring
	if canvas.Circles[0].X <= 400 || math.Abs(canvas.Circles[0].Y-428) > 1 {
		t.Errorf("expected red point east of center, got (%v,%v)", canvas.Circles[0].X, canvas.Circles[0].Y)
	}
	for _, want := range []string{PolarTitle, "Gray", "Muted", "Vibrant", "Neon"} {
		if !canvas.HasText(want) {
			t.Errorf("expected text %q", want)
		}
	}
}

func TestStage_Execute(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	stage := New(ggrenderer.New(), sink, logger.NewNoop())
	colors := []barcode.AverageColor{{R: 10}, {G: 20}}

	views := []struct {
		view          pipeline.View
		width, height int
	}{
		{pipeline.ViewBarcode, 1500, 300},
		{pipeline.ViewAnnotated, 1500, 300},
		{pipeline.ViewScatter, 1000, 800},
		{pipeline.ViewPolar, 800, 800},
	}

	for _, v := range views {
		t.Run(string(v.view), func(t *testing.T) {
			result, err := stage.Execute(context.Background(), pipeline.RenderInput{View: v.view, Colors: colors})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			b := result.Image.Bounds()
			if b.Dx() != v.width || b.Dy() != v.height {
				t.Errorf("expected %dx%d, got %dx%d", v.width, v.height, b.Dx(), b.Dy())
			}
			if _, ok := sink.Views[string(v.view)]; !ok {
				t.Errorf("expected %s view saved to debug sink", v.view)
			}
		})
	}
}

func TestStage_ExecuteUnknownView(t *testing.T) {
	_, err := newStage().Execute(context.Background(), pipeline.RenderInput{View: "histogram"})
	if !errors.Is(err, ErrUnknownView) {
		t.Errorf("expected ErrUnknownView, got %v", err)
	}
}
