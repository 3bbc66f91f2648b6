package reduce

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/user/moviesigdb/pkg/adapters/logger"
	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/mocks"
	"github.com/user/moviesigdb/pkg/pipeline"
)

func solidFrame(w, h int, c barcode.AverageColor) barcode.Frame {
	f := barcode.NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, c)
		}
	}
	return f
}

func TestAverage(t *testing.T) {
	twoTone := barcode.NewFrame(2, 1)
	twoTone.Set(0, 0, barcode.AverageColor{R: 255, G: 0, B: 10})
	twoTone.Set(1, 0, barcode.AverageColor{R: 0, G: 255, B: 11})

	// 3 pixels: 1+1+0 = 2 -> 2/3 truncates to 0
	thirds := barcode.NewFrame(3, 1)
	thirds.Set(0, 0, barcode.AverageColor{R: 1, G: 2, B: 255})
	thirds.Set(1, 0, barcode.AverageColor{R: 1, G: 2, B: 255})

	tests := []struct {
		name  string
		frame barcode.Frame
		want  barcode.AverageColor
	}{
		{"all red", solidFrame(64, 48, barcode.AverageColor{R: 255}), barcode.AverageColor{R: 255}},
		{"white", solidFrame(3, 3, barcode.AverageColor{R: 255, G: 255, B: 255}), barcode.AverageColor{R: 255, G: 255, B: 255}},
		{"floor of halves", twoTone, barcode.AverageColor{R: 127, G: 127, B: 10}},
		{"floor of thirds", thirds, barcode.AverageColor{R: 0, G: 1, B: 170}},
		{"zero pixels", barcode.NewFrame(0, 0), barcode.AverageColor{}},
		{"short pixel buffer", barcode.Frame{Width: 2, Height: 2, Pix: []byte{255, 255, 255}}, barcode.AverageColor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Average(tt.frame); got != tt.want {
				t.Errorf("Average() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAverage_LargeFrameDoesNotOverflow(t *testing.T) {
	frame := solidFrame(3840, 2160, barcode.AverageColor{R: 255, G: 254, B: 253})
	want := barcode.AverageColor{R: 255, G: 254, B: 253}
	if got := Average(frame); got != want {
		t.Errorf("Average() = %v, want %v", got, want)
	}
}

func TestStage_PreservesOrder(t *testing.T) {
	colors := []barcode.AverageColor{
		{R: 255}, {G: 255}, {B: 255}, {R: 10, G: 20, B: 30},
	}
	frames := make([]barcode.Frame, len(colors))
	for i, c := range colors {
		frames[i] = solidFrame(4, 4, c)
	}

	stage := New(mocks.NewDebugSink(false), logger.NewNoop())
	result, err := stage.Execute(context.Background(), pipeline.ReduceInput{Frames: frames})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Colors) != len(colors) {
		t.Fatalf("expected %d colors, got %d", len(colors), len(result.Colors))
	}
	for i := range colors {
		if result.Colors[i] != colors[i] {
			t.Errorf("color %d = %v, want %v", i, result.Colors[i], colors[i])
		}
	}
}

func TestStage_Empty(t *testing.T) {
	stage := New(mocks.NewDebugSink(false), logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.ReduceInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Colors == nil || len(result.Colors) != 0 {
		t.Errorf("expected empty non-nil colors, got %v", result.Colors)
	}
}

func TestStage_SavesColorsJSON(t *testing.T) {
	sink := mocks.NewDebugSink(true)
	stage := New(sink, logger.NewNoop())

	frames := []barcode.Frame{solidFrame(2, 2, barcode.AverageColor{R: 1, G: 2, B: 3})}
	if _, err := stage.Execute(context.Background(), pipeline.ReduceInput{Frames: frames}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got [][]int
	if err := json.Unmarshal(sink.ColorsJSON, &got); err != nil {
		t.Fatalf("invalid colors JSON %q: %v", sink.ColorsJSON, err)
	}
	if len(got) != 1 || got[0][0] != 1 || got[0][1] != 2 || got[0][2] != 3 {
		t.Errorf("unexpected colors JSON: %s", sink.ColorsJSON)
	}
}
