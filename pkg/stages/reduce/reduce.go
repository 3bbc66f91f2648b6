// Package reduce implements the color reduction stage.
package reduce

import (
	"context"
	"encoding/json"

	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/pipeline"
	"github.com/user/moviesigdb/pkg/ports"
)

// Stage maps each frame to its average color.
type Stage struct {
	sink   ports.DebugSink
	logger ports.Logger
}

// New creates a new reduce stage.
func New(sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		sink:   sink,
		logger: logger.WithComponent("reduce"),
	}
}

// Execute computes one average color per frame, preserving order.
func (s *Stage) Execute(ctx context.Context, input pipeline.ReduceInput) (pipeline.ReduceResult, error) {
	result := pipeline.ReduceResult{
		Colors: make([]barcode.AverageColor, 0, len(input.Frames)),
	}

	s.logger.Debug("Averaging %d frames", len(input.Frames))

	for _, frame := range input.Frames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		result.Colors = append(result.Colors, Average(frame))
	}

	if s.sink.Enabled() {
		data, err := json.Marshal(result.Colors)
		if err == nil {
			err = s.sink.SaveColorsJSON(data)
		}
		if err != nil {
			s.logger.Warn("Failed to save debug output: %s", err.Error())
		}
	}

	s.logger.Debug("Average colors computed")
	return result, nil
}

// Average returns the per-channel arithmetic mean of the frame, truncated
// toward zero. A frame without pixels averages to black, as does a frame
// whose Pix holds fewer than Width*Height*3 bytes; ToRGB never builds one.
func Average(frame barcode.Frame) barcode.AverageColor {
	pixels := frame.Width * frame.Height
	if pixels <= 0 || len(frame.Pix) < pixels*3 {
		return barcode.AverageColor{}
	}

	var r, g, b uint64
	pix := frame.Pix[:pixels*3]
	for i := 0; i < len(pix); i += 3 {
		r += uint64(pix[i])
		g += uint64(pix[i+1])
		b += uint64(pix[i+2])
	}

	n := uint64(pixels)
	return barcode.AverageColor{
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(b / n),
	}
}
