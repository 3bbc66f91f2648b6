// Package sample implements the frame sampling stage.
package sample

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/pipeline"
	"github.com/user/moviesigdb/pkg/ports"
)

var (
	// ErrInvalidRate is returned when the sampling rate is not positive.
	ErrInvalidRate = errors.New("sample: rate must be positive")

	// ErrFrameSize is returned when a decoded buffer does not match its dimensions.
	ErrFrameSize = errors.New("sample: frame buffer size mismatch")
)

// Stage reads frames from a video at a fixed temporal rate.
type Stage struct {
	sink   ports.DebugSink
	logger ports.Logger
}

// New creates a new sample stage.
func New(sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		sink:   sink,
		logger: logger.WithComponent("sample"),
	}
}

// Plan returns the native-frame interval between samples and the number of
// samples for a video of frameCount frames at fps, sampled rate times per second.
func Plan(fps float64, frameCount int, rate float64) (interval float64, total int) {
	if fps <= 0 {
		fps = pipeline.DefaultFPS
	}
	interval = fps / rate
	if frameCount <= 0 {
		return interval, 0
	}
	return interval, int(math.Floor(float64(frameCount) / interval))
}

// Position returns the native frame position of sample i.
func Position(i int, interval float64) int {
	return int(math.Floor(float64(i) * interval))
}

// Execute samples frames in temporal order.
// A frame that cannot be decoded ends sampling early; the frames read so far
// are returned with Truncated set. The context is checked between samples.
func (s *Stage) Execute(ctx context.Context, input pipeline.SampleInput) (pipeline.SampleResult, error) {
	result := pipeline.SampleResult{
		Frames: make([]barcode.Frame, 0),
	}

	if input.Rate <= 0 || math.IsNaN(input.Rate) || math.IsInf(input.Rate, 0) {
		return result, fmt.Errorf("%w: %v", ErrInvalidRate, input.Rate)
	}
	if input.Video == nil {
		return result, errors.New("sample: no video")
	}

	info := input.Video.Info()
	fps := info.FPS
	if fps <= 0 {
		fps = pipeline.DefaultFPS
	}
	interval, total := Plan(fps, info.FrameCount, input.Rate)

	result.NativeFPS = fps
	result.Interval = interval
	result.Requested = total
	result.Frames = make([]barcode.Frame, 0, total)

	s.logger.Debug("Sampling %d frames every %.2f native frames", total, interval)

	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if input.Progress != nil {
			input.Progress(i, total)
		}

		raw, err := input.Video.ReadFrameAt(Position(i, interval))
		if err == nil {
			var frame barcode.Frame
			frame, err = ToRGB(raw)
			if err == nil {
				result.Frames = append(result.Frames, frame)
				s.saveDebug(i, frame)
				continue
			}
		}

		result.Truncated = true
		s.logger.Warn("Sampling truncated after %d of %d frames: %s", len(result.Frames), total, err.Error())
		break
	}

	s.logger.Debug("Sampled %d/%d frames", len(result.Frames), total)
	return result, nil
}

func (s *Stage) saveDebug(index int, frame barcode.Frame) {
	if !s.sink.Enabled() {
		return
	}
	if err := s.sink.SaveSampledFrame(index, frame.Image()); err != nil {
		s.logger.Warn("Failed to save debug output: %s", err.Error())
	}
}

// ToRGB converts a decoded frame from its native channel order to dense RGB.
func ToRGB(raw ports.RawFrame) (barcode.Frame, error) {
	bpp := raw.Order.BytesPerPixel()
	pixels := raw.Width * raw.Height
	if raw.Width < 0 || raw.Height < 0 || len(raw.Pix) < pixels*bpp {
		return barcode.Frame{}, fmt.Errorf("%w: %dx%d %s with %d bytes",
			ErrFrameSize, raw.Width, raw.Height, raw.Order, len(raw.Pix))
	}

	frame := barcode.NewFrame(raw.Width, raw.Height)
	dst := frame.Pix
	src := raw.Pix

	switch raw.Order {
	case ports.OrderRGB:
		copy(dst, src[:pixels*3])
	case ports.OrderBGR:
		for p := 0; p < pixels; p++ {
			i := p * 3
			dst[i], dst[i+1], dst[i+2] = src[i+2], src[i+1], src[i]
		}
	case ports.OrderRGBA:
		for p := 0; p < pixels; p++ {
			dst[p*3], dst[p*3+1], dst[p*3+2] = src[p*4], src[p*4+1], src[p*4+2]
		}
	default:
		return barcode.Frame{}, fmt.Errorf("sample: unsupported channel order %d", raw.Order)
	}

	return frame, nil
}
