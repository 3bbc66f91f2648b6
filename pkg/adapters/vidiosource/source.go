// Package vidiosource decodes videos through github.com/AlexEidt/Vidio,
// which drives ffprobe for metadata and ffmpeg for RGBA frames.
package vidiosource

import (
	"errors"
	"fmt"
	"os/exec"

	vidio "github.com/AlexEidt/Vidio"

	"github.com/user/moviesigdb/pkg/ports"
)

// BackendName identifies this backend in VideoInfo.
const BackendName = "vidio"

// ErrFFprobeNotFound is returned when ffprobe is not on PATH.
var ErrFFprobeNotFound = errors.New("vidiosource: ffprobe not found in PATH")

// IsAvailable reports whether Vidio can run (it needs ffmpeg and ffprobe on PATH).
func IsAvailable() bool {
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return false
	}
	_, err := exec.LookPath("ffmpeg")
	return err == nil
}

// Opener opens videos with Vidio.
type Opener struct{}

// New creates a new Vidio opener.
func New() *Opener {
	return &Opener{}
}

// Open implements ports.VideoOpener.
func (o *Opener) Open(path string) (ports.VideoHandle, error) {
	if !IsAvailable() {
		return nil, ErrFFprobeNotFound
	}

	video, err := vidio.NewVideo(path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}

	return &handle{
		video: video,
		info: ports.VideoInfo{
			Path:       path,
			FPS:        video.FPS(),
			FrameCount: video.Frames(),
			Width:      video.Width(),
			Height:     video.Height(),
			Codec:      video.Codec(),
			Backend:    BackendName,
		},
	}, nil
}

// frameReader is the part of *vidio.Video the handle drives.
type frameReader interface {
	Read() bool
	ReadFrame(n int) error
	FrameBuffer() []byte
	Width() int
	Height() int
	Close()
}

// handle streams frames from one ffmpeg process. next is the index of the
// frame the following Read will produce.
type handle struct {
	video frameReader
	info  ports.VideoInfo
	next  int
	ended bool
}

func (h *handle) Info() ports.VideoInfo {
	return h.info
}

// ReadFrameAt moves forward through the stream, discarding frames until it
// reaches position, so increasing positions decode the file once in total.
// A position behind the cursor costs a separate ReadFrame call.
// The frame buffer is copied because Vidio reuses it between reads.
func (h *handle) ReadFrameAt(position int) (ports.RawFrame, error) {
	if position < 0 {
		return ports.RawFrame{}, fmt.Errorf("read frame %d: negative position", position)
	}

	if position < h.next {
		if err := h.video.ReadFrame(position); err != nil {
			return ports.RawFrame{}, fmt.Errorf("read frame %d: %w", position, err)
		}
	} else {
		for h.next <= position {
			if h.ended || !h.video.Read() {
				h.ended = true
				return ports.RawFrame{}, fmt.Errorf("read frame %d: stream ended after %d frames", position, h.next)
			}
			h.next++
		}
	}

	buf := h.video.FrameBuffer()
	pix := make([]byte, len(buf))
	copy(pix, buf)

	return ports.RawFrame{
		Width:  h.video.Width(),
		Height: h.video.Height(),
		Order:  ports.OrderRGBA,
		Pix:    pix,
	}, nil
}

func (h *handle) Close() error {
	h.video.Close()
	return nil
}

var _ ports.VideoOpener = (*Opener)(nil)
var _ ports.VideoHandle = (*handle)(nil)
