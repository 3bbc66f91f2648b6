// Package smartsource selects a video decoding backend and fills in
// metadata that a backend could not report.
package smartsource

import (
	"errors"
	"fmt"
	"strings"

	"github.com/user/moviesigdb/pkg/adapters/ffmpegsource"
	"github.com/user/moviesigdb/pkg/adapters/mp4probe"
	"github.com/user/moviesigdb/pkg/adapters/vidiosource"
	"github.com/user/moviesigdb/pkg/ports"
)

// Backend names a decoding backend.
type Backend string

const (
	// BackendAuto uses Vidio when ffprobe is available and ffmpeg otherwise.
	BackendAuto Backend = "auto"
	// BackendVidio decodes through github.com/AlexEidt/Vidio.
	BackendVidio Backend = "vidio"
	// BackendFFmpeg decodes single frames with an ffmpeg subprocess.
	BackendFFmpeg Backend = "ffmpeg"
)

// ErrUnknownBackend is returned by ParseBackend for unrecognized names.
var ErrUnknownBackend = errors.New("smartsource: unknown backend")

// ParseBackend parses a backend name. The empty string means auto.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendVidio, BackendFFmpeg:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Options configures backend selection.
type Options struct {
	Backend Backend
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
}

// Opener implements ports.VideoOpener over the available backends.
type Opener struct {
	backend Backend
	vidio   ports.VideoOpener
	ffmpeg  ports.VideoOpener

	vidioAvailable func() bool
	probe          func(path string) (mp4probe.Info, error)
}

// New creates an opener for the configured backend.
func New(opts Options) *Opener {
	backend := opts.Backend
	if backend == "" {
		backend = BackendAuto
	}
	return &Opener{
		backend:        backend,
		vidio:          vidiosource.New(),
		ffmpeg:         ffmpegsource.New(ffmpegsource.Options{FFmpegPath: opts.FFmpegPath}),
		vidioAvailable: vidiosource.IsAvailable,
		probe:          mp4probe.ProbeFile,
	}
}

// Open opens path with the selected backend.
//
// The selection flow:
//   - vidio / ffmpeg: use that backend only
//   - auto: Vidio when ffprobe is available, then ffmpeg if Vidio fails
func (o *Opener) Open(path string) (ports.VideoHandle, error) {
	h, err := o.open(path)
	if err != nil {
		return nil, err
	}
	return o.completeFrameCount(h), nil
}

func (o *Opener) open(path string) (ports.VideoHandle, error) {
	switch o.backend {
	case BackendVidio:
		return o.vidio.Open(path)
	case BackendFFmpeg:
		return o.ffmpeg.Open(path)
	case BackendAuto:
		if o.vidioAvailable() {
			h, vidioErr := o.vidio.Open(path)
			if vidioErr == nil {
				return h, nil
			}
			h, err := o.ffmpeg.Open(path)
			if err != nil {
				return nil, errors.Join(vidioErr, err)
			}
			return h, nil
		}
		return o.ffmpeg.Open(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, o.backend)
	}
}

// completeFrameCount substitutes the container index count when the
// backend reported none.
func (o *Opener) completeFrameCount(h ports.VideoHandle) ports.VideoHandle {
	info := h.Info()
	if info.FrameCount > 0 {
		return h
	}

	meta, err := o.probe(info.Path)
	if err != nil || meta.FrameCount <= 0 {
		return h
	}

	info.FrameCount = meta.FrameCount
	if info.FPS <= 0 {
		info.FPS = meta.FPS
	}
	return &patchedHandle{VideoHandle: h, info: info}
}

type patchedHandle struct {
	ports.VideoHandle
	info ports.VideoInfo
}

func (h *patchedHandle) Info() ports.VideoInfo {
	return h.info
}

var _ ports.VideoOpener = (*Opener)(nil)
