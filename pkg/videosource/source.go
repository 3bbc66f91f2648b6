// Package videosource opens and validates video files and exposes their
// frame count and native frame rate.
package videosource

import (
	"fmt"
	"path/filepath"

	"github.com/user/moviesigdb/pkg/pipeline"
	"github.com/user/moviesigdb/pkg/ports"
)

// Source opens videos through a decoding backend.
type Source struct {
	opener ports.VideoOpener
	fs     ports.FileSystem
	logger ports.Logger
}

// New creates a new video source.
func New(opener ports.VideoOpener, fs ports.FileSystem, logger ports.Logger) *Source {
	return &Source{
		opener: opener,
		fs:     fs,
		logger: logger.WithComponent("videosource"),
	}
}

// Open validates path and opens it for frame reading.
// The returned Handle is owned by the caller and must be closed.
func (s *Source) Open(path string) (*Handle, error) {
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidArgument, path)
	}

	isFile, err := s.fs.IsFile(path)
	if err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}
	if !isFile {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	s.logger.Debug("Opening video %s", path)

	inner, err := s.opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	info := inner.Info()
	info.Path = path
	if info.FPS <= 0 {
		s.logger.Warn("Frame rate unknown, assuming %.1f fps", pipeline.DefaultFPS)
		info.FPS = pipeline.DefaultFPS
	}
	if info.FrameCount < 0 {
		info.FrameCount = 0
	}

	s.logger.Debug("Video opened: %dx%d, %.3f fps, %d frames (%s)",
		info.Width, info.Height, info.FPS, info.FrameCount, info.Backend)

	return &Handle{inner: inner, info: info}, nil
}

// Handle is an opened video with normalized metadata.
// It is not safe for concurrent use.
type Handle struct {
	inner ports.VideoHandle
	info  ports.VideoInfo
}

// Path returns the absolute path of the video.
func (h *Handle) Path() string { return h.info.Path }

// FPS returns the native frame rate; always positive.
func (h *Handle) FPS() float64 { return h.info.FPS }

// FrameCount returns the total number of frames reported by the container.
func (h *Handle) FrameCount() int { return h.info.FrameCount }

// Info implements ports.VideoHandle.
func (h *Handle) Info() ports.VideoInfo { return h.info }

// ReadFrameAt implements ports.VideoHandle.
func (h *Handle) ReadFrameAt(position int) (ports.RawFrame, error) {
	return h.inner.ReadFrameAt(position)
}

// Close releases the decoder.
func (h *Handle) Close() error {
	return h.inner.Close()
}

var _ ports.VideoHandle = (*Handle)(nil)
