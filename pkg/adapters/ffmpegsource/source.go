// Package ffmpegsource decodes single frames with an ffmpeg subprocess.
// Metadata comes from the MP4 container index when possible and from
// ffmpeg's stream banner otherwise.
package ffmpegsource

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/user/moviesigdb/pkg/adapters/mp4probe"
	"github.com/user/moviesigdb/pkg/ports"
)

// BackendName identifies this backend in VideoInfo.
const BackendName = "ffmpeg"

var (
	// ErrFFmpegNotFound is returned when ffmpeg is not found in PATH or common locations.
	ErrFFmpegNotFound = errors.New("ffmpegsource: ffmpeg not found in PATH")

	// ErrNoVideoStream is returned when ffmpeg reports no usable video stream.
	ErrNoVideoStream = errors.New("ffmpegsource: no video stream found")

	// ErrShortFrame is returned when ffmpeg emits fewer bytes than one frame.
	ErrShortFrame = errors.New("ffmpegsource: incomplete frame")
)

// Options configures the ffmpeg backend.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
}

// Opener opens videos for ffmpeg-based frame extraction.
type Opener struct {
	opts Options
}

// New creates a new ffmpeg opener.
func New(opts Options) *Opener {
	return &Opener{opts: opts}
}

// IsAvailable reports whether an ffmpeg binary can be located.
func IsAvailable(customPath string) bool {
	_, err := findFFmpeg(customPath)
	return err == nil
}

// findFFmpeg searches for ffmpeg in PATH and common locations.
// A non-empty customPath takes precedence and must exist.
func findFFmpeg(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, customPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}

	path, err := exec.LookPath(execName)
	if err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

// Open implements ports.VideoOpener.
func (o *Opener) Open(path string) (ports.VideoHandle, error) {
	ffmpegPath, err := findFFmpeg(o.opts.FFmpegPath)
	if err != nil {
		return nil, err
	}

	info, err := probe(ffmpegPath, path)
	if err != nil {
		return nil, err
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("%w: unknown frame size", ErrNoVideoStream)
	}

	return &handle{ffmpegPath: ffmpegPath, info: info}, nil
}

// probe reads metadata from the MP4 index, falling back to ffmpeg's banner
// for other containers.
func probe(ffmpegPath, path string) (ports.VideoInfo, error) {
	info := ports.VideoInfo{Path: path, Backend: BackendName}

	meta, err := mp4probe.ProbeFile(path)
	if err == nil {
		info.FPS = meta.FPS
		info.FrameCount = meta.FrameCount
		info.Width = meta.Width
		info.Height = meta.Height
		info.Codec = string(meta.Codec)
		return info, nil
	}
	if errors.Is(err, mp4probe.ErrNoVideoTrack) {
		return info, ErrNoVideoStream
	}

	// ffmpeg exits non-zero when given no output; the banner is still printed.
	var stderr bytes.Buffer
	cmd := exec.Command(ffmpegPath, "-hide_banner", "-i", path)
	cmd.Stderr = &stderr
	_ = cmd.Run()

	stream, ok := parseStreamBanner(stderr.String())
	if !ok {
		return info, fmt.Errorf("%w: %s", ErrNoVideoStream, lastLine(stderr.String()))
	}
	info.FPS = stream.fps
	info.FrameCount = stream.frameCount()
	info.Width = stream.width
	info.Height = stream.height
	info.Codec = stream.codec
	return info, nil
}

var (
	videoStreamRe = regexp.MustCompile(`Stream #\d+:\d+.*?: Video: (\w+).*?, (\d{2,5})x(\d{2,5})`)
	fpsRe         = regexp.MustCompile(`([\d.]+) fps`)
	durationRe    = regexp.MustCompile(`Duration: (\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)
)

type bannerStream struct {
	codec    string
	width    int
	height   int
	fps      float64
	duration float64 // seconds
}

func (s bannerStream) frameCount() int {
	if s.fps <= 0 || s.duration <= 0 {
		return 0
	}
	return int(s.duration*s.fps + 0.5)
}

// parseStreamBanner extracts the first video stream from `ffmpeg -i` output.
func parseStreamBanner(banner string) (bannerStream, bool) {
	var s bannerStream

	loc := videoStreamRe.FindStringSubmatchIndex(banner)
	if loc == nil {
		return s, false
	}
	s.codec = banner[loc[2]:loc[3]]
	s.width, _ = strconv.Atoi(banner[loc[4]:loc[5]])
	s.height, _ = strconv.Atoi(banner[loc[6]:loc[7]])

	// fps is on the same line as the stream header
	line := banner[loc[0]:]
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if fm := fpsRe.FindStringSubmatch(line); fm != nil {
		s.fps, _ = strconv.ParseFloat(fm[1], 64)
	}

	if dm := durationRe.FindStringSubmatch(banner); dm != nil {
		h, _ := strconv.Atoi(dm[1])
		m, _ := strconv.Atoi(dm[2])
		sec, _ := strconv.ParseFloat(dm[3], 64)
		s.duration = float64(h*3600+m*60) + sec
	}

	return s, true
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

type handle struct {
	ffmpegPath string
	info       ports.VideoInfo
	closed     bool
}

func (h *handle) Info() ports.VideoInfo {
	return h.info
}

// ReadFrameAt decodes the frame at position as raw BGR24.
// Each call runs one ffmpeg process that seeks near the frame, so the cost
// does not grow with the position.
func (h *handle) ReadFrameAt(position int) (ports.RawFrame, error) {
	if h.closed {
		return ports.RawFrame{}, errors.New("ffmpegsource: handle closed")
	}
	if position < 0 {
		return ports.RawFrame{}, fmt.Errorf("read frame %d: negative position", position)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(h.ffmpegPath, frameArgs(h.info.Path, position, h.info.FPS)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return ports.RawFrame{}, fmt.Errorf("ffmpeg decode failed: %w\nstderr: %s", err, stderr.String())
	}

	size := h.info.Width * h.info.Height * ports.OrderBGR.BytesPerPixel()
	if stdout.Len() < size {
		return ports.RawFrame{}, fmt.Errorf("%w: frame %d: got %d of %d bytes", ErrShortFrame, position, stdout.Len(), size)
	}

	return ports.RawFrame{
		Width:  h.info.Width,
		Height: h.info.Height,
		Order:  ports.OrderBGR,
		Pix:    stdout.Bytes()[:size],
	}, nil
}

// frameArgs builds the ffmpeg arguments that emit the frame at position.
// With a known frame rate ffmpeg seeks on the input to half a frame before
// the target and outputs the first frame at or after it. Without one it
// falls back to a select filter, which decodes every preceding frame.
func frameArgs(path string, position int, fps float64) []string {
	args := []string{"-v", "error"}
	if fps > 0 {
		if position > 0 {
			seek := (float64(position) - 0.5) / fps
			args = append(args, "-ss", strconv.FormatFloat(seek, 'f', 6, 64))
		}
		args = append(args, "-i", path)
	} else {
		args = append(args,
			"-i", path,
			"-vf", fmt.Sprintf(`select=eq(n\,%d)`, position),
			"-vsync", "0",
		)
	}
	return append(args,
		"-frames:v", "1",
		"-f", "rawvideo",
		"-pix_fmt", ports.OrderBGR.String(),
		"pipe:1",
	)
}

func (h *handle) Close() error {
	h.closed = true
	return nil
}

var _ ports.VideoOpener = (*Opener)(nil)
var _ ports.VideoHandle = (*handle)(nil)
