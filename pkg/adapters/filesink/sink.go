// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/moviesigdb/pkg/ports"
)

// maxFrameWidth bounds the width of saved sample frames.
const maxFrameWidth = 480

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSampledFrame saves a sampled frame as JPEG, downscaled to maxFrameWidth.
func (s *Sink) SaveSampledFrame(index int, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxFrameWidth {
		height := bounds.Dy() * maxFrameWidth / bounds.Dx()
		if height < 1 {
			height = 1
		}
		img = s.renderer.ResizeImage(img, maxFrameWidth, height, ports.InterpSmooth)
	}

	data, err := s.renderer.EncodeImage(img, ports.FormatJPEG, 85)
	if err != nil {
		return fmt.Errorf("encode sampled frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("sample-%05d.jpg", index))
	return s.fs.WriteFile(path, data)
}

// SaveColorsJSON saves the reduced average colors as JSON.
func (s *Sink) SaveColorsJSON(data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	path := filepath.Join(s.baseDir, "colors.json")
	return s.fs.WriteFile(path, data)
}

// SaveView saves a rendered view as PNG.
func (s *Sink) SaveView(name string, img image.Image) error {
	dir := filepath.Join(s.baseDir, "views")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}

	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode %s view: %w", name, err)
	}
	path := filepath.Join(dir, name+".png")
	return s.fs.WriteFile(path, data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
