package mocks

import (
	"image"
	"sync"

	"github.com/user/moviesigdb/pkg/ports"
)

// DebugSink keeps debug artifacts in memory. When disabled it still
// records, so tests can assert stages honor Enabled.
type DebugSink struct {
	enabled bool

	mu     sync.Mutex
	frames []int

	ColorsJSON []byte
	Views      map[string]image.Image
}

// NewDebugSink returns a DebugSink that reports enabled from Enabled.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled, Views: map[string]image.Image{}}
}

func (d *DebugSink) Enabled() bool { return d.enabled }

func (d *DebugSink) SaveSampledFrame(index int, _ image.Image) error {
	d.mu.Lock()
	d.frames = append(d.frames, index)
	d.mu.Unlock()
	return nil
}

func (d *DebugSink) SaveColorsJSON(data []byte) error {
	d.mu.Lock()
	d.ColorsJSON = append([]byte(nil), data...)
	d.mu.Unlock()
	return nil
}

func (d *DebugSink) SaveView(name string, img image.Image) error {
	d.mu.Lock()
	d.Views[name] = img
	d.mu.Unlock()
	return nil
}

// SampledFrameCount reports how many sampled frames were saved.
func (d *DebugSink) SampledFrameCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

var _ ports.DebugSink = (*DebugSink)(nil)
