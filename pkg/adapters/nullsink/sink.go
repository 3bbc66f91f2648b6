// Package nullsink discards debug artifacts.
package nullsink

import (
	"image"

	"github.com/user/moviesigdb/pkg/ports"
)

// Sink drops every sampled frame, color dump and view it receives.
type Sink struct{}

var _ ports.DebugSink = Sink{}

// New returns a Sink. Callers that never enable debugging use it in
// place of a filesink.
func New() Sink { return Sink{} }

func (Sink) Enabled() bool { return false }
func (Sink) SaveSampledFrame(int, image.Image) error { return nil }
func (Sink) SaveColorsJSON([]byte) error { return nil }
func (Sink) SaveView(string, image.Image) error { return nil }
