package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSampledFrame saves a frame picked by the sampler.
	SaveSampledFrame(index int, img image.Image) error

	// SaveColorsJSON saves the reduced average colors as JSON.
	SaveColorsJSON(data []byte) error

	// SaveView saves a rendered view (barcode, scatter, polar) by name.
	SaveView(name string, img image.Image) error
}
