// Package barcode defines the movie barcode data model: frames, average
// colors and the metadata record embedded in saved barcodes.
package barcode

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
)

// AverageColor is the mean color of one sampled frame.
// It encodes to JSON as a 3-element integer array.
type AverageColor struct {
	R, G, B uint8
}

// RGBA returns the color as an opaque color.RGBA.
func (c AverageColor) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// WithAlpha returns the color blended at the given opacity (0-1).
func (c AverageColor) WithAlpha(alpha float64) color.NRGBA {
	a := math.Max(0, math.Min(1, alpha))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a * 255))}
}

// Hex returns the color as #rrggbb.
func (c AverageColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Normalized returns the channels scaled to [0,1].
func (c AverageColor) Normalized() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// HSV converts the color to hue, saturation and value, each in [0,1].
// The conversion matches Python's colorsys.rgb_to_hsv.
func (c AverageColor) HSV() (h, s, v float64) {
	r, g, b := c.Normalized()
	maxc := math.Max(r, math.Max(g, b))
	minc := math.Min(r, math.Min(g, b))
	v = maxc
	if minc == maxc {
		return 0, 0, v
	}
	s = (maxc - minc) / maxc
	rc := (maxc - r) / (maxc - minc)
	gc := (maxc - g) / (maxc - minc)
	bc := (maxc - b) / (maxc - minc)
	switch {
	case r == maxc:
		h = bc - gc
	case g == maxc:
		h = 2.0 + rc - bc
	default:
		h = 4.0 + gc - rc
	}
	h = math.Mod(h/6.0, 1.0)
	if h < 0 {
		h += 1.0
	}
	return h, s, v
}

// MarshalJSON encodes the color as [r, g, b].
func (c AverageColor) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{int(c.R), int(c.G), int(c.B)})
}

// UnmarshalJSON decodes a [r, g, b] array with channels in [0,255].
func (c *AverageColor) UnmarshalJSON(data []byte) error {
	var channels []int
	if err := json.Unmarshal(data, &channels); err != nil {
		return fmt.Errorf("decode color: %w", err)
	}
	if len(channels) != 3 {
		return fmt.Errorf("decode color: expected 3 channels, got %d", len(channels))
	}
	for _, v := range channels {
		if v < 0 || v > 255 {
			return fmt.Errorf("decode color: channel %d out of range", v)
		}
	}
	c.R, c.G, c.B = uint8(channels[0]), uint8(channels[1]), uint8(channels[2])
	return nil
}
