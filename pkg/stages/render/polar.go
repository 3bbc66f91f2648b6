package render

import (
	"fmt"
	"image"
	"math"

	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/ports"
)

const (
	polarAlpha  = 0.75
	polarRadius = 5.0
)

// Saturation rings and their labels.
var polarRings = []struct {
	radius float64
	label  string
}{
	{0.25, "Gray"},
	{0.5, "Muted"},
	{0.75, "Vibrant"},
	{1.0, "Neon"},
}

// PolarPoint returns the polar coordinates of c: the angle is hue in
// radians counterclockwise from east and the radius is saturation.
func PolarPoint(c barcode.AverageColor) (theta, radius float64) {
	h, s, _ := c.HSV()
	return h * 2 * math.Pi, s
}

// Polar plots each color on a hue/saturation wheel.
func (s *Stage) Polar(colors []barcode.AverageColor, width, height int) image.Image {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 800
	}

	canvas := s.renderer.CreateCanvas(width, height, backgroundColor)
	const titleSpace = 56
	const pad = 48

	cx := float64(width) / 2
	cy := float64(titleSpace) + float64(height-titleSpace)/2
	outer := math.Max(math.Min(float64(width), float64(height-titleSpace))/2-pad, 1)

	// angular grid every 45 degrees
	for deg := 0; deg < 360; deg += 45 {
		a := float64(deg) * math.Pi / 180
		x := cx + outer*math.Cos(a)
		y := cy - outer*math.Sin(a)
		canvas.DrawLine(cx, cy, x, y, gridColor, 1)
		canvas.DrawText(fmt.Sprintf("%d°", deg),
			int(cx+(outer+20)*math.Cos(a)), int(cy-(outer+20)*math.Sin(a)), labelStyle(ports.AlignCenter))
	}

	// radial labels sit along 22.5 degrees
	labelAngle := 22.5 * math.Pi / 180
	for _, ring := range polarRings {
		r := ring.radius * outer
		canvas.DrawCircleStroke(cx, cy, r, gridColor, 1)
		canvas.DrawText(ring.label,
			int(cx+r*math.Cos(labelAngle)), int(cy-r*math.Sin(labelAngle)), labelStyle(ports.AlignLeft))
	}

	for _, c := range colors {
		theta, radius := PolarPoint(c)
		x := cx + radius*outer*math.Cos(theta)
		y := cy - radius*outer*math.Sin(theta)
		canvas.DrawCircle(x, y, polarRadius, colorOf(c, polarAlpha))
	}

	drawTitle(canvas, PolarTitle, width, titleSpace/2)
	return canvas.ToImage()
}
