package render

import (
	"image"
	"math"
	"strconv"

	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/ports"
)

// Annotated barcode margins in pixels.
const (
	marginTop    = 36
	marginBottom = 56
	marginSide   = 24
	tickLength   = 5
	maxTicks     = 10
	tickLabelGap = 6
)

// BarcodeOptions configures Barcode.
type BarcodeOptions struct {
	Width    int
	Height   int
	ShowAxes bool
	// Title replaces DefaultBarcodeTitle when ShowAxes is set.
	Title string
	// SecondsPerSample scales the time axis; 0 means one second per sample.
	SecondsPerSample float64
}

// Strip builds the 1-row image whose pixel i is colors[i].
func Strip(colors []barcode.AverageColor) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, len(colors), 1))
	for i, c := range colors {
		img.Pix[i*4] = c.R
		img.Pix[i*4+1] = c.G
		img.Pix[i*4+2] = c.B
		img.Pix[i*4+3] = 255
	}
	return img
}

// Barcode renders the color sequence as a barcode.
// Each color becomes one vertical sliver, stretched by nearest-neighbour
// sampling so sliver edges stay hard. Without axes the image is the strip
// alone. An empty sequence yields a zero-width image.
func (s *Stage) Barcode(colors []barcode.AverageColor, opts BarcodeOptions) image.Image {
	if opts.Width <= 0 {
		opts.Width = 1500
	}
	if opts.Height <= 0 {
		opts.Height = 300
	}
	if len(colors) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, opts.Height))
	}

	if !opts.ShowAxes {
		return s.renderer.ResizeImage(Strip(colors), opts.Width, opts.Height, ports.InterpNearest)
	}
	return s.annotatedBarcode(colors, opts)
}

func (s *Stage) annotatedBarcode(colors []barcode.AverageColor, opts BarcodeOptions) image.Image {
	canvas := s.renderer.CreateCanvas(opts.Width, opts.Height, backgroundColor)

	plotX := marginSide
	plotY := marginTop
	plotW := max(opts.Width-2*marginSide, 1)
	plotH := max(opts.Height-marginTop-marginBottom, 1)

	strip := s.renderer.ResizeImage(Strip(colors), plotW, plotH, ports.InterpNearest)
	canvas.DrawImage(strip, plotX, plotY)

	// x axis spine only
	axisY := float64(plotY + plotH)
	canvas.DrawLine(float64(plotX), axisY, float64(plotX+plotW), axisY, axisColor, 1)

	sps := opts.SecondsPerSample
	if sps <= 0 {
		sps = 1
	}
	n := len(colors)
	sliver := float64(plotW) / float64(n)
	last := float64(n-1) * sps
	step := fitTickStep(canvas, tickStep(last, maxTicks), last, sliver/sps)

	for k := 0; ; k++ {
		t := float64(k) * step
		if t > last+step*1e-9 {
			break
		}
		// ticks sit at the center of the sliver they label
		x := float64(plotX) + (t/sps+0.5)*sliver
		canvas.DrawLine(x, axisY, x, axisY+tickLength, axisColor, 1)
		canvas.DrawText(formatTick(t), int(math.Round(x)), int(axisY)+tickLength+9, labelStyle(ports.AlignCenter))
	}

	title := opts.Title
	if title == "" {
		title = DefaultBarcodeTitle
	}
	drawTitle(canvas, title, opts.Width, marginTop/2)
	canvas.DrawText(TimeAxisLabel, plotX+plotW/2, opts.Height-marginBottom/3, labelStyle(ports.AlignCenter))

	return canvas.ToImage()
}

// tickStep returns a 1/2/5 x 10^k step that yields at most maxTicks
// intervals over span.
func tickStep(span float64, maxTicks int) float64 {
	if span <= 0 || maxTicks <= 0 {
		return 1
	}
	raw := span / float64(maxTicks)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, m := range []float64{1, 2, 5, 10} {
		if m*mag >= raw {
			return m * mag
		}
	}
	return 10 * mag
}

// fitTickStep widens step along the 1/2/5 series until the widest tick
// label, plus a gap, fits between neighbouring ticks. pxPerUnit is the
// pixel distance of one time unit on the axis.
func fitTickStep(canvas ports.Canvas, step, last, pxPerUnit float64) float64 {
	style := labelStyle(ports.AlignCenter)
	for range 32 {
		widest := 0.0
		for t := 0.0; t <= last+step*1e-9; t += step {
			if w, _ := canvas.MeasureText(formatTick(t), style); w > widest {
				widest = w
			}
		}
		if step*pxPerUnit >= widest+tickLabelGap {
			break
		}
		step = nextTickStep(step)
	}
	return step
}

// nextTickStep returns the 1/2/5 x 10^k step after step.
func nextTickStep(step float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(step)))
	m := math.Round(step / mag)
	if m >= 10 {
		mag, m = mag*10, m/10
	}
	switch {
	case m < 2:
		return 2 * mag
	case m < 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func formatTick(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
