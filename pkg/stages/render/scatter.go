package render

import (
	"image"
	"math"
	"sort"
	"strconv"

	"github.com/user/moviesigdb/pkg/barcode"
	"github.com/user/moviesigdb/pkg/ports"
)

const (
	scatterAlpha  = 0.8
	scatterRadius = 5.0

	// Camera angles in degrees.
	scatterAzimuth   = -60.0
	scatterElevation = 30.0
)

// projection maps RGB cube coordinates to canvas pixels orthographically.
type projection struct {
	sinA, cosA float64
	sinE, cosE float64
	scale      float64
	cx, cy     float64
}

func newProjection(width, height, top int) projection {
	a := scatterAzimuth * math.Pi / 180
	e := scatterElevation * math.Pi / 180
	p := projection{
		sinA: math.Sin(a), cosA: math.Cos(a),
		sinE: math.Sin(e), cosE: math.Cos(e),
		scale: 1,
	}

	// fit the projected cube corners into the plot area
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, v := range [2]float64{0, 255} {
		for _, w := range [2]float64{0, 255} {
			for _, z := range [2]float64{0, 255} {
				x, y, _ := p.raw(v, w, z)
				minX, maxX = math.Min(minX, x), math.Max(maxX, x)
				minY, maxY = math.Min(minY, y), math.Max(maxY, y)
			}
		}
	}

	const pad = 70
	availW := math.Max(float64(width-2*pad), 1)
	availH := math.Max(float64(height-top-2*pad), 1)
	p.scale = math.Min(availW/(maxX-minX), availH/(maxY-minY))
	p.cx = float64(width)/2 - (minX+maxX)/2*p.scale
	p.cy = float64(top) + float64(height-top)/2 + (minY+maxY)/2*p.scale
	return p
}

// raw returns screen coordinates (y up) and depth (larger is nearer the
// camera) for a point centered on the cube.
func (p projection) raw(r, g, b float64) (x, y, depth float64) {
	r, g, b = r-127.5, g-127.5, b-127.5
	x = -p.sinA*r + p.cosA*g
	y = -p.sinE*p.cosA*r - p.sinE*p.sinA*g + p.cosE*b
	depth = p.cosE*p.cosA*r + p.cosE*p.sinA*g + p.sinE*b
	return x, y, depth
}

// point returns canvas coordinates and depth.
func (p projection) point(r, g, b float64) (x, y, depth float64) {
	rx, ry, d := p.raw(r, g, b)
	return p.cx + rx*p.scale, p.cy - ry*p.scale, d
}

// Scatter3D plots each color as a point in the RGB cube, colored by itself.
// Points are drawn far to near so nearer points cover farther ones.
func (s *Stage) Scatter3D(colors []barcode.AverageColor, width, height int) image.Image {
	if width <= 0 {
		width = 1000
	}
	if height <= 0 {
		height = 800
	}

	canvas := s.renderer.CreateCanvas(width, height, backgroundColor)
	const titleSpace = 40
	proj := newProjection(width, height, titleSpace)

	drawCube(canvas, proj)

	type plotted struct {
		x, y, depth float64
		c           barcode.AverageColor
	}
	points := make([]plotted, len(colors))
	for i, c := range colors {
		x, y, d := proj.point(float64(c.R), float64(c.G), float64(c.B))
		points[i] = plotted{x: x, y: y, depth: d, c: c}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].depth < points[j].depth
	})
	for _, pt := range points {
		canvas.DrawCircle(pt.x, pt.y, scatterRadius, colorOf(pt.c, scatterAlpha))
	}

	drawTitle(canvas, ScatterTitle, width, titleSpace/2)
	return canvas.ToImage()
}

// drawCube draws the cube edges, per-axis ticks and axis labels.
func drawCube(canvas ports.Canvas, proj projection) {
	corners := [8][3]float64{}
	for i := 0; i < 8; i++ {
		corners[i] = [3]float64{
			float64(i&1) * 255,
			float64(i>>1&1) * 255,
			float64(i>>2&1) * 255,
		}
	}
	for i := 0; i < 8; i++ {
		for bit := 0; bit < 3; bit++ {
			j := i | 1<<bit
			if j == i {
				continue
			}
			x1, y1, _ := proj.point(corners[i][0], corners[i][1], corners[i][2])
			x2, y2, _ := proj.point(corners[j][0], corners[j][1], corners[j][2])
			canvas.DrawLine(x1, y1, x2, y2, gridColor, 1)
		}
	}

	// Axis edges: red along the front bottom, green along the right bottom,
	// blue up the front left.
	axes := []struct {
		label string
		at    func(v float64) (r, g, b float64)
		out   [2]float64 // label offset direction on screen
	}{
		{"Red Channel", func(v float64) (float64, float64, float64) { return v, 0, 0 }, [2]float64{-1, 1}},
		{"Green Channel", func(v float64) (float64, float64, float64) { return 255, v, 0 }, [2]float64{1, 1}},
		{"Blue Channel", func(v float64) (float64, float64, float64) { return 0, 0, v }, [2]float64{-1, 0}},
	}

	for _, axis := range axes {
		for v := 0.0; v <= 255; v += 50 {
			x, y, _ := proj.point(axis.at(v))
			canvas.DrawLine(x, y, x+axis.out[0]*tickLength, y+axis.out[1]*tickLength, axisColor, 1)
			canvas.DrawText(strconv.Itoa(int(v)),
				int(x+axis.out[0]*18), int(y+axis.out[1]*14), labelStyle(ports.AlignCenter))
		}
		x, y, _ := proj.point(axis.at(127.5))
		canvas.DrawText(axis.label, int(x+axis.out[0]*60), int(y+axis.out[1]*38), labelStyle(ports.AlignCenter))
	}
}
