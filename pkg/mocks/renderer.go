package mocks

import (
	"image"
	"image/color"

	"github.com/user/moviesigdb/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodeImageFunc  func(data []byte, format ports.ImageFormat) (image.Image, error)
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int, interp ports.Interpolation) image.Image

	// Canvases records every canvas handed out by CreateCanvas.
	Canvases []*Canvas
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	c := &Canvas{width: width, height: height}
	m.Canvases = append(m.Canvases, c)
	return c
}

func (m *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data, format)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int, interp ports.Interpolation) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height, interp)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas that records text and points.
type Canvas struct {
	width  int
	height int
	img    *image.RGBA

	Texts   []string
	Circles []CircleCall
}

// CircleCall records a call to DrawCircle.
type CircleCall struct {
	X, Y, Radius float64
	Color        color.Color
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {}

func (m *Canvas) DrawCircle(x, y, radius float64, c color.Color) {
	m.Circles = append(m.Circles, CircleCall{X: x, Y: y, Radius: radius, Color: c})
}

func (m *Canvas) DrawCircleStroke(x, y, radius float64, c color.Color, strokeWidth float64) {}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Texts = append(m.Texts, text)
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (width, height float64) {
	return float64(len(text) * 7), 13
}

func (m *Canvas) DrawLine(x1, y1, x2, y2 float64, c color.Color, width float64) {}

func (m *Canvas) ToImage() image.Image {
	if m.img != nil {
		return m.img
	}
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

// HasText reports whether DrawText was called with the text (for test verification).
func (m *Canvas) HasText(text string) bool {
	for _, t := range m.Texts {
		if t == text {
			return true
		}
	}
	return false
}

var _ ports.Canvas = (*Canvas)(nil)
