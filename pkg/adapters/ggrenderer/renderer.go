// Package ggrenderer provides a renderer implementation using the gg library.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/moviesigdb/pkg/ports"
)

// Renderer implements ports.Renderer using the gg library.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// CreateCanvas creates a new drawing canvas.
func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc}
}

// DecodeImage decodes image data into an image.Image.
func (r *Renderer) DecodeImage(data []byte, format ports.ImageFormat) (image.Image, error) {
	reader := bytes.NewReader(data)

	switch format {
	case ports.FormatJPEG:
		return jpeg.Decode(reader)
	case ports.FormatPNG:
		return png.Decode(reader)
	default:
		img, _, err := image.Decode(reader)
		return img, err
	}
}

// EncodeImage encodes an image to the specified format.
func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		opts := &jpeg.Options{Quality: quality}
		if err := jpeg.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	return buf.Bytes(), nil
}

// ResizeImage resizes an image to the specified dimensions.
// A zero-area source or target yields an empty image of the target size.
func (r *Renderer) ResizeImage(img image.Image, width, height int, interp ports.Interpolation) image.Image {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if img.Bounds().Empty() || dst.Bounds().Empty() {
		return dst
	}

	var scaler draw.Scaler = draw.NearestNeighbor
	if interp == ports.InterpSmooth {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Canvas implements ports.Canvas using gg.Context.
type Canvas struct {
	dc *gg.Context
}

// DrawImage draws an image at the specified position.
func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// DrawCircle draws a filled circle.
func (c *Canvas) DrawCircle(x, y, radius float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawCircle(x, y, radius)
	c.dc.Fill()
}

// DrawCircleStroke draws a circle outline.
func (c *Canvas) DrawCircleStroke(x, y, radius float64, col color.Color, strokeWidth float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(strokeWidth)
	c.dc.DrawCircle(x, y, radius)
	c.dc.Stroke()
}

// DrawText draws text at the specified position.
// Without a font path the built-in 7x13 bitmap face is used.
func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.dc.SetColor(style.Color)
	c.loadFont(style)

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}

	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

// MeasureText returns the width and height of the text.
func (c *Canvas) MeasureText(text string, style ports.TextStyle) (width, height float64) {
	c.loadFont(style)
	return c.dc.MeasureString(text)
}

// loadFont switches to the style's font face. A face that cannot be loaded
// leaves the current one, initially the bitmap face, in place.
func (c *Canvas) loadFont(style ports.TextStyle) {
	if style.FontPath == "" || style.FontSize <= 0 {
		return
	}
	_ = c.dc.LoadFontFace(style.FontPath, style.FontSize)
}

// DrawLine draws a line between two points.
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

// ToImage returns the canvas as an image.Image.
func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

// Ensure Canvas implements ports.Canvas
var _ ports.Canvas = (*Canvas)(nil)
