package barcode

import (
	"image"
)

// Frame is a decoded video frame as dense RGB, 3 bytes per pixel, row-major.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a black frame.
func NewFrame(width, height int) Frame {
	return Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Set writes the pixel at (x, y).
func (f Frame) Set(x, y int, c AverageColor) {
	i := (y*f.Width + x) * 3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = c.R, c.G, c.B
}

// At reads the pixel at (x, y).
func (f Frame) At(x, y int) AverageColor {
	i := (y*f.Width + x) * 3
	return AverageColor{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2]}
}

// Image converts the frame to an image.RGBA for encoding.
func (f Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i+2 < len(f.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 255
	}
	return img
}
