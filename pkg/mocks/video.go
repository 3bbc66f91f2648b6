package mocks

import (
	"errors"

	"github.com/user/moviesigdb/pkg/ports"
)

// ErrEndOfStream is returned by VideoHandle past its last decodable frame.
var ErrEndOfStream = errors.New("mocks: end of stream")

// VideoHandle is a mock implementation of ports.VideoHandle.
// By default every position below DecodableFrames decodes to a solid frame
// whose color is produced by ColorAt.
type VideoHandle struct {
	VideoInfo       ports.VideoInfo
	DecodableFrames int
	Order           ports.ChannelOrder
	Width, Height   int

	ReadFrameAtFunc func(position int) (ports.RawFrame, error)
	ColorAt         func(position int) (r, g, b uint8)

	// Recorded calls for verification
	Positions []int
	Closed    bool
}

func (m *VideoHandle) Info() ports.VideoInfo {
	return m.VideoInfo
}

func (m *VideoHandle) ReadFrameAt(position int) (ports.RawFrame, error) {
	m.Positions = append(m.Positions, position)
	if m.ReadFrameAtFunc != nil {
		return m.ReadFrameAtFunc(position)
	}
	if position >= m.DecodableFrames {
		return ports.RawFrame{}, ErrEndOfStream
	}

	width, height := m.Width, m.Height
	if width == 0 || height == 0 {
		width, height = 4, 3
	}
	var r, g, b uint8
	if m.ColorAt != nil {
		r, g, b = m.ColorAt(position)
	}
	return SolidRawFrame(width, height, m.Order, r, g, b), nil
}

func (m *VideoHandle) Close() error {
	m.Closed = true
	return nil
}

var _ ports.VideoHandle = (*VideoHandle)(nil)

// SolidRawFrame builds a single-color frame in the given channel order.
func SolidRawFrame(width, height int, order ports.ChannelOrder, r, g, b uint8) ports.RawFrame {
	bpp := order.BytesPerPixel()
	pix := make([]byte, width*height*bpp)
	for i := 0; i < len(pix); i += bpp {
		switch order {
		case ports.OrderBGR:
			pix[i], pix[i+1], pix[i+2] = b, g, r
		case ports.OrderRGBA:
			pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, 255
		default:
			pix[i], pix[i+1], pix[i+2] = r, g, b
		}
	}
	return ports.RawFrame{Width: width, Height: height, Order: order, Pix: pix}
}

// VideoOpener is a mock implementation of ports.VideoOpener.
type VideoOpener struct {
	OpenFunc func(path string) (ports.VideoHandle, error)
	Handle   *VideoHandle

	OpenedPaths []string
}

func (m *VideoOpener) Open(path string) (ports.VideoHandle, error) {
	m.OpenedPaths = append(m.OpenedPaths, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}
	if m.Handle == nil {
		return nil, errors.New("mocks: no handle configured")
	}
	return m.Handle, nil
}

var _ ports.VideoOpener = (*VideoOpener)(nil)
