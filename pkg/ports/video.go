// Package ports defines interfaces for external dependencies.
package ports

// ChannelOrder describes how a decoder lays out the channels of one pixel.
type ChannelOrder int

const (
	// OrderRGB is 3 bytes per pixel: red, green, blue.
	OrderRGB ChannelOrder = iota
	// OrderBGR is 3 bytes per pixel: blue, green, red.
	OrderBGR
	// OrderRGBA is 4 bytes per pixel: red, green, blue, alpha.
	OrderRGBA
)

// BytesPerPixel returns the pixel stride for the channel order.
func (o ChannelOrder) BytesPerPixel() int {
	if o == OrderRGBA {
		return 4
	}
	return 3
}

// String returns the ffmpeg-style name of the channel order.
func (o ChannelOrder) String() string {
	switch o {
	case OrderRGB:
		return "rgb24"
	case OrderBGR:
		return "bgr24"
	case OrderRGBA:
		return "rgba"
	default:
		return "unknown"
	}
}

// RawFrame is a decoded frame in the decoder's native channel order.
type RawFrame struct {
	Width  int
	Height int
	Order  ChannelOrder
	Pix    []byte // Row-major, Width*Height*Order.BytesPerPixel() bytes
}

// VideoInfo contains container metadata of an opened video.
type VideoInfo struct {
	Path       string
	FPS        float64 // As reported by the container; may be <= 0
	FrameCount int
	Width      int
	Height     int
	Codec      string
	Backend    string
}

// VideoHandle is an opened, decodable video.
// Reads move the decode cursor, so a handle must not be shared between
// concurrent readers.
type VideoHandle interface {
	// Info returns the container metadata read at open time.
	Info() VideoInfo

	// ReadFrameAt seeks to the given 0-based frame position and decodes one frame.
	// An error means no frame could be produced at that position.
	ReadFrameAt(position int) (RawFrame, error)

	// Close releases decoder resources.
	Close() error
}

// VideoOpener opens video files with a specific decoding backend.
type VideoOpener interface {
	// Open opens the video at path. Path validation is done by the caller.
	Open(path string) (VideoHandle, error)
}

// ProgressFunc observes sampling progress. It is called once per sample
// attempt with the 0-based index and the planned total.
type ProgressFunc func(index, total int)
