package videosource

import "errors"

var (
	// ErrInvalidArgument is returned when the video path is not absolute.
	ErrInvalidArgument = errors.New("videosource: path must be absolute")

	// ErrNotFound is returned when no file exists at the video path.
	ErrNotFound = errors.New("videosource: video file not found")

	// ErrUnreadable is returned when no backend can open the container or codec.
	ErrUnreadable = errors.New("videosource: video cannot be decoded")
)
