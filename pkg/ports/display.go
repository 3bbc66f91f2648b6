package ports

import (
	"context"
	"image"
)

// Display shows a rendered image to the user.
type Display interface {
	// Show presents the image under the given title and blocks until the
	// user dismisses it or ctx is done.
	Show(ctx context.Context, title string, img image.Image) error
}
