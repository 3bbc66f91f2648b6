// Package nulldisplay provides a Display that shows nothing.
package nulldisplay

import (
	"context"
	"image"

	"github.com/user/moviesigdb/pkg/ports"
)

// Display is a no-op implementation of ports.Display.
type Display struct{}

// New creates a new null Display.
func New() *Display {
	return &Display{}
}

// Show returns immediately.
func (d *Display) Show(ctx context.Context, title string, img image.Image) error {
	return ctx.Err()
}

var _ ports.Display = (*Display)(nil)
