package mocks

import (
	"context"
	"image"

	"github.com/user/moviesigdb/pkg/ports"
)

// Display is a mock implementation of ports.Display.
type Display struct {
	ShowFunc func(ctx context.Context, title string, img image.Image) error

	// Recorded calls for verification
	Titles []string
}

func (m *Display) Show(ctx context.Context, title string, img image.Image) error {
	m.Titles = append(m.Titles, title)
	if m.ShowFunc != nil {
		return m.ShowFunc(ctx, title, img)
	}
	return nil
}

var _ ports.Display = (*Display)(nil)
