package mocks

import (
	"context"
	"image"
	"image/color"

	"github.com/user/uirecord/pkg/ports"
)

// Surface is a mock implementation of ports.Surface that paints a uniform
// color, optionally varying per render.
type Surface struct {
	Width  int
	Height int

	// ColorFunc picks the fill color for the n-th render (0-based).
	// Defaults to opaque black.
	ColorFunc      func(n int) color.RGBA
	RenderIntoFunc func(ctx context.Context, dst *image.RGBA) error

	Renders int
}

// NewSurface creates a black mock surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{Width: width, Height: height}
}

func (m *Surface) Size() (int, int) {
	return m.Width, m.Height
}

func (m *Surface) RenderInto(ctx context.Context, dst *image.RGBA) error {
	n := m.Renders
	m.Renders++
	if m.RenderIntoFunc != nil {
		return m.RenderIntoFunc(ctx, dst)
	}

	c := color.RGBA{A: 255}
	if m.ColorFunc != nil {
		c = m.ColorFunc(n)
	}
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = c.R
		dst.Pix[i+1] = c.G
		dst.Pix[i+2] = c.B
		dst.Pix[i+3] = c.A
	}
	return nil
}

var _ ports.Surface = (*Surface)(nil)
