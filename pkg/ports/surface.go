package ports

import (
	"context"
	"image"
)

// Surface is a rendered UI whose current state can be captured on demand.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (width, height int)

	// RenderInto draws the current state into dst, which has the surface's
	// dimensions and origin (0,0).
	RenderInto(ctx context.Context, dst *image.RGBA) error
}
