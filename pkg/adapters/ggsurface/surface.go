// Package ggsurface provides a synthetic UI surface drawn with a 2D renderer.
//
// The scene is a small dashboard: a title bar, two panels, a frame counter,
// a progress bar and a box that slides across the content area. Every render
// advances the scene by one step so consecutive frames differ.
package ggsurface

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/user/uirecord/pkg/ports"
)

// ErrSizeMismatch is returned when the destination does not match the surface.
var ErrSizeMismatch = errors.New("ggsurface: destination size mismatch")

// Theme holds the scene colors.
type Theme struct {
	Background color.RGBA
	TitleBar   color.RGBA
	Panel      color.RGBA
	Accent     color.RGBA
	Text       color.RGBA
	Muted      color.RGBA
}

// DefaultTheme is a dark dashboard palette.
var DefaultTheme = Theme{
	Background: color.RGBA{R: 0x1e, G: 0x22, B: 0x2a, A: 0xff},
	TitleBar:   color.RGBA{R: 0x2b, G: 0x31, B: 0x3c, A: 0xff},
	Panel:      color.RGBA{R: 0x28, G: 0x2c, B: 0x34, A: 0xff},
	Accent:     color.RGBA{R: 0x61, G: 0xaf, B: 0xef, A: 0xff},
	Text:       color.RGBA{R: 0xdc, G: 0xdf, B: 0xe4, A: 0xff},
	Muted:      color.RGBA{R: 0x5c, G: 0x63, B: 0x70, A: 0xff},
}

// Options configures a Surface.
type Options struct {
	Width  int
	Height int
	Title  string
	// Steps is the number of renders the progress bar spans.
	Steps int
	Theme Theme
}

// Surface implements ports.Surface by drawing the dashboard scene.
type Surface struct {
	opts     Options
	renderer ports.Renderer
	step     int
}

// New creates a widget surface.
func New(opts Options, renderer ports.Renderer) (*Surface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("ggsurface: invalid size %dx%d", opts.Width, opts.Height)
	}
	if opts.Steps <= 0 {
		opts.Steps = 1
	}
	if opts.Title == "" {
		opts.Title = "uirecord"
	}
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme
	}
	return &Surface{opts: opts, renderer: renderer}, nil
}

// Size returns the surface dimensions.
func (s *Surface) Size() (int, int) {
	return s.opts.Width, s.opts.Height
}

// Step returns the number of completed renders.
func (s *Surface) Step() int {
	return s.step
}

// RenderInto draws the scene for the current step into dst.
func (s *Surface) RenderInto(ctx context.Context, dst *image.RGBA) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := dst.Bounds()
	if b.Dx() != s.opts.Width || b.Dy() != s.opts.Height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, b.Dx(), b.Dy(), s.opts.Width, s.opts.Height)
	}

	s.draw(s.renderer.CanvasFor(dst))
	s.step++
	return nil
}

func (s *Surface) draw(c ports.Canvas) {
	w, h := s.opts.Width, s.opts.Height
	th := s.opts.Theme
	pad := max(h/40, 2)
	titleH := max(h/10, 8)
	scale := float64(titleH) / 26

	c.Clear(th.Background)

	c.DrawRect(0, 0, w, titleH, th.TitleBar)
	c.DrawLine(0, titleH, w, titleH, th.Accent, 1)
	counter := fmt.Sprintf("frame %d", s.step)
	counterStyle := ports.TextStyle{FontSize: 13 * scale, Color: th.Muted, Align: ports.AlignRight}
	counterW, _ := c.MeasureText(counter, counterStyle)
	titleStyle := ports.TextStyle{FontSize: 13 * scale * 1.2, Color: th.Text, Align: ports.AlignLeft}
	title := fitText(c, s.opts.Title, float64(w-pad*6)-counterW, titleStyle)
	c.DrawText(title, pad*2, titleH/2, titleStyle)
	c.DrawText(counter, w-pad*2, titleH/2, counterStyle)

	top := titleH + pad
	barH := max(h/24, 4)
	contentH := h - top - barH - pad*3
	leftW := w/3 - pad

	// Side panel with a list of rows, the active row follows the step.
	c.DrawRoundedRect(pad, top, leftW, contentH, pad, th.Panel)
	rows := 6
	rowH := max((contentH-pad*2)/rows, 1)
	active := s.step % rows
	for i := 0; i < rows; i++ {
		y := top + pad + i*rowH
		col := th.Muted
		if i == active {
			c.DrawRect(pad, y, leftW, rowH, th.TitleBar)
			c.DrawRectStroke(pad, y, leftW, rowH, th.Accent, 1)
			col = th.Accent
		}
		c.DrawText(fmt.Sprintf("item %d", i+1), pad*3, y+rowH/2, ports.TextStyle{
			FontSize: 13 * scale,
			Color:    col,
			Align:    ports.AlignLeft,
		})
	}

	// Main panel with a box sliding left to right.
	mainX := pad*2 + leftW
	mainW := w - mainX - pad
	c.DrawRoundedRect(mainX, top, mainW, contentH, pad, th.Panel)
	box := max(min(mainW, contentH)/4, 2)
	travel := max(mainW-box-pad*2, 1)
	x := mainX + pad + (s.step*max(travel/30, 1))%travel
	c.DrawRoundedRect(x, top+contentH/2-box/2, box, box, pad/2, th.Accent)

	// Progress bar along the bottom.
	barY := h - barH - pad
	barW := w - pad*2
	c.DrawRoundedRect(pad, barY, barW, barH, barH/2, th.TitleBar)
	if fill := s.progressWidth(barW); fill > 0 {
		c.DrawRoundedRect(pad, barY, fill, barH, barH/2, th.Accent)
	}
}

// fitText shortens text with a trailing "..." until it is at most maxW wide.
func fitText(c ports.Canvas, text string, maxW float64, style ports.TextStyle) string {
	if w, _ := c.MeasureText(text, style); w <= maxW {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		short := string(runes[:n]) + "..."
		if w, _ := c.MeasureText(short, style); w <= maxW {
			return short
		}
	}
	return ""
}

// progressWidth returns the filled width of a bar of width w at the current step.
func (s *Surface) progressWidth(w int) int {
	if s.opts.Steps <= 1 {
		return w
	}
	done := min(s.step, s.opts.Steps-1)
	return w * done / (s.opts.Steps - 1)
}

var _ ports.Surface = (*Surface)(nil)
