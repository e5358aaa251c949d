// Package htmlsurface provides a UI surface backed by a headless Chrome page.
// Each render captures a screenshot of the viewport.
package htmlsurface

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/image/draw"

	"github.com/user/uirecord/pkg/ports"
)

var (
	// ErrChromeNotFound is returned when no browser executable can be resolved.
	ErrChromeNotFound = errors.New("htmlsurface: chrome not found: install Chrome/Chromium, set CHROME_PATH or use --chrome-path")

	// ErrNotOpen is returned when rendering before Open or after Close.
	ErrNotOpen = errors.New("htmlsurface: surface not open")
)

// Options configures a Surface.
type Options struct {
	Width  int
	Height int
	// URL is loaded when set. Otherwise HTML (or DemoPage) becomes the document.
	URL        string
	HTML       string
	ChromePath string
	Headless   bool
	// JPEGQuality captures JPEG screenshots at this quality (1-100).
	// Zero captures lossless PNG.
	JPEGQuality int
}

// Surface implements ports.Surface over a Chrome tab.
type Surface struct {
	opts     Options
	renderer ports.Renderer
	logger   ports.Logger

	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a surface. Call Open before rendering.
func New(opts Options, renderer ports.Renderer, logger ports.Logger) (*Surface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("htmlsurface: invalid size %dx%d", opts.Width, opts.Height)
	}
	return &Surface{
		opts:     opts,
		renderer: renderer,
		logger:   logger.WithComponent("htmlsurface"),
	}, nil
}

// allocatorOptions returns the exec allocator flags for a container-friendly
// headless launch at the surface size.
func (s *Surface) allocatorOptions(chromePath string) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.ExecPath(chromePath),
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.WindowSize(s.opts.Width, s.opts.Height),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
	}
	if s.opts.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}
	return opts
}

// Open launches the browser, sizes the viewport and loads the page.
func (s *Surface) Open(ctx context.Context) error {
	chromePath := ResolveChromePath(s.opts.ChromePath)
	if chromePath == "" {
		return ErrChromeNotFound
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, s.allocatorOptions(chromePath)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(tabCtx, s.loadActions()...); err != nil {
		tabCancel()
		allocCancel()
		return fmt.Errorf("htmlsurface: open page: %w", err)
	}

	s.allocCancel, s.ctx, s.cancel = allocCancel, tabCtx, tabCancel
	s.logger.Info("Browser surface ready: %s (%dx%d)", s.source(), s.opts.Width, s.opts.Height)
	return nil
}

func (s *Surface) loadActions() []chromedp.Action {
	actions := []chromedp.Action{
		emulation.SetDeviceMetricsOverride(int64(s.opts.Width), int64(s.opts.Height), 1, false),
	}
	if s.opts.URL != "" {
		return append(actions, chromedp.Navigate(s.opts.URL), chromedp.WaitReady("body"))
	}

	html := s.opts.HTML
	if html == "" {
		html = DemoPage
	}
	return append(actions,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
	)
}

func (s *Surface) source() string {
	switch {
	case s.opts.URL != "":
		return s.opts.URL
	case s.opts.HTML != "":
		return "inline html"
	default:
		return "demo page"
	}
}

// Size returns the viewport dimensions.
func (s *Surface) Size() (int, int) {
	return s.opts.Width, s.opts.Height
}

// RenderInto screenshots the viewport into dst, scaling when the captured
// image differs from the viewport (device scale factors other than 1).
func (s *Surface) RenderInto(ctx context.Context, dst *image.RGBA) error {
	if s.ctx == nil {
		return ErrNotOpen
	}

	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	format, capture := s.screenshot(&buf)
	if err := chromedp.Run(runCtx, capture); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("htmlsurface: screenshot: %w", err)
	}

	img, err := s.renderer.DecodeImage(buf, format)
	if err != nil {
		return fmt.Errorf("htmlsurface: decode screenshot: %w", err)
	}
	copyInto(dst, img, s.renderer)
	return nil
}

// screenshot returns the viewport capture action and the image format it
// produces.
func (s *Surface) screenshot(buf *[]byte) (ports.ImageFormat, chromedp.Action) {
	if s.opts.JPEGQuality <= 0 {
		return ports.FormatPNG, chromedp.CaptureScreenshot(buf)
	}
	quality := int64(min(s.opts.JPEGQuality, 100))
	return ports.FormatJPEG, chromedp.ActionFunc(func(ctx context.Context) error {
		data, err := page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatJpeg).
			WithQuality(quality).
			Do(ctx)
		if err != nil {
			return err
		}
		*buf = data
		return nil
	})
}

// copyInto writes img over dst, resizing to dst's bounds when needed.
func copyInto(dst *image.RGBA, img image.Image, renderer ports.Renderer) {
	b := dst.Bounds()
	if img.Bounds().Dx() != b.Dx() || img.Bounds().Dy() != b.Dy() {
		img = renderer.ResizeImage(img, b.Dx(), b.Dy())
	}
	draw.Draw(dst, b, img, img.Bounds().Min, draw.Src)
}

// Close shuts the tab and the browser process.
func (s *Surface) Close() error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.ctx = nil
	return nil
}

var _ ports.Surface = (*Surface)(nil)
