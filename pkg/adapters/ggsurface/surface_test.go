package ggsurface

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/user/uirecord/pkg/adapters/ggrenderer"
	"github.com/user/uirecord/pkg/ports"
)

func newSurface(t *testing.T, w, h, steps int) *Surface {
	t.Helper()
	s, err := New(Options{Width: w, Height: h, Steps: steps}, ggrenderer.New())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew_InvalidSize(t *testing.T) {
	if _, err := New(Options{Width: 0, Height: 10}, ggrenderer.New()); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestSurface_Size(t *testing.T) {
	s := newSurface(t, 320, 180, 10)
	w, h := s.Size()
	if w != 320 || h != 180 {
		t.Errorf("expected 320x180, got %dx%d", w, h)
	}
}

func TestSurface_RenderIntoPaintsBackground(t *testing.T) {
	s := newSurface(t, 320, 180, 10)
	dst := image.NewRGBA(image.Rect(0, 0, 320, 180))

	if err := s.RenderInto(context.Background(), dst); err != nil {
		t.Fatalf("RenderInto failed: %v", err)
	}

	// The bottom-right corner lies outside every widget.
	got := dst.RGBAAt(319, 179)
	if got != DefaultTheme.Background {
		t.Errorf("expected background %v at corner, got %v", DefaultTheme.Background, got)
	}
	if got := dst.RGBAAt(1, 1); got != DefaultTheme.TitleBar {
		t.Errorf("expected title bar %v at (1,1), got %v", DefaultTheme.TitleBar, got)
	}
	if s.Step() != 1 {
		t.Errorf("expected step 1, got %d", s.Step())
	}
}

func TestSurface_ConsecutiveFramesDiffer(t *testing.T) {
	s := newSurface(t, 320, 180, 10)
	a := image.NewRGBA(image.Rect(0, 0, 320, 180))
	b := image.NewRGBA(image.Rect(0, 0, 320, 180))

	if err := s.RenderInto(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	if err := s.RenderInto(context.Background(), b); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Pix, b.Pix) {
		t.Error("expected consecutive renders to differ")
	}
}

func TestSurface_SizeMismatch(t *testing.T) {
	s := newSurface(t, 320, 180, 10)
	dst := image.NewRGBA(image.Rect(0, 0, 160, 90))

	err := s.RenderInto(context.Background(), dst)
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
	if s.Step() != 0 {
		t.Error("failed render must not advance the scene")
	}
}

func TestSurface_Cancelled(t *testing.T) {
	s := newSurface(t, 32, 16, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.RenderInto(ctx, image.NewRGBA(image.Rect(0, 0, 32, 16)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSurface_ProgressWidth(t *testing.T) {
	tests := []struct {
		steps, step, want int
	}{
		{steps: 5, step: 0, want: 0},
		{steps: 5, step: 2, want: 50},
		{steps: 5, step: 4, want: 100},
		{steps: 5, step: 9, want: 100},
		{steps: 1, step: 0, want: 100},
	}
	for _, tt := range tests {
		s := newSurface(t, 32, 16, tt.steps)
		s.step = tt.step
		if got := s.progressWidth(100); got != tt.want {
			t.Errorf("steps=%d step=%d: expected %d, got %d", tt.steps, tt.step, tt.want, got)
		}
	}
}

func TestFitText(t *testing.T) {
	r := ggrenderer.New()
	c := r.CanvasFor(image.NewRGBA(image.Rect(0, 0, 200, 40)))
	style := ports.TextStyle{FontSize: 13}

	if got := fitText(c, "short", 200, style); got != "short" {
		t.Errorf("expected text to fit unchanged, got %q", got)
	}

	got := fitText(c, "a rather long window title for a small frame", 100, style)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected shortened text, got %q", got)
	}
	if w, _ := c.MeasureText(got, style); w > 100 {
		t.Errorf("shortened text is %.0fpx wide, want at most 100", w)
	}

	if got := fitText(c, "title", 1, style); got != "" {
		t.Errorf("expected empty text when nothing fits, got %q", got)
	}
}
