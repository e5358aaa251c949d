package htmlsurface

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/uirecord/pkg/adapters/ggrenderer"
	"github.com/user/uirecord/pkg/adapters/logger"
	"github.com/user/uirecord/pkg/ports"
)

func TestResolveChromePath_Explicit(t *testing.T) {
	if got := ResolveChromePath("/custom/chrome"); got != "/custom/chrome" {
		t.Errorf("expected explicit path, got %s", got)
	}
}

func TestResolveChromePath_Env(t *testing.T) {
	t.Setenv("CHROME_PATH", "/env/chrome")

	if got := ResolveChromePath(""); got != "/env/chrome" {
		t.Errorf("expected CHROME_PATH, got %s", got)
	}
	if got := ResolveChromePath("/explicit/chrome"); got != "/explicit/chrome" {
		t.Errorf("expected explicit path to win over CHROME_PATH, got %s", got)
	}
}

func TestResolveExecutable(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "chrome")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	if got := resolveExecutable(bin); got != bin {
		t.Errorf("expected %s, got %q", bin, got)
	}
	if got := resolveExecutable(filepath.Join(dir, "missing")); got != "" {
		t.Errorf("expected empty path for missing file, got %q", got)
	}
}

func TestNew_InvalidSize(t *testing.T) {
	if _, err := New(Options{Width: 10}, ggrenderer.New(), logger.NewNoop()); err == nil {
		t.Error("expected error for zero height")
	}
}

func TestSurface_RenderBeforeOpen(t *testing.T) {
	s, err := New(Options{Width: 32, Height: 16}, ggrenderer.New(), logger.NewNoop())
	if err != nil {
		t.Fatal(err)
	}
	err = s.RenderInto(context.Background(), image.NewRGBA(image.Rect(0, 0, 32, 16)))
	if !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
}

func TestCopyInto_Resizes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	dst := image.NewRGBA(image.Rect(0, 0, 32, 16))

	copyInto(dst, src, ggrenderer.New())

	if got := dst.RGBAAt(31, 15); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("expected white after resize, got %v", got)
	}
}

func TestSurface_ScreenshotFormat(t *testing.T) {
	tests := []struct {
		quality int
		want    ports.ImageFormat
	}{
		{0, ports.FormatPNG},
		{-1, ports.FormatPNG},
		{80, ports.FormatJPEG},
		{150, ports.FormatJPEG},
	}
	for _, tt := range tests {
		s, err := New(Options{Width: 32, Height: 16, JPEGQuality: tt.quality}, ggrenderer.New(), logger.NewNoop())
		if err != nil {
			t.Fatal(err)
		}
		var buf []byte
		format, action := s.screenshot(&buf)
		if format != tt.want || action == nil {
			t.Errorf("quality %d: expected format %d, got %d", tt.quality, tt.want, format)
		}
	}
}

func TestSurface_RenderPage(t *testing.T) {
	if ResolveChromePath("") == "" {
		t.Skip("Chrome not installed")
	}

	for _, quality := range []int{0, 90} {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		html := `<html><body style="margin:0;background:#ff0000"></body></html>`
		s, err := New(Options{Width: 64, Height: 48, HTML: html, Headless: true, JPEGQuality: quality}, ggrenderer.New(), logger.NewNoop())
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Open(ctx); err != nil {
			t.Fatalf("Open failed: %v", err)
		}

		dst := image.NewRGBA(image.Rect(0, 0, 64, 48))
		err = s.RenderInto(ctx, dst)
		s.Close()
		if err != nil {
			t.Fatalf("quality %d: RenderInto failed: %v", quality, err)
		}
		if got := dst.RGBAAt(32, 24); got.R < 200 || got.G > 50 {
			t.Errorf("quality %d: expected red page, got %v", quality, got)
		}
	}
}
