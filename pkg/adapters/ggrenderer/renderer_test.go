package ggrenderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/uirecord/pkg/ports"
)

func TestRenderer_CanvasForDrawsInPlace(t *testing.T) {
	r := New()
	dst := image.NewRGBA(image.Rect(0, 0, 40, 20))

	canvas := r.CanvasFor(dst)
	canvas.Clear(color.RGBA{B: 255, A: 255})
	canvas.DrawRect(0, 0, 10, 10, color.RGBA{R: 255, A: 255})

	if got := dst.RGBAAt(5, 5); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected red at (5,5), got %v", got)
	}
	if got := dst.RGBAAt(30, 15); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("expected blue background at (30,15), got %v", got)
	}
}

func TestRenderer_CreateCanvas(t *testing.T) {
	canvas := New().CreateCanvas(100, 60, color.White)

	bounds := canvas.ToImage().Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 60 {
		t.Errorf("expected 100x60, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderer_EncodeDecode(t *testing.T) {
	r := New()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}

	for _, format := range []ports.ImageFormat{ports.FormatPNG, ports.FormatJPEG} {
		data, err := r.EncodeImage(img, format, 80)
		if err != nil {
			t.Fatalf("EncodeImage(%d) failed: %v", format, err)
		}
		decoded, err := r.DecodeImage(data, format)
		if err != nil {
			t.Fatalf("DecodeImage(%d) failed: %v", format, err)
		}
		if b := decoded.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
			t.Errorf("format %d: expected 32x24, got %dx%d", format, b.Dx(), b.Dy())
		}
	}

	if _, err := r.EncodeImage(img, ports.ImageFormat(99), 0); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 80))
	resized := New().ResizeImage(src, 50, 40)

	if b := resized.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("expected 50x40, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestCanvas_Shapes(t *testing.T) {
	canvas := New().CreateCanvas(100, 100, color.White)
	canvas.DrawRoundedRect(10, 10, 40, 40, 6, color.RGBA{G: 255, A: 255})
	canvas.DrawRectStroke(60, 60, 30, 30, color.Black, 2)
	canvas.DrawLine(0, 95, 100, 95, color.Black, 2)

	img := canvas.ToImage()
	if _, g, _, _ := img.At(30, 30).RGBA(); g == 0 {
		t.Error("expected green inside rounded rectangle")
	}
	if r, _, _, _ := img.At(60, 75).RGBA(); r == 0xffff {
		t.Error("expected dark pixel on rectangle border")
	}
	if r, _, _, _ := img.At(50, 95).RGBA(); r == 0xffff {
		t.Error("expected dark pixel on line")
	}
}

func TestCanvas_DrawText(t *testing.T) {
	canvas := New().CreateCanvas(200, 50, color.White)
	style := ports.TextStyle{FontSize: 26, Color: color.Black}

	canvas.DrawText("Hello", 10, 25, style)

	img := canvas.ToImage().(*image.RGBA)
	dark := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] < 128 {
			dark++
		}
	}
	if dark == 0 {
		t.Error("expected text pixels to be drawn")
	}
}

func TestCanvas_MeasureTextScales(t *testing.T) {
	canvas := New().CreateCanvas(10, 10, color.White)

	w1, h1 := canvas.MeasureText("abc", ports.TextStyle{FontSize: 13})
	w2, h2 := canvas.MeasureText("abc", ports.TextStyle{FontSize: 26})

	if w1 != 21 {
		t.Errorf("expected 7px glyphs, got width %v", w1)
	}
	if w2 != 2*w1 || h2 != 2*h1 {
		t.Errorf("expected double size, got %vx%v vs %vx%v", w2, h2, w1, h1)
	}
}

func TestCanvas_MissingFontFallsBack(t *testing.T) {
	canvas := New().CreateCanvas(10, 10, color.White)
	w, _ := canvas.MeasureText("abcd", ports.TextStyle{FontPath: "/nonexistent/font.ttf", FontSize: 13})
	if w != 28 {
		t.Errorf("expected built-in face width 28, got %v", w)
	}
}
