package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecordingConfig_PresentationTimeUs(t *testing.T) {
	cfg := DefaultRecordingConfig()
	cfg.FrameRate = 25

	tests := []struct {
		index int
		want  int64
	}{
		{0, 132},
		{1, 40132},
		{2, 80132},
		{24, 960132},
	}
	for _, tt := range tests {
		if got := cfg.PresentationTimeUs(tt.index); got != tt.want {
			t.Errorf("PresentationTimeUs(%d) = %d, want %d", tt.index, got, tt.want)
		}
	}
}

func TestRecordingConfig_PresentationTimeUsTruncates(t *testing.T) {
	cfg := DefaultRecordingConfig() // 15 fps

	prev := cfg.PresentationTimeUs(0)
	for i := 1; i < cfg.FrameCount; i++ {
		pts := cfg.PresentationTimeUs(i)
		step := pts - prev
		if step != 66666 && step != 66667 {
			t.Fatalf("frame %d: unexpected step %d", i, step)
		}
		prev = pts
	}
	if got := cfg.PresentationTimeUs(1); got != 132+66666 {
		t.Errorf("PresentationTimeUs(1) = %d, want %d", got, 132+66666)
	}
}

func TestRecordingConfig_Derived(t *testing.T) {
	cfg := DefaultRecordingConfig()

	if cfg.FrameSize() != 1280*720*3/2 {
		t.Errorf("FrameSize() = %d", cfg.FrameSize())
	}
	if cfg.Duration() != 12*time.Second {
		t.Errorf("Duration() = %v, want 12s", cfg.Duration())
	}

	format := cfg.MediaFormat()
	if format.Width != 1280 || format.Height != 720 || format.BitRate != 2_000_000 ||
		format.FrameRate != 15 || format.IFrameInterval != 10 {
		t.Errorf("unexpected media format: %+v", format)
	}
}

func TestTickerPacer(t *testing.T) {
	p := NewTickerPacer(time.Millisecond)
	defer p.Stop()

	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := NewTickerPacer(time.Hour)
	defer slow.Stop()
	if err := slow.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInstantPacer(t *testing.T) {
	var p InstantPacer
	if err := p.Wait(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Wait(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}
