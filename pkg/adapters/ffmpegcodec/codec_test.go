package ffmpegcodec

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/uirecord/pkg/adapters/logger"
	"github.com/user/uirecord/pkg/ports"
)

func testFormat(w, h int) ports.MediaFormat {
	return ports.MediaFormat{
		MIME:           ports.MIMETypeAVC,
		Width:          w,
		Height:         h,
		BitRate:        500_000,
		FrameRate:      25,
		IFrameInterval: 1,
		ColorFormat:    ports.ColorFormatYUV420Planar,
	}
}

func TestFindFFmpeg_CustomPathMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-ffmpeg")
	_, err := FindFFmpeg(missing)
	if !errors.Is(err, ErrFFmpegNotFound) {
		t.Errorf("expected ErrFFmpegNotFound, got %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	args := strings.Join(buildArgs(testFormat(64, 48), "ultrafast"), " ")

	for _, want := range []string{
		"-f rawvideo",
		"-pix_fmt yuv420p",
		"-s 64x48",
		"-framerate 25",
		"-c:v libx264",
		"-preset ultrafast",
		"-tune zerolatency",
		"-bf 0",
		"-g 25",
		"-b:v 500000",
		"-x264-params aud=1",
		"-f h264 pipe:1",
	} {
		if !strings.Contains(args, want) {
			t.Errorf("expected %q in args: %s", want, args)
		}
	}
}

func TestCodec_Configure(t *testing.T) {
	tests := []struct {
		name    string
		format  ports.MediaFormat
		wantErr bool
	}{
		{"valid", testFormat(64, 48), false},
		{"odd width", testFormat(63, 48), true},
		{"zero height", testFormat(64, 0), true},
		{"wrong mime", ports.MediaFormat{MIME: "video/hevc", Width: 64, Height: 48}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{InputSlots: 3, OutputSlots: 2}, logger.NewNoop())
			err := c.Configure(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Configure error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if len(c.InputBuffers()) != 3 || len(c.InputBuffers()[0]) != 64*48*3/2 {
				t.Errorf("unexpected input table: %d slots", len(c.InputBuffers()))
			}
			if len(c.OutputBuffers()) != 2 {
				t.Errorf("expected 2 output slots, got %d", len(c.OutputBuffers()))
			}
		})
	}
}

func TestCodec_NotStarted(t *testing.T) {
	c := New(Options{}, logger.NewNoop())
	if err := c.Start(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	if err := c.Configure(testFormat(64, 48)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	if _, err := c.DequeueInputBuffer(context.Background(), 0); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	if err := c.QueueInputBuffer(0, 0, 0, 0, ports.FlagEndOfStream); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	var info ports.BufferInfo
	if _, err := c.DequeueOutputBuffer(context.Background(), &info, 0); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	if err := c.Release(); err != nil {
		t.Errorf("Release of unstarted codec failed: %v", err)
	}
}

func TestCodec_Encode(t *testing.T) {
	if !IsAvailable("") {
		t.Skip("ffmpeg not available")
	}

	const frames = 10
	c := New(Options{Preset: "ultrafast"}, logger.NewNoop())
	if err := c.Configure(testFormat(64, 48)); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer c.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	frameSize := 64 * 48 * 3 / 2
	for i := 0; i < frames; i++ {
		idx, err := c.DequeueInputBuffer(ctx, -1)
		if err != nil {
			t.Fatalf("DequeueInputBuffer %d failed: %v", i, err)
		}
		buf := c.InputBuffers()[idx]
		for j := range buf {
			buf[j] = byte(16 + i*8)
		}
		flags := ports.FlagKeyFrame
		if i == frames-1 {
			flags = ports.FlagEndOfStream
		}
		if err := c.QueueInputBuffer(idx, 0, frameSize, int64(132+i*40000), flags); err != nil {
			t.Fatalf("QueueInputBuffer %d failed: %v", i, err)
		}
	}

	var (
		formatChanges int
		configs       int
		samples       []int64
		keyframes     int
	)
	for {
		var info ports.BufferInfo
		idx, err := c.DequeueOutputBuffer(ctx, &info, time.Second)
		switch {
		case errors.Is(err, ports.ErrTryAgainLater), errors.Is(err, ports.ErrOutputBuffersChanged):
			continue
		case errors.Is(err, ports.ErrOutputFormatChanged):
			formatChanges++
			continue
		case err != nil:
			t.Fatalf("DequeueOutputBuffer failed: %v", err)
		}

		if info.Flags.Has(ports.FlagCodecConfig) {
			configs++
		} else if info.Size > 0 {
			samples = append(samples, info.PresentationTimeUs)
			if info.Flags.Has(ports.FlagKeyFrame) {
				keyframes++
			}
		}
		if err := c.ReleaseOutputBuffer(idx); err != nil {
			t.Fatalf("ReleaseOutputBuffer failed: %v", err)
		}
		if info.Flags.Has(ports.FlagEndOfStream) {
			break
		}
	}

	if formatChanges != 1 || configs != 1 {
		t.Errorf("expected one format change and one config sample, got %d/%d", formatChanges, configs)
	}
	if len(samples) != frames {
		t.Fatalf("expected %d samples, got %d", frames, len(samples))
	}
	for i, pts := range samples {
		if want := int64(132 + i*40000); pts != want {
			t.Errorf("sample %d: expected pts %d, got %d", i, want, pts)
		}
	}
	if keyframes < 1 {
		t.Error("expected at least one keyframe")
	}

	format := c.OutputFormat()
	if len(format.CSD) != 2 || format.Width != 64 || format.Height != 48 {
		t.Errorf("unexpected output format: %dx%d, %d CSD", format.Width, format.Height, len(format.CSD))
	}
}
