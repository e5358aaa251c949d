package summarizer

import (
	"testing"
	"time"

	"github.com/user/uirecord/pkg/mp4probe"
	"github.com/user/uirecord/pkg/pipeline"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_FromReport(t *testing.T) {
	cfg := pipeline.DefaultRecordingConfig()
	report := pipeline.RunReport{
		RunID:   "run-7",
		Codec:   "ffmpeg.libx264",
		Surface: "html",
		Config:  cfg,
		Result: pipeline.CaptureResult{
			Ticks:           190,
			FramesSubmitted: 180,
			SamplesWritten:  180,
			BytesWritten:    4096,
			FirstPtsUs:      132,
			LastPtsUs:       11933465,
			Duration:        2 * time.Second,
		},
		OutputSize: 5000,
		Error:      "",
	}

	summary := NewBuilder().FromReport(report).Build()

	if summary.RunID != "run-7" {
		t.Errorf("expected run id run-7, got %q", summary.RunID)
	}
	if summary.Settings.Codec != "ffmpeg.libx264" || summary.Settings.Surface != "html" {
		t.Errorf("unexpected settings: %+v", summary.Settings)
	}
	if summary.Settings.Width != 1280 || summary.Settings.FrameCount != 180 || summary.Settings.EOSMode != pipeline.EOSLastFrame {
		t.Errorf("config not copied: %+v", summary.Settings)
	}
	if summary.Capture.FramesSubmitted != 180 || summary.Capture.Elapsed != 2*time.Second {
		t.Errorf("capture not copied: %+v", summary.Capture)
	}
	if summary.Video.FileSize != 5000 || summary.Video.Probed {
		t.Errorf("unexpected video info: %+v", summary.Video)
	}
}

func TestBuilder_WithProbe(t *testing.T) {
	info := &mp4probe.Info{
		Codec:     "avc1",
		Profile:   66,
		Level:     31,
		Timescale: 90000,
		Samples: []mp4probe.Sample{
			{DecodeTimeUs: 0, DurationUs: 500000, Sync: true},
			{DecodeTimeUs: 500000, DurationUs: 500000},
		},
	}

	summary := NewBuilder().WithProbe(info).Build()

	v := summary.Video
	if !v.Probed || v.Codec != "avc1" || v.Profile != 66 || v.Level != 31 {
		t.Errorf("unexpected probe fields: %+v", v)
	}
	if v.Samples != 2 || v.SyncSamples != 1 {
		t.Errorf("expected 2 samples / 1 sync, got %d / %d", v.Samples, v.SyncSamples)
	}
	if v.Duration != time.Second {
		t.Errorf("expected 1s duration, got %v", v.Duration)
	}
}

func TestBuilder_WithProbeNil(t *testing.T) {
	summary := NewBuilder().WithProbe(nil).Build()
	if summary.Video.Probed {
		t.Error("nil probe must leave the video section unprobed")
	}
}

func TestBuilder_FullChain(t *testing.T) {
	summary := NewBuilder().
		WithSettings(Settings{Codec: "mock", FrameCount: 5}).
		WithCapture(CaptureInfo{FramesSubmitted: 5, Aborted: true}).
		Build()

	if summary.Settings.Codec != "mock" {
		t.Error("Settings.Codec not set correctly")
	}
	if !summary.Capture.Aborted || summary.Capture.FramesSubmitted != 5 {
		t.Error("Capture not set correctly")
	}
}
