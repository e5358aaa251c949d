package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/uirecord/pkg/adapters/ggsurface"
	"github.com/user/uirecord/pkg/pipeline"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Width != 1280 || cfg.Height != 720 || cfg.FrameRate != 15 || cfg.FrameCount != 180 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Surface != SurfaceWidgets || cfg.EOSMode != pipeline.EOSLastFrame {
		t.Errorf("unexpected surface/eos defaults: %s/%s", cfg.Surface, cfg.EOSMode)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uirecord.yaml")
	yaml := `
width: 640
height: 360
frame_rate: 30
frame_count: 60
eos_mode: empty-frame
surface: html
url: https://example.com
jpeg_quality: 85
overwrite: true
theme:
  accent_color: "#ff0000"
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 360 || cfg.FrameRate != 30 || cfg.FrameCount != 60 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.EOSMode != pipeline.EOSEmptyFrame || cfg.Surface != SurfaceHTML || cfg.URL != "https://example.com" {
		t.Errorf("string values not applied: %+v", cfg)
	}
	if cfg.JPEGQuality != 85 || !cfg.Overwrite {
		t.Errorf("capture options not applied: jpeg=%d overwrite=%v", cfg.JPEGQuality, cfg.Overwrite)
	}
	// Unset keys keep their defaults.
	if cfg.BitRate != 2_000_000 || cfg.BaseOffsetUs != 132 {
		t.Errorf("defaults lost: bitrate=%d offset=%d", cfg.BitRate, cfg.BaseOffsetUs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate: %v", err)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("width: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantMsg string
	}{
		{"odd width", func(c *Config) { c.Width = 641 }, "even"},
		{"zero height", func(c *Config) { c.Height = 0 }, "height must be positive"},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }, "frame_rate"},
		{"zero frames", func(c *Config) { c.FrameCount = 0 }, "frame_count"},
		{"unknown mime", func(c *Config) { c.MIME = "video/hevc" }, "unsupported mime"},
		{"unknown surface", func(c *Config) { c.Surface = "gl" }, "unknown surface"},
		{"unknown eos", func(c *Config) { c.EOSMode = "never" }, "unknown eos_mode"},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, "unknown log_format"},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, "unknown log level"},
		{"negative idle", func(c *Config) { c.MaxIdleTicks = -1 }, "max_idle_ticks"},
		{"empty output", func(c *Config) { c.OutputPath = "" }, "output path"},
		{"jpeg quality too high", func(c *Config) { c.JPEGQuality = 101 }, "jpeg_quality"},
		{"negative jpeg quality", func(c *Config) { c.JPEGQuality = -5 }, "jpeg_quality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestToRecordingConfig(t *testing.T) {
	cfg := Defaults()
	cfg.DequeueTimeoutMs = -1
	cfg.MaxIdleTicks = 50

	rec := cfg.ToRecordingConfig()
	if rec.TickPeriod != 17*time.Millisecond {
		t.Errorf("expected 17ms tick, got %v", rec.TickPeriod)
	}
	if rec.DequeueTimeout >= 0 {
		t.Errorf("expected negative (unbounded) dequeue timeout, got %v", rec.DequeueTimeout)
	}
	if rec.MaxIdleTicks != 50 || rec.BaseOffsetUs != 132 || rec.OutputPath != "video.mp4" {
		t.Errorf("unexpected recording config: %+v", rec)
	}
	if rec.DebugFrameEvery != 0 {
		t.Error("debug frames should be off unless debug is enabled")
	}

	cfg.Debug = true
	if got := cfg.ToRecordingConfig().DebugFrameEvery; got != 30 {
		t.Errorf("expected debug every 30 frames, got %d", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#61afef", color.RGBA{R: 0x61, G: 0xaf, B: 0xef, A: 255}},
		{"FF0000", color.RGBA{R: 255, A: 255}},
		{"#fff", color.RGBA{A: 255}},
		{"#zz0000", color.RGBA{A: 255}},
		{"", color.RGBA{A: 255}},
	}
	for _, tt := range tests {
		if got := ParseColor(tt.in); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSurfaceTheme(t *testing.T) {
	theme := ThemeConfig{AccentColor: "#ff0000"}.SurfaceTheme()
	if theme.Accent != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected red accent, got %v", theme.Accent)
	}
	if theme.Background != ggsurface.DefaultTheme.Background {
		t.Error("unset colors should keep the default theme")
	}
}
