// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/uirecord/pkg/adapters/ggsurface"
	"github.com/user/uirecord/pkg/pipeline"
	"github.com/user/uirecord/pkg/ports"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Surface kinds.
const (
	SurfaceWidgets = "widgets"
	SurfaceHTML    = "html"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config represents the full configuration for uirecord.
type Config struct {
	// Output
	OutputPath string `yaml:"output"`
	Overwrite  bool   `yaml:"overwrite"`

	// Video
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	MIME           string `yaml:"mime"`
	BitRate        int    `yaml:"bitrate"`
	FrameRate      int    `yaml:"frame_rate"`
	IFrameInterval int    `yaml:"iframe_interval"`
	FrameCount     int    `yaml:"frame_count"`

	// Loop
	TickPeriodMs     int    `yaml:"tick_period_ms"`
	BaseOffsetUs     int64  `yaml:"base_offset_us"`
	DequeueTimeoutMs int    `yaml:"dequeue_timeout_ms"` // negative waits without bound
	MaxIdleTicks     int    `yaml:"max_idle_ticks"`
	EOSMode          string `yaml:"eos_mode"`
	InputSlots       int    `yaml:"input_slots"`
	OutputSlots      int    `yaml:"output_slots"`

	// Surface
	Surface     string      `yaml:"surface"`
	Title       string      `yaml:"title"`
	Theme       ThemeConfig `yaml:"theme"`
	URL         string      `yaml:"url"`
	HTMLFile    string      `yaml:"html_file"`
	ChromePath  string      `yaml:"chrome_path"`
	Headless    bool        `yaml:"headless"`
	JPEGQuality int         `yaml:"jpeg_quality"` // 0 captures PNG screenshots

	// Encoder
	FFmpegPath   string `yaml:"ffmpeg_path"`
	FFmpegPreset string `yaml:"ffmpeg_preset"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Debug
	Debug           bool   `yaml:"debug"`
	DebugDir        string `yaml:"debug_dir"`
	DebugFrameEvery int    `yaml:"debug_frame_every"`

	// Summary
	SummaryPath string `yaml:"summary"`
}

// ThemeConfig represents the widget surface palette.
type ThemeConfig struct {
	BackgroundColor string `yaml:"background_color"`
	TitleBarColor   string `yaml:"title_bar_color"`
	PanelColor      string `yaml:"panel_color"`
	AccentColor     string `yaml:"accent_color"`
	TextColor       string `yaml:"text_color"`
	MutedColor      string `yaml:"muted_color"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	rec := pipeline.DefaultRecordingConfig()
	return Config{
		OutputPath: rec.OutputPath,

		Width:          rec.Width,
		Height:         rec.Height,
		MIME:           rec.MIME,
		BitRate:        rec.BitRate,
		FrameRate:      rec.FrameRate,
		IFrameInterval: rec.IFrameInterval,
		FrameCount:     rec.FrameCount,

		TickPeriodMs:     int(rec.TickPeriod / time.Millisecond),
		BaseOffsetUs:     rec.BaseOffsetUs,
		DequeueTimeoutMs: int(rec.DequeueTimeout / time.Millisecond),
		EOSMode:          rec.EOSMode,
		InputSlots:       rec.InputSlots,
		OutputSlots:      rec.OutputSlots,

		Surface:  SurfaceWidgets,
		Title:    "uirecord",
		Headless: true,

		FFmpegPreset: "veryfast",

		LogLevel:  "info",
		LogFormat: LogFormatConsole,

		DebugDir:        "./debug",
		DebugFrameEvery: 30,
	}
}

// LoadFromFile loads configuration from a YAML file over Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values a recording cannot run without.
func (c Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}

	positive("width", c.Width)
	positive("height", c.Height)
	positive("bitrate", c.BitRate)
	positive("frame_rate", c.FrameRate)
	positive("iframe_interval", c.IFrameInterval)
	positive("frame_count", c.FrameCount)
	positive("tick_period_ms", c.TickPeriodMs)
	positive("input_slots", c.InputSlots)
	positive("output_slots", c.OutputSlots)

	if c.Width%2 != 0 || c.Height%2 != 0 {
		errs = append(errs, fmt.Errorf("width and height must be even, got %dx%d", c.Width, c.Height))
	}
	if c.BaseOffsetUs < 0 {
		errs = append(errs, fmt.Errorf("base_offset_us must not be negative, got %d", c.BaseOffsetUs))
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be between 0 and 100, got %d", c.JPEGQuality))
	}
	if c.MaxIdleTicks < 0 {
		errs = append(errs, fmt.Errorf("max_idle_ticks must not be negative, got %d", c.MaxIdleTicks))
	}
	if c.MIME != ports.MIMETypeAVC {
		errs = append(errs, fmt.Errorf("unsupported mime %q", c.MIME))
	}
	if c.OutputPath == "" {
		errs = append(errs, errors.New("output path is empty"))
	}

	switch c.EOSMode {
	case pipeline.EOSLastFrame, pipeline.EOSEmptyFrame:
	default:
		errs = append(errs, fmt.Errorf("unknown eos_mode %q", c.EOSMode))
	}
	switch c.Surface {
	case SurfaceWidgets, SurfaceHTML:
	default:
		errs = append(errs, fmt.Errorf("unknown surface %q", c.Surface))
	}
	switch c.LogFormat {
	case LogFormatConsole, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ToRecordingConfig converts Config to pipeline.RecordingConfig.
func (c Config) ToRecordingConfig() pipeline.RecordingConfig {
	debugEvery := 0
	if c.Debug {
		debugEvery = c.DebugFrameEvery
	}
	return pipeline.RecordingConfig{
		Width:          c.Width,
		Height:         c.Height,
		MIME:           c.MIME,
		BitRate:        c.BitRate,
		FrameRate:      c.FrameRate,
		IFrameInterval: c.IFrameInterval,
		FrameCount:     c.FrameCount,
		OutputPath:     c.OutputPath,

		TickPeriod:     time.Duration(c.TickPeriodMs) * time.Millisecond,
		BaseOffsetUs:   c.BaseOffsetUs,
		DequeueTimeout: time.Duration(c.DequeueTimeoutMs) * time.Millisecond,
		MaxIdleTicks:   c.MaxIdleTicks,
		EOSMode:        c.EOSMode,

		InputSlots:  c.InputSlots,
		OutputSlots: c.OutputSlots,

		DebugFrameEvery: debugEvery,
	}
}

// ParseColor parses a hex color string such as "#61afef". Malformed input
// yields opaque black.
func ParseColor(hex string) color.RGBA {
	black := color.RGBA{A: 255}
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return black
	}

	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexValue(hex[i*2])
		lo, ok2 := hexValue(hex[i*2+1])
		if !ok1 || !ok2 {
			return black
		}
		rgb[i] = hi<<4 | lo
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// SurfaceTheme resolves the theme over ggsurface.DefaultTheme.
func (t ThemeConfig) SurfaceTheme() ggsurface.Theme {
	def := ggsurface.DefaultTheme
	pick := func(hex string, fallback color.RGBA) color.RGBA {
		if hex == "" {
			return fallback
		}
		return ParseColor(hex)
	}
	return ggsurface.Theme{
		Background: pick(t.BackgroundColor, def.Background),
		TitleBar:   pick(t.TitleBarColor, def.TitleBar),
		Panel:      pick(t.PanelColor, def.Panel),
		Accent:     pick(t.AccentColor, def.Accent),
		Text:       pick(t.TextColor, def.Text),
		Muted:      pick(t.MutedColor, def.Muted),
	}
}
