// Package summarizer provides summary generation for recording results.
package summarizer

import (
	"time"

	"github.com/user/uirecord/pkg/mp4probe"
	"github.com/user/uirecord/pkg/pipeline"
)

// Summary contains all data collected during a recording session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string

	// Recording settings
	Settings Settings

	// Capture loop results
	Capture CaptureInfo

	// Video output details
	Video VideoInfo
}

// Settings contains the recording configuration.
type Settings struct {
	Codec          string
	Surface        string
	Width          int
	Height         int
	FrameRate      int
	BitRate        int
	IFrameInterval int
	FrameCount     int
	EOSMode        string
	OutputPath     string
}

// CaptureInfo contains what the capture loop did.
type CaptureInfo struct {
	Ticks           int
	FramesSubmitted int
	SkippedFrames   int
	SamplesWritten  int
	BytesWritten    int64
	ConfigSamples   int
	FormatChanges   int
	FirstPtsUs      int64
	LastPtsUs       int64
	Elapsed         time.Duration
	Aborted         bool
	Error           string
}

// VideoInfo contains information about the output video, read back from
// the file when it could be probed.
type VideoInfo struct {
	FileSize    int64
	Probed      bool
	Codec       string
	Profile     int
	Level       int
	Samples     int
	SyncSamples int
	Duration    time.Duration
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// FromReport fills settings, capture results and file size from a run report.
func (b *Builder) FromReport(r pipeline.RunReport) *Builder {
	cfg := r.Config
	b.summary.RunID = r.RunID
	b.summary.Settings = Settings{
		Codec:          r.Codec,
		Surface:        r.Surface,
		Width:          cfg.Width,
		Height:         cfg.Height,
		FrameRate:      cfg.FrameRate,
		BitRate:        cfg.BitRate,
		IFrameInterval: cfg.IFrameInterval,
		FrameCount:     cfg.FrameCount,
		EOSMode:        cfg.EOSMode,
		OutputPath:     cfg.OutputPath,
	}
	res := r.Result
	b.summary.Capture = CaptureInfo{
		Ticks:           res.Ticks,
		FramesSubmitted: res.FramesSubmitted,
		SkippedFrames:   res.SkippedFrames,
		SamplesWritten:  res.SamplesWritten,
		BytesWritten:    res.BytesWritten,
		ConfigSamples:   res.ConfigSamples,
		FormatChanges:   res.FormatChanges,
		FirstPtsUs:      res.FirstPtsUs,
		LastPtsUs:       res.LastPtsUs,
		Elapsed:         res.Duration,
		Aborted:         res.Aborted,
		Error:           r.Error,
	}
	b.summary.Video.FileSize = r.OutputSize
	return b
}

// WithSettings sets recording settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithCapture sets capture results.
func (b *Builder) WithCapture(capture CaptureInfo) *Builder {
	b.summary.Capture = capture
	return b
}

// WithProbe sets video details read back from the output file.
func (b *Builder) WithProbe(info *mp4probe.Info) *Builder {
	if info == nil {
		return b
	}
	v := &b.summary.Video
	v.Probed = true
	v.Codec = info.Codec
	v.Profile = info.Profile
	v.Level = info.Level
	v.Samples = len(info.Samples)
	v.SyncSamples = info.SyncSamples()
	v.Duration = info.Duration()
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
