package pipeline

import (
	"time"

	"github.com/user/uirecord/pkg/ports"
)

// =============================================================================
// Recording Configuration
// =============================================================================

// EOS modes select how the end of the stream is signalled to the codec.
const (
	// EOSLastFrame flags the final frame itself with END_OF_STREAM.
	EOSLastFrame = "last-frame"
	// EOSEmptyFrame submits every frame as a keyframe and then an extra
	// zero-length END_OF_STREAM input.
	EOSEmptyFrame = "empty-frame"
)

// RecordingConfig is the fixed configuration of one recording run.
// It is built once before the pipeline starts and never modified.
type RecordingConfig struct {
	Width          int    // Frame width in pixels (even)
	Height         int    // Frame height in pixels (even)
	MIME           string // Codec identity (default: video/avc)
	BitRate        int    // Target bitrate in bits per second
	FrameRate      int    // Frames per second
	IFrameInterval int    // Seconds between keyframes
	FrameCount     int    // Total frames N
	OutputPath     string // Container file path

	TickPeriod     time.Duration // Loop period (default: 17ms)
	BaseOffsetUs   int64         // Timestamp of frame 0 (default: 132)
	DequeueTimeout time.Duration // Bound on acquire/drain waits (negative: unbounded)
	MaxIdleTicks   int           // Abort after this many consecutive ticks with nothing submitted or drained (0: never)
	EOSMode        string        // EOSLastFrame or EOSEmptyFrame

	InputSlots  int // Codec input slot count hint
	OutputSlots int // Codec output slot count hint

	DebugFrameEvery int // Save every k-th rendered frame to the debug sink (0: never)
}

// DefaultRecordingConfig returns RecordingConfig with default values.
func DefaultRecordingConfig() RecordingConfig {
	return RecordingConfig{
		Width:          1280,
		Height:         720,
		MIME:           ports.MIMETypeAVC,
		BitRate:        2_000_000,
		FrameRate:      15,
		IFrameInterval: 10,
		FrameCount:     180,
		OutputPath:     "video.mp4",
		TickPeriod:     17 * time.Millisecond,
		BaseOffsetUs:   132,
		DequeueTimeout: 100 * time.Millisecond,
		EOSMode:        EOSLastFrame,
		InputSlots:     4,
		OutputSlots:    4,
	}
}

// PresentationTimeUs returns the timestamp of frame index i.
func (c RecordingConfig) PresentationTimeUs(i int) int64 {
	return c.BaseOffsetUs + int64(i)*1_000_000/int64(c.FrameRate)
}

// FrameSize returns the byte size of one I420 frame.
func (c RecordingConfig) FrameSize() int {
	return c.Width * c.Height * 3 / 2
}

// MediaFormat returns the codec format for this recording.
func (c RecordingConfig) MediaFormat() ports.MediaFormat {
	return ports.MediaFormat{
		MIME:           c.MIME,
		Width:          c.Width,
		Height:         c.Height,
		BitRate:        c.BitRate,
		FrameRate:      c.FrameRate,
		IFrameInterval: c.IFrameInterval,
		ColorFormat:    ports.ColorFormatYUV420Planar,
	}
}

// Duration returns the nominal playback length of the recording.
func (c RecordingConfig) Duration() time.Duration {
	if c.FrameRate <= 0 {
		return 0
	}
	return time.Duration(c.FrameCount) * time.Second / time.Duration(c.FrameRate)
}

// =============================================================================
// Capture Stage Types
// =============================================================================

// CaptureInput holds the started collaborators of one recording run.
type CaptureInput struct {
	Surface ports.Surface
	Codec   ports.Codec
	Muxer   ports.Muxer
	Config  RecordingConfig
}

// CaptureResult summarizes a finished (or aborted) capture loop.
type CaptureResult struct {
	Ticks           int   // Loop iterations
	FramesSubmitted int   // Frames rendered and queued
	SkippedFrames   int   // Ticks where no input slot was available
	EOSSubmitted    bool  // END_OF_STREAM input queued
	ConfigSamples   int   // CONFIG samples drained
	SamplesWritten  int   // Payload samples written to the muxer
	BytesWritten    int64 // Payload bytes written to the muxer
	FirstPtsUs      int64 // Timestamp of the first written sample
	LastPtsUs       int64 // Timestamp of the last written sample
	FormatChanges   int   // FORMAT_CHANGED notifications
	TableChanges    int   // BUFFERS_CHANGED notifications
	EOSReceived     bool  // END_OF_STREAM drained
	Aborted         bool  // Loop ended without END_OF_STREAM
	Duration        time.Duration
}

// =============================================================================
// Run Report Types
// =============================================================================

// RunReport is the record of one run, written as recording.json and used
// for the Markdown summary.
type RunReport struct {
	RunID      string          `json:"runId"`
	Codec      string          `json:"codec"`
	Surface    string          `json:"surface"`
	Config     RecordingConfig `json:"config"`
	Result     CaptureResult   `json:"result"`
	OutputSize int64           `json:"outputSize"`
	StartedAt  time.Time       `json:"startedAt"`
	Error      string          `json:"error,omitempty"`
}
