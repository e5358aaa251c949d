// Package ports defines interfaces for the collaborators of the recording pipeline.
package ports

import (
	"context"
	"errors"
	"time"
)

// Codec status conditions returned by the dequeue calls. Any other error
// from a Codec is unrecoverable.
var (
	// ErrTryAgainLater means no buffer became available within the timeout.
	ErrTryAgainLater = errors.New("codec: try again later")

	// ErrOutputFormatChanged means OutputFormat now returns a new value.
	ErrOutputFormatChanged = errors.New("codec: output format changed")

	// ErrOutputBuffersChanged means the slice returned by OutputBuffers was
	// replaced and must be fetched again.
	ErrOutputBuffersChanged = errors.New("codec: output buffers changed")
)

// BufferFlags describe a sample travelling through a Codec.
type BufferFlags uint32

const (
	// FlagKeyFrame marks an independently decodable frame.
	FlagKeyFrame BufferFlags = 1 << iota
	// FlagCodecConfig marks codec initialization data, not media payload.
	FlagCodecConfig
	// FlagEndOfStream marks the last buffer of the stream.
	FlagEndOfStream
)

// Has reports whether all bits of f are set.
func (b BufferFlags) Has(f BufferFlags) bool {
	return b&f == f
}

// String returns a compact representation such as "key|eos".
func (b BufferFlags) String() string {
	if b == 0 {
		return "none"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if b.Has(FlagKeyFrame) {
		add("key")
	}
	if b.Has(FlagCodecConfig) {
		add("config")
	}
	if b.Has(FlagEndOfStream) {
		add("eos")
	}
	return s
}

// BufferInfo describes the valid region of a buffer slot.
type BufferInfo struct {
	Offset             int
	Size               int
	PresentationTimeUs int64
	Flags              BufferFlags
}

// ColorFormat identifies the raw pixel layout a Codec accepts.
type ColorFormat int

const (
	// ColorFormatYUV420Planar is I420: Y plane, then U, then V.
	ColorFormatYUV420Planar ColorFormat = iota + 1
)

// String returns the ffmpeg-style name of the color format.
func (c ColorFormat) String() string {
	switch c {
	case ColorFormatYUV420Planar:
		return "yuv420p"
	default:
		return "unknown"
	}
}

// MIMETypeAVC is the MIME type of an H.264 elementary stream.
const MIMETypeAVC = "video/avc"

// MediaFormat describes an encoded or raw video stream.
type MediaFormat struct {
	MIME           string
	Width          int
	Height         int
	BitRate        int // bits per second
	FrameRate      int
	IFrameInterval int // seconds between key frames
	ColorFormat    ColorFormat

	// CSD holds codec specific data (SPS then PPS for H.264) once the
	// codec has produced it.
	CSD [][]byte
}

// Codec abstracts an asynchronous buffer-exchange video encoder.
// Buffers are owned by the codec and lent to the caller by index.
type Codec interface {
	// Name identifies the codec implementation.
	Name() string

	// Configure sets the output format. Must be called before Start.
	Configure(format MediaFormat) error

	// Start launches the encoder.
	Start() error

	// Stop halts encoding. Buffers are invalid afterwards.
	Stop() error

	// Release frees every resource held by the codec.
	Release() error

	// InputBuffers returns the input slot table.
	InputBuffers() [][]byte

	// OutputBuffers returns the current output slot table.
	OutputBuffers() [][]byte

	// DequeueInputBuffer lends a free input slot. A negative timeout waits
	// without bound, zero polls. Returns ErrTryAgainLater on timeout.
	DequeueInputBuffer(ctx context.Context, timeout time.Duration) (int, error)

	// QueueInputBuffer hands a filled input slot back to the codec.
	QueueInputBuffer(index, offset, size int, presentationTimeUs int64, flags BufferFlags) error

	// DequeueOutputBuffer lends a completed output slot and fills info.
	// Returns ErrTryAgainLater, ErrOutputFormatChanged or
	// ErrOutputBuffersChanged for non-sample conditions.
	DequeueOutputBuffer(ctx context.Context, info *BufferInfo, timeout time.Duration) (int, error)

	// ReleaseOutputBuffer returns an output slot to the codec.
	ReleaseOutputBuffer(index int) error

	// OutputFormat returns the current output format.
	OutputFormat() MediaFormat
}
