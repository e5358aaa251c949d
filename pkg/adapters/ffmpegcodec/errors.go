package ffmpegcodec

import "errors"

var (
	// ErrFFmpegNotFound is returned when no ffmpeg executable can be located.
	ErrFFmpegNotFound = errors.New("ffmpegcodec: ffmpeg not found")

	// ErrNotStarted is returned when buffers are exchanged outside Start/Stop.
	ErrNotStarted = errors.New("ffmpegcodec: codec not started")

	// ErrNotConfigured is returned by Start before Configure.
	ErrNotConfigured = errors.New("ffmpegcodec: codec not configured")

	// ErrUnsupportedFormat is returned by Configure for formats other than
	// even-sized H.264 with planar 4:2:0 input.
	ErrUnsupportedFormat = errors.New("ffmpegcodec: unsupported format")

	// ErrInputClosed is returned when input is queued after end of stream.
	ErrInputClosed = errors.New("ffmpegcodec: input already ended")
)
