package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving intermediate processing results for debugging purposes.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveRecordingJSON saves the recording metadata as JSON.
	SaveRecordingJSON(data []byte) error

	// SaveFrame saves a rendered surface frame.
	SaveFrame(index int, img image.Image) error

	// SavePlanes saves the converted I420 planes of a frame.
	SavePlanes(index int, data []byte) error

	// SaveContactSheet saves an overview of every frame saved so far.
	SaveContactSheet() error
}
