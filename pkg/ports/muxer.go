package ports

// Muxer abstracts a container writer that accepts compressed samples.
type Muxer interface {
	// AddTrack registers a track and returns its index. Must precede Start.
	AddTrack(format MediaFormat) (int, error)

	// Start begins accepting samples.
	Start() error

	// WriteSampleData appends one compressed sample to the given track.
	// data holds exactly the info.Size bytes of the sample.
	WriteSampleData(trackIndex int, data []byte, info BufferInfo) error

	// Stop finalizes the container.
	Stop() error

	// Release frees resources. Safe to call after a failed Stop.
	Release() error
}
