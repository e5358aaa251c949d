package codecbuf

import "github.com/user/uirecord/pkg/ports"

// DrainKind identifies the variant held by a DrainResult.
type DrainKind int

const (
	// DrainSample carries a borrowed output slot and its BufferInfo.
	DrainSample DrainKind = iota
	// DrainTryAgain means no output was ready within the wait.
	DrainTryAgain
	// DrainTableChanged means the output slot table must be refreshed.
	DrainTableChanged
	// DrainFormatChanged means the codec output format was updated.
	DrainFormatChanged
	// DrainFatal means the codec failed; Err holds the cause.
	DrainFatal
)

func (k DrainKind) String() string {
	switch k {
	case DrainSample:
		return "sample"
	case DrainTryAgain:
		return "try-again"
	case DrainTableChanged:
		return "table-changed"
	case DrainFormatChanged:
		return "format-changed"
	case DrainFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// DrainResult is the outcome of one DrainOutput call.
type DrainResult struct {
	Kind DrainKind
	Slot Slot
	Info ports.BufferInfo
	Err  error
}
