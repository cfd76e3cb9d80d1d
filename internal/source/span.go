package source

import (
	"math"

	"fortio.org/safecast"
)

// MaxContentSize is the largest content a Span can address.
const MaxContentSize = math.MaxUint32

type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

// NewSpan builds a span from int offsets. Offsets outside the uint32 range
// are clamped to it, so callers never panic on oversized input.
func NewSpan(file FileID, start, end int) Span {
	return Span{File: file, Start: ClampOffset(start), End: ClampOffset(end)}
}

// ClampOffset converts n to uint32, saturating at 0 and MaxContentSize.
func ClampOffset(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err == nil {
		return v
	}
	if n < 0 {
		return 0
	}
	return MaxContentSize
}

func (s Span) Empty() bool {
	return s.Start == s.End
}
