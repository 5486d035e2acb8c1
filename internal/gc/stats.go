package gc

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats summarises one collection cycle, the numbers spec.md §4.8
// asks the runtime to print when +PrintGCStatistics is set.
type Stats struct {
	Algorithm     string
	HeapSize      int
	LiveObjects   int
	LiveBytes     int
	Reclaimed     int
	CyclesPerformed int
}

// String renders the cycle with human-friendly byte counts, matching
// how the teacher's CLI output favours humanize over raw integers for
// anything byte- or duration-shaped.
func (s Stats) String() string {
	return fmt.Sprintf(
		"%s: heap=%s live=%d objects (%s) reclaimed=%s",
		s.Algorithm,
		humanize.Bytes(uint64(s.HeapSize)),
		s.LiveObjects,
		humanize.Bytes(uint64(s.LiveBytes)),
		humanize.Bytes(uint64(s.Reclaimed)),
	)
}
