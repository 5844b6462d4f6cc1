package isoscene

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	cullTime       time.Duration
	sortTime       time.Duration
	submitTime     time.Duration
	itemCount      int
	culledCount    int
	bucketCount    int
	characterCount int
}

// debugLog prints timing and draw stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.cullTime + stats.sortTime + stats.submitTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[isoscene] cull: %v | sort: %v | submit: %v | total: %v\n",
		stats.cullTime, stats.sortTime, stats.submitTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[isoscene] drawn: %d | culled: %d | depth buckets: %d | characters: %d\n",
		stats.itemCount, stats.culledCount, stats.bucketCount, stats.characterCount)
}

// debugMaxObjects is the object count above which a warning is printed.
const debugMaxObjects = 20000

func debugCheckObjectCount(n int) {
	if n == debugMaxObjects+1 {
		_, _ = fmt.Fprintf(os.Stderr, "[isoscene] warning: scene holds more than %d objects\n", debugMaxObjects)
	}
}
