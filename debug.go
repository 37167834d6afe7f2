package reef

import (
	"fmt"
	"log"
	"os"
	"time"
)

// debugStats holds per-frame timing metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	animationTime  time.Duration
	particleTime   time.Duration
	sequenceTime   time.Duration
	animationCount int
	virtualTime    float64
	wallDt         float64
}

// debugLog prints timing stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.animationTime + stats.particleTime + stats.sequenceTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[reef] frame %d | t: %.3f (x%.2f) | wall dt: %.4f\n",
		s.frame, stats.virtualTime, s.clock.TimeScale(), stats.wallDt)
	_, _ = fmt.Fprintf(os.Stderr,
		"[reef] animations(%d): %v | particles: %v | sequencers: %v | total: %v\n",
		stats.animationCount, stats.animationTime, stats.particleTime, stats.sequenceTime, total)
}

// debugLogStory prints a fired story event to stderr.
func debugLogStory(ev StoryEvent) {
	_, _ = fmt.Fprintf(os.Stderr, "[reef] story %s[%d] %q fired at t=%.3f\n",
		ev.Sequencer, ev.Index, ev.Name, ev.Time)
}

// debugWarn logs a configuration problem that was recovered from.
func debugWarn(format string, args ...any) {
	log.Printf("reef: "+format, args...)
}

// debugCheckTransformDepth warns on stderr if a transform's parent chain
// exceeds the threshold. Every world matrix read walks the whole chain.
const debugMaxTransformDepth = 16

func debugCheckTransformDepth(t *Transform) {
	depth := 0
	for p := t; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTransformDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[reef] warning: transform depth %d exceeds %d (transform %q)\n",
			depth, debugMaxTransformDepth, t.Name)
	}
}
