package pretest

import (
	"fmt"
	"math"
)

// Video reports carry two duration-keyed timelines: a scene-by-scene table
// and an emotional-journey curve. Both schedules are fixed functions of the
// video duration so the output shape is checkable before any analysis runs.

// SceneCount is one scene per 10 seconds plus one, clamped to [4, 12].
func SceneCount(durationSeconds float64) int {
	n := int(math.Round(durationSeconds/10)) + 1
	if n < 4 {
		n = 4
	}
	if n > 12 {
		n = 12
	}
	return n
}

// SceneRanges partitions [0, duration] into SceneCount contiguous ranges,
// formatted as "0.0s-8.6s".
func SceneRanges(durationSeconds float64) []string {
	n := SceneCount(durationSeconds)
	out := make([]string, n)
	for i := 0; i < n; i++ {
		lo := float64(i) * durationSeconds / float64(n)
		hi := float64(i+1) * durationSeconds / float64(n)
		out[i] = fmt.Sprintf("%.1fs-%.1fs", lo, hi)
	}
	return out
}

// EmotionPointCount is one sample per 8 seconds plus one, clamped to [5, 15].
func EmotionPointCount(durationSeconds float64) int {
	n := int(math.Round(durationSeconds/8)) + 1
	if n < 5 {
		n = 5
	}
	if n > 15 {
		n = 15
	}
	return n
}

// EmotionTimestamps spreads EmotionPointCount samples evenly over
// [0, duration], endpoints included.
func EmotionTimestamps(durationSeconds float64) []float64 {
	n := EmotionPointCount(durationSeconds)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = float64(i) * durationSeconds / float64(n-1)
	}
	return out
}

// FormatTimestamp renders a journey timestamp the way the report shows it.
func FormatTimestamp(seconds float64) string {
	return fmt.Sprintf("%.1fs", seconds)
}
