package pretest

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestSceneCount(t *testing.T) {
	cases := []struct {
		duration float64
		want     int
	}{
		{5, 4},    // clamped low
		{30, 4},   // round(3)+1
		{60, 7},   // round(6)+1
		{95, 11},  // round(9.5)+1
		{300, 12}, // clamped high
	}
	for _, c := range cases {
		if got := SceneCount(c.duration); got != c.want {
			t.Fatalf("SceneCount(%v) = %d, want %d", c.duration, got, c.want)
		}
	}
}

func TestSceneRangesPartitionTheWholeVideo(t *testing.T) {
	const d = 60.0
	ranges := SceneRanges(d)
	if len(ranges) != 7 {
		t.Fatalf("got %d ranges for a 60s video, want 7", len(ranges))
	}
	if !strings.HasPrefix(ranges[0], "0.0s-") {
		t.Fatalf("first range %q should start at 0.0s", ranges[0])
	}
	if !strings.HasSuffix(ranges[len(ranges)-1], "-60.0s") {
		t.Fatalf("last range %q should end at 60.0s", ranges[len(ranges)-1])
	}
	// each range must start where the previous ended
	for i := 1; i < len(ranges); i++ {
		prevEnd := strings.Split(ranges[i-1], "-")[1]
		curStart := strings.Split(ranges[i], "-")[0]
		if prevEnd != curStart {
			t.Fatalf("range %d starts at %s but previous ended at %s", i, curStart, prevEnd)
		}
	}
}

func TestEmotionPointCount(t *testing.T) {
	cases := []struct {
		duration float64
		want     int
	}{
		{10, 5},   // clamped low
		{60, 9},   // round(7.5)+1
		{200, 15}, // clamped high
	}
	for _, c := range cases {
		if got := EmotionPointCount(c.duration); got != c.want {
			t.Fatalf("EmotionPointCount(%v) = %d, want %d", c.duration, got, c.want)
		}
	}
}

func TestEmotionTimestampsSpanTheVideo(t *testing.T) {
	const d = 60.0
	stamps := EmotionTimestamps(d)
	if len(stamps) != 9 {
		t.Fatalf("got %d timestamps for a 60s video, want 9", len(stamps))
	}
	if stamps[0] != 0 {
		t.Fatalf("first timestamp = %v, want 0", stamps[0])
	}
	if math.Abs(stamps[len(stamps)-1]-d) > 1e-9 {
		t.Fatalf("last timestamp = %v, want %v", stamps[len(stamps)-1], d)
	}
	for i := 1; i < len(stamps); i++ {
		if stamps[i] <= stamps[i-1] {
			t.Fatalf("timestamps not strictly increasing at %d: %v", i, stamps)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	if got := FormatTimestamp(7.5); got != "7.5s" {
		t.Fatalf("FormatTimestamp(7.5) = %q, want \"7.5s\"", got)
	}
	if got := FormatTimestamp(0); got != fmt.Sprintf("%.1fs", 0.0) {
		t.Fatalf("FormatTimestamp(0) = %q", got)
	}
}
