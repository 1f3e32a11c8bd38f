package media

import "testing"

func TestFrameCount(t *testing.T) {
	cases := []struct {
		duration float64
		want     int
	}{
		{5, 4},    // clamped low
		{32, 4},   // round(4)
		{60, 8},   // round(7.5)
		{200, 12}, // clamped high
	}
	for _, c := range cases {
		if got := FrameCount(c.duration); got != c.want {
			t.Fatalf("FrameCount(%v) = %d, want %d", c.duration, got, c.want)
		}
	}
}

func TestFrameIndicesSpreadEvenly(t *testing.T) {
	idx := frameIndices(1800, 8)
	if len(idx) != 8 {
		t.Fatalf("got %d indices, want 8", len(idx))
	}
	if idx[0] != 0 {
		t.Fatalf("first index = %d, want 0", idx[0])
	}
	if idx[len(idx)-1] != 1799 {
		t.Fatalf("last index = %d, want 1799", idx[len(idx)-1])
	}
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			t.Fatalf("indices not strictly increasing: %v", idx)
		}
	}
}

func TestFrameIndicesDedupesShortVideos(t *testing.T) {
	// fewer frames than requested samples: indices collapse, no duplicates
	idx := frameIndices(3, 8)
	seen := map[int]bool{}
	for _, v := range idx {
		if seen[v] {
			t.Fatalf("duplicate index %d in %v", v, idx)
		}
		seen[v] = true
		if v < 0 || v > 2 {
			t.Fatalf("index %d outside [0,2]", v)
		}
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997002997},
		{"25", 25},
		{"0/0", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := parseRate(c.in); got != c.want {
			t.Fatalf("parseRate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
