package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/adityasw/creative-pretest/internal/domain/assets"
)

// FrameSampler extracts metadata, still frames and the audio track from a
// video container using the ffmpeg/ffprobe binaries.
type FrameSampler struct {
	FFmpegPath  string
	FFprobePath string
}

func NewFrameSampler(ffmpegPath, ffprobePath string) *FrameSampler {
	return &FrameSampler{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

type probeOutput struct {
	Streams []struct {
		RFrameRate string `json:"r_frame_rate"`
		NBFrames   string `json:"nb_frames"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads the container's frame rate and frame count. Duration is derived
// as frames/fps; a stream without usable timing yields a zero-value metadata
// and downstream skips the duration-keyed sections.
func (s *FrameSampler) Probe(ctx context.Context, data []byte) (assets.VideoMetadata, error) {
	path, cleanup, err := writeTemp(data, "pretest-video-*")
	if err != nil {
		return assets.VideoMetadata{}, err
	}
	defer cleanup()

	cmd := exec.CommandContext(ctx, s.FFprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate,nb_frames",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return assets.VideoMetadata{}, fmt.Errorf("ffprobe: %w", err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return assets.VideoMetadata{}, fmt.Errorf("ffprobe output: %w", err)
	}
	if len(probe.Streams) == 0 {
		return assets.VideoMetadata{}, fmt.Errorf("no video stream found")
	}

	fps := parseRate(probe.Streams[0].RFrameRate)
	frames, _ := strconv.Atoi(probe.Streams[0].NBFrames)
	if frames == 0 && fps > 0 {
		if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			frames = int(d * fps)
		}
	}

	meta := assets.VideoMetadata{FPS: fps, TotalFrames: frames}
	if fps > 0 {
		meta.DurationSeconds = float64(frames) / fps
	}
	return meta, nil
}

// parseRate parses ffprobe's rational frame rate, e.g. "30000/1001".
func parseRate(r string) float64 {
	num, den, ok := strings.Cut(r, "/")
	if !ok {
		v, _ := strconv.ParseFloat(r, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// FrameCount is the number of stills sampled from a video of the given
// duration: one per 8 seconds, at least 4 and at most 12.
func FrameCount(durationSeconds float64) int {
	n := int(math.Round(durationSeconds / 8))
	if n < 4 {
		n = 4
	}
	if n > 12 {
		n = 12
	}
	return n
}

// frameIndices spreads n sample points evenly over [0, totalFrames-1].
func frameIndices(totalFrames, n int) []int {
	if totalFrames <= 0 || n <= 0 {
		return nil
	}
	if n == 1 || totalFrames == 1 {
		return []int{0}
	}
	idx := make([]int, 0, n)
	step := float64(totalFrames-1) / float64(n-1)
	prev := -1
	for i := 0; i < n; i++ {
		v := int(math.Round(float64(i) * step))
		if v == prev {
			continue
		}
		idx = append(idx, v)
		prev = v
	}
	return idx
}

// SampleFrames extracts evenly spaced JPEG stills. Individual frame failures
// are skipped; an error is returned only when no frame could be decoded.
func (s *FrameSampler) SampleFrames(ctx context.Context, data []byte, meta assets.VideoMetadata) ([][]byte, error) {
	if meta.FPS <= 0 || meta.TotalFrames <= 0 {
		return nil, fmt.Errorf("video has no usable timing metadata")
	}

	path, cleanup, err := writeTemp(data, "pretest-video-*")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	indices := frameIndices(meta.TotalFrames, FrameCount(meta.DurationSeconds))
	frames := make([][]byte, 0, len(indices))
	for _, idx := range indices {
		ts := float64(idx) / meta.FPS
		cmd := exec.CommandContext(ctx, s.FFmpegPath,
			"-ss", strconv.FormatFloat(ts, 'f', 3, 64),
			"-i", path,
			"-frames:v", "1",
			"-c:v", "mjpeg",
			"-f", "image2",
			"pipe:1",
		)
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		if err := cmd.Run(); err != nil || stdout.Len() == 0 {
			continue
		}
		frames = append(frames, stdout.Bytes())
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames could be extracted")
	}
	return frames, nil
}

// ExtractAudio demuxes the audio track as 16kHz mono WAV, the shape the
// transcription endpoint wants.
func (s *FrameSampler) ExtractAudio(ctx context.Context, data []byte) ([]byte, error) {
	path, cleanup, err := writeTemp(data, "pretest-video-*")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cmd := exec.CommandContext(ctx, s.FFmpegPath,
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		"pipe:1",
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg audio extract: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("video has no audio track")
	}
	return stdout.Bytes(), nil
}

func writeTemp(data []byte, pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
