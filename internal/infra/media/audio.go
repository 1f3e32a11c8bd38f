package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"

	"github.com/adityasw/creative-pretest/internal/domain/assets"
)

const (
	analysisRate = 22050
	frameSize    = 2048
	hopSize      = 1024
)

// AudioAnalyzer decodes an audio payload with ffmpeg and computes the
// acoustic descriptors fed into the prompt.
type AudioAnalyzer struct {
	FFmpegPath string
}

func NewAudioAnalyzer(ffmpegPath string) *AudioAnalyzer {
	return &AudioAnalyzer{FFmpegPath: ffmpegPath}
}

// Analyze decodes the payload to mono PCM and derives its features.
func (a *AudioAnalyzer) Analyze(ctx context.Context, data []byte) (assets.AcousticFeatures, error) {
	samples, err := a.decodePCM(ctx, data)
	if err != nil {
		return assets.AcousticFeatures{}, err
	}
	return ComputeFeatures(samples, analysisRate), nil
}

// decodePCM runs ffmpeg to get signed 16-bit little-endian mono samples at
// the analysis rate, then converts them to float64 in [-1, 1).
func (a *AudioAnalyzer) decodePCM(ctx context.Context, data []byte) ([]float64, error) {
	path, cleanup, err := writeTemp(data, "pretest-audio-*")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cmd := exec.CommandContext(ctx, a.FFmpegPath,
		"-i", path,
		"-ac", "1",
		"-ar", strconv.Itoa(analysisRate),
		"-f", "s16le",
		"-c:a", "pcm_s16le",
		"pipe:1",
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg audio decode: %w", err)
	}

	raw := stdout.Bytes()
	if len(raw) < 2 {
		return nil, fmt.Errorf("audio stream is empty")
	}

	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float64(v) / 32768.0
	}
	return samples, nil
}

// ComputeFeatures derives the acoustic descriptors from mono PCM. Descriptors
// that cannot be computed on short input are left at zero rather than
// failing the whole asset.
func ComputeFeatures(samples []float64, rate int) assets.AcousticFeatures {
	f := assets.AcousticFeatures{
		DurationSeconds: float64(len(samples)) / float64(rate),
	}
	if len(samples) < frameSize {
		return f
	}

	energies := frameEnergies(samples)
	f.AverageEnergy, f.EnergyVariance = meanVariance(energies)
	f.ZeroCrossingRate = zeroCrossingRate(samples)
	f.SpectralCentroidMean = spectralCentroidMean(samples, rate)

	// Frames under 10% of the mean energy count as silence.
	threshold := 0.1 * f.AverageEnergy
	silent := 0
	pauses := 0
	wasSilent := false
	for _, e := range energies {
		isSilent := e < threshold
		if isSilent {
			silent++
			if !wasSilent {
				pauses++
			}
		}
		wasSilent = isSilent
	}
	f.SilenceRatio = float64(silent) / float64(len(energies))
	f.EstimatedPauseCount = pauses
	f.TempoBPM = estimateTempo(energies, rate)

	return f
}

// frameEnergies is the per-frame RMS over a sliding window.
func frameEnergies(samples []float64) []float64 {
	var out []float64
	for start := 0; start+frameSize <= len(samples); start += hopSize {
		var sum float64
		for _, s := range samples[start : start+frameSize] {
			sum += s * s
		}
		out = append(out, math.Sqrt(sum/frameSize))
	}
	return out
}

func meanVariance(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return mean, sq / float64(len(xs))
}

func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(samples)-1)
}

// spectralCentroidMean averages the magnitude-weighted frequency over all
// analysis frames. Frames are Hann-windowed to keep spectral leakage from
// dragging the centroid upward.
func spectralCentroidMean(samples []float64, rate int) float64 {
	var total float64
	frames := 0
	re := make([]float64, frameSize)
	im := make([]float64, frameSize)
	window := make([]float64, frameSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/(frameSize-1)))
	}

	for start := 0; start+frameSize <= len(samples); start += hopSize {
		for i, s := range samples[start : start+frameSize] {
			re[i] = s * window[i]
			im[i] = 0
		}
		fft(re, im)

		var weighted, magSum float64
		for k := 0; k < frameSize/2; k++ {
			mag := math.Hypot(re[k], im[k])
			freq := float64(k) * float64(rate) / frameSize
			weighted += freq * mag
			magSum += mag
		}
		if magSum > 0 {
			total += weighted / magSum
			frames++
		}
	}
	if frames == 0 {
		return 0
	}
	return total / float64(frames)
}

// fft is an in-place iterative radix-2 Cooley-Tukey transform. Both slices
// must have the same power-of-two length.
func fft(re, im []float64) {
	n := len(re)
	if n < 2 || n&(n-1) != 0 {
		return
	}

	// bit-reversal permutation
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j |= bit
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for length := 2; length <= n; length <<= 1 {
		angle := -2 * math.Pi / float64(length)
		wRe, wIm := math.Cos(angle), math.Sin(angle)
		for start := 0; start < n; start += length {
			curRe, curIm := 1.0, 0.0
			for k := 0; k < length/2; k++ {
				evenRe, evenIm := re[start+k], im[start+k]
				oddRe := re[start+k+length/2]*curRe - im[start+k+length/2]*curIm
				oddIm := re[start+k+length/2]*curIm + im[start+k+length/2]*curRe
				re[start+k], im[start+k] = evenRe+oddRe, evenIm+oddIm
				re[start+k+length/2], im[start+k+length/2] = evenRe-oddRe, evenIm-oddIm
				curRe, curIm = curRe*wRe-curIm*wIm, curRe*wIm+curIm*wRe
			}
		}
	}
}

// estimateTempo autocorrelates the onset envelope over the 60-180 BPM lag
// range. Returns 0 when the clip is too short to carry a beat.
func estimateTempo(energies []float64, rate int) float64 {
	// onset envelope: positive energy increases between frames
	onsets := make([]float64, 0, len(energies))
	for i := 1; i < len(energies); i++ {
		d := energies[i] - energies[i-1]
		if d < 0 {
			d = 0
		}
		onsets = append(onsets, d)
	}

	framesPerSecond := float64(rate) / hopSize
	minLag := int(framesPerSecond * 60 / 180) // 180 BPM
	maxLag := int(framesPerSecond * 60 / 60)  // 60 BPM
	if minLag < 1 || maxLag >= len(onsets) {
		return 0
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := lag; i < len(onsets); i++ {
			corr += onsets[i] * onsets[i-lag]
		}
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}
	if bestLag == 0 || bestCorr == 0 {
		return 0
	}
	return 60 * framesPerSecond / float64(bestLag)
}
