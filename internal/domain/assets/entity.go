package assets

// Kind is the closed set of creative asset types.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindText  Kind = "text"
)

// Known reports whether k is one of the supported asset kinds.
func (k Kind) Known() bool {
	switch k {
	case KindImage, KindVideo, KindAudio, KindText:
		return true
	}
	return false
}

// CreativeAsset is the immutable input handed to the pipeline. Remote kinds
// (image/video/audio) carry a FileURL; text assets carry the copy inline.
type CreativeAsset struct {
	ID          string `json:"id"`
	Kind        Kind   `json:"kind"`
	FileURL     string `json:"file_url,omitempty"`
	AdCopy      string `json:"ad_copy,omitempty"`
	VoiceScript string `json:"voice_script,omitempty"`
}

// VideoMetadata as read from the container. FPS of 0 means the container gave
// no usable timing info; DurationSeconds is 0 in that case and downstream
// treats the video as "metadata unavailable".
type VideoMetadata struct {
	DurationSeconds float64 `json:"duration_seconds"`
	FPS             float64 `json:"fps"`
	TotalFrames     int     `json:"total_frames"`
}

// AcousticFeatures are the audio descriptors fed into the prompt. Any field
// that fails to compute is left at zero.
type AcousticFeatures struct {
	DurationSeconds      float64 `json:"duration_seconds"`
	TempoBPM             float64 `json:"tempo_bpm"`
	AverageEnergy        float64 `json:"average_energy"`
	EnergyVariance       float64 `json:"energy_variance"`
	SpectralCentroidMean float64 `json:"spectral_centroid_mean"`
	ZeroCrossingRate     float64 `json:"zero_crossing_rate"`
	SilenceRatio         float64 `json:"silence_ratio"`
	EstimatedPauseCount  int     `json:"estimated_pause_count"`
}

// ProcessedContent is the tagged result of extracting one asset. Exactly the
// fields for its Kind are populated; it is never mutated after creation.
type ProcessedContent struct {
	AssetID string
	Kind    Kind

	// text
	AdCopy      string
	VoiceScript string

	// image: single JPEG blob
	Image []byte

	// video
	Frames     [][]byte
	Transcript string
	Video      VideoMetadata

	// audio (shares Transcript)
	Acoustic AcousticFeatures

	SourceURL string
}

// Buckets partitions processed content by kind, in input order within each
// bucket. The merge order into the prompt is by kind, not by completion time.
type Buckets struct {
	Text  []ProcessedContent
	Image []ProcessedContent
	Video []ProcessedContent
	Audio []ProcessedContent
}

// Add places c into its per-kind bucket.
func (b *Buckets) Add(c ProcessedContent) {
	switch c.Kind {
	case KindText:
		b.Text = append(b.Text, c)
	case KindImage:
		b.Image = append(b.Image, c)
	case KindVideo:
		b.Video = append(b.Video, c)
	case KindAudio:
		b.Audio = append(b.Audio, c)
	}
}

// Total is the number of successfully processed assets across all buckets.
func (b *Buckets) Total() int {
	return len(b.Text) + len(b.Image) + len(b.Video) + len(b.Audio)
}

// PrimaryVideoDuration returns the duration of the first video asset with
// known metadata, or 0 when no video carries usable timing. The scene and
// emotion schedules key off this value.
func (b *Buckets) PrimaryVideoDuration() float64 {
	for _, v := range b.Video {
		if v.Video.DurationSeconds > 0 {
			return v.Video.DurationSeconds
		}
	}
	return 0
}
