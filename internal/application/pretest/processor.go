package pretest

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	domai "github.com/adityasw/creative-pretest/internal/domain/ai"
	"github.com/adityasw/creative-pretest/internal/domain/assets"
)

// ContentFetcher downloads a remote asset into memory, rejecting responses
// outside the expected content category.
type ContentFetcher interface {
	Fetch(ctx context.Context, url, category string) ([]byte, error)
}

// VideoExtractor reads container metadata, samples stills and demuxes audio.
type VideoExtractor interface {
	Probe(ctx context.Context, data []byte) (assets.VideoMetadata, error)
	SampleFrames(ctx context.Context, data []byte, meta assets.VideoMetadata) ([][]byte, error)
	ExtractAudio(ctx context.Context, data []byte) ([]byte, error)
}

// AudioExtractor computes acoustic descriptors from an audio payload.
type AudioExtractor interface {
	Analyze(ctx context.Context, data []byte) (assets.AcousticFeatures, error)
}

// ImageNormalizer shrinks oversized images to the provider's payload limit.
type ImageNormalizer func(data []byte, maxBytes int) ([]byte, error)

// Processor runs per-asset extraction concurrently and merges the results
// into kind buckets in input order. One failing asset never aborts its
// siblings; it is recorded as skipped instead.
type Processor struct {
	Fetcher     ContentFetcher
	Video       VideoExtractor
	Audio       AudioExtractor
	Transcriber domai.Transcriber
	Normalize   ImageNormalizer

	MaxImageBytes int
	WorkerLimit   int
	Log           zerolog.Logger
}

// Process extracts every asset with bounded concurrency. The returned skipped
// slice holds one error per asset that produced no usable content.
func (p *Processor) Process(ctx context.Context, in []assets.CreativeAsset) (*assets.Buckets, []error) {
	results := make([]*assets.ProcessedContent, len(in))
	failures := make([]error, len(in))

	limit := p.WorkerLimit
	if limit <= 0 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, a := range in {
		i, a := i, a
		g.Go(func() error {
			c, err := p.processOne(ctx, a)
			if err != nil {
				p.Log.Warn().Str("asset_id", a.ID).Str("kind", string(a.Kind)).Err(err).Msg("asset skipped")
				failures[i] = err
				return nil
			}
			results[i] = c
			return nil
		})
	}
	g.Wait()

	// fan-in preserves input order within each bucket
	var buckets assets.Buckets
	var skipped []error
	for i, c := range results {
		if c != nil {
			buckets.Add(*c)
			continue
		}
		if failures[i] != nil {
			skipped = append(skipped, failures[i])
		}
	}
	return &buckets, skipped
}

func (p *Processor) processOne(ctx context.Context, a assets.CreativeAsset) (*assets.ProcessedContent, error) {
	switch a.Kind {
	case assets.KindText:
		return p.processText(a)
	case assets.KindImage:
		return p.processImage(ctx, a)
	case assets.KindVideo:
		return p.processVideo(ctx, a)
	case assets.KindAudio:
		return p.processAudio(ctx, a)
	default:
		return nil, fmt.Errorf("%w: %q (asset %s)", assets.ErrUnknownKind, a.Kind, a.ID)
	}
}

func (p *Processor) processText(a assets.CreativeAsset) (*assets.ProcessedContent, error) {
	if strings.TrimSpace(a.AdCopy) == "" && strings.TrimSpace(a.VoiceScript) == "" {
		return nil, &assets.ExtractionError{AssetID: a.ID, Stage: "text", Err: fmt.Errorf("asset carries no copy")}
	}
	return &assets.ProcessedContent{
		AssetID:     a.ID,
		Kind:        assets.KindText,
		AdCopy:      a.AdCopy,
		VoiceScript: a.VoiceScript,
	}, nil
}

func (p *Processor) processImage(ctx context.Context, a assets.CreativeAsset) (*assets.ProcessedContent, error) {
	data, err := p.Fetcher.Fetch(ctx, a.FileURL, "image")
	if err != nil {
		return nil, err
	}
	img, err := p.Normalize(data, p.MaxImageBytes)
	if err != nil {
		return nil, &assets.ExtractionError{AssetID: a.ID, Stage: "image", Err: err}
	}
	return &assets.ProcessedContent{
		AssetID:   a.ID,
		Kind:      assets.KindImage,
		Image:     img,
		SourceURL: a.FileURL,
	}, nil
}

// processVideo degrades gracefully: metadata, frames and transcript each fail
// independently, and the asset as a whole fails only when none of the three
// produced anything.
func (p *Processor) processVideo(ctx context.Context, a assets.CreativeAsset) (*assets.ProcessedContent, error) {
	data, err := p.Fetcher.Fetch(ctx, a.FileURL, "video")
	if err != nil {
		return nil, err
	}

	c := &assets.ProcessedContent{
		AssetID:   a.ID,
		Kind:      assets.KindVideo,
		SourceURL: a.FileURL,
	}

	meta, err := p.Video.Probe(ctx, data)
	if err != nil {
		p.Log.Warn().Str("asset_id", a.ID).Err(err).Msg("video probe failed")
	} else {
		c.Video = meta
	}

	if c.Video.FPS > 0 {
		frames, err := p.Video.SampleFrames(ctx, data, c.Video)
		if err != nil {
			p.Log.Warn().Str("asset_id", a.ID).Err(err).Msg("frame sampling failed")
		} else {
			c.Frames = frames
		}
	}

	if p.Transcriber != nil {
		wav, err := p.Video.ExtractAudio(ctx, data)
		if err == nil {
			text, terr := p.Transcriber.Transcribe(ctx, wav, "audio.wav")
			if terr != nil {
				p.Log.Warn().Str("asset_id", a.ID).Err(terr).Msg("video transcription failed")
			} else {
				c.Transcript = text
			}
		}
	}

	if len(c.Frames) == 0 && c.Transcript == "" && c.Video.DurationSeconds == 0 {
		return nil, &assets.ExtractionError{AssetID: a.ID, Stage: "video", Err: fmt.Errorf("all extractions failed")}
	}
	return c, nil
}

// processAudio runs the acoustic analysis and the transcription in parallel;
// either one may fail on its own without sinking the asset.
func (p *Processor) processAudio(ctx context.Context, a assets.CreativeAsset) (*assets.ProcessedContent, error) {
	data, err := p.Fetcher.Fetch(ctx, a.FileURL, "audio")
	if err != nil {
		return nil, err
	}

	c := &assets.ProcessedContent{
		AssetID:   a.ID,
		Kind:      assets.KindAudio,
		SourceURL: a.FileURL,
	}

	var g errgroup.Group
	g.Go(func() error {
		features, err := p.Audio.Analyze(ctx, data)
		if err != nil {
			p.Log.Warn().Str("asset_id", a.ID).Err(err).Msg("acoustic analysis failed")
			return nil
		}
		c.Acoustic = features
		return nil
	})
	if p.Transcriber != nil {
		g.Go(func() error {
			name := path.Base(a.FileURL)
			if name == "." || name == "/" || !strings.Contains(name, ".") {
				name = "audio.mp3"
			}
			text, err := p.Transcriber.Transcribe(ctx, data, name)
			if err != nil {
				p.Log.Warn().Str("asset_id", a.ID).Err(err).Msg("audio transcription failed")
				return nil
			}
			c.Transcript = text
			return nil
		})
	}
	g.Wait()

	if c.Transcript == "" && c.Acoustic == (assets.AcousticFeatures{}) {
		return nil, &assets.ExtractionError{AssetID: a.ID, Stage: "audio", Err: fmt.Errorf("all extractions failed")}
	}
	return c, nil
}
