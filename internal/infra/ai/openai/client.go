package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/semaphore"

	domai "github.com/adityasw/creative-pretest/internal/domain/ai"
)

const maxTokens = 7000

// Client adapts the OpenAI chat and transcription endpoints to the domain
// ports. A weighted semaphore bounds in-flight provider calls across all
// requests; a permit is held for the full duration of each call.
type Client struct {
	api             *openai.Client
	model           string
	transcribeModel string
	sem             *semaphore.Weighted
	timeout         time.Duration
	log             zerolog.Logger
}

func NewClient(apiKey, model, transcribeModel string, maxConcurrent int, timeout time.Duration, log zerolog.Logger) *Client {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Client{
		api:             openai.NewClient(apiKey),
		model:           model,
		transcribeModel: transcribeModel,
		sem:             semaphore.NewWeighted(int64(maxConcurrent)),
		timeout:         timeout,
		log:             log.With().Str("component", "openai").Logger(),
	}
}

// Invoke issues the single analysis call. A policy decline comes back as a
// refused outcome rather than an error so the caller can substitute the
// degraded result without retrying.
func (c *Client) Invoke(ctx context.Context, req domai.Request) (domai.Outcome, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return domai.Outcome{}, err
	}
	defer c.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	content := make([]openai.ChatMessagePart, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.Image != nil {
			content = append(content, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(p.Image),
					Detail: openai.ImageURLDetailAuto,
				},
			})
			continue
		}
		content = append(content, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: p.Text,
		})
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, MultiContent: content},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return domai.Outcome{}, fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		return domai.Outcome{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domai.Outcome{}, domai.ErrEmptyResponse
	}

	msg := resp.Choices[0].Message
	c.log.Debug().
		Str("schema", req.SchemaVersion).
		Dur("elapsed", time.Since(start)).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("analysis call finished")

	if msg.Refusal != "" {
		return domai.Outcome{Refused: true, Refusal: msg.Refusal}, nil
	}
	if msg.Content == "" {
		return domai.Outcome{}, domai.ErrEmptyResponse
	}
	return domai.Outcome{Raw: []byte(msg.Content)}, nil
}

// Transcribe converts an audio payload to text via the transcription model.
// The filename only carries the extension the endpoint uses to sniff the
// container format.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.transcribeModel,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
			return "", fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("transcription: %w", err)
	}
	return resp.Text, nil
}
