package ai

import "context"

// Part is one piece of a multi-part analysis request: either text or a
// JPEG image blob, never both.
type Part struct {
	Text  string
	Image []byte
}

// Request is the single structured request sent to the reasoning service.
type Request struct {
	System        string
	Parts         []Part
	SchemaVersion string
}

// Outcome of an invocation. On success Raw holds the JSON envelope; a policy
// decline sets Refused with the service's reason. Transport failures come
// back as the error return instead.
type Outcome struct {
	Raw     []byte
	Refused bool
	Refusal string
}

// Analyzer issues the one reasoning-service call per analysis request.
type Analyzer interface {
	Invoke(ctx context.Context, req Request) (Outcome, error)
}

// Transcriber converts audio bytes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}
