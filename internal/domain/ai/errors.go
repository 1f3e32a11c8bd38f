package ai

import "errors"

// ErrQuotaExceeded indicates the provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyResponse indicates the provider returned no choices or nil content.
var ErrEmptyResponse = errors.New("ai returned empty response")
