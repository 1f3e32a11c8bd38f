package assets

import (
	"errors"
	"fmt"
)

// ErrUnknownKind indicates an asset kind outside the closed set. Unknown
// kinds are reported, never silently skipped.
var ErrUnknownKind = errors.New("unknown asset kind")

// ErrNoLocator indicates a remote asset without a file URL.
var ErrNoLocator = errors.New("asset has no file url")

// FetchError is a per-asset download failure. It never aborts sibling assets.
type FetchError struct {
	URL    string
	Status int // HTTP status, 0 for transport errors
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: http %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError is raised only when every sub-extraction for an asset
// failed; partial failures degrade to zero values inside ProcessedContent.
type ExtractionError struct {
	AssetID string
	Stage   string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract asset %s (%s): %v", e.AssetID, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
