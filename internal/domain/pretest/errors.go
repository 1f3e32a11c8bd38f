package pretest

import "errors"

// ErrNoValidAssets is the only error surfaced to the caller as a hard
// failure: every supplied asset failed extraction.
var ErrNoValidAssets = errors.New("no valid assets to analyze")

// ErrNoAssets indicates an empty asset list on the request itself.
var ErrNoAssets = errors.New("request contains no assets")
