package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adityasw/creative-pretest/internal/domain/assets"
)

// hard ceiling on any single download, independent of the image recompression limit
const maxDownloadBytes = 256 << 20

type Fetcher struct {
	client  *http.Client
	retries int
	log     zerolog.Logger
}

func NewFetcher(timeout time.Duration, retries int, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		retries: retries,
		log:     log.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch downloads a remote asset into memory and checks the response against
// the expected content category ("image", "video", "audio"; empty skips the
// check). 5xx responses and transport errors are retried with a short
// backoff; 4xx responses and category mismatches are not, since the asset
// will not change on a second attempt.
func (f *Fetcher) Fetch(ctx context.Context, url, category string) ([]byte, error) {
	if url == "" {
		return nil, assets.ErrNoLocator
	}

	var lastErr error
	for attempt := 0; attempt <= f.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
			f.log.Debug().Str("url", url).Int("attempt", attempt).Msg("retrying fetch")
		}

		data, ctype, err := f.fetchOnce(ctx, url)
		if err == nil {
			if err := checkCategory(url, ctype, category); err != nil {
				return nil, err
			}
			return data, nil
		}
		lastErr = err

		var fe *assets.FetchError
		if errors.As(err, &fe) && fe.Status >= 400 && fe.Status < 500 {
			return nil, err
		}
	}
	return nil, lastErr
}

// checkCategory rejects responses whose Content-Type belongs to another
// category, so an HTML error page served with 200 never reaches a decoder.
// Missing headers and application/octet-stream pass, since CDNs routinely
// serve media that way.
func checkCategory(url, ctype, category string) error {
	if category == "" || ctype == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(ctype)
	if err != nil {
		return nil
	}
	if mediaType == "application/octet-stream" {
		return nil
	}
	if !strings.HasPrefix(mediaType, category+"/") {
		return &assets.FetchError{URL: url, Err: fmt.Errorf("content type %q does not match expected category %q", mediaType, category)}
	}
	return nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &assets.FetchError{URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", &assets.FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", &assets.FetchError{URL: url, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, "", &assets.FetchError{URL: url, Err: err}
	}
	if len(data) > maxDownloadBytes {
		return nil, "", &assets.FetchError{URL: url, Err: fmt.Errorf("payload exceeds %d bytes", maxDownloadBytes)}
	}
	return data, resp.Header.Get("Content-Type"), nil
}
