package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docrag"
)

// FetchFunc fetches the HTML of a page.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays calls fetch, retrying once per entry in delays after
// waiting that long. Missing pages (ENOTFOUND) and non-HTML responses
// (EINVALID) fail immediately. logger may be nil.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt >= len(delays) || permanent(err) {
			return "", lastErr
		}
		if logger != nil {
			logger.Debug("retrying fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
}

func permanent(err error) bool {
	switch docrag.ErrorCode(err) {
	case docrag.ENOTFOUND, docrag.EINVALID:
		return true
	}
	return false
}
