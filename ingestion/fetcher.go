package ingestion

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"
)

const fetcherUserAgent = "Mozilla/5.0 (compatible; TheWirelessMonitor/1.0)"

// Fetcher retrieves raw entries from a single syndication endpoint with a
// bounded timeout. It is safe for concurrent use by the ingestion worker
// pool since gofeed parsers are stateless per call.
type Fetcher struct {
	timeout    time.Duration
	maxPerFeed int
	maxAge     time.Duration
}

func NewFetcher(timeout time.Duration, maxPerFeed int, maxAge time.Duration) *Fetcher {
	return &Fetcher{
		timeout:    timeout,
		maxPerFeed: maxPerFeed,
		maxAge:     maxAge,
	}
}

// FetchFeed GETs and parses one syndication document, returning its entries
// normalized into NormalizedEntry values. Entries without a usable link or
// title and entries older than the max entry age are dropped individually
// without failing the fetch. Network errors and unparseable documents return
// an error; the caller decides the feed-level failure policy.
func (f *Fetcher) FetchFeed(ctx context.Context, url string, now time.Time) ([]NormalizedEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	parser := gofeed.NewParser()
	parser.UserAgent = fetcherUserAgent
	parser.Client = &http.Client{Timeout: f.timeout}

	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch feed %s", url)
	}

	entries := []NormalizedEntry{}
	for _, item := range feed.Items {
		if len(entries) >= f.maxPerFeed {
			break
		}

		entry, ok := NormalizeEntry(item, now)
		if !ok {
			continue
		}
		if entry.PublishedAt.Before(now.Add(-f.maxAge)) {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
