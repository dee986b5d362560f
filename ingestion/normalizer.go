package ingestion

import (
	"net/url"
	"strings"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils"
	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// NormalizedEntry is one feed entry after markup stripping, whitespace
// collapsing and timestamp resolution. Url is the canonical identity used
// for dedup.
type NormalizedEntry struct {
	Title       string
	Url         string
	Description string
	Content     string
	PublishedAt time.Time
}

// NormalizeEntry converts a raw feed item into a NormalizedEntry. Returns
// ok=false when the item misses a usable link or title; such entries are
// dropped without aborting the batch.
func NormalizeEntry(item *gofeed.Item, now time.Time) (NormalizedEntry, bool) {
	canonical, ok := CanonicalURL(item.Link)
	if !ok {
		return NormalizedEntry{}, false
	}

	title := utils.CollapseWhitespace(StripMarkup(item.Title))
	if title == "" {
		return NormalizedEntry{}, false
	}

	return NormalizedEntry{
		Title:       title,
		Url:         canonical,
		Description: utils.CollapseWhitespace(StripMarkup(item.Description)),
		Content:     utils.CollapseWhitespace(StripMarkup(item.Content)),
		PublishedAt: ResolvePublishedAt(item, now),
	}, true
}

// StripMarkup removes HTML tags from s, keeping the text content. Plain
// text passes through unchanged.
func StripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// ResolvePublishedAt resolves an entry's publish time. Preference order:
// parsed publish time, parsed update time, best-effort parse of the raw
// publish string, then the ingestion time as last resort.
func ResolvePublishedAt(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC()
	}
	if item.Published != "" {
		if parsed, err := dateparse.ParseAny(item.Published); err == nil {
			return parsed.UTC()
		}
	}
	return now
}

// CanonicalURL validates and canonicalizes a feed entry link. Fragments are
// stripped since they never change the referenced document. Returns ok=false
// for empty or non-HTTP links.
func CanonicalURL(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}

	parsed.Fragment = ""
	return parsed.String(), true
}
