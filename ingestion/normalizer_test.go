package ingestion

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalURL(t *testing.T) {
	canonical, ok := CanonicalURL("https://example.com/post#comments")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/post", canonical)

	canonical, ok = CanonicalURL("  http://example.com/a?b=c  ")
	assert.True(t, ok)
	assert.Equal(t, "http://example.com/a?b=c", canonical)

	_, ok = CanonicalURL("")
	assert.False(t, ok)

	_, ok = CanonicalURL("ftp://example.com/feed")
	assert.False(t, ok)

	_, ok = CanonicalURL("not a url at all")
	assert.False(t, ok)
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "plain text stays", StripMarkup("plain text stays"))
	assert.Equal(t, "bold claim", StripMarkup("<p><b>bold</b> claim</p>"))
}

func TestResolvePublishedAt(t *testing.T) {
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	published := time.Date(2026, time.January, 8, 9, 30, 0, 0, time.UTC)
	updated := time.Date(2026, time.January, 9, 9, 30, 0, 0, time.UTC)

	item := &gofeed.Item{PublishedParsed: &published, UpdatedParsed: &updated}
	assert.Equal(t, published, ResolvePublishedAt(item, now))

	item = &gofeed.Item{UpdatedParsed: &updated}
	assert.Equal(t, updated, ResolvePublishedAt(item, now))

	item = &gofeed.Item{Published: "2026-01-08 09:30:00 +0000 UTC"}
	assert.Equal(t, published, ResolvePublishedAt(item, now))

	item = &gofeed.Item{Published: "definitely not a date"}
	assert.Equal(t, now, ResolvePublishedAt(item, now))

	item = &gofeed.Item{}
	assert.Equal(t, now, ResolvePublishedAt(item, now))
}

func TestNormalizeEntry(t *testing.T) {
	now := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)

	entry, ok := NormalizeEntry(&gofeed.Item{
		Title:       "  New   <b>Wi-Fi 7</b> router\n announced ",
		Link:        "https://example.com/wifi7#frag",
		Description: "<p>A   mesh\trouter.</p>",
	}, now)
	assert.True(t, ok)
	assert.Equal(t, "New Wi-Fi 7 router announced", entry.Title)
	assert.Equal(t, "https://example.com/wifi7", entry.Url)
	assert.Equal(t, "A mesh router.", entry.Description)
	assert.Equal(t, now, entry.PublishedAt)

	_, ok = NormalizeEntry(&gofeed.Item{Title: "no link"}, now)
	assert.False(t, ok)

	_, ok = NormalizeEntry(&gofeed.Item{Title: "<p></p>", Link: "https://example.com/x"}, now)
	assert.False(t, ok)
}
