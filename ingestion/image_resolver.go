package ingestion

import (
	"time"

	"github.com/gocolly/colly"
)

// ImageResolver scrapes an article page for its social cover image. It is a
// best-effort enricher: any failure leaves the article without an image and
// is never surfaced to the ingestion pass.
type ImageResolver struct {
	timeout time.Duration
}

func NewImageResolver(timeout time.Duration) *ImageResolver {
	return &ImageResolver{timeout: timeout}
}

// Resolve returns the og:image (or twitter:image) URL of the page, or the
// empty string when none could be found.
func (r *ImageResolver) Resolve(pageUrl string) string {
	c := colly.NewCollector(
		colly.UserAgent(fetcherUserAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(r.timeout)

	imageUrl := ""
	c.OnHTML(`meta[property="og:image"]`, func(e *colly.HTMLElement) {
		if imageUrl == "" {
			imageUrl = e.Attr("content")
		}
	})
	c.OnHTML(`meta[name="twitter:image"]`, func(e *colly.HTMLElement) {
		if imageUrl == "" {
			imageUrl = e.Attr("content")
		}
	})

	if err := c.Visit(pageUrl); err != nil {
		return ""
	}
	c.Wait()

	return imageUrl
}
