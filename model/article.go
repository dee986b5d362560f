package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

/*

Article is a single normalized entry ingested from a feed

Id: primary key
CreatedAt: ingestion time
FeedID:
Feed: feed this article was fetched from, "belongs-to" relation. Deleting a
feed cascades to its articles

Title: entry title in plain text
Url: canonical link, globally unique, acts as the dedup key
Description: markup-stripped summary
Content: markup-stripped full content when the feed carries it
PublishedAt: publish time resolved from the feed entry, falls back to
ingestion time when absent
RelevanceScore: domain relevance in [0,1], written once at ingestion and
immutable afterwards. No stored article has a score at or below the
ingestion threshold
Keywords: JSON snapshot of the vocabulary terms that matched at scoring time
ImageUrl: optional, written after persistence by the image resolver
*/
type Article struct {
	Id             string `gorm:"primaryKey"`
	CreatedAt      time.Time
	FeedID         string
	Feed           Feed `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Title          string
	Url            string `gorm:"uniqueIndex"`
	Description    string
	Content        string
	PublishedAt    time.Time
	RelevanceScore float64
	Keywords       datatypes.JSON
	ImageUrl       string
}

// SetKeywords stores the matched-terms snapshot as a JSON array.
func (a *Article) SetKeywords(keywords []string) error {
	data, err := json.Marshal(keywords)
	if err != nil {
		return err
	}
	a.Keywords = datatypes.JSON(data)
	return nil
}

// KeywordList decodes the stored matched-terms snapshot. Returns an empty
// slice on a missing or malformed column.
func (a *Article) KeywordList() []string {
	var keywords []string
	if err := json.Unmarshal(a.Keywords, &keywords); err != nil {
		return []string{}
	}
	return keywords
}
