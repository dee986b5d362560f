package model

import (
	"time"
)

/*

EventArticleLink ties an article to an industry event it covers

EventID, ArticleID: composite primary key, one link per (event, article)
pair. Both sides cascade on delete so a retention sweep never leaves
dangling links
RelevanceScore: keyword-overlap relevance in [0,1], written once by the
correlator and never mutated
*/
type EventArticleLink struct {
	EventID        string        `gorm:"primaryKey"`
	ArticleID      string        `gorm:"primaryKey"`
	Event          IndustryEvent `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Article        Article       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	RelevanceScore float64
	CreatedAt      time.Time
}
