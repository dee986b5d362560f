package model

import (
	"time"
)

const (
	// DigestAddedBySystem marks entries the weekly builder selected.
	DigestAddedBySystem = "system"
	// DigestAddedByManual marks entries an operator curated by hand. The
	// automated builder never touches them.
	DigestAddedByManual = "manual"
)

/*

DigestEntry is one article selected into a weekly digest

Id: primary key
ArticleID:
Article: referenced article, cascades on article delete
WeekStart: start boundary of the ISO week this entry belongs to. The
(ArticleID, WeekStart) pair is unique so an article appears at most once
per week
AddedBy: "system" or "manual"
Notes: optional operator notes, only meaningful for manual entries
AddedAt: time the entry was inserted
*/
type DigestEntry struct {
	Id        string    `gorm:"primaryKey"`
	ArticleID string    `gorm:"uniqueIndex:idx_digest_article_week"`
	Article   Article   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	WeekStart time.Time `gorm:"uniqueIndex:idx_digest_article_week"`
	AddedBy   string
	Notes     string
	AddedAt   time.Time
}
