package model

import (
	"time"
)

/*

Feed is a data model for a configured syndication endpoint polled for new
content

Id: primary key, use to identify a feed
CreatedAt: time when entity is created

Name: feed's display name, for example "RCR Wireless"
Url: endpoint of the syndication document, globally unique, used as identity
Category: free-form grouping label, for example "Wireless Industry"
Active: whether the fetcher polls this feed. Feeds are soft-disabled only,
never destroyed automatically
LastFetchedAt: last successful fetch, nil until the first success
ConsecutiveFailures: count of back-to-back failed fetch cycles. Reset on
success, the feed is soft-disabled once it reaches the configured limit
*/
type Feed struct {
	Id                  string `gorm:"primaryKey"`
	CreatedAt           time.Time
	Name                string
	Url                 string `gorm:"uniqueIndex"`
	Category            string
	Active              bool `gorm:"default:true"`
	LastFetchedAt       *time.Time
	ConsecutiveFailures int
}
