package model

import (
	"strings"
	"time"
)

/*

IndustryEvent is a recurring industry happening (conference, summit, expo)
articles can be correlated against

Id: primary key
CreatedAt: time when entity is created

Name: display name, for example "CES 2026"
NormalizedKey: lower-cased name plus year, unique. Guards against the
detector creating the same event twice
Year: edition year
Hashtags: ordered comma-joined keyword tags, for example "#CES2026,#5G,#IoT"
StartDate, EndDate: event window, estimated for detected events
Location: free text, may be empty for detected events
Active: soft-delete flag, events are never hard-deleted
Seeded: true when the event came from seed configuration instead of the
detector
*/
type IndustryEvent struct {
	Id            string `gorm:"primaryKey"`
	CreatedAt     time.Time
	Name          string
	NormalizedKey string `gorm:"uniqueIndex"`
	Year          int
	Hashtags      string
	StartDate     time.Time
	EndDate       time.Time
	Location      string
	Description   string
	Active        bool `gorm:"default:true"`
	Seeded        bool
}

// HashtagList splits the comma-joined tags, preserving order.
func (e *IndustryEvent) HashtagList() []string {
	if e.Hashtags == "" {
		return []string{}
	}
	tags := strings.Split(e.Hashtags, ",")
	for i := range tags {
		tags[i] = strings.TrimSpace(tags[i])
	}
	return tags
}
