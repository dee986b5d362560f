package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type seedFeed struct {
	name     string
	url      string
	category string
}

// The shipped wireless-industry feed list. Applied only when the feeds
// table is empty so operator edits are never overwritten.
var defaultFeeds = []seedFeed{
	{"Ars Technica", "https://feeds.arstechnica.com/arstechnica/index", "Technology News"},
	{"TechCrunch", "https://techcrunch.com/feed/", "Technology News"},
	{"The Verge", "https://www.theverge.com/rss/index.xml", "Technology News"},
	{"IEEE Spectrum", "https://spectrum.ieee.org/rss", "Engineering"},
	{"Wi-Fi Alliance News", "https://www.wi-fi.org/news-events/newsroom/rss", "Wi-Fi Industry"},
	{"Wireless Week", "https://www.wirelessweek.com/rss.xml", "Wireless Industry"},
	{"RCR Wireless", "https://www.rcrwireless.com/feed", "Wireless Industry"},
	{"Light Reading", "https://www.lightreading.com/rss_simple.asp", "Telecom"},
	{"Fierce Wireless", "https://www.fiercewireless.com/rss/xml", "Wireless Industry"},
	{"Mobile World Live", "https://www.mobileworldlive.com/feed/", "Mobile Industry"},
}

// SeedDefaults populates an empty feeds table with the default wireless
// feed list and pre-creates the known recurring events for the current
// year. Both sides are idempotent and safe to run at every startup.
func (s *PipelineService) SeedDefaults() error {
	if err := s.seedFeeds(); err != nil {
		return err
	}
	return s.seedKnownEvents()
}

func (s *PipelineService) seedFeeds() error {
	var count int64
	if err := s.DB.Model(&model.Feed{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count feeds")
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, seed := range defaultFeeds {
		feed := model.Feed{
			Id:        uuid.New().String(),
			CreatedAt: now,
			Name:      seed.name,
			Url:       seed.url,
			Category:  seed.category,
			Active:    true,
		}
		if err := s.DB.Create(&feed).Error; err != nil {
			return errors.Wrapf(err, "seed feed %s", seed.url)
		}
	}
	Log.Infof("seeded %d default feeds", len(defaultFeeds))
	return nil
}

// seedKnownEvents creates the current year's instance of every known
// recurring event. Already-created keys are skipped, seeded records are
// flagged so they can be told apart from detected ones.
func (s *PipelineService) seedKnownEvents() error {
	now := time.Now().UTC()
	year := now.Year()
	seeded := 0

	for name, dates := range s.Events.KnownEvents {
		start := time.Date(year, dates.Month, dates.Day, 0, 0, 0, 0, time.UTC)
		// The short acronym form and the spelled out form share calendar
		// slots; seed only the acronym keys to avoid near-duplicate rows.
		if strings.Contains(name, " ") {
			continue
		}

		displayName := strings.ToUpper(name)
		key := fmt.Sprintf("%s %d", name, year)

		var count int64
		s.DB.Model(&model.IndustryEvent{}).Where("normalized_key = ?", key).Count(&count)
		if count > 0 {
			continue
		}

		event := model.IndustryEvent{
			Id:            uuid.New().String(),
			CreatedAt:     now,
			Name:          fmt.Sprintf("%s %d", displayName, year),
			NormalizedKey: key,
			Year:          year,
			Hashtags:      fmt.Sprintf("#%s%d,#%s", displayName, year, displayName),
			StartDate:     start,
			EndDate:       start.AddDate(0, 0, dates.DurationDays-1),
			Location:      dates.Location,
			Active:        true,
			Seeded:        true,
		}
		if err := s.DB.Create(&event).Error; err != nil {
			return errors.Wrapf(err, "seed event %s", event.Name)
		}
		seeded++
	}

	if seeded > 0 {
		Log.Infof("seeded %d known events for %d", seeded, year)
	}
	return nil
}
