// Package events detects recurring industry events in ingested article text
// and correlates persisted articles to them by keyword overlap.
package events

import (
	"time"
)

// KnownEventDates pins a recurring event to its usual calendar slot. Keyed
// by the lower-cased event name in EventConfig.KnownEvents.
type KnownEventDates struct {
	Month        time.Month
	Day          int
	DurationDays int
	Location     string
}

// EventConfig is injected into the Detector and Correlator, no globals.
type EventConfig struct {
	// Detection scans articles ingested within this lookback.
	DetectionLookback time.Duration
	// Correlation scans articles published within this lookback.
	CorrelationLookback time.Duration
	// An event is correlated while its window intersects
	// [now-WindowPast, now+WindowFuture].
	WindowPast   time.Duration
	WindowFuture time.Duration
	// A detected event key needs at least this many distinct supporting
	// articles before an event record is created.
	MinSupport int
	// Links are created only above this keyword-overlap relevance.
	LinkThreshold float64
	// Span assumed for events not present in the known table.
	DefaultSpanDays int
	// Calendar slots of well known recurring events.
	KnownEvents map[string]KnownEventDates
}

func DefaultEventConfig() EventConfig {
	return EventConfig{
		DetectionLookback:   3 * 24 * time.Hour,
		CorrelationLookback: 7 * 24 * time.Hour,
		WindowPast:          5 * 24 * time.Hour,
		WindowFuture:        14 * 24 * time.Hour,
		MinSupport:          2,
		LinkThreshold:       0.15,
		DefaultSpanDays:     3,
		KnownEvents: map[string]KnownEventDates{
			"ces":                   {Month: time.January, Day: 6, DurationDays: 4, Location: "Las Vegas"},
			"mwc":                   {Month: time.February, Day: 24, DurationDays: 4, Location: "Barcelona"},
			"mobile world congress": {Month: time.February, Day: 24, DurationDays: 4, Location: "Barcelona"},
			"wlpc":                  {Month: time.February, Day: 17, DurationDays: 3, Location: "Phoenix"},
			"computex":              {Month: time.June, Day: 2, DurationDays: 4, Location: "Taipei"},
			"wwdc":                  {Month: time.June, Day: 9, DurationDays: 5, Location: "Cupertino"},
			"ifa":                   {Month: time.September, Day: 4, DurationDays: 5, Location: "Berlin"},
		},
	}
}
