package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	// Thursday Jan 8 2026 belongs to the week of Monday Jan 5.
	thursday := time.Date(2026, time.January, 8, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), WeekStart(thursday))

	// A Monday is its own week start.
	monday := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(monday))

	// Sunday still belongs to the preceding Monday's week.
	sunday := time.Date(2026, time.January, 11, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(sunday))
}

func TestMarkerKey(t *testing.T) {
	week := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "digest:generated:2026-01-05", MarkerKey(week))
}

func TestExportScript(t *testing.T) {
	week := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	entries := []model.DigestEntry{
		{
			AddedBy: model.DigestAddedBySystem,
			Article: model.Article{
				Title:          "Wi-Fi 8 certification program announced",
				Url:            "https://example.com/wifi8",
				Description:    "The alliance opened certification.",
				RelevanceScore: 0.85,
			},
		},
		{
			AddedBy: model.DigestAddedByManual,
			Notes:   "great background piece",
			Article: model.Article{
				Title:          "The state of 6 GHz spectrum",
				Url:            "https://example.com/6ghz",
				RelevanceScore: 0.42,
			},
		},
	}

	script := ExportScript("The Wireless Monitor Weekly", week, entries)

	assert.True(t, strings.HasPrefix(script, "The Wireless Monitor Weekly\nWeek of January 5, 2026\n"))
	assert.Contains(t, script, "[INTRO]")
	assert.Contains(t, script, "[STORY 1] Wi-Fi 8 certification program announced")
	assert.Contains(t, script, "Source: https://example.com/wifi8")
	assert.Contains(t, script, "Relevance: 0.85")
	assert.Contains(t, script, "[STORY 2] The state of 6 GHz spectrum")
	assert.Contains(t, script, "Hand-picked by the operator: great background piece")
	assert.Contains(t, script, "[OUTRO]")
}

func TestExportScriptEmptyWeek(t *testing.T) {
	week := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	script := ExportScript("The Wireless Monitor Weekly", week, nil)

	assert.Contains(t, script, "No significant wireless stories")
	assert.NotContains(t, script, "[STORY")
}

func TestExportScriptTruncatesSummaries(t *testing.T) {
	week := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	long := strings.Repeat("wireless ", 60)
	entries := []model.DigestEntry{{
		AddedBy: model.DigestAddedBySystem,
		Article: model.Article{Title: "t", Url: "https://example.com/t", Description: long},
	}}

	script := ExportScript("Show", week, entries)
	assert.Contains(t, script, long[:exportSummaryLimit]+"...")
	assert.NotContains(t, script, long)
}
