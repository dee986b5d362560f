package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
)

const exportSummaryLimit = 200

// ExportScript renders a week's digest entries into a linear script-style
// text document. Stateless: it reads the given entries and touches nothing
// else, so callers can regenerate the script at will.
func ExportScript(showName string, weekStart time.Time, entries []model.DigestEntry) string {
	var b strings.Builder

	week := WeekStart(weekStart)
	fmt.Fprintf(&b, "%s\n", showName)
	fmt.Fprintf(&b, "Week of %s\n\n", week.Format("January 2, 2006"))

	if len(entries) == 0 {
		b.WriteString("[INTRO]\nNo significant wireless stories made the cut this week. See you next Monday.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "[INTRO]\nWelcome back to %s. Here is what made waves in the wireless world this week, %d stories in all.\n\n",
		showName, len(entries))

	for i, entry := range entries {
		fmt.Fprintf(&b, "[STORY %d] %s\n", i+1, entry.Article.Title)
		fmt.Fprintf(&b, "Source: %s\n", entry.Article.Url)
		fmt.Fprintf(&b, "Relevance: %.2f\n", entry.Article.RelevanceScore)
		if summary := truncate(entry.Article.Description, exportSummaryLimit); summary != "" {
			fmt.Fprintf(&b, "%s\n", summary)
		}
		if entry.AddedBy == model.DigestAddedByManual {
			b.WriteString("Hand-picked by the operator")
			if entry.Notes != "" {
				fmt.Fprintf(&b, ": %s", entry.Notes)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("[OUTRO]\nThat is the week in wireless. Same time, same place next Monday.\n")
	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
