package events

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils"
	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Detection heuristics live behind MatchesInText / CandidatesFromArticles so
// they can be tuned or replaced without touching correlation or digest code.

var (
	// "<TitleCase Name> <Year> conference|summit|expo|show|congress|forum"
	trailingKindPattern = regexp.MustCompile(
		`\b([A-Z][A-Za-z0-9&'-]+(?: [A-Z][A-Za-z0-9&'-]+){0,2}) (20\d{2}) (?i:conference|summit|expo|show|congress|forum)\b`)
	// "<Name ... Congress> <Year>", the kind word is part of the name
	embeddedKindPattern = regexp.MustCompile(
		`\b([A-Z][A-Za-z0-9&'-]+(?: [A-Z][A-Za-z0-9&'-]+){0,2} (?:Conference|Summit|Expo|Show|Congress|Forum)) (20\d{2})\b`)
	// Known acronyms directly followed by a year, e.g. "CES 2026", "MWC26"
	// is intentionally not recognized: two-digit years are too ambiguous.
	acronymPattern = regexp.MustCompile(
		`(?i)\b(ces|mwc|wwdc|computex|ifa|wlpc)[ '’]?(20\d{2})\b`)
)

// Match is one event-name shape found in a piece of text.
type Match struct {
	Name string
	Year int
}

// Key is the normalized grouping key: lower-cased name plus year.
func (m Match) Key() string {
	return strings.ToLower(m.Name) + " " + strconv.Itoa(m.Year)
}

// Candidate is an event key supported by one or more articles.
type Candidate struct {
	Name       string
	Year       int
	Key        string
	ArticleIds []string
}

type Detector struct {
	config EventConfig
}

func NewDetector(config EventConfig) *Detector {
	return &Detector{config: config}
}

// MatchesInText extracts event-name shapes from text. Matches are
// deduplicated by normalized key within the text.
func MatchesInText(text string) []Match {
	matches := []Match{}
	seen := map[string]bool{}

	add := func(name string, yearStr string) {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return
		}
		m := Match{Name: strings.TrimSpace(name), Year: year}
		if m.Name == "" || seen[m.Key()] {
			return
		}
		seen[m.Key()] = true
		matches = append(matches, m)
	}

	for _, groups := range trailingKindPattern.FindAllStringSubmatch(text, -1) {
		add(groups[1], groups[2])
	}
	for _, groups := range embeddedKindPattern.FindAllStringSubmatch(text, -1) {
		add(groups[1], groups[2])
	}
	for _, groups := range acronymPattern.FindAllStringSubmatch(text, -1) {
		add(strings.ToUpper(groups[1]), groups[2])
	}

	return matches
}

// CandidatesFromArticles groups per-article matches by normalized key and
// keeps the keys supported by at least MinSupport distinct articles with a
// year no earlier than the current one.
func (d *Detector) CandidatesFromArticles(articles []model.Article, now time.Time) []Candidate {
	grouped := map[string]*Candidate{}
	order := []string{}

	for _, article := range articles {
		text := article.Title + ". " + article.Description
		for _, match := range MatchesInText(text) {
			if match.Year < now.Year() {
				continue
			}
			key := match.Key()
			candidate, ok := grouped[key]
			if !ok {
				candidate = &Candidate{Name: match.Name, Year: match.Year, Key: key}
				grouped[key] = candidate
				order = append(order, key)
			}
			if !utils.ContainsString(candidate.ArticleIds, article.Id) {
				candidate.ArticleIds = append(candidate.ArticleIds, article.Id)
			}
		}
	}

	candidates := []Candidate{}
	for _, key := range order {
		if len(grouped[key].ArticleIds) >= d.config.MinSupport {
			candidates = append(candidates, *grouped[key])
		}
	}
	return candidates
}

// DetectAndCreate synthesizes IndustryEvent records from recently ingested
// articles. Near-duplicate names may produce false positives; those are
// tolerated and never auto-pruned.
func (d *Detector) DetectAndCreate(db *gorm.DB, now time.Time) (int, error) {
	var articles []model.Article
	err := db.Where("created_at >= ?", now.Add(-d.config.DetectionLookback)).Find(&articles).Error
	if err != nil {
		return 0, errors.Wrap(err, "load recent articles")
	}

	created := 0
	for _, candidate := range d.CandidatesFromArticles(articles, now) {
		var count int64
		db.Model(&model.IndustryEvent{}).Where("normalized_key = ?", candidate.Key).Count(&count)
		if count > 0 {
			continue
		}

		start, end, location := d.EstimateDates(candidate.Name, candidate.Year, now)
		event := model.IndustryEvent{
			Id:            uuid.New().String(),
			CreatedAt:     now,
			Name:          fmt.Sprintf("%s %d", candidate.Name, candidate.Year),
			NormalizedKey: candidate.Key,
			Year:          candidate.Year,
			Hashtags:      hashtagsFor(candidate.Name, candidate.Year),
			StartDate:     start,
			EndDate:       end,
			Location:      location,
			Active:        true,
		}
		if err := db.Create(&event).Error; err != nil {
			// A concurrent pass may have created the same key, that is fine.
			Log.Warnf("skip event %s: %v", event.Name, err)
			continue
		}
		Log.Infof("detected event %s (%s - %s), supported by %d articles",
			event.Name, start.Format("2006-01-02"), end.Format("2006-01-02"), len(candidate.ArticleIds))
		created++
	}

	return created, nil
}

// EstimateDates picks the event window: the known-recurring table first,
// else the first day of the next calendar month with the default span.
func (d *Detector) EstimateDates(name string, year int, now time.Time) (time.Time, time.Time, string) {
	if known, ok := d.config.KnownEvents[strings.ToLower(name)]; ok {
		start := time.Date(year, known.Month, known.Day, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, known.DurationDays-1), known.Location
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	if year > start.Year() {
		start = time.Date(year, time.January, 15, 0, 0, 0, 0, time.UTC)
	}
	return start, start.AddDate(0, 0, d.config.DefaultSpanDays-1), ""
}

func hashtagsFor(name string, year int) string {
	compact := strings.ReplaceAll(strings.ReplaceAll(name, " ", ""), "-", "")
	return fmt.Sprintf("#%s%d,#%s", compact, year, compact)
}
