package events

import (
	"math"
	"strings"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils"
	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Correlator links persisted articles to active events by keyword overlap.
// The pass is idempotent: an existing (event, article) pair is never written
// twice, so it can run after every ingestion batch and again on its own
// cadence.
type Correlator struct {
	config EventConfig
}

func NewCorrelator(config EventConfig) *Correlator {
	return &Correlator{config: config}
}

// Correlate runs one linking pass and returns the number of links created.
func (c *Correlator) Correlate(db *gorm.DB, now time.Time) (int, error) {
	var activeEvents []model.IndustryEvent
	err := db.Where("active = ? AND start_date <= ? AND end_date >= ?",
		true, now.Add(c.config.WindowFuture), now.Add(-c.config.WindowPast)).
		Find(&activeEvents).Error
	if err != nil {
		return 0, errors.Wrap(err, "load active events")
	}
	if len(activeEvents) == 0 {
		return 0, nil
	}

	var articles []model.Article
	err = db.Where("published_at >= ?", now.Add(-c.config.CorrelationLookback)).Find(&articles).Error
	if err != nil {
		return 0, errors.Wrap(err, "load recent articles")
	}

	linked := 0
	for _, event := range activeEvents {
		keywords := keywordsFromHashtags(event.HashtagList())
		if len(keywords) == 0 {
			continue
		}

		alreadyLinked, err := linkedArticleIds(db, event.Id)
		if err != nil {
			return linked, err
		}

		for _, article := range articles {
			if alreadyLinked[article.Id] {
				continue
			}

			score := c.EventRelevance(article, keywords)
			if score <= c.config.LinkThreshold {
				continue
			}

			link := model.EventArticleLink{
				EventID:        event.Id,
				ArticleID:      article.Id,
				RelevanceScore: score,
				CreatedAt:      now,
			}
			if err := db.Create(&link).Error; err != nil {
				// The composite key is the idempotence backstop against a
				// concurrent pass racing this one.
				if strings.Contains(err.Error(), "duplicate key") {
					continue
				}
				return linked, errors.Wrapf(err, "link article %s to event %s", article.Id, event.Id)
			}
			linked++
		}
	}

	if linked > 0 {
		Log.Infof("correlation pass linked %d articles", linked)
	}
	return linked, nil
}

// EventRelevance scores the overlap between one article and an event's
// keyword list:
//
//	min((titleMatches*0.4 + descriptionMatches*0.3) / totalKeywords, 1.0)
//
// Matching is a case-insensitive substring test over space and hyphen
// collapsed text, so the "#CES2026" tag matches a "CES 2026:" title.
func (c *Correlator) EventRelevance(article model.Article, keywords []string) float64 {
	foldedTitle := utils.FoldForMatch(article.Title)
	foldedDescription := utils.FoldForMatch(article.Description)

	titleMatches := 0
	descriptionMatches := 0
	for _, keyword := range keywords {
		if strings.Contains(foldedTitle, keyword) {
			titleMatches++
		}
		if strings.Contains(foldedDescription, keyword) {
			descriptionMatches++
		}
	}

	score := (float64(titleMatches)*0.4 + float64(descriptionMatches)*0.3) / float64(len(keywords))
	return math.Min(score, 1.0)
}

// keywordsFromHashtags derives the match list from an event's hashtags:
// strip the leading '#', fold case, drop empties.
func keywordsFromHashtags(hashtags []string) []string {
	keywords := []string{}
	for _, tag := range hashtags {
		keyword := utils.FoldForMatch(strings.TrimPrefix(tag, "#"))
		if keyword != "" && !utils.ContainsString(keywords, keyword) {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

func linkedArticleIds(db *gorm.DB, eventId string) (map[string]bool, error) {
	var links []model.EventArticleLink
	if err := db.Where("event_id = ?", eventId).Find(&links).Error; err != nil {
		return nil, errors.Wrap(err, "load existing links")
	}
	linked := map[string]bool{}
	for _, link := range links {
		linked[link.ArticleID] = true
	}
	return linked, nil
}
