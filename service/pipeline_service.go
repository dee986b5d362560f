// Package service wires the ingestion, event and digest passes into one
// pipeline facade used by both the scheduler modules and the API server.
package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/app_config"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/digest"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/events"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/ingestion"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/scorer"
	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TopicIngestionCompleted carries IngestionCompletedMessage after every
// ingestion pass that produced new articles.
const TopicIngestionCompleted = "topic.ingestion_completed"

type IngestionCompletedMessage struct {
	NewArticles   int       `json:"new_articles"`
	NewArticleIds []string  `json:"new_article_ids"`
	CompletedAt   time.Time `json:"completed_at"`
}

// PipelineService serializes all mutating pipeline passes behind one mutex.
// Scheduled runs and manual API triggers share the same entry points, so a
// manual fetch_now can never interleave with a scheduled cycle.
type PipelineService struct {
	DB        *gorm.DB
	Bus       *gochannel.GoChannel
	AppConfig app_config.MonitorAppConfig
	Scoring   scorer.ScoringConfig
	Events    events.EventConfig

	processor  *ingestion.Processor
	detector   *events.Detector
	correlator *events.Correlator
	builder    *digest.Builder

	mu sync.Mutex
}

func NewPipelineService(db *gorm.DB, bus *gochannel.GoChannel, config app_config.MonitorAppConfig) *PipelineService {
	scoring := scorer.DefaultScoringConfig()
	eventConfig := events.DefaultEventConfig()

	fetcher := ingestion.NewFetcher(
		time.Duration(config.FETCH_TIMEOUT_SECOND)*time.Second,
		config.MAX_ARTICLES_PER_FEED,
		time.Duration(config.MAX_ENTRY_AGE_DAYS)*24*time.Hour,
	)
	images := ingestion.NewImageResolver(time.Duration(config.FETCH_TIMEOUT_SECOND) * time.Second)

	return &PipelineService{
		DB:        db,
		Bus:       bus,
		AppConfig: config,
		Scoring:   scoring,
		Events:    eventConfig,
		processor: ingestion.NewProcessor(
			db, fetcher, images, scoring, config.FETCH_WORKER_COUNT, config.FEED_FAILURE_LIMIT),
		detector:   events.NewDetector(eventConfig),
		correlator: events.NewCorrelator(eventConfig),
		builder:    digest.NewBuilder(config.DIGEST_SIZE, scoring.DigestThreshold),
	}
}

// TriggerFetchNow runs one full ingestion pass. Safe to call from any
// goroutine, concurrent callers queue up on the pipeline mutex.
func (s *PipelineService) TriggerFetchNow(ctx context.Context) (ingestion.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.processor.IngestAll(ctx)
	if err != nil {
		return report, err
	}

	Log.Infof("ingestion pass done: %d fetched, %d failed, %d new, %d duplicate, %d rejected",
		report.FeedsFetched, report.FeedsFailed, report.NewArticles, report.Duplicates, report.Rejected)

	if report.NewArticles > 0 && s.Bus != nil {
		s.publishIngestionCompleted(report)
	}
	return report, nil
}

func (s *PipelineService) publishIngestionCompleted(report ingestion.Report) {
	payload, err := json.Marshal(IngestionCompletedMessage{
		NewArticles:   report.NewArticles,
		NewArticleIds: report.NewArticleIds,
		CompletedAt:   time.Now().UTC(),
	})
	if err != nil {
		Log.Errorf("marshal ingestion completed message: %v", err)
		return
	}
	if err := s.Bus.Publish(TopicIngestionCompleted, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		Log.Errorf("publish ingestion completed: %v", err)
	}
}

// RunEventPass runs detection then correlation as one unit.
func (s *PipelineService) RunEventPass() (created int, linked int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	created, err = s.detector.DetectAndCreate(s.DB, now)
	if err != nil {
		return created, 0, err
	}
	linked, err = s.correlator.Correlate(s.DB, now)
	return created, linked, err
}

// RetentionSweep purges articles older than the retention window. Event
// links and digest entries referencing them go with them through the
// database cascade.
func (s *PipelineService) RetentionSweep() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-time.Duration(s.AppConfig.RETENTION_DAYS) * 24 * time.Hour)
	res := s.DB.Where("published_at < ?", cutoff).Delete(&model.Article{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "retention sweep")
	}
	if res.RowsAffected > 0 {
		Log.Infof("retention sweep purged %d articles older than %s",
			res.RowsAffected, cutoff.Format("2006-01-02"))
	}
	return res.RowsAffected, nil
}

// BuildWeeklyDigest builds the current week's digest once.
func (s *PipelineService) BuildWeeklyDigest() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.builder.Build(s.DB, time.Now().UTC())
}

// ListArticles returns persisted articles published within the window,
// at or above minScore, newest first, capped at limit.
func (s *PipelineService) ListArticles(window time.Duration, minScore float64, limit int) ([]model.Article, error) {
	var articles []model.Article
	query := s.DB.Preload("Feed").Where("relevance_score >= ?", minScore)
	if window > 0 {
		query = query.Where("published_at >= ?", time.Now().UTC().Add(-window))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("published_at DESC").Find(&articles).Error
	if err != nil {
		return nil, errors.Wrap(err, "list articles")
	}
	return articles, nil
}

// ListActiveEvents returns events whose window intersects the correlation
// window around now, with their linked articles preloaded.
func (s *PipelineService) ListActiveEvents() ([]model.IndustryEvent, error) {
	now := time.Now().UTC()
	var activeEvents []model.IndustryEvent
	err := s.DB.Where("active = ? AND start_date <= ? AND end_date >= ?",
		true, now.Add(s.Events.WindowFuture), now.Add(-s.Events.WindowPast)).
		Order("start_date").Find(&activeEvents).Error
	if err != nil {
		return nil, errors.Wrap(err, "list active events")
	}
	return activeEvents, nil
}

// EventLinks returns an event's article links ordered by link relevance.
func (s *PipelineService) EventLinks(eventId string) ([]model.EventArticleLink, error) {
	var links []model.EventArticleLink
	err := s.DB.Preload("Article").Where("event_id = ?", eventId).
		Order("relevance_score DESC").Find(&links).Error
	if err != nil {
		return nil, errors.Wrap(err, "load event links")
	}
	return links, nil
}

// GetDigest returns the digest entries for the week containing at.
func (s *PipelineService) GetDigest(at time.Time) ([]model.DigestEntry, error) {
	return digest.EntriesForWeek(s.DB, at)
}

// AddManualDigestEntry curates an article into the current week's digest.
func (s *PipelineService) AddManualDigestEntry(articleId, notes string) (*model.DigestEntry, error) {
	return digest.AddManualEntry(s.DB, articleId, notes, time.Now().UTC())
}

func (s *PipelineService) RemoveDigestEntry(entryId string) error {
	return digest.RemoveEntry(s.DB, entryId)
}

// ExportDigestScript renders the week's digest as script-style text.
func (s *PipelineService) ExportDigestScript(at time.Time) (string, error) {
	entries, err := digest.EntriesForWeek(s.DB, at)
	if err != nil {
		return "", err
	}
	return digest.ExportScript(s.AppConfig.SHOW_NAME, at, entries), nil
}

// AddFeed registers a new feed. Duplicate URLs are rejected by the unique
// index.
func (s *PipelineService) AddFeed(name, url, category string) (*model.Feed, error) {
	feed := model.Feed{
		Id:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Name:      name,
		Url:       url,
		Category:  category,
		Active:    true,
	}
	if err := s.DB.Create(&feed).Error; err != nil {
		return nil, errors.Wrapf(err, "add feed %s", url)
	}
	Log.Infof("added feed %s (%s)", name, url)
	return &feed, nil
}

// ToggleFeed flips a feed's active flag. Re-enabling resets the failure
// counter so a previously soft-disabled feed gets a clean slate.
func (s *PipelineService) ToggleFeed(feedId string) (*model.Feed, error) {
	var feed model.Feed
	if s.DB.Where("id = ?", feedId).First(&feed).RowsAffected == 0 {
		return nil, errors.Errorf("feed %s not found", feedId)
	}

	updates := map[string]interface{}{"active": !feed.Active}
	if !feed.Active {
		updates["consecutive_failures"] = 0
	}
	if err := s.DB.Model(&feed).Updates(updates).Error; err != nil {
		return nil, errors.Wrapf(err, "toggle feed %s", feedId)
	}
	return &feed, nil
}

func (s *PipelineService) ListFeeds() ([]model.Feed, error) {
	var feeds []model.Feed
	if err := s.DB.Order("name").Find(&feeds).Error; err != nil {
		return nil, errors.Wrap(err, "list feeds")
	}
	return feeds, nil
}

// Stats is the operational snapshot surfaced by the API.
type Stats struct {
	TotalFeeds      int64      `json:"total_feeds"`
	ActiveFeeds     int64      `json:"active_feeds"`
	TotalArticles   int64      `json:"total_articles"`
	ArticlesToday   int64      `json:"articles_today"`
	ActiveEvents    int64      `json:"active_events"`
	DigestThisWeek  int64      `json:"digest_this_week"`
	LastFetchedAt   *time.Time `json:"last_fetched_at"`
	AverageScore    float64    `json:"average_score"`
	RetentionCutoff time.Time  `json:"retention_cutoff"`
}

func (s *PipelineService) GetStats() (Stats, error) {
	now := time.Now().UTC()
	stats := Stats{
		RetentionCutoff: now.Add(-time.Duration(s.AppConfig.RETENTION_DAYS) * 24 * time.Hour),
	}

	s.DB.Model(&model.Feed{}).Count(&stats.TotalFeeds)
	s.DB.Model(&model.Feed{}).Where("active = ?", true).Count(&stats.ActiveFeeds)
	s.DB.Model(&model.Article{}).Count(&stats.TotalArticles)
	s.DB.Model(&model.Article{}).Where("created_at >= ?", now.Truncate(24*time.Hour)).Count(&stats.ArticlesToday)
	s.DB.Model(&model.IndustryEvent{}).Where("active = ?", true).Count(&stats.ActiveEvents)
	s.DB.Model(&model.DigestEntry{}).Where("week_start = ?", digest.WeekStart(now)).Count(&stats.DigestThisWeek)

	var lastFetched struct{ Max *time.Time }
	s.DB.Model(&model.Feed{}).Select("MAX(last_fetched_at) as max").Scan(&lastFetched)
	stats.LastFetchedAt = lastFetched.Max

	var avg struct{ Avg float64 }
	s.DB.Model(&model.Article{}).Select("COALESCE(AVG(relevance_score), 0) as avg").Scan(&avg)
	stats.AverageScore = avg.Avg

	return stats, nil
}
