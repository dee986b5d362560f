package ingestion

import (
	"os"
	"testing"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/scorer"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/utils/dotenv"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

func newTestProcessor(db *gorm.DB) *Processor {
	fetcher := NewFetcher(30*time.Second, 50, 7*24*time.Hour)
	// No image resolver in tests, the pipeline treats it as optional.
	return NewProcessor(db, fetcher, nil, scorer.DefaultScoringConfig(), 4, 5)
}

func createTestFeed(t *testing.T, db *gorm.DB) model.Feed {
	t.Helper()
	feed := model.Feed{
		Id:     uuid.New().String(),
		Name:   "Test Feed",
		Url:    "https://example.com/feed-" + uuid.New().String(),
		Active: true,
	}
	assert.Nil(t, db.Create(&feed).Error)
	return feed
}

func TestProcessEntryPersistsRelevantArticle(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	processor := newTestProcessor(db)
	feed := createTestFeed(t, db)
	now := time.Now().UTC()

	report := Report{}
	entry := NormalizedEntry{
		Title:       "New Wi-Fi 7 router announced with mesh networking support",
		Url:         "https://example.com/wifi7-router",
		Description: "A wireless router with improved spectrum efficiency.",
		PublishedAt: now.Add(-time.Hour),
	}
	assert.Nil(t, processor.processEntry(feed, entry, now, &report))

	assert.Equal(t, 1, report.NewArticles)
	assert.Len(t, report.NewArticleIds, 1)

	var article model.Article
	assert.Equal(t, int64(1), db.Where("url = ?", entry.Url).First(&article).RowsAffected)
	assert.Equal(t, feed.Id, article.FeedID)
	assert.Greater(t, article.RelevanceScore, 0.05)
	assert.Contains(t, article.KeywordList(), "wifi")
}

func TestProcessEntryRejectsIrrelevantEntry(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	processor := newTestProcessor(db)
	feed := createTestFeed(t, db)
	now := time.Now().UTC()

	report := Report{}
	entry := NormalizedEntry{
		Title:       "Celebrity chef opens a new restaurant downtown",
		Url:         "https://example.com/restaurant",
		Description: "The tasting menu focuses on seasonal vegetables.",
		PublishedAt: now,
	}
	assert.Nil(t, processor.processEntry(feed, entry, now, &report))

	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 0, report.NewArticles)

	var count int64
	db.Model(&model.Article{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestProcessEntryDeduplicatesByURL(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	processor := newTestProcessor(db)
	feed := createTestFeed(t, db)
	now := time.Now().UTC()

	entry := NormalizedEntry{
		Title:       "Wireless spectrum auction raises billions",
		Url:         "https://example.com/spectrum-auction",
		PublishedAt: now,
	}

	report := Report{}
	assert.Nil(t, processor.processEntry(feed, entry, now, &report))
	// Same URL again, as a re-fetch of the feed would produce.
	assert.Nil(t, processor.processEntry(feed, entry, now, &report))

	assert.Equal(t, 1, report.NewArticles)
	assert.Equal(t, 1, report.Duplicates)

	var count int64
	db.Model(&model.Article{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordFailureSoftDisablesFeed(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	processor := newTestProcessor(db)
	feed := createTestFeed(t, db)

	for i := 0; i < 5; i++ {
		var current model.Feed
		db.Where("id = ?", feed.Id).First(&current)
		processor.recordFailure(current)
	}

	var disabled model.Feed
	db.Where("id = ?", feed.Id).First(&disabled)
	assert.False(t, disabled.Active)
	assert.Equal(t, 5, disabled.ConsecutiveFailures)
}

func TestRecordSuccessResetsFailureCounter(t *testing.T) {
	db, _ := utils.CreateTempDB(t)
	processor := newTestProcessor(db)
	feed := createTestFeed(t, db)
	now := time.Now().UTC()

	db.Model(&model.Feed{}).Where("id = ?", feed.Id).Update("consecutive_failures", 3)
	processor.recordSuccess(feed, now)

	var current model.Feed
	db.Where("id = ?", feed.Id).First(&current)
	assert.Equal(t, 0, current.ConsecutiveFailures)
	assert.NotNil(t, current.LastFetchedAt)
}
