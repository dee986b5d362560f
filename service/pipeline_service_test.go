package service

import (
	"os"
	"testing"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/app_config"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/digest"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
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

func newTestService(t *testing.T) (*PipelineService, *gorm.DB) {
	t.Helper()
	db, _ := utils.CreateTempDB(t)
	return NewPipelineService(db, nil, app_config.DefaultMonitorAppConfig()), db
}

func createArticleAt(t *testing.T, db *gorm.DB, publishedAt time.Time) model.Article {
	t.Helper()
	feed := model.Feed{
		Id:     uuid.New().String(),
		Name:   "Test Feed",
		Url:    "https://example.com/feed-" + uuid.New().String(),
		Active: true,
	}
	assert.Nil(t, db.Create(&feed).Error)

	article := model.Article{
		Id:             uuid.New().String(),
		CreatedAt:      publishedAt,
		FeedID:         feed.Id,
		Title:          "Wireless news",
		Url:            "https://example.com/" + uuid.New().String(),
		PublishedAt:    publishedAt,
		RelevanceScore: 0.5,
	}
	assert.Nil(t, db.Create(&article).Error)
	return article
}

func TestRetentionSweepCascades(t *testing.T) {
	svc, db := newTestService(t)
	now := time.Now().UTC()

	old := createArticleAt(t, db, now.Add(-40*24*time.Hour))
	recent := createArticleAt(t, db, now.Add(-time.Hour))

	event := model.IndustryEvent{
		Id:            uuid.New().String(),
		Name:          "CES 2026",
		NormalizedKey: "ces 2026",
		Year:          2026,
		Hashtags:      "#CES2026,#CES",
		StartDate:     now,
		EndDate:       now.AddDate(0, 0, 3),
		Active:        true,
	}
	assert.Nil(t, db.Create(&event).Error)
	assert.Nil(t, db.Create(&model.EventArticleLink{
		EventID:        event.Id,
		ArticleID:      old.Id,
		RelevanceScore: 0.4,
		CreatedAt:      now,
	}).Error)

	_, err := digest.AddManualEntry(db, old.Id, "", now)
	assert.Nil(t, err)

	purged, err := svc.RetentionSweep()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), purged)

	// The old article and everything hanging off it is gone, the recent one
	// and the event itself survive.
	var count int64
	db.Model(&model.Article{}).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Model(&model.Article{}).Where("id = ?", recent.Id).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Model(&model.EventArticleLink{}).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&model.DigestEntry{}).Count(&count)
	assert.Equal(t, int64(0), count)
	db.Model(&model.IndustryEvent{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	svc, db := newTestService(t)

	assert.Nil(t, svc.SeedDefaults())

	var feedCount, eventCount int64
	db.Model(&model.Feed{}).Count(&feedCount)
	db.Model(&model.IndustryEvent{}).Count(&eventCount)
	assert.Equal(t, int64(len(defaultFeeds)), feedCount)
	assert.Greater(t, eventCount, int64(0))

	assert.Nil(t, svc.SeedDefaults())

	var feedCountAfter, eventCountAfter int64
	db.Model(&model.Feed{}).Count(&feedCountAfter)
	db.Model(&model.IndustryEvent{}).Count(&eventCountAfter)
	assert.Equal(t, feedCount, feedCountAfter)
	assert.Equal(t, eventCount, eventCountAfter)

	var seeded model.IndustryEvent
	assert.Equal(t, int64(1), db.Where("name LIKE ?", "CES %").First(&seeded).RowsAffected)
	assert.True(t, seeded.Seeded)
}

func TestSeedDefaultsKeepsOperatorFeeds(t *testing.T) {
	svc, db := newTestService(t)

	_, err := svc.AddFeed("Operator Feed", "https://example.com/custom", "Custom")
	assert.Nil(t, err)

	// A non-empty feeds table is left alone entirely.
	assert.Nil(t, svc.SeedDefaults())

	var count int64
	db.Model(&model.Feed{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestToggleFeedResetsFailures(t *testing.T) {
	svc, db := newTestService(t)

	feed, err := svc.AddFeed("Flaky Feed", "https://example.com/flaky", "")
	assert.Nil(t, err)

	db.Model(&model.Feed{}).Where("id = ?", feed.Id).Updates(map[string]interface{}{
		"active":               false,
		"consecutive_failures": 5,
	})

	_, err = svc.ToggleFeed(feed.Id)
	assert.Nil(t, err)

	var current model.Feed
	db.Where("id = ?", feed.Id).First(&current)
	assert.True(t, current.Active)
	assert.Equal(t, 0, current.ConsecutiveFailures)
}

func TestAddFeedRejectsDuplicateURL(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddFeed("First", "https://example.com/same", "")
	assert.Nil(t, err)
	_, err = svc.AddFeed("Second", "https://example.com/same", "")
	assert.NotNil(t, err)
}

func TestSettings(t *testing.T) {
	svc, _ := newTestService(t)

	_, found, err := svc.GetSetting("missing")
	assert.Nil(t, err)
	assert.False(t, found)

	assert.Nil(t, svc.SetSetting("greeting", "hello"))
	value, found, err := svc.GetSetting("greeting")
	assert.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", value)

	// Upsert overwrites.
	assert.Nil(t, svc.SetSetting("greeting", "hi"))
	value, _, _ = svc.GetSetting("greeting")
	assert.Equal(t, "hi", value)
}

func TestListArticlesFiltersAndOrders(t *testing.T) {
	svc, db := newTestService(t)
	now := time.Now().UTC()

	newest := createArticleAt(t, db, now.Add(-time.Hour))
	older := createArticleAt(t, db, now.Add(-2*time.Hour))
	weak := createArticleAt(t, db, now.Add(-time.Hour))
	db.Model(&model.Article{}).Where("id = ?", weak.Id).Update("relevance_score", 0.1)

	articles, err := svc.ListArticles(24*time.Hour, 0.3, 10)
	assert.Nil(t, err)
	assert.Len(t, articles, 2)
	assert.Equal(t, newest.Id, articles[0].Id)
	assert.Equal(t, older.Id, articles[1].Id)
}
