// Package digest assembles the weekly curated digest and renders its
// script-style text export.
package digest

import (
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const digestMarkerPrefix = "digest:generated:"

// Weeks start on Monday.
var weekConfig = &now.Config{WeekStartDay: time.Monday}

// WeekStart returns the start boundary of the week containing t, in UTC.
func WeekStart(t time.Time) time.Time {
	return weekConfig.With(t.UTC()).BeginningOfWeek()
}

// MarkerKey is the settings key recording that the digest for a week has
// been generated.
func MarkerKey(weekStart time.Time) string {
	return digestMarkerPrefix + weekStart.Format("2006-01-02")
}

// Builder selects the weekly system digest. Manual entries are managed by
// the operator operations below and are never touched by the builder.
type Builder struct {
	size      int
	threshold float64
}

func NewBuilder(size int, threshold float64) *Builder {
	return &Builder{size: size, threshold: threshold}
}

// Build creates this week's system entries once. A second call within the
// same week is an expected no-op guarded by the settings marker; running
// into it is not an error. Returns the number of entries added.
func (b *Builder) Build(db *gorm.DB, buildTime time.Time) (int, error) {
	weekStart := WeekStart(buildTime)
	marker := MarkerKey(weekStart)

	var setting model.Setting
	if db.Where("key = ?", marker).First(&setting).RowsAffected != 0 {
		Log.Infof("digest already generated for week %s", weekStart.Format("2006-01-02"))
		return 0, nil
	}

	excluded, err := articleIdsInWeek(db, weekStart)
	if err != nil {
		return 0, err
	}

	query := db.Where("published_at >= ? AND relevance_score > ?",
		buildTime.Add(-7*24*time.Hour), b.threshold)
	if len(excluded) > 0 {
		query = query.Where("id NOT IN ?", excluded)
	}

	var articles []model.Article
	err = query.Order("relevance_score DESC, published_at DESC").Limit(b.size).Find(&articles).Error
	if err != nil {
		return 0, errors.Wrap(err, "select digest candidates")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, article := range articles {
			entry := model.DigestEntry{
				Id:        uuid.New().String(),
				ArticleID: article.Id,
				WeekStart: weekStart,
				AddedBy:   model.DigestAddedBySystem,
				AddedAt:   buildTime,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&model.Setting{
			Key:       marker,
			Value:     "1",
			UpdatedAt: buildTime,
		}).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "write digest entries")
	}

	Log.Infof("digest for week %s built with %d entries", weekStart.Format("2006-01-02"), len(articles))
	return len(articles), nil
}

// AddManualEntry curates one article into the week containing at. Manual
// entries survive digest rebuilds untouched.
func AddManualEntry(db *gorm.DB, articleId, notes string, at time.Time) (*model.DigestEntry, error) {
	var article model.Article
	if db.Where("id = ?", articleId).First(&article).RowsAffected == 0 {
		return nil, errors.Errorf("article %s not found", articleId)
	}

	entry := model.DigestEntry{
		Id:        uuid.New().String(),
		ArticleID: articleId,
		WeekStart: WeekStart(at),
		AddedBy:   model.DigestAddedByManual,
		Notes:     notes,
		AddedAt:   at,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, errors.Wrap(err, "add manual digest entry")
	}
	return &entry, nil
}

// RemoveEntry deletes one digest entry by id, system or manual.
func RemoveEntry(db *gorm.DB, entryId string) error {
	res := db.Where("id = ?", entryId).Delete(&model.DigestEntry{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "remove digest entry")
	}
	if res.RowsAffected == 0 {
		return errors.Errorf("digest entry %s not found", entryId)
	}
	return nil
}

// EntriesForWeek loads a week's full entry set (system and manual) with
// articles preloaded, in insertion order.
func EntriesForWeek(db *gorm.DB, weekStart time.Time) ([]model.DigestEntry, error) {
	var entries []model.DigestEntry
	err := db.Preload("Article").Where("week_start = ?", WeekStart(weekStart)).
		Order("added_at, id").Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "load digest entries")
	}
	return entries, nil
}

func articleIdsInWeek(db *gorm.DB, weekStart time.Time) ([]string, error) {
	var entries []model.DigestEntry
	if err := db.Where("week_start = ?", weekStart).Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "load existing digest entries")
	}
	ids := []string{}
	for _, entry := range entries {
		ids = append(ids, entry.ArticleID)
	}
	return ids, nil
}
