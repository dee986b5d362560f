package ingestion

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	"github.com/Drew-CodeRGV/TheWirelessMonitor/scorer"
	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	insertMaxAttempts = 3
	insertRetryDelay  = 200 * time.Millisecond
)

// Report summarizes one ingestion pass.
type Report struct {
	FeedsFetched  int
	FeedsFailed   int
	EntriesSeen   int
	Duplicates    int
	Rejected      int
	NewArticles   int
	NewArticleIds []string
}

// Processor runs the fetch -> normalize -> dedup -> score -> persist pass
// over all active feeds. Per-feed fetches fan out on a bounded worker pool;
// the dedup/insert step stays on a single writer goroutine so there is
// exactly one writer against the articles table per pass. Callers serialize
// whole passes (see service.PipelineService).
type Processor struct {
	db           *gorm.DB
	fetcher      *Fetcher
	images       *ImageResolver
	scoring      scorer.ScoringConfig
	workerCount  int
	failureLimit int
}

func NewProcessor(db *gorm.DB, fetcher *Fetcher, images *ImageResolver, scoring scorer.ScoringConfig, workerCount, failureLimit int) *Processor {
	return &Processor{
		db:           db,
		fetcher:      fetcher,
		images:       images,
		scoring:      scoring,
		workerCount:  workerCount,
		failureLimit: failureLimit,
	}
}

type fetchResult struct {
	feed    model.Feed
	entries []NormalizedEntry
	err     error
}

// IngestAll fetches every active feed once and persists the entries that
// clear the ingestion threshold. A partially applied batch is an acceptable
// result: every insert is independently atomic, and re-running the pass is
// idempotent through URL dedup.
func (p *Processor) IngestAll(ctx context.Context) (Report, error) {
	report := Report{}

	var feeds []model.Feed
	if err := p.db.Where("active = ?", true).Order("name").Find(&feeds).Error; err != nil {
		return report, errors.Wrap(err, "load active feeds")
	}
	if len(feeds) == 0 {
		return report, nil
	}

	now := time.Now().UTC()

	jobs := make(chan model.Feed)
	results := make(chan fetchResult)

	workerCount := p.workerCount
	if workerCount > len(feeds) {
		workerCount = len(feeds)
	}

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for feed := range jobs {
				entries, err := p.fetcher.FetchFeed(ctx, feed.Url, now)
				results <- fetchResult{feed: feed, entries: entries, err: err}
			}
		}()
	}

	go func() {
		for _, feed := range feeds {
			jobs <- feed
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// Single-writer loop. On an unrecoverable persistence error the rest of
	// the cycle is skipped (results still drained), the next scheduled run
	// starts fresh.
	var abort error
	for res := range results {
		if abort != nil {
			continue
		}
		if res.err != nil {
			Log.Warnf("fetch failed for feed %s: %v", res.feed.Name, res.err)
			p.recordFailure(res.feed)
			report.FeedsFailed++
			continue
		}

		p.recordSuccess(res.feed, now)
		report.FeedsFetched++

		for _, entry := range res.entries {
			if err := p.processEntry(res.feed, entry, now, &report); err != nil {
				Log.Errorf("aborting ingestion cycle: %v", err)
				abort = err
				break
			}
		}
	}

	return report, abort
}

// processEntry applies the dedup gate and the scoring gate, then inserts.
// Duplicate URLs are a success no-op, never an error.
func (p *Processor) processEntry(feed model.Feed, entry NormalizedEntry, now time.Time, report *Report) error {
	report.EntriesSeen++

	var existing model.Article
	if p.db.Where("url = ?", entry.Url).First(&existing).RowsAffected != 0 {
		report.Duplicates++
		return nil
	}

	score, matched := p.scoring.Score(entry.Title + " " + entry.Description + " " + entry.Content)
	if score <= p.scoring.IngestionThreshold {
		report.Rejected++
		return nil
	}

	article := model.Article{
		Id:             uuid.New().String(),
		CreatedAt:      now,
		FeedID:         feed.Id,
		Title:          entry.Title,
		Url:            entry.Url,
		Description:    entry.Description,
		Content:        entry.Content,
		PublishedAt:    entry.PublishedAt,
		RelevanceScore: score,
	}
	if err := article.SetKeywords(matched); err != nil {
		return errors.Wrap(err, "encode keywords")
	}

	duplicate, err := p.createWithRetry(&article)
	if err != nil {
		return err
	}
	if duplicate {
		// Another writer slipped the same URL in between the dedup check and
		// the insert. The unique constraint is the safety net, treat as done.
		report.Duplicates++
		return nil
	}

	report.NewArticles++
	report.NewArticleIds = append(report.NewArticleIds, article.Id)
	Log.Infof("added article: %s (score %.3f)", article.Title, score)

	p.resolveImage(article)
	return nil
}

// createWithRetry inserts the article, retrying write-lock contention a
// bounded number of times with backoff. Returns duplicate=true when the
// unique URL constraint fired.
func (p *Processor) createWithRetry(article *model.Article) (duplicate bool, err error) {
	for attempt := 1; ; attempt++ {
		err = p.db.Create(article).Error
		if err == nil {
			return false, nil
		}
		if isUniqueViolation(err) {
			return true, nil
		}
		if !isLockContention(err) || attempt >= insertMaxAttempts {
			return false, errors.Wrapf(err, "insert article %s", article.Url)
		}
		time.Sleep(insertRetryDelay * time.Duration(attempt))
	}
}

// resolveImage asks the image resolver for a cover image and writes back
// image_url. Failure is silent, the column simply stays empty.
func (p *Processor) resolveImage(article model.Article) {
	if p.images == nil {
		return
	}
	imageUrl := p.images.Resolve(article.Url)
	if imageUrl == "" {
		return
	}
	p.db.Model(&model.Article{}).Where("id = ?", article.Id).Update("image_url", imageUrl)
}

func (p *Processor) recordSuccess(feed model.Feed, now time.Time) {
	p.db.Model(&model.Feed{}).Where("id = ?", feed.Id).Updates(map[string]interface{}{
		"last_fetched_at":      now,
		"consecutive_failures": 0,
	})
}

// recordFailure bumps the consecutive failure counter and soft-disables the
// feed once it reaches the configured limit. Feeds are never hard-deleted.
func (p *Processor) recordFailure(feed model.Feed) {
	failures := feed.ConsecutiveFailures + 1
	updates := map[string]interface{}{"consecutive_failures": failures}
	if p.failureLimit > 0 && failures >= p.failureLimit {
		updates["active"] = false
		Log.Warnf("feed %s disabled after %d consecutive failures", feed.Name, failures)
	}
	p.db.Model(&model.Feed{}).Where("id = ?", feed.Id).Updates(updates)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}

func isLockContention(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "deadlock") || strings.Contains(msg, "lock timeout") ||
		strings.Contains(msg, "could not obtain lock")
}
