package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/model"
	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

// Wire DTOs. Structurally close to the models, copier fills the shared
// fields and the handlers patch up the rest.

type ArticleResponse struct {
	Id             string    `json:"id"`
	FeedName       string    `json:"feed_name"`
	Title          string    `json:"title"`
	Url            string    `json:"url"`
	Description    string    `json:"description"`
	PublishedAt    time.Time `json:"published_at"`
	RelevanceScore float64   `json:"relevance_score"`
	Keywords       []string  `json:"keywords"`
	ImageUrl       string    `json:"image_url,omitempty"`
}

type EventResponse struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	Hashtags  string    `json:"hashtags"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Location  string    `json:"location,omitempty"`
	Seeded    bool      `json:"seeded"`
	Articles  int       `json:"articles"`
}

type DigestEntryResponse struct {
	Id      string          `json:"id"`
	AddedBy string          `json:"added_by"`
	Notes   string          `json:"notes,omitempty"`
	Article ArticleResponse `json:"article"`
}

func toArticleResponse(article model.Article) ArticleResponse {
	resp := ArticleResponse{}
	copier.Copy(&resp, &article)
	resp.FeedName = article.Feed.Name
	resp.Keywords = article.KeywordList()
	return resp
}

func (s *APIServer) fetchNow(c *gin.Context) {
	report, err := s.Service.TriggerFetchNow(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"feeds_fetched": report.FeedsFetched,
		"feeds_failed":  report.FeedsFailed,
		"entries_seen":  report.EntriesSeen,
		"duplicates":    report.Duplicates,
		"rejected":      report.Rejected,
		"new_articles":  report.NewArticles,
	})
}

func (s *APIServer) listArticles(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "168"))
	minScore, _ := strconv.ParseFloat(c.DefaultQuery("min_score", "0"), 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	articles, err := s.Service.ListArticles(time.Duration(hours)*time.Hour, minScore, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := []ArticleResponse{}
	for _, article := range articles {
		resp = append(resp, toArticleResponse(article))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *APIServer) listEvents(c *gin.Context) {
	activeEvents, err := s.Service.ListActiveEvents()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := []EventResponse{}
	for _, event := range activeEvents {
		e := EventResponse{}
		copier.Copy(&e, &event)
		links, err := s.Service.EventLinks(event.Id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		e.Articles = len(links)
		resp = append(resp, e)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *APIServer) getStats(c *gin.Context) {
	stats, err := s.Service.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *APIServer) listFeeds(c *gin.Context) {
	feeds, err := s.Service.ListFeeds()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, feeds)
}

type addFeedRequest struct {
	Name     string `json:"name" binding:"required"`
	Url      string `json:"url" binding:"required"`
	Category string `json:"category"`
}

func (s *APIServer) addFeed(c *gin.Context) {
	var req addFeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feed, err := s.Service.AddFeed(req.Name, req.Url, req.Category)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, feed)
}

func (s *APIServer) toggleFeed(c *gin.Context) {
	feed, err := s.Service.ToggleFeed(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, feed)
}

// weekFromQuery resolves the optional ?week=YYYY-MM-DD parameter, defaulting
// to the current week.
func weekFromQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("week")
	if raw == "" {
		return time.Now().UTC(), true
	}
	week, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return week, true
}

func (s *APIServer) getDigest(c *gin.Context) {
	week, ok := weekFromQuery(c)
	if !ok {
		return
	}

	entries, err := s.Service.GetDigest(week)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := []DigestEntryResponse{}
	for _, entry := range entries {
		e := DigestEntryResponse{}
		copier.Copy(&e, &entry)
		e.Article = toArticleResponse(entry.Article)
		resp = append(resp, e)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *APIServer) getDigestScript(c *gin.Context) {
	week, ok := weekFromQuery(c)
	if !ok {
		return
	}

	script, err := s.Service.ExportDigestScript(week)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.String(http.StatusOK, script)
}

type addDigestEntryRequest struct {
	ArticleId string `json:"article_id" binding:"required"`
	Notes     string `json:"notes"`
}

func (s *APIServer) addDigestEntry(c *gin.Context) {
	var req addDigestEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := s.Service.AddManualDigestEntry(req.ArticleId, req.Notes)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *APIServer) removeDigestEntry(c *gin.Context) {
	if err := s.Service.RemoveDigestEntry(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": c.Param("id")})
}
