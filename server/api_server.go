// Package server is the thin JSON API in front of the pipeline service.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/Drew-CodeRGV/TheWirelessMonitor/service"
	. "github.com/Drew-CodeRGV/TheWirelessMonitor/utils/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type APIServerConfig struct {
	Name string

	// Listen address, e.g. ":8080".
	Addr string
}

// APIServer runs the HTTP API as an engine module so it shares the engine's
// lifecycle with the scheduler and listeners.
type APIServer struct {
	Config APIServerConfig

	Service *service.PipelineService
}

func NewAPIServer(config APIServerConfig, svc *service.PipelineService) *APIServer {
	return &APIServer{
		Config:  config,
		Service: svc,
	}
}

func (s *APIServer) RunModule(ctx context.Context) error {
	// Default With the Logger and Recovery middleware already attached
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	{
		api.GET("/fetch_now", s.fetchNow)
		api.GET("/articles", s.listArticles)
		api.GET("/events", s.listEvents)
		api.GET("/stats", s.getStats)

		api.GET("/feeds", s.listFeeds)
		api.POST("/feeds", s.addFeed)
		api.POST("/feeds/:id/toggle", s.toggleFeed)

		api.GET("/digest", s.getDigest)
		api.GET("/digest/script", s.getDigestScript)
		api.POST("/digest/entries", s.addDigestEntry)
		api.DELETE("/digest/entries/:id", s.removeDigestEntry)
	}

	srv := &http.Server{
		Addr:    s.Config.Addr,
		Handler: router,
	}

	errs := make(chan error, 1)
	go func() {
		Log.Infof("api server listening on %s", s.Config.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *APIServer) Name() string {
	return s.Config.Name
}

func (s *APIServer) Shutdown() {}
