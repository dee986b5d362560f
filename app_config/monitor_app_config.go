package app_config

import (
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"
)

// This is the app config for the pipeline monitor binary. Values here tune
// scheduling and resource usage, not scoring semantics (see scorer/ and
// events/ for those).
type MonitorAppConfig struct {
	// Bounded timeout for a single feed fetch, in seconds.
	FETCH_TIMEOUT_SECOND int `yaml:"FETCH_TIMEOUT_SECOND"`
	// Number of concurrent per-feed fetches within one ingestion pass.
	FETCH_WORKER_COUNT int `yaml:"FETCH_WORKER_COUNT"`
	// Cap of entries taken from a single feed document.
	MAX_ARTICLES_PER_FEED int `yaml:"MAX_ARTICLES_PER_FEED"`
	// Entries published earlier than this many days ago are dropped at
	// ingestion time.
	MAX_ENTRY_AGE_DAYS int `yaml:"MAX_ENTRY_AGE_DAYS"`
	// A feed is soft-disabled after this many consecutive failed cycles.
	FEED_FAILURE_LIMIT int `yaml:"FEED_FAILURE_LIMIT"`
	// Scheduled cadences.
	FETCH_EVERY_HOURS           int `yaml:"FETCH_EVERY_HOURS"`
	EVENT_PASS_EVERY_HOURS      int `yaml:"EVENT_PASS_EVERY_HOURS"`
	RETENTION_SWEEP_EVERY_HOURS int `yaml:"RETENTION_SWEEP_EVERY_HOURS"`
	// Articles older than this many days are purged by the retention sweep.
	RETENTION_DAYS int `yaml:"RETENTION_DAYS"`
	// Weekly digest build schedule and size.
	DIGEST_WEEKDAY int `yaml:"DIGEST_WEEKDAY"`
	DIGEST_HOUR    int `yaml:"DIGEST_HOUR"`
	DIGEST_SIZE    int `yaml:"DIGEST_SIZE"`
	// Display name used by the digest script export.
	SHOW_NAME string `yaml:"SHOW_NAME"`
	// Listen address of the thin API server.
	API_ADDR string `yaml:"API_ADDR"`
}

// DefaultMonitorAppConfig mirrors the shipped config.yaml. Tests construct
// configs from here instead of reading files.
func DefaultMonitorAppConfig() MonitorAppConfig {
	return MonitorAppConfig{
		FETCH_TIMEOUT_SECOND:        30,
		FETCH_WORKER_COUNT:          4,
		MAX_ARTICLES_PER_FEED:       50,
		MAX_ENTRY_AGE_DAYS:          7,
		FEED_FAILURE_LIMIT:          5,
		FETCH_EVERY_HOURS:           6,
		EVENT_PASS_EVERY_HOURS:      12,
		RETENTION_SWEEP_EVERY_HOURS: 24,
		RETENTION_DAYS:              30,
		DIGEST_WEEKDAY:              1,
		DIGEST_HOUR:                 8,
		DIGEST_SIZE:                 6,
		SHOW_NAME:                   "The Wireless Monitor Weekly",
		API_ADDR:                    ":8080",
	}
}

func ParseMonitorAppConfig(path string) MonitorAppConfig {
	c := DefaultMonitorAppConfig()
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		log.Fatal("Unmarshal: ", err)
	}
	return c
}
