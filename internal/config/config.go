// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the talent service.
type Config struct {
	Port           string
	MongoURL       string
	MongoDB        string
	RedisURL       string // optional — empty disables caching and save events
	RemoteAPIBase  string
	CustomLocation string // location filter sent to the remote list endpoint, e.g. "US"

	StartPage int // first list page to scrape (inclusive)
	EndPage   int // last list page to scrape (inclusive)
	DelayMS   int // pause between remote requests, milliseconds

	// StopOnEmptyPage controls what happens when a list page carries a
	// present-but-empty results array: true stops the run like absent data,
	// false advances to the next page. Upstream behavior is unspecified, so
	// this is an explicit decision point.
	StopOnEmptyPage bool

	ScrapeIntervalHours int // how often the cron job fires; 0 disables the scheduler
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	mongoURL := os.Getenv("MONGO_URL")
	if mongoURL == "" {
		return nil, fmt.Errorf("MONGO_URL is required")
	}

	remoteBase := os.Getenv("REMOTE_API_BASE")
	if remoteBase == "" {
		return nil, fmt.Errorf("REMOTE_API_BASE is required")
	}

	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "talentdb"
	}

	location := os.Getenv("CUSTOM_LOCATION")
	if location == "" {
		location = "US"
	}

	port := os.Getenv("TALENT_PORT")
	if port == "" {
		port = "8082"
	}

	startPage, err := intEnv("START_PAGE", 1)
	if err != nil {
		return nil, err
	}
	endPage, err := intEnv("END_PAGE", 10)
	if err != nil {
		return nil, err
	}
	delayMS, err := intEnv("DELAY_MS", 1000)
	if err != nil {
		return nil, err
	}
	interval, err := intEnv("SCRAPE_INTERVAL_HOURS", 6)
	if err != nil {
		return nil, err
	}

	stopOnEmpty := true
	if s := os.Getenv("STOP_ON_EMPTY_PAGE"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("STOP_ON_EMPTY_PAGE must be a boolean, got %q", s)
		}
		stopOnEmpty = v
	}

	return &Config{
		Port:                port,
		MongoURL:            mongoURL,
		MongoDB:             mongoDB,
		RedisURL:            os.Getenv("REDIS_URL"),
		RemoteAPIBase:       remoteBase,
		CustomLocation:      location,
		StartPage:           startPage,
		EndPage:             endPage,
		DelayMS:             delayMS,
		StopOnEmptyPage:     stopOnEmpty,
		ScrapeIntervalHours: interval,
	}, nil
}

// intEnv parses a non-negative integer variable, falling back to def when unset.
func intEnv(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, s)
	}
	return v, nil
}
