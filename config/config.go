package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	apperrors "github.com/dealmungchi/barebonecrawler/pkg/errors"

	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration
	MemcacheAddr string

	// Crawler configuration
	CrawlSchedule  string
	RunOnce        bool
	RequestDelay   time.Duration
	RateLimitBlock time.Duration

	// Source URLs
	ForumURL        string
	CatalogURL      string
	CatalogBaseURL  string
	CatalogAdminURL string

	// Table store
	StoreDriver string
	StoreDSN    string
	ExportDir   string

	// Environment
	Environment string
}

// ScheduleParser parses CrawlSchedule; schedules carry a seconds field
var ScheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	delayMs, _ := strconv.Atoi(getEnv("REQUEST_DELAY_MS", "1000"))
	blockSeconds, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "600"))
	runOnce, _ := strconv.ParseBool(getEnv("RUN_ONCE", "false"))

	return &Config{
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "barebones"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLength,
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		CrawlSchedule:        getEnv("CRAWL_SCHEDULE", "0 0 6 * * *"),
		RunOnce:              runOnce,
		RequestDelay:         time.Duration(delayMs) * time.Millisecond,
		RateLimitBlock:       time.Duration(blockSeconds) * time.Second,
		ForumURL:             getEnv("FORUM_URL", "https://www.5giay.vn/threads/vi-tinh-bao-nhu-case-pc-may-bo-dell-hp-lenovo-gia-re.34567/"),
		CatalogURL:           getEnv("CATALOG_URL", "https://minhkhoicomputer.com/product-category/danh-muc-san-pham/barabone/"),
		CatalogBaseURL:       getEnv("CATALOG_BASE_URL", "https://minhkhoicomputer.com"),
		CatalogAdminURL:      getEnv("CATALOG_ADMIN_URL", "https://minhkhoicomputer.com"),
		StoreDriver:          getEnv("STORE_DRIVER", "sqlite"),
		StoreDSN:             getEnv("STORE_DSN", "file:barebones.db"),
		ExportDir:            os.Getenv("EXPORT_DIR"),
		Environment:          getEnv("BAREBONE_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the worker cannot run with
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"FORUM_URL":        c.ForumURL,
		"CATALOG_URL":      c.CatalogURL,
		"CATALOG_BASE_URL": c.CatalogBaseURL,
	} {
		u, err := url.Parse(raw)
		if raw == "" || err != nil || u.Host == "" {
			return apperrors.NewConfiguration(fmt.Sprintf("%s must be an absolute URL, got %q", name, raw), err)
		}
	}

	switch c.StoreDriver {
	case "sqlite", "postgres":
	default:
		return apperrors.NewConfiguration(fmt.Sprintf("unknown STORE_DRIVER %q", c.StoreDriver), nil)
	}
	if c.StoreDSN == "" {
		return apperrors.NewConfiguration("STORE_DSN is required", nil)
	}

	if c.RedisStreamCount <= 0 {
		return apperrors.NewConfiguration("REDIS_STREAM_COUNT must be positive", nil)
	}
	if c.RequestDelay < 0 {
		return apperrors.NewConfiguration("REQUEST_DELAY_MS must not be negative", nil)
	}

	if !c.RunOnce {
		if _, err := ScheduleParser.Parse(c.CrawlSchedule); err != nil {
			return apperrors.NewConfiguration(fmt.Sprintf("invalid CRAWL_SCHEDULE %q", c.CrawlSchedule), err)
		}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
