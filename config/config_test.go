package config

import (
	"testing"
	"time"

	apperrors "github.com/dealmungchi/barebonecrawler/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "", config.RedisAddr)
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, 1, config.RedisStreamCount)
	assert.Equal(t, "sqlite", config.StoreDriver)
	assert.Equal(t, time.Second, config.RequestDelay)
	assert.Equal(t, "0 0 6 * * *", config.CrawlSchedule)
	assert.False(t, config.RunOnce)
	assert.NoError(t, config.Validate())

	// Test with environment variables
	t.Setenv("REDIS_ADDR", "redis.example.com:6379")
	t.Setenv("REDIS_DB", "1")
	t.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")
	t.Setenv("REQUEST_DELAY_MS", "250")
	t.Setenv("RUN_ONCE", "true")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("STORE_DSN", "postgres://u:p@localhost/barebones?sslmode=disable")
	t.Setenv("FORUM_URL", "https://example.com/threads/1")

	config = LoadConfig()
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
	assert.Equal(t, 250*time.Millisecond, config.RequestDelay)
	assert.True(t, config.RunOnce)
	assert.Equal(t, "postgres", config.StoreDriver)
	assert.Equal(t, "https://example.com/threads/1", config.ForumURL)
	assert.NoError(t, config.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative forum url", func(c *Config) { c.ForumURL = "/threads/1" }},
		{"empty catalog url", func(c *Config) { c.CatalogURL = "" }},
		{"unknown driver", func(c *Config) { c.StoreDriver = "mysql" }},
		{"empty dsn", func(c *Config) { c.StoreDSN = "" }},
		{"no streams", func(c *Config) { c.RedisStreamCount = 0 }},
		{"negative delay", func(c *Config) { c.RequestDelay = -time.Second }},
		{"bad schedule", func(c *Config) { c.CrawlSchedule = "every day" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := LoadConfig()
			tt.mutate(c)
			err := c.Validate()
			assert.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConfiguration))
		})
	}
}

func TestValidateIgnoresScheduleWhenRunningOnce(t *testing.T) {
	c := LoadConfig()
	c.RunOnce = true
	c.CrawlSchedule = "not a schedule"
	assert.NoError(t, c.Validate())
}
