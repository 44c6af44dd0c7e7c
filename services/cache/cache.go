package cache

import (
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key holds nothing
var ErrMiss = errors.New("cache: miss")

// CacheService stores short-lived source state, such as the rate limit
// block of a crawler
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
