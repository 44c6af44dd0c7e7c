package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/dealmungchi/barebonecrawler/helpers"
	"github.com/dealmungchi/barebonecrawler/internal/barebone"
	"github.com/dealmungchi/barebonecrawler/logger"
	apperrors "github.com/dealmungchi/barebonecrawler/pkg/errors"
	"github.com/dealmungchi/barebonecrawler/services/cache"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// FetchFunc fetches a page and returns its UTF-8 body
type FetchFunc func(ctx context.Context, url string) (io.Reader, error)

// BaseCrawler provides common functionality for all crawlers
type BaseCrawler struct {
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	Provider  barebone.Source

	limiter   *rate.Limiter
	fetchFunc FetchFunc
}

func newBaseCrawler(url, cacheKey string, provider barebone.Source, blockSeconds, delayMs int, cacheSvc cache.CacheService) BaseCrawler {
	return BaseCrawler{
		URL:       url,
		CacheKey:  cacheKey,
		CacheSvc:  cacheSvc,
		BlockTime: time.Duration(blockSeconds) * time.Second,
		Provider:  provider,
		limiter:   newLimiter(time.Duration(delayMs) * time.Millisecond),
		fetchFunc: helpers.FetchWithRandomHeaders,
	}
}

// newLimiter spaces requests to one source at least delay apart
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// fetchWithCache fetches a URL unless the source is blocked after a rate limit answer
func (c *BaseCrawler) fetchWithCache(ctx context.Context, url string) (io.Reader, error) {
	// Check if the crawler is rate limited
	if c.CacheSvc != nil && c.CacheKey != "" {
		if _, err := c.CacheSvc.Get(c.CacheKey); err == nil {
			return nil, apperrors.NewRateLimit(string(c.Provider), c.BlockTime)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, apperrors.NewNetwork(string(c.Provider), "waiting for request slot", err)
		}
	}

	fetch := c.fetchFunc
	if fetch == nil {
		fetch = helpers.FetchWithRandomHeaders
	}

	utf8Body, err := fetch(ctx, url)
	if err != nil {
		if errors.Is(err, helpers.ErrRateLimited) {
			if c.CacheSvc != nil && c.CacheKey != "" {
				// Set rate limiting cache
				if err := c.CacheSvc.Set(c.CacheKey, []byte(fmt.Sprintf("%d", c.BlockTime/time.Second)), c.BlockTime); err != nil {
					logger.ForCrawler(string(c.Provider)).Warn().
						Err(apperrors.NewCache(string(c.Provider), "storing rate limit block", err)).
						Msg("Source will not be blocked")
				}
			}
			return nil, apperrors.NewRateLimit(string(c.Provider), c.BlockTime)
		}
		return nil, apperrors.NewNetwork(string(c.Provider), "fetch "+url, err)
	}

	return utf8Body, nil
}

// createDocument creates a goquery document from a reader
func (c *BaseCrawler) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, apperrors.NewParsing(string(c.Provider), "HTML parse", err)
	}
	return doc, nil
}

// fetchDocument fetches url and parses it
func (c *BaseCrawler) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.fetchWithCache(ctx, url)
	if err != nil {
		return nil, err
	}
	return c.createDocument(body)
}

// GetProvider returns the source of the crawler
func (c *BaseCrawler) GetProvider() barebone.Source {
	return c.Provider
}

// GetName returns the crawler's type name for logging
func (c *BaseCrawler) GetName() string {
	// This will be overridden by concrete implementations
	// But fallback to reflect-based name if not
	return reflect.TypeOf(c).Elem().Name()
}
