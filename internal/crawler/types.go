package crawler

import (
	"context"

	"github.com/dealmungchi/barebonecrawler/internal/barebone"
)

// Crawler interface defines the contract for all crawler implementations
type Crawler interface {
	// FetchListings retrieves the raw barebone listings of a source
	FetchListings(ctx context.Context) ([]barebone.RawListing, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string

	// GetProvider returns the source the listings come from
	GetProvider() barebone.Source
}

// ForumSelectors contains CSS selectors of a forum thread
type ForumSelectors struct {
	// Post bodies whose lines are scanned for listings
	Block string
}

// CatalogSelectors contains CSS selectors of the catalog pages
type CatalogSelectors struct {
	ProductLink  string
	LinkContains string
	NextPage     string
	Table        string
	PostTitle    string
	Shortlink    string
}

// ForumConfig contains configuration for a forum crawler
type ForumConfig struct {
	URL       string
	CacheKey  string
	BlockTime int
	Delay     int
	Provider  barebone.Source
	Selectors ForumSelectors
}

// CatalogConfig contains configuration for a catalog crawler
type CatalogConfig struct {
	URL       string
	BaseURL   string
	CacheKey  string
	BlockTime int
	Delay     int
	MaxPages  int
	Provider  barebone.Source
	Selectors CatalogSelectors
}
