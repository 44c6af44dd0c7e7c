package crawler

import (
	"github.com/dealmungchi/barebonecrawler/config"
	"github.com/dealmungchi/barebonecrawler/internal/barebone"
	"github.com/dealmungchi/barebonecrawler/logger"
	"github.com/dealmungchi/barebonecrawler/services/cache"
)

// Crawlers holds the crawler of each source
type Crawlers struct {
	Forum   Crawler
	Catalog Crawler
}

// CreateCrawlers creates the forum and catalog crawlers based on the configuration
func CreateCrawlers(cfg *config.Config, cacheSvc cache.CacheService) Crawlers {
	delay := int(cfg.RequestDelay.Milliseconds())
	block := int(cfg.RateLimitBlock.Seconds())

	forum := NewForumCrawler(ForumConfig{
		URL:       cfg.ForumURL,
		CacheKey:  "5giay_rate_limited",
		BlockTime: block,
		Delay:     delay,
		Provider:  barebone.SourceForum,
		Selectors: ForumSelectors{
			Block: "blockquote",
		},
	}, cacheSvc)

	catalog := NewCatalogCrawler(CatalogConfig{
		URL:       cfg.CatalogURL,
		BaseURL:   cfg.CatalogBaseURL,
		CacheKey:  "mkcom_rate_limited",
		BlockTime: block,
		Delay:     delay,
		Provider:  barebone.SourceCatalog,
		Selectors: CatalogSelectors{
			ProductLink:  "a[href]",
			LinkContains: "/product/",
			NextPage:     "a.next.page-numbers",
			Table:        "table.notcauhinh, table.cauhinh",
			PostTitle:    "h2.product-name",
			Shortlink:    `link[rel="shortlink"]`,
		},
	}, cacheSvc)

	logger.Info("Created crawlers: %s (%s), %s (%s)", forum.GetName(), forum.URL, catalog.GetName(), catalog.URL)

	return Crawlers{Forum: forum, Catalog: catalog}
}
