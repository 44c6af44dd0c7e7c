package crawler

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dealmungchi/barebonecrawler/helpers"
	"github.com/dealmungchi/barebonecrawler/internal/barebone"
	"github.com/dealmungchi/barebonecrawler/logger"
	apperrors "github.com/dealmungchi/barebonecrawler/pkg/errors"
	"github.com/dealmungchi/barebonecrawler/services/cache"

	"github.com/PuerkitoBio/goquery"
)

// CatalogCrawler walks a paginated product category and reads the price
// table of every product page
type CatalogCrawler struct {
	BaseCrawler
	BaseURL   string
	MaxPages  int
	Selectors CatalogSelectors
}

// productLink is a product page and the category page it was first seen on
type productLink struct {
	URL  string
	Page int
}

// NewCatalogCrawler creates a new catalog crawler
func NewCatalogCrawler(config CatalogConfig, cacheSvc cache.CacheService) *CatalogCrawler {
	return &CatalogCrawler{
		BaseCrawler: newBaseCrawler(config.URL, config.CacheKey, config.Provider, config.BlockTime, config.Delay, cacheSvc),
		BaseURL:     config.BaseURL,
		MaxPages:    config.MaxPages,
		Selectors:   config.Selectors,
	}
}

// GetName returns the crawler name
func (c *CatalogCrawler) GetName() string {
	return "CatalogCrawler"
}

// FetchListings collects all product links, then reads each product page.
// A product page that fails is logged and skipped.
func (c *CatalogCrawler) FetchListings(ctx context.Context) ([]barebone.RawListing, error) {
	log := logger.ForCrawler(c.GetName())

	links, err := c.collectLinks(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().Int("products", len(links)).Msg("Collected product links")

	var listings []barebone.RawListing
	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := c.fetchProduct(ctx, link)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeRateLimit) {
				return nil, err
			}
			log.Warn().Err(err).Str("url", link.URL).Msg("Skipping product page")
			continue
		}
		log.Debug().
			Int("index", i+1).
			Int("total", len(links)).
			Int("rows", len(rows)).
			Str("url", link.URL).
			Msg("Read product page")
		listings = append(listings, rows...)
	}
	return listings, nil
}

// pageURL returns the category URL of a 1-based page number
func (c *CatalogCrawler) pageURL(page int) string {
	if page == 1 {
		return c.URL
	}
	return fmt.Sprintf("%s/page/%d/", strings.TrimRight(c.URL, "/"), page)
}

// collectLinks follows the category pagination. Only a failure on the first
// page is an error; a later failure ends the walk with what was found.
func (c *CatalogCrawler) collectLinks(ctx context.Context) ([]productLink, error) {
	var links []productLink
	seen := make(map[string]bool)

	for page := 1; c.MaxPages <= 0 || page <= c.MaxPages; page++ {
		doc, err := c.fetchDocument(ctx, c.pageURL(page))
		if err != nil {
			if page == 1 {
				return nil, err
			}
			logger.ForCrawler(c.GetName()).Warn().Err(err).Int("page", page).Msg("Stopping at category page")
			break
		}

		doc.Find(c.Selectors.ProductLink).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok || !strings.Contains(href, c.Selectors.LinkContains) {
				return
			}
			full := helpers.ResolveURL(c.BaseURL, href)
			if seen[full] {
				return
			}
			seen[full] = true
			links = append(links, productLink{URL: full, Page: page})
		})

		if doc.Find(c.Selectors.NextPage).Length() == 0 {
			break
		}
	}
	return links, nil
}

// fetchProduct reads the listing rows of one product page
func (c *CatalogCrawler) fetchProduct(ctx context.Context, link productLink) ([]barebone.RawListing, error) {
	doc, err := c.fetchDocument(ctx, link.URL)
	if err != nil {
		return nil, err
	}
	return c.parseProduct(doc, link), nil
}

var (
	asideText = regexp.MustCompile(`\([^)]*\)`)
	postIDRe  = regexp.MustCompile(`p=(\d+)`)
)

// parseProduct reads the rows of the price table after its header row
func (c *CatalogCrawler) parseProduct(doc *goquery.Document, link productLink) []barebone.RawListing {
	table := doc.Find(c.Selectors.Table).First()
	if table.Length() == 0 {
		logger.ForCrawler(c.GetName()).Debug().Str("url", link.URL).Msg("No price table")
		return nil
	}

	title := strings.TrimSpace(doc.Find(c.Selectors.PostTitle).First().Text())
	postID := ""
	if href, ok := doc.Find(c.Selectors.Shortlink).First().Attr("href"); ok {
		if m := postIDRe.FindStringSubmatch(href); m != nil {
			postID = m[1]
		}
	}

	var listings []barebone.RawListing
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		name := strings.TrimSpace(asideText.ReplaceAllString(strings.TrimSpace(cells.Eq(0).Text()), ""))
		if !keywordLine.MatchString(name) {
			return
		}

		priceCell := cells.Eq(1)
		priceText := priceCell.Text()
		if strong := priceCell.Find("strong"); strong.Length() > 0 {
			priceText = strong.First().Text()
		}
		_, hidden := row.Attr("hidden")

		listings = append(listings, barebone.RawListing{
			Text:      name,
			RawPrice:  strings.TrimSpace(priceText),
			Source:    c.Provider,
			Link:      link.URL,
			Page:      link.Page,
			PostTitle: title,
			PostID:    postID,
			Hidden:    hidden,
		})
	})
	return listings
}
