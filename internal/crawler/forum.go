package crawler

import (
	"context"
	"regexp"
	"strings"

	"github.com/dealmungchi/barebonecrawler/internal/barebone"
	"github.com/dealmungchi/barebonecrawler/logger"
	"github.com/dealmungchi/barebonecrawler/services/cache"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ForumCrawler reads listing lines out of the posts of a forum thread
type ForumCrawler struct {
	BaseCrawler
	Selectors ForumSelectors
}

// NewForumCrawler creates a new forum crawler
func NewForumCrawler(config ForumConfig, cacheSvc cache.CacheService) *ForumCrawler {
	return &ForumCrawler{
		BaseCrawler: newBaseCrawler(config.URL, config.CacheKey, config.Provider, config.BlockTime, config.Delay, cacheSvc),
		Selectors:   config.Selectors,
	}
}

// GetName returns the crawler name
func (c *ForumCrawler) GetName() string {
	return "ForumCrawler"
}

// FetchListings fetches the thread and returns every line mentioning "barebone"
func (c *ForumCrawler) FetchListings(ctx context.Context) ([]barebone.RawListing, error) {
	doc, err := c.fetchDocument(ctx, c.URL)
	if err != nil {
		return nil, err
	}

	listings := c.parseThread(doc)
	logger.ForCrawler(c.GetName()).Debug().
		Int("listings", len(listings)).
		Str("url", c.URL).
		Msg("Parsed forum thread")
	return listings, nil
}

var keywordLine = regexp.MustCompile(`(?i)barebone`)

// parseThread splits every post block into lines and keeps listing lines
func (c *ForumCrawler) parseThread(doc *goquery.Document) []barebone.RawListing {
	var listings []barebone.RawListing
	doc.Find(c.Selectors.Block).Each(func(_ int, s *goquery.Selection) {
		for _, line := range strings.Split(blockText(s), "\n") {
			if !keywordLine.MatchString(line) {
				continue
			}
			listings = append(listings, barebone.RawListing{
				Text:   strings.TrimRight(line, "\r"),
				Source: c.Provider,
				Link:   c.URL,
			})
		}
	})
	return listings
}

// blockText joins the text nodes of a selection with newlines, so "<br>"
// separated lines and inline tags each end up on their own line.
func blockText(s *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}
