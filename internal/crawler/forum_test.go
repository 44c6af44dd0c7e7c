package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dealmungchi/barebonecrawler/internal/barebone"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forumHTML = `<html><body>
<blockquote class="messageText">
- Barebone Dell Optiplex 3046/7040 Mt giá 2.3tr<br>
- Barebone HP 800 G2 SFF (nguồn 240w) giá 2,5<br>
Ship toàn quốc<br>
- BareboneLenovo M720q Tiny giá 3tr
</blockquote>
<blockquote>Barebone Precision T5820 2 tản + 2 Xeon giá 6tr</blockquote>
<div>Barebone outside a post giá 1tr</div>
</body></html>`

func newTestForumCrawler(url string) *ForumCrawler {
	return NewForumCrawler(ForumConfig{
		URL:       url,
		CacheKey:  "forum_test",
		BlockTime: 60,
		Provider:  barebone.SourceForum,
		Selectors: ForumSelectors{Block: "blockquote"},
	}, NewMockCacheService())
}

func TestForumCrawlerFetchListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(forumHTML))
	}))
	defer server.Close()

	crawler := newTestForumCrawler(server.URL)
	listings, err := crawler.FetchListings(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 4)

	assert.Equal(t, "- Barebone Dell Optiplex 3046/7040 Mt giá 2.3tr", listings[0].Text)
	assert.Equal(t, "- Barebone HP 800 G2 SFF (nguồn 240w) giá 2,5", listings[1].Text)
	assert.Equal(t, "- BareboneLenovo M720q Tiny giá 3tr", listings[2].Text)
	assert.Equal(t, "Barebone Precision T5820 2 tản + 2 Xeon giá 6tr", listings[3].Text)
	for _, l := range listings {
		assert.Equal(t, barebone.SourceForum, l.Source)
		assert.Equal(t, server.URL, l.Link)
	}
}

func TestForumCrawlerFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	listings, err := newTestForumCrawler(server.URL).FetchListings(context.Background())
	assert.Error(t, err)
	assert.Nil(t, listings)
}

func TestBlockTextSeparatesTextNodes(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<blockquote>Barebone <b>Dell</b> 3046<br>giá 2tr</blockquote>`))
	require.NoError(t, err)

	text := blockText(doc.Find("blockquote"))
	assert.Equal(t, "Barebone \nDell\n 3046\ngiá 2tr", text)
}
