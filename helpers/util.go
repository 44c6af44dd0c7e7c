package helpers

import (
	"net/url"
	"strings"
)

// TextFragmentLink returns link with a "#:~:text=" fragment so browsers
// scroll to text on the page. An empty link stays empty.
func TextFragmentLink(link, text string) string {
	if link == "" || text == "" {
		return link
	}
	return link + "#:~:text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// ResolveURL resolves href against base; href is returned as is when either is unparseable
func ResolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}
