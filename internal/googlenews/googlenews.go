// Package googlenews fetches the Google News "Top Stories" RSS feed and
// normalizes its entries into items.
package googlenews

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/askmetwice/amt/internal/models"
)

const baseFeedURL = "https://news.google.com/rss"

// oneHyphenExceptions lists outlet names that themselves contain a
// " - " separator, so the naive last-segment split would truncate them.
var oneHyphenExceptions = []string{
	"ABC News - Breaking News, Latest News and Videos",
}

// Fetcher retrieves Google News top stories.
type Fetcher struct {
	parser  *gofeed.Parser
	baseURL string
}

// NewFetcher builds a Fetcher with the given User-Agent.
func NewFetcher(userAgent string) *Fetcher {
	parser := gofeed.NewParser()
	if userAgent != "" {
		parser.UserAgent = userAgent
	}
	return &Fetcher{parser: parser, baseURL: baseFeedURL}
}

// FeedURL builds the request URL for an interface language, source country
// and news edition (e.g. "en-US", "US", "US:en").
func FeedURL(hostLang, geoLoc, clientEdition string) string {
	return feedURL(baseFeedURL, hostLang, geoLoc, clientEdition)
}

func feedURL(base, hostLang, geoLoc, clientEdition string) string {
	return fmt.Sprintf("%s?hl=%s&gl=%s&ceid=%s", base, hostLang, geoLoc, clientEdition)
}

// Fetch retrieves the top stories for the given edition. When separateTitles
// is set, "{title} - {outlet}" headlines are split into title and outlet.
// A limit of 0 keeps every entry.
func (f *Fetcher) Fetch(ctx context.Context, hostLang, geoLoc, clientEdition string, separateTitles bool, limit int) ([]models.Item, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL(f.baseURL, hostLang, geoLoc, clientEdition), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch google news feed: %w", err)
	}

	items := make([]models.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if limit > 0 && len(items) >= limit {
			break
		}

		item := models.Item{
			Source: "Google News",
			Title:  entry.Title,
			URL:    entry.Link,
		}
		if entry.PublishedParsed != nil {
			item.Published = entry.PublishedParsed.Format("2006-01-02")
		}
		if separateTitles {
			item.Title, item.Outlet = SplitTitle(entry.Title)
		}
		item.Related = RelatedLinks(entry.Description)

		items = append(items, item)
	}
	return items, nil
}

// SplitTitle splits a Google News headline "{title} - {outlet}" into its
// title and outlet parts. Headlines without a separator come back unchanged
// with an empty outlet.
func SplitTitle(headline string) (title, outlet string) {
	parts := strings.Split(headline, " - ")
	switch {
	case len(parts) == 2:
		return parts[0], parts[1]
	case len(parts) > 2:
		lastTwo := strings.Join(parts[len(parts)-2:], " - ")
		for _, exception := range oneHyphenExceptions {
			if lastTwo == exception {
				return strings.Join(parts[:len(parts)-2], " - "), lastTwo
			}
		}
		return strings.Join(parts[:len(parts)-1], " - "), parts[len(parts)-1]
	default:
		return headline, ""
	}
}

// RelatedLinks extracts the related-coverage URLs from the HTML payload
// Google News puts in an entry description. Unparseable HTML yields nil.
func RelatedLinks(description string) []string {
	if description == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href != "" {
			links = append(links, href)
		}
	})
	return links
}
