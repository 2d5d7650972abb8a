package googlenews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name       string
		headline   string
		wantTitle  string
		wantOutlet string
	}{
		{
			name:       "no hyphen",
			headline:   "Markets rally on rate cut hopes",
			wantTitle:  "Markets rally on rate cut hopes",
			wantOutlet: "",
		},
		{
			name:       "one hyphen",
			headline:   "Markets rally on rate cut hopes - Reuters",
			wantTitle:  "Markets rally on rate cut hopes",
			wantOutlet: "Reuters",
		},
		{
			name:       "hyphen inside title",
			headline:   "Senate passes bill 51 - 49 after long debate - The Washington Post",
			wantTitle:  "Senate passes bill 51 - 49 after long debate",
			wantOutlet: "The Washington Post",
		},
		{
			name:       "outlet on exception list",
			headline:   "Storm heads east - ABC News - Breaking News, Latest News and Videos",
			wantTitle:  "Storm heads east",
			wantOutlet: "ABC News - Breaking News, Latest News and Videos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, outlet := SplitTitle(tt.headline)
			if title != tt.wantTitle || outlet != tt.wantOutlet {
				t.Errorf("SplitTitle(%q) = (%q, %q), want (%q, %q)",
					tt.headline, title, outlet, tt.wantTitle, tt.wantOutlet)
			}
		})
	}
}

func TestRelatedLinks(t *testing.T) {
	description := `<ol><li><a href="https://example.com/a">Story A</a></li>` +
		`<li><a href="https://example.com/b">Story B</a></li></ol>`

	links := RelatedLinks(description)
	want := []string{"https://example.com/a", "https://example.com/b"}
	if !reflect.DeepEqual(links, want) {
		t.Errorf("RelatedLinks() = %v, want %v", links, want)
	}

	if got := RelatedLinks(""); got != nil {
		t.Errorf("RelatedLinks(\"\") = %v, want nil", got)
	}
}

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Top stories - Google News</title>
<item>
  <title>Markets rally on rate cut hopes - Reuters</title>
  <link>https://news.google.com/rss/articles/one</link>
  <pubDate>Wed, 30 Jul 2025 12:00:00 GMT</pubDate>
  <description>&lt;a href="https://example.com/related"&gt;More&lt;/a&gt;</description>
</item>
<item>
  <title>Storm heads east</title>
  <link>https://news.google.com/rss/articles/two</link>
  <pubDate>Wed, 30 Jul 2025 13:00:00 GMT</pubDate>
</item>
<item>
  <title>Third story - AP</title>
  <link>https://news.google.com/rss/articles/three</link>
</item>
</channel></rss>`

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer server.Close()

	fetcher := NewFetcher("test-agent")
	fetcher.baseURL = server.URL

	items, err := fetcher.Fetch(context.Background(), "en-US", "US", "US:en", true, 0)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Fetch returned %d items, want 3", len(items))
	}

	first := items[0]
	if first.Title != "Markets rally on rate cut hopes" || first.Outlet != "Reuters" {
		t.Errorf("first item = %+v", first)
	}
	if first.Published != "2025-07-30" {
		t.Errorf("first item Published = %q", first.Published)
	}
	if len(first.Related) != 1 || first.Related[0] != "https://example.com/related" {
		t.Errorf("first item Related = %v", first.Related)
	}
	if items[1].Outlet != "" {
		t.Errorf("second item should have no outlet, got %q", items[1].Outlet)
	}
}

func TestFetch_Limit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer server.Close()

	fetcher := NewFetcher("")
	fetcher.baseURL = server.URL

	items, err := fetcher.Fetch(context.Background(), "en-US", "US", "US:en", false, 2)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Fetch with limit 2 returned %d items", len(items))
	}
	if items[0].Title != "Markets rally on rate cut hopes - Reuters" {
		t.Errorf("separateTitles=false should keep the raw headline, got %q", items[0].Title)
	}
}

func TestFeedURL(t *testing.T) {
	url := FeedURL("en-US", "US", "US:en")
	for _, part := range []string{"hl=en-US", "gl=US", "ceid=US:en"} {
		if !strings.Contains(url, part) {
			t.Errorf("FeedURL missing %q: %s", part, url)
		}
	}
}
