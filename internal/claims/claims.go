// Package claims loads recently reviewed claims from the Open Claims
// Project ArangoDB instance and filters them by language.
package claims

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	driver "github.com/arangodb/go-driver"
	arangohttp "github.com/arangodb/go-driver/http"
	"golang.org/x/text/language"

	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/models"
)

// claimQuery keeps only documents that actually carry a reviewed claim and
// a publish date inside the cutoff window.
const claimQuery = `
FOR doc IN @@collection
  FILTER HAS(doc, "raw")
    AND HAS(doc.raw, "datePublished")
    AND HAS(doc.raw, "claimReviewed")
    AND doc.raw.datePublished >= @cutoff_date
  RETURN doc
`

// claimDoc mirrors the relevant parts of an Open Claims document.
type claimDoc struct {
	SDPublisher   string `json:"sd_publisher"`
	AppearanceURL string `json:"appearance_url"`
	ContextURL    string `json:"context_url"`
	Raw           struct {
		DatePublished string `json:"datePublished"`
		ClaimReviewed string `json:"claimReviewed"`
	} `json:"raw"`
}

// Loader queries the claims collection.
type Loader struct {
	db         driver.Database
	collection string
}

// NewLoader connects to ArangoDB and opens the configured database.
func NewLoader(ctx context.Context, cfg config.ClaimsConfig, username, password string) (*Loader, error) {
	conn, err := arangohttp.NewConnection(arangohttp.ConnectionConfig{
		Endpoints: []string{cfg.Host},
	})
	if err != nil {
		return nil, fmt.Errorf("arango connection: %w", err)
	}

	client, err := driver.NewClient(driver.ClientConfig{
		Connection:     conn,
		Authentication: driver.BasicAuthentication(username, password),
	})
	if err != nil {
		return nil, fmt.Errorf("arango client: %w", err)
	}

	db, err := client.Database(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", cfg.Database, err)
	}

	return &Loader{db: db, collection: cfg.Collection}, nil
}

// Load returns claims published within the last daysAgo days, filtered to
// the requested language and truncated to limit (0 keeps everything).
func (l *Loader) Load(ctx context.Context, lang string, daysAgo, limit int) ([]models.Item, error) {
	cutoff := time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")

	cursor, err := l.db.Query(ctx, claimQuery, map[string]interface{}{
		"@collection": l.collection,
		"cutoff_date": cutoff,
	})
	if err != nil {
		return nil, fmt.Errorf("claim query: %w", err)
	}
	defer cursor.Close()

	var items []models.Item
	for {
		var doc claimDoc
		if _, err := cursor.ReadDocument(ctx, &doc); driver.IsNoMoreDocuments(err) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read claim document: %w", err)
		}

		items = append(items, models.Item{
			Source:        doc.SDPublisher,
			Title:         strings.TrimSpace(doc.Raw.ClaimReviewed),
			Lang:          lang,
			Published:     doc.Raw.DatePublished,
			AppearanceURL: doc.AppearanceURL,
			ContextURL:    doc.ContextURL,
		})
	}

	return FilterByLanguage(items, lang, limit), nil
}

// FilterByLanguage keeps items whose claim text is detected as the given
// language, truncating the result to limit when limit is positive.
func FilterByLanguage(items []models.Item, lang string, limit int) []models.Item {
	want := canonicalLang(lang)

	var filtered []models.Item
	for _, item := range items {
		if limit > 0 && len(filtered) >= limit {
			break
		}
		info := whatlanggo.Detect(item.Title)
		if info.Lang.Iso6391() == want {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// canonicalLang reduces a language code or tag to its two-letter base
// ("en-US" -> "en"). Unparseable input is passed through lowercased.
func canonicalLang(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	base, _ := tag.Base()
	return base.String()
}
