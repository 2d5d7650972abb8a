// Package models defines the entities shared by the collection pipelines.
package models

import "encoding/json"

// Item is a headline, claim, or standalone question to be asked about.
type Item struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	Outlet    string `json:"news-outlet,omitempty"`
	URL       string `json:"url,omitempty"`
	Lang      string `json:"lang,omitempty"`
	Published string `json:"date published,omitempty"`

	// Claim-specific metadata from the fact-check database.
	AppearanceURL string `json:"appearance url,omitempty"`
	ContextURL    string `json:"context url,omitempty"`

	// Related-coverage links extracted from the feed entry, when present.
	Related []string `json:"related,omitempty"`
}

// ChatRequest pairs an item with a chatbot and the question to ask it.
type ChatRequest struct {
	Item     Item
	Chatbot  string
	Question string
}

// ChatResponse is the normalized envelope persisted for every chatbot call.
type ChatResponse struct {
	Timestamp string          `json:"timestamp"`
	Model     string          `json:"model"`
	Prompt    string          `json:"prompt"`
	Response  json.RawMessage `json:"response"`

	// Citations surfaced by clients that return them (Perplexity, Gemini).
	Citations []string `json:"citations,omitempty"`
}

// Sentinel values recorded in result rows when a chatbot call fails.
const (
	ErrLocation = "an error occurred"
)

// ErrClient formats the client sentinel for a failed chatbot.
func ErrClient(chatbot string) string {
	return "ERROR w/ " + chatbot
}

// ResultRow is one line of the output table: item metadata plus the question
// asked, the responding model, and where the raw response lives.
type ResultRow struct {
	Item     Item
	Question string
	Client   string
	// Location is a local file path or a Drive/share URL.
	Location string
}

// Failed reports whether this row records a chatbot failure.
func (r ResultRow) Failed() bool {
	return r.Location == ErrLocation
}
