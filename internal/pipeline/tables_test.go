package pipeline

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/askmetwice/amt/internal/models"
)

func TestNewsResultTable(t *testing.T) {
	rows := []models.ResultRow{
		{
			Item: models.Item{
				Source: "Google News",
				Title:  "Markets rally",
				Outlet: "Reuters",
				URL:    "https://example.com/a",
			},
			Question: "Tell me about this headline: Markets rally",
			Client:   "OpenAI gpt-4o",
			Location: "outputs/2025-07-30/AMT-News-2025-07-30-00000.json",
		},
		{
			Item:     models.Item{Source: "Google News", Title: "Storm heads east"},
			Question: "Tell me about this headline: Storm heads east",
			Client:   models.ErrClient("gemini"),
			Location: models.ErrLocation,
		},
	}

	tbl := NewsResultTable(rows)
	if tbl.Len() != 2 {
		t.Fatalf("table has %d rows, want 2", tbl.Len())
	}

	wantHeaders := []string{"source", "title", "news-outlet", "url", "question", "ai client", "response path"}
	if !reflect.DeepEqual(tbl.Headers(), wantHeaders) {
		t.Errorf("headers = %v", tbl.Headers())
	}

	errorRow := tbl.Row(1)
	if errorRow[5] != "ERROR w/ gemini" || errorRow[6] != "an error occurred" {
		t.Errorf("error sentinels not preserved: %v", errorRow)
	}
}

func TestClaimResultTable(t *testing.T) {
	rows := []models.ResultRow{
		{
			Item: models.Item{
				Source:        "factcheck.example",
				Title:         "The sky is green.",
				Lang:          "en",
				Published:     "2025-07-28",
				AppearanceURL: "https://example.com/appearance",
				ContextURL:    "https://example.com/context",
			},
			Question: "Is this statement true: The sky is green.",
			Client:   "Perplexity sonar-pro",
			Location: "https://drive.google.com/file/d/abc/view",
		},
	}

	tbl := ClaimResultTable(rows)
	row := tbl.Row(0)
	if row[1] != "The sky is green." || row[8] != "https://drive.google.com/file/d/abc/view" {
		t.Errorf("row = %v", row)
	}
}

func TestMessageText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "chat completions shape",
			raw:  `{"choices": [{"message": {"content": "The top topics are..."}}]}`,
			want: "The top topics are...",
		},
		{
			name: "gemini shape",
			raw:  `{"candidates": [{"content": {"parts": [{"text": "Part one."}, {"text": "Part two."}]}}]}`,
			want: "Part one.\nPart two.",
		},
		{
			name: "unknown shape falls back to raw",
			raw:  `{"data": 1}`,
			want: `{"data": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &models.ChatResponse{Response: json.RawMessage(tt.raw)}
			if got := MessageText(resp); got != tt.want {
				t.Errorf("MessageText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLongTermResultTable(t *testing.T) {
	rows := []models.ResultRow{
		{Question: "Who is the UN secretary general?", Client: "OpenAI gpt-4o", Location: "outputs/x.json"},
	}
	tbl := LongTermResultTable(rows)
	if !reflect.DeepEqual(tbl.Row(0), []string{"Who is the UN secretary general?", "OpenAI gpt-4o", "outputs/x.json"}) {
		t.Errorf("row = %v", tbl.Row(0))
	}
}
