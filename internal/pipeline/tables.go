// Package pipeline builds the result tables the collection pipelines write
// to spreadsheets and CSV backups.
package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/askmetwice/amt/internal/models"
	"github.com/askmetwice/amt/internal/table"
)

// HeadlineTable renders fetched news items.
func HeadlineTable(items []models.Item) *table.Table {
	tbl := table.New("source", "title", "news-outlet", "url")
	for _, item := range items {
		_ = tbl.Append(item.Source, item.Title, item.Outlet, item.URL)
	}
	return tbl
}

// NewsResultTable renders the answered news questions. The location column
// holds local response paths.
func NewsResultTable(rows []models.ResultRow) *table.Table {
	tbl := table.New("source", "title", "news-outlet", "url", "question", "ai client", "response path")
	for _, row := range rows {
		_ = tbl.Append(row.Item.Source, row.Item.Title, row.Item.Outlet, row.Item.URL,
			row.Question, row.Client, row.Location)
	}
	return tbl
}

// ClaimTable renders fetched fact-check claims.
func ClaimTable(items []models.Item) *table.Table {
	tbl := table.New("source", "claim", "lang", "date published", "appearance url", "context url")
	for _, item := range items {
		_ = tbl.Append(item.Source, item.Title, item.Lang, item.Published,
			item.AppearanceURL, item.ContextURL)
	}
	return tbl
}

// ClaimResultTable renders the answered claim questions. The location
// column holds Drive URLs.
func ClaimResultTable(rows []models.ResultRow) *table.Table {
	tbl := table.New("source", "claim", "lang", "date published", "appearance url", "context url",
		"question", "ai client", "response url")
	for _, row := range rows {
		_ = tbl.Append(row.Item.Source, row.Item.Title, row.Item.Lang, row.Item.Published,
			row.Item.AppearanceURL, row.Item.ContextURL,
			row.Question, row.Client, row.Location)
	}
	return tbl
}

// LongTermResultTable renders answered standing questions.
func LongTermResultTable(rows []models.ResultRow) *table.Table {
	tbl := table.New("question", "ai client", "response path")
	for _, row := range rows {
		_ = tbl.Append(row.Question, row.Client, row.Location)
	}
	return tbl
}

// TopTopicsTable renders the top-topics responses with their citations.
func TopTopicsTable(responses []*models.ChatResponse) *table.Table {
	tbl := table.New("client", "prompt", "response", "citations")
	for _, resp := range responses {
		message := MessageText(resp)
		citations := strings.Join(resp.Citations, ", ")
		_ = tbl.Append(resp.Model, resp.Prompt, message, citations)
	}
	return tbl
}

// MessageText pulls the assistant message out of a response envelope,
// trying the chat-completions shape first and the Gemini shape second.
// Falls back to the raw payload when neither matches.
func MessageText(resp *models.ChatResponse) string {
	var chat struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Response, &chat); err == nil && len(chat.Choices) > 0 {
		return chat.Choices[0].Message.Content
	}

	var gemini struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(resp.Response, &gemini); err == nil && len(gemini.Candidates) > 0 {
		var parts []string
		for _, part := range gemini.Candidates[0].Content.Parts {
			if part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n")
		}
	}

	return string(resp.Response)
}
