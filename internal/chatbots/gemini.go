package chatbots

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/askmetwice/amt/internal/models"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
)

// Gemini asks questions of the Google Gemini API with the google_search
// grounding tool enabled, so answers about current news carry sources.
type Gemini struct {
	client *resty.Client
	model  string
}

// NewGemini creates a Gemini client. An empty model selects the default.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = defaultGeminiModel
	}
	client := resty.New().
		SetBaseURL(geminiBaseURL).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", apiKey)
	return &Gemini{client: client, model: model}
}

// SetBaseURL points the client at a different endpoint. Tests only.
func (g *Gemini) SetBaseURL(url string) {
	g.client.SetBaseURL(url)
}

// Name implements Client.
func (g *Gemini) Name() string { return "gemini" }

// Ask implements Client.
func (g *Gemini) Ask(ctx context.Context, prompt string) (*models.ChatResponse, error) {
	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"tools": []map[string]interface{}{
			{"google_search": map[string]interface{}{}},
		},
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/models/%s:generateContent", g.model))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gemini: status %d: %s", resp.StatusCode(), resp.String())
	}

	raw := json.RawMessage(resp.Body())
	return envelope("Google "+g.model, prompt, raw, groundingURLs(raw)), nil
}

// groundingURLs collects the web sources from the grounding metadata of a
// Gemini payload, when the search tool supplied any.
func groundingURLs(raw json.RawMessage) []string {
	var payload struct {
		Candidates []struct {
			GroundingMetadata struct {
				GroundingChunks []struct {
					Web struct {
						URI string `json:"uri"`
					} `json:"web"`
				} `json:"groundingChunks"`
			} `json:"groundingMetadata"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	var urls []string
	for _, candidate := range payload.Candidates {
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web.URI != "" {
				urls = append(urls, chunk.Web.URI)
			}
		}
	}
	return urls
}
