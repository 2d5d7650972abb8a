package chatbots

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/askmetwice/amt/internal/models"
)

const (
	defaultPerplexityModel = "sonar-pro"
	perplexityBaseURL      = "https://api.perplexity.ai"
)

// Perplexity asks questions of the Perplexity API. The API is
// OpenAI-compatible, but we keep the raw payload so the citations list
// it adds survives into the saved response.
type Perplexity struct {
	client *resty.Client
	model  string
}

// NewPerplexity creates a Perplexity client. An empty model selects the default.
func NewPerplexity(apiKey, model string) *Perplexity {
	if model == "" {
		model = defaultPerplexityModel
	}
	client := resty.New().
		SetBaseURL(perplexityBaseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &Perplexity{client: client, model: model}
}

// SetBaseURL points the client at a different endpoint. Tests only.
func (p *Perplexity) SetBaseURL(url string) {
	p.client.SetBaseURL(url)
}

// Name implements Client.
func (p *Perplexity) Name() string { return "perplexity" }

// Ask implements Client.
func (p *Perplexity) Ask(ctx context.Context, prompt string) (*models.ChatResponse, error) {
	body := map[string]interface{}{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("perplexity: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("perplexity: status %d: %s", resp.StatusCode(), resp.String())
	}

	raw := json.RawMessage(resp.Body())
	return envelope("Perplexity "+p.model, prompt, raw, extractCitations(raw)), nil
}

// extractCitations pulls the top-level citations list out of a Perplexity
// payload. Missing or malformed citations are not an error.
func extractCitations(raw json.RawMessage) []string {
	var payload struct {
		Citations []string `json:"citations"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	return payload.Citations
}
