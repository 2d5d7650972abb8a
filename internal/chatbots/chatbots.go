// Package chatbots wraps the third-party AI chat APIs behind a common
// client interface. Every call is normalized into a ChatResponse envelope
// carrying the raw vendor payload.
package chatbots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/models"
)

// Client is a chat completion service invoked over HTTP.
type Client interface {
	// Name is the registry key ("openai", "perplexity", "gemini").
	Name() string
	// Ask sends the prompt and returns the normalized response envelope.
	Ask(ctx context.Context, prompt string) (*models.ChatResponse, error)
}

// timestampFormat matches the envelope timestamps in existing datasets.
const timestampFormat = "2006-01-02 15:04:05"

// envelope builds the ChatResponse wrapper around a raw vendor payload.
func envelope(model, prompt string, raw json.RawMessage, citations []string) *models.ChatResponse {
	return &models.ChatResponse{
		Timestamp: time.Now().Format(timestampFormat),
		Model:     model,
		Prompt:    prompt,
		Response:  raw,
		Citations: citations,
	}
}

// Registry builds the clients for the chatbot names enabled in cfg.
func Registry(cfg *config.Config) (map[string]Client, error) {
	clients := make(map[string]Client, len(cfg.Chatbots))
	for _, name := range cfg.Chatbots {
		switch name {
		case "openai":
			if cfg.OpenAIAPIKey == "" {
				return nil, fmt.Errorf("chatbot %q enabled but OPENAI_API_KEY is not set", name)
			}
			clients[name] = NewOpenAI(cfg.OpenAIAPIKey, "")
		case "perplexity":
			if cfg.PerplexityAPIKey == "" {
				return nil, fmt.Errorf("chatbot %q enabled but PERPLEXITY_API_KEY is not set", name)
			}
			clients[name] = NewPerplexity(cfg.PerplexityAPIKey, "")
		case "gemini":
			if cfg.GeminiAPIKey == "" {
				return nil, fmt.Errorf("chatbot %q enabled but GEMINI_API_KEY is not set", name)
			}
			clients[name] = NewGemini(cfg.GeminiAPIKey, "")
		default:
			return nil, fmt.Errorf("invalid chatbot %q", name)
		}
	}
	return clients, nil
}
