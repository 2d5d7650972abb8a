package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "out_folder: outputs\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.MaxWorkers != 10 {
		t.Errorf("MaxWorkers = %d, want 10", cfg.MaxWorkers)
	}
	if cfg.News.HostLang != "en-US" {
		t.Errorf("News.HostLang = %q, want en-US", cfg.News.HostLang)
	}
	if len(cfg.Chatbots) != 3 {
		t.Errorf("Chatbots = %v, want all three defaults", cfg.Chatbots)
	}
	if !cfg.News.SeparateTitles {
		t.Error("News.SeparateTitles should default to true")
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
out_folder: /tmp/amt
chatbots: [openai]
max_workers: 3
claims:
  host: http://arango:8529
  days_ago: 14
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OutFolder != "/tmp/amt" {
		t.Errorf("OutFolder = %q", cfg.OutFolder)
	}
	if cfg.MaxWorkers != 3 {
		t.Errorf("MaxWorkers = %d, want 3", cfg.MaxWorkers)
	}
	if cfg.Claims.DaysAgo != 14 {
		t.Errorf("Claims.DaysAgo = %d, want 14", cfg.Claims.DaysAgo)
	}
}

func TestLoad_SecretsFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ARANGO_USERNAME", "reader")

	path := writeConfig(t, "out_folder: outputs\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q", cfg.OpenAIAPIKey)
	}
	if cfg.ArangoUsername != "reader" {
		t.Errorf("ArangoUsername = %q", cfg.ArangoUsername)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"no chatbots", func(c *Config) { c.Chatbots = nil }, ErrNoChatbots},
		{"unknown chatbot", func(c *Config) { c.Chatbots = []string{"claude"} }, ErrUnknownChatbot},
		{"no out folder", func(c *Config) { c.OutFolder = "" }, ErrMissingOutFolder},
		{"bad workers", func(c *Config) { c.MaxWorkers = 0 }, ErrInvalidWorkers},
		{"bad claim days", func(c *Config) { c.Claims.DaysAgo = 0 }, ErrInvalidClaimDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestScraperEnabled(t *testing.T) {
	s := ScraperConfig{}
	if s.Enabled() {
		t.Error("empty scraper config should be disabled")
	}
	s = ScraperConfig{ChatURL: "https://chat.example.com", PromptSelector: "#prompt", LinkSelector: "input[readonly]"}
	if !s.Enabled() {
		t.Error("configured scraper should be enabled")
	}
}
