// Package config loads pipeline configuration from a YAML file plus
// environment variables (optionally via a .env file) for secrets.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Configuration validation errors.
var (
	ErrNoChatbots        = errors.New("at least one chatbot is required")
	ErrUnknownChatbot    = errors.New("unknown chatbot name")
	ErrMissingOutFolder  = errors.New("out_folder is required")
	ErrInvalidWorkers    = errors.New("max_workers must be at least 1")
	ErrInvalidClaimDays  = errors.New("claims.days_ago must be at least 1")
	ErrMissingArangoHost = errors.New("claims.host is required for the fact-check pipeline")
)

// KnownChatbots lists the chatbot names the client registry can serve.
var KnownChatbots = []string{"openai", "perplexity", "gemini"}

// Config holds all pipeline configuration.
type Config struct {
	// Output
	OutFolder string `yaml:"out_folder"`

	// Fan-out
	Chatbots   []string `yaml:"chatbots"`
	MaxWorkers int      `yaml:"max_workers"`
	// Minimum spacing between requests to the same chatbot, in seconds.
	BotIntervalSeconds float64 `yaml:"bot_interval_seconds"`

	// Google News
	News NewsConfig `yaml:"news"`

	// Fact-check claims (ArangoDB)
	Claims ClaimsConfig `yaml:"claims"`

	// Google Sheets / Drive
	Sheets SheetsConfig `yaml:"sheets"`

	// Long-term questions
	QuestionsPath string `yaml:"questions_path"`

	// Scheduler daemon
	Daemon DaemonConfig `yaml:"daemon"`

	// Chat UI scraper (share links); disabled unless selectors are set
	Scraper ScraperConfig `yaml:"scraper"`

	// Logging
	LogPath  string `yaml:"log_path"`
	LogLevel string `yaml:"log_level"`

	// Secrets, environment only
	OpenAIAPIKey     string `yaml:"-"`
	PerplexityAPIKey string `yaml:"-"`
	GeminiAPIKey     string `yaml:"-"`
	ArchiveAccessKey string `yaml:"-"`
	ArchiveSecretKey string `yaml:"-"`
	ArangoUsername   string `yaml:"-"`
	ArangoPassword   string `yaml:"-"`
	UseAIQuestions   bool   `yaml:"use_ai_questions"`
	UserAgent        string `yaml:"user_agent"`
}

// NewsConfig controls the Google News fetch.
type NewsConfig struct {
	HostLang       string `yaml:"host_lang"`
	GeoLoc         string `yaml:"geo_loc"`
	ClientEdition  string `yaml:"client_edition"`
	MaxArticles    int    `yaml:"max_articles"`
	SeparateTitles bool   `yaml:"separate_titles"`
}

// ClaimsConfig controls the ArangoDB claim fetch.
type ClaimsConfig struct {
	Host       string `yaml:"host"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	Lang       string `yaml:"lang"`
	DaysAgo    int    `yaml:"days_ago"`
	MaxClaims  int    `yaml:"max_claims"`
}

// SheetsConfig holds Google Sheets and Drive identifiers.
type SheetsConfig struct {
	CredentialsPath string `yaml:"credentials_path"`
	TokenPath       string `yaml:"token_path"`
	DataFolderID    string `yaml:"data_folder_id"`
	MasterSheetID   string `yaml:"master_sheet_id"`
	JSONFolderID    string `yaml:"json_folder_id"`
}

// Enabled reports whether spreadsheet persistence is configured.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.MasterSheetID != ""
}

// DaemonConfig controls the amtd scheduler.
type DaemonConfig struct {
	NewsCron      string `yaml:"news_cron"`
	FactCheckCron string `yaml:"factcheck_cron"`
	StatusPort    int    `yaml:"status_port"`
}

// ScraperConfig holds the chat UI automation settings. Selectors are
// deployment config because host UIs change without notice.
type ScraperConfig struct {
	ChatURL        string `yaml:"chat_url"`
	PromptSelector string `yaml:"prompt_selector"`
	ShareSelector  string `yaml:"share_selector"`
	CreateSelector string `yaml:"create_selector"`
	LinkSelector   string `yaml:"link_selector"`
	WaitSeconds    int    `yaml:"wait_seconds"`
	MaxTries       int    `yaml:"max_tries"`
	UserDataDir    string `yaml:"user_data_dir"`
	Headless       bool   `yaml:"headless"`
}

// Enabled reports whether the scraper has enough selectors to run.
func (s ScraperConfig) Enabled() bool {
	return s.ChatURL != "" && s.PromptSelector != "" && s.LinkSelector != ""
}

// Load reads the YAML config at path, applies defaults, overlays secrets
// from the environment, and validates. A missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.loadSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		OutFolder:          "outputs",
		Chatbots:           []string{"openai", "perplexity", "gemini"},
		MaxWorkers:         10,
		BotIntervalSeconds: 1.0,
		News: NewsConfig{
			HostLang:       "en-US",
			GeoLoc:         "US",
			ClientEdition:  "US:en",
			MaxArticles:    35,
			SeparateTitles: true,
		},
		Claims: ClaimsConfig{
			Lang:    "en",
			DaysAgo: 7,
		},
		Daemon: DaemonConfig{
			NewsCron:      "0 8 * * *",
			FactCheckCron: "30 8 * * *",
			StatusPort:    8081,
		},
		Scraper: ScraperConfig{
			WaitSeconds: 20,
			MaxTries:    3,
			Headless:    true,
		},
		QuestionsPath:  "questions/longterm.txt",
		LogPath:        "data/logs/amt.log",
		LogLevel:       "info",
		UseAIQuestions: true,
		UserAgent:      "askmetwice/1.0",
	}
}

func (c *Config) loadSecrets() {
	c.OpenAIAPIKey = GetEnvString("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.PerplexityAPIKey = GetEnvString("PERPLEXITY_API_KEY", c.PerplexityAPIKey)
	c.GeminiAPIKey = GetEnvString("GEMINI_API_KEY", c.GeminiAPIKey)
	c.ArchiveAccessKey = GetEnvString("ARCHIVE_ACCESS_KEY", c.ArchiveAccessKey)
	c.ArchiveSecretKey = GetEnvString("ARCHIVE_SECRET_KEY", c.ArchiveSecretKey)
	c.ArangoUsername = GetEnvString("ARANGO_USERNAME", c.ArangoUsername)
	c.ArangoPassword = GetEnvString("ARANGO_PASSWORD", c.ArangoPassword)
}

// Validate checks invariants shared by all pipelines. Pipeline-specific
// requirements (Arango host, sheets IDs) are checked by their binaries.
func (c *Config) Validate() error {
	if c.OutFolder == "" {
		return ErrMissingOutFolder
	}
	if len(c.Chatbots) == 0 {
		return ErrNoChatbots
	}
	for _, name := range c.Chatbots {
		if !isKnownChatbot(name) {
			return fmt.Errorf("%w: %q", ErrUnknownChatbot, name)
		}
	}
	if c.MaxWorkers < 1 {
		return ErrInvalidWorkers
	}
	if c.Claims.DaysAgo < 1 {
		return ErrInvalidClaimDays
	}
	return nil
}

func isKnownChatbot(name string) bool {
	for _, known := range KnownChatbots {
		if name == known {
			return true
		}
	}
	return false
}

// GetEnvString gets a string from environment variables with a default value.
func GetEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvInt gets an integer from environment variables with a default value.
func GetEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvBool gets a boolean from environment variables with a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetEnvStringSlice gets a comma-separated string slice from environment
// variables with a default value.
func GetEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		if value == "" {
			return defaultValue
		}
		return strings.Split(value, ",")
	}
	return defaultValue
}
