package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/askmetwice/amt/internal/chatbots"
	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/models"
	"github.com/askmetwice/amt/internal/storage"
)

// RegionPhrases maps region codes to the phrase spliced into the
// top-topics prompt.
var RegionPhrases = map[string]string{
	"us": " from the US",
	"fr": " from France",
	"in": " from India",
}

// Regions returns the supported region codes, sorted.
func Regions() []string {
	codes := make([]string, 0, len(RegionPhrases))
	for code := range RegionPhrases {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TopTopicsPrompt builds the prompt for a region and topic count. A zero
// count omits the number, an empty region omits the phrase.
func TopTopicsPrompt(region string, n int) (string, error) {
	phrase := ""
	if region != "" {
		p, ok := RegionPhrases[region]
		if !ok {
			return "", fmt.Errorf("unknown region %q (supported: %v)", region, Regions())
		}
		phrase = p
	}
	count := ""
	if n > 0 {
		count = " " + strconv.Itoa(n)
	}
	return fmt.Sprintf("What are the top%s news topics%s today?", count, phrase), nil
}

// RunTopTopics asks every configured chatbot for today's top news topics
// and writes one CSV row per client with the extracted message text and
// citations.
func RunTopTopics(ctx context.Context, cfg *config.Config, region string, n int) (*storage.Manifest, error) {
	log := logger.L()
	now := time.Now()
	timestamp := now.Format("2006-01-02")

	prompt, err := TopTopicsPrompt(region, n)
	if err != nil {
		return nil, err
	}

	saver, err := storage.NewSaver(cfg.OutFolder, "TopTopics", now)
	if err != nil {
		return nil, err
	}
	manifest := storage.NewManifest("toptopics", saver.Dir())
	manifest.SetQuestions(len(cfg.Chatbots))

	clients, err := chatbots.Registry(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("asking for top topics: %q", prompt)
	var responses []*models.ChatResponse
	for _, name := range cfg.Chatbots {
		client := clients[name]
		resp, err := client.Ask(ctx, prompt)
		if err != nil {
			log.Error("%s: %v", name, err)
			manifest.AddError(name)
			responses = append(responses, errorResponse(name, prompt))
			continue
		}
		if _, err := saver.Save(resp); err != nil {
			log.Error("save %s response: %v", name, err)
		}
		manifest.AddResponse()
		responses = append(responses, resp)
	}

	results := TopTopicsTable(responses)
	if err := results.WriteCSV(filepath.Join(saver.Dir(), timestamp+"-toptopics.csv")); err != nil {
		log.Error("write toptopics csv: %v", err)
	}

	if err := manifest.Write(); err != nil {
		log.Error("write manifest: %v", err)
	}
	log.Info("top-topics workflow finished (%d responses, %d errors)",
		manifest.Snapshot().Responses, manifest.Snapshot().Errors)
	return manifest, nil
}

// errorResponse stands in for a client that failed so the CSV still has a
// row per chatbot.
func errorResponse(name, prompt string) *models.ChatResponse {
	raw, _ := json.Marshal(models.ErrLocation)
	return &models.ChatResponse{
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Model:     models.ErrClient(name),
		Prompt:    prompt,
		Response:  raw,
	}
}
