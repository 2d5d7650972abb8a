package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/askmetwice/amt/internal/askpool"
	"github.com/askmetwice/amt/internal/chatbots"
	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/models"
	"github.com/askmetwice/amt/internal/storage"
)

// RunLongTerm asks a fixed question list (one question per line in the
// configured questions file) across the chatbots and writes the responses
// plus a CSV summary into a dated output folder.
func RunLongTerm(ctx context.Context, cfg *config.Config, questionsPath string) (*storage.Manifest, error) {
	log := logger.L()
	now := time.Now()
	timestamp := now.Format("2006-01-02")

	list, err := ReadQuestionFile(questionsPath)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no questions found in %s", questionsPath)
	}

	saver, err := storage.NewSaver(cfg.OutFolder, "LongTerm", now)
	if err != nil {
		return nil, err
	}
	manifest := storage.NewManifest("longterm", saver.Dir())
	manifest.SetItems(len(list))

	clients, err := chatbots.Registry(cfg)
	if err != nil {
		return nil, err
	}

	var requests []askpool.Request
	for _, question := range list {
		requests = append(requests, askpool.Request{Item: models.Item{Source: "longterm"}, Question: question})
	}
	manifest.SetQuestions(len(requests))

	log.Info("asking %d long-term questions (clients: %v)", len(list), cfg.Chatbots)
	pool := askpool.New(cfg.Chatbots, clients, saver, cfg.MaxWorkers, botInterval(cfg), nil)
	rows := pool.Run(ctx, requests)
	countResults(manifest, rows)

	results := LongTermResultTable(rows)
	if err := results.WriteCSV(filepath.Join(saver.Dir(), timestamp+"-longterm.csv")); err != nil {
		log.Error("write longterm csv: %v", err)
	}

	if err := manifest.Write(); err != nil {
		log.Error("write manifest: %v", err)
	}
	log.Info("long-term workflow finished (%d responses, %d errors)",
		manifest.Snapshot().Responses, manifest.Snapshot().Errors)
	return manifest, nil
}

// ReadQuestionFile reads a plain-text question list, skipping blank lines
// and lines starting with '#'.
func ReadQuestionFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var list []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list = append(list, line)
	}
	return list, scanner.Err()
}
