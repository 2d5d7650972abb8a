package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/askmetwice/amt/internal/askpool"
	"github.com/askmetwice/amt/internal/chatbots"
	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/googlenews"
	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/models"
	"github.com/askmetwice/amt/internal/questions"
	"github.com/askmetwice/amt/internal/sheets"
	"github.com/askmetwice/amt/internal/storage"
	"github.com/askmetwice/amt/internal/table"
)

// RunNews executes the news-questions pipeline: fetch top stories, generate
// questions per headline, fan the questions out to the chatbots, and
// persist responses, spreadsheet tabs and CSV backups.
func RunNews(ctx context.Context, cfg *config.Config) (*storage.Manifest, error) {
	log := logger.L()
	now := time.Now()
	timestamp := now.Format("2006-01-02")

	saver, err := storage.NewSaver(cfg.OutFolder, "News", now)
	if err != nil {
		return nil, err
	}
	manifest := storage.NewManifest("news", saver.Dir())

	clients, err := chatbots.Registry(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("fetching today's articles from Google News")
	fetcher := googlenews.NewFetcher(cfg.UserAgent)
	items, err := fetcher.Fetch(ctx, cfg.News.HostLang, cfg.News.GeoLoc, cfg.News.ClientEdition,
		cfg.News.SeparateTitles, cfg.News.MaxArticles)
	if err != nil {
		return nil, err
	}
	log.Info("successfully fetched %d articles", len(items))
	manifest.SetItems(len(items))

	// child spreadsheet, when sheets persistence is configured
	var sheetService *sheets.Service
	var childSheetID string
	if cfg.Sheets.Enabled() {
		sheetService, childSheetID, err = createChildSheet(ctx, cfg, "AMT News "+timestamp, "news", "headlines")
		if err != nil {
			// spreadsheet trouble should not sink the collection run
			log.Error("spreadsheet setup failed: %v", err)
			sheetService = nil
		} else {
			manifest.SetSheetURL(sheets.SpreadsheetURL(childSheetID))
		}
	}

	headlines := HeadlineTable(items)
	writeTab(ctx, sheetService, childSheetID, "headlines", headlines)

	// question set per headline
	log.Info("generating questions about headlines")
	generator := newsGenerator(clients)

	var requests []askpool.Request
	for _, item := range items {
		list, err := generator.ForHeadline(ctx, item.Title, cfg.UseAIQuestions)
		if err != nil {
			log.Warning("question generation for %q: %v", item.Title, err)
		}
		for _, question := range list {
			requests = append(requests, askpool.Request{Item: item, Question: question})
		}
	}
	manifest.SetQuestions(len(requests))

	log.Info("answering questions about headlines (clients: %v)", cfg.Chatbots)
	pool := askpool.New(cfg.Chatbots, clients, saver, cfg.MaxWorkers, botInterval(cfg), nil)
	rows := pool.Run(ctx, requests)
	countResults(manifest, rows)

	results := NewsResultTable(rows)
	writeTab(ctx, sheetService, childSheetID, "news questions", results)

	backupDir, err := saver.BackupDir()
	if err != nil {
		return manifest, err
	}
	if err := headlines.WriteCSV(filepath.Join(backupDir, timestamp+"-news-headlines.csv")); err != nil {
		log.Error("backup headlines csv: %v", err)
	}
	if err := results.WriteCSV(filepath.Join(backupDir, timestamp+"-news-questions.csv")); err != nil {
		log.Error("backup questions csv: %v", err)
	}

	if err := manifest.Write(); err != nil {
		log.Error("write manifest: %v", err)
	}
	log.Info("news questions workflow finished (%d responses, %d errors)",
		manifest.Snapshot().Responses, manifest.Snapshot().Errors)
	return manifest, nil
}

// newsGenerator wires the OpenAI client into the question generator when
// it is enabled, matching the original gpt-based question sets.
func newsGenerator(clients map[string]chatbots.Client) *questions.Generator {
	if client, ok := clients["openai"]; ok {
		if completer, ok := client.(questions.Completer); ok {
			return questions.NewGenerator(completer)
		}
	}
	return questions.NewGenerator(nil)
}

func botInterval(cfg *config.Config) time.Duration {
	return time.Duration(cfg.BotIntervalSeconds * float64(time.Second))
}

// createChildSheet authenticates, creates the dated child spreadsheet and
// records it on the master sheet.
func createChildSheet(ctx context.Context, cfg *config.Config, sheetName, kind, tabName string) (*sheets.Service, string, error) {
	source, err := sheets.Authenticate(ctx, cfg.Sheets.CredentialsPath, cfg.Sheets.TokenPath)
	if err != nil {
		return nil, "", fmt.Errorf("google auth: %w", err)
	}
	service, err := sheets.NewService(ctx, source)
	if err != nil {
		return nil, "", err
	}

	childID, err := service.CreateSpreadsheet(ctx, sheetName, cfg.Sheets.DataFolderID, true, tabName)
	if err != nil {
		return nil, "", err
	}

	timestamp := time.Now().Format("2006-01-02")
	row := []string{timestamp, kind, sheets.SpreadsheetURL(childID)}
	if err := service.AppendRow(ctx, cfg.Sheets.MasterSheetID, "master", row); err != nil {
		logger.L().Error("append master row: %v", err)
	}
	if err := service.FormatTab(ctx, cfg.Sheets.MasterSheetID, "master"); err != nil {
		logger.L().Error("format master tab: %v", err)
	}

	return service, childID, nil
}

// writeTab writes and formats one tab, logging failures without aborting.
func writeTab(ctx context.Context, service *sheets.Service, sheetID, tabName string, tbl *table.Table) {
	if service == nil {
		return
	}
	if err := service.WriteTable(ctx, sheetID, tabName, tbl); err != nil {
		logger.L().Error("write tab %q: %v", tabName, err)
		return
	}
	if err := service.FormatTab(ctx, sheetID, tabName); err != nil {
		logger.L().Error("format tab %q: %v", tabName, err)
	}
}

func countResults(manifest *storage.Manifest, rows []models.ResultRow) {
	for _, row := range rows {
		if row.Failed() {
			manifest.AddError(row.Client)
		} else {
			manifest.AddResponse()
		}
	}
}
