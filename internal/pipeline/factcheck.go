package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/askmetwice/amt/internal/askpool"
	"github.com/askmetwice/amt/internal/chatbots"
	"github.com/askmetwice/amt/internal/claims"
	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/questions"
	"github.com/askmetwice/amt/internal/sheets"
	"github.com/askmetwice/amt/internal/storage"
)

// RunFactCheck executes the fact-check pipeline: load recent claims from the
// claim database, turn each claim into a verification question, fan the
// questions out to the chatbots, upload the raw responses to Drive and
// persist spreadsheet tabs and CSV backups.
func RunFactCheck(ctx context.Context, cfg *config.Config) (*storage.Manifest, error) {
	log := logger.L()
	now := time.Now()
	timestamp := now.Format("2006-01-02")

	saver, err := storage.NewSaver(cfg.OutFolder, "FactCheck", now)
	if err != nil {
		return nil, err
	}
	manifest := storage.NewManifest("factcheck", saver.Dir())

	clients, err := chatbots.Registry(cfg)
	if err != nil {
		return nil, err
	}

	log.Info("loading claims published in the last %d days", cfg.Claims.DaysAgo)
	loader, err := claims.NewLoader(ctx, cfg.Claims, cfg.ArangoUsername, cfg.ArangoPassword)
	if err != nil {
		return nil, err
	}
	items, err := loader.Load(ctx, cfg.Claims.Lang, cfg.Claims.DaysAgo, cfg.Claims.MaxClaims)
	if err != nil {
		return nil, err
	}
	log.Info("loaded %d claims", len(items))
	manifest.SetItems(len(items))

	var sheetService *sheets.Service
	var childSheetID string
	var upload askpool.UploadFunc
	if cfg.Sheets.Enabled() {
		sheetService, childSheetID, err = createChildSheet(ctx, cfg, "AMT FactCheck "+timestamp, "factcheck", "claims")
		if err != nil {
			log.Error("spreadsheet setup failed: %v", err)
			sheetService = nil
		} else {
			manifest.SetSheetURL(sheets.SpreadsheetURL(childSheetID))
			upload = driveUploader(sheetService, cfg.Sheets.JSONFolderID, timestamp)
		}
	}

	claimTable := ClaimTable(items)
	writeTab(ctx, sheetService, childSheetID, "claims", claimTable)

	var requests []askpool.Request
	for _, item := range items {
		requests = append(requests, askpool.Request{Item: item, Question: questions.ForClaim(item.Title)})
	}
	manifest.SetQuestions(len(requests))

	log.Info("answering claim questions (clients: %v)", cfg.Chatbots)
	pool := askpool.New(cfg.Chatbots, clients, saver, cfg.MaxWorkers, botInterval(cfg), upload)
	rows := pool.Run(ctx, requests)
	countResults(manifest, rows)

	results := ClaimResultTable(rows)
	writeTab(ctx, sheetService, childSheetID, "claim questions", results)

	backupDir, err := saver.BackupDir()
	if err != nil {
		return manifest, err
	}
	if err := claimTable.WriteCSV(filepath.Join(backupDir, timestamp+"-factcheck-claims.csv")); err != nil {
		log.Error("backup claims csv: %v", err)
	}
	if err := results.WriteCSV(filepath.Join(backupDir, timestamp+"-factcheck-questions.csv")); err != nil {
		log.Error("backup questions csv: %v", err)
	}

	if err := manifest.Write(); err != nil {
		log.Error("write manifest: %v", err)
	}
	log.Info("fact-check workflow finished (%d responses, %d errors)",
		manifest.Snapshot().Responses, manifest.Snapshot().Errors)
	return manifest, nil
}

// driveUploader returns an UploadFunc that puts each response file into a
// dated Drive folder and hands back its shareable link. The folder is
// created lazily on the first upload.
func driveUploader(service *sheets.Service, parentID, name string) askpool.UploadFunc {
	var mu sync.Mutex
	var folderID string
	return func(ctx context.Context, path string) (string, error) {
		mu.Lock()
		if folderID == "" {
			id, err := service.CreateFolder(ctx, parentID, name)
			if err != nil {
				mu.Unlock()
				return "", err
			}
			folderID = id
		}
		id := folderID
		mu.Unlock()
		return service.UploadFile(ctx, id, path)
	}
}
