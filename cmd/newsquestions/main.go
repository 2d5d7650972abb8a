// Command newsquestions runs the daily news collection: it fetches top
// stories from Google News, generates questions about each headline, asks
// every configured chatbot and persists the responses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogPath, logger.ParseLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.L().Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	manifest, err := pipeline.RunNews(ctx, cfg)
	if err != nil {
		logger.L().Error("news questions workflow: %v", err)
		os.Exit(1)
	}
	fmt.Println("responses saved to", manifest.Snapshot().OutputFolder)
}
