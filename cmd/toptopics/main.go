// Command toptopics asks every configured chatbot for today's top news
// topics, optionally scoped to a region.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	region := flag.String("region", "", "region to scope the prompt to ("+strings.Join(pipeline.Regions(), ", ")+")")
	n := flag.Int("n", 0, "number of topics to ask for (0 leaves the count open)")
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

	manifest, err := pipeline.RunTopTopics(ctx, cfg, *region, *n)
	if err != nil {
		logger.L().Error("top-topics workflow: %v", err)
		os.Exit(1)
	}
	fmt.Println("responses saved to", manifest.Snapshot().OutputFolder)
}
