// Command longterm asks a standing list of questions across the chatbots,
// tracking how answers drift over repeated runs.
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
	questionsPath := flag.String("questions", "", "question list file, one question per line (default: questions path from config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	path := *questionsPath
	if path == "" {
		path = cfg.QuestionsPath
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no question file given (use -questions or set questions_path)")
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogPath, logger.ParseLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.L().Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	manifest, err := pipeline.RunLongTerm(ctx, cfg, path)
	if err != nil {
		logger.L().Error("long-term workflow: %v", err)
		os.Exit(1)
	}
	fmt.Println("responses saved to", manifest.Snapshot().OutputFolder)
}
