// Command sharelink submits one question to a browser-driven chat UI and
// prints the share link for the resulting conversation. The chat URL and
// CSS selectors come from the scraper section of the configuration.
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
	"github.com/askmetwice/amt/internal/scraper"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Scraper.Enabled() {
		fmt.Fprintln(os.Stderr, "scraper is not configured (set scraper.chat_url and selectors)")
		os.Exit(1)
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: sharelink [flags] question...")
		os.Exit(2)
	}
	question := strings.Join(flag.Args(), " ")

	if err := logger.Init(cfg.LogPath, logger.ParseLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.L().Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	link, err := scraper.New(cfg.Scraper).ShareLink(ctx, question)
	if err != nil {
		logger.L().Error("share link: %v", err)
		os.Exit(1)
	}
	fmt.Println(link)
}
