// Command archiveurl submits URLs to the Internet Archive's Save Page Now
// service and prints a CSV of original and archived URLs. URLs come from
// the command line or from a file with one URL per line.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/askmetwice/amt/internal/archive"
	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/logger"
	"github.com/askmetwice/amt/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	urlFile := flag.String("file", "", "file with one URL per line (alternative to URL args)")
	interval := flag.Duration("interval", 5*time.Second, "delay between status polls")
	maxTries := flag.Int("max-tries", 40, "status polls before giving up on a capture")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.ArchiveAccessKey == "" || cfg.ArchiveSecretKey == "" {
		fmt.Fprintln(os.Stderr, "ARCHIVE_ACCESS_KEY and ARCHIVE_SECRET_KEY must be set")
		os.Exit(1)
	}
	if err := logger.Init(cfg.LogPath, logger.ParseLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.L().Close()
	log := logger.L()

	urls := flag.Args()
	if *urlFile != "" {
		fromFile, err := pipeline.ReadQuestionFile(*urlFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read url file: %v\n", err)
			os.Exit(1)
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: archiveurl [flags] url [url ...]")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := archive.NewClient(cfg.ArchiveAccessKey, cfg.ArchiveSecretKey,
		archive.WithPolling(*interval, *maxTries))

	writer := csv.NewWriter(os.Stdout)
	writer.Write([]string{"url", "archived url"})
	failed := 0
	for _, url := range urls {
		archived, err := client.SavePage(ctx, url)
		if err != nil {
			log.Error("archive %s: %v", url, err)
			archived = ""
			failed++
		}
		writer.Write([]string{url, archived})
		writer.Flush()
	}
	if err := writer.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "write csv: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
