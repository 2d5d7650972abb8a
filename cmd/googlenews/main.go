// Command googlenews fetches the Google News top-stories feed for a given
// edition and writes the headlines to a dated CSV.
//
// Usage: googlenews [flags] host_lang geo_loc client_ed_id
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/askmetwice/amt/internal/googlenews"
	"github.com/askmetwice/amt/internal/pipeline"
)

func main() {
	outDir := flag.String("out", ".", "directory to write the CSV into")
	limit := flag.Int("limit", 0, "maximum number of articles (0 keeps everything)")
	separate := flag.Bool("separate-titles", true, "split combined titles into headline and outlet")
	userAgent := flag.String("user-agent", "", "User-Agent header for the feed request")
	flag.Parse()

	if flag.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "usage: googlenews [flags] host_lang geo_loc client_ed_id")
		fmt.Fprintln(os.Stderr, "example: googlenews en-US US US:en")
		os.Exit(2)
	}
	hostLang, geoLoc, clientEdition := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	ctx := context.Background()
	fetcher := googlenews.NewFetcher(*userAgent)
	items, err := fetcher.Fetch(ctx, hostLang, geoLoc, clientEdition, *separate, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch feed: %v\n", err)
		os.Exit(1)
	}

	timestamp := time.Now().Format("2006-01-02")
	path := filepath.Join(*outDir, fmt.Sprintf("%s-googlenews-%s.csv", timestamp, geoLoc))
	if err := pipeline.HeadlineTable(items).WriteCSV(path); err != nil {
		fmt.Fprintf(os.Stderr, "write csv: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d articles to %s\n", len(items), path)
}
