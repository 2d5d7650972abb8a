// Package scraper drives a chat web UI through a headless browser to ask a
// question and pull out a shareable conversation link. Selectors live in
// config: chat hosts change their markup without notice, so none are
// hardcoded here.
package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/askmetwice/amt/internal/config"
	"github.com/askmetwice/amt/internal/logger"
)

// Scraper automates one chat UI.
type Scraper struct {
	cfg config.ScraperConfig
	log *logger.Logger
}

// New builds a Scraper. Callers should check cfg.Enabled() first.
func New(cfg config.ScraperConfig) *Scraper {
	return &Scraper{cfg: cfg, log: logger.L()}
}

// ShareLink submits the question to the configured chat UI and returns the
// public share URL of the resulting conversation. Each attempt gets a fresh
// browser tab; failed attempts are retried up to the configured budget.
func (s *Scraper) ShareLink(ctx context.Context, question string) (string, error) {
	if !s.cfg.Enabled() {
		return "", fmt.Errorf("scraper is not configured")
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, s.allocatorOptions()...)
	defer cancelAlloc()

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxTries; attempt++ {
		link, err := s.attempt(allocCtx, question)
		if err == nil {
			return link, nil
		}
		lastErr = err
		s.log.Warning("share link attempt %d/%d failed: %v", attempt, s.cfg.MaxTries, err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
	}
	return "", fmt.Errorf("share link after %d tries: %w", s.cfg.MaxTries, lastErr)
}

func (s *Scraper) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
	)
	if s.cfg.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(s.cfg.UserDataDir))
	}
	return opts
}

func (s *Scraper) attempt(allocCtx context.Context, question string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	wait := time.Duration(s.cfg.WaitSeconds) * time.Second
	runCtx, cancelRun := context.WithTimeout(tabCtx, 4*wait)
	defer cancelRun()

	actions := []chromedp.Action{
		chromedp.Navigate(s.cfg.ChatURL),
		chromedp.WaitVisible(s.cfg.PromptSelector, chromedp.ByQuery),
		chromedp.Click(s.cfg.PromptSelector, chromedp.ByQuery),
		chromedp.SendKeys(s.cfg.PromptSelector, question+kb.Enter, chromedp.ByQuery),
	}
	if s.cfg.ShareSelector != "" {
		actions = append(actions,
			chromedp.WaitVisible(s.cfg.ShareSelector, chromedp.ByQuery),
			chromedp.Click(s.cfg.ShareSelector, chromedp.ByQuery),
		)
	}
	if s.cfg.CreateSelector != "" {
		actions = append(actions,
			chromedp.WaitVisible(s.cfg.CreateSelector, chromedp.ByQuery),
			chromedp.Click(s.cfg.CreateSelector, chromedp.ByQuery),
		)
	}

	var link string
	actions = append(actions,
		chromedp.WaitVisible(s.cfg.LinkSelector, chromedp.ByQuery),
		chromedp.Value(s.cfg.LinkSelector, &link, chromedp.ByQuery),
	)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return "", err
	}
	if link == "" {
		return "", fmt.Errorf("share link element was empty")
	}
	return link, nil
}
