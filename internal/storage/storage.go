// Package storage persists chatbot responses as one JSON file per request
// under date-stamped run folders, plus a per-run manifest.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/askmetwice/amt/internal/models"
)

// Saver writes response files with counter-based names that are unique
// within a run (AMT-News-2025-07-30-00000.json and so on).
type Saver struct {
	dir   string
	label string
	date  string

	mu      sync.Mutex
	counter int
}

// NewSaver creates the run folder under outFolder for the given day and
// returns a Saver for it. When the folder already exists from an earlier
// run, "-new" suffixes keep the runs apart.
func NewSaver(outFolder, label string, now time.Time) (*Saver, error) {
	date := now.Format("2006-01-02")
	dir := filepath.Join(outFolder, date)
	for exists(dir) {
		dir += "-new"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create save folder: %w", err)
	}

	return &Saver{dir: dir, label: label, date: date}, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Dir returns the run folder path.
func (s *Saver) Dir() string {
	return s.dir
}

// Count returns how many responses have been saved so far.
func (s *Saver) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// Save writes one response file and returns its path. The counter is
// claimed under the lock, so concurrent savers never collide on a name.
func (s *Saver) Save(resp *models.ChatResponse) (string, error) {
	s.mu.Lock()
	count := s.counter
	s.counter++
	s.mu.Unlock()

	path := filepath.Join(s.dir, fmt.Sprintf("AMT-%s-%s-%05d.json", s.label, s.date, count))

	data, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("encode response: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write response: %w", err)
	}
	return path, nil
}

// BackupDir returns the dataset backup folder inside the run folder,
// creating it on first use.
func (s *Saver) BackupDir() (string, error) {
	dir := filepath.Join(s.dir, "datasets")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup folder: %w", err)
	}
	return dir, nil
}
