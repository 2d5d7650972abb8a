package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Manifest records what a single pipeline run produced. It is written into
// the run folder so later runs and the status endpoint can report on it.
type Manifest struct {
	mu sync.Mutex

	Pipeline     string    `json:"pipeline"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime,omitempty"`
	Items        int       `json:"items"`
	Questions    int       `json:"questions"`
	Responses    int       `json:"responses"`
	Errors       int       `json:"errors"`
	OutputFolder string    `json:"outputFolder"`
	SheetURL     string    `json:"sheetUrl,omitempty"`
	LastError    string    `json:"lastError,omitempty"`
}

// NewManifest starts a manifest for a pipeline run.
func NewManifest(pipeline, outputFolder string) *Manifest {
	return &Manifest{
		Pipeline:     pipeline,
		StartTime:    time.Now(),
		OutputFolder: outputFolder,
	}
}

// SetItems records the item count.
func (m *Manifest) SetItems(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Items = n
}

// SetQuestions records the question count.
func (m *Manifest) SetQuestions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Questions = n
}

// SetSheetURL records the child spreadsheet URL.
func (m *Manifest) SetSheetURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SheetURL = url
}

// AddResponse counts one saved response.
func (m *Manifest) AddResponse() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses++
}

// AddError counts one failed request and keeps its message.
func (m *Manifest) AddError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
	m.LastError = msg
}

// Snapshot returns a copy safe to serve from the status endpoint.
func (m *Manifest) Snapshot() Manifest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Manifest{
		Pipeline:     m.Pipeline,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		Items:        m.Items,
		Questions:    m.Questions,
		Responses:    m.Responses,
		Errors:       m.Errors,
		OutputFolder: m.OutputFolder,
		SheetURL:     m.SheetURL,
		LastError:    m.LastError,
	}
}

// Write finalizes the manifest and writes it atomically into the run
// folder (write to a temp file, then rename).
func (m *Manifest) Write() error {
	m.mu.Lock()
	m.EndTime = time.Now()
	snapshot := Manifest{
		Pipeline:     m.Pipeline,
		StartTime:    m.StartTime,
		EndTime:      m.EndTime,
		Items:        m.Items,
		Questions:    m.Questions,
		Responses:    m.Responses,
		Errors:       m.Errors,
		OutputFolder: m.OutputFolder,
		SheetURL:     m.SheetURL,
		LastError:    m.LastError,
	}
	m.mu.Unlock()

	data, err := json.MarshalIndent(&snapshot, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(snapshot.OutputFolder, "manifest.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
