package askpool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/askmetwice/amt/internal/chatbots"
	"github.com/askmetwice/amt/internal/models"
	"github.com/askmetwice/amt/internal/storage"
)

// fakeClient records concurrency and optionally fails on marked prompts.
type fakeClient struct {
	name     string
	inFlight int32
	overlap  int32
	delay    time.Duration
}

func (f *fakeClient) Name() string { return f.name }

func (f *fakeClient) Ask(ctx context.Context, prompt string) (*models.ChatResponse, error) {
	if atomic.AddInt32(&f.inFlight, 1) > 1 {
		atomic.StoreInt32(&f.overlap, 1)
	}
	defer atomic.AddInt32(&f.inFlight, -1)

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if strings.Contains(prompt, "FAIL") {
		return nil, errors.New("simulated vendor error")
	}
	return &models.ChatResponse{
		Timestamp: "2025-07-30 09:00:00",
		Model:     "Fake " + f.name,
		Prompt:    prompt,
		Response:  json.RawMessage(`{}`),
	}, nil
}

func newTestPool(t *testing.T, bots []string, clients map[string]chatbots.Client, workers int, upload UploadFunc) *Pool {
	t.Helper()
	saver, err := storage.NewSaver(t.TempDir(), "Test", time.Date(2025, 7, 30, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	return New(bots, clients, saver, workers, 0, upload)
}

func requestsFor(questions ...string) []Request {
	requests := make([]Request, len(questions))
	for i, q := range questions {
		requests[i] = Request{
			Item:     models.Item{Source: "test", Title: q},
			Question: q,
		}
	}
	return requests
}

func TestRun_OneRowPerPair(t *testing.T) {
	bots := []string{"a", "b"}
	clients := map[string]chatbots.Client{
		"a": &fakeClient{name: "a"},
		"b": &fakeClient{name: "b"},
	}
	pool := newTestPool(t, bots, clients, 4, nil)

	rows := pool.Run(context.Background(), requestsFor("q1", "q2", "q3"))
	if len(rows) != 6 {
		t.Fatalf("Run returned %d rows, want 6", len(rows))
	}
	// request-major order: q1/a, q1/b, q2/a, ...
	if rows[0].Question != "q1" || rows[1].Question != "q1" || rows[2].Question != "q2" {
		t.Errorf("rows out of order: %v", rows)
	}
	for _, row := range rows {
		if row.Failed() {
			t.Errorf("unexpected error row: %+v", row)
		}
		if row.Location == "" {
			t.Errorf("row has no response location: %+v", row)
		}
	}
}

func TestRun_PerBotSerialization(t *testing.T) {
	client := &fakeClient{name: "a", delay: 5 * time.Millisecond}
	pool := newTestPool(t, []string{"a"}, map[string]chatbots.Client{"a": client}, 8, nil)

	pool.Run(context.Background(), requestsFor("q1", "q2", "q3", "q4", "q5"))
	if atomic.LoadInt32(&client.overlap) != 0 {
		t.Error("observed overlapping calls to a single chatbot")
	}
}

func TestRun_ErrorIsolation(t *testing.T) {
	clients := map[string]chatbots.Client{"a": &fakeClient{name: "a"}}
	pool := newTestPool(t, []string{"a"}, clients, 2, nil)

	rows := pool.Run(context.Background(), requestsFor("q1", "FAIL q2", "q3"))
	if len(rows) != 3 {
		t.Fatalf("Run returned %d rows, want 3", len(rows))
	}
	if !rows[1].Failed() {
		t.Error("failing request should produce an error row")
	}
	if rows[1].Client != "ERROR w/ a" {
		t.Errorf("error row client = %q", rows[1].Client)
	}
	if rows[0].Failed() || rows[2].Failed() {
		t.Error("sibling requests should not be affected by one failure")
	}
}

func TestRun_UploadLocation(t *testing.T) {
	var uploaded sync.Map
	upload := func(ctx context.Context, path string) (string, error) {
		url := fmt.Sprintf("https://drive.example.com/%s", path)
		uploaded.Store(path, true)
		return url, nil
	}

	clients := map[string]chatbots.Client{"a": &fakeClient{name: "a"}}
	pool := newTestPool(t, []string{"a"}, clients, 2, upload)

	rows := pool.Run(context.Background(), requestsFor("q1"))
	if !strings.HasPrefix(rows[0].Location, "https://drive.example.com/") {
		t.Errorf("Location = %q, want upload URL", rows[0].Location)
	}
}

func TestRun_UploadFailureSentinel(t *testing.T) {
	upload := func(ctx context.Context, path string) (string, error) {
		return "", errors.New("drive down")
	}

	clients := map[string]chatbots.Client{"a": &fakeClient{name: "a"}}
	pool := newTestPool(t, []string{"a"}, clients, 1, upload)

	rows := pool.Run(context.Background(), requestsFor("q1"))
	if rows[0].Location != "error creating url" {
		t.Errorf("Location = %q, want upload sentinel", rows[0].Location)
	}
	// the response itself succeeded, so the client column keeps the model
	if strings.HasPrefix(rows[0].Client, "ERROR") {
		t.Errorf("Client = %q", rows[0].Client)
	}
}
