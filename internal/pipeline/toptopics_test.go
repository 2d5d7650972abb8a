package pipeline

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestTopTopicsPrompt(t *testing.T) {
	tests := []struct {
		name    string
		region  string
		n       int
		want    string
		wantErr bool
	}{
		{name: "plain", want: "What are the top news topics today?"},
		{name: "count", n: 5, want: "What are the top 5 news topics today?"},
		{name: "us", region: "us", want: "What are the top news topics from the US today?"},
		{name: "france with count", region: "fr", n: 3, want: "What are the top 3 news topics from France today?"},
		{name: "india", region: "in", want: "What are the top news topics from India today?"},
		{name: "unknown region", region: "de", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TopTopicsPrompt(tt.region, tt.n)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("TopTopicsPrompt(%q, %d) expected error", tt.region, tt.n)
				}
				return
			}
			if err != nil {
				t.Fatalf("TopTopicsPrompt(%q, %d): %v", tt.region, tt.n, err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadQuestionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.txt")
	content := "What is the state of the economy?\n\n# a comment\n  How safe are vaccines?  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadQuestionFile(path)
	if err != nil {
		t.Fatalf("ReadQuestionFile: %v", err)
	}
	want := []string{"What is the state of the economy?", "How safe are vaccines?"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReadQuestionFile_Missing(t *testing.T) {
	if _, err := ReadQuestionFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
