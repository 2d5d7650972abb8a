package questions

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type fakeCompleter struct {
	message string
	err     error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	return f.message, f.err
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
		wantErr bool
	}{
		{
			name:    "json array",
			message: `["What happened?", "Who was involved?"]`,
			want:    []string{"What happened?", "Who was involved?"},
		},
		{
			name:    "fenced json",
			message: "```json\n[\"What happened?\"]\n```",
			want:    []string{"What happened?"},
		},
		{
			name:    "python style single quotes",
			message: `['What happened?', 'Who was involved?']`,
			want:    []string{"What happened?", "Who was involved?"},
		},
		{
			name:    "bulleted fallback",
			message: "Here are some questions:\n- What happened?\n- Who was involved?",
			want:    []string{"What happened?", "Who was involved?"},
		},
		{
			name:    "garbage",
			message: "I cannot help with that.",
			wantErr: true,
		},
		{
			name:    "empty list",
			message: "[]",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseList(tt.message)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseList(%q) expected error, got %v", tt.message, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseList(%q) returned error: %v", tt.message, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseList(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestForHeadline_BasicOnly(t *testing.T) {
	g := NewGenerator(nil)
	list, err := g.ForHeadline(context.Background(), "Markets rally", false)
	if err != nil {
		t.Fatalf("ForHeadline returned error: %v", err)
	}
	if len(list) != 1 || list[0] != "Tell me about this headline: Markets rally" {
		t.Errorf("list = %v", list)
	}
}

func TestForHeadline_WithAI(t *testing.T) {
	g := NewGenerator(&fakeCompleter{message: `["Why did markets rally?"]`})
	list, err := g.ForHeadline(context.Background(), "Markets rally", true)
	if err != nil {
		t.Fatalf("ForHeadline returned error: %v", err)
	}
	want := []string{
		"Tell me about this headline: Markets rally",
		"Why did markets rally?",
	}
	if !reflect.DeepEqual(list, want) {
		t.Errorf("list = %v, want %v", list, want)
	}
}

func TestForHeadline_GenerationFailureKeepsBasic(t *testing.T) {
	g := NewGenerator(&fakeCompleter{err: errors.New("api down")})
	list, err := g.ForHeadline(context.Background(), "Markets rally", true)
	if err == nil {
		t.Error("expected an error to be reported")
	}
	if len(list) != 1 || !strings.HasPrefix(list[0], BasicQuestion) {
		t.Errorf("fallback list = %v", list)
	}
}

func TestForClaim(t *testing.T) {
	got := ForClaim("The sky is green.")
	if got != "Is this statement true: The sky is green." {
		t.Errorf("ForClaim = %q", got)
	}
}
