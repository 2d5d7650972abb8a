package claims

import (
	"testing"

	"github.com/askmetwice/amt/internal/models"
)

func items(titles ...string) []models.Item {
	result := make([]models.Item, len(titles))
	for i, title := range titles {
		result[i] = models.Item{Title: title}
	}
	return result
}

func TestFilterByLanguage(t *testing.T) {
	input := items(
		"The president signed a new trade agreement with the European Union yesterday.",
		"El presidente firmó ayer un nuevo acuerdo comercial con la Unión Europea.",
		"A recent study claims that coffee consumption reduces the risk of heart disease.",
	)

	filtered := FilterByLanguage(input, "en", 0)
	if len(filtered) != 2 {
		t.Fatalf("FilterByLanguage kept %d items, want 2: %v", len(filtered), filtered)
	}
	for _, item := range filtered {
		if item.Title == input[1].Title {
			t.Error("Spanish claim survived the English filter")
		}
	}
}

func TestFilterByLanguage_Limit(t *testing.T) {
	input := items(
		"The unemployment rate fell to its lowest level in fifty years last month.",
		"Scientists announced the discovery of a new species of deep sea fish.",
		"The city council approved funding for two hundred new affordable housing units.",
	)

	filtered := FilterByLanguage(input, "en", 2)
	if len(filtered) != 2 {
		t.Errorf("FilterByLanguage with limit 2 kept %d items", len(filtered))
	}
}

func TestCanonicalLang(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"en-US", "en"},
		{"fr-FR", "fr"},
		{"not a tag", "not a tag"},
	}
	for _, tt := range tests {
		if got := canonicalLang(tt.in); got != tt.want {
			t.Errorf("canonicalLang(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
