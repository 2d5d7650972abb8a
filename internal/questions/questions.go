// Package questions derives the natural-language questions asked about
// headlines and claims, including AI-generated question sets.
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// BasicQuestion is prepended to every headline regardless of AI generation.
const BasicQuestion = "Tell me about this headline:"

// FactCheckPrefix turns a claim into a verification question.
const FactCheckPrefix = "Is this statement true: "

// generationPrompt asks a model for a question list about a headline. The
// model is told to answer with a bare list so ParseList can read it back.
const generationPrompt = "Come up with a list of 5-10 questions people might ask about this headline. " +
	"Make sure to generate some factual questions, some subjective, and some speculative. " +
	"Each of the questions should include all necessary information so that no additional context " +
	"is needed to understand what events, people, or topics the question is referring to. " +
	"Provide them as a valid JSON list of strings, with no extra text or ``` formatting headers/footers."

// Completer produces a plain text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator builds question sets for items.
type Generator struct {
	completer Completer
}

// NewGenerator creates a Generator. A nil completer disables AI questions.
func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

// ForHeadline returns the questions to ask about a headline: the basic
// question always, plus AI-generated ones when requested. A failed
// generation call or unparseable list degrades to the basic question only.
func (g *Generator) ForHeadline(ctx context.Context, headline string, useAI bool) ([]string, error) {
	list := []string{fmt.Sprintf("%s %s", BasicQuestion, headline)}

	if !useAI || g.completer == nil {
		return list, nil
	}

	prompt := fmt.Sprintf("%s\n\nHeadline: %s", generationPrompt, headline)
	message, err := g.completer.Complete(ctx, prompt)
	if err != nil {
		return list, fmt.Errorf("generate questions: %w", err)
	}

	generated, err := ParseList(message)
	if err != nil {
		return list, fmt.Errorf("parse question list: %w", err)
	}
	return append(list, generated...), nil
}

// ForClaim returns the single verification question for a claim.
func ForClaim(claim string) string {
	return FactCheckPrefix + claim
}

// ParseList reads a model-produced list of question strings. It accepts a
// JSON array (optionally inside ``` fences), a single-quoted Python-style
// list, or a "- " bulleted block.
func ParseList(message string) ([]string, error) {
	cleaned := stripFences(message)

	if list, err := parseJSONList(cleaned); err == nil {
		return list, nil
	}

	// Python-style lists quote with apostrophes; requote and retry unless
	// the text already used double quotes (then the failure was elsewhere).
	if strings.Contains(cleaned, "'") && !strings.Contains(cleaned, `"`) {
		requoted := strings.ReplaceAll(cleaned, "'", `"`)
		if list, err := parseJSONList(requoted); err == nil {
			return list, nil
		}
	}

	if list := parseBullets(cleaned); len(list) > 0 {
		return list, nil
	}

	return nil, fmt.Errorf("message is not a recognizable question list")
}

func stripFences(message string) string {
	cleaned := strings.TrimSpace(message)
	for _, fence := range []string{"```json", "```python", "```"} {
		cleaned = strings.ReplaceAll(cleaned, fence, "")
	}
	return strings.TrimSpace(cleaned)
}

func parseJSONList(text string) ([]string, error) {
	var list []string
	if err := json.Unmarshal([]byte(text), &list); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return list, nil
}

func parseBullets(text string) []string {
	var list []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "- ") {
			if q := strings.TrimSpace(strings.TrimPrefix(line, "- ")); q != "" {
				list = append(list, q)
			}
		}
	}
	return list
}
