// Package ai drafts scenario steps from a plain-language description using an LLM.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/v0xg/pagestep/internal/page"
	"github.com/v0xg/pagestep/internal/steps"
)

// Provider drafts steps that address the elements of one page definition
type Provider interface {
	DraftSteps(ctx context.Context, def *page.Definition, prompt string) ([]steps.Step, error)
}

// NewProvider creates a new AI provider based on the provider name
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}

type promptElement struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional,omitempty"`
	List     bool   `json:"list,omitempty"`
}

type promptPage struct {
	Page     string          `json:"page"`
	Elements []promptElement `json:"elements"`
}

// describePage renders the logical names of def; selectors are left out on
// purpose so the model can only use names the catalog knows
func describePage(def *page.Definition) (string, error) {
	p := promptPage{Page: def.Name}
	for _, f := range def.Fields {
		p.Elements = append(p.Elements, promptElement{
			Name:     f.Name,
			Optional: f.Optional,
			List:     f.Cardinality == page.List,
		})
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal page: %w", err)
	}
	return string(b), nil
}

// parseStepsJSON extracts and parses a JSON array from a response that may
// contain surrounding text, then checks every step against def
func parseStepsJSON(response string, def *page.Definition) ([]steps.Step, error) {
	var out []steps.Step
	if err := json.Unmarshal([]byte(response), &out); err != nil {
		start := strings.Index(response, "[")
		end := strings.LastIndex(response, "]")
		if start == -1 || end < start {
			return nil, fmt.Errorf("no JSON array found in response")
		}
		if err := json.Unmarshal([]byte(response[start:end+1]), &out); err != nil {
			return nil, fmt.Errorf("failed to parse extracted JSON: %w", err)
		}
	}

	known := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		known[f.Name] = true
	}
	for i, st := range out {
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		if st.Element != "" && !known[st.Element] {
			return nil, fmt.Errorf("step %d: %w", i+1, &page.UnknownElementError{Page: def.Name, Name: st.Element})
		}
	}
	return out, nil
}
