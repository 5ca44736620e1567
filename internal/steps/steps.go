// Package steps runs scenario scripts: ordered lists of actions that address
// page elements by logical name.
package steps

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Step is a single scenario action. Action is one of open, load, unload,
// settle, click, clear, type, set, eval, remember, expect or wait.
//
// Text is interpolated before use. Date holds a relative date phrase and
// replaces Text when set. Var names the target variable of set, eval and
// remember. Read selects text (default) or value for expect and remember.
// Wait is in milliseconds.
type Step struct {
	Action  string `yaml:"action" json:"action"`
	Page    string `yaml:"page,omitempty" json:"page,omitempty"`
	Element string `yaml:"element,omitempty" json:"element,omitempty"`
	Text    string `yaml:"text,omitempty" json:"text,omitempty"`
	Date    string `yaml:"date,omitempty" json:"date,omitempty"`
	Var     string `yaml:"var,omitempty" json:"var,omitempty"`
	Expr    string `yaml:"expr,omitempty" json:"expr,omitempty"`
	URL     string `yaml:"url,omitempty" json:"url,omitempty"`
	Read    string `yaml:"read,omitempty" json:"read,omitempty"`
	Wait    int    `yaml:"wait,omitempty" json:"wait,omitempty"`
}

// Scenario is a named list of steps run against one fresh context
type Scenario struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url,omitempty"`
	Steps []Step `yaml:"steps"`
}

type file struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// ReadScenarios decodes a scenario document. Unknown keys are rejected so
// that typos in step files fail early.
func ReadScenarios(r io.Reader) ([]Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}
	for i, sc := range f.Scenarios {
		if sc.Name == "" {
			return nil, fmt.Errorf("scenario %d has no name", i+1)
		}
		for j, st := range sc.Steps {
			if err := st.Validate(); err != nil {
				return nil, fmt.Errorf("scenario %q step %d: %w", sc.Name, j+1, err)
			}
		}
	}
	return f.Scenarios, nil
}

// LoadScenarios reads a scenario file
func LoadScenarios(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := ReadScenarios(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Validate checks that the fields an action needs are present
func (s Step) Validate() error {
	need := func(field, v string) error {
		if v == "" {
			return fmt.Errorf("%s: missing %s", s.Action, field)
		}
		return nil
	}
	switch s.Action {
	case "open":
		return need("url", s.URL)
	case "load":
		return need("page", s.Page)
	case "unload", "settle", "wait":
		return nil
	case "click", "clear", "type", "expect":
		return need("element", s.Element)
	case "set":
		return need("var", s.Var)
	case "eval":
		return need("expr", s.Expr)
	case "remember":
		if err := need("element", s.Element); err != nil {
			return err
		}
		return need("var", s.Var)
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
}

// String renders the step for logs
func (s Step) String() string {
	switch s.Action {
	case "open":
		return fmt.Sprintf("open %s", s.URL)
	case "load", "unload":
		return fmt.Sprintf("%s %s", s.Action, s.Page)
	case "type":
		if s.Date != "" {
			return fmt.Sprintf("type %s → %s", s.Date, s.Element)
		}
		return fmt.Sprintf("type %q → %s", s.Text, s.Element)
	case "set":
		return fmt.Sprintf("set %s", s.Var)
	case "eval":
		return fmt.Sprintf("eval %s", s.Expr)
	case "wait":
		return fmt.Sprintf("wait %dms", s.Wait)
	default:
		return fmt.Sprintf("%s %s", s.Action, s.Element)
	}
}
