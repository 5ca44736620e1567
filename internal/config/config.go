// Package config holds runtime settings and the property sources that back
// {name} interpolation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mstoykov/envconfig"
	"gopkg.in/yaml.v3"
)

// Settings are read from PAGESTEP_* environment variables
type Settings struct {
	LoadTimeout   time.Duration `envconfig:"PAGESTEP_LOAD_TIMEOUT"`
	UnloadTimeout time.Duration `envconfig:"PAGESTEP_UNLOAD_TIMEOUT"`
	SettleTimeout time.Duration `envconfig:"PAGESTEP_SETTLE_TIMEOUT"`
	StepTimeout   time.Duration `envconfig:"PAGESTEP_STEP_TIMEOUT"`
	EvalTimeout   time.Duration `envconfig:"PAGESTEP_EVAL_TIMEOUT"`

	Headless   bool   `envconfig:"PAGESTEP_HEADLESS"`
	Width      int    `envconfig:"PAGESTEP_WIDTH"`
	Height     int    `envconfig:"PAGESTEP_HEIGHT"`
	ProfileDir string `envconfig:"PAGESTEP_PROFILE"`

	DateLayout string `envconfig:"PAGESTEP_DATE_LAYOUT"`
	DateLocale string `envconfig:"PAGESTEP_DATE_LOCALE"`
	Today      string `envconfig:"PAGESTEP_TODAY"`

	ScreenshotDir string `envconfig:"PAGESTEP_SCREENSHOT_DIR"`
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		LoadTimeout:   8 * time.Second,
		UnloadTimeout: 5 * time.Second,
		SettleTimeout: 10 * time.Second,
		StepTimeout:   4 * time.Second,
		EvalTimeout:   2 * time.Second,
		Headless:      true,
		Width:         1280,
		Height:        720,
		DateLayout:    "02.01.2006",
	}
}

// LoadSettings applies environment overrides on top of DefaultSettings.
// lookup defaults to os.LookupEnv.
func LoadSettings(lookup func(string) (string, bool)) (Settings, error) {
	s := DefaultSettings()
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := envconfig.Process("", &s, lookup); err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	return s, nil
}

// Source is a read-only property lookup
type Source interface {
	Lookup(name string) (string, bool)
}

// Map is an in-memory Source
type Map map[string]string

func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Env looks names up in the process environment, with an optional prefix
type Env struct {
	Prefix string
}

func (e Env) Lookup(name string) (string, bool) {
	return os.LookupEnv(e.Prefix + name)
}

// Chain consults each source in order; the first hit wins
type Chain []Source

func (c Chain) Lookup(name string) (string, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// LoadProperties reads a property file. .yaml and .yml files must hold a flat
// mapping of scalars; anything else is parsed as a dotenv file.
func LoadProperties(path string) (Map, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		m := make(Map, len(raw))
		for k, v := range raw {
			switch v.(type) {
			case map[string]any, []any:
				return nil, fmt.Errorf("%s: property %q is not a scalar", path, k)
			case nil:
				m[k] = ""
			default:
				m[k] = fmt.Sprint(v)
			}
		}
		return m, nil
	default:
		m, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return Map(m), nil
	}
}
