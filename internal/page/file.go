package page

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Registry caches definitions by page name. Definitions are built once per
// page type and shared by every page instance of that type.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry returns a registry holding defs
func NewRegistry(defs ...*Definition) *Registry {
	r := &Registry{defs: make(map[string]*Definition, len(defs))}
	for _, d := range defs {
		r.Register(d)
	}
	return r
}

// Register adds or replaces a definition
func (r *Registry) Register(def *Definition) {
	r.defs[def.Name] = def
}

// Lookup returns the definition registered under name
func (r *Registry) Lookup(name string) (*Definition, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}
	return def, nil
}

// Names returns the registered page names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type fileField struct {
	Name     string `yaml:"name"`
	Selector string `yaml:"selector"`
	Optional bool   `yaml:"optional,omitempty"`
	List     bool   `yaml:"list,omitempty"`
}

type filePage struct {
	Name   string      `yaml:"name"`
	Fields []fileField `yaml:"fields"`
}

type fileDoc struct {
	Pages []filePage `yaml:"pages"`
}

// ReadDefinitions decodes a YAML document of page definitions
func ReadDefinitions(r io.Reader) ([]*Definition, error) {
	var doc fileDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode page definitions: %w", err)
	}

	defs := make([]*Definition, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		if p.Name == "" {
			return nil, &ConfigurationError{Reason: "page has no name"}
		}
		def := &Definition{Name: p.Name}
		for _, f := range p.Fields {
			if f.Selector == "" {
				return nil, &ConfigurationError{Page: p.Name, Field: f.Name, Reason: "field has no selector"}
			}
			card := Single
			if f.List {
				card = List
			}
			def.Fields = append(def.Fields, Field{
				Name:        f.Name,
				Locator:     f.Selector,
				Optional:    f.Optional,
				Cardinality: card,
			})
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadRegistry reads page definitions from a YAML file
func LoadRegistry(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	defs, err := ReadDefinitions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewRegistry(defs...), nil
}

// WriteDefinitions encodes definitions in the same YAML layout ReadDefinitions accepts
func WriteDefinitions(w io.Writer, defs ...*Definition) error {
	doc := fileDoc{Pages: make([]filePage, 0, len(defs))}
	for _, d := range defs {
		p := filePage{Name: d.Name}
		for _, f := range d.Fields {
			p.Fields = append(p.Fields, fileField{
				Name:     f.Name,
				Selector: f.Locator,
				Optional: f.Optional,
				List:     f.Cardinality == List,
			})
		}
		doc.Pages = append(doc.Pages, p)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
