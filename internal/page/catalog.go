package page

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Entry is one resolved field of a catalog
type Entry struct {
	Field    Field
	Elements []Element // exactly one for Single fields
}

// Catalog maps logical names to bound element handles for one page instance.
// It is rebuilt on every load and never patched.
type Catalog struct {
	page    string
	entries map[string]*Entry
	order   []string
}

// Names returns the logical names in declaration order
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Entry returns the entry registered under name
func (c *Catalog) Entry(name string) (*Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Len returns the number of distinct names
func (c *Catalog) Len() int {
	return len(c.order)
}

// Build resolves every field of def through the driver.
//
// When two fields share a name the later declaration wins and a warning is
// logged. A malformed definition fails with *ConfigurationError, as does a
// Bind hook whose result shape disagrees with the declared cardinality.
func Build(ctx context.Context, d Driver, def *Definition, log logrus.FieldLogger) (*Catalog, error) {
	if def == nil {
		return nil, &ConfigurationError{Reason: "nil definition"}
	}
	log = orDiscard(log).WithField("page", def.Name)

	c := &Catalog{
		page:    def.Name,
		entries: make(map[string]*Entry, len(def.Fields)),
	}
	for _, f := range def.Fields {
		if f.Name == "" {
			return nil, &ConfigurationError{Page: def.Name, Field: f.Locator, Reason: "field has no name"}
		}

		raw, err := bind(ctx, d, f)
		if err != nil {
			return nil, fmt.Errorf("page %q: bind %q: %w", def.Name, f.Name, err)
		}
		elems, card, err := normalize(raw)
		if err != nil {
			return nil, &ConfigurationError{Page: def.Name, Field: f.Name, Reason: err.Error()}
		}
		if card != f.Cardinality {
			return nil, &ConfigurationError{
				Page:   def.Name,
				Field:  f.Name,
				Reason: fmt.Sprintf("declared %s but bound %s", f.Cardinality, card),
			}
		}

		if _, dup := c.entries[f.Name]; dup {
			log.WithField("element", f.Name).Warn("duplicate element name, last declaration wins")
		} else {
			c.order = append(c.order, f.Name)
		}
		c.entries[f.Name] = &Entry{Field: f, Elements: elems}
	}

	log.WithField("elements", len(c.order)).Debug("catalog built")
	return c, nil
}

func bind(ctx context.Context, d Driver, f Field) (any, error) {
	if f.Bind != nil {
		return f.Bind(ctx, d)
	}
	if d == nil {
		return nil, fmt.Errorf("no driver")
	}
	if f.Cardinality == List {
		return d.Elements(ctx, f.Locator)
	}
	return d.Element(ctx, f.Locator)
}

// normalize checks that a bound value is an element or a homogeneous list of elements
func normalize(raw any) ([]Element, Cardinality, error) {
	switch v := raw.(type) {
	case Element:
		return []Element{v}, Single, nil
	case []Element:
		for _, el := range v {
			if el == nil {
				return nil, List, fmt.Errorf("illegal field type")
			}
		}
		return v, List, nil
	case []any:
		elems := make([]Element, 0, len(v))
		for _, m := range v {
			el, ok := m.(Element)
			if !ok || el == nil {
				return nil, List, fmt.Errorf("illegal field type")
			}
			elems = append(elems, el)
		}
		return elems, List, nil
	default:
		return nil, Single, fmt.Errorf("illegal field type")
	}
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
