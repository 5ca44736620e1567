package page

// Page is a loaded page object: its definition plus the live catalog
type Page struct {
	def     *Definition
	catalog *Catalog
}

// Name returns the definition name
func (p *Page) Name() string {
	return p.def.Name
}

// Definition returns the definition the page was loaded from
func (p *Page) Definition() *Definition {
	return p.def
}

// Catalog returns the current catalog
func (p *Page) Catalog() *Catalog {
	return p.catalog
}

// Element returns the handle bound to name. For a list field this is the first member.
func (p *Page) Element(name string) (Element, error) {
	e, ok := p.catalog.Entry(name)
	if !ok || len(e.Elements) == 0 {
		return nil, &UnknownElementError{Page: p.def.Name, Name: name}
	}
	return e.Elements[0], nil
}

// Elements returns every handle bound to name
func (p *Page) Elements(name string) ([]Element, error) {
	e, ok := p.catalog.Entry(name)
	if !ok {
		return nil, &UnknownElementError{Page: p.def.Name, Name: name}
	}
	return e.Elements, nil
}
