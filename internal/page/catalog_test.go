package page_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pagestep/internal/page"
	"github.com/v0xg/pagestep/internal/page/pagetest"
)

func loginDefinition() *page.Definition {
	return &page.Definition{
		Name: "login",
		Fields: []page.Field{
			{Name: "Email", Locator: "#email"},
			{Name: "Password", Locator: "#password"},
			{Name: "Banner", Locator: ".banner", Optional: true},
			{Name: "Links", Locator: "nav a", Cardinality: page.List},
		},
	}
}

func TestBuildKeysAndCardinality(t *testing.T) {
	t.Parallel()

	d := pagetest.NewDriver()
	d.Add("nav a", true, true, true)

	c, err := page.Build(context.Background(), d, loginDefinition(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Email", "Password", "Banner", "Links"}, c.Names())

	email, ok := c.Entry("Email")
	require.True(t, ok)
	assert.Equal(t, page.Single, email.Field.Cardinality)
	assert.Len(t, email.Elements, 1)

	links, ok := c.Entry("Links")
	require.True(t, ok)
	assert.Equal(t, page.List, links.Field.Cardinality)
	assert.Len(t, links.Elements, 3)

	banner, _ := c.Entry("Banner")
	assert.True(t, banner.Field.Optional)
}

func TestBuildEmptyList(t *testing.T) {
	t.Parallel()

	def := &page.Definition{Name: "empty", Fields: []page.Field{
		{Name: "Rows", Locator: "tr", Cardinality: page.List},
	}}
	c, err := page.Build(context.Background(), pagetest.NewDriver(), def, nil)
	require.NoError(t, err)

	rows, ok := c.Entry("Rows")
	require.True(t, ok)
	assert.Empty(t, rows.Elements)
}

func TestBuildIllegalFieldType(t *testing.T) {
	t.Parallel()

	good := &pagetest.Element{Visible: true}
	cases := map[string]page.BindFunc{
		"mixed list": func(context.Context, page.Driver) (any, error) {
			return []any{good, "not an element"}, nil
		},
		"nil member": func(context.Context, page.Driver) (any, error) {
			return []page.Element{good, nil}, nil
		},
		"scalar": func(context.Context, page.Driver) (any, error) {
			return 42, nil
		},
	}
	for name, bind := range cases {
		bind := bind
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			def := &page.Definition{Name: "broken", Fields: []page.Field{{Name: "Mixed", Bind: bind}}}

			_, err := page.Build(context.Background(), pagetest.NewDriver(), def, nil)
			var cerr *page.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "Mixed", cerr.Field)
			assert.Contains(t, cerr.Error(), "illegal field type")
		})
	}
}

func TestBuildHomogeneousAnyList(t *testing.T) {
	t.Parallel()

	a, b := &pagetest.Element{}, &pagetest.Element{}
	def := &page.Definition{Name: "custom", Fields: []page.Field{{
		Name:        "Cells",
		Cardinality: page.List,
		Bind: func(context.Context, page.Driver) (any, error) { return []any{a, b}, nil },
	}}}

	c, err := page.Build(context.Background(), nil, def, nil)
	require.NoError(t, err)
	cells, _ := c.Entry("Cells")
	assert.Equal(t, page.List, cells.Field.Cardinality)
	assert.Equal(t, []page.Element{a, b}, cells.Elements)
}

func TestBuildCardinalityMismatch(t *testing.T) {
	t.Parallel()

	one := &pagetest.Element{}
	cases := map[string]page.Field{
		"list bound single": {
			Name:        "Rows",
			Cardinality: page.List,
			Bind:        func(context.Context, page.Driver) (any, error) { return one, nil },
		},
		"single bound list": {
			Name: "Rows",
			Bind: func(context.Context, page.Driver) (any, error) { return []page.Element{one}, nil },
		},
	}
	for name, f := range cases {
		f := f
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			def := &page.Definition{Name: "table", Fields: []page.Field{f}}

			_, err := page.Build(context.Background(), nil, def, nil)
			var cerr *page.ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "Rows", cerr.Field)
			assert.Contains(t, cerr.Reason, "declared")
		})
	}
}

func TestBuildUnnamedField(t *testing.T) {
	t.Parallel()

	def := &page.Definition{Name: "anon", Fields: []page.Field{{Locator: "#x"}}}
	_, err := page.Build(context.Background(), pagetest.NewDriver(), def, nil)

	var cerr *page.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "anon", cerr.Page)
}

func TestBuildDuplicateNameLastWins(t *testing.T) {
	t.Parallel()

	d := pagetest.NewDriver()
	d.Add("#first")
	second := d.Add("#second")
	def := &page.Definition{Name: "dup", Fields: []page.Field{
		{Name: "Submit", Locator: "#first"},
		{Name: "Submit", Locator: "#second", Optional: true},
	}}

	c, err := page.Build(context.Background(), d, def, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Submit"}, c.Names())

	e, _ := c.Entry("Submit")
	assert.Same(t, second, e.Elements[0])
	assert.True(t, e.Field.Optional)
}

func TestBuildDriverFault(t *testing.T) {
	t.Parallel()

	def := &page.Definition{Name: "faulty", Fields: []page.Field{{Name: "Broken", Locator: "!boom"}}}
	_, err := page.Build(context.Background(), pagetest.NewDriver(), def, nil)
	require.Error(t, err)

	var cerr *page.ConfigurationError
	assert.False(t, errors.As(err, &cerr))
}

func TestPageAccessors(t *testing.T) {
	t.Parallel()

	d := pagetest.NewDriver()
	d.Add("#email")
	d.Add("#password")
	d.Add("nav a", true, true)

	p, err := page.NewController(nil).Load(context.Background(), d, loginDefinition())
	require.NoError(t, err)

	el, err := p.Element("Links")
	require.NoError(t, err)
	assert.Same(t, d.Get("nav a", 0), el)

	els, err := p.Elements("Links")
	require.NoError(t, err)
	assert.Len(t, els, 2)

	_, err = p.Element("Nope")
	var uerr *page.UnknownElementError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "Nope", uerr.Name)
}
