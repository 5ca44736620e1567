// Package scenario bundles the per-scenario state that every step needs.
//
// A Context is created for one scenario run and threaded explicitly into each
// step. It must never be shared between scenarios running in parallel.
package scenario

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/v0xg/pagestep/internal/config"
	"github.com/v0xg/pagestep/internal/dates"
	"github.com/v0xg/pagestep/internal/expr"
	"github.com/v0xg/pagestep/internal/page"
	"github.com/v0xg/pagestep/internal/vars"
)

// ErrNoPage is returned by element access before any page is loaded
var ErrNoPage = errors.New("no page loaded")

// Deps are the collaborators shared by every scenario of a run
type Deps struct {
	Driver     page.Driver
	Registry   *page.Registry
	Controller *page.Controller
	Properties config.Source
	Engine     expr.Engine
	Dates      *dates.Table
	Logger     logrus.FieldLogger
}

// Context is the state of one scenario
type Context struct {
	Name         string
	Vars         *vars.Store
	Interpolator *vars.Interpolator
	Evaluator    *expr.Evaluator
	Dates        *dates.Table
	Controller   *page.Controller
	Driver       page.Driver
	Registry     *page.Registry
	Logger       logrus.FieldLogger

	// Page is the currently loaded page object, nil before the first load
	// and after unload.
	Page *page.Page
}

// New returns a context with a fresh variable store
func New(name string, deps Deps) *Context {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	ctrl := deps.Controller
	if ctrl == nil {
		ctrl = page.NewController(log)
	}
	tbl := deps.Dates
	if tbl == nil {
		tbl = dates.Default
	}
	reg := deps.Registry
	if reg == nil {
		reg = page.NewRegistry()
	}

	store := vars.NewStore()
	return &Context{
		Name:         name,
		Vars:         store,
		Interpolator: &vars.Interpolator{Store: store, Fallback: deps.Properties},
		Evaluator:    &expr.Evaluator{Store: store, Engine: deps.Engine},
		Dates:        tbl,
		Controller:   ctrl,
		Driver:       deps.Driver,
		Registry:     reg,
		Logger:       log.WithField("scenario", name),
	}
}

// Load builds the named page and waits for its required elements
func (c *Context) Load(ctx context.Context, name string) error {
	def, err := c.Registry.Lookup(name)
	if err != nil {
		return err
	}
	p, err := c.Controller.Load(ctx, c.Driver, def)
	if err != nil {
		return err
	}
	c.Page = p
	return nil
}

// Unload waits for the current page to go away and forgets it
func (c *Context) Unload(ctx context.Context) error {
	if c.Page == nil {
		return ErrNoPage
	}
	if err := c.Controller.Unload(ctx, c.Driver, c.Page.Definition()); err != nil {
		return err
	}
	c.Page = nil
	return nil
}

// Settle waits for every element of the current page, optional ones included
func (c *Context) Settle(ctx context.Context) error {
	if c.Page == nil {
		return ErrNoPage
	}
	return c.Controller.WaitAll(ctx, c.Page)
}

// Element returns a named element of the current page
func (c *Context) Element(name string) (page.Element, error) {
	if c.Page == nil {
		return nil, ErrNoPage
	}
	return c.Page.Element(name)
}

// Expand interpolates {name} placeholders in s
func (c *Context) Expand(s string) (string, error) {
	return c.Interpolator.Interpolate(s)
}

// Date resolves a relative date phrase or a literal date
func (c *Context) Date(phrase string) (time.Time, error) {
	return c.Dates.Parse(phrase)
}

// Close clears the variables so nothing leaks into the next scenario
func (c *Context) Close() {
	c.Vars.Clear()
	c.Page = nil
}
