// Package pagetest provides an in-memory page.Driver for tests.
package pagetest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/v0xg/pagestep/internal/page"
)

// Element is a scripted element handle. Waits never sleep: they succeed or
// time out immediately depending on Visible.
type Element struct {
	Locator string
	Visible bool
	Content string
	Input   string

	AppearCalls    int
	DisappearCalls int
	Clicks         int
	LastTimeout    time.Duration
}

var _ page.Element = (*Element)(nil)

func (e *Element) Appear(_ context.Context, timeout time.Duration) (page.WaitOutcome, error) {
	e.AppearCalls++
	e.LastTimeout = timeout
	if e.Visible {
		return page.Satisfied, nil
	}
	return page.TimedOut, nil
}

func (e *Element) Disappear(_ context.Context, timeout time.Duration) (page.WaitOutcome, error) {
	e.DisappearCalls++
	e.LastTimeout = timeout
	if e.Visible {
		return page.TimedOut, nil
	}
	return page.Satisfied, nil
}

func (e *Element) Click(context.Context, time.Duration) error {
	if !e.Visible {
		return fmt.Errorf("%s: not visible", e.Locator)
	}
	e.Clicks++
	return nil
}

func (e *Element) Clear(context.Context, time.Duration) error {
	e.Input = ""
	return nil
}

func (e *Element) SendKeys(_ context.Context, text string, _ time.Duration) error {
	e.Input += text
	return nil
}

func (e *Element) Value(context.Context, time.Duration) (string, error) {
	return e.Input, nil
}

func (e *Element) Text(context.Context, time.Duration) (string, error) {
	return e.Content, nil
}

// Driver resolves locators against a fixed set of elements
type Driver struct {
	Nodes   map[string][]*Element
	Visited []string
	lookups int
}

var _ page.Driver = (*Driver)(nil)

// NewDriver returns an empty driver
func NewDriver() *Driver {
	return &Driver{Nodes: map[string][]*Element{}}
}

// Add registers elements under a locator and returns the first one
func (d *Driver) Add(locator string, visible ...bool) *Element {
	if len(visible) == 0 {
		visible = []bool{true}
	}
	for _, v := range visible {
		d.Nodes[locator] = append(d.Nodes[locator], &Element{Locator: locator, Visible: v})
	}
	return d.Nodes[locator][0]
}

// Get returns the i-th element registered under locator
func (d *Driver) Get(locator string, i int) *Element {
	return d.Nodes[locator][i]
}

// Lookups counts Element and Elements calls
func (d *Driver) Lookups() int {
	return d.lookups
}

func (d *Driver) Element(_ context.Context, locator string) (page.Element, error) {
	d.lookups++
	if strings.HasPrefix(locator, "!") {
		return nil, fmt.Errorf("driver fault for %s", locator)
	}
	if els := d.Nodes[locator]; len(els) > 0 {
		return els[0], nil
	}
	// Lazy handle for something not on the page yet.
	el := &Element{Locator: locator}
	d.Nodes[locator] = []*Element{el}
	return el, nil
}

func (d *Driver) Elements(_ context.Context, locator string) ([]page.Element, error) {
	d.lookups++
	els := d.Nodes[locator]
	out := make([]page.Element, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out, nil
}

// Navigate records a visited URL
func (d *Driver) Navigate(_ context.Context, url string) error {
	d.Visited = append(d.Visited, url)
	return nil
}
