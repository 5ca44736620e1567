package page

import (
	"context"
	"time"
)

// Cardinality tells whether a field binds one element or an ordered list
type Cardinality int

const (
	Single Cardinality = iota
	List
)

func (c Cardinality) String() string {
	if c == List {
		return "list"
	}
	return "single"
}

// WaitOutcome is the result of a bounded appear/disappear wait
type WaitOutcome int

const (
	Satisfied WaitOutcome = iota
	TimedOut
)

// Element is an opaque handle to one on-screen control, supplied by a Driver
type Element interface {
	// Appear blocks until the element is visible or the timeout elapses.
	Appear(ctx context.Context, timeout time.Duration) (WaitOutcome, error)
	// Disappear blocks until the element is gone or hidden, or the timeout elapses.
	Disappear(ctx context.Context, timeout time.Duration) (WaitOutcome, error)
	Click(ctx context.Context, timeout time.Duration) error
	Clear(ctx context.Context, timeout time.Duration) error
	SendKeys(ctx context.Context, text string, timeout time.Duration) error
	Value(ctx context.Context, timeout time.Duration) (string, error)
	Text(ctx context.Context, timeout time.Duration) (string, error)
}

// Driver resolves locators into element handles
type Driver interface {
	Element(ctx context.Context, locator string) (Element, error)
	Elements(ctx context.Context, locator string) ([]Element, error)
}

// BindFunc resolves a field by hand instead of through its locator. It must
// return an Element for Single fields and a []Element or []any of elements for
// List fields.
// The returned value must be an Element, a []Element or a []any of Elements.
type BindFunc func(ctx context.Context, d Driver) (any, error)

// Field declares one named element of a page object
type Field struct {
	Name        string
	Locator     string // opaque to the catalog, interpreted by the Driver
	Optional    bool   // exempt from the load-time appear check
	Cardinality Cardinality
	Bind        BindFunc
}

// Definition is the declarative registration of one page-object type
type Definition struct {
	Name   string
	Fields []Field
}
