package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/v0xg/pagestep/internal/page"
)

const pollInterval = 200 * time.Millisecond

var errNotFound = errors.New("element not found")

// Driver resolves CSS selectors on one rod page. Handles are lazy: the DOM
// node is looked up again on every operation, so a handle survives re-renders.
type Driver struct {
	page *rod.Page
}

var _ page.Driver = (*Driver)(nil)

// Element returns a lazy handle for the first match of selector
func (d *Driver) Element(_ context.Context, selector string) (page.Element, error) {
	return &element{page: d.page, selector: selector}, nil
}

// Elements returns one handle per element currently matching selector
func (d *Driver) Elements(ctx context.Context, selector string) ([]page.Element, error) {
	els, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	out := make([]page.Element, len(els))
	for i := range els {
		out[i] = &element{page: d.page, selector: selector, index: i}
	}
	return out, nil
}

type element struct {
	page     *rod.Page
	selector string
	index    int
}

func (e *element) String() string {
	if e.index == 0 {
		return e.selector
	}
	return fmt.Sprintf("%s[%d]", e.selector, e.index)
}

// lookup finds the node without waiting
func (e *element) lookup(ctx context.Context) (*rod.Element, error) {
	els, err := e.page.Context(ctx).Elements(e.selector)
	if err != nil {
		return nil, err
	}
	if e.index >= len(els) {
		return nil, errNotFound
	}
	return els[e.index], nil
}

// visible reports whether the node exists and is rendered
func (e *element) visible(ctx context.Context) (bool, error) {
	el, err := e.lookup(ctx)
	if errors.Is(err, errNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return el.Visible()
}

func (e *element) Appear(ctx context.Context, timeout time.Duration) (page.WaitOutcome, error) {
	return poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		return e.visible(ctx)
	})
}

func (e *element) Disappear(ctx context.Context, timeout time.Duration) (page.WaitOutcome, error) {
	return poll(ctx, timeout, func(ctx context.Context) (bool, error) {
		v, err := e.visible(ctx)
		return !v, err
	})
}

// ready waits for the element to appear and returns the node
func (e *element) ready(ctx context.Context, timeout time.Duration) (*rod.Element, error) {
	outcome, err := e.Appear(ctx, timeout)
	if err != nil {
		return nil, err
	}
	if outcome == page.TimedOut {
		return nil, fmt.Errorf("%s: not visible after %s", e, timeout)
	}
	el, err := e.lookup(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e, err)
	}
	return el.Context(ctx).Timeout(timeout), nil
}

func (e *element) Click(ctx context.Context, timeout time.Duration) error {
	el, err := e.ready(ctx, timeout)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *element) Clear(ctx context.Context, timeout time.Duration) error {
	el, err := e.ready(ctx, timeout)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input("")
}

func (e *element) SendKeys(ctx context.Context, text string, timeout time.Duration) error {
	el, err := e.ready(ctx, timeout)
	if err != nil {
		return err
	}
	return el.Input(text)
}

func (e *element) Value(ctx context.Context, timeout time.Duration) (string, error) {
	el, err := e.ready(ctx, timeout)
	if err != nil {
		return "", err
	}
	v, err := el.Property("value")
	if err != nil {
		return "", err
	}
	if v.Nil() {
		return "", nil
	}
	return v.String(), nil
}

func (e *element) Text(ctx context.Context, timeout time.Duration) (string, error) {
	el, err := e.ready(ctx, timeout)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// poll checks cond until it holds or timeout elapses. Cancellation of the
// parent context is an error, not a timeout.
func poll(parent context.Context, timeout time.Duration, cond func(context.Context) (bool, error)) (page.WaitOutcome, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := cond(ctx)
		if ok && err == nil {
			return page.Satisfied, nil
		}
		if parent.Err() != nil {
			return page.TimedOut, parent.Err()
		}
		if err != nil && ctx.Err() == nil {
			return page.TimedOut, err
		}
		select {
		case <-ctx.Done():
			if parent.Err() != nil {
				return page.TimedOut, parent.Err()
			}
			return page.TimedOut, nil
		case <-ticker.C:
		}
	}
}
