package page

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultLoadTimeout   = 8 * time.Second
	DefaultUnloadTimeout = 5 * time.Second
	DefaultSettleTimeout = 10 * time.Second
)

// Controller drives the appear/disappear waits of page objects.
// Each wait is synchronous and bounded by its own timeout.
type Controller struct {
	LoadTimeout   time.Duration
	UnloadTimeout time.Duration
	SettleTimeout time.Duration
	Logger        logrus.FieldLogger
}

// NewController returns a controller with the default timeouts
func NewController(log logrus.FieldLogger) *Controller {
	return &Controller{
		LoadTimeout:   DefaultLoadTimeout,
		UnloadTimeout: DefaultUnloadTimeout,
		SettleTimeout: DefaultSettleTimeout,
		Logger:        orDiscard(log),
	}
}

// Load builds a fresh catalog and waits for every required element to appear.
// Optional fields are not polled. Members of list fields are polled one by one.
func (c *Controller) Load(ctx context.Context, d Driver, def *Definition) (*Page, error) {
	catalog, err := Build(ctx, d, def, c.log())
	if err != nil {
		return nil, err
	}
	p := &Page{def: def, catalog: catalog}

	log := c.log().WithField("page", def.Name)
	var missing []string
	for _, name := range catalog.order {
		e := catalog.entries[name]
		if e.Field.Optional {
			log.WithField("element", name).Debug("optional, skipping appear check")
			continue
		}
		miss, err := appearAll(ctx, name, e.Elements, c.loadTimeout())
		if err != nil {
			return nil, fmt.Errorf("page %q: wait for %q: %w", def.Name, name, err)
		}
		missing = append(missing, miss...)
	}
	if len(missing) > 0 {
		return nil, &NotReadyError{Page: def.Name, Elements: missing}
	}

	log.Debug("page loaded")
	return p, nil
}

// Unload rebuilds the catalog and waits for every element to disappear.
// Timeouts are expected during teardown and are only logged.
func (c *Controller) Unload(ctx context.Context, d Driver, def *Definition) error {
	catalog, err := Build(ctx, d, def, c.log())
	if err != nil {
		return err
	}

	log := c.log().WithField("page", def.Name)
	for _, name := range catalog.order {
		for _, el := range catalog.entries[name].Elements {
			outcome, err := el.Disappear(ctx, c.unloadTimeout())
			if err != nil {
				return fmt.Errorf("page %q: wait for %q to disappear: %w", def.Name, name, err)
			}
			if outcome == TimedOut {
				log.WithField("element", name).Debug("still visible after unload timeout")
			}
		}
	}

	log.Debug("page unloaded")
	return nil
}

// WaitAll waits for every element of the page, optional ones included, to
// appear. It is meant for pages that populate asynchronously after load.
func (c *Controller) WaitAll(ctx context.Context, p *Page) error {
	var missing []string
	for _, name := range p.catalog.order {
		miss, err := appearAll(ctx, name, p.catalog.entries[name].Elements, c.settleTimeout())
		if err != nil {
			return fmt.Errorf("page %q: wait for %q: %w", p.Name(), name, err)
		}
		missing = append(missing, miss...)
	}
	if len(missing) > 0 {
		return &NotReadyError{Page: p.Name(), Elements: missing}
	}
	return nil
}

// appearAll returns the labels of the elements that timed out
func appearAll(ctx context.Context, name string, elems []Element, timeout time.Duration) ([]string, error) {
	var missing []string
	for i, el := range elems {
		outcome, err := el.Appear(ctx, timeout)
		if err != nil {
			return nil, err
		}
		if outcome == TimedOut {
			label := name
			if len(elems) > 1 {
				label = fmt.Sprintf("%s[%d]", name, i)
			}
			missing = append(missing, label)
		}
	}
	return missing, nil
}

func (c *Controller) log() logrus.FieldLogger {
	return orDiscard(c.Logger)
}

func (c *Controller) loadTimeout() time.Duration {
	if c.LoadTimeout > 0 {
		return c.LoadTimeout
	}
	return DefaultLoadTimeout
}

func (c *Controller) unloadTimeout() time.Duration {
	if c.UnloadTimeout > 0 {
		return c.UnloadTimeout
	}
	return DefaultUnloadTimeout
}

func (c *Controller) settleTimeout() time.Duration {
	if c.SettleTimeout > 0 {
		return c.SettleTimeout
	}
	return DefaultSettleTimeout
}
