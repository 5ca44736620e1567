package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/v0xg/pagestep/internal/dates"
	"github.com/v0xg/pagestep/internal/scenario"
	"github.com/v0xg/pagestep/internal/snapshot"
)

// Navigator opens URLs in the browser under test
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// Screenshotter captures the viewport as PNG
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// Options configures step execution
type Options struct {
	StepTimeout   time.Duration // per element operation
	DateLayout    string
	DateLocale    string
	ScreenshotDir string // empty disables failure screenshots
}

// StepError locates a failed step. Err is the underlying typed error.
type StepError struct {
	Scenario string
	Index    int // 1-based
	Step     Step
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("scenario %q step %d (%s): %v", e.Scenario, e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one scenario
type Result struct {
	Scenario   string
	Err        error
	Duration   time.Duration
	Screenshot string
}

// Runner executes scenarios, each in its own scenario.Context
type Runner struct {
	Deps      scenario.Deps
	Navigator Navigator
	Screens   Screenshotter
	Options   Options
	Logger    logrus.FieldLogger
}

// RunAll runs every scenario and reports each outcome. A failing scenario
// does not stop the following ones.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) []Result {
	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		start := time.Now()
		shot, err := r.Run(ctx, sc)
		results = append(results, Result{
			Scenario:   sc.Name,
			Err:        err,
			Duration:   time.Since(start),
			Screenshot: shot,
		})
	}
	return results
}

// Run executes one scenario and stops at the first failing step. It returns
// the path of the failure screenshot, if one was taken.
func (r *Runner) Run(ctx context.Context, sc Scenario) (string, error) {
	deps := r.Deps
	deps.Logger = r.log()
	c := scenario.New(sc.Name, deps)
	defer c.Close()

	all := sc.Steps
	if sc.URL != "" {
		all = append([]Step{{Action: "open", URL: sc.URL}}, all...)
	}

	for i, st := range all {
		log := c.Logger.WithFields(logrus.Fields{"step": i + 1, "action": st.Action})
		if err := r.Exec(ctx, c, st); err != nil {
			log.WithError(err).Error(st.String())
			return r.capture(ctx, sc.Name, i+1), &StepError{Scenario: sc.Name, Index: i + 1, Step: st, Err: err}
		}
		log.Debug(st.String())
	}
	return "", nil
}

// Exec performs a single step against c
func (r *Runner) Exec(ctx context.Context, c *scenario.Context, st Step) error {
	if err := st.Validate(); err != nil {
		return err
	}
	timeout := r.stepTimeout()

	switch st.Action {
	case "open":
		if r.Navigator == nil {
			return fmt.Errorf("open: no browser")
		}
		url, err := c.Expand(st.URL)
		if err != nil {
			return err
		}
		return r.Navigator.Navigate(ctx, url)
	case "load":
		return c.Load(ctx, st.Page)
	case "unload":
		return c.Unload(ctx)
	case "settle":
		return c.Settle(ctx)
	case "click":
		el, err := c.Element(st.Element)
		if err != nil {
			return err
		}
		return el.Click(ctx, timeout)
	case "clear":
		el, err := c.Element(st.Element)
		if err != nil {
			return err
		}
		return el.Clear(ctx, timeout)
	case "type":
		text, err := r.value(c, st)
		if err != nil {
			return err
		}
		el, err := c.Element(st.Element)
		if err != nil {
			return err
		}
		if err := el.Clear(ctx, timeout); err != nil {
			return err
		}
		return el.SendKeys(ctx, text, timeout)
	case "set":
		text, err := r.value(c, st)
		if err != nil {
			return err
		}
		c.Vars.Put(st.Var, text)
		return nil
	case "eval":
		v, err := c.Evaluator.Evaluate(st.Expr)
		if err != nil {
			return err
		}
		c.Logger.WithField("result", v).Debug("evaluated")
		if st.Var != "" {
			c.Vars.Put(st.Var, v)
		}
		return nil
	case "remember":
		got, err := r.read(ctx, c, st)
		if err != nil {
			return err
		}
		c.Vars.Put(st.Var, got)
		return nil
	case "expect":
		want, err := r.value(c, st)
		if err != nil {
			return err
		}
		got, err := r.read(ctx, c, st)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("%s: expected %q, got %q", st.Element, want, got)
		}
		return nil
	case "wait":
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(st.Wait) * time.Millisecond):
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", st.Action)
}

// value is the interpolated text of a step, or its formatted date
func (r *Runner) value(c *scenario.Context, st Step) (string, error) {
	if st.Date != "" {
		d, err := c.Date(st.Date)
		if err != nil {
			return "", err
		}
		return dates.Format(d, r.Options.DateLayout, r.Options.DateLocale), nil
	}
	return c.Expand(st.Text)
}

func (r *Runner) read(ctx context.Context, c *scenario.Context, st Step) (string, error) {
	el, err := c.Element(st.Element)
	if err != nil {
		return "", err
	}
	switch st.Read {
	case "", "text":
		return el.Text(ctx, r.stepTimeout())
	case "value":
		return el.Value(ctx, r.stepTimeout())
	default:
		return "", fmt.Errorf("cannot read %q of %s", st.Read, st.Element)
	}
}

// capture saves a screenshot of a failed step; failures here are only logged
func (r *Runner) capture(ctx context.Context, name string, step int) string {
	if r.Screens == nil || r.Options.ScreenshotDir == "" {
		return ""
	}
	data, err := r.Screens.Screenshot(ctx)
	if err != nil {
		r.log().WithError(err).Warn("failure screenshot")
		return ""
	}
	path, err := snapshot.Save(data, r.Options.ScreenshotDir, fmt.Sprintf("%s-step%d", name, step), snapshot.DefaultMaxWidth)
	if err != nil {
		r.log().WithError(err).Warn("failure screenshot")
		return ""
	}
	return path
}

func (r *Runner) stepTimeout() time.Duration {
	if r.Options.StepTimeout > 0 {
		return r.Options.StepTimeout
	}
	return 4 * time.Second
}

func (r *Runner) log() logrus.FieldLogger {
	if r.Logger != nil {
		return r.Logger
	}
	return logrus.StandardLogger()
}
