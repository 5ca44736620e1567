// Package expr evaluates author-written expressions with the scenario
// variables bound as globals.
//
// Expressions run with the full power of the embedded language. Only ever
// evaluate trusted scenario text, never input that came from outside the
// test suite.
package expr

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// Engine evaluates one expression against a set of bindings.
// Implementations must not keep state between calls.
type Engine interface {
	Eval(expression string, bindings map[string]any) (any, error)
}

// GojaEngine evaluates JavaScript expressions in a fresh goja runtime per call
type GojaEngine struct {
	// Timeout interrupts runaway expressions. Zero disables it.
	Timeout time.Duration
}

var _ Engine = GojaEngine{}

func (e GojaEngine) Eval(expression string, bindings map[string]any) (any, error) {
	rt := goja.New()
	rt.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	for name, v := range bindings {
		if err := rt.Set(name, v); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	if e.Timeout > 0 {
		timer := time.AfterFunc(e.Timeout, func() {
			rt.Interrupt(fmt.Sprintf("expression exceeded %s", e.Timeout))
		})
		defer timer.Stop()
	}

	v, err := rt.RunString(expression)
	if err != nil {
		return nil, err
	}
	return v.Export(), nil
}
