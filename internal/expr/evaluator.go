package expr

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/v0xg/pagestep/internal/vars"
)

// significantDigits bounds the precision of fractional results, enough to
// hide binary representation noise such as 0.1 + 0.2 = 0.30000000000000004
const significantDigits = 15

// decimalLiteral matches plain decimal numbers: no hex, no NaN or Inf
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// EvaluationError carries the expression text of a failed evaluation
type EvaluationError struct {
	Expression string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %q: %v", e.Expression, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Evaluator binds the variables of a store into an Engine
type Evaluator struct {
	Store  *vars.Store
	Engine Engine
}

// NewEvaluator returns an evaluator backed by a goja engine
func NewEvaluator(s *vars.Store) *Evaluator {
	return &Evaluator{Store: s, Engine: GojaEngine{}}
}

// Evaluate runs expression with every stored variable bound under its own
// name. Values whose string form is a decimal number are bound as numbers
// (see Coerce); everything else is bound unchanged. Fractional numeric results
// are rounded to 15 significant digits.
func (ev *Evaluator) Evaluate(expression string) (any, error) {
	bindings := make(map[string]any)
	if ev.Store != nil {
		ev.Store.Each(func(name string, v any) {
			bindings[name] = Coerce(v)
		})
	}

	engine := ev.Engine
	if engine == nil {
		engine = GojaEngine{}
	}
	result, err := engine.Eval(expression, bindings)
	if err != nil {
		return nil, &EvaluationError{Expression: expression, Err: err}
	}
	if f, ok := result.(float64); ok {
		return settle(f), nil
	}
	return result, nil
}

func settle(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) || f == math.Trunc(f) {
		return f
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', significantDigits, 64), 64)
	if err != nil {
		return f
	}
	return r
}

// Coerce returns v as a float64 when its string form is a decimal literal that
// float64 holds without losing digits. Literals it cannot hold, such as
// integers wider than 2^53, are returned unchanged.
func Coerce(v any) any {
	if v == nil {
		return nil
	}
	s := fmt.Sprint(v)
	if !decimalLiteral.MatchString(s) {
		return v
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return v
	}
	f := d.InexactFloat64()
	if !decimal.NewFromFloat(f).Equal(d) {
		return v
	}
	return f
}
