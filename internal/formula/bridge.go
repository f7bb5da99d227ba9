package formula

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/samber/lo"
)

var (
	// ErrUnresolvedVariable is reported by a strict Bridge when a placeholder
	// has no value.
	ErrUnresolvedVariable = errors.New("unresolved variable")
	// ErrNoEvaluator is reported when evaluation is requested without one.
	ErrNoEvaluator = errors.New("no evaluator configured")
)

var placeholder = regexp.MustCompile(`\{([A-Za-z0-9_]*)\}`)

// Evaluator computes the value of a plain arithmetic expression over
// numbers and + - * / ^ ( ).
type Evaluator interface {
	Evaluate(expr string) (float64, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(expr string) (float64, error)

// Evaluate calls f(expr).
func (f EvaluatorFunc) Evaluate(expr string) (float64, error) {
	return f(expr)
}

// Value is the value supplied for one variable code.
type Value struct {
	Code  string  `json:"code" yaml:"code"`
	Value float64 `json:"value" yaml:"value"`
}

// Evaluation is the outcome of evaluating a formula.
type Evaluation struct {
	Data float64 `json:"data" yaml:"data"`
	Err  error   `json:"-" yaml:"-"`
	// Replaced is the substituted formula followed by " = " and the result.
	// It is reported even when evaluation failed; Data is then 0 and the
	// result reads NaN, as in "1/0 = NaN".
	Replaced string `json:"replaced_formula" yaml:"replaced_formula"`
	// Missing lists the codes that had no value and were substituted with 0.
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Bridge substitutes values into evaluable formulas and hands the result to
// an Evaluator.
type Bridge struct {
	Evaluator Evaluator
	// Strict reports ErrUnresolvedVariable instead of substituting 0.
	Strict bool
}

// NewBridge creates a Bridge using e.
func NewBridge(e Evaluator) *Bridge {
	return &Bridge{Evaluator: e}
}

// Substitute replaces every {CODE} placeholder in evaluable with its value.
// The returned slice holds the codes that had no value; each was replaced
// with 0.
func Substitute(evaluable string, values []Value) (string, []string) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(evaluable, func(m string) string {
		code := m[1 : len(m)-1]
		v, ok := lo.Find(values, func(v Value) bool { return v.Code == code })
		if !ok {
			missing = append(missing, code)
			return "0"
		}
		return FormatNumber(v.Value)
	})
	return out, lo.Uniq(missing)
}

// Evaluate substitutes values into evaluable and evaluates it. A nil values
// slice yields a zero Evaluation without calling the evaluator.
func (b *Bridge) Evaluate(evaluable string, values []Value) Evaluation {
	if values == nil {
		return Evaluation{}
	}

	replaced, missing := Substitute(evaluable, values)
	ev := Evaluation{Missing: missing}

	if b.Strict && len(missing) > 0 {
		ev.Err = fmt.Errorf("%w: %v", ErrUnresolvedVariable, missing)
		ev.Replaced = replaced + " = NaN"
		return ev
	}
	if b.Evaluator == nil {
		ev.Err = ErrNoEvaluator
		ev.Replaced = replaced + " = NaN"
		return ev
	}

	data, err := b.Evaluator.Evaluate(replaced)
	if err != nil {
		ev.Err = fmt.Errorf("evaluate %q: %w", replaced, err)
		ev.Replaced = replaced + " = NaN"
		return ev
	}
	ev.Data = data
	ev.Replaced = replaced + " = " + FormatNumber(data)
	return ev
}

// FormatNumber renders v in the shortest decimal form: 10, 0.1, -2.5.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
