// Package formula assembles scanned tokens into evaluable and display
// formulas and evaluates them once variable values are known.
package formula

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/samber/lo"

	"nickandperla.net/pochi/internal/token"
)

// ErrUnparsable is reported when there was no token sequence to assemble.
var ErrUnparsable = errors.New("could not parse formula")

var strayBraces = strings.NewReplacer("{", "", "}", "")

// Result is an assembled formula. It is not modified after Assemble returns.
type Result struct {
	// Variables holds every IDENT token in order, repeats included.
	Variables []token.Token `json:"variables" yaml:"variables"`
	// NonEvaluable uses bare codes: (PE/PT)*100
	NonEvaluable string `json:"non_evaluable_formula" yaml:"non_evaluable_formula"`
	// Evaluable uses placeholders: ({PE}/{PT})*100
	Evaluable string        `json:"evaluable_formula" yaml:"evaluable_formula"`
	Tokens    []token.Token `json:"tokens" yaml:"tokens"`
	Err       error         `json:"-" yaml:"-"`

	bridge *Bridge
}

// Assemble builds a Result from a scanned token sequence. A nil sequence
// means nothing was scanned and yields an empty Result carrying
// ErrUnparsable. The bridge backs EvaluateWith; it may be nil.
func Assemble(tokens []token.Token, bridge *Bridge) *Result {
	if tokens == nil {
		return &Result{
			Variables: []token.Token{},
			Tokens:    []token.Token{},
			Err:       ErrUnparsable,
			bridge:    bridge,
		}
	}

	var evaluable, nonEvaluable strings.Builder
	variables := []token.Token{}
	for _, tok := range tokens {
		if tok.Kind == token.IDENT {
			evaluable.WriteString("{" + tok.Code + "}")
			nonEvaluable.WriteString(tok.Code)
			variables = append(variables, tok)
			continue
		}
		lit := tok.Literal
		nonEvaluable.WriteString(lit)
		if tok.Kind == token.ILLEGAL {
			// Braces in the evaluable form belong to placeholders only.
			lit = strayBraces.Replace(lit)
		}
		evaluable.WriteString(lit)
	}

	return &Result{
		Variables:    variables,
		NonEvaluable: nonEvaluable.String(),
		Evaluable:    evaluable.String(),
		Tokens:       tokens,
		bridge:       bridge,
	}
}

// EvaluateWith substitutes values into the evaluable formula and evaluates
// it. A nil values slice yields a zero Evaluation without evaluating.
func (r *Result) EvaluateWith(values []Value) Evaluation {
	if values == nil {
		return Evaluation{}
	}
	if r.bridge == nil {
		return Evaluation{Err: ErrNoEvaluator}
	}
	return r.bridge.Evaluate(r.Evaluable, values)
}

// Codes returns the distinct variable codes in first-seen order.
func (r *Result) Codes() []string {
	return lo.Uniq(lo.Map(r.Variables, func(tok token.Token, _ int) string {
		return tok.Code
	}))
}

// Illegal returns the ILLEGAL tokens of the formula, if any.
func (r *Result) Illegal() []token.Token {
	return lo.Filter(r.Tokens, func(tok token.Token, _ int) bool {
		return tok.Kind == token.ILLEGAL
	})
}

// Sample is a trial evaluation with generated values.
type Sample struct {
	Values     []Value    `json:"values" yaml:"values"`
	Evaluation Evaluation `json:"evaluation" yaml:"evaluation"`
}

// Sample evaluates the formula with a random integer in [1, 100] for every
// variable occurrence. A nil rng uses the process-wide source.
func (r *Result) Sample(rng *rand.Rand) Sample {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	values := make([]Value, 0, len(r.Variables))
	for _, v := range r.Variables {
		values = append(values, Value{Code: v.Code, Value: float64(intN(100) + 1)})
	}
	return Sample{Values: values, Evaluation: r.EvaluateWith(values)}
}
