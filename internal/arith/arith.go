// Package arith evaluates plain arithmetic expressions such as
// "(10/100)*100" using decimal arithmetic.
//
// Precedence, lowest first: + -, * /, unary + -, ^ (right-associative).
package arith

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

var (
	// ErrSyntax is reported for malformed expressions.
	ErrSyntax = errors.New("syntax error")
	// ErrDivisionByZero is reported when a divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrUndefined is reported for results with no finite value, such as
	// 0/0 or a negative base raised to a fractional power.
	ErrUndefined = errors.New("undefined result")
)

// Precision is the number of significant digits used for intermediate
// results.
const Precision = 34

// Evaluator evaluates arithmetic expressions. The zero value is not usable;
// use New.
type Evaluator struct {
	ctx *apd.Context
}

// New creates an Evaluator.
func New() *Evaluator {
	return &Evaluator{ctx: apd.BaseContext.WithPrecision(Precision)}
}

// Evaluate returns the value of expr.
func (e *Evaluator) Evaluate(expr string) (float64, error) {
	d, err := e.EvaluateDecimal(expr)
	if err != nil {
		return 0, err
	}
	f, err := d.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUndefined, err)
	}
	return f, nil
}

// EvaluateDecimal returns the exact decimal value of expr.
func (e *Evaluator) EvaluateDecimal(expr string) (*apd.Decimal, error) {
	items, err := lex(expr)
	if err != nil {
		return nil, err
	}
	p := &parser{items: items, ctx: e.ctx}
	d, err := p.parseAddition()
	if err != nil {
		return nil, err
	}
	if it := p.peek(); it.kind != itemEOF {
		return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, it.value, it.pos)
	}
	d.Reduce(d)
	return d, nil
}

type itemKind int

const (
	itemEOF itemKind = iota
	itemNumber
	itemOp
	itemLParen
	itemRParen
)

type item struct {
	kind  itemKind
	value string
	pos   int
}

func lex(expr string) ([]item, error) {
	var items []item
	for i := 0; i < len(expr); {
		ch := expr[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			items = append(items, item{kind: itemLParen, value: "(", pos: i})
			i++
		case ch == ')':
			items = append(items, item{kind: itemRParen, value: ")", pos: i})
			i++
		case strings.IndexByte("+-*/^", ch) >= 0:
			items = append(items, item{kind: itemOp, value: string(ch), pos: i})
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			for i < len(expr) && (expr[i] >= '0' && expr[i] <= '9' || expr[i] == '.') {
				i++
			}
			items = append(items, item{kind: itemNumber, value: expr[start:i], pos: start})
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, ch, i)
		}
	}
	return append(items, item{kind: itemEOF, pos: len(expr)}), nil
}

type parser struct {
	items []item
	pos   int
	ctx   *apd.Context
}

func (p *parser) peek() item {
	return p.items[p.pos]
}

func (p *parser) next() item {
	it := p.items[p.pos]
	if it.kind != itemEOF {
		p.pos++
	}
	return it
}

func (p *parser) isOp(ops string) (string, bool) {
	it := p.peek()
	if it.kind == itemOp && strings.Contains(ops, it.value) {
		return it.value, true
	}
	return "", false
}

// parseAddition handles addition and subtraction
func (p *parser) parseAddition() (*apd.Decimal, error) {
	left, err := p.parseMultiplication()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp("+-")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplication()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			_, err = p.ctx.Add(left, left, right)
		} else {
			_, err = p.ctx.Sub(left, left, right)
		}
		if err != nil {
			return nil, p.wrap(err)
		}
	}
}

// parseMultiplication handles multiplication and division
func (p *parser) parseMultiplication() (*apd.Decimal, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.isOp("*/")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		var cond apd.Condition
		if op == "*" {
			cond, err = p.ctx.Mul(left, left, right)
		} else {
			if right.IsZero() {
				if left.IsZero() {
					return nil, fmt.Errorf("%w: 0/0", ErrUndefined)
				}
				return nil, ErrDivisionByZero
			}
			cond, err = p.ctx.Quo(left, left, right)
		}
		if err != nil {
			return nil, p.wrapCond(cond, err)
		}
	}
}

// parseUnary handles unary operators; they bind looser than ^ so -2^2 is -4.
func (p *parser) parseUnary() (*apd.Decimal, error) {
	if op, ok := p.isOp("+-"); ok {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			operand.Neg(operand)
		}
		return operand, nil
	}
	return p.parsePower()
}

// parsePower handles exponentiation, right-associative
func (p *parser) parsePower() (*apd.Decimal, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, ok := p.isOp("^"); !ok {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if base.IsZero() && exp.Negative {
		return nil, ErrDivisionByZero
	}
	res := new(apd.Decimal)
	cond, err := p.ctx.Pow(res, base, exp)
	if err != nil {
		return nil, p.wrapCond(cond, err)
	}
	return res, nil
}

func (p *parser) parsePrimary() (*apd.Decimal, error) {
	it := p.next()
	switch it.kind {
	case itemNumber:
		d, _, err := apd.NewFromString(it.value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %q at %d", ErrSyntax, it.value, it.pos)
		}
		return d, nil

	case itemLParen:
		d, err := p.parseAddition()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != itemRParen {
			return nil, fmt.Errorf("%w: expected ')' at %d", ErrSyntax, closing.pos)
		}
		return d, nil

	case itemEOF:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	return nil, fmt.Errorf("%w: unexpected %q at %d", ErrSyntax, it.value, it.pos)
}

func (p *parser) wrap(err error) error {
	return fmt.Errorf("%w: %v", ErrUndefined, err)
}

func (p *parser) wrapCond(cond apd.Condition, err error) error {
	if cond.DivisionByZero() {
		return ErrDivisionByZero
	}
	return p.wrap(err)
}
