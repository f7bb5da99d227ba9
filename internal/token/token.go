// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines formula token kinds and the token record.
package token

// Kind represents a formula token type.
type Kind int

const (
	EOF Kind = iota
	ILLEGAL

	// Literals
	NUMBER // 100
	IDENT  // Proyectos evaluados

	// Operators
	EQUAL  // =
	LPAREN // (
	RPAREN // )
	PLUS   // +
	MINUS  // -
	DIV    // /
	MULT   // *
	POW    // ^
)

// Token is a scanned formula token.
//
// Literal is the exact text consumed from the input. For IDENT it is the
// whole multi-word phrase, interior (and trailing) spaces included. Code is
// only set for IDENT.
type Token struct {
	Kind    Kind   `json:"type" yaml:"type"`
	Literal string `json:"literal" yaml:"literal"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
}

var operators = map[string]Kind{
	"(": LPAREN,
	")": RPAREN,
	"/": DIV,
	"*": MULT,
	"-": MINUS,
	"+": PLUS,
	"=": EQUAL,
	"^": POW,
}

// Lookup returns the operator kind for a single-character literal.
// Anything not in the operator table is an identifier.
func Lookup(literal string) Kind {
	if k, ok := operators[literal]; ok {
		return k
	}
	return IDENT
}

// IsOperator returns true if the byte is a formula operator.
func IsOperator(ch byte) bool {
	switch ch {
	case '=', '(', ')', '+', '-', '/', '*', '^':
		return true
	}
	return false
}

// String returns the string representation of a token kind.
func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case ILLEGAL:
		return "ILLEGAL"
	case NUMBER:
		return "NUMBER"
	case IDENT:
		return "IDENT"
	case EQUAL:
		return "EQUAL"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case DIV:
		return "DIV"
	case MULT:
		return "MULT"
	case POW:
		return "POW"
	}
	return "UNKNOWN"
}

// MarshalText renders the kind by name so serialized tokens stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsOperator returns true if the kind is one of the single-character operators.
func (k Kind) IsOperator() bool {
	switch k {
	case EQUAL, LPAREN, RPAREN, PLUS, MINUS, DIV, MULT, POW:
		return true
	}
	return false
}
