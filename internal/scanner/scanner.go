// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner provides the character lexer for natural-language formulas.
//
// A run of words such as "Proyectos evaluados" is absorbed into a single
// IDENT token whose code is the upper-cased first letter of every word that
// is not a skip word ("PE").
package scanner

import (
	"math/rand/v2"
	"strings"

	"nickandperla.net/pochi/internal/token"
)

// eof is the end-of-input sentinel held in ch.
const eof = 0

// LetterSource returns one upper-case ASCII letter per call. It is used to
// disambiguate colliding identifier codes.
type LetterSource func() byte

// RandomLetters draws letters from the process-wide random source.
func RandomLetters() LetterSource {
	return func() byte {
		return 'A' + byte(rand.IntN(26))
	}
}

// SeededLetters draws letters from a deterministic source.
func SeededLetters(seed uint64) LetterSource {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func() byte {
		return 'A' + byte(r.IntN(26))
	}
}

// CollisionScope selects which previously emitted codes a new code is
// checked against.
type CollisionScope int

const (
	// Adjacent compares only with the immediately preceding identifier.
	Adjacent CollisionScope = iota
	// Global compares with every code emitted by the scanner so far.
	Global
)

// ParseCollisionScope parses "adjacent" or "global".
func ParseCollisionScope(s string) (CollisionScope, bool) {
	switch strings.ToLower(s) {
	case "", "adjacent":
		return Adjacent, true
	case "global":
		return Global, true
	}
	return Adjacent, false
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSkipWords sets the words ignored when deriving identifier codes.
// Matching is case-insensitive.
func WithSkipWords(words ...string) Option {
	return func(s *Scanner) {
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			if s.skip == nil {
				s.skip = make(map[string]struct{})
			}
			s.skip[w] = struct{}{}
		}
	}
}

// WithLetterSource sets the source used for collision letters.
func WithLetterSource(src LetterSource) Option {
	return func(s *Scanner) {
		if src != nil {
			s.letters = src
		}
	}
}

// WithCollisionScope sets the collision scope.
func WithCollisionScope(scope CollisionScope) Option {
	return func(s *Scanner) {
		s.scope = scope
	}
}

// Scanner tokenizes one formula string byte-by-byte. A Scanner is owned by a
// single parse and must not be shared.
type Scanner struct {
	input        string
	position     int  // index of ch
	readPosition int  // index of the next byte to read
	ch           byte // current byte, eof at end of input

	prevCode string
	seen     map[string]struct{}

	skip    map[string]struct{}
	letters LetterSource
	scope   CollisionScope
}

// New creates a Scanner over input.
func New(input string, opts ...Option) *Scanner {
	s := &Scanner{
		input:   input,
		letters: RandomLetters(),
		seen:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.readChar()
	return s
}

// Tokenize scans text to completion and returns every token before EOF.
// It returns false when text is empty; nothing was scanned in that case.
func Tokenize(text string, opts ...Option) ([]token.Token, bool) {
	if text == "" {
		return nil, false
	}
	s := New(text, opts...)
	tokens := []token.Token{}
	for tok := s.Next(); tok.Kind != token.EOF; tok = s.Next() {
		tokens = append(tokens, tok)
	}
	return tokens, true
}

// Next returns the next token from the input. Once the input is exhausted
// it returns EOF on every call.
func (s *Scanner) Next() token.Token {
	s.skipWhitespace()

	switch {
	case s.position >= len(s.input):
		return token.Token{Kind: token.EOF}

	case token.IsOperator(s.ch):
		lit := string(s.ch)
		s.readChar()
		return token.Token{Kind: token.Lookup(lit), Literal: lit}

	case isLetter(s.ch):
		lit := s.readIdentifier()
		return token.Token{Kind: token.IDENT, Literal: lit, Code: s.codeFor(lit)}

	case isDigit(s.ch):
		return token.Token{Kind: token.NUMBER, Literal: s.readNumber()}
	}

	lit := string(s.ch)
	s.readChar()
	return token.Token{Kind: token.ILLEGAL, Literal: lit}
}

func (s *Scanner) readChar() {
	if s.readPosition >= len(s.input) {
		s.ch = eof
	} else {
		s.ch = s.input[s.readPosition]
	}
	s.position = s.readPosition
	if s.readPosition <= len(s.input) {
		s.readPosition++
	}
}

func (s *Scanner) skipWhitespace() {
	for isSpace(s.ch) {
		s.readChar()
	}
}

// readIdentifier consumes the leading word and then every following letter,
// digit or space, so a whole phrase becomes one literal.
func (s *Scanner) readIdentifier() string {
	start := s.position
	for isLetter(s.ch) {
		s.readChar()
	}
	for isLetter(s.ch) || isDigit(s.ch) || s.ch == ' ' {
		s.readChar()
	}
	return s.input[start:s.position]
}

func (s *Scanner) readNumber() string {
	start := s.position
	for isDigit(s.ch) {
		s.readChar()
	}
	return s.input[start:s.position]
}

// codeFor derives the identifier code for a phrase and records it for the
// next collision check.
func (s *Scanner) codeFor(phrase string) string {
	code := Acronym(phrase, s.skip)

	switch s.scope {
	case Global:
		base := code
		for tries := 0; s.collides(code); tries++ {
			if tries > 0 && tries%26 == 0 {
				base = code
			}
			code = base + string(s.letters())
		}
	default:
		if code == s.prevCode {
			code += string(s.letters())
		}
	}

	s.prevCode = code
	s.seen[code] = struct{}{}
	return code
}

func (s *Scanner) collides(code string) bool {
	_, ok := s.seen[code]
	return ok
}

// Acronym returns the upper-cased first letters of the words in phrase,
// ignoring words present in skip. If every word is a skip word the skip set
// is ignored so the code is never empty.
func Acronym(phrase string, skip map[string]struct{}) string {
	words := strings.FieldsFunc(phrase, func(r rune) bool { return r == ' ' })

	kept := words
	if len(skip) > 0 {
		kept = make([]string, 0, len(words))
		for _, w := range words {
			if _, ok := skip[strings.ToLower(w)]; !ok {
				kept = append(kept, w)
			}
		}
		if len(kept) == 0 {
			kept = words
		}
	}

	var sb strings.Builder
	for _, w := range kept {
		sb.WriteString(strings.ToUpper(w[:1]))
	}
	return sb.String()
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
