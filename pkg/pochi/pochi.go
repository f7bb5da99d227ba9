package pochi

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"nickandperla.net/pochi/internal/arith"
	"nickandperla.net/pochi/internal/formula"
	"nickandperla.net/pochi/internal/logs"
	"nickandperla.net/pochi/internal/sanitize"
	"nickandperla.net/pochi/internal/scanner"
	"nickandperla.net/pochi/internal/store"
)

// ErrNoStore is returned by persistence calls when no store is configured.
var ErrNoStore = errors.New("no store configured")

// Errors reported in results, re-exported for errors.Is.
var (
	ErrUnparsable         = formula.ErrUnparsable
	ErrUnresolvedVariable = formula.ErrUnresolvedVariable
	ErrNotFound           = store.ErrNotFound
)

// Runtime parses, evaluates and stores formulas. Every parse gets its own
// scanner, but a Runtime built WithSeed shares one random source and must
// not be used from several goroutines.
type Runtime struct {
	skipWords      []string
	strictSanitize bool
	scope          scanner.CollisionScope
	letters        scanner.LetterSource
	bridge         *formula.Bridge
	sample         bool
	rng            *rand.Rand

	store    store.Store
	storeErr error
	logger   *slog.Logger
}

// Parsed is a formula parsed from raw text.
type Parsed struct {
	*formula.Result
	// Literal is the sanitized text that was scanned.
	Literal string `json:"formula_literal" yaml:"formula_literal"`
	// Sample is set when sampling is enabled and the formula parsed.
	Sample *formula.Sample `json:"sample,omitempty" yaml:"sample,omitempty"`
}

// New creates a new runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		strictSanitize: true,
		bridge:         formula.NewBridge(arith.New()),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logs.Discard()
	}
	if r.storeErr != nil {
		r.logger.Warn("open store", "error", r.storeErr)
	}
	return r
}

func (r *Runtime) scannerOptions() []scanner.Option {
	opts := []scanner.Option{
		scanner.WithSkipWords(r.skipWords...),
		scanner.WithCollisionScope(r.scope),
	}
	if r.letters != nil {
		opts = append(opts, scanner.WithLetterSource(r.letters))
	}
	return opts
}

// Sanitize normalizes raw text the way ParseFormula does before scanning.
func (r *Runtime) Sanitize(text string) string {
	return sanitize.Formula(text, r.strictSanitize)
}

// Parse scans text into tokens. It returns nil when text is empty.
// Text is scanned as given; see ParseFormula for sanitized parsing.
func (r *Runtime) Parse(text string) []Token {
	tokens, ok := scanner.Tokenize(text, r.scannerOptions()...)
	if !ok {
		return nil
	}
	return tokens
}

// GetVariables assembles tokens into a Result. Nil tokens yield a Result
// whose Err is ErrUnparsable.
func (r *Runtime) GetVariables(tokens []Token) *Result {
	return formula.Assemble(tokens, r.bridge)
}

// ParseFormula sanitizes, scans and assembles text.
func (r *Runtime) ParseFormula(text string) *Parsed {
	literal := r.Sanitize(text)
	res := r.GetVariables(r.Parse(literal))
	p := &Parsed{Result: res, Literal: literal}

	if res.Err != nil {
		r.logger.Debug("parse formula", "error", res.Err)
		return p
	}
	if bad := res.Illegal(); len(bad) > 0 {
		r.logger.Warn("illegal characters in formula", "formula", literal, "count", len(bad))
	}
	r.logger.Debug("parse formula", "formula", literal, "evaluable", res.Evaluable)

	if r.sample {
		s := res.Sample(r.rng)
		p.Sample = &s
	}
	return p
}

// Evaluate substitutes values into an evaluable formula and evaluates it.
func (r *Runtime) Evaluate(evaluable string, values []Value) Evaluation {
	ev := r.bridge.Evaluate(evaluable, values)
	if len(ev.Missing) > 0 {
		r.logger.Warn("variables without value", "codes", ev.Missing, "strict", r.bridge.Strict)
	}
	if ev.Err != nil {
		r.logger.Debug("evaluate", "formula", ev.Replaced, "error", ev.Err)
	}
	return ev
}

func (r *Runtime) requireStore() error {
	if r.store != nil {
		return nil
	}
	if r.storeErr != nil {
		return fmt.Errorf("%w: %v", ErrNoStore, r.storeErr)
	}
	return ErrNoStore
}

// Save stores a parsed formula under name.
func (r *Runtime) Save(name string, p *Parsed) (*Record, error) {
	if err := r.requireStore(); err != nil {
		return nil, err
	}
	if p.Err != nil {
		return nil, fmt.Errorf("save %s: %w", name, p.Err)
	}
	rec := &Record{
		Name:         name,
		Literal:      p.Literal,
		Evaluable:    p.Evaluable,
		NonEvaluable: p.NonEvaluable,
		Codes:        p.Codes(),
	}
	if err := r.store.Put(rec); err != nil {
		return nil, fmt.Errorf("save %s: %w", name, err)
	}
	r.logger.Info("saved formula", "name", name, "id", rec.ID)
	return rec, nil
}

// SaveRecord stores a copy of a previously saved formula under name. The
// copy gets a new ID and timestamp.
func (r *Runtime) SaveRecord(name string, from *Record) (*Record, error) {
	if err := r.requireStore(); err != nil {
		return nil, err
	}
	rec := &Record{
		Name:         name,
		Literal:      from.Literal,
		Evaluable:    from.Evaluable,
		NonEvaluable: from.NonEvaluable,
		Codes:        append([]string(nil), from.Codes...),
	}
	if err := r.store.Put(rec); err != nil {
		return nil, fmt.Errorf("save %s: %w", name, err)
	}
	r.logger.Info("saved formula", "name", name, "id", rec.ID, "from", from.Name)
	return rec, nil
}

// Load retrieves a saved formula.
func (r *Runtime) Load(name string) (*Record, error) {
	if err := r.requireStore(); err != nil {
		return nil, err
	}
	rec, err := r.store.Get(name)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return rec, nil
}

// List returns every saved formula.
func (r *Runtime) List() ([]*Record, error) {
	if err := r.requireStore(); err != nil {
		return nil, err
	}
	return r.store.List()
}

// Delete removes a saved formula.
func (r *Runtime) Delete(name string) error {
	if err := r.requireStore(); err != nil {
		return err
	}
	if err := r.store.Delete(name); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	r.logger.Info("deleted formula", "name", name)
	return nil
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}
