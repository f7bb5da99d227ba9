// Package pochi provides the public API for turning natural-language
// formulas into evaluable expressions.
package pochi

import (
	"log/slog"
	"math/rand/v2"

	"nickandperla.net/pochi/internal/config"
	"nickandperla.net/pochi/internal/formula"
	"nickandperla.net/pochi/internal/scanner"
	"nickandperla.net/pochi/internal/store"
	"nickandperla.net/pochi/internal/token"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithConfig applies settings loaded from config files. The store is not
// opened here; use WithSQLiteStore(cfg.DB) for that.
func WithConfig(cfg config.Config) Option {
	return func(r *Runtime) {
		r.skipWords = cfg.SkipWords
		r.strictSanitize = cfg.StrictSanitize
		r.bridge.Strict = cfg.StrictValues
		r.sample = cfg.Sample
		if scope, ok := scanner.ParseCollisionScope(cfg.CollisionScope); ok {
			r.scope = scope
		}
	}
}

// WithSkipWords sets the words left out of variable codes.
func WithSkipWords(words ...string) Option {
	return func(r *Runtime) {
		r.skipWords = words
	}
}

// WithStrictSanitize also strips , . ; [ ] { } before scanning.
func WithStrictSanitize(strict bool) Option {
	return func(r *Runtime) {
		r.strictSanitize = strict
	}
}

// WithStrictValues makes evaluation fail when a variable has no value
// instead of substituting 0.
func WithStrictValues(strict bool) Option {
	return func(r *Runtime) {
		r.bridge.Strict = strict
	}
}

// WithCollisionScope sets how colliding variable codes are detected.
func WithCollisionScope(scope CollisionScope) Option {
	return func(r *Runtime) {
		r.scope = scope
	}
}

// WithLetterSource sets the letters appended to colliding codes.
func WithLetterSource(src scanner.LetterSource) Option {
	return func(r *Runtime) {
		r.letters = src
	}
}

// WithSeed makes collision letters and sample values deterministic.
func WithSeed(seed uint64) Option {
	return func(r *Runtime) {
		r.letters = scanner.SeededLetters(seed)
		r.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithEvaluator replaces the arithmetic evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(r *Runtime) {
		r.bridge.Evaluator = e
	}
}

// WithSample evaluates every parsed formula with generated values.
func WithSample(sample bool) Option {
	return func(r *Runtime) {
		r.sample = sample
	}
}

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			r.storeErr = err
			return
		}
		r.store = s
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithStore configures a custom store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// Token is a scanned formula token.
type Token = token.Token

// Result is an assembled formula.
type Result = formula.Result

// Value is the value of one variable code.
type Value = formula.Value

// Evaluation is the outcome of evaluating a formula.
type Evaluation = formula.Evaluation

// Evaluator evaluates plain arithmetic expressions.
type Evaluator = formula.Evaluator

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc = formula.EvaluatorFunc

// Store interface for custom stores.
type Store = store.Store

// Record is a saved formula.
type Record = store.Record

// CollisionScope selects how colliding codes are detected.
type CollisionScope = scanner.CollisionScope

// Collision scope constants.
const (
	Adjacent = scanner.Adjacent
	Global   = scanner.Global
)
