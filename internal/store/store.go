// Package store provides persistence for assembled formulas.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no formula is stored under a name.
var ErrNotFound = errors.New("formula not found")

// Record is a persisted formula.
type Record struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Literal      string    `json:"formula_literal" yaml:"formula_literal"`
	Evaluable    string    `json:"evaluable_formula" yaml:"evaluable_formula"`
	NonEvaluable string    `json:"non_evaluable_formula" yaml:"non_evaluable_formula"`
	Codes        []string  `json:"codes" yaml:"codes"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// Store is the interface for formula persistence.
type Store interface {
	// Get retrieves a formula by name. Returns ErrNotFound if absent.
	Get(name string) (*Record, error)
	// Put stores a formula by name, overwriting if it exists.
	Put(rec *Record) error
	// List returns every stored formula ordered by name.
	List() ([]*Record, error)
	// Delete removes a formula by name.
	Delete(name string) error
	// Close releases resources.
	Close() error
}

// stamp fills the ID and creation time of a record being stored for the
// first time.
func stamp(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}
