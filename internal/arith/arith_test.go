package arith

import (
	"errors"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"(10/100)*100", 10},
		{"10/100*100", 10},
		{"10/100", 0.1},
		{"(10-2)/100*100", 8},
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"2^3", 8},
		{"2^3^2", 512},
		{"-2^2", -4},
		{"2^-1", 0.5},
		{"-(3-5)", 2},
		{"--3", 3},
		{"+4", 4},
		{"5+0", 5},
		{" 1 + 1 ", 2},
		{"2.5*2", 5},
		{"1/3*3", 1},
		{"9^0.5", 3},
	}
	e := New()
	for _, tt := range tests {
		got, err := e.Evaluate(tt.expr)
		if err != nil {
			t.Errorf("Evaluate(%q): unexpected error: %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{"", ErrSyntax},
		{"1+", ErrSyntax},
		{"(1+2", ErrSyntax},
		{"1+2)", ErrSyntax},
		{"1 2", ErrSyntax},
		{"a+1", ErrSyntax},
		{"1=1", ErrSyntax},
		{"{A}+1", ErrSyntax},
		{"1..2", ErrSyntax},
		{"1/0", ErrDivisionByZero},
		{"(5-5)^-1", ErrDivisionByZero},
		{"0/0", ErrUndefined},
		{"(0-8)^0.5", ErrUndefined},
	}
	e := New()
	for _, tt := range tests {
		_, err := e.Evaluate(tt.expr)
		if !errors.Is(err, tt.want) {
			t.Errorf("Evaluate(%q): expected %v, got %v", tt.expr, tt.want, err)
		}
	}
}

func TestEvaluateDecimalIsExact(t *testing.T) {
	d, err := New().EvaluateDecimal("0.1+0.2")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "0.3" {
		t.Errorf("expected 0.3, got %s", d.String())
	}
}
