package token

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		literal string
		want    Kind
	}{
		{"(", LPAREN},
		{")", RPAREN},
		{"/", DIV},
		{"*", MULT},
		{"-", MINUS},
		{"+", PLUS},
		{"=", EQUAL},
		{"^", POW},
		{"Proyectos evaluados", IDENT},
		{"x", IDENT},
	}
	for _, tt := range tests {
		if got := Lookup(tt.literal); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.literal, got, tt.want)
		}
	}
}

func TestOperatorsAgree(t *testing.T) {
	for _, ch := range []byte("=()+-/*^") {
		if !IsOperator(ch) {
			t.Errorf("IsOperator(%q) = false", ch)
		}
		if !Lookup(string(ch)).IsOperator() {
			t.Errorf("Lookup(%q).IsOperator() = false", ch)
		}
	}
	for _, ch := range []byte("a1_ .,{") {
		if IsOperator(ch) {
			t.Errorf("IsOperator(%q) = true", ch)
		}
	}
}

func TestKindString(t *testing.T) {
	if POW.String() != "POW" {
		t.Errorf("expected 'POW', got '%s'", POW.String())
	}
	if Kind(99).String() != "UNKNOWN" {
		t.Errorf("expected 'UNKNOWN', got '%s'", Kind(99).String())
	}
	text, _ := IDENT.MarshalText()
	if string(text) != "IDENT" {
		t.Errorf("expected 'IDENT', got '%s'", text)
	}
}
