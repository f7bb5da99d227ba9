package sanitize

import "testing"

func TestFold(t *testing.T) {
	tests := map[string]string{
		"Número":       "Numero",
		"adquisición":  "adquisicion",
		"ÁÉÍÓÚ áéíóú":  "AEIOU aeiou",
		"año":          "ano",
		"plain ascii*": "plain ascii*",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormula(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		strict bool
		want   string
	}{
		{
			name:  "quotes and newlines",
			input: "\"(axis/axios) * 100\n\"",
			want:  "(axis/axios) * 100 ",
		},
		{
			name:  "whitespace runs",
			input: "Ventas \t totales\r\n/\n\nProyectos",
			want:  "Ventas totales / Proyectos",
		},
		{
			name:  "curly quotes",
			input: "“Ventas” ‘netas’",
			want:  "Ventas netas",
		},
		{
			name:  "punctuation kept when not strict",
			input: "Proyectos. totales",
			want:  "Proyectos. totales",
		},
		{
			name:   "punctuation stripped when strict",
			input:  "Proyectos. totales",
			strict: true,
			want:   "Proyectos totales",
		},
		{
			name:   "brackets and braces",
			input:  "Suma del [tiempo] total; desde que se,.... solicita",
			strict: true,
			want:   "Suma del tiempo total desde que se solicita",
		},
		{
			name:   "accents with strict",
			input:  "Número, total, de {contratos}",
			strict: true,
			want:   "Numero total de contratos",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Formula(tt.input, tt.strict); got != tt.want {
				t.Errorf("Formula(%q, %v) = %q, want %q", tt.input, tt.strict, got, tt.want)
			}
		})
	}
}
