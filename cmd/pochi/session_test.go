package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"nickandperla.net/pochi/pkg/pochi"
)

func newTestSession(t *testing.T, format string) (*session, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	out, err := newPrinter(&buf, format)
	if err != nil {
		t.Fatalf("newPrinter failed: %v", err)
	}
	r := pochi.New(pochi.WithMemoryStore())
	t.Cleanup(func() { r.Close() })
	return &session{runtime: r, out: out}, &buf
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		input   string
		want    []pochi.Value
		wantErr bool
	}{
		{"", nil, false},
		{"PE=10,PT=100", []pochi.Value{{Code: "PE", Value: 10}, {Code: "PT", Value: 100}}, false},
		{"pe=1.5 pt=2", []pochi.Value{{Code: "PE", Value: 1.5}, {Code: "PT", Value: 2}}, false},
		{"PE", nil, true},
		{"=3", nil, true},
		{"PE=ten", nil, true},
	}

	for _, tt := range tests {
		got, err := parseValues(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseValues(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseValues(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseValues(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseValues(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestNewPrinterRejectsUnknownFormat(t *testing.T) {
	if _, err := newPrinter(&bytes.Buffer{}, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestSessionParseAndSet(t *testing.T) {
	s, buf := newTestSession(t, "text")

	if err := s.handle("Ventas totales/Proyectos totales"); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !strings.Contains(buf.String(), "{VT}/{PT}") {
		t.Errorf("expected evaluable formula in output, got:\n%s", buf.String())
	}

	buf.Reset()
	if err := s.handle(":set VT=10 PT=100"); err != nil {
		t.Fatalf(":set failed: %v", err)
	}
	if !strings.Contains(buf.String(), "10/100 = 0.1") {
		t.Errorf("expected '10/100 = 0.1', got:\n%s", buf.String())
	}
}

func TestSessionSaveLoadList(t *testing.T) {
	s, buf := newTestSession(t, "text")

	if err := s.handle(":save ventas"); err == nil {
		t.Error("expected error saving before parsing")
	}
	if err := s.handle("Ventas totales*2"); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if err := s.handle(":save ventas"); err != nil {
		t.Fatalf(":save failed: %v", err)
	}

	s.last = nil
	buf.Reset()
	if err := s.handle(":load ventas"); err != nil {
		t.Fatalf(":load failed: %v", err)
	}
	if s.loaded == nil || s.loaded.Evaluable != "{VT}*2" {
		t.Fatalf("expected loaded formula {VT}*2, got %+v", s.loaded)
	}

	buf.Reset()
	if err := s.handle(":set VT=4"); err != nil {
		t.Fatalf(":set failed: %v", err)
	}
	if !strings.Contains(buf.String(), "4*2 = 8") {
		t.Errorf("expected '4*2 = 8', got:\n%s", buf.String())
	}

	buf.Reset()
	if err := s.handle(":list"); err != nil {
		t.Fatalf(":list failed: %v", err)
	}
	if !strings.Contains(buf.String(), "ventas") {
		t.Errorf("expected ventas in list, got:\n%s", buf.String())
	}

	if err := s.handle(":delete ventas"); err != nil {
		t.Fatalf(":delete failed: %v", err)
	}
	if err := s.handle(":load ventas"); !errors.Is(err, pochi.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionResaveLoadedFormula(t *testing.T) {
	s, _ := newTestSession(t, "text")

	for _, line := range []string{
		"Proyectos evaluados/Proyectos totales",
		":save a",
		":load a",
		":save b",
	} {
		if err := s.handle(line); err != nil {
			t.Fatalf("%q failed: %v", line, err)
		}
	}

	a, err := s.runtime.Load("a")
	if err != nil {
		t.Fatalf("Load a failed: %v", err)
	}
	b, err := s.runtime.Load("b")
	if err != nil {
		t.Fatalf("Load b failed: %v", err)
	}
	if strings.Join(b.Codes, ",") != "PE,PT" || strings.Join(a.Codes, ",") != strings.Join(b.Codes, ",") {
		t.Errorf("expected codes PE,PT in both records, got a=%v b=%v", a.Codes, b.Codes)
	}
	if b.Evaluable != a.Evaluable || b.Literal != a.Literal || b.ID == a.ID {
		t.Errorf("expected b to copy a with a new ID, got a=%+v b=%+v", a, b)
	}

	if err := s.handle(":tokens"); err == nil || !strings.Contains(err.Error(), "no tokens") {
		t.Errorf("expected :tokens to report a loaded formula has no tokens, got %v", err)
	}
}

func TestSessionCommands(t *testing.T) {
	s, _ := newTestSession(t, "text")

	if err := s.handle(":quit"); !errors.Is(err, errQuit) {
		t.Errorf("expected errQuit, got %v", err)
	}
	if err := s.handle(":bogus"); err == nil {
		t.Error("expected error for unknown command")
	}
	if err := s.handle(":tokens"); err == nil {
		t.Error("expected error for :tokens before parsing")
	}
	if err := s.handle("   "); err != nil {
		t.Errorf("expected blank line to be ignored, got %v", err)
	}
	if err := s.handle(`:save "two words" extra`); err == nil {
		t.Error("expected usage error")
	}
}

func TestSessionJSONOutput(t *testing.T) {
	s, buf := newTestSession(t, "json")

	values := []pochi.Value{{Code: "PE", Value: 1}, {Code: "PT", Value: 0}}
	if err := s.parse("Proyectos evaluados/Proyectos totales", values, ""); err == nil {
		t.Fatal("expected division error")
	}

	dec := json.NewDecoder(buf)
	var parsed map[string]any
	if err := dec.Decode(&parsed); err != nil {
		t.Fatalf("decode parsed: %v", err)
	}
	if parsed["evaluable_formula"] != "{PE}/{PT}" {
		t.Errorf("expected {PE}/{PT}, got %v", parsed["evaluable_formula"])
	}

	var ev map[string]any
	if err := dec.Decode(&ev); err != nil {
		t.Fatalf("decode evaluation: %v", err)
	}
	if ev["replaced_formula"] != "1/0 = NaN" {
		t.Errorf("expected '1/0 = NaN', got %v", ev["replaced_formula"])
	}
	if ev["data"] != nil || ev["error"] == nil {
		t.Errorf("expected null data and an error, got %v", ev)
	}
}

func TestBasicREPL(t *testing.T) {
	s, buf := newTestSession(t, "text")
	runBasicREPL(s, strings.NewReader("Ventas totales\n:set VT=3\n:quit\nnever parsed\n"))
	if !strings.Contains(buf.String(), "3 = 3") {
		t.Errorf("expected evaluation output, got:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "never parsed") {
		t.Error("expected REPL to stop at :quit")
	}
}
