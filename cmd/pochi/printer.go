package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"go.yaml.in/yaml/v3"

	"nickandperla.net/pochi/internal/formula"
	"nickandperla.net/pochi/pkg/pochi"
)

// printer writes results as text, JSON or YAML.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case "text", "json", "yaml":
		return &printer{w: w, format: format}, nil
	}
	return nil, fmt.Errorf("unknown format: %s (use text, json or yaml)", format)
}

type parsedView struct {
	Literal      string          `json:"formula_literal" yaml:"formula_literal"`
	Evaluable    string          `json:"evaluable_formula" yaml:"evaluable_formula"`
	NonEvaluable string          `json:"non_evaluable_formula" yaml:"non_evaluable_formula"`
	Variables    []pochi.Token   `json:"variables" yaml:"variables"`
	Illegal      []pochi.Token   `json:"illegal,omitempty" yaml:"illegal,omitempty"`
	Sample       *formula.Sample `json:"sample,omitempty" yaml:"sample,omitempty"`
}

type evaluationView struct {
	Data     *float64 `json:"data" yaml:"data"`
	Replaced string   `json:"replaced_formula" yaml:"replaced_formula"`
	Missing  []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func newEvaluationView(ev pochi.Evaluation) evaluationView {
	v := evaluationView{Replaced: ev.Replaced, Missing: ev.Missing}
	if ev.Err != nil {
		v.Error = ev.Err.Error()
	} else {
		data := ev.Data
		v.Data = &data
	}
	return v
}

func (p *printer) structured(v any) error {
	switch p.format {
	case "json":
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = p.w.Write(append([]byte("---\n"), b...))
		return err
	}
	return fmt.Errorf("format %s is not structured", p.format)
}

func (p *printer) parsed(res *pochi.Parsed) error {
	if p.format != "text" {
		return p.structured(parsedView{
			Literal:      res.Literal,
			Evaluable:    res.Evaluable,
			NonEvaluable: res.NonEvaluable,
			Variables:    res.Variables,
			Illegal:      res.Illegal(),
			Sample:       res.Sample,
		})
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "formula:        %s\n", res.Literal)
	fmt.Fprintf(&sb, "evaluable:      %s\n", res.Evaluable)
	fmt.Fprintf(&sb, "non-evaluable:  %s\n", res.NonEvaluable)
	for _, v := range res.Variables {
		fmt.Fprintf(&sb, "  %-12s  %s\n", v.Code, strings.TrimSpace(v.Literal))
	}
	for _, tok := range res.Illegal() {
		fmt.Fprintf(&sb, "illegal:        %q\n", tok.Literal)
	}
	if res.Sample != nil {
		fmt.Fprintf(&sb, "sample:         %s\n", res.Sample.Evaluation.Replaced)
	}
	_, err := io.WriteString(p.w, sb.String())
	return err
}

func (p *printer) evaluation(ev pochi.Evaluation) error {
	if p.format != "text" {
		return p.structured(newEvaluationView(ev))
	}
	if len(ev.Missing) > 0 {
		fmt.Fprintf(p.w, "missing:        %s\n", strings.Join(ev.Missing, ", "))
	}
	_, err := fmt.Fprintf(p.w, "result:         %s\n", ev.Replaced)
	return err
}

func (p *printer) record(rec *pochi.Record) error {
	if p.format != "text" {
		return p.structured(rec)
	}
	_, err := fmt.Fprintf(p.w, "%s\n  formula:        %s\n  evaluable:      %s\n  non-evaluable:  %s\n  codes:          %s\n",
		rec.Name, rec.Literal, rec.Evaluable, rec.NonEvaluable, strings.Join(rec.Codes, " "))
	return err
}

func (p *printer) records(recs []*pochi.Record) error {
	if p.format != "text" {
		if recs == nil {
			recs = []*pochi.Record{}
		}
		return p.structured(recs)
	}
	for _, rec := range recs {
		if _, err := fmt.Fprintf(p.w, "%-20s %-30s %s\n", rec.Name, rec.NonEvaluable, humanize.Time(rec.CreatedAt)); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) tokens(tokens []pochi.Token) error {
	if p.format != "text" {
		return p.structured(tokens)
	}
	for _, tok := range tokens {
		line := fmt.Sprintf("%-8s %q", tok.Kind, tok.Literal)
		if tok.Code != "" {
			line += " " + tok.Code
		}
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) message(format string, args ...any) error {
	if p.format != "text" {
		return p.structured(map[string]string{"message": fmt.Sprintf(format, args...)})
	}
	_, err := fmt.Fprintf(p.w, format+"\n", args...)
	return err
}
