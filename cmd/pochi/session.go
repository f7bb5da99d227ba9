package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"nickandperla.net/pochi/pkg/pochi"
)

// session holds the state shared by CLI actions and REPL commands.
type session struct {
	runtime *pochi.Runtime
	out     *printer
	last    *pochi.Parsed // most recent parsed formula
	loaded  *pochi.Record // most recent loaded formula, when nothing was parsed since
}

var errQuit = errors.New("quit")

// parse parses text, prints it, evaluates it when values are given and
// saves it when name is set.
func (s *session) parse(text string, values []pochi.Value, name string) error {
	p := s.runtime.ParseFormula(text)
	if p.Err != nil {
		return p.Err
	}
	s.last, s.loaded = p, nil
	if err := s.out.parsed(p); err != nil {
		return err
	}
	if values != nil {
		if err := s.evaluate(p.Evaluable, values); err != nil {
			return err
		}
	}
	if name != "" {
		rec, err := s.runtime.Save(name, p)
		if err != nil {
			return err
		}
		return s.out.message("saved %s (%s)", rec.Name, rec.ID)
	}
	return nil
}

func (s *session) evaluate(evaluable string, values []pochi.Value) error {
	ev := s.runtime.Evaluate(evaluable, values)
	if err := s.out.evaluation(ev); err != nil {
		return err
	}
	return ev.Err
}

func (s *session) load(name string, values []pochi.Value) error {
	rec, err := s.runtime.Load(name)
	if err != nil {
		return err
	}
	if err := s.out.record(rec); err != nil {
		return err
	}
	if values != nil {
		return s.evaluate(rec.Evaluable, values)
	}
	return nil
}

func (s *session) list() error {
	recs, err := s.runtime.List()
	if err != nil {
		return err
	}
	return s.out.records(recs)
}

func (s *session) delete(name string) error {
	if err := s.runtime.Delete(name); err != nil {
		return err
	}
	return s.out.message("deleted %s", name)
}

// current returns the evaluable form of the formula :set works on.
func (s *session) current() (string, bool) {
	switch {
	case s.loaded != nil:
		return s.loaded.Evaluable, true
	case s.last != nil:
		return s.last.Evaluable, true
	}
	return "", false
}

// handle runs one REPL line. Lines starting with ':' are commands, anything
// else is a formula.
func (s *session) handle(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if !strings.HasPrefix(line, ":") {
		return s.parse(line, nil, "")
	}

	args, err := shellquote.Split(line[1:])
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "quit", "q", "exit":
		return errQuit

	case "set":
		evaluable, ok := s.current()
		if !ok {
			return errors.New("no formula to evaluate")
		}
		values, err := parseValues(strings.Join(args, ","))
		if err != nil {
			return err
		}
		if values == nil {
			values = []pochi.Value{}
		}
		return s.evaluate(evaluable, values)

	case "tokens":
		if s.loaded != nil {
			return fmt.Errorf("%s was loaded from the store and has no tokens", s.loaded.Name)
		}
		if s.last == nil {
			return errors.New("no formula parsed")
		}
		return s.out.tokens(s.last.Tokens)

	case "save":
		if len(args) != 1 {
			return errors.New("usage: :save NAME")
		}
		var rec *pochi.Record
		var err error
		switch {
		case s.loaded != nil:
			rec, err = s.runtime.SaveRecord(args[0], s.loaded)
		case s.last != nil:
			rec, err = s.runtime.Save(args[0], s.last)
		default:
			return errors.New("no formula to save")
		}
		if err != nil {
			return err
		}
		return s.out.message("saved %s (%s)", rec.Name, rec.ID)

	case "load":
		if len(args) != 1 {
			return errors.New("usage: :load NAME")
		}
		rec, err := s.runtime.Load(args[0])
		if err != nil {
			return err
		}
		// Re-parsing the stored text could draw different collision
		// letters, so the stored formulas are used as they are.
		s.last, s.loaded = nil, rec
		return s.out.record(rec)

	case "list":
		return s.list()

	case "delete":
		if len(args) != 1 {
			return errors.New("usage: :delete NAME")
		}
		return s.delete(args[0])

	case "help":
		return s.out.message("%s", replHelp)
	}
	return fmt.Errorf("unknown command :%s (try :help)", cmd)
}

const replHelp = `formula          parse a formula
:set CODE=VALUE  evaluate the last formula
:tokens          show the tokens of the last formula
:save NAME       save the last formula
:load NAME       load a saved formula
:list            list saved formulas
:delete NAME     delete a saved formula
:quit            exit`

// parseValues parses "PE=10,PT=100". An empty string yields nil, meaning
// there is nothing to evaluate.
func parseValues(s string) ([]pochi.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var values []pochi.Value
	for _, pair := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		code, raw, ok := strings.Cut(pair, "=")
		if !ok || code == "" {
			return nil, fmt.Errorf("bad value %q, want CODE=VALUE", pair)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value for %s: %w", code, err)
		}
		values = append(values, pochi.Value{Code: strings.ToUpper(code), Value: v})
	}
	return values, nil
}
