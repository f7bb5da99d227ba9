// Command pochi turns natural-language formulas into evaluable expressions.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"nickandperla.net/pochi/internal/config"
	"nickandperla.net/pochi/internal/logs"
	"nickandperla.net/pochi/pkg/pochi"
)

func main() {
	var (
		evalStr    = flag.String("e", "", "Parse formula string")
		file       = flag.String("f", "", "Parse every line of a file as a formula")
		setValues  = flag.String("set", "", "Evaluate with values: CODE=VALUE,CODE=VALUE")
		skip       = flag.String("skip", "", "Comma separated words left out of variable codes")
		configPath = flag.String("config", "", "CUE config file")
		dbPath     = flag.String("db", "", "SQLite database path")
		save       = flag.String("save", "", "Save the parsed formula under this name")
		load       = flag.String("load", "", "Load a saved formula by name")
		list       = flag.Bool("list", false, "List saved formulas")
		del        = flag.String("delete", "", "Delete a saved formula by name")
		format     = flag.String("format", "text", "Output format: text, json or yaml")
		sample     = flag.Bool("sample", false, "Evaluate with random sample values")
		strict     = flag.Bool("strict", false, "Fail when a variable has no value instead of using 0")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn or error")
	)

	flag.Parse()

	var paths []string
	if *configPath != "" {
		paths = append(paths, *configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		fatalf("Error loading config: %v\n", err)
	}

	// Flags override config
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "skip":
			cfg.SkipWords = splitList(*skip)
		case "db":
			cfg.DB = *dbPath
		case "sample":
			cfg.Sample = *sample
		case "strict":
			cfg.StrictValues = *strict
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := logs.SetLevel(cfg.LogLevel); err != nil {
		fatalf("Unknown log level: %s\n", cfg.LogLevel)
	}

	out, err := newPrinter(os.Stdout, *format)
	if err != nil {
		fatalf("%v\n", err)
	}

	values, err := parseValues(*setValues)
	if err != nil {
		fatalf("Error: %v\n", err)
	}

	interactive := *evalStr == "" && *file == "" && *load == "" && !*list && *del == "" &&
		term.IsTerminal(int(os.Stdin.Fd()))
	needStore := *save != "" || *load != "" || *list || *del != "" || interactive

	opts := []pochi.Option{
		pochi.WithConfig(cfg),
		pochi.WithLogger(logs.New(os.Stderr)),
	}
	if needStore {
		opts = append(opts, pochi.WithSQLiteStore(cfg.DB))
	}

	runtime := pochi.New(opts...)
	defer runtime.Close()

	s := &session{runtime: runtime, out: out}

	switch {
	case *list:
		err = s.list()

	case *del != "":
		err = s.delete(*del)

	case *load != "":
		err = s.load(*load, values)

	case *evalStr != "":
		err = s.parse(*evalStr, values, *save)

	case *file != "":
		err = s.parseFile(*file, values)

	case !interactive:
		// Piped input is one formula, possibly spread over several lines
		input, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			fatalf("Error reading stdin: %v\n", readErr)
		}
		err = s.parse(string(input), values, *save)

	default:
		runREPL(s)
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		runtime.Close()
		os.Exit(1)
	}
}

func (s *session) parseFile(path string, values []pochi.Value) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := s.parse(line, values, ""); err != nil {
			return err
		}
	}
	return sc.Err()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
