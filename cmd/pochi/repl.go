package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chzyer/readline"
)

func printBanner() {
	fmt.Println("pochi REPL (Ctrl+D to exit, :help for commands)")
	fmt.Println()
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pochi_history")
}

func runREPL(s *session) {
	printBanner()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		// No usable terminal, fall back to basic mode
		runBasicREPL(s, os.Stdin)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return
		}
		if done := runLine(s, line); done {
			return
		}
	}
}

// runBasicREPL handles input without line editing.
func runBasicREPL(s *session, in io.Reader) {
	sc := bufio.NewScanner(in)
	for {
		fmt.Print(">>> ")
		if !sc.Scan() {
			fmt.Println()
			return
		}
		if done := runLine(s, sc.Text()); done {
			return
		}
	}
}

// runLine handles one line and reports whether the REPL should stop.
func runLine(s *session, line string) bool {
	err := s.handle(line)
	if errors.Is(err, errQuit) {
		return true
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return false
}
