// Package replshell implements the interactive read-eval-print loop for the
// mal CLI: readline history/editing, balanced-parenthesis multi-line input,
// and colored result/error output.
package replshell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/dspinellis/mal-go/pkg/mal"
)

// Run starts the interactive loop against env until EOF or "quit"/"exit".
func Run(env *mal.Environment, enableColors bool) error {
	if !enableColors {
		color.NoColor = true
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "mal> ",
		HistoryFile:     "/tmp/mal_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer rl.Close()

	printWelcome()

	resultColor := color.New(color.FgGreen)
	errorColor := color.New(color.FgRed)

	for {
		input, err := readCompleteForm(rl)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "quit" || input == "exit" {
			break
		}

		out, err := mal.Rep(input, env)
		if err != nil {
			errorColor.Println(formatError(err))
			continue
		}
		resultColor.Printf("%s\n", out)
	}

	color.New(color.FgMagenta, color.Bold).Println("Goodbye!")
	return nil
}

func formatError(err error) string {
	if malErr, ok := err.(*mal.MalError); ok {
		return malErr.Error()
	}
	return err.Error()
}

func printWelcome() {
	title := color.New(color.FgCyan, color.Bold)
	instr := color.New(color.FgYellow)
	title.Println("mal - a small Lisp")
	instr.Println("Type expressions to evaluate them, or 'quit' to exit.")
	instr.Println("Multi-line expressions are supported - the REPL waits for balanced parentheses.")
	fmt.Println()
}

// readCompleteForm reads lines from rl until parentheses balance, tracking
// string literals and escapes so that parens inside strings don't count.
func readCompleteForm(rl *readline.Instance) (string, error) {
	var lines []string
	depth := 0
	inString := false
	escaped := false
	first := true

	for {
		if first {
			rl.SetPrompt("mal> ")
			first = false
		} else {
			rl.SetPrompt("...  ")
		}

		line, err := rl.Readline()
		if err != nil {
			if len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}
		lines = append(lines, line)

		trimmed := strings.TrimSpace(line)
		if len(lines) == 1 && (trimmed == "quit" || trimmed == "exit") {
			return trimmed, nil
		}

		for _, ch := range line {
			if escaped {
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				if inString {
					escaped = true
				}
			case '"':
				inString = !inString
			case '(', '[', '{':
				if !inString {
					depth++
				}
			case ')', ']', '}':
				if !inString {
					depth--
				}
			}
		}

		if depth <= 0 {
			break
		}
	}

	return strings.Join(lines, "\n"), nil
}
