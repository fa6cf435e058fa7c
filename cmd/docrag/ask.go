package main

import (
	"fmt"
	"io"
	"strings"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Asker.Ask(deps.Ctx, c.Question)
	if err != nil {
		return errorf(deps, err)
	}

	fmt.Fprintln(deps.Stdout, answer.Text)
	if c.ShowContext {
		fmt.Fprintln(deps.Stdout, strings.Repeat("=", 80))
		fmt.Fprintln(deps.Stdout, strings.TrimSpace(answer.Context))
	}
	return nil
}

// Run executes the chat command.
func (c *ChatCmd) Run(deps *Dependencies) error {
	lines := newLineReader(deps.Stdin)
	defer lines.stop()
	chat(deps, lines)
	return nil
}

// chat answers questions until the user quits, input ends or the context
// is canceled. A failed question is reported and the loop continues.
func chat(deps *Dependencies, lines *lineReader) {
	for {
		fmt.Fprint(deps.Stdout, "\nAsk a question (or 'quit' to exit): ")
		q, ok := lines.next(deps.Ctx)
		if !ok {
			fmt.Fprintln(deps.Stdout, "\n\nGoodbye!")
			return
		}
		if isQuit(q) {
			return
		}
		if q == "" {
			continue
		}

		fmt.Fprintln(deps.Stdout, "\nSearching...")
		answer, err := deps.Asker.Ask(deps.Ctx, q)
		if err != nil {
			if deps.Ctx.Err() != nil {
				fmt.Fprintln(deps.Stdout, "\n\nGoodbye!")
				return
			}
			_ = errorf(deps, err)
			continue
		}
		printAnswer(deps.Stdout, answer.Text)
	}
}

func printAnswer(w io.Writer, text string) {
	fmt.Fprintf(w, "\n**Answer:**\n%s\n\n", text)
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func isQuit(s string) bool {
	switch strings.ToLower(s) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

