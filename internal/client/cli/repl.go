package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/client/services"
)

// stdout is the single writer for REPL and view output.
var stdout io.Writer = &lockedWriter{w: os.Stdout}

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) (int, error) {
	return fmt.Fprintln(stdout, a...)
}

// execIface is the command surface the REPL needs. App satisfies it; tests
// provide a stub.
type execIface interface {
	Send(ctx context.Context, text string) error
	Attach(path string) error
	Detach() bool
	Clear()
	History()
	Busy() bool
}

const helpText = `Commands:
  <text>          send a prompt (with the selected file, if any)
  /attach <path>  select a file for the next message
  /detach         drop the selected file
  /send           send the selected file without text
  /multi          multi-line prompt, end with a line containing only "."
  /clear          clear the screen and drop the selected file
  /status         show the current state
  /history        reprint the conversation
  /quit           leave`

// runREPL reads lines from scanner until EOF or /quit. Plain lines are sent
// as prompts; lines starting with "/" are commands. The prompt shows
// statusFn's result so the user can see whether sending is possible.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("chat %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !strings.HasPrefix(trimmed, "/") {
			send(ctx, a, line)
			continue
		}

		cmd, arg, _ := strings.Cut(trimmed, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "/help":
			printlnFn(helpText)

		case "/attach":
			if arg == "" {
				printlnFn("Usage: /attach <path>")
				continue
			}
			if err := a.Attach(arg); err != nil {
				printlnFn("Cannot attach:", err)
			}

		case "/detach":
			if a.Detach() {
				printlnFn("[File removed]")
			}

		case "/send":
			send(ctx, a, arg)

		case "/multi":
			text, ok := readMultiline(scanner)
			send(ctx, a, text)
			if !ok {
				return
			}

		case "/clear":
			a.Clear()

		case "/status":
			printlnFn(statusFn())

		case "/history":
			a.History()

		case "/quit", "/exit":
			if a.Busy() {
				printlnFn("Waiting for the reply...")
			}
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func send(ctx context.Context, a execIface, text string) {
	err := a.Send(ctx, text)
	switch {
	case err == nil, errors.Is(err, services.ErrEmptyTurn):
	case errors.Is(err, ErrBusy):
		printlnFn("Still waiting for the previous reply; message not sent.")
	default:
		printlnFn("Cannot send:", err)
	}
}
