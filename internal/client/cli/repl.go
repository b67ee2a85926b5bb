package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Add(ctx context.Context, args []string) error
	Drop(ctx context.Context, sc *bufio.Scanner) error
	Remove(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Password(ctx context.Context, args []string) error
	Submit(ctx context.Context) error
	Notices(ctx context.Context) error
}

const helpText = `Available commands:
  add <paths...>    stage files, directories (one level) or globs
  drop              drag files onto the terminal, empty line to finish
  remove <n>        unstage the file at position n
  list              show staged files
  password [clear]  set or forget the link password
  submit            upload all staged files (Ctrl-C cancels)
  notices           show the last notices
  exit | quit       leave the program`

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF,
// when ctx is done, or when the user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("linkdrop %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)

		case "add":
			_ = a.Add(ctx, args)

		case "drop":
			_ = a.Drop(ctx, scanner)

		case "rm", "remove":
			_ = a.Remove(ctx, args)

		case "l", "ls", "list":
			_ = a.List(ctx)

		case "password":
			_ = a.Password(ctx, args)

		case "submit", "upload":
			_ = a.Submit(ctx)

		case "notices":
			_ = a.Notices(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
