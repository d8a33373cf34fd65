package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context, provider string) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, term string) error
	View(ctx context.Context, mode string) error
	Add(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	Refresh(ctx context.Context) error
	Theme(ctx context.Context, arg string) error
	Night(ctx context.Context, arg string) error
	Notices(ctx context.Context) error
	Dismiss(ctx context.Context, arg string) error
}

const (
	helpLoggedOut = "Available commands: register, login [provider], theme, night, notices, dismiss, help, exit"
	helpLoggedIn  = "Available commands: (l)ist, search [term], view timeline|mindmap, add, delete <id>, refresh, whoami, logout, theme [system|light|dark], night on|off, notices, dismiss <n|all>, help, exit"
)

// runREPL reads commands from reader until EOF or "exit"/"quit" and
// dispatches them to a. Handlers report their own failures through notices,
// so their errors are not printed here. Prompts inside handlers read from the
// same reader, which keeps buffered input consistent.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("echovault (%s) > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx, firstArg(args))

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "view":
			if len(args) != 1 {
				printlnFn("Usage: view timeline|mindmap")
				continue
			}
			_ = a.View(ctx, args[0])

		case "add":
			_ = a.Add(ctx)

		case "delete":
			if len(args) != 1 {
				printlnFn("Usage: delete <id>")
				continue
			}
			_ = a.Delete(ctx, args[0])

		case "refresh":
			_ = a.Refresh(ctx)

		case "theme":
			_ = a.Theme(ctx, firstArg(args))

		case "night":
			_ = a.Night(ctx, firstArg(args))

		case "notices":
			_ = a.Notices(ctx)

		case "dismiss":
			if len(args) != 1 {
				printlnFn("Usage: dismiss <n|all>")
				continue
			}
			_ = a.Dismiss(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
