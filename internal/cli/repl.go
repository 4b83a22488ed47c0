package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/kasa/internal/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	state() session.State

	Setup(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error
	CancelReset(ctx context.Context) error
	Lock(ctx context.Context) error

	List(ctx context.Context) error
	Show(ctx context.Context, ref string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, ref string) error
	Delete(ctx context.Context, ref string) error
	Color(ctx context.Context, ref, color string) error
	Copy(ctx context.Context, ref string) error

	ToggleTheme(ctx context.Context) error
}

// commands lists what is available in each state, in help order.
var commands = map[session.State][]string{
	session.StateSetup:             {"setup", "theme", "help", "exit"},
	session.StateLocked:            {"login", "forgot", "theme", "help", "exit"},
	session.StateResetVerification: {"reset", "cancel", "lock", "help", "exit"},
	session.StateUnlocked: {
		"(l)ist", "show <n>", "add", "edit <n>", "delete <n>",
		"color <n> <color|none>", "copy <n>", "lock", "theme", "help", "exit",
	},
}

func allowed(st session.State, cmd string) bool {
	for _, c := range commands[st] {
		name, _, _ := strings.Cut(c, " ")
		if name == cmd || (name == "(l)ist" && (cmd == "l" || cmd == "list")) {
			return true
		}
	}
	return cmd == "quit"
}

// runREPL starts a simple read–eval–print loop for the Kasa CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands are gated by the session state: a
// command that exists but is not available in the current state is
// reported as such. touch is called on every line read so the idle timer
// only counts real inactivity. The loop exits on EOF, when ctx is done, or
// when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, touch func()) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("kasa (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		touch()

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !allowed(a.state(), cmd) {
			if known(cmd) {
				printlnFn(fmt.Sprintf("'%s' is not available while %s. Type 'help'.", cmd, a.state()))
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		arg := func(i int) string {
			if i < len(args) {
				return args[i]
			}
			return ""
		}

		switch cmd {
		case "help":
			printlnFn("Available commands: " + strings.Join(commands[a.state()], ", "))

		case "setup":
			_ = a.Setup(ctx)
		case "login":
			_ = a.Login(ctx)
		case "forgot":
			_ = a.Forgot(ctx)
		case "reset":
			_ = a.Reset(ctx)
		case "cancel":
			_ = a.CancelReset(ctx)
		case "lock":
			_ = a.Lock(ctx)

		case "l", "list":
			_ = a.List(ctx)
		case "show":
			_ = a.Show(ctx, arg(0))
		case "add":
			_ = a.Add(ctx)
		case "edit":
			_ = a.Edit(ctx, arg(0))
		case "delete":
			_ = a.Delete(ctx, arg(0))
		case "color":
			_ = a.Color(ctx, arg(0), arg(1))
		case "copy":
			_ = a.Copy(ctx, arg(0))

		case "theme":
			_ = a.ToggleTheme(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}
	}
}

func known(cmd string) bool {
	for st := range commands {
		if allowed(st, cmd) {
			return true
		}
	}
	return false
}
