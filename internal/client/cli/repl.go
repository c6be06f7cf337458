package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	Theme(ctx context.Context, args []string) error
	Dashboard(ctx context.Context) error
	Prompts(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	New(ctx context.Context) error
}

// runREPL reads a line, dispatches the first token as a command and loops
// until EOF, "exit" or "quit".
//
//	Not logged in:
//	  - help             show available commands
//	  - register         create an account
//	  - login            sign in
//	  - theme [t]        show, toggle, or set light/dark
//	  - exit | quit      leave the program
//
//	Logged in:
//	  - dashboard        summary of the prompt catalog
//	  - (l)ist [cat]     list prompts, optionally by category
//	  - show <id>        show a prompt with a rendered preview
//	  - new              create a prompt
//	  - profile [edit]   show or edit the profile
//	  - passwd           change password
//	  - theme [t]
//	  - logout
//	  - exit | quit
//
// Errors returned by handlers are ignored here; handlers print their own
// failures next to the command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("pm %s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: dashboard, (l)ist [category], show <id>, new, profile [edit], passwd, theme [toggle|light|dark], logout, exit")
			} else {
				printlnFn("Available commands: register, login, theme [toggle|light|dark], exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "passwd":
			_ = a.ChangePassword(ctx)

		case "profile":
			_ = a.Profile(ctx, args)

		case "theme":
			_ = a.Theme(ctx, args)

		case "dashboard", "home":
			_ = a.Dashboard(ctx)

		case "l", "list":
			_ = a.Prompts(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "new":
			_ = a.New(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
