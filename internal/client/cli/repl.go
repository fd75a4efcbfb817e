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
	isLoggedIn() bool
	Register(ctx context.Context) error
	SignIn(ctx context.Context) error
	Assess(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	dispatch(ctx context.Context, cmd string, args []string) (bool, error)
	pageHelp() string
	followNavigation(ctx context.Context)
}

// runREPL starts a simple read–eval–print loop for the marketplace CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands the REPL does not know are offered
// to the current page (sign-in or assessment). The loop exits on EOF or when
// the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn). Global commands:
//
//	Not signed in:
//	  - help              - show available commands
//	  - register          - create an account
//	  - signin            - open the sign-in page
//	  - exit | quit       - leave the program
//
//	Signed in:
//	  - help              - show available commands
//	  - assess <kind> [results]
//	                      - open an assessment, optionally on its results
//	  - logout            - sign out and clear the offline cache
//	  - exit | quit       - leave the program
//
// Errors returned by command handlers are printed and the loop continues.
// After every command, queued navigation requests are followed.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("smehub %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
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
				printlnFn("Available commands: assess <kind> [results], logout, exit")
			} else {
				printlnFn("Available commands: register, signin, exit")
			}
			if h := a.pageHelp(); h != "" {
				printlnFn("On this page:", h)
			}
			continue

		case "register":
			err = a.Register(ctx)

		case "signin":
			err = a.SignIn(ctx)

		case "assess":
			if !a.isLoggedIn() {
				printlnFn("Please sign in first")
				continue
			}
			err = a.Assess(ctx, args)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			var handled bool
			handled, err = a.dispatch(ctx, cmd, args)
			if !handled {
				printlnFn("Unknown command:", cmd)
				continue
			}
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
		a.followNavigation(ctx)
	}
}

// dispatch passes a command to the current page.
func (a *App) dispatch(ctx context.Context, cmd string, args []string) (bool, error) {
	p := a.currentPage()
	if p == nil {
		return false, nil
	}
	return p.Handle(ctx, cmd, args)
}

func (a *App) pageHelp() string {
	p := a.currentPage()
	if p == nil {
		return ""
	}
	return p.Help()
}
