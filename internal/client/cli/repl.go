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
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Bet(ctx context.Context, args []string) error
	Withdraw(ctx context.Context, args []string) error
	Info(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the gophsnap CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. Command handlers prompt through the same reader, so their answers are
// consumed in order with the commands. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                      show available commands
//	  - info                      show server info
//	  - exit | quit               leave the program
//
//	Not logged in:
//	  - register                  create an account
//	  - login                     authenticate
//
//	Logged in:
//	  - me                        show the account
//	  - bet <par|impar> <amount>  play one round of even/odd
//	  - withdraw <amount>         request a payout
//	  - logout                    log out
//
// Commands that need a session are refused while logged out. Errors returned
// by command handlers are ignored here; handlers report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("snap %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "me", "bet", "withdraw", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, bet <par|impar> <amount>, withdraw <amount>, info, logout, exit")
			} else {
				printlnFn("Available commands: register, login, info, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "me":
			_ = a.Me(ctx)

		case "bet":
			_ = a.Bet(ctx, args)

		case "withdraw":
			_ = a.Withdraw(ctx, args)

		case "info":
			_ = a.Info(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
