package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Me(ctx context.Context) error { f.calls = append(f.calls, "me"); return nil }
func (f *fakeExec) Bet(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "bet")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Withdraw(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "withdraw")
	f.args = append(f.args, args)
	return nil
}
func (f *fakeExec) Info(ctx context.Context) error { f.calls = append(f.calls, "info"); return nil }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i], _ = v.(string)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := captureOutput(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"me",
		"login",
		"help",
		"",
		"me",
		"bet par 100",
		"withdraw 50",
		"info",
		"foobar",
		"logout",
		"bet impar 1",
		"exit",
		"register",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	require.Equal(t, []string{"login", "me", "bet", "withdraw", "info", "logout"}, exec.calls)
	require.Equal(t, [][]string{{"par", "100"}, {"50"}}, exec.args)

	require.Contains(t, *out, "Please log in first")
	require.Contains(t, *out, "Unknown command: foobar")
	require.Contains(t, *out, "Available commands: register, login, info, exit")
	require.Contains(t, *out, "Bye!")
	require.Contains(t, *out, "snap status> ")
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("info")))

	require.Equal(t, []string{"info"}, exec.calls)
}

func TestRunREPL_QuitStopsReading(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("quit\nme\n")))

	require.Empty(t, exec.calls)
}
