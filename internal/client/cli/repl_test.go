package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) Login(ctx context.Context) error  { s.calls = append(s.calls, "login"); return nil }
func (s *stubExec) Logout(ctx context.Context) error { s.calls = append(s.calls, "logout"); return nil }
func (s *stubExec) Create(ctx context.Context) error { s.calls = append(s.calls, "create"); return nil }
func (s *stubExec) Show(ctx context.Context, args []string) error {
	s.calls = append(s.calls, "show "+strings.Join(args, " "))
	return nil
}
func (s *stubExec) Edit(ctx context.Context, args []string) error {
	s.calls = append(s.calls, "edit")
	return nil
}
func (s *stubExec) Delete(ctx context.Context, args []string) error {
	s.calls = append(s.calls, "delete")
	return nil
}
func (s *stubExec) Attach(ctx context.Context, args []string) error {
	s.calls = append(s.calls, "attach")
	return nil
}
func (s *stubExec) Fetch(ctx context.Context, args []string) error {
	s.calls = append(s.calls, "fetch")
	return nil
}

func runWithInput(t *testing.T, a execIface, input string) []string {
	t.Helper()

	var output []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			if s, ok := arg.(string); ok {
				parts = append(parts, s)
			}
		}
		output = append(output, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })

	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), a, func() string { return "" }, scanner)
	return output
}

func TestREPL_DispatchesCommands(t *testing.T) {
	s := &stubExec{loggedIn: true}

	runWithInput(t, s, "create\nshow abc label=username\ndelete\nexit\n")

	require.Equal(t, []string{"create", "show abc label=username", "delete"}, s.calls)
}

func TestREPL_UnknownCommand(t *testing.T) {
	s := &stubExec{}

	out := runWithInput(t, s, "frobnicate\nexit\n")

	joined := strings.Join(out, "\n")
	require.Contains(t, joined, "Unknown command: frobnicate")
	require.Empty(t, s.calls)
}

func TestREPL_HelpDependsOnLoginState(t *testing.T) {
	loggedOut := runWithInput(t, &stubExec{}, "help\nexit\n")
	require.Contains(t, strings.Join(loggedOut, "\n"), "login, exit")

	loggedIn := runWithInput(t, &stubExec{loggedIn: true}, "help\nexit\n")
	require.Contains(t, strings.Join(loggedIn, "\n"), "create, show, edit")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	s := &stubExec{}
	runWithInput(t, s, "")
	require.Empty(t, s.calls)
}
