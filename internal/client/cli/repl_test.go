package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls   []string
	args    [][]string
	dropped []string
}

func (f *fakeExec) record(name string, args []string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
}

func (f *fakeExec) Add(ctx context.Context, args []string) error {
	f.record("add", args)
	return nil
}
func (f *fakeExec) Drop(ctx context.Context, sc *bufio.Scanner) error {
	f.record("drop", nil)
	f.dropped = ReadUntilBlank(sc)
	return nil
}
func (f *fakeExec) Remove(ctx context.Context, args []string) error {
	f.record("remove", args)
	return nil
}
func (f *fakeExec) List(ctx context.Context) error { f.record("list", nil); return nil }
func (f *fakeExec) Password(ctx context.Context, args []string) error {
	f.record("password", args)
	return nil
}
func (f *fakeExec) Submit(ctx context.Context) error  { f.record("submit", nil); return nil }
func (f *fakeExec) Notices(ctx context.Context) error { f.record("notices", nil); return nil }

func silence(t *testing.T) *[]string {
	t.Helper()
	var out []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &out
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silence(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"add a.txt 'b c.txt'",
		"drop",
		"/tmp/one.txt",
		"'/tmp/two words.txt'",
		"",
		"list",
		"remove 2",
		"password",
		"password clear",
		"submit",
		"notices",
		"foobar",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"add", "drop", "list", "remove", "password", "password", "submit", "notices"}, exec.calls)
	assert.Equal(t, []string{"a.txt", "'b", "c.txt'"}, exec.args[0])
	assert.Equal(t, []string{"2"}, exec.args[3])
	assert.Equal(t, []string{"clear"}, exec.args[5])
	assert.Equal(t, []string{"/tmp/one.txt", "'/tmp/two words.txt'"}, exec.dropped)
}

func TestRunREPL_UnknownAndQuit(t *testing.T) {
	out := silence(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("get\nquit\nsubmit\n")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Unknown command: get")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_StopsOnCanceledContext(t *testing.T) {
	silence(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("list\n")))
	assert.Empty(t, exec.calls)
}
