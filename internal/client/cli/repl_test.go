package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeExec records every command it receives as "name arg...".
type fakeExec struct {
	loggedIn bool
	fail     map[string]error
	calls    []string
}

func (f *fakeExec) rec(name string, args ...string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.fail[name]
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Register(context.Context) error { return f.rec("register") }
func (f *fakeExec) Verified(context.Context) error { return f.rec("verified") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.rec("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.rec("logout")
}
func (f *fakeExec) Whoami(context.Context) error              { return f.rec("whoami") }
func (f *fakeExec) Theme(_ context.Context, a []string) error { return f.rec("theme", a...) }

func (f *fakeExec) Properties(context.Context) error                { return f.rec("properties") }
func (f *fakeExec) AddProperty(context.Context) error               { return f.rec("property-add") }
func (f *fakeExec) UseProperty(_ context.Context, a []string) error { return f.rec("use", a...) }
func (f *fakeExec) DeleteProperty(_ context.Context, a []string) error {
	return f.rec("property-delete", a...)
}

func (f *fakeExec) Rooms(context.Context) error                    { return f.rec("rooms") }
func (f *fakeExec) AddRoom(_ context.Context, a []string) error    { return f.rec("room-add", a...) }
func (f *fakeExec) UseRoom(_ context.Context, a []string) error    { return f.rec("room-use", a...) }
func (f *fakeExec) DeleteRoom(_ context.Context, a []string) error { return f.rec("room-delete", a...) }
func (f *fakeExec) IssueNote(context.Context) error                { return f.rec("issue") }
func (f *fakeExec) MoveOutNote(context.Context) error              { return f.rec("note") }
func (f *fakeExec) Quality(_ context.Context, a []string) error    { return f.rec("quality", a...) }
func (f *fakeExec) Progress(context.Context) error                 { return f.rec("progress") }

func (f *fakeExec) Capture(_ context.Context, a []string) error   { return f.rec("capture", a...) }
func (f *fakeExec) Staged(context.Context) error                  { return f.rec("staged") }
func (f *fakeExec) Upload(_ context.Context, a []string) error    { return f.rec("upload", a...) }
func (f *fakeExec) Photos(context.Context) error                  { return f.rec("photos") }
func (f *fakeExec) Tag(_ context.Context, a []string) error       { return f.rec("tag", a...) }
func (f *fakeExec) Untag(_ context.Context, a []string) error     { return f.rec("untag", a...) }
func (f *fakeExec) PhotoNote(_ context.Context, a []string) error { return f.rec("photo-note", a...) }
func (f *fakeExec) DeletePhoto(_ context.Context, a []string) error {
	return f.rec("photo-delete", a...)
}

func (f *fakeExec) Send(_ context.Context, a []string) error    { return f.rec("send", a...) }
func (f *fakeExec) ShareSuccess(context.Context) error          { return f.rec("shared-link") }
func (f *fakeExec) Reports(_ context.Context, a []string) error { return f.rec("reports", a...) }
func (f *fakeExec) Report(_ context.Context, a []string) error  { return f.rec("report", a...) }
func (f *fakeExec) RenameReport(_ context.Context, a []string) error {
	return f.rec("report-rename", a...)
}
func (f *fakeExec) ArchiveReport(_ context.Context, a []string) error {
	return f.rec("report-archive", a...)
}
func (f *fakeExec) DeleteReport(_ context.Context, a []string) error {
	return f.rec("report-delete", a...)
}
func (f *fakeExec) Shared(_ context.Context, a []string) error { return f.rec("shared", a...) }

func (f *fakeExec) Stats(context.Context) error { return f.rec("stats") }

// capturePrint swaps printlnFn for a collector.
func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func run(exec *fakeExec, lines ...string) {
	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "status" }, sc)
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	capturePrint(t)
	exec := &fakeExec{}

	run(exec,
		"help",
		"rooms",
		"login",
		"use p1",
		"room add",
		"room use r1",
		"capture /tmp/a.jpg move-out",
		"upload move-out",
		"photo note ph1",
		"send move-out",
		"report 42",
		"report archive 42",
		"shared abc reject too dirty",
		"exit",
		"rooms",
	)

	assert.Equal(t, []string{
		"login",
		"use p1",
		"room-add",
		"room-use r1",
		"capture /tmp/a.jpg move-out",
		"upload move-out",
		"photo-note ph1",
		"send move-out",
		"report 42",
		"report-archive 42",
		"shared abc reject too dirty",
	}, exec.calls)
}

func TestRunREPL_LoggedOutGate(t *testing.T) {
	out := capturePrint(t)
	exec := &fakeExec{}

	run(exec, "properties", "bogus", "shared u1", "verified", "stats", "quit")

	assert.Equal(t, []string{"shared u1", "verified", "stats"}, exec.calls)
	assert.Contains(t, *out, "Please log in first")
	assert.Contains(t, *out, "Unknown command: bogus")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_PrintsCommandErrorsAndContinues(t *testing.T) {
	out := capturePrint(t)
	exec := &fakeExec{loggedIn: true, fail: map[string]error{"rooms": errors.New("boom")}}

	run(exec, "rooms", "progress", "room", "exit")

	assert.Equal(t, []string{"rooms", "progress"}, exec.calls)
	assert.Contains(t, *out, "Error: boom")
	assert.Contains(t, *out, "Error: usage: room add [id] | room use <id> | room delete <id>")
}

func TestRunREPL_EOF(t *testing.T) {
	capturePrint(t)
	exec := &fakeExec{loggedIn: true}
	run(exec, "whoami")
	assert.Equal(t, []string{"whoami"}, exec.calls)
}
