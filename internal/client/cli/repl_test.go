package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Send(context.Context) error {
	f.calls = append(f.calls, "send")
	return nil
}
func (f *fakeExec) Receive(context.Context) error {
	f.calls = append(f.calls, "receive")
	return nil
}
func (f *fakeExec) Logout(context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func runScript(exec *fakeExec, script string) string {
	var out bytes.Buffer
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(script)), &out)
	return out.String()
}

func TestRunREPL_Dispatch(t *testing.T) {
	exec := &fakeExec{}
	out := runScript(exec, strings.Join([]string{
		"help",
		"register",
		"",
		"login",
		"help",
		"send",
		"receive extra args",
		"logout",
		"frobnicate",
		"exit",
		"register",
	}, "\n"))

	assert.Equal(t, []string{"register", "login", "send", "receive", "logout"}, exec.calls)
	assert.Contains(t, out, "Available commands: register, login, exit")
	assert.Contains(t, out, "Available commands: send, receive, logout, exit")
	assert.Contains(t, out, "Unknown command: frobnicate")
	assert.Contains(t, out, "Bye!")
}

func TestRunREPL_EndOfInput(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{"empty", "", nil},
		{"last line without newline", "login", []string{"login"}},
		{"quit", "quit\nlogin\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExec{}
			runScript(exec, tt.script)
			assert.Equal(t, tt.want, exec.calls)
		})
	}
}
