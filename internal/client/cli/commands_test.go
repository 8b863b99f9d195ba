package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/postbox/internal/client/client"
	"github.com/dmitrijs2005/postbox/internal/client/config"
	"github.com/dmitrijs2005/postbox/internal/common"
	"github.com/dmitrijs2005/postbox/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	userName string
	password string

	registered []string
	sent       []protocol.Message
	inbox      []protocol.Message

	err    error
	closed bool
}

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) Register(_ context.Context, displayName, userName, password string) error {
	if f.err != nil {
		return f.err
	}
	f.registered = append(f.registered, displayName+"/"+userName+"/"+password)
	return nil
}

func (f *fakeClient) Login(_ context.Context, userName, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.userName, f.password = userName, password
	return strings.ToUpper(userName), nil
}

func (f *fakeClient) Logout()          { f.userName = "" }
func (f *fakeClient) UserName() string { return f.userName }

func (f *fakeClient) Send(_ context.Context, recipient, subject, body string) (protocol.Message, error) {
	if f.err != nil {
		return protocol.Message{}, f.err
	}
	m := protocol.NewMessage(f.userName, recipient, subject, body)
	f.sent = append(f.sent, m)
	return m, nil
}

func (f *fakeClient) Download(context.Context) ([]protocol.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.inbox) == 0 {
		return nil, &client.ServerError{Code: protocol.CodeError, Reason: common.ErrEmptyMailbox.Error()}
	}
	msgs := f.inbox
	f.inbox = nil
	return msgs, nil
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func newTestApp(fc *fakeClient, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{ServerEndpointAddr: "test:8000", Timeout: time.Second}
	return newApp(cfg, fc, strings.NewReader(input), &out), &out
}

func TestApp_RegisterAndLogin(t *testing.T) {
	stubPassword(t, "pw1")
	fc := &fakeClient{}
	app, out := newTestApp(fc, "Alice\nalice\nalice\n")

	require.NoError(t, app.Register(context.Background()))
	assert.Equal(t, []string{"Alice/alice/pw1"}, fc.registered)

	require.NoError(t, app.Login(context.Background()))
	assert.Equal(t, "alice", fc.userName)
	assert.Equal(t, "pw1", fc.password)
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "(alice) ", app.getStatus())
	assert.Contains(t, out.String(), "Welcome, ALICE!")

	require.NoError(t, app.Logout(context.Background()))
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "", app.getStatus())
}

func TestApp_ReportsServerErrors(t *testing.T) {
	stubPassword(t, "pw")
	fc := &fakeClient{err: &client.ServerError{Code: protocol.CodeError, Reason: "wrong username or password"}}
	app, out := newTestApp(fc, "alice\n")

	err := app.Login(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Contains(t, out.String(), "Error: wrong username or password")
	assert.False(t, app.isLoggedIn())
}

func TestApp_ReportsUnavailable(t *testing.T) {
	fc := &fakeClient{userName: "alice", err: errors.Join(client.ErrUnavailable, errors.New("EOF"))}
	app, out := newTestApp(fc, "")

	err := app.Receive(context.Background())
	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.Contains(t, out.String(), "Server unavailable")
}

func TestApp_SendRequiresLogin(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(fc, "bob\nhi\nbody\n\n")

	assert.ErrorIs(t, app.Send(context.Background()), client.ErrNotLoggedIn)
	assert.ErrorIs(t, app.Receive(context.Background()), client.ErrNotLoggedIn)
	assert.Contains(t, out.String(), "Please log in first.")
	assert.Empty(t, fc.sent)
}

func TestApp_Send(t *testing.T) {
	fc := &fakeClient{userName: "alice"}
	app, out := newTestApp(fc, "bob\nhi\nline one\nline two\n\n")

	require.NoError(t, app.Send(context.Background()))
	require.Len(t, fc.sent, 1)
	assert.Equal(t, "bob", fc.sent[0].Recipient)
	assert.Equal(t, "hi", fc.sent[0].Subject)
	assert.Equal(t, "line one\nline two", fc.sent[0].Body)
	assert.Contains(t, out.String(), "Message sent.")
}

func TestApp_Receive(t *testing.T) {
	first := protocol.NewMessage("bob", "alice", "first", "one")
	second := protocol.NewMessage("carol", "alice", "second", "two")
	fc := &fakeClient{userName: "alice", inbox: []protocol.Message{first, second}}
	app, out := newTestApp(fc, "2\n9\nx\n1\n\n")

	require.NoError(t, app.Receive(context.Background()))

	text := out.String()
	assert.Contains(t, text, "You have 2 new message(s):")
	assert.Contains(t, text, second.String())
	assert.Contains(t, text, first.String())
	assert.Equal(t, 2, strings.Count(text, "Pick a number from 1 to 2"))
	assert.Less(t, strings.Index(text, second.String()), strings.Index(text, first.String()))

	out.Reset()
	require.NoError(t, app.Receive(context.Background()))
	assert.Contains(t, out.String(), "There are no messages.")
}

func TestApp_Run(t *testing.T) {
	fc := &fakeClient{}
	app, out := newTestApp(fc, "help\nexit\n")

	app.Run(context.Background())

	assert.True(t, fc.closed)
	assert.Contains(t, out.String(), "Connected to test:8000")
	assert.Contains(t, out.String(), "Bye!")
}
