package client

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/dmitrijs2005/postbox/internal/protocol"
)

// TCPClient is a Client over one TCP connection. Calls are serialized.
type TCPClient struct {
	mu           sync.Mutex
	conn         net.Conn
	reader       *bufio.Reader
	maxFrameSize uint32

	userName string
	token    string
}

// Dial connects to the server at addr.
func Dial(ctx context.Context, addr string) (*TCPClient, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return newTCPClient(conn), nil
}

func newTCPClient(conn net.Conn) *TCPClient {
	return &TCPClient{
		conn:         conn,
		reader:       bufio.NewReader(conn),
		maxFrameSize: protocol.DefaultMaxFrameSize,
	}
}

func (c *TCPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// UserName returns the user of the current session, or "".
func (c *TCPClient) UserName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userName
}

// Logout forgets the session. The connection stays open.
func (c *TCPClient) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userName, c.token = "", ""
}

func (c *TCPClient) Register(ctx context.Context, displayName, userName, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.roundTrip(ctx, &protocol.Request{
		Type: protocol.RequestRegister,
		Body: protocol.Registration{DisplayName: displayName, Username: userName, Password: password},
	})
	return err
}

// Login authenticates and, on success, starts a session for userName. It
// returns the display name chosen at registration.
func (c *TCPClient) Login(ctx context.Context, userName, password string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.roundTrip(ctx, &protocol.Request{
		Type: protocol.RequestLogin,
		Body: protocol.Credentials{Username: userName, Password: password},
	})
	if err != nil {
		return "", err
	}

	displayName, _ := resp.Content.(protocol.Text)
	c.userName, c.token = userName, resp.Token
	return string(displayName), nil
}

// Send deposits a message from the logged-in user and returns it as sent.
func (c *TCPClient) Send(ctx context.Context, recipient, subject, body string) (protocol.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userName == "" {
		return protocol.Message{}, ErrNotLoggedIn
	}

	msg := protocol.NewMessage(c.userName, recipient, subject, body)
	if _, err := c.roundTrip(ctx, &protocol.Request{
		Type:  protocol.RequestMessage,
		Token: c.token,
		Body:  msg,
	}); err != nil {
		return protocol.Message{}, err
	}
	return msg, nil
}

// Download drains the logged-in user's mailbox. An empty mailbox is a
// *ServerError matching common.ErrEmptyMailbox.
func (c *TCPClient) Download(ctx context.Context) ([]protocol.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userName == "" {
		return nil, ErrNotLoggedIn
	}

	resp, err := c.roundTrip(ctx, &protocol.Request{
		Type:  protocol.RequestDownload,
		Token: c.token,
		Body:  protocol.Username(c.userName),
	})
	if err != nil {
		return nil, err
	}

	msgs, ok := resp.Content.(protocol.Messages)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected %T in download reply", ErrUnavailable, resp.Content)
	}
	return msgs, nil
}

// roundTrip writes req and reads its response. c.mu must be held. The
// context deadline, or cancellation, bounds the exchange; a transport
// failure drops the connection because the stream can no longer be trusted.
func (c *TCPClient) roundTrip(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("%w: connection closed", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn := c.conn
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, c.broken(err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if err := protocol.WriteRequest(conn, req); err != nil {
		return nil, c.broken(err)
	}
	resp, err := protocol.ReadResponse(c.reader, c.maxFrameSize)
	if err != nil {
		return nil, c.broken(err)
	}

	if resp.Code != protocol.CodeSuccess {
		reason, _ := resp.Content.(protocol.Text)
		return nil, &ServerError{Code: resp.Code, Reason: string(reason)}
	}
	return resp, nil
}

func (c *TCPClient) broken(err error) error {
	_ = c.conn.Close()
	c.conn = nil
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
