package tcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/postbox/internal/cryptox"
	"github.com/dmitrijs2005/postbox/internal/logging"
	"github.com/dmitrijs2005/postbox/internal/protocol"
	"github.com/dmitrijs2005/postbox/internal/server/config"
	"github.com/dmitrijs2005/postbox/internal/server/mailbox"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func testConfig(requireSession bool) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.EndpointAddr = "127.0.0.1:0"
	cfg.SecretKey = "test-secret"
	cfg.RequireSession = requireSession
	cfg.MaxFrameSize = 64 * 1024
	return cfg
}

func newTestServer(t *testing.T, requireSession bool) *Server {
	t.Helper()
	store, err := mailbox.NewStore(cryptox.NewPasswordHasher(bcrypt.MinCost))
	require.NoError(t, err)

	srv, err := NewServer(testConfig(requireSession), nopLogger{}, store)
	require.NoError(t, err)
	return srv
}

// startServer serves srv on a loopback port until the test ends.
func startServer(t *testing.T, srv *Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})
	return ln.Addr().String()
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn net.Conn, req *protocol.Request) *protocol.Response {
	t.Helper()
	require.NoError(t, protocol.WriteRequest(conn, req))
	resp, err := protocol.ReadResponse(conn, protocol.DefaultMaxFrameSize)
	require.NoError(t, err)
	return resp
}

func TestServe_StopsOnContextCancel(t *testing.T) {
	srv := newTestServer(t, false)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestServe_ReturnsErrorWhenListenerFails(t *testing.T) {
	srv := newTestServer(t, false)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ln.Close()

	err = srv.Serve(context.Background(), ln)
	require.Error(t, err)
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	cfg := testConfig(false)
	cfg.EndpointAddr = "127.0.0.1:99999"
	srv, err := NewServer(cfg, nopLogger{}, nil)
	require.NoError(t, err)

	require.Error(t, srv.Run(context.Background()))
}

func TestNewServer_Validation(t *testing.T) {
	cfg := testConfig(false)
	cfg.MaxFrameSize = 0
	_, err := NewServer(cfg, nopLogger{}, nil)
	require.Error(t, err)

	cfg = testConfig(false)
	cfg.SecretKey = ""
	srv, err := NewServer(cfg, nopLogger{}, nil)
	require.NoError(t, err)
	require.Len(t, srv.jwtSecret, 32)
}
