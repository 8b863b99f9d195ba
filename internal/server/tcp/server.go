// Package tcp serves the postbox protocol over raw TCP: an accept loop that
// starts one goroutine per connection, and the per-connection request loop.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"github.com/dmitrijs2005/postbox/internal/logging"
	"github.com/dmitrijs2005/postbox/internal/protocol"
	"github.com/dmitrijs2005/postbox/internal/server/config"
	"github.com/dmitrijs2005/postbox/internal/shared"
)

// Store is the mailbox surface the handler dispatches to.
type Store interface {
	Register(ctx context.Context, displayName, userName, password string) error
	Authenticate(ctx context.Context, userName, password string) (string, error)
	Deposit(ctx context.Context, msg protocol.Message) error
	Drain(ctx context.Context, userName string) ([]protocol.Message, error)
}

// Server is the TCP message endpoint.
type Server struct {
	address         string
	store           Store
	logger          logging.Logger
	jwtSecret       []byte
	sessionValidity time.Duration
	requireSession  bool
	maxFrameSize    uint32
}

// NewServer builds a server from cfg. An empty cfg.SecretKey gets a random
// per-process key, so tokens do not survive a restart.
func NewServer(cfg *config.Config, l logging.Logger, store Store) (*Server, error) {
	if cfg.MaxFrameSize == 0 || cfg.MaxFrameSize > math.MaxUint32 {
		return nil, fmt.Errorf("invalid max frame size %d", cfg.MaxFrameSize)
	}

	secret := []byte(cfg.SecretKey)
	if len(secret) == 0 {
		secret = shared.GenerateRandByteArray(32)
	}

	return &Server{
		address:         cfg.EndpointAddr,
		store:           store,
		logger:          l.With("module", "tcp_server"),
		jwtSecret:       secret,
		sessionValidity: cfg.SessionValidityDuration,
		requireSession:  cfg.RequireSession,
		maxFrameSize:    uint32(cfg.MaxFrameSize),
	}, nil
}

// Run binds the configured address and serves until ctx is cancelled or
// accepting fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln, each handled on its own goroutine with no
// admission limit. Cancelling ctx closes ln and returns nil; connections
// already accepted keep running until their peers leave.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping TCP server...")
		case <-done:
		}
		ln.Close()
	}()

	s.logger.Info(ctx, "Starting TCP server", "address", ln.Addr().String())

	connCtx := context.WithoutCancel(ctx)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConnection(connCtx, conn)
	}
}
