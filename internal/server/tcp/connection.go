package tcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"

	"github.com/dmitrijs2005/postbox/internal/common"
	"github.com/dmitrijs2005/postbox/internal/logging"
	"github.com/dmitrijs2005/postbox/internal/protocol"
	"github.com/dmitrijs2005/postbox/internal/server/metrics"
	"github.com/google/uuid"
)

// handleConnection runs the request loop for one peer: read a frame, decode
// it, dispatch, write exactly one response. Any read or decode failure and
// any write failure ends the loop and closes the connection without a
// further response.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	logger := s.logger.With("conn_id", uuid.NewString(), "peer", conn.RemoteAddr().String())

	metrics.ConnectionsTotal.Inc()
	metrics.ConnectionsCurrent.Inc()

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Connection handler panicked", "panic", r)
		}
		conn.Close()
		metrics.ConnectionsCurrent.Dec()
		logger.Info(ctx, "Connection closed")
	}()

	logger.Info(ctx, "Received connection")

	reader := bufio.NewReader(conn)
	for {
		req, err := protocol.ReadRequest(reader, s.maxFrameSize)
		if err != nil {
			logReadError(ctx, logger, err)
			return
		}

		resp := s.dispatch(ctx, logger, req)

		if err := protocol.WriteResponse(conn, resp); err != nil {
			logger.Warn(ctx, "Failed to write response", "error", err)
			return
		}
	}
}

func logReadError(ctx context.Context, logger logging.Logger, err error) {
	switch {
	case errors.Is(err, io.EOF):
		logger.Info(ctx, "Peer disconnected")
	case errors.Is(err, common.ErrMalformedFrame):
		metrics.FrameErrors.Inc()
		logger.Warn(ctx, "Malformed frame, closing connection", "error", err)
	default:
		logger.Warn(ctx, "Transport error, closing connection", "error", err)
	}
}
