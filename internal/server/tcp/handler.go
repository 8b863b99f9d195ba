package tcp

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/postbox/internal/common"
	"github.com/dmitrijs2005/postbox/internal/logging"
	"github.com/dmitrijs2005/postbox/internal/protocol"
	"github.com/dmitrijs2005/postbox/internal/server/auth"
	"github.com/dmitrijs2005/postbox/internal/server/metrics"
	"github.com/google/uuid"
)

const (
	replyRegistered     = "registered"
	replySent           = "sent"
	replyUnknownRequest = "unknown request type"
	replyUnexpectedBody = "unexpected body"
	replyInternal       = "internal error"
)

// dispatch routes one request to the store and builds its response. Domain
// failures become ERROR, BAD_REQUEST or UNAUTHORIZED responses; none of them
// end the connection.
func (s *Server) dispatch(ctx context.Context, logger logging.Logger, req *protocol.Request) *protocol.Response {
	var resp *protocol.Response

	switch req.Type {
	case protocol.RequestRegister:
		resp = s.handleRegister(ctx, logger, req)
	case protocol.RequestLogin:
		resp = s.handleLogin(ctx, logger, req)
	case protocol.RequestMessage:
		resp = s.handleMessage(ctx, logger, req)
	case protocol.RequestDownload:
		resp = s.handleDownload(ctx, logger, req)
	default:
		logger.Warn(ctx, "Unknown request type", "type", req.Type)
		resp = protocol.NewTextResponse(protocol.CodeBadRequest, replyUnknownRequest)
	}

	metrics.RequestsTotal.WithLabelValues(metrics.KnownRequestType(string(req.Type)), string(resp.Code)).Inc()
	return resp
}

func (s *Server) handleRegister(ctx context.Context, logger logging.Logger, req *protocol.Request) *protocol.Response {
	body, ok := req.Body.(protocol.Registration)
	if !ok {
		return unexpectedBody(ctx, logger, req)
	}

	if err := s.store.Register(ctx, body.DisplayName, body.Username, body.Password); err != nil {
		logger.Info(ctx, "Registration rejected", "username", body.Username, "reason", err)
		return s.errorResponse(ctx, logger, err)
	}

	logger.Info(ctx, "User registered", "username", body.Username)
	return protocol.NewTextResponse(protocol.CodeSuccess, replyRegistered)
}

func (s *Server) handleLogin(ctx context.Context, logger logging.Logger, req *protocol.Request) *protocol.Response {
	body, ok := req.Body.(protocol.Credentials)
	if !ok {
		return unexpectedBody(ctx, logger, req)
	}

	displayName, err := s.store.Authenticate(ctx, body.Username, body.Password)
	if err != nil {
		logger.Info(ctx, "Login rejected", "username", body.Username)
		return s.errorResponse(ctx, logger, err)
	}

	token, err := auth.GenerateToken(body.Username, s.jwtSecret, s.sessionValidity)
	if err != nil {
		logger.Error(ctx, "Failed to issue session token", "error", err)
		return protocol.NewTextResponse(protocol.CodeError, replyInternal)
	}

	logger.Info(ctx, "User logged in", "username", body.Username)
	return &protocol.Response{Code: protocol.CodeSuccess, Token: token, Content: protocol.Text(displayName)}
}

func (s *Server) handleMessage(ctx context.Context, logger logging.Logger, req *protocol.Request) *protocol.Response {
	msg, ok := req.Body.(protocol.Message)
	if !ok {
		return unexpectedBody(ctx, logger, req)
	}

	if err := s.authorize(req.Token, msg.Sender); err != nil {
		logger.Warn(ctx, "Message refused, no valid session", "sender", msg.Sender, "reason", err)
		return protocol.NewTextResponse(protocol.CodeUnauthorized, common.ErrUnauthorized.Error())
	}

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	if err := s.store.Deposit(ctx, msg); err != nil {
		logger.Info(ctx, "Message rejected", "sender", msg.Sender, "recipient", msg.Recipient, "reason", err)
		return s.errorResponse(ctx, logger, err)
	}

	metrics.MessagesDeposited.Inc()
	logger.Info(ctx, "Message sent", "sender", msg.Sender, "recipient", msg.Recipient, "message_id", msg.ID)
	return protocol.NewTextResponse(protocol.CodeSuccess, replySent)
}

func (s *Server) handleDownload(ctx context.Context, logger logging.Logger, req *protocol.Request) *protocol.Response {
	userName, ok := req.Body.(protocol.Username)
	if !ok {
		return unexpectedBody(ctx, logger, req)
	}

	if err := s.authorize(req.Token, string(userName)); err != nil {
		logger.Warn(ctx, "Download refused, no valid session", "username", userName, "reason", err)
		return protocol.NewTextResponse(protocol.CodeUnauthorized, common.ErrUnauthorized.Error())
	}

	msgs, err := s.store.Drain(ctx, string(userName))
	if err != nil {
		logger.Info(ctx, "Download found nothing", "username", userName)
		return s.errorResponse(ctx, logger, err)
	}

	metrics.MessagesDrained.Add(float64(len(msgs)))
	logger.Info(ctx, "Messages downloaded", "username", userName, "count", len(msgs))
	return &protocol.Response{Code: protocol.CodeSuccess, Content: protocol.Messages(msgs)}
}

// errorResponse maps store errors onto the reply text sent to the client.
// Unexpected errors are logged and reported as a generic internal error.
func (s *Server) errorResponse(ctx context.Context, logger logging.Logger, err error) *protocol.Response {
	switch {
	case errors.Is(err, common.ErrUsernameTaken),
		errors.Is(err, common.ErrInvalidRegistration),
		errors.Is(err, common.ErrPasswordTooLong),
		errors.Is(err, common.ErrUnknownRecipient),
		errors.Is(err, common.ErrSelfSend),
		errors.Is(err, common.ErrEmptyMailbox):
		return protocol.NewTextResponse(protocol.CodeError, err.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		return protocol.NewTextResponse(protocol.CodeError, common.ErrInvalidCredentials.Error())
	default:
		logger.Error(ctx, "Request failed", "error", err)
		return protocol.NewTextResponse(protocol.CodeError, replyInternal)
	}
}

func unexpectedBody(ctx context.Context, logger logging.Logger, req *protocol.Request) *protocol.Response {
	kind := "none"
	if req.Body != nil {
		kind = string(req.Body.Kind())
	}
	logger.Warn(ctx, "Unexpected body for request", "type", req.Type, "kind", kind)
	return protocol.NewTextResponse(protocol.CodeBadRequest, replyUnexpectedBody)
}
