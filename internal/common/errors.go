// Package common defines sentinel errors shared by the server, the wire
// protocol and the client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Mailbox store errors.
	ErrUsernameTaken       = errors.New("username already registered")
	ErrInvalidRegistration = errors.New("username and password must not be empty")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
	ErrInvalidCredentials  = errors.New("wrong username or password")
	ErrUnknownRecipient    = errors.New("unknown recipient")
	ErrSelfSend            = errors.New("cannot send a message to yourself")
	ErrEmptyMailbox        = errors.New("no messages")

	// Protocol errors.
	ErrMalformedFrame     = errors.New("malformed frame")
	ErrUnknownRequestType = errors.New("unknown request type")

	// Session errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
