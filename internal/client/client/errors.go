package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postbox/internal/common"
	"github.com/dmitrijs2005/postbox/internal/protocol"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
)

// ServerError is a non-SUCCESS response. Reason is the server's text.
type ServerError struct {
	Code   protocol.ResponseCode
	Reason string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

// known maps server reply texts back to the sentinels they were built from.
var known = []error{
	common.ErrUsernameTaken,
	common.ErrInvalidRegistration,
	common.ErrPasswordTooLong,
	common.ErrInvalidCredentials,
	common.ErrUnknownRecipient,
	common.ErrSelfSend,
	common.ErrEmptyMailbox,
	common.ErrUnknownRequestType,
}

// Unwrap lets callers match server failures with errors.Is against the
// common sentinels.
func (e *ServerError) Unwrap() error {
	if e.Code == protocol.CodeUnauthorized {
		return common.ErrUnauthorized
	}
	for _, err := range known {
		if strings.HasPrefix(e.Reason, err.Error()) {
			return err
		}
	}
	return nil
}
