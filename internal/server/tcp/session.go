package tcp

import (
	"github.com/dmitrijs2005/postbox/internal/common"
	"github.com/dmitrijs2005/postbox/internal/server/auth"
)

// authorize checks that token was issued to actingUser. It lets every
// request through unless the server enforces sessions, in which case the
// caller-supplied username is no longer trusted on its own.
func (s *Server) authorize(token, actingUser string) error {
	if !s.requireSession {
		return nil
	}
	if token == "" {
		return common.ErrUnauthorized
	}

	userName, err := auth.GetUserNameFromToken(token, s.jwtSecret)
	if err != nil {
		return err
	}
	if userName != actingUser {
		return common.ErrUnauthorized
	}
	return nil
}
