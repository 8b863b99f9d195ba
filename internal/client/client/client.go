package client

import (
	"context"

	"github.com/dmitrijs2005/postbox/internal/protocol"
)

// Client is the API the CLI drives. TCPClient implements it.
type Client interface {
	Close() error
	Register(ctx context.Context, displayName, userName, password string) error
	Login(ctx context.Context, userName, password string) (string, error)
	Logout()
	UserName() string
	Send(ctx context.Context, recipient, subject, body string) (protocol.Message, error)
	Download(ctx context.Context) ([]protocol.Message, error)
}
