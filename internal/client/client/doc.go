// Package client talks to a postbox server over its framed TCP protocol.
//
// A TCPClient owns one connection and sends one request at a time. LOGIN
// remembers the user and the session token it returns; later MESSAGE and
// DOWNLOAD requests act as that user and carry the token.
//
// Failures come in two shapes: transport problems wrap ErrUnavailable and
// leave the client unusable, while non-SUCCESS replies are *ServerError and
// leave the connection open.
package client
