// Package cli is the interactive postbox client: a line-oriented REPL over
// a client.Client connection.
package cli
