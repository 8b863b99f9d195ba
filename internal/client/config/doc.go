// Package config loads runtime configuration for the postbox CLI client.
//
// Values are layered: built-in defaults, then an optional JSON file named by
// -c or -config, then command-line flags.
//
//	-a string   host:port of the postbox server
//	-i int      dial and request timeout (seconds)
//
// JSON keys are "server_endpoint_addr" and "timeout"; the timeout accepts
// "5s" style strings or integer nanoseconds.
package config
