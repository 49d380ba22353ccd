// Package transport defines the interface for the service's network listeners.
//
// Each listener (HTTP API, gRPC health) implements this interface and is
// started by the serve command. Request handling lives in the listeners'
// collaborators; a transport only owns the socket and its lifecycle.
package transport

import "context"

// Transport is the interface that every listener must implement.
type Transport interface {
	// Name returns the transport identifier (e.g., "http", "grpc").
	Name() string

	// Listen starts accepting connections. It blocks until the context is
	// cancelled or the listener fails.
	Listen(ctx context.Context) error

	// Close gracefully shuts down the transport, draining in-flight work.
	Close() error
}
