// Package remote defines the interface for running a command on a managed
// Windows host.
package remote

import (
	"context"
	"errors"

	"github.com/nadzzz/supportdesk/internal/registry"
)

// ErrMissingCredentials is returned when host, username or password is not
// configured.
var ErrMissingCredentials = errors.New("missing remote session credentials")

// Command is a single command to run. It is only ever built from a registry
// entry.
type Command struct {
	Text  string
	Shell registry.Shell
}

// Result is the raw outcome of a remote command.
type Result struct {
	Stdout     []byte
	Stderr     []byte
	StatusCode int
}

// Runner executes a command on the remote host.
type Runner interface {
	// Run blocks until the command exits or ctx expires. A non-zero status
	// code is reported in Result, not as an error.
	Run(ctx context.Context, cmd Command) (*Result, error)
}
