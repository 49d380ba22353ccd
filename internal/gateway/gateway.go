// Package gateway implements the execution gateway: the only path by which a
// remote command is ever run.
//
// A command is run only when a classified intent resolves to an entry in the
// command registry. No caller can pass command text in; the gateway takes an
// intent.Intent, looks it up, and runs exactly what the operator registered.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/nadzzz/supportdesk/internal/intent"
	"github.com/nadzzz/supportdesk/internal/registry"
	"github.com/nadzzz/supportdesk/internal/remote"
)

// Failure classes. Callers distinguish them with errors.Is.
var (
	ErrUnauthorizedTask   = errors.New("task not allowed")
	ErrMisconfiguredTask  = errors.New("task has no command configured")
	ErrMissingCredentials = remote.ErrMissingCredentials
	ErrRemoteExecution    = errors.New("remote execution failed")
)

// NoOutput is returned when a command succeeds without writing anything.
const NoOutput = "Comando ejecutado sin salida."

const defaultTimeout = 5 * time.Minute

// RemoteError reports a command that ran and exited non-zero.
type RemoteError struct {
	Task       string
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string { return e.Detail }

// Is makes errors.Is(err, ErrRemoteExecution) hold for every RemoteError.
func (e *RemoteError) Is(target error) bool { return target == ErrRemoteExecution }

// Options configures a Gateway.
type Options struct {
	// RegistryPath is re-read on every Execute.
	RegistryPath string

	// Timeout bounds a single remote command. Zero means five minutes.
	Timeout time.Duration

	// OutputEncoding names the encoding of the remote output streams
	// (e.g. "utf-8", "windows-1252", "IBM850"). Empty means UTF-8.
	OutputEncoding string
}

// Gateway authorizes and runs registry commands.
type Gateway struct {
	registryPath string
	timeout      time.Duration
	decoder      encoding.Encoding // nil for UTF-8
	runner       remote.Runner
}

// New creates a Gateway. An unknown output encoding is a configuration error.
func New(runner remote.Runner, opts Options) (*Gateway, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var dec encoding.Encoding
	if name := strings.TrimSpace(opts.OutputEncoding); name != "" && !strings.EqualFold(name, "utf-8") && !strings.EqualFold(name, "utf8") {
		enc, err := ianaindex.IANA.Encoding(name)
		if err != nil {
			return nil, fmt.Errorf("remote output encoding %q: %w", name, err)
		}
		if enc == nil {
			return nil, fmt.Errorf("remote output encoding %q: not supported", name)
		}
		dec = enc
	}

	return &Gateway{
		registryPath: opts.RegistryPath,
		timeout:      timeout,
		decoder:      dec,
		runner:       runner,
	}, nil
}

// Execute resolves task through the registry and runs its command.
//
// The remote command runs detached from ctx cancellation: once started it is
// only bounded by the gateway timeout.
func (g *Gateway) Execute(ctx context.Context, task intent.Intent) (string, error) {
	name := task.String()
	logger := slog.With("task", name)

	if !task.Executable() {
		return "", fmt.Errorf("%w: %s", ErrUnauthorizedTask, name)
	}

	entry, ok, err := registry.Resolve(g.registryPath, name)
	if err != nil {
		return "", err
	}
	if !ok {
		logger.Warn("task not in command registry", "registry", g.registryPath)
		return "", fmt.Errorf("%w: %s", ErrUnauthorizedTask, name)
	}

	command := entry.Command()
	if command == "" {
		logger.Warn("task has empty command text", "registry", g.registryPath)
		return "", fmt.Errorf("%w: %s", ErrMisconfiguredTask, name)
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	start := time.Now()
	logger.Info("executing remote task", "shell", entry.ShellOrDefault())
	res, err := g.runner.Run(runCtx, remote.Command{Text: command, Shell: entry.ShellOrDefault()})
	if err != nil {
		logger.Error("remote task failed to run", "error", err)
		return "", err
	}

	combined := joinNonEmpty(g.decode(res.Stdout), g.decode(res.Stderr))
	logger.Info("remote task finished", "status_code", res.StatusCode, "duration", time.Since(start))

	if res.StatusCode != 0 {
		detail := combined
		if detail == "" {
			detail = fmt.Sprintf("Error remoto. status_code=%d", res.StatusCode)
		}
		return "", &RemoteError{Task: name, StatusCode: res.StatusCode, Detail: detail}
	}

	if combined == "" {
		return NoOutput, nil
	}
	return combined, nil
}

// decode converts a stream to trimmed UTF-8, replacing undecodable bytes.
func (g *Gateway) decode(b []byte) string {
	if g.decoder != nil {
		if out, err := g.decoder.NewDecoder().Bytes(b); err == nil {
			b = out
		}
	}
	return strings.TrimSpace(string(bytes.ToValidUTF8(b, []byte("\uFFFD"))))
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}
