// Package winrm implements the remote Runner over Windows Remote Management.
//
// A new WinRM client is built for every command. Commands registered with the
// PowerShell shell are wrapped with winrm.Powershell, which base64-encodes
// them for powershell.exe -EncodedCommand.
package winrm

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/masterzen/winrm"

	"github.com/nadzzz/supportdesk/internal/config"
	"github.com/nadzzz/supportdesk/internal/registry"
	"github.com/nadzzz/supportdesk/internal/remote"
)

// Runner runs commands through a WinRM endpoint.
type Runner struct {
	cfg config.RemoteConfig
}

// New creates a new WinRM runner from config. Credentials are checked on
// every Run, not here, so a service without remote access can still classify.
func New(cfg config.RemoteConfig) *Runner {
	if cfg.InsecureSkipVerify() {
		slog.Warn("remote certificate validation disabled by configuration", "host", cfg.Host)
	}
	return &Runner{cfg: cfg}
}

// CheckCredentials returns remote.ErrMissingCredentials naming the first
// missing setting.
func CheckCredentials(cfg config.RemoteConfig) error {
	switch {
	case cfg.Host == "":
		return fmt.Errorf("%w: host is not configured", remote.ErrMissingCredentials)
	case cfg.Username == "":
		return fmt.Errorf("%w: username is not configured", remote.ErrMissingCredentials)
	case cfg.Password == "":
		return fmt.Errorf("%w: password is not configured", remote.ErrMissingCredentials)
	}
	return nil
}

// Run opens a session and executes cmd.
func (r *Runner) Run(ctx context.Context, cmd remote.Command) (*remote.Result, error) {
	if err := CheckCredentials(r.cfg); err != nil {
		return nil, err
	}

	client, err := r.client()
	if err != nil {
		return nil, err
	}

	text := cmd.Text
	if cmd.Shell != registry.ShellCmd {
		text = winrm.Powershell(text)
	}

	var stdout, stderr bytes.Buffer
	code, err := client.RunWithContext(ctx, text, &stdout, &stderr)
	if err != nil {
		return nil, fmt.Errorf("winrm run on %s: %w", r.cfg.Host, err)
	}

	slog.Debug("winrm command finished", "host", r.cfg.Host, "status_code", code,
		"stdout_bytes", stdout.Len(), "stderr_bytes", stderr.Len())
	return &remote.Result{
		Stdout:     stdout.Bytes(),
		Stderr:     stderr.Bytes(),
		StatusCode: code,
	}, nil
}

func (r *Runner) client() (*winrm.Client, error) {
	https := r.cfg.HTTPS || strings.EqualFold(r.cfg.Transport, "ssl")
	endpoint := winrm.NewEndpoint(r.cfg.Host, r.cfg.Port, https, r.cfg.InsecureSkipVerify(),
		nil, nil, nil, r.cfg.Timeout)

	params := winrm.NewParameters("PT60S", "en-US", 153600)
	if strings.EqualFold(r.cfg.Transport, "ntlm") {
		params.TransportDecorator = func() winrm.Transporter { return &winrm.ClientNTLM{} }
	}

	client, err := winrm.NewClientWithParameters(endpoint, r.cfg.Username, r.cfg.Password, params)
	if err != nil {
		return nil, fmt.Errorf("creating winrm client for %s: %w", r.cfg.Host, err)
	}
	return client, nil
}
