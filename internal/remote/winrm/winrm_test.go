package winrm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/supportdesk/internal/config"
	"github.com/nadzzz/supportdesk/internal/remote"
)

func TestCheckCredentials(t *testing.T) {
	full := config.RemoteConfig{Host: "win01", Username: "svc", Password: "pw"}
	require.NoError(t, CheckCredentials(full))

	tests := []struct {
		name   string
		mutate func(*config.RemoteConfig)
		want   string
	}{
		{"host", func(c *config.RemoteConfig) { c.Host = "" }, "host"},
		{"username", func(c *config.RemoteConfig) { c.Username = "" }, "username"},
		{"password", func(c *config.RemoteConfig) { c.Password = "" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := full
			tt.mutate(&cfg)
			err := CheckCredentials(cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, remote.ErrMissingCredentials))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunWithoutCredentialsNeverDials(t *testing.T) {
	r := New(config.RemoteConfig{Host: "win01", Port: 5985, Transport: "ntlm"})
	_, err := r.Run(context.Background(), remote.Command{Text: "hostname"})
	assert.ErrorIs(t, err, remote.ErrMissingCredentials)
}
