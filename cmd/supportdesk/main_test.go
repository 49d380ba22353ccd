package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyLocal(t *testing.T) {
	out, err := run(t, "classify", "--local", "no", "responde", "el", "puerto", "443")
	require.NoError(t, err)
	assert.Contains(t, out, "intent:         verify_port")
	assert.Contains(t, out, "requires_human: false")
	assert.Contains(t, out, "backend:        local")
}

func TestClassifyLocalEscalates(t *testing.T) {
	out, err := run(t, "classify", "--local", "ayuda con algo raro")
	require.NoError(t, err)
	assert.Contains(t, out, "intent:         human_escalation")
	assert.Contains(t, out, "requires_human: true")
}

func TestRegistryCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowed_commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
verify_port:
  command_text: Test-NetConnection -ComputerName localhost -Port 443
restart_web_service:
  command_text: iisreset
  shell: cmd
line_server_review:
  command_text: ""
reboot_everything:
  command_text: shutdown /r
`), 0o600))

	out, err := run(t, "registry", "check", "--file", path)
	require.NoError(t, err)
	assert.Regexp(t, `verify_port\s+powershell\s+ok`, out)
	assert.Regexp(t, `restart_web_service\s+cmd\s+ok`, out)
	assert.Regexp(t, `line_server_review\s+powershell\s+no command configured`, out)
	assert.Regexp(t, `reboot_everything\s+-\s+ignored`, out)
}

func TestRegistryCheckMissingTask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowed_commands.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"verify_port": {"command_text": "hostname"}}`), 0o600))

	out, err := run(t, "registry", "check", "--file", path)
	require.NoError(t, err)
	assert.Regexp(t, `restart_web_service\s+-\s+not allowed`, out)
}

func TestRegistryCheckMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowed_commands.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"verify_port": `), 0o600))

	_, err := run(t, "registry", "check", "--file", path)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "supportdesk dev\n", out)
}
