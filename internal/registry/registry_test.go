package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/supportdesk/internal/registry"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := write(t, "commands.json", `{
		"verify_port": {"command_text": "Test-NetConnection -Port 443", "description": "https"},
		"restart_web_service": {"powershell_command": "  Restart-Service W3SVC  "},
		"line_server_review": {"command_text": "   "}
	}`)

	r, err := registry.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"line_server_review", "restart_web_service", "verify_port"}, r.Names())

	e, ok := r.Lookup("verify_port")
	require.True(t, ok)
	assert.Equal(t, "Test-NetConnection -Port 443", e.Command())
	assert.Equal(t, registry.ShellPowerShell, e.ShellOrDefault())

	e, ok = r.Lookup("restart_web_service")
	require.True(t, ok)
	assert.Equal(t, "Restart-Service W3SVC", e.Command())

	e, ok = r.Lookup("line_server_review")
	require.True(t, ok, "present-but-empty is still present")
	assert.Empty(t, e.Command())

	_, ok = r.Lookup("human_escalation")
	assert.False(t, ok)
}

func TestLoadYAML(t *testing.T) {
	path := write(t, "commands.yaml", `
verify_port:
  command_text: netstat -ano
  shell: cmd
`)

	e, ok, err := registry.Resolve(path, "verify_port")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "netstat -ano", e.Command())
	assert.Equal(t, registry.ShellCmd, e.ShellOrDefault())
}

func TestLoadMalformed(t *testing.T) {
	_, err := registry.Load(write(t, "commands.json", `{"verify_port": `))
	assert.Error(t, err)

	_, err = registry.Load(write(t, "commands.json", `{"verify_port": {"command_text": "x", "shell": "bash"}}`))
	assert.Error(t, err)

	_, err = registry.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestResolveReadsFreshEachCall(t *testing.T) {
	path := write(t, "commands.json", `{"verify_port": {"command_text": "first"}}`)

	e, ok, err := registry.Resolve(path, "verify_port")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", e.Command())

	require.NoError(t, os.WriteFile(path, []byte(`{"verify_port": {"command_text": "second"}}`), 0o600))

	e, ok, err = registry.Resolve(path, "verify_port")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", e.Command())
}
