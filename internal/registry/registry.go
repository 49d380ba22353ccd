// Package registry loads the operator-maintained allow-list that maps task
// names to remote commands.
//
// The registry is the sole source of truth for what may ever be executed.
// It is read from disk on every lookup so edits made between deployments
// take effect without a restart; nothing is cached.
//
// File format (JSON, or YAML when the extension is .yaml/.yml):
//
//	{
//	  "verify_port": {
//	    "command_text": "Test-NetConnection -ComputerName localhost -Port 443",
//	    "description": "Check the HTTPS listener"
//	  },
//	  "restart_web_service": {"command_text": "Restart-Service W3SVC"}
//	}
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Shell selects how the command text is run on the remote host.
type Shell string

const (
	// ShellPowerShell runs the command through powershell.exe (default).
	ShellPowerShell Shell = "powershell"

	// ShellCmd runs the command through cmd.exe as-is.
	ShellCmd Shell = "cmd"
)

// Entry is a single allow-listed command.
type Entry struct {
	// CommandText is run verbatim on the remote host.
	CommandText string `json:"command_text" yaml:"command_text"`

	// PowerShellCommand is the key older registry files use for CommandText.
	PowerShellCommand string `json:"powershell_command,omitempty" yaml:"powershell_command,omitempty"`

	// Description is shown by the CLI; it never reaches the remote host.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Shell defaults to ShellPowerShell when empty.
	Shell Shell `json:"shell,omitempty" yaml:"shell,omitempty"`
}

// Command returns the trimmed command text, preferring command_text over the
// legacy key.
func (e Entry) Command() string {
	if c := strings.TrimSpace(e.CommandText); c != "" {
		return c
	}
	return strings.TrimSpace(e.PowerShellCommand)
}

// ShellOrDefault returns the configured shell or ShellPowerShell.
func (e Entry) ShellOrDefault() Shell {
	if e.Shell == "" {
		return ShellPowerShell
	}
	return e.Shell
}

// Registry is an immutable snapshot of the registry file.
type Registry struct {
	path    string
	entries map[string]Entry
}

// Load reads and parses the registry file at path. An unreadable or
// unparsable file is returned as an error; it is never treated as empty.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading command registry: %w", err)
	}

	entries := make(map[string]Entry)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing command registry %s: %w", path, err)
	}

	for name, e := range entries {
		switch e.ShellOrDefault() {
		case ShellPowerShell, ShellCmd:
		default:
			return nil, fmt.Errorf("parsing command registry %s: task %q: unknown shell %q", path, name, e.Shell)
		}
	}

	return &Registry{path: path, entries: entries}, nil
}

// Lookup returns the entry for task and whether it is present.
func (r *Registry) Lookup(task string) (Entry, bool) {
	e, ok := r.entries[task]
	return e, ok
}

// Names returns every task name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the file the snapshot was loaded from.
func (r *Registry) Path() string { return r.path }

// Resolve loads the registry at path and looks up task in one step.
func Resolve(path, task string) (Entry, bool, error) {
	r, err := Load(path)
	if err != nil {
		return Entry{}, false, err
	}
	e, ok := r.Lookup(task)
	return e, ok, nil
}
